// Package export writes filtered datasets and agent reports as xlsx workbooks.
package export

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"monitor-insights-go/internal/textnorm"
	"monitor-insights-go/internal/types"
)

const (
	DatasetSheet  = "Dados Filtrados"
	DatasetPrefix = "monitoria_export"
	ReportPrefix  = "relatorio"

	dateFormat = "dd/mm/yyyy hh:mm"
)

// FileName returns prefix_YYYYMMDD_HHMMSS.xlsx.
func FileName(prefix string, now time.Time) string {
	return fmt.Sprintf("%s_%s.xlsx", prefix, now.Format("20060102_150405"))
}

// ReportFileName names the workbook of an agent report.
func ReportFileName(agent string, now time.Time) string {
	slug := strings.ReplaceAll(textnorm.Fold(agent), " ", "_")
	if slug == "" {
		slug = "agente"
	}
	return FileName(ReportPrefix+"_"+slug, now)
}

type styles struct {
	header int
	date   int
	pct    int
}

func newStyles(f *excelize.File) (styles, error) {
	var s styles
	var err error
	if s.header, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"C8102E"}},
	}); err != nil {
		return s, err
	}
	format := dateFormat
	if s.date, err = f.NewStyle(&excelize.Style{CustomNumFmt: &format}); err != nil {
		return s, err
	}
	pctFormat := "0.0"
	if s.pct, err = f.NewStyle(&excelize.Style{CustomNumFmt: &pctFormat}); err != nil {
		return s, err
	}
	return s, nil
}

// WriteDataset writes ds to w with the header and row shape of the source
// sheet. Date columns are written as dates and score or checklist columns as
// numbers; every other cell keeps its original text.
func WriteDataset(w io.Writer, ds *types.Dataset) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", DatasetSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	st, err := newStyles(f)
	if err != nil {
		return fmt.Errorf("styles: %w", err)
	}

	header := ds.Schema.Header
	if err := writeHeader(f, DatasetSheet, header, st.header); err != nil {
		return err
	}

	kinds := columnKinds(ds.Schema)
	for i, r := range ds.Records {
		row := make([]any, len(header))
		for c := range header {
			row[c] = cellValue(r, c, kinds[c], ds.Schema)
		}
		if err := writeRow(f, DatasetSheet, i+2, row); err != nil {
			return err
		}
	}

	for c, k := range kinds {
		if k != kindDate {
			continue
		}
		col, err := excelize.ColumnNumberToName(c + 1)
		if err != nil {
			return err
		}
		if err := f.SetColStyle(DatasetSheet, col, st.date); err != nil {
			return fmt.Errorf("date style: %w", err)
		}
		if err := f.SetColWidth(DatasetSheet, col, col, 18); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(DatasetSheet, "A1", lastHeaderCell(len(header)), st.header); err != nil {
		return fmt.Errorf("header style: %w", err)
	}

	return f.Write(w)
}

type kind int

const (
	kindText kind = iota
	kindDate
	kindNumber
	kindInteger
)

func columnKinds(s types.Schema) []kind {
	kinds := make([]kind, len(s.Header))
	set := func(i int, k kind) {
		if i >= 0 && i < len(kinds) {
			kinds[i] = k
		}
	}
	set(s.Index(types.FieldAnalysisTime), kindDate)
	set(s.Index(types.FieldCallTime), kindDate)
	set(s.Index(types.FieldRawScore), kindNumber)
	set(s.Index(types.FieldPercentage), kindNumber)
	set(s.Index(types.FieldIDAnalysis), kindInteger)
	for q := 0; q < types.CriteriaCount; q++ {
		if s.HasCriterion(q) {
			set(s.Criteria[q], kindNumber)
		}
	}
	return kinds
}

func cellValue(r types.Record, c int, k kind, s types.Schema) any {
	raw := ""
	if c < len(r.Cells) {
		raw = r.Cells[c]
	}
	switch k {
	case kindDate:
		if c == s.Index(types.FieldAnalysisTime) {
			return r.AnalysisTime
		}
		if !r.CallTime.IsZero() {
			return r.CallTime
		}
		return nil
	case kindNumber:
		if v, ok := textnorm.ParseNumber(raw); ok {
			return v
		}
	case kindInteger:
		if n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64); err == nil && strconv.FormatInt(n, 10) == strings.TrimSpace(raw) {
			return n
		}
	}
	if raw == "" {
		return nil
	}
	return raw
}

func writeHeader(f *excelize.File, sheet string, header []string, style int) error {
	row := make([]any, len(header))
	for i, h := range header {
		row[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &row); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if len(header) == 0 {
		return nil
	}
	return f.SetCellStyle(sheet, "A1", lastHeaderCell(len(header)), style)
}

func writeRow(f *excelize.File, sheet string, n int, row []any) error {
	cell, err := excelize.CoordinatesToCellName(1, n)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &row); err != nil {
		return fmt.Errorf("write row %d: %w", n, err)
	}
	return nil
}

func lastHeaderCell(width int) string {
	cell, err := excelize.CoordinatesToCellName(max(width, 1), 1)
	if err != nil {
		return "A1"
	}
	return cell
}
