package dataset

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"monitor-insights-go/internal/textnorm"
	"monitor-insights-go/internal/types"
)

// SheetName is the only sheet the loader reads.
const SheetName = "Consulta1"

// Day-first layouts come before month-first ones: the sheets are exported
// with the pt-BR locale.
var dateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	time.RFC3339,
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"02/01/2006",
	"2/1/2006 15:04:05",
	"2/1/2006 15:04",
	"2/1/2006",
}

// Fingerprint is the content address of an upload.
func Fingerprint(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Parse reads the Consulta1 sheet of an xlsx workbook. It fails with a
// *SchemaError when the sheet is missing and with a *ParseError when the
// workbook or a date cell cannot be read; no partial dataset is returned.
func Parse(data []byte) (*types.Dataset, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, &ParseError{Err: fmt.Errorf("open workbook: %w", err)}
	}
	defer f.Close()

	if !slices.Contains(f.GetSheetList(), SheetName) {
		return nil, &SchemaError{Sheet: SheetName, Reason: "sheet not found"}
	}
	rows, err := f.GetRows(SheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, &ParseError{Err: fmt.Errorf("read rows: %w", err)}
	}
	if len(rows) == 0 {
		return nil, &SchemaError{Sheet: SheetName, Reason: "header row missing"}
	}

	schema := resolveSchema(rows[0])
	if !schema.Has(types.FieldAnalysisTime) {
		return nil, &ParseError{Column: types.FieldAnalysisTime.Header(), Err: errors.New("column missing")}
	}

	records := make([]types.Record, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if isBlank(row) {
			continue
		}
		rec, err := parseRow(schema, row, i+2)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	return &types.Dataset{
		ID:          uuid.New().String(),
		Fingerprint: Fingerprint(data),
		LoadedAt:    time.Now(),
		Schema:      schema,
		Records:     records,
	}, nil
}

func parseRow(s types.Schema, row []string, sheetRow int) (types.Record, error) {
	get := func(f types.Field) string {
		return cell(row, s.Index(f))
	}

	rec := types.Record{
		Row:             sheetRow,
		IDAnalysis:      strings.TrimSpace(get(types.FieldIDAnalysis)),
		Agent:           strings.TrimSpace(get(types.FieldAgent)),
		Company:         strings.TrimSpace(get(types.FieldCompany)),
		Mp3FileName:     strings.TrimSpace(get(types.FieldMp3FileName)),
		Justification:   get(types.FieldJustification),
		SatisfactionRaw: get(types.FieldSatisfaction),
		RiskRaw:         get(types.FieldRisk),
		OutcomeRaw:      get(types.FieldOutcome),
		Cells:           padRow(row, len(s.Header)),
	}

	raw := get(types.FieldAnalysisTime)
	at, err := parseTime(raw)
	if err != nil {
		return rec, &ParseError{Row: sheetRow, Column: types.FieldAnalysisTime.Header(), Value: raw, Err: err}
	}
	rec.AnalysisTime = at

	if raw := strings.TrimSpace(get(types.FieldCallTime)); raw != "" {
		ct, err := parseTime(raw)
		if err != nil {
			return rec, &ParseError{Row: sheetRow, Column: types.FieldCallTime.Header(), Value: raw, Err: err}
		}
		rec.CallTime = ct
	}

	if v, ok := textnorm.ParseNumber(get(types.FieldRawScore)); ok {
		rec.RawScore = &v
	}

	for q := 0; q < types.CriteriaCount; q++ {
		if s.HasCriterion(q) {
			rec.Checklist[q] = parseAnswer(cell(row, s.Criteria[q]))
		}
	}
	return rec, nil
}

func parseTime(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, errors.New("empty date")
	}
	if serial, ok := textnorm.ParseNumber(s); ok {
		if serial <= 0 {
			return time.Time{}, fmt.Errorf("invalid date serial %v", serial)
		}
		return excelize.ExcelDateToTime(serial, false)
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.New("unrecognized date format")
}

func parseAnswer(raw string) types.Answer {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "1", "1.0", "TRUE", "VERDADEIRO", "SIM", "S":
		return types.Pass
	case "0", "0.0", "FALSE", "FALSO", "NÃO", "NAO", "N":
		return types.Fail
	default:
		return types.NotEvaluated
	}
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

func padRow(row []string, width int) []string {
	out := make([]string, max(width, len(row)))
	copy(out, row)
	return out
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
