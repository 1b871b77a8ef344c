// Package sheettest builds in-memory monitoring workbooks for tests.
package sheettest

import (
	"testing"

	"github.com/xuri/excelize/v2"
)

// Header is the column layout of a typical Consulta1 export.
var Header = []string{
	"IdAnalysis", "AnalysisDateTime", "CallDate", "CustomerAgent", "Empresas",
	"NOTAS", "Client", "ClientRisk", "ClientOutcome",
	"Question1", "Question2", "Question3", "Question4", "Question5", "Question6",
	"Question7", "Question8", "Question9", "Question10", "Question11", "Question12",
	"Mp3FileName", "Justification",
}

type Workbook struct {
	Sheet  string
	Header []string
	Rows   [][]any
}

// Build writes w as an xlsx file and returns its bytes.
func Build(t testing.TB, w Workbook) []byte {
	t.Helper()
	if w.Sheet == "" {
		w.Sheet = "Consulta1"
	}
	if w.Header == nil {
		w.Header = Header
	}

	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", w.Sheet); err != nil {
		t.Fatalf("rename sheet: %v", err)
	}
	header := make([]any, len(w.Header))
	for i, h := range w.Header {
		header[i] = h
	}
	if err := f.SetSheetRow(w.Sheet, "A1", &header); err != nil {
		t.Fatalf("write header: %v", err)
	}
	for i, row := range w.Rows {
		r := row
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := f.SetSheetRow(w.Sheet, cell, &r); err != nil {
			t.Fatalf("write row %d: %v", i+2, err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return buf.Bytes()
}

// Row builds a row for Header. checks holds Question1..N values; use nil for
// a criterion that was not evaluated.
func Row(id, analysis, agent, company string, notas any, client, risk, outcome string, checks ...any) []any {
	row := []any{id, analysis, analysis, agent, company, notas, client, risk, outcome}
	for q := 0; q < 12; q++ {
		if q < len(checks) {
			row = append(row, checks[q])
		} else {
			row = append(row, nil)
		}
	}
	return append(row, id+".mp3", "")
}
