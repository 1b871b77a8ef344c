package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"

	"monitor-insights-go/internal/config"
	"monitor-insights-go/internal/export"
	"monitor-insights-go/internal/processor"
	"monitor-insights-go/internal/report"
	"monitor-insights-go/internal/sheettest"
)

func writeWorkbook(t *testing.T) string {
	t.Helper()
	data := sheettest.Build(t, sheettest.Workbook{Rows: [][]any{
		sheettest.Row("1", "2024-01-01 09:00:00", "Alice", "ACME", 81, "BOA", "BAIXO", "resolvido", 1, 0),
		sheettest.Row("2", "2024-01-02 09:00:00", "Alice", "ACME", 40.5, "BOA", "BAIXO", "", 1, 0),
		sheettest.Row("3", "2024-01-03 09:00:00", "Bob", "Globex", 60.75, "RUIM", "ALTO", "", 0, 1),
	}})
	path := filepath.Join(t.TempDir(), "monitoria.xlsx")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand(config.Config{ReadRetry: time.Second, LogLevel: "error", EvaluatorName: "QA"})
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestDashboardJSON(t *testing.T) {
	file := writeWorkbook(t)

	out, err := run(t, "dashboard", "--file", file, "--format", "json")
	require.NoError(t, err)

	var d processor.Dashboard
	require.NoError(t, json.Unmarshal([]byte(out), &d))
	assert.Equal(t, 3, d.KPIs.Total)
	assert.InDelta(t, 75.0, d.KPIs.MeanScore, 1e-9)
	require.NotEmpty(t, d.TopAgents)
	assert.Equal(t, "Alice", d.TopAgents[0].Key)
}

func TestDashboardAutoIsJSONWhenPiped(t *testing.T) {
	out, err := run(t, "dashboard", "--file", writeWorkbook(t), "--risk", "high")
	require.NoError(t, err)

	var d processor.Dashboard
	require.NoError(t, json.Unmarshal([]byte(out), &d))
	assert.Equal(t, 1, d.Records)
}

func TestDashboardYAML(t *testing.T) {
	out, err := run(t, "dashboard", "--file", writeWorkbook(t), "--format", "yaml", "--agent", "Bob")
	require.NoError(t, err)

	var d map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &d))
	assert.Equal(t, 1, d["records"])
}

func TestDashboardTable(t *testing.T) {
	out, err := run(t, "dashboard", "--file", writeWorkbook(t), "--format", "table")
	require.NoError(t, err)

	assert.Contains(t, out, "Indicadores")
	assert.Contains(t, out, "Top agentes")
	assert.Contains(t, out, "Alice")
	assert.Contains(t, out, "Dados Cadastrais")
}

func TestAgentCommand(t *testing.T) {
	file := writeWorkbook(t)

	out, err := run(t, "agent", "Alice", "--file", file, "--format", "json")
	require.NoError(t, err)
	var v processor.AgentView
	require.NoError(t, json.Unmarshal([]byte(out), &v))
	assert.Equal(t, 2, v.KPIs.Total)

	out, err = run(t, "agent", "Alice", "--file", file, "--format", "table")
	require.NoError(t, err)
	assert.Contains(t, out, "Critérios")

	_, err = run(t, "agent", "Zed", "--file", file, "--format", "json")
	assert.ErrorIs(t, err, report.ErrUnknownAgent)
}

func TestExportCommand(t *testing.T) {
	file := writeWorkbook(t)
	dest := filepath.Join(t.TempDir(), "out.xlsx")

	out, err := run(t, "export", "--file", file, "--company", "ACME", "--out", dest)
	require.NoError(t, err)
	assert.Contains(t, out, "2 registros")

	f, err := excelize.OpenFile(dest)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(export.DatasetSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}

func TestReportCommand(t *testing.T) {
	file := writeWorkbook(t)
	dest := filepath.Join(t.TempDir(), "alice.xlsx")

	_, err := run(t, "report", "Alice", "--file", file, "--out", dest)
	require.NoError(t, err)
	f, err := excelize.OpenFile(dest)
	require.NoError(t, err)
	defer f.Close()
	assert.Contains(t, f.GetSheetList(), export.SheetSignature)

	out, err := run(t, "report", "Alice", "--file", file, "--format", "json")
	require.NoError(t, err)
	var rep report.AgentReport
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.Equal(t, "QA", rep.Signature.Evaluator)
}

func TestCommandErrors(t *testing.T) {
	file := writeWorkbook(t)

	_, err := run(t, "dashboard")
	assert.ErrorContains(t, err, "no workbook")

	_, err = run(t, "dashboard", "--file", file, "--format", "xml")
	assert.ErrorContains(t, err, "unsupported format")

	_, err = run(t, "dashboard", "--file", file, "--from", "01/02/2024")
	assert.ErrorContains(t, err, "--from")

	_, err = run(t, "dashboard", "--file", file, "--risk", "critico")
	assert.ErrorContains(t, err, "--risk")

	_, err = run(t, "dashboard", "--file", filepath.Join(t.TempDir(), "missing.xlsx"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestResolveFormat(t *testing.T) {
	var buf bytes.Buffer
	got, err := resolveFormat("auto", &buf)
	require.NoError(t, err)
	assert.Equal(t, formatJSON, got)

	got, err = resolveFormat("yaml", &buf)
	require.NoError(t, err)
	assert.Equal(t, formatYAML, got)
}

func TestYAMLUsesJSONFieldNames(t *testing.T) {
	var buf bytes.Buffer
	v := struct {
		DatasetID string `json:"dataset_id"`
		Day       string `json:"day"`
	}{"abc", "2024-01-02"}

	require.NoError(t, emit(&buf, formatYAML, v, nil))

	assert.Contains(t, buf.String(), "dataset_id: abc")
	var back map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &back))
	assert.Equal(t, "2024-01-02", back["day"], "date-like strings stay strings")
}
