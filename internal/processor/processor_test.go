package processor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"monitor-insights-go/internal/dataset"
	"monitor-insights-go/internal/pipeline"
	"monitor-insights-go/internal/report"
	"monitor-insights-go/internal/sheettest"
	"monitor-insights-go/internal/types"
)

var now = time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)

func load(t *testing.T, w sheettest.Workbook) *types.Dataset {
	t.Helper()
	ds, err := pipeline.New(nil).Run(sheettest.Build(t, w))
	require.NoError(t, err)
	return ds
}

func standard(t *testing.T) *types.Dataset {
	return load(t, sheettest.Workbook{Rows: [][]any{
		sheettest.Row("1", "2024-01-01 09:00:00", "Alice", "ACME", 81, "satisfeita", "BAIXO", "resolvido", 1, 0, 1),
		sheettest.Row("2", "2024-01-01 15:00:00", "Alice", "ACME", 40.5, "BOA", "BAIXO", "resolvido", 1, 0, 0),
		sheettest.Row("3", "2024-01-03 10:00:00", "Bob", "Globex", 60.75, "RUIM", "ALTO", "", 0, 0, 1),
		sheettest.Row("4", "2024-01-09 10:00:00", "Carla", "Globex", 72.9, "talvez", "MEDIO", "agendado", 1, 1, 1),
	}})
}

func kinds(ws []Warning) map[string]WarningKind {
	out := map[string]WarningKind{}
	for _, w := range ws {
		out[w.View] = w.Kind
	}
	return out
}

func TestBuildDashboard(t *testing.T) {
	d := BuildDashboard(standard(t), dataset.FilterSpec{}, now)

	assert.Empty(t, d.Warnings)
	assert.Equal(t, 4, d.Records)
	assert.Equal(t, 4, d.KPIs.Total)
	assert.InDelta(t, 78.75, d.KPIs.MeanScore, 1e-9)
	assert.Equal(t, 50.0, d.KPIs.LowRiskPct)
	assert.Equal(t, 1, d.KPIs.LastWeek)

	require.NotNil(t, d.ScoreStats)
	assert.Equal(t, 4, d.ScoreStats.Count)

	require.Len(t, d.TopAgents, 3)
	assert.Equal(t, "Carla", d.TopAgents[0].Key)
	assert.Equal(t, "Alice", d.TopAgents[1].Key)
	assert.Empty(t, d.Training, "nobody has ten calls")

	require.Len(t, d.Daily, 3)
	assert.Equal(t, "2024-01-01", d.Daily[0].Key)
	assert.Equal(t, "2024-01-09", d.Daily[2].Key)

	require.Len(t, d.Criteria, 3)
	require.Len(t, d.Weak, 1)
	assert.Equal(t, "Dados Cadastrais", d.Weak[0].Name)

	assert.Len(t, d.Companies, 2)
	assert.Equal(t, "Resolvido", d.Outcomes[0].Label)
	assert.NotEmpty(t, d.Alerts)
}

func TestBuildDashboardEmptyFilter(t *testing.T) {
	d := BuildDashboard(standard(t), dataset.FilterSpec{Agents: []string{"Zed"}}, now)

	got := kinds(d.Warnings)
	assert.Equal(t, EmptyResult, got["kpis"])
	assert.Equal(t, EmptyResult, got["daily"])
	assert.Equal(t, EmptyResult, got["criteria"])
	assert.Empty(t, d.Daily)
	assert.Equal(t, 0, d.KPIs.Total)
}

func TestBuildDashboardMissingColumns(t *testing.T) {
	ds := load(t, sheettest.Workbook{
		Header: []string{"AnalysisDateTime", "CustomerAgent", "NOTAS", "Question1"},
		Rows: [][]any{
			{"2024-01-02", "Alice", 81, 1},
			{"2024-01-03", "Bob", 60, 0},
		},
	})

	d := BuildDashboard(ds, dataset.FilterSpec{}, now)

	got := kinds(d.Warnings)
	assert.Equal(t, MissingColumn, got["risk"])
	assert.Equal(t, MissingColumn, got["satisfaction"])
	assert.Equal(t, MissingColumn, got["companies"])
	assert.Equal(t, MissingColumn, got["outcomes"])
	assert.NotContains(t, got, "agents")
	assert.Equal(t, 0.0, d.KPIs.LowRiskPct)
	assert.Len(t, d.TopAgents, 2)
	assert.Len(t, d.Daily, 2)
}

func TestRenderIsolatesPanics(t *testing.T) {
	ds := &types.Dataset{Schema: types.NewSchema(nil)}
	ran := false

	ws := render(ds, []view{
		{name: "broken", run: func() bool { panic("boom") }},
		{name: "after", run: func() bool { ran = true; return false }},
	})

	require.Len(t, ws, 1)
	assert.Equal(t, Warning{Kind: ViewFailed, View: "broken", Message: "boom"}, ws[0])
	assert.True(t, ran, "later views still run")
}

func TestBuildAgentView(t *testing.T) {
	ds := standard(t)

	v, err := BuildAgentView(ds, dataset.FilterSpec{Agents: []string{"Bob"}}, "Alice", now)
	require.NoError(t, err)

	assert.Equal(t, "Alice", v.Agent)
	assert.Equal(t, 2, v.KPIs.Total)
	assert.InDelta(t, 75.0, v.KPIs.MeanScore, 1e-9)
	assert.Equal(t, "meets_target", string(v.Status))
	assert.InDelta(t, 78.75, v.FleetMean, 1e-9)
	require.NotNil(t, v.Trend)
	assert.InDelta(t, -50.0, v.Trend.Delta, 1e-9)
	require.Len(t, v.Weak, 2)
	assert.Equal(t, "Dados Cadastrais", v.Weak[0].Name)
	require.Len(t, v.Strong, 1)
	assert.Equal(t, "Saudação", v.Strong[0].Name)

	_, err = BuildAgentView(ds, dataset.FilterSpec{}, "Zed", now)
	assert.ErrorIs(t, err, report.ErrUnknownAgent)
}
