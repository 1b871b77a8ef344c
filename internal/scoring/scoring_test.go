package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"monitor-insights-go/internal/types"
)

func f(v float64) *float64 { return &v }

func dataset(header []string, recs ...types.Record) *types.Dataset {
	s := types.NewSchema(header)
	for i, h := range header {
		switch h {
		case "NOTAS":
			s.Columns[types.FieldRawScore] = i
		case "ClientRisk":
			s.Columns[types.FieldRisk] = i
		case "Empresas":
			s.Columns[types.FieldCompany] = i
		case "CustomerAgent":
			s.Columns[types.FieldAgent] = i
		}
	}
	return &types.Dataset{Schema: s, Records: recs}
}

func TestScorePct(t *testing.T) {
	t.Run("percentage wins", func(t *testing.T) {
		v, ok := ScorePct(types.Record{PercentageScore: f(87.5), RawScore: f(10)})
		assert.True(t, ok)
		assert.Equal(t, 87.5, v)
	})
	t.Run("raw points scaled", func(t *testing.T) {
		v, ok := ScorePct(types.Record{RawScore: f(40.5)})
		assert.True(t, ok)
		assert.InDelta(t, 50.0, v, 1e-9)
	})
	t.Run("undefined", func(t *testing.T) {
		_, ok := ScorePct(types.Record{})
		assert.False(t, ok)
	})
}

func TestResolvePercentageColumn(t *testing.T) {
	cases := []struct {
		name   string
		header []string
		idx    int
		ok     bool
	}{
		{"exact", []string{"NOTAS", "Avaliação 100 pts"}, 1, true},
		{"no accents upper case", []string{"AVALIACAO 100 PTS"}, 0, true},
		{"english", []string{"x", "evaluation 100 pts"}, 1, true},
		{"first spelling wins", []string{"Evaluation 100 pts", "Avaliação 100 pts"}, 1, true},
		{"absent", []string{"NOTAS", "Client"}, -1, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			idx, _, ok := ResolvePercentageColumn(tc.header)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.idx, idx)
		})
	}
}

func TestNormalizeRawScoreScenario(t *testing.T) {
	header := []string{"CustomerAgent", "NOTAS"}
	ds := dataset(header,
		types.Record{Agent: "Alice", RawScore: f(81), Cells: []string{"Alice", "81"}},
		types.Record{Agent: "Alice", RawScore: f(40.5), Cells: []string{"Alice", "40.5"}},
		types.Record{Agent: "Alice", RawScore: f(0), Cells: []string{"Alice", "0"}},
	)

	out := Normalize(ds)

	require.Len(t, out.Records, 2)
	assert.InDelta(t, 100.0, *out.Records[0].ScorePct, 1e-9)
	assert.InDelta(t, 50.0, *out.Records[1].ScorePct, 1e-9)
	assert.Equal(t, 1, out.Dropped.LowScore)
	assert.Len(t, ds.Records, 3, "input must not be modified")
	assert.Nil(t, ds.Records[0].ScorePct)
}

func TestNormalizePercentageColumn(t *testing.T) {
	header := []string{"NOTAS", "Avaliação 100 pts"}
	ds := dataset(header,
		types.Record{RawScore: f(81), Cells: []string{"81", "92,5"}},
		types.Record{RawScore: f(81), Cells: []string{"81", "n/a"}},
		types.Record{Cells: []string{"", "19.99"}},
		types.Record{Cells: []string{"", "19.98"}},
	)

	out := Normalize(ds)

	assert.True(t, out.Schema.Has(types.FieldPercentage))
	assert.Equal(t, "Avaliação 100 pts", out.Schema.PercentageColumn)
	assert.False(t, ds.Schema.Has(types.FieldPercentage), "input schema untouched")

	require.Len(t, out.Records, 3)
	assert.Equal(t, 92.5, *out.Records[0].ScorePct)
	assert.Nil(t, out.Records[1].PercentageScore)
	assert.InDelta(t, 100.0, *out.Records[1].ScorePct, 1e-9, "non-numeric percentage falls back to raw points")
	assert.Equal(t, 19.99, *out.Records[2].ScorePct)
	assert.Equal(t, 1, out.Dropped.LowScore)
}

func TestNormalizeFilters(t *testing.T) {
	header := []string{"CustomerAgent", "NOTAS", "ClientRisk", "Empresas"}
	ds := dataset(header,
		types.Record{Agent: "A", RawScore: f(81), RiskRaw: "BAIXO", Company: "X"},
		types.Record{Agent: "A", RawScore: f(81), RiskRaw: "INDETERMINADO", Company: "X"},
		types.Record{Agent: "A", RawScore: f(81), RiskRaw: "", Company: "X"},
		types.Record{Agent: "A", RawScore: f(81), RiskRaw: "alto", Company: ""},
		types.Record{Agent: "A", RiskRaw: "MEDIO", Company: "Y"},
	)

	out := Normalize(ds)

	require.Len(t, out.Records, 1)
	assert.Equal(t, types.DropCounts{LowScore: 1, UnknownRisk: 2, MissingCompany: 1}, out.Dropped)
	for _, r := range out.Records {
		s, ok := r.Score()
		assert.True(t, ok)
		assert.GreaterOrEqual(t, s, MinValidScore)
	}
}

func TestNormalizeWithoutOptionalColumns(t *testing.T) {
	ds := dataset([]string{"CustomerAgent"},
		types.Record{Agent: "A", RiskRaw: "INDETERMINADO"},
		types.Record{Agent: "B"},
	)

	out := Normalize(ds)

	assert.Len(t, out.Records, 2, "no score, risk or company column: nothing to filter on")
	assert.Nil(t, out.Records[0].ScorePct)
	assert.Zero(t, out.Dropped.Total())
}
