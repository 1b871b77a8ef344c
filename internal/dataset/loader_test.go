package dataset

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"monitor-insights-go/internal/sheettest"
	"monitor-insights-go/internal/types"
)

func TestParse(t *testing.T) {
	data := sheettest.Build(t, sheettest.Workbook{Rows: [][]any{
		sheettest.Row("1", "2024-01-01 09:30:00", "Alice Souza", "ACME", 81, "BOA", "BAIXO", "RESOLVIDO", true, false, nil, 1, 0),
		sheettest.Row("2", "15/01/2024 14:00", "Bob", "ACME", "40,5", "talvez", "ALTO", "", "TRUE", "FALSE"),
		{},
		sheettest.Row("3", "2024-01-02", "Carla", "", "abc", "", "INDETERMINADO", "", "SIM", "NÃO", "x"),
	}})

	ds, err := Parse(data)
	require.NoError(t, err)

	assert.NotEmpty(t, ds.ID)
	assert.Equal(t, Fingerprint(data), ds.Fingerprint)
	require.Len(t, ds.Records, 3, "blank rows are skipped")

	a := ds.Records[0]
	assert.Equal(t, 2, a.Row)
	assert.Equal(t, "1", a.IDAnalysis)
	assert.Equal(t, "Alice Souza", a.Agent)
	assert.Equal(t, "ACME", a.Company)
	assert.Equal(t, time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC), a.AnalysisTime)
	require.NotNil(t, a.RawScore)
	assert.Equal(t, 81.0, *a.RawScore)
	assert.Equal(t, "BOA", a.SatisfactionRaw)
	assert.Equal(t, types.Pass, a.Checklist[0])
	assert.Equal(t, types.Fail, a.Checklist[1])
	assert.Equal(t, types.NotEvaluated, a.Checklist[2])
	assert.Equal(t, types.Pass, a.Checklist[3])
	assert.Equal(t, types.Fail, a.Checklist[4])
	assert.Equal(t, types.NotEvaluated, a.Checklist[11])
	assert.Len(t, a.Cells, len(sheettest.Header))
	assert.Nil(t, a.ScorePct, "score normalization is not the loader's job")

	b := ds.Records[1]
	assert.Equal(t, time.Date(2024, 1, 15, 14, 0, 0, 0, time.UTC), b.AnalysisTime, "day-first dates")
	require.NotNil(t, b.RawScore)
	assert.Equal(t, 40.5, *b.RawScore)
	assert.Equal(t, types.Pass, b.Checklist[0])
	assert.Equal(t, types.Fail, b.Checklist[1])

	c := ds.Records[2]
	assert.Equal(t, 5, c.Row)
	assert.Nil(t, c.RawScore, "non-numeric points become absent")
	assert.Equal(t, types.Pass, c.Checklist[0])
	assert.Equal(t, types.Fail, c.Checklist[1])
	assert.Equal(t, types.NotEvaluated, c.Checklist[2])

	assert.True(t, ds.Schema.Has(types.FieldCompany))
	assert.True(t, ds.Schema.Has(types.FieldRisk))
	assert.True(t, ds.Schema.HasCriterion(11))
	assert.False(t, ds.Schema.Has(types.FieldPercentage))
}

func TestParseExcelSerialDates(t *testing.T) {
	data := sheettest.Build(t, sheettest.Workbook{
		Header: []string{"AnalysisDateTime", "CustomerAgent"},
		Rows:   [][]any{{45292.5, "Alice"}},
	})

	ds, err := Parse(data)
	require.NoError(t, err)
	require.Len(t, ds.Records, 1)

	at := ds.Records[0].AnalysisTime
	assert.Equal(t, 2024, at.Year())
	assert.Equal(t, time.January, at.Month())
	assert.Equal(t, 1, at.Day())
	assert.Equal(t, 12, at.Hour())
	assert.True(t, ds.Records[0].CallTime.IsZero())
	assert.False(t, ds.Schema.Has(types.FieldCallTime))
}

func TestParseHeaderFolding(t *testing.T) {
	data := sheettest.Build(t, sheettest.Workbook{
		Header: []string{" analysisdatetime ", "CUSTOMERAGENT", "question3"},
		Rows:   [][]any{{"2024-03-01", "Dan", 1}},
	})

	ds, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, "Dan", ds.Records[0].Agent)
	assert.Equal(t, types.Pass, ds.Records[0].Checklist[2])
	assert.False(t, ds.Schema.HasCriterion(0))
}

func TestParseErrors(t *testing.T) {
	t.Run("sheet not found", func(t *testing.T) {
		data := sheettest.Build(t, sheettest.Workbook{Sheet: "Planilha1"})

		ds, err := Parse(data)

		assert.Nil(t, ds)
		var se *SchemaError
		require.True(t, errors.As(err, &se))
		assert.Equal(t, "sheet not found", se.Reason)
	})

	t.Run("not a workbook", func(t *testing.T) {
		ds, err := Parse([]byte("AnalysisDateTime,CustomerAgent\n"))

		assert.Nil(t, ds)
		var pe *ParseError
		assert.True(t, errors.As(err, &pe))
	})

	t.Run("unparseable analysis date", func(t *testing.T) {
		data := sheettest.Build(t, sheettest.Workbook{Rows: [][]any{
			sheettest.Row("1", "2024-01-01", "A", "X", 81, "", "BAIXO", ""),
			sheettest.Row("2", "ontem", "A", "X", 81, "", "BAIXO", ""),
		}})

		ds, err := Parse(data)

		assert.Nil(t, ds, "no partial dataset")
		var pe *ParseError
		require.True(t, errors.As(err, &pe))
		assert.Equal(t, 3, pe.Row)
		assert.Equal(t, "AnalysisDateTime", pe.Column)
		assert.Equal(t, "ontem", pe.Value)
	})

	t.Run("blank analysis date", func(t *testing.T) {
		data := sheettest.Build(t, sheettest.Workbook{
			Header: []string{"AnalysisDateTime", "CustomerAgent"},
			Rows:   [][]any{{"", "Alice"}},
		})

		_, err := Parse(data)
		var pe *ParseError
		assert.True(t, errors.As(err, &pe))
	})

	t.Run("unparseable call date", func(t *testing.T) {
		data := sheettest.Build(t, sheettest.Workbook{
			Header: []string{"AnalysisDateTime", "CallDate"},
			Rows:   [][]any{{"2024-01-01", "31/31/2024"}},
		})

		_, err := Parse(data)
		var pe *ParseError
		require.True(t, errors.As(err, &pe))
		assert.Equal(t, "CallDate", pe.Column)
	})

	t.Run("analysis date column missing", func(t *testing.T) {
		data := sheettest.Build(t, sheettest.Workbook{
			Header: []string{"CustomerAgent"},
			Rows:   [][]any{{"Alice"}},
		})

		_, err := Parse(data)
		var pe *ParseError
		require.True(t, errors.As(err, &pe))
		assert.Equal(t, "AnalysisDateTime", pe.Column)
	})
}

func TestParseTime(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
	}{
		{"2024-02-03 04:05:06", time.Date(2024, 2, 3, 4, 5, 6, 0, time.UTC)},
		{"2024-02-03T04:05:06", time.Date(2024, 2, 3, 4, 5, 6, 0, time.UTC)},
		{"2024-02-03", time.Date(2024, 2, 3, 0, 0, 0, 0, time.UTC)},
		{"03/02/2024 04:05", time.Date(2024, 2, 3, 4, 5, 0, 0, time.UTC)},
		{"3/2/2024", time.Date(2024, 2, 3, 0, 0, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := parseTime(tc.in)
			require.NoError(t, err)
			assert.True(t, tc.want.Equal(got), "got %v", got)
		})
	}

	for _, bad := range []string{"", "  ", "yesterday", "-4", "2024-13-01"} {
		_, err := parseTime(bad)
		assert.Error(t, err, bad)
	}
}
