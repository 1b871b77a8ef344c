package textnorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFold(t *testing.T) {
	assert.Equal(t, "avaliacao 100 pts", Fold("  AVALIAÇÃO   100 pts "))
	assert.Equal(t, "avaliacao 100 pts", Fold("Avaliacao 100 PTS"))
	assert.Equal(t, "question1", Fold("Question1"))
	assert.Equal(t, "", Fold("   "))
}

func TestHeaderIndex(t *testing.T) {
	idx := HeaderIndex([]string{"NOTAS", "", "Notas", "Empresas"})
	assert.Equal(t, 0, idx["notas"])
	assert.Equal(t, 3, idx["empresas"])
	assert.Len(t, idx, 2)
}

func TestParseNumber(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"81", 81, true},
		{" 40.5 ", 40.5, true},
		{"40,5", 40.5, true},
		{"1.234,5", 1234.5, true},
		{"", 0, false},
		{"n/a", 0, false},
		{"NaN", 0, false},
		{"Inf", 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, ok := ParseNumber(tc.in)
			assert.Equal(t, tc.ok, ok)
			assert.InDelta(t, tc.want, got, 1e-9)
		})
	}
}
