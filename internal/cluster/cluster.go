// Package cluster maps the free-text satisfaction, risk and outcome labels of
// the monitoring sheet onto a small set of canonical values.
package cluster

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"monitor-insights-go/internal/types"
)

// MaxLabelLen is the length (in runes) from which a label is treated as
// malformed free text rather than a category.
const MaxLabelLen = 50

// UndefinedOutcome labels records whose outcome cell is blank.
const UndefinedOutcome = "Não definido"

var satisfactionTable = map[string]types.SatisfactionCluster{
	"ALTA":       types.Satisfied,
	"ALTO":       types.Satisfied,
	"BOA":        types.Satisfied,
	"SATISFEITO": types.Satisfied,
	"SATISFEITA": types.Satisfied,

	"NEUTRA":   types.Neutral,
	"NEUTRO":   types.Neutral,
	"MÉDIA":    types.Neutral,
	"MEDIA":    types.Neutral,
	"MÉDIO":    types.Neutral,
	"MEDIO":    types.Neutral,
	"MODERADA": types.Neutral,
	"MODERADO": types.Neutral,

	"BAIXA":          types.Dissatisfied,
	"BAIXO":          types.Dissatisfied,
	"INSATISFEITO":   types.Dissatisfied,
	"INSATISFEITA":   types.Dissatisfied,
	"INSATISFATÓRIO": types.Dissatisfied,
	"INSATISFATORIA": types.Dissatisfied,
}

var riskTable = map[string]types.RiskCluster{
	"BAIXO": types.RiskLow,
	"MEDIO": types.RiskMedium,
	"ALTO":  types.RiskHigh,
}

// normalize trims and upper-cases raw. ok is false for malformed labels.
func normalize(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	if utf8.RuneCountInString(s) >= MaxLabelLen {
		return "", false
	}
	return cases.Upper(language.BrazilianPortuguese).String(s), true
}

// Satisfaction is total: every input maps to exactly one cluster.
func Satisfaction(raw string) types.SatisfactionCluster {
	key, ok := normalize(raw)
	if !ok {
		return types.SatisfactionUnknown
	}
	if c, found := satisfactionTable[key]; found {
		return c
	}
	return types.SatisfactionUnknown
}

// Risk maps BAIXO/MEDIO/ALTO; INDETERMINADO, blanks and anything else are UNKNOWN.
func Risk(raw string) types.RiskCluster {
	key, ok := normalize(raw)
	if !ok {
		return types.RiskUnknown
	}
	if c, found := riskTable[key]; found {
		return c
	}
	return types.RiskUnknown
}

// Outcome returns the display label of a call outcome.
func Outcome(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return UndefinedOutcome
	}
	return cases.Title(language.BrazilianPortuguese).String(s)
}

// Annotate returns a copy of ds with the risk, satisfaction and outcome
// clusters filled in.
func Annotate(ds *types.Dataset) *types.Dataset {
	out := make([]types.Record, len(ds.Records))
	for i, r := range ds.Records {
		r.Risk = Risk(r.RiskRaw)
		r.Satisfaction = Satisfaction(r.SatisfactionRaw)
		r.Outcome = Outcome(r.OutcomeRaw)
		out[i] = r
	}
	return ds.WithRecords(out)
}
