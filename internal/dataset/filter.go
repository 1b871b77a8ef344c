package dataset

import (
	"slices"
	"time"

	"monitor-insights-go/internal/types"
)

// FilterSpec is an explicit description of the user's current selections.
// Zero values mean "no restriction". From and To are inclusive calendar days.
type FilterSpec struct {
	From         time.Time                   `json:"from,omitempty" yaml:"from,omitempty"`
	To           time.Time                   `json:"to,omitempty" yaml:"to,omitempty"`
	Agents       []string                    `json:"agents,omitempty" yaml:"agents,omitempty"`
	Risks        []types.RiskCluster         `json:"risks,omitempty" yaml:"risks,omitempty"`
	Satisfaction []types.SatisfactionCluster `json:"satisfaction,omitempty" yaml:"satisfaction,omitempty"`
	Companies    []string                    `json:"companies,omitempty" yaml:"companies,omitempty"`
}

func (f FilterSpec) IsZero() bool {
	return f.From.IsZero() && f.To.IsZero() && len(f.Agents) == 0 && len(f.Risks) == 0 &&
		len(f.Satisfaction) == 0 && len(f.Companies) == 0
}

// Match reports whether r passes every restriction of f.
func (f FilterSpec) Match(r types.Record) bool {
	day := Day(r.AnalysisTime)
	if !f.From.IsZero() && day.Before(Day(f.From)) {
		return false
	}
	if !f.To.IsZero() && day.After(Day(f.To)) {
		return false
	}
	if len(f.Agents) > 0 && !slices.Contains(f.Agents, r.Agent) {
		return false
	}
	if len(f.Risks) > 0 && !slices.Contains(f.Risks, r.Risk) {
		return false
	}
	if len(f.Satisfaction) > 0 && !slices.Contains(f.Satisfaction, r.Satisfaction) {
		return false
	}
	if len(f.Companies) > 0 && !slices.Contains(f.Companies, r.Company) {
		return false
	}
	return true
}

// Filter returns a new read-only view of ds holding the records that match f.
// ds itself is never modified.
func Filter(ds *types.Dataset, f FilterSpec) *types.Dataset {
	if f.IsZero() {
		return ds.WithRecords(slices.Clone(ds.Records))
	}
	out := make([]types.Record, 0, len(ds.Records))
	for _, r := range ds.Records {
		if f.Match(r) {
			out = append(out, r)
		}
	}
	return ds.WithRecords(out)
}

// Day truncates t to its calendar day in t's own location.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
