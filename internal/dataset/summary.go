package dataset

import (
	"sort"
	"time"

	"monitor-insights-go/internal/types"
)

// Summary is the compact description of a loaded dataset returned after an
// upload and used to populate selectors.
type Summary struct {
	ID            string           `json:"id"`
	Fingerprint   string           `json:"fingerprint"`
	TotalRecords  int              `json:"total_records"`
	Dropped       types.DropCounts `json:"dropped"`
	Columns       []string         `json:"columns"`
	Missing       []string         `json:"missing_columns,omitempty"`
	Criteria      int              `json:"criteria"`
	FirstAnalysis time.Time        `json:"first_analysis,omitempty"`
	LastAnalysis  time.Time        `json:"last_analysis,omitempty"`
	Agents        []string         `json:"agents"`
	Companies     []string         `json:"companies,omitempty"`
}

// optionalFields are the columns whose absence degrades views.
var optionalFields = []types.Field{
	types.FieldAgent,
	types.FieldCompany,
	types.FieldRisk,
	types.FieldSatisfaction,
	types.FieldOutcome,
}

// Summarize describes ds.
func Summarize(ds *types.Dataset) Summary {
	s := Summary{
		ID:           ds.ID,
		Fingerprint:  ds.Fingerprint,
		TotalRecords: len(ds.Records),
		Dropped:      ds.Dropped,
		Columns:      ds.Schema.Present(),
	}
	for _, f := range optionalFields {
		if !ds.Schema.Has(f) {
			s.Missing = append(s.Missing, f.Header())
		}
	}
	if !ds.Schema.HasScoreSource() {
		s.Missing = append(s.Missing, types.FieldRawScore.Header())
	}
	for q := 0; q < types.CriteriaCount; q++ {
		if ds.Schema.HasCriterion(q) {
			s.Criteria++
		}
	}

	agents := map[string]bool{}
	companies := map[string]bool{}
	for _, r := range ds.Records {
		if s.FirstAnalysis.IsZero() || r.AnalysisTime.Before(s.FirstAnalysis) {
			s.FirstAnalysis = r.AnalysisTime
		}
		if r.AnalysisTime.After(s.LastAnalysis) {
			s.LastAnalysis = r.AnalysisTime
		}
		if r.Agent != "" {
			agents[r.Agent] = true
		}
		if r.Company != "" {
			companies[r.Company] = true
		}
	}
	s.Agents = sortedKeys(agents)
	s.Companies = sortedKeys(companies)
	return s
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
