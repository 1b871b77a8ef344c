package aggregator

import (
	"sort"
	"time"

	"monitor-insights-go/internal/types"
)

const (
	// TopN is the length of the best and worst agent rankings.
	TopN = 5
	// MinTrainingCalls is the record floor for the "needs training" ranking.
	MinTrainingCalls = 10
	// RecentWindow is the span of the "analyses this week" KPI.
	RecentWindow = 7 * 24 * time.Hour
)

type GroupBy string

const (
	ByAgent   GroupBy = "agent"
	ByCompany GroupBy = "company"
	ByDay     GroupBy = "day"
)

type CriterionRate struct {
	Index     int     `json:"index"`
	Name      string  `json:"name"`
	PassRate  float64 `json:"pass_rate"`
	Passed    int     `json:"passed"`
	Evaluated int     `json:"evaluated"`
}

// GroupStats are the aggregates of one agent, company or day. MeanScore is
// only meaningful when HasScore is true.
type GroupStats struct {
	Key          string          `json:"key"`
	Day          time.Time       `json:"day,omitempty"`
	Count        int             `json:"count"`
	MeanScore    float64         `json:"mean_score"`
	HasScore     bool            `json:"has_score"`
	LowRiskPct   float64         `json:"low_risk_pct"`
	SatisfiedPct float64         `json:"satisfied_pct"`
	Criteria     []CriterionRate `json:"criteria,omitempty"`
}

// Criteria returns the pass rate (0-100) of each criterion evaluated at least
// once in records, in question order. Unevaluated answers count for nothing.
func Criteria(records []types.Record) []CriterionRate {
	var passed, evaluated [types.CriteriaCount]int
	for _, r := range records {
		for q, a := range r.Checklist {
			switch a {
			case types.Pass:
				passed[q]++
				evaluated[q]++
			case types.Fail:
				evaluated[q]++
			}
		}
	}
	var out []CriterionRate
	for q := 0; q < types.CriteriaCount; q++ {
		if evaluated[q] == 0 {
			continue
		}
		out = append(out, CriterionRate{
			Index:     q,
			Name:      types.CriterionNames[q],
			PassRate:  float64(passed[q]) / float64(evaluated[q]) * 100,
			Passed:    passed[q],
			Evaluated: evaluated[q],
		})
	}
	return out
}

func keyOf(r types.Record, by GroupBy) string {
	switch by {
	case ByAgent:
		return r.Agent
	case ByCompany:
		return r.Company
	case ByDay:
		return day(r.AnalysisTime).Format(time.DateOnly)
	}
	return ""
}

func day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Group computes the aggregates of ds per key. Agent and company groups come
// out in first-appearance order and skip blank keys; day groups are sorted
// by date and only exist for days that have records.
func Group(ds *types.Dataset, by GroupBy) []GroupStats {
	order := []string{}
	members := map[string][]types.Record{}
	for _, r := range ds.Records {
		k := keyOf(r, by)
		if k == "" {
			continue
		}
		if _, seen := members[k]; !seen {
			order = append(order, k)
		}
		members[k] = append(members[k], r)
	}

	hasRisk := ds.Schema.Has(types.FieldRisk)
	hasSat := ds.Schema.Has(types.FieldSatisfaction)
	out := make([]GroupStats, 0, len(order))
	for _, k := range order {
		recs := members[k]
		g := stats(recs, hasRisk, hasSat)
		g.Key = k
		if by == ByDay {
			g.Day = day(recs[0].AnalysisTime)
		}
		out = append(out, g)
	}
	if by == ByDay {
		sort.SliceStable(out, func(i, j int) bool { return out[i].Day.Before(out[j].Day) })
	}
	return out
}

func stats(recs []types.Record, hasRisk, hasSat bool) GroupStats {
	g := GroupStats{Count: len(recs), Criteria: Criteria(recs)}
	sum, scored, low, satisfied := 0.0, 0, 0, 0
	for _, r := range recs {
		if v, ok := r.Score(); ok {
			sum += v
			scored++
		}
		if r.Risk == types.RiskLow {
			low++
		}
		if r.Satisfaction == types.Satisfied {
			satisfied++
		}
	}
	if scored > 0 {
		g.MeanScore = sum / float64(scored)
		g.HasScore = true
	}
	if hasRisk {
		g.LowRiskPct = pct(low, len(recs))
	}
	if hasSat {
		g.SatisfiedPct = pct(satisfied, len(recs))
	}
	return g
}

func pct(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total) * 100
}

func scored(stats []GroupStats, minCount int) []GroupStats {
	out := make([]GroupStats, 0, len(stats))
	for _, g := range stats {
		if g.HasScore && g.Count >= minCount {
			out = append(out, g)
		}
	}
	return out
}

func limit(stats []GroupStats, n int) []GroupStats {
	if n > 0 && len(stats) > n {
		return stats[:n]
	}
	return stats
}

// RankAgents orders groups by mean score, best first. Ties keep input order
// and groups without a score are left out. n <= 0 returns every group.
func RankAgents(stats []GroupStats, n int) []GroupStats {
	out := scored(stats, 0)
	sort.SliceStable(out, func(i, j int) bool { return out[i].MeanScore > out[j].MeanScore })
	return limit(out, n)
}

// NeedsTraining orders agents with at least MinTrainingCalls records by mean
// score, worst first.
func NeedsTraining(stats []GroupStats, n int) []GroupStats {
	out := scored(stats, MinTrainingCalls)
	sort.SliceStable(out, func(i, j int) bool { return out[i].MeanScore < out[j].MeanScore })
	return limit(out, n)
}

// DailySeries is the per-day score series. Days without records, or whose
// records carry no score, are absent rather than zero.
func DailySeries(ds *types.Dataset) []GroupStats {
	return scored(Group(ds, ByDay), 0)
}
