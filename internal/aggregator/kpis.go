package aggregator

import (
	"math"
	"sort"
	"time"

	"monitor-insights-go/internal/types"
)

// KPIs are the headline cards of the dashboard.
type KPIs struct {
	Total        int     `json:"total"`
	MeanScore    float64 `json:"mean_score"`
	HasScore     bool    `json:"has_score"`
	LowRiskPct   float64 `json:"low_risk_pct"`
	SatisfiedPct float64 `json:"satisfied_pct"`
	LastWeek     int     `json:"last_week"`
}

// Summarize computes the headline KPIs of ds. LastWeek counts records analysed
// within RecentWindow before now.
func Summarize(ds *types.Dataset, now time.Time) KPIs {
	g := stats(ds.Records, ds.Schema.Has(types.FieldRisk), ds.Schema.Has(types.FieldSatisfaction))
	k := KPIs{
		Total:        g.Count,
		MeanScore:    g.MeanScore,
		HasScore:     g.HasScore,
		LowRiskPct:   g.LowRiskPct,
		SatisfiedPct: g.SatisfiedPct,
	}
	since := now.Add(-RecentWindow)
	for _, r := range ds.Records {
		if !r.AnalysisTime.Before(since) && !r.AnalysisTime.After(now) {
			k.LastWeek++
		}
	}
	return k
}

// ScoreStats describe the score distribution. StdDev is the sample standard
// deviation and is 0 with fewer than two scores.
type ScoreStats struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// Describe returns the score statistics of ds and false when no record has a
// score.
func Describe(ds *types.Dataset) (ScoreStats, bool) {
	var vals []float64
	for _, r := range ds.Records {
		if v, ok := r.Score(); ok {
			vals = append(vals, v)
		}
	}
	if len(vals) == 0 {
		return ScoreStats{}, false
	}
	sort.Float64s(vals)

	s := ScoreStats{Count: len(vals), Min: vals[0], Max: vals[len(vals)-1]}
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	s.Mean = sum / float64(len(vals))

	mid := len(vals) / 2
	if len(vals)%2 == 0 {
		s.Median = (vals[mid-1] + vals[mid]) / 2
	} else {
		s.Median = vals[mid]
	}

	if len(vals) > 1 {
		ss := 0.0
		for _, v := range vals {
			ss += (v - s.Mean) * (v - s.Mean)
		}
		s.StdDev = math.Sqrt(ss / float64(len(vals)-1))
	}
	return s, true
}

// Share is one slice of a categorical distribution.
type Share struct {
	Label string  `json:"label"`
	Count int     `json:"count"`
	Pct   float64 `json:"pct"`
}

// RiskDistribution counts records per risk cluster in display order.
// Clusters with no records are omitted.
func RiskDistribution(ds *types.Dataset) []Share {
	counts := map[types.RiskCluster]int{}
	for _, r := range ds.Records {
		counts[r.Risk]++
	}
	var out []Share
	for _, c := range types.RiskClusters {
		if counts[c] > 0 {
			out = append(out, Share{Label: string(c), Count: counts[c], Pct: pct(counts[c], len(ds.Records))})
		}
	}
	return out
}

// SatisfactionDistribution counts records per satisfaction cluster in
// display order.
func SatisfactionDistribution(ds *types.Dataset) []Share {
	counts := map[types.SatisfactionCluster]int{}
	for _, r := range ds.Records {
		counts[r.Satisfaction]++
	}
	var out []Share
	for _, c := range types.SatisfactionClusters {
		if counts[c] > 0 {
			out = append(out, Share{Label: string(c), Count: counts[c], Pct: pct(counts[c], len(ds.Records))})
		}
	}
	return out
}

// OutcomeDistribution counts records per outcome label, most frequent first.
func OutcomeDistribution(ds *types.Dataset) []Share {
	counts := map[string]int{}
	for _, r := range ds.Records {
		if r.Outcome != "" {
			counts[r.Outcome]++
		}
	}
	out := make([]Share, 0, len(counts))
	for label, n := range counts {
		out = append(out, Share{Label: label, Count: n, Pct: pct(n, len(ds.Records))})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Label < out[j].Label
	})
	return out
}

// ShareOf returns the percentage of label in shares, 0 when absent.
func ShareOf(shares []Share, label string) float64 {
	for _, s := range shares {
		if s.Label == label {
			return s.Pct
		}
	}
	return 0
}

// Agents lists the distinct agent names of ds, sorted.
func Agents(ds *types.Dataset) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, r := range ds.Records {
		if r.Agent != "" && !seen[r.Agent] {
			seen[r.Agent] = true
			out = append(out, r.Agent)
		}
	}
	sort.Strings(out)
	return out
}

// ForAgent returns the sub-dataset of agent's records.
func ForAgent(ds *types.Dataset, agent string) *types.Dataset {
	var out []types.Record
	for _, r := range ds.Records {
		if r.Agent == agent {
			out = append(out, r)
		}
	}
	return ds.WithRecords(out)
}
