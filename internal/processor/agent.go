package processor

import (
	"time"

	"monitor-insights-go/internal/aggregator"
	"monitor-insights-go/internal/dataset"
	"monitor-insights-go/internal/diagnostics"
	"monitor-insights-go/internal/report"
	"monitor-insights-go/internal/types"
)

// AgentView is returned by /agents/detail
type AgentView struct {
	Agent      string                  `json:"agent"`
	KPIs       aggregator.KPIs         `json:"kpis"`
	Status     diagnostics.Status      `json:"status,omitempty"`
	FleetMean  float64                 `json:"fleet_mean"`
	ScoreStats *aggregator.ScoreStats  `json:"score_stats,omitempty"`
	Trend      *aggregator.Trend       `json:"trend,omitempty"`
	Daily      []aggregator.GroupStats `json:"daily,omitempty"`
	Criteria   []diagnostics.Flagged   `json:"criteria,omitempty"`
	Weak       []diagnostics.Flagged   `json:"weak_criteria,omitempty"`
	Strong     []diagnostics.Flagged   `json:"strong_criteria,omitempty"`
	Warnings   []Warning               `json:"warnings,omitempty"`
	DurationMs int64                   `json:"duration_ms"`
}

// BuildAgentView drills into one agent of the filtered dataset. The agent
// filter of spec is replaced by agent; the fleet mean uses the rest of spec.
func BuildAgentView(base *types.Dataset, spec dataset.FilterSpec, agent string, now time.Time) (AgentView, error) {
	start := time.Now()
	spec.Agents = nil
	fleet := dataset.Filter(base, spec)
	ds := aggregator.ForAgent(fleet, agent)
	if len(ds.Records) == 0 {
		return AgentView{}, report.ErrUnknownAgent
	}

	v := AgentView{Agent: agent}
	score := []types.Field{types.FieldRawScore}
	v.Warnings = render(ds, []view{
		{name: "kpis", run: func() bool {
			v.KPIs = aggregator.Summarize(ds, now)
			if v.KPIs.HasScore {
				v.Status = diagnostics.ScoreStatus(v.KPIs.MeanScore)
			}
			v.FleetMean = aggregator.Summarize(fleet, now).MeanScore
			return false
		}},
		{name: "score_stats", needs: score, run: func() bool {
			s, ok := aggregator.Describe(ds)
			if ok {
				v.ScoreStats = &s
			}
			return !ok
		}},
		{name: "trend", needs: score, run: func() bool {
			t, ok := aggregator.TrendOf(ds.Records)
			if ok {
				v.Trend = &t
			}
			return !ok
		}},
		{name: "daily", needs: score, run: func() bool {
			v.Daily = aggregator.DailySeries(ds)
			return len(v.Daily) == 0
		}},
		{name: "criteria", run: func() bool {
			rates := aggregator.Criteria(ds.Records)
			v.Criteria = diagnostics.Banded(rates)
			v.Weak = diagnostics.WeakCriteria(rates)
			v.Strong = diagnostics.StrongCriteria(rates)
			return len(rates) == 0
		}},
	})
	v.DurationMs = time.Since(start).Milliseconds()
	return v, nil
}
