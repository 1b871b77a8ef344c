package processor

import (
	"fmt"
	"time"

	"monitor-insights-go/internal/actionable"
	"monitor-insights-go/internal/aggregator"
	"monitor-insights-go/internal/dataset"
	"monitor-insights-go/internal/diagnostics"
	"monitor-insights-go/internal/types"
)

type WarningKind string

const (
	EmptyResult   WarningKind = "empty_result"
	MissingColumn WarningKind = "missing_column"
	ViewFailed    WarningKind = "view_failed"
)

// Warning explains why a view is absent or degraded.
type Warning struct {
	Kind    WarningKind `json:"kind"`
	View    string      `json:"view"`
	Message string      `json:"message"`
}

// Dashboard is returned by /dashboard
type Dashboard struct {
	DatasetID    string                  `json:"dataset_id"`
	Filter       dataset.FilterSpec      `json:"filter"`
	Records      int                     `json:"records"`
	KPIs         aggregator.KPIs         `json:"kpis"`
	ScoreStats   *aggregator.ScoreStats  `json:"score_stats,omitempty"`
	Risk         []aggregator.Share      `json:"risk,omitempty"`
	Satisfaction []aggregator.Share      `json:"satisfaction,omitempty"`
	Outcomes     []aggregator.Share      `json:"outcomes,omitempty"`
	TopAgents    []aggregator.GroupStats `json:"top_agents,omitempty"`
	Training     []aggregator.GroupStats `json:"needs_training,omitempty"`
	Agents       []aggregator.GroupStats `json:"agents,omitempty"`
	Companies    []aggregator.GroupStats `json:"companies,omitempty"`
	Daily        []aggregator.GroupStats `json:"daily,omitempty"`
	Criteria     []diagnostics.Flagged   `json:"criteria,omitempty"`
	Weak         []diagnostics.Flagged   `json:"weak_criteria,omitempty"`
	Alerts       []actionable.ActionCard `json:"alerts,omitempty"`
	Warnings     []Warning               `json:"warnings,omitempty"`
	DurationMs   int64                   `json:"duration_ms"`
}

// view is one independent section of a render pass. needs lists the optional
// columns it depends on.
type view struct {
	name  string
	needs []types.Field
	run   func() (empty bool)
}

// render runs every view in order. A missing column, an empty result or a
// panic in one view turns into a warning; the other views still run.
func render(ds *types.Dataset, views []view) []Warning {
	var warnings []Warning
	for _, v := range views {
		if missing := missingFields(ds.Schema, v.needs); len(missing) > 0 {
			warnings = append(warnings, Warning{
				Kind:    MissingColumn,
				View:    v.name,
				Message: fmt.Sprintf("column %v not in sheet", missing),
			})
			continue
		}
		if w := runView(v); w != nil {
			warnings = append(warnings, *w)
		}
	}
	return warnings
}

func runView(v view) (w *Warning) {
	defer func() {
		if r := recover(); r != nil {
			w = &Warning{Kind: ViewFailed, View: v.name, Message: fmt.Sprint(r)}
		}
	}()
	if v.run() {
		return &Warning{Kind: EmptyResult, View: v.name, Message: "no rows after filtering"}
	}
	return nil
}

func missingFields(s types.Schema, fields []types.Field) []string {
	var out []string
	for _, f := range fields {
		if f == types.FieldRawScore {
			if !s.HasScoreSource() {
				out = append(out, f.Header())
			}
			continue
		}
		if !s.Has(f) {
			out = append(out, f.Header())
		}
	}
	return out
}

// BuildDashboard filters base with spec and computes every dashboard view.
func BuildDashboard(base *types.Dataset, spec dataset.FilterSpec, now time.Time) Dashboard {
	start := time.Now()
	ds := dataset.Filter(base, spec)
	d := Dashboard{DatasetID: ds.ID, Filter: spec, Records: len(ds.Records)}

	score := []types.Field{types.FieldRawScore}
	agentScore := []types.Field{types.FieldAgent, types.FieldRawScore}
	d.Warnings = render(ds, []view{
		{name: "kpis", run: func() bool {
			d.KPIs = aggregator.Summarize(ds, now)
			return d.KPIs.Total == 0
		}},
		{name: "score_stats", needs: score, run: func() bool {
			s, ok := aggregator.Describe(ds)
			if ok {
				d.ScoreStats = &s
			}
			return !ok
		}},
		{name: "risk", needs: []types.Field{types.FieldRisk}, run: func() bool {
			d.Risk = aggregator.RiskDistribution(ds)
			return len(d.Risk) == 0
		}},
		{name: "satisfaction", needs: []types.Field{types.FieldSatisfaction}, run: func() bool {
			d.Satisfaction = aggregator.SatisfactionDistribution(ds)
			return len(d.Satisfaction) == 0
		}},
		{name: "outcomes", needs: []types.Field{types.FieldOutcome}, run: func() bool {
			d.Outcomes = aggregator.OutcomeDistribution(ds)
			return len(d.Outcomes) == 0
		}},
		{name: "agents", needs: agentScore, run: func() bool {
			d.Agents = aggregator.Group(ds, aggregator.ByAgent)
			d.TopAgents = aggregator.RankAgents(d.Agents, aggregator.TopN)
			return len(d.TopAgents) == 0
		}},
		{name: "needs_training", needs: agentScore, run: func() bool {
			d.Training = aggregator.NeedsTraining(aggregator.Group(ds, aggregator.ByAgent), aggregator.TopN)
			return len(d.Training) == 0
		}},
		{name: "companies", needs: []types.Field{types.FieldCompany}, run: func() bool {
			d.Companies = aggregator.Group(ds, aggregator.ByCompany)
			return len(d.Companies) == 0
		}},
		{name: "daily", needs: score, run: func() bool {
			d.Daily = aggregator.DailySeries(ds)
			return len(d.Daily) == 0
		}},
		{name: "criteria", run: func() bool {
			rates := aggregator.Criteria(ds.Records)
			d.Criteria = diagnostics.Banded(rates)
			d.Weak = diagnostics.WeakCriteria(rates)
			return len(d.Criteria) == 0
		}},
		{name: "alerts", run: func() bool {
			d.Alerts = actionable.FleetAlerts(actionable.FleetInput{
				KPIs:            d.KPIs,
				Risk:            d.Risk,
				Satisfaction:    d.Satisfaction,
				HasRisk:         ds.Schema.Has(types.FieldRisk),
				HasSatisfaction: ds.Schema.Has(types.FieldSatisfaction),
			})
			return false
		}},
	})

	d.DurationMs = time.Since(start).Milliseconds()
	return d
}
