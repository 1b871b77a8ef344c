// Package report assembles the per-agent quality report.
package report

import (
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"

	"monitor-insights-go/internal/actionable"
	"monitor-insights-go/internal/aggregator"
	"monitor-insights-go/internal/diagnostics"
	"monitor-insights-go/internal/types"
)

// RecentLimit is the number of calls in the recent-history section.
const RecentLimit = 10

var ErrUnknownAgent = errors.New("agent has no records")

type Summary struct {
	Calls         int                `json:"calls"`
	MeanScore     float64            `json:"mean_score"`
	HasScore      bool               `json:"has_score"`
	Status        diagnostics.Status `json:"status,omitempty"`
	FleetMean     float64            `json:"fleet_mean"`
	FleetHasScore bool               `json:"fleet_has_score"`
	LowRiskPct    float64            `json:"low_risk_pct"`
	SatisfiedPct  float64            `json:"satisfied_pct"`
	FirstAnalysis time.Time          `json:"first_analysis"`
	LastAnalysis  time.Time          `json:"last_analysis"`
	Companies     []string           `json:"companies,omitempty"`
}

type RecentCall struct {
	AnalysisTime time.Time                 `json:"analysis_time"`
	IDAnalysis   string                    `json:"id_analysis,omitempty"`
	Company      string                    `json:"company,omitempty"`
	Score        *float64                  `json:"score,omitempty"`
	Risk         types.RiskCluster         `json:"risk"`
	Satisfaction types.SatisfactionCluster `json:"satisfaction"`
	Outcome      string                    `json:"outcome"`
}

type Signature struct {
	Evaluator   string    `json:"evaluator"`
	GeneratedAt time.Time `json:"generated_at"`
	ReportID    string    `json:"report_id"`
}

type AgentReport struct {
	ID        string                  `json:"id"`
	Agent     string                  `json:"agent"`
	Summary   Summary                 `json:"summary"`
	Narrative []string                `json:"narrative"`
	Trend     *aggregator.Trend       `json:"trend,omitempty"`
	Criteria  []diagnostics.Flagged   `json:"criteria"`
	Weak      []diagnostics.Flagged   `json:"weak"`
	Strong    []diagnostics.Flagged   `json:"strong"`
	Plan      []actionable.ActionCard `json:"plan"`
	Recent    []RecentCall            `json:"recent"`
	Signature Signature               `json:"signature"`
}

// Build assembles the report of agent from fleet, the dataset the agent is
// compared against. Every figure covers the agent's whole history in fleet.
func Build(fleet *types.Dataset, agent, evaluator string, now time.Time) (AgentReport, error) {
	sub := aggregator.ForAgent(fleet, agent)
	if len(sub.Records) == 0 {
		return AgentReport{}, ErrUnknownAgent
	}

	hasRisk := fleet.Schema.Has(types.FieldRisk)
	hasSat := fleet.Schema.Has(types.FieldSatisfaction)
	mine := aggregator.Summarize(sub, now)
	all := aggregator.Summarize(fleet, now)

	rep := AgentReport{ID: uuid.NewString(), Agent: agent}
	rep.Summary = Summary{
		Calls:         mine.Total,
		MeanScore:     mine.MeanScore,
		HasScore:      mine.HasScore,
		FleetMean:     all.MeanScore,
		FleetHasScore: all.HasScore,
		LowRiskPct:    mine.LowRiskPct,
		SatisfiedPct:  mine.SatisfiedPct,
	}
	if mine.HasScore {
		rep.Summary.Status = diagnostics.ScoreStatus(mine.MeanScore)
	}

	companies := map[string]bool{}
	for _, r := range sub.Records {
		if rep.Summary.FirstAnalysis.IsZero() || r.AnalysisTime.Before(rep.Summary.FirstAnalysis) {
			rep.Summary.FirstAnalysis = r.AnalysisTime
		}
		if r.AnalysisTime.After(rep.Summary.LastAnalysis) {
			rep.Summary.LastAnalysis = r.AnalysisTime
		}
		if r.Company != "" && !companies[r.Company] {
			companies[r.Company] = true
			rep.Summary.Companies = append(rep.Summary.Companies, r.Company)
		}
	}
	sort.Strings(rep.Summary.Companies)

	trend, hasTrend := aggregator.TrendOf(sub.Records)
	if hasTrend {
		rep.Trend = &trend
	}

	rates := aggregator.Criteria(sub.Records)
	rep.Criteria = diagnostics.Banded(rates)
	rep.Weak = diagnostics.WeakCriteria(rates)
	rep.Strong = diagnostics.StrongCriteria(rates)
	rep.Plan = actionable.DevelopmentPlan(rep.Weak)
	rep.Narrative = actionable.AgentNarrative(actionable.AgentInput{
		Agent:        agent,
		Calls:        mine.Total,
		Mean:         mine.MeanScore,
		HasScore:     mine.HasScore,
		FleetMean:    all.MeanScore,
		FleetHas:     all.HasScore,
		Trend:        trend,
		HasTrend:     hasTrend,
		LowRiskPct:   mine.LowRiskPct,
		SatisfiedPct: mine.SatisfiedPct,
		HasRisk:      hasRisk,
		HasSat:       hasSat,
		Weak:         rep.Weak,
		Strong:       rep.Strong,
	})
	rep.Recent = recent(sub.Records, RecentLimit)
	rep.Signature = Signature{Evaluator: evaluator, GeneratedAt: now, ReportID: rep.ID}
	return rep, nil
}

// recent returns the n newest calls, newest first.
func recent(records []types.Record, n int) []RecentCall {
	sorted := make([]types.Record, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].AnalysisTime.After(sorted[j].AnalysisTime)
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	out := make([]RecentCall, len(sorted))
	for i, r := range sorted {
		out[i] = RecentCall{
			AnalysisTime: r.AnalysisTime,
			IDAnalysis:   r.IDAnalysis,
			Company:      r.Company,
			Score:        r.ScorePct,
			Risk:         r.Risk,
			Satisfaction: r.Satisfaction,
			Outcome:      r.Outcome,
		}
	}
	return out
}
