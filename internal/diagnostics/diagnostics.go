// Package diagnostics flags the checklist criteria that pull a team or an
// agent below target.
package diagnostics

import (
	"sort"

	"monitor-insights-go/internal/aggregator"
)

const (
	// Target is the pass bar for scores and criteria.
	Target = 70.0
	// CriticalBelow starts the critical band.
	CriticalBelow = 50.0
	// Excellence marks an outstanding mean score.
	Excellence = 85.0
	// MaxFlagged caps weak and strong criteria lists.
	MaxFlagged = 3
)

type Band string

const (
	BandCritical Band = "critical"
	BandWarning  Band = "warning"
	BandOK       Band = "ok"
)

// BandFor maps a pass rate to its display band.
func BandFor(rate float64) Band {
	switch {
	case rate < CriticalBelow:
		return BandCritical
	case rate < Target:
		return BandWarning
	default:
		return BandOK
	}
}

// Flagged is a criterion with the band it falls in.
type Flagged struct {
	aggregator.CriterionRate
	Band Band `json:"band"`
}

// WeakCriteria returns up to MaxFlagged criteria strictly below Target,
// weakest first. Equal rates keep input order.
func WeakCriteria(rates []aggregator.CriterionRate) []Flagged {
	var out []Flagged
	for _, r := range rates {
		if r.PassRate < Target {
			out = append(out, Flagged{CriterionRate: r, Band: BandFor(r.PassRate)})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].PassRate < out[j].PassRate })
	if len(out) > MaxFlagged {
		out = out[:MaxFlagged]
	}
	return out
}

// StrongCriteria returns up to MaxFlagged criteria at or above Target,
// strongest first.
func StrongCriteria(rates []aggregator.CriterionRate) []Flagged {
	var out []Flagged
	for _, r := range rates {
		if r.PassRate >= Target {
			out = append(out, Flagged{CriterionRate: r, Band: BandOK})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].PassRate > out[j].PassRate })
	if len(out) > MaxFlagged {
		out = out[:MaxFlagged]
	}
	return out
}

// Banded tags every rate with its band, keeping order.
func Banded(rates []aggregator.CriterionRate) []Flagged {
	out := make([]Flagged, len(rates))
	for i, r := range rates {
		out[i] = Flagged{CriterionRate: r, Band: BandFor(r.PassRate)}
	}
	return out
}

type Status string

const (
	StatusExcellent   Status = "excellent"
	StatusMeetsTarget Status = "meets_target"
	StatusBelowTarget Status = "below_target"
)

// ScoreStatus classifies a mean score against Target and Excellence.
func ScoreStatus(mean float64) Status {
	switch {
	case mean >= Excellence:
		return StatusExcellent
	case mean >= Target:
		return StatusMeetsTarget
	default:
		return StatusBelowTarget
	}
}
