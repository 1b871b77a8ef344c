package aggregator

import (
	"sort"

	"monitor-insights-go/internal/types"
)

// StableBand is the half-to-half delta, in score points, treated as flat.
const StableBand = 2.0

type Direction string

const (
	Improving Direction = "improving"
	Stable    Direction = "stable"
	Declining Direction = "declining"
)

// Trend compares the mean score of the older half of a history with the newer half.
type Trend struct {
	FirstMean  float64   `json:"first_half_mean"`
	SecondMean float64   `json:"second_half_mean"`
	Delta      float64   `json:"delta"`
	Direction  Direction `json:"direction"`
}

// TrendOf splits records by analysis time at len/2 and compares the halves.
// It returns false when either half has no scored record.
func TrendOf(records []types.Record) (Trend, bool) {
	sorted := make([]types.Record, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].AnalysisTime.Before(sorted[j].AnalysisTime)
	})

	mid := len(sorted) / 2
	first, ok1 := meanScore(sorted[:mid])
	second, ok2 := meanScore(sorted[mid:])
	if !ok1 || !ok2 {
		return Trend{}, false
	}

	t := Trend{FirstMean: first, SecondMean: second, Delta: second - first}
	switch {
	case t.Delta > StableBand:
		t.Direction = Improving
	case t.Delta < -StableBand:
		t.Direction = Declining
	default:
		t.Direction = Stable
	}
	return t, true
}

func meanScore(records []types.Record) (float64, bool) {
	sum, n := 0.0, 0
	for _, r := range records {
		if v, ok := r.Score(); ok {
			sum += v
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}
