// Package scoring resolves the canonical 0-100 score of every record and
// applies the load-time quality filters.
package scoring

import (
	"monitor-insights-go/internal/cluster"
	"monitor-insights-go/internal/textnorm"
	"monitor-insights-go/internal/types"
)

const (
	// MaxRawScore is the maximum of the NOTAS point scale.
	MaxRawScore = 81.0
	// MinValidScore is the floor below which a score is a data-entry artifact.
	MinValidScore = 19.99
)

// PercentageSpellings are the accepted names of the 0-100 score column, in
// priority order. Matching ignores case, accents and extra spaces.
var PercentageSpellings = []string{
	"Avaliação 100 pts",
	"Avaliação 100pts",
	"Avaliação (100 pts)",
	"Evaluation 100 pts",
	"Evaluation 100pts",
}

// ResolvePercentageColumn returns the index and header of the first accepted
// percentage spelling present in header.
func ResolvePercentageColumn(header []string) (int, string, bool) {
	idx := textnorm.HeaderIndex(header)
	for _, spelling := range PercentageSpellings {
		if i, ok := idx[textnorm.Fold(spelling)]; ok {
			return i, header[i], true
		}
	}
	return -1, "", false
}

// ScorePct is the canonical score of r: the percentage value when present,
// otherwise the raw points scaled to 100, otherwise undefined.
func ScorePct(r types.Record) (float64, bool) {
	if r.PercentageScore != nil {
		return *r.PercentageScore, true
	}
	if r.RawScore != nil {
		return *r.RawScore / MaxRawScore * 100, true
	}
	return 0, false
}

// Normalize returns a new dataset with score_pct resolved on every record and
// the quality filters applied:
//   - score below MinValidScore or undefined, when a score column exists
//   - risk not BAIXO/MEDIO/ALTO, when the risk column exists
//   - blank company, when the company column exists
func Normalize(ds *types.Dataset) *types.Dataset {
	schema := ds.Schema.Clone()
	pctIdx, pctName, hasPct := ResolvePercentageColumn(schema.Header)
	if hasPct {
		schema.Columns[types.FieldPercentage] = pctIdx
		schema.PercentageColumn = pctName
	}

	checkScore := schema.HasScoreSource()
	checkRisk := schema.Has(types.FieldRisk)
	checkCompany := schema.Has(types.FieldCompany)

	var dropped types.DropCounts
	out := make([]types.Record, 0, len(ds.Records))
	for _, r := range ds.Records {
		r.PercentageScore = nil
		r.ScorePct = nil
		if hasPct && pctIdx < len(r.Cells) {
			if v, ok := textnorm.ParseNumber(r.Cells[pctIdx]); ok {
				r.PercentageScore = &v
			}
		}
		if v, ok := ScorePct(r); ok {
			r.ScorePct = &v
		}

		switch {
		case checkScore && (r.ScorePct == nil || *r.ScorePct < MinValidScore):
			dropped.LowScore++
			continue
		case checkRisk && cluster.Risk(r.RiskRaw) == types.RiskUnknown:
			dropped.UnknownRisk++
			continue
		case checkCompany && r.Company == "":
			dropped.MissingCompany++
			continue
		}
		out = append(out, r)
	}

	res := ds.WithRecords(out)
	res.Schema = schema
	res.Dropped = dropped
	return res
}
