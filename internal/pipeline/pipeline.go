// internal/pipeline/pipeline.go
package pipeline

import (
	"fmt"
	"time"

	"monitor-insights-go/internal/cluster"
	"monitor-insights-go/internal/dataset"
	"monitor-insights-go/internal/logger"
	"monitor-insights-go/internal/scoring"
	"monitor-insights-go/internal/types"
)

type Pipeline struct {
	log *logger.Logger
}

func New(log *logger.Logger) *Pipeline {
	if log == nil {
		log = logger.Discard()
	}
	return &Pipeline{log: log.Component("pipeline")}
}

// Run loads an upload and produces the filtered, clustered dataset every view
// works from: Parse -> Normalize -> Annotate.
func (p *Pipeline) Run(data []byte) (*types.Dataset, error) {
	start := time.Now()
	log := p.log.WithField("bytes", len(data))

	raw, err := dataset.Parse(data)
	if err != nil {
		log.WithError(err).Warn("load failed")
		return nil, fmt.Errorf("load: %w", err)
	}
	log = log.WithField("dataset_id", raw.ID).WithField("fingerprint", raw.Fingerprint[:12])
	log.WithField("rows", len(raw.Records)).Debug("workbook parsed")

	normalized := scoring.Normalize(raw)
	log.WithFields(map[string]interface{}{
		"kept":            len(normalized.Records),
		"low_score":       normalized.Dropped.LowScore,
		"unknown_risk":    normalized.Dropped.UnknownRisk,
		"missing_company": normalized.Dropped.MissingCompany,
		"score_column":    normalized.Schema.PercentageColumn,
	}).Debug("scores normalized")

	ds := cluster.Annotate(normalized)

	log.WithField("records", len(ds.Records)).
		WithField("duration_ms", time.Since(start).Milliseconds()).
		Info("dataset ready")
	return ds, nil
}
