// Package cli is the terminal front end of the monitoring pipeline.
package cli

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"monitor-insights-go/internal/config"
	"monitor-insights-go/internal/dataset"
	"monitor-insights-go/internal/logger"
	"monitor-insights-go/internal/pipeline"
	"monitor-insights-go/internal/types"
)

type options struct {
	cfg    config.Config
	file   string
	format string

	from         string
	to           string
	agents       []string
	risks        []string
	satisfaction []string
	companies    []string

	now func() time.Time
}

// NewRootCommand builds the monitor command tree.
func NewRootCommand(cfg config.Config) *cobra.Command {
	o := &options{cfg: cfg, now: time.Now}

	root := &cobra.Command{
		Use:           "monitor",
		Short:         "Quality monitoring dashboard for call-center evaluation sheets",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	pf := root.PersistentFlags()
	pf.StringVarP(&o.file, "file", "f", cfg.DatasetPath, "xlsx workbook with a Consulta1 sheet (default $DATASET_PATH)")
	pf.StringVar(&o.format, "format", formatAuto, "output format: auto, table, json or yaml")
	pf.StringVar(&o.from, "from", "", "first analysis day, YYYY-MM-DD")
	pf.StringVar(&o.to, "to", "", "last analysis day, YYYY-MM-DD")
	pf.StringSliceVar(&o.agents, "agent", nil, "restrict to agents (repeatable)")
	pf.StringSliceVar(&o.risks, "risk", nil, "restrict to risk clusters: LOW, MEDIUM, HIGH, UNKNOWN")
	pf.StringSliceVar(&o.satisfaction, "satisfaction", nil, "restrict to satisfaction clusters")
	pf.StringSliceVar(&o.companies, "company", nil, "restrict to companies (repeatable)")

	root.AddCommand(
		newDashboardCmd(o),
		newAgentCmd(o),
		newExportCmd(o),
		newReportCmd(o),
	)
	return root
}

// Execute runs the CLI with the process environment.
func Execute() {
	if err := NewRootCommand(config.Load()).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// load reads the workbook and runs the pipeline. Logs go to stderr so that
// stdout stays machine readable.
func (o *options) load(ctx context.Context) (*types.Dataset, error) {
	if o.file == "" {
		return nil, fmt.Errorf("no workbook: pass --file or set DATASET_PATH")
	}
	log := logger.New(o.cfg.Environment, o.cfg.LogLevel)
	log.Logger.SetOutput(os.Stderr)

	data, err := dataset.ReadFile(ctx, o.file, o.cfg.ReadRetry)
	if err != nil {
		return nil, err
	}
	return pipeline.New(log).Run(data)
}

func (o *options) filter() (dataset.FilterSpec, error) {
	var f dataset.FilterSpec
	var err error
	if o.from != "" {
		if f.From, err = time.Parse(time.DateOnly, o.from); err != nil {
			return f, fmt.Errorf("--from %q: want YYYY-MM-DD", o.from)
		}
	}
	if o.to != "" {
		if f.To, err = time.Parse(time.DateOnly, o.to); err != nil {
			return f, fmt.Errorf("--to %q: want YYYY-MM-DD", o.to)
		}
	}
	f.Agents = o.agents
	f.Companies = o.companies
	for _, r := range o.risks {
		c := types.RiskCluster(strings.ToUpper(r))
		if !slices.Contains(types.RiskClusters, c) {
			return f, fmt.Errorf("--risk %q: unknown cluster", r)
		}
		f.Risks = append(f.Risks, c)
	}
	for _, s := range o.satisfaction {
		c := types.SatisfactionCluster(strings.ToUpper(s))
		if !slices.Contains(types.SatisfactionClusters, c) {
			return f, fmt.Errorf("--satisfaction %q: unknown cluster", s)
		}
		f.Satisfaction = append(f.Satisfaction, c)
	}
	return f, nil
}
