package cli

import (
	"bytes"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"monitor-insights-go/internal/dataset"
	"monitor-insights-go/internal/diagnostics"
	"monitor-insights-go/internal/export"
	"monitor-insights-go/internal/processor"
	"monitor-insights-go/internal/report"
)

func pct(v float64) string { return fmt.Sprintf("%.1f%%", v) }

func scoreCell(v float64, ok bool) string {
	if !ok {
		return mutedStyle.Render("n/a")
	}
	return bandStyle(diagnostics.BandFor(v)).Render(fmt.Sprintf("%.1f", v))
}

func newDashboardCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show KPIs, rankings, weak criteria and alerts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := resolveFormat(o.format, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			spec, err := o.filter()
			if err != nil {
				return err
			}
			ds, err := o.load(cmd.Context())
			if err != nil {
				return err
			}
			d := processor.BuildDashboard(ds, spec, o.now())
			return emit(cmd.OutOrStdout(), format, d, func() string { return dashboardTable(d) })
		},
	}
}

func dashboardTable(d processor.Dashboard) string {
	var sb strings.Builder

	k := newTable("Indicadores", "Total", "Score médio", "Risco baixo", "Satisfeitos", "Últimos 7 dias")
	k.add(strconv.Itoa(d.KPIs.Total), scoreCell(d.KPIs.MeanScore, d.KPIs.HasScore), pct(d.KPIs.LowRiskPct), pct(d.KPIs.SatisfiedPct), strconv.Itoa(d.KPIs.LastWeek))
	sb.WriteString(k.String())

	top := newTable("Top agentes", "Agente", "Score", "Ligações", "Risco baixo")
	for _, g := range d.TopAgents {
		top.add(g.Key, scoreCell(g.MeanScore, g.HasScore), strconv.Itoa(g.Count), pct(g.LowRiskPct))
	}
	sb.WriteString(top.String())

	tr := newTable("Necessitam treinamento", "Agente", "Score", "Ligações")
	for _, g := range d.Training {
		tr.add(g.Key, scoreCell(g.MeanScore, g.HasScore), strconv.Itoa(g.Count))
	}
	sb.WriteString(tr.String())

	weak := newTable("Pontos de melhoria", "Critério", "Aderência", "Faixa")
	for _, c := range d.Weak {
		st := bandStyle(c.Band)
		weak.add(c.Name, st.Render(pct(c.PassRate)), st.Render(string(c.Band)))
	}
	sb.WriteString(weak.String())

	daily := newTable("Evolução diária", "Dia", "Score", "Análises")
	for _, g := range d.Daily {
		daily.add(g.Key, scoreCell(g.MeanScore, g.HasScore), strconv.Itoa(g.Count))
	}
	sb.WriteString(daily.String())

	alerts := newTable("Alertas", "Severidade", "Diagnóstico", "Ação")
	for _, a := range d.Alerts {
		alerts.add(severityStyle(a.Severity).Render(string(a.Severity)), a.Insight, a.Action)
	}
	sb.WriteString(alerts.String())

	for _, w := range d.Warnings {
		sb.WriteString(mutedStyle.Render(fmt.Sprintf("aviso: %s (%s): %s", w.View, w.Kind, w.Message)))
		sb.WriteString("\n")
	}
	return sb.String()
}

func newAgentCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "agent NAME",
		Short: "Drill into one agent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := resolveFormat(o.format, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			spec, err := o.filter()
			if err != nil {
				return err
			}
			ds, err := o.load(cmd.Context())
			if err != nil {
				return err
			}
			v, err := processor.BuildAgentView(ds, spec, args[0], o.now())
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			return emit(cmd.OutOrStdout(), format, v, func() string { return agentTable(v) })
		},
	}
}

func agentTable(v processor.AgentView) string {
	var sb strings.Builder
	k := newTable(v.Agent, "Ligações", "Score", "Equipe", "Situação", "Tendência")
	trend := "n/a"
	if v.Trend != nil {
		trend = fmt.Sprintf("%s (%+.1f)", v.Trend.Direction, v.Trend.Delta)
	}
	k.add(strconv.Itoa(v.KPIs.Total), scoreCell(v.KPIs.MeanScore, v.KPIs.HasScore), fmt.Sprintf("%.1f", v.FleetMean), string(v.Status), trend)
	sb.WriteString(k.String())

	c := newTable("Critérios", "Critério", "Aderência", "Avaliações", "Faixa")
	for _, r := range v.Criteria {
		st := bandStyle(r.Band)
		c.add(r.Name, st.Render(pct(r.PassRate)), strconv.Itoa(r.Evaluated), st.Render(string(r.Band)))
	}
	sb.WriteString(c.String())
	return sb.String()
}

func newExportCmd(o *options) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the filtered dataset as xlsx",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := o.filter()
			if err != nil {
				return err
			}
			ds, err := o.load(cmd.Context())
			if err != nil {
				return err
			}
			view := dataset.Filter(ds, spec)
			if out == "" {
				out = export.FileName(export.DatasetPrefix, o.now())
			}
			var buf bytes.Buffer
			if err := export.WriteDataset(&buf, view); err != nil {
				return err
			}
			if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d registros exportados para %s\n", len(view.Records), out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output path (default monitoria_export_<timestamp>.xlsx)")
	return cmd
}

func newReportCmd(o *options) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "report NAME",
		Short: "Generate the quality report of one agent",
		Long: "Generate the quality report of one agent as an xlsx workbook.\n" +
			"With --format json or yaml the report is printed instead.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := o.filter()
			if err != nil {
				return err
			}
			ds, err := o.load(cmd.Context())
			if err != nil {
				return err
			}
			spec.Agents = nil
			now := o.now()
			rep, err := report.Build(dataset.Filter(ds, spec), args[0], o.cfg.EvaluatorName, now)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			if o.format == formatJSON || o.format == formatYAML {
				return emit(cmd.OutOrStdout(), o.format, rep, nil)
			}
			if out == "" {
				out = export.ReportFileName(rep.Agent, now)
			}
			var buf bytes.Buffer
			if err := export.WriteAgentReport(&buf, rep); err != nil {
				return err
			}
			if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "relatório de %s salvo em %s\n", rep.Agent, out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output path (default relatorio_<agent>_<timestamp>.xlsx)")
	return cmd
}
