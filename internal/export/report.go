package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"monitor-insights-go/internal/report"
)

// Report workbook sheets, in order.
const (
	SheetSummary   = "Resumo"
	SheetCriteria  = "Critérios"
	SheetPlan      = "Plano"
	SheetHistory   = "Histórico"
	SheetSignature = "Assinatura"
)

// WriteAgentReport writes rep as a workbook with one sheet per report section.
func WriteAgentReport(w io.Writer, rep report.AgentReport) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	for _, name := range []string{SheetCriteria, SheetPlan, SheetHistory, SheetSignature} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("new sheet %s: %w", name, err)
		}
	}
	st, err := newStyles(f)
	if err != nil {
		return fmt.Errorf("styles: %w", err)
	}

	steps := []func(*excelize.File, styles, report.AgentReport) error{
		writeSummary,
		writeCriteria,
		writePlan,
		writeHistory,
		writeSignature,
	}
	for _, step := range steps {
		if err := step(f, st, rep); err != nil {
			return err
		}
	}
	return f.Write(w)
}

func optional(v float64, ok bool) any {
	if !ok {
		return nil
	}
	return v
}

func writeSummary(f *excelize.File, st styles, rep report.AgentReport) error {
	s := rep.Summary
	rows := [][]any{
		{"Agente", rep.Agent},
		{"Atendimentos", s.Calls},
		{"Score médio", optional(s.MeanScore, s.HasScore)},
		{"Situação", string(s.Status)},
		{"Média da equipe", optional(s.FleetMean, s.FleetHasScore)},
		{"% Risco baixo", s.LowRiskPct},
		{"% Satisfeitos", s.SatisfiedPct},
		{"Primeira análise", s.FirstAnalysis},
		{"Última análise", s.LastAnalysis},
		{"Empresas", strings.Join(s.Companies, ", ")},
	}
	if rep.Trend != nil {
		rows = append(rows,
			[]any{"Média 1ª metade", rep.Trend.FirstMean},
			[]any{"Média 2ª metade", rep.Trend.SecondMean},
			[]any{"Variação", rep.Trend.Delta},
			[]any{"Tendência", string(rep.Trend.Direction)},
		)
	}
	rows = append(rows, []any{})
	for _, p := range rep.Narrative {
		rows = append(rows, []any{"Análise", p})
	}

	if err := writeHeader(f, SheetSummary, []string{"Indicador", "Valor"}, st.header); err != nil {
		return err
	}
	for i, row := range rows {
		if err := writeRow(f, SheetSummary, i+2, row); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(SheetSummary, "B9", "B10", st.date); err != nil {
		return err
	}
	return f.SetColWidth(SheetSummary, "A", "B", 24)
}

func writeCriteria(f *excelize.File, st styles, rep report.AgentReport) error {
	if err := writeHeader(f, SheetCriteria, []string{"Critério", "Aderência (%)", "Avaliações", "Faixa", "Destaque"}, st.header); err != nil {
		return err
	}
	weak := map[int]bool{}
	for _, c := range rep.Weak {
		weak[c.Index] = true
	}
	strong := map[int]bool{}
	for _, c := range rep.Strong {
		strong[c.Index] = true
	}
	for i, c := range rep.Criteria {
		mark := ""
		switch {
		case weak[c.Index]:
			mark = "ponto de melhoria"
		case strong[c.Index]:
			mark = "ponto forte"
		}
		if err := writeRow(f, SheetCriteria, i+2, []any{c.Name, c.PassRate, c.Evaluated, string(c.Band), mark}); err != nil {
			return err
		}
	}
	if len(rep.Criteria) > 0 {
		end, _ := excelize.CoordinatesToCellName(2, len(rep.Criteria)+1)
		if err := f.SetCellStyle(SheetCriteria, "B2", end, st.pct); err != nil {
			return err
		}
	}
	return f.SetColWidth(SheetCriteria, "A", "A", 22)
}

func writePlan(f *excelize.File, st styles, rep report.AgentReport) error {
	if err := writeHeader(f, SheetPlan, []string{"Severidade", "Diagnóstico", "Ação", "Impacto"}, st.header); err != nil {
		return err
	}
	for i, c := range rep.Plan {
		if err := writeRow(f, SheetPlan, i+2, []any{string(c.Severity), c.Insight, c.Action, c.Impact}); err != nil {
			return err
		}
	}
	return f.SetColWidth(SheetPlan, "B", "D", 48)
}

func writeHistory(f *excelize.File, st styles, rep report.AgentReport) error {
	if err := writeHeader(f, SheetHistory, []string{"Data", "IdAnalysis", "Empresa", "Score", "Risco", "Satisfação", "Desfecho"}, st.header); err != nil {
		return err
	}
	for i, c := range rep.Recent {
		var s any
		if c.Score != nil {
			s = *c.Score
		}
		row := []any{c.AnalysisTime, c.IDAnalysis, c.Company, s, string(c.Risk), string(c.Satisfaction), c.Outcome}
		if err := writeRow(f, SheetHistory, i+2, row); err != nil {
			return err
		}
	}
	if len(rep.Recent) > 0 {
		end, _ := excelize.CoordinatesToCellName(1, len(rep.Recent)+1)
		if err := f.SetCellStyle(SheetHistory, "A2", end, st.date); err != nil {
			return err
		}
	}
	return f.SetColWidth(SheetHistory, "A", "A", 18)
}

func writeSignature(f *excelize.File, st styles, rep report.AgentReport) error {
	rows := [][]any{
		{"Avaliador", rep.Signature.Evaluator},
		{"Emitido em", rep.Signature.GeneratedAt},
		{"Relatório", rep.Signature.ReportID},
		{"Assinatura", "______________________________"},
		{"Ciente do agente", "______________________________"},
	}
	for i, row := range rows {
		if err := writeRow(f, SheetSignature, i+1, row); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(SheetSignature, "B2", "B2", st.date); err != nil {
		return err
	}
	return f.SetColWidth(SheetSignature, "A", "B", 30)
}
