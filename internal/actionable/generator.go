package actionable

import (
	"fmt"

	"monitor-insights-go/internal/aggregator"
	"monitor-insights-go/internal/diagnostics"
	"monitor-insights-go/internal/types"
)

// Alert thresholds, in percent.
const (
	HighRiskAlert        = 20.0
	DissatisfactionAlert = 30.0
	LowRiskObjective     = 60.0
)

type Severity string

const (
	Critical Severity = "critical"
	Warning  Severity = "warning"
	Info     Severity = "info"
)

type ActionCard struct {
	Severity Severity `json:"severity"`
	Insight  string   `json:"insight"`
	Action   string   `json:"action"`
	Impact   string   `json:"impact"`
}

// FleetInput carries the dashboard figures the alerts are computed from.
// HasRisk and HasSatisfaction are false when the sheet lacks those columns.
type FleetInput struct {
	KPIs            aggregator.KPIs
	Risk            []aggregator.Share
	Satisfaction    []aggregator.Share
	HasRisk         bool
	HasSatisfaction bool
}

// FleetAlerts turns the headline KPIs into action cards. When nothing crosses
// a threshold a single informational card is returned.
func FleetAlerts(in FleetInput) []ActionCard {
	var cards []ActionCard
	k := in.KPIs
	if k.HasScore && k.MeanScore < diagnostics.Target {
		cards = append(cards, ActionCard{
			Severity: Critical,
			Insight:  fmt.Sprintf("Score médio de %.1f abaixo da meta (%.0f)", k.MeanScore, diagnostics.Target),
			Action:   "Revisar os critérios mais fracos com a supervisão e agendar calibração da equipe",
			Impact:   "Retomar a meta de qualidade da operação",
		})
	}
	if in.HasRisk {
		if high := aggregator.ShareOf(in.Risk, string(types.RiskHigh)); high > HighRiskAlert {
			cards = append(cards, ActionCard{
				Severity: Critical,
				Insight:  fmt.Sprintf("%.1f%% dos atendimentos com risco alto (limite %.0f%%)", high, HighRiskAlert),
				Action:   "Acionar retenção para os clientes de risco alto e auditar as ligações",
				Impact:   "Reduzir perda de clientes e reclamações formais",
			})
		}
		if k.LowRiskPct < LowRiskObjective {
			cards = append(cards, ActionCard{
				Severity: Warning,
				Insight:  fmt.Sprintf("Risco baixo em %.1f%% dos atendimentos, abaixo do objetivo de %.0f%%", k.LowRiskPct, LowRiskObjective),
				Action:   "Reforçar confirmação de dados e encerramento nas ligações",
				Impact:   "Aumentar a proporção de clientes em risco baixo",
			})
		}
	}
	if in.HasSatisfaction {
		if dis := aggregator.ShareOf(in.Satisfaction, string(types.Dissatisfied)); dis > DissatisfactionAlert {
			cards = append(cards, ActionCard{
				Severity: Critical,
				Insight:  fmt.Sprintf("%.1f%% de clientes insatisfeitos (limite %.0f%%)", dis, DissatisfactionAlert),
				Action:   "Ouvir uma amostra das ligações insatisfeitas e treinar escuta ativa",
				Impact:   "Melhorar a satisfação percebida pelo cliente",
			})
		}
	}
	if len(cards) == 0 {
		return []ActionCard{{
			Severity: Info,
			Insight:  "Indicadores dentro do esperado",
			Action:   "Manter o acompanhamento semanal",
			Impact:   "Sem intervenção imediata",
		}}
	}
	return cards
}
