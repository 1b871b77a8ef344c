package actionable

import (
	"fmt"
	"strings"

	"monitor-insights-go/internal/aggregator"
	"monitor-insights-go/internal/diagnostics"
	"monitor-insights-go/internal/types"
)

// coaching holds the development action for each checklist question.
var coaching = [types.CriteriaCount]string{
	"Praticar a abertura padrão: identificação da empresa, nome do agente e oferta de ajuda",
	"Confirmar nome, documento e contato do cliente antes de seguir o atendimento",
	"Ler o aviso de privacidade (LGPD) antes de coletar dados pessoais",
	"Repetir as informações-chave ditas pelo cliente para validar o entendimento",
	"Evitar interrupções e registrar as necessidades do cliente antes de responder",
	"Revisar a base de conhecimento de produtos e serviços com o monitor",
	"Confirmar o resumo do atendimento e os próximos passos com o cliente",
	"Seguir o roteiro de seleção da loja mais próxima e disponível",
	"Usar linguagem clara e positiva, sem jargões técnicos",
	"Manter postura cordial e profissional durante toda a ligação",
	"Aplicar o encerramento padrão, oferecendo ajuda adicional",
	"Convidar o cliente a responder a pesquisa de satisfação ao final",
}

// DevelopmentPlan returns one action card per weak criterion, weakest first.
// With no weak criteria it returns a single card to keep the current standard.
func DevelopmentPlan(weak []diagnostics.Flagged) []ActionCard {
	if len(weak) == 0 {
		return []ActionCard{{
			Severity: Info,
			Insight:  "Nenhum critério abaixo da meta",
			Action:   "Manter o padrão atual e compartilhar boas práticas com a equipe",
			Impact:   "Consolidar o desempenho",
		}}
	}
	cards := make([]ActionCard, 0, len(weak))
	for _, w := range weak {
		sev := Warning
		if w.Band == diagnostics.BandCritical {
			sev = Critical
		}
		cards = append(cards, ActionCard{
			Severity: sev,
			Insight:  fmt.Sprintf("%s com %.1f%% de aderência", w.Name, w.PassRate),
			Action:   coaching[w.Index],
			Impact:   fmt.Sprintf("Elevar %s acima de %.0f%%", w.Name, diagnostics.Target),
		})
	}
	return cards
}

// AgentInput is what the narrative of one agent is written from.
type AgentInput struct {
	Agent        string
	Calls        int
	Mean         float64
	HasScore     bool
	FleetMean    float64
	FleetHas     bool
	Trend        aggregator.Trend
	HasTrend     bool
	LowRiskPct   float64
	SatisfiedPct float64
	HasRisk      bool
	HasSat       bool
	Weak         []diagnostics.Flagged
	Strong       []diagnostics.Flagged
}

// AgentNarrative writes the qualitative paragraphs of an agent report.
func AgentNarrative(in AgentInput) []string {
	var out []string

	if in.HasScore {
		p := fmt.Sprintf("%s realizou %d atendimentos avaliados com score médio de %.1f", in.Agent, in.Calls, in.Mean)
		switch diagnostics.ScoreStatus(in.Mean) {
		case diagnostics.StatusExcellent:
			p += ", nível de excelência"
		case diagnostics.StatusMeetsTarget:
			p += ", dentro da meta"
		default:
			p += ", abaixo da meta"
		}
		if in.FleetHas {
			switch d := in.Mean - in.FleetMean; {
			case d > 0:
				p += fmt.Sprintf(" e %.1f pontos acima da média da equipe", d)
			case d < 0:
				p += fmt.Sprintf(" e %.1f pontos abaixo da média da equipe", -d)
			default:
				p += " e igual à média da equipe"
			}
		}
		out = append(out, p+".")
	} else {
		out = append(out, fmt.Sprintf("%s realizou %d atendimentos, sem nota registrada.", in.Agent, in.Calls))
	}

	if in.HasTrend {
		switch in.Trend.Direction {
		case aggregator.Improving:
			out = append(out, fmt.Sprintf("O histórico mostra evolução: a segunda metade dos atendimentos ficou %.1f pontos acima da primeira.", in.Trend.Delta))
		case aggregator.Declining:
			out = append(out, fmt.Sprintf("O histórico mostra queda: a segunda metade dos atendimentos ficou %.1f pontos abaixo da primeira.", -in.Trend.Delta))
		default:
			out = append(out, "O desempenho se manteve estável ao longo do histórico.")
		}
	}

	if in.HasRisk || in.HasSat {
		var parts []string
		if in.HasRisk {
			parts = append(parts, fmt.Sprintf("%.1f%% dos clientes em risco baixo", in.LowRiskPct))
		}
		if in.HasSat {
			parts = append(parts, fmt.Sprintf("%.1f%% satisfeitos", in.SatisfiedPct))
		}
		out = append(out, "Clientes atendidos: "+strings.Join(parts, ", ")+".")
	}

	if len(in.Strong) > 0 {
		out = append(out, "Pontos fortes: "+names(in.Strong)+".")
	}
	if len(in.Weak) > 0 {
		out = append(out, "Pontos de melhoria: "+names(in.Weak)+".")
	} else {
		out = append(out, "Nenhum critério abaixo da meta.")
	}
	return out
}

func names(fs []diagnostics.Flagged) string {
	parts := make([]string, len(fs))
	for i, f := range fs {
		parts[i] = fmt.Sprintf("%s (%.1f%%)", f.Name, f.PassRate)
	}
	return strings.Join(parts, ", ")
}
