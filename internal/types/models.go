package types

import "time"

// CriteriaCount is the number of checklist questions on the evaluation form.
const CriteriaCount = 12

// CriterionNames are the display labels of Question1..Question12.
var CriterionNames = [CriteriaCount]string{
	"Saudação",
	"Dados Cadastrais",
	"LGPD",
	"Técnica do Eco",
	"Escuta Ativa",
	"Conhecimento",
	"Confirmação",
	"Seleção Loja",
	"Comunicação",
	"Conduta",
	"Encerramento",
	"Pesquisa",
}

// Answer is one checklist flag. The zero value means the criterion was not evaluated.
type Answer int8

const (
	NotEvaluated Answer = iota
	Fail
	Pass
)

type Checklist [CriteriaCount]Answer

type Record struct {
	Row           int       `json:"row"`
	IDAnalysis    string    `json:"id_analysis,omitempty"`
	AnalysisTime  time.Time `json:"analysis_time"`
	CallTime      time.Time `json:"call_time,omitempty"`
	Agent         string    `json:"agent"`
	Company       string    `json:"company,omitempty"`
	Mp3FileName   string    `json:"mp3_file_name,omitempty"`
	Justification string    `json:"justification,omitempty"`

	RawScore        *float64 `json:"raw_score,omitempty"`
	PercentageScore *float64 `json:"percentage_score,omitempty"`

	SatisfactionRaw string `json:"client_satisfaction_raw,omitempty"`
	RiskRaw         string `json:"client_risk_raw,omitempty"`
	OutcomeRaw      string `json:"outcome_raw,omitempty"`

	Checklist Checklist `json:"checklist"`

	// derived
	ScorePct     *float64            `json:"score_pct,omitempty"`
	Risk         RiskCluster         `json:"risk_cluster,omitempty"`
	Satisfaction SatisfactionCluster `json:"satisfaction_cluster,omitempty"`
	Outcome      string              `json:"outcome,omitempty"`

	// original sheet cells, used for re-export
	Cells []string `json:"-"`
}

// Score returns the canonical percentage score and whether it is defined.
func (r Record) Score() (float64, bool) {
	if r.ScorePct == nil {
		return 0, false
	}
	return *r.ScorePct, true
}

// DropCounts tracks rows removed by the quality filters at load time.
type DropCounts struct {
	LowScore       int `json:"low_score"`
	UnknownRisk    int `json:"unknown_risk"`
	MissingCompany int `json:"missing_company"`
}

func (d DropCounts) Total() int {
	return d.LowScore + d.UnknownRisk + d.MissingCompany
}

// Dataset is an ordered, read-only collection of records from one upload.
// Stages never modify a Dataset in place; they return a new one.
type Dataset struct {
	ID          string     `json:"id"`
	Fingerprint string     `json:"fingerprint"`
	LoadedAt    time.Time  `json:"loaded_at"`
	Schema      Schema     `json:"schema"`
	Records     []Record   `json:"-"`
	Dropped     DropCounts `json:"dropped"`
}

func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Records)
}

// WithRecords returns a copy of d carrying recs instead of d's records.
func (d *Dataset) WithRecords(recs []Record) *Dataset {
	out := *d
	out.Records = recs
	return &out
}
