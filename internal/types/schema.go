package types

// Field identifies a known column of the Consulta1 sheet.
type Field int

const (
	FieldAnalysisTime Field = iota
	FieldCallTime
	FieldAgent
	FieldCompany
	FieldRawScore
	FieldPercentage
	FieldSatisfaction
	FieldRisk
	FieldOutcome
	FieldMp3FileName
	FieldJustification
	FieldIDAnalysis
	fieldCount
)

var fieldHeaders = [fieldCount]string{
	FieldAnalysisTime:  "AnalysisDateTime",
	FieldCallTime:      "CallDate",
	FieldAgent:         "CustomerAgent",
	FieldCompany:       "Empresas",
	FieldRawScore:      "NOTAS",
	FieldPercentage:    "",
	FieldSatisfaction:  "Client",
	FieldRisk:          "ClientRisk",
	FieldOutcome:       "ClientOutcome",
	FieldMp3FileName:   "Mp3FileName",
	FieldJustification: "Justification",
	FieldIDAnalysis:    "IdAnalysis",
}

// Header returns the canonical column name of f. The percentage column has
// several accepted spellings and returns "".
func (f Field) Header() string {
	if f < 0 || f >= fieldCount {
		return ""
	}
	return fieldHeaders[f]
}

// Fields lists every known field in declaration order.
func Fields() []Field {
	out := make([]Field, 0, fieldCount)
	for f := Field(0); f < fieldCount; f++ {
		out = append(out, f)
	}
	return out
}

// Schema describes which optional columns a dataset carries. It is computed
// once at load time and consulted by every later stage.
type Schema struct {
	Header           []string           `json:"header"`
	Columns          map[Field]int      `json:"-"`
	PercentageColumn string             `json:"percentage_column,omitempty"`
	Criteria         [CriteriaCount]int `json:"-"`
}

func NewSchema(header []string) Schema {
	s := Schema{
		Header:  append([]string(nil), header...),
		Columns: make(map[Field]int),
	}
	for i := range s.Criteria {
		s.Criteria[i] = -1
	}
	return s
}

// Clone returns a copy whose column map can be changed independently.
func (s Schema) Clone() Schema {
	out := s
	out.Header = append([]string(nil), s.Header...)
	out.Columns = make(map[Field]int, len(s.Columns))
	for f, i := range s.Columns {
		out.Columns[f] = i
	}
	return out
}

func (s Schema) Has(f Field) bool {
	_, ok := s.Columns[f]
	return ok
}

// Index returns the column index of f, or -1 when absent.
func (s Schema) Index(f Field) int {
	if i, ok := s.Columns[f]; ok {
		return i
	}
	return -1
}

// HasCriterion reports whether QuestionN (0-based i) exists in the sheet.
func (s Schema) HasCriterion(i int) bool {
	return i >= 0 && i < CriteriaCount && s.Criteria[i] >= 0
}

// HasScoreSource reports whether any column can produce score_pct.
func (s Schema) HasScoreSource() bool {
	return s.Has(FieldPercentage) || s.Has(FieldRawScore)
}

// Present lists the canonical names of the known columns found in the sheet.
func (s Schema) Present() []string {
	var out []string
	for _, f := range Fields() {
		if !s.Has(f) {
			continue
		}
		if f == FieldPercentage {
			out = append(out, s.PercentageColumn)
			continue
		}
		out = append(out, f.Header())
	}
	return out
}
