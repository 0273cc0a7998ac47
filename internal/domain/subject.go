package domain

import "strconv"

// SubjectStatus is the classification of one subject within a period.
type SubjectStatus string

const (
	// StatusApproved marks a subject already passed for the period.
	StatusApproved SubjectStatus = "Aprovado"
	// StatusInProgress marks a subject still in progress or at risk.
	StatusInProgress SubjectStatus = "Cursando"
)

// RawSubjectRecord is one per-subject record exactly as the upstream
// boletim endpoint returns it. Fields are accessed defensively: any of
// them, including the nested stage-grade objects, may be absent or null.
type RawSubjectRecord map[string]interface{}

// Name returns the discipline name, empty when absent.
func (r RawSubjectRecord) Name() string {
	return stringField(r, "disciplina")
}

// Situacao returns the explicit upstream status string, empty when absent.
func (r RawSubjectRecord) Situacao() string {
	return stringField(r, "situacao")
}

// Float reads a top-level numeric field, defaulting to 0 when the field is
// missing, null, or not numeric.
func (r RawSubjectRecord) Float(key string) float64 {
	return coerceFloat(r[key])
}

// Int reads a top-level numeric field as an integer with the same
// zero-defaulting rule as Float.
func (r RawSubjectRecord) Int(key string) int {
	return int(coerceFloat(r[key]))
}

// StageGrade reads the "nota" value of a nested stage object such as
// nota_etapa_1. A missing stage object yields (0, false), never a panic.
func (r RawSubjectRecord) StageGrade(key string) (float64, bool) {
	nested, ok := r[key].(map[string]interface{})
	if !ok {
		return 0, false
	}
	v, ok := nested["nota"]
	if !ok || v == nil {
		return 0, false
	}
	return coerceFloat(v), true
}

// SubjectReport is the normalized, computed view of one subject. It is
// derived per request and never persisted.
type SubjectReport struct {
	Name               string        `json:"disciplina"`
	Grade1             float64       `json:"nota1"`
	Grade2             float64       `json:"nota2"`
	Average            float64       `json:"media"`
	FinalExam          float64       `json:"final"`
	FinalAverage       float64       `json:"media_final"`
	Absences           int           `json:"faltas"`
	CourseHours        int           `json:"carga_horaria"`
	CompletedHours     int           `json:"carga_horaria_cumprida"`
	MaxAllowedAbsences float64       `json:"max_faltas"`
	RemainingAbsences  float64       `json:"faltas_restantes"`
	AttendedPercent    float64       `json:"percentual_frequencia"`
	Status             SubjectStatus `json:"situacao"`
}

// PeriodTotals aggregates attendance across every subject of a period.
type PeriodTotals struct {
	TotalClasses      int     `json:"total_classes"`
	TotalClassesGiven int     `json:"total_classes_given"`
	TotalAbsences     int     `json:"total_absences"`
	TotalFrequency    float64 `json:"total_frequency"`
}

// PeriodSummary counts subjects by classification. TotalSubjects is always
// ApprovedSubjects + AtRiskSubjects.
type PeriodSummary struct {
	TotalSubjects    int `json:"total_subjects"`
	ApprovedSubjects int `json:"approved_subjects"`
	AtRiskSubjects   int `json:"at_risk_subjects"`
}

// coerceFloat applies the uniform numeric coercion rule: missing or null
// becomes 0; JSON numbers pass through; numeric strings are parsed.
func coerceFloat(v interface{}) float64 {
	switch n := v.(type) {
	case nil:
		return 0
	case float64:
		return n
	case int:
		return float64(n)
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

func formatNumeric(f float64) string {
	if f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
