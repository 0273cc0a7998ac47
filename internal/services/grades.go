// Package services contains the grade/attendance aggregation engine and
// the per-request dashboard assembly on top of the SUAP client.
package services

import (
	"math"

	"github.com/ifportal/portal-estudante/internal/domain"
)

// Subjects with an absence count above 25% of the course hours fail on
// attendance, so the absence budget is courseHours * 0.25.
const maxAbsenceRatio = 0.25

// Passing threshold for the computed discipline average (0-100 scale).
const passingAverage = 60.0

// ResolvePeriod selects the effective year/term for a request. An explicit
// requested pair wins verbatim, without validation against the known
// periods. Otherwise the first (most recent) known period is used. With no
// explicit request and no periods the selection is unresolvable and the
// zero period is returned with ok=false; callers must treat that as "no
// data available", not as an error.
func ResolvePeriod(periods []domain.AcademicPeriod, requestedYear, requestedTerm string) (domain.AcademicPeriod, bool) {
	if requestedYear != "" && requestedTerm != "" {
		return domain.AcademicPeriod{Year: requestedYear, Term: requestedTerm}, true
	}
	if len(periods) > 0 {
		return periods[0], true
	}
	return domain.AcademicPeriod{}, false
}

// Normalize maps one raw boletim record into a SubjectReport. It is a
// total function over arbitrary partial records: every missing or null
// numeric field becomes 0, including the nested stage-grade objects.
func Normalize(raw domain.RawSubjectRecord, classify ClassifyFunc) domain.SubjectReport {
	grade1, _ := raw.StageGrade("nota_etapa_1")
	grade2, _ := raw.StageGrade("nota_etapa_2")
	finalExam, _ := raw.StageGrade("nota_avaliacao_final")

	absences := raw.Int("numero_faltas")
	courseHours := raw.Int("carga_horaria")

	maxAllowed := float64(courseHours) * maxAbsenceRatio
	remaining := maxAllowed - float64(absences)
	if remaining < 0 {
		remaining = 0
	}

	return domain.SubjectReport{
		Name:               raw.Name(),
		Grade1:             grade1,
		Grade2:             grade2,
		Average:            raw.Float("media_disciplina"),
		FinalExam:          finalExam,
		FinalAverage:       raw.Float("media_final_disciplina"),
		Absences:           absences,
		CourseHours:        courseHours,
		CompletedHours:     raw.Int("carga_horaria_cumprida"),
		MaxAllowedAbsences: maxAllowed,
		RemainingAbsences:  remaining,
		AttendedPercent:    raw.Float("percentual_carga_horaria_frequentada"),
		Status:             classify(raw),
	}
}

// ClassifyFunc decides whether a subject counts as approved or still in
// progress for the period.
type ClassifyFunc func(raw domain.RawSubjectRecord) domain.SubjectStatus

// ClassifierPolicy names a classification rule.
type ClassifierPolicy string

const (
	// PolicyExtended is the canonical rule: the explicit situacao field
	// wins, and a subject with both stage grades posted and a discipline
	// average at or above the passing threshold also counts as approved.
	PolicyExtended ClassifierPolicy = "extended"
	// PolicySituacao trusts only the explicit situacao field.
	PolicySituacao ClassifierPolicy = "situacao"
)

// NewClassifier returns the ClassifyFunc for a policy. Unknown policies
// fall back to the extended rule.
func NewClassifier(policy ClassifierPolicy) ClassifyFunc {
	if policy == PolicySituacao {
		return classifyBySituacao
	}
	return classifyExtended
}

func classifyBySituacao(raw domain.RawSubjectRecord) domain.SubjectStatus {
	if raw.Situacao() == string(domain.StatusApproved) {
		return domain.StatusApproved
	}
	return domain.StatusInProgress
}

func classifyExtended(raw domain.RawSubjectRecord) domain.SubjectStatus {
	if raw.Situacao() == string(domain.StatusApproved) {
		return domain.StatusApproved
	}
	_, has1 := raw.StageGrade("nota_etapa_1")
	_, has2 := raw.StageGrade("nota_etapa_2")
	if has1 && has2 && raw.Float("media_disciplina") >= passingAverage {
		return domain.StatusApproved
	}
	return domain.StatusInProgress
}

// AggregateTotals folds the normalized subjects into period-level
// attendance totals. The reduction is a stable left-to-right pass; the
// frequency percentage is 0 whenever no class-hours were given yet.
func AggregateTotals(subjects []domain.SubjectReport) domain.PeriodTotals {
	var totals domain.PeriodTotals
	for _, s := range subjects {
		totals.TotalClasses += s.CourseHours
		totals.TotalClassesGiven += s.CompletedHours
		totals.TotalAbsences += s.Absences
	}
	if totals.TotalClassesGiven > 0 {
		attended := float64(totals.TotalClassesGiven-totals.TotalAbsences) / float64(totals.TotalClassesGiven)
		totals.TotalFrequency = round2(attended * 100)
	}
	return totals
}

// AggregateSummary counts subjects by classification.
func AggregateSummary(subjects []domain.SubjectReport) domain.PeriodSummary {
	summary := domain.PeriodSummary{TotalSubjects: len(subjects)}
	for _, s := range subjects {
		if s.Status == domain.StatusApproved {
			summary.ApprovedSubjects++
		} else {
			summary.AtRiskSubjects++
		}
	}
	return summary
}

// BuildReportRows normalizes and classifies every raw record, preserving
// upstream order. The dashboard, the printable report, and the CSV and PDF
// exports all consume these rows, so their computed values never diverge.
func BuildReportRows(records []domain.RawSubjectRecord, classify ClassifyFunc) []domain.SubjectReport {
	rows := make([]domain.SubjectReport, 0, len(records))
	for _, raw := range records {
		rows = append(rows, Normalize(raw, classify))
	}
	return rows
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
