// Package export serializes computed report rows for download. The CSV
// and PDF artifacts and the printable table all consume the same rows, so
// they can only differ in serialization, never in computed values.
package export

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/ifportal/portal-estudante/internal/domain"
)

// CSVHeader is the column order of the CSV export.
var CSVHeader = []string{
	"Discipline", "Grade1", "Grade2", "Average", "Final", "FinalAverage",
	"Absences", "CourseHours", "FrequencyPercent", "Status",
}

// CSV renders the report rows as CSV bytes, header first.
func CSV(rows []domain.SubjectReport) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(CSVHeader); err != nil {
		return nil, err
	}
	for _, r := range rows {
		record := []string{
			r.Name,
			formatGrade(r.Grade1),
			formatGrade(r.Grade2),
			formatGrade(r.Average),
			formatGrade(r.FinalExam),
			formatGrade(r.FinalAverage),
			strconv.Itoa(r.Absences),
			strconv.Itoa(r.CourseHours),
			formatGrade(r.AttendedPercent),
			string(r.Status),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// PDFRows returns the table cells of the PDF export: one header row
// followed by one row per subject. The renderer owns fonts and widths;
// the values here are authoritative.
func PDFRows(rows []domain.SubjectReport) [][]string {
	out := make([][]string, 0, len(rows)+1)
	out = append(out, []string{
		"Disciplina", "Nota 1", "Nota 2", "Média", "Final", "Média Final", "Faltas", "Situação",
	})
	for _, r := range rows {
		out = append(out, []string{
			r.Name,
			formatGrade(r.Grade1),
			formatGrade(r.Grade2),
			formatGrade(r.Average),
			formatGrade(r.FinalExam),
			formatGrade(r.FinalAverage),
			strconv.Itoa(r.Absences),
			string(r.Status),
		})
	}
	return out
}

// Table renders the printable plain-text report table.
func Table(rows []domain.SubjectReport) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{
		"Disciplina", "Nota 1", "Nota 2", "Média", "Final", "Média Final",
		"Faltas", "Faltas Restantes", "Situação",
	})
	for _, r := range rows {
		t.AppendRow(table.Row{
			r.Name,
			formatGrade(r.Grade1),
			formatGrade(r.Grade2),
			formatGrade(r.Average),
			formatGrade(r.FinalExam),
			formatGrade(r.FinalAverage),
			r.Absences,
			formatGrade(r.RemainingAbsences),
			string(r.Status),
		})
	}
	return t.Render()
}

func formatGrade(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
