package export_test

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ifportal/portal-estudante/internal/domain"
	"github.com/ifportal/portal-estudante/internal/export"
)

var sampleRows = []domain.SubjectReport{
	{
		Name:              "Cálculo I",
		Grade1:            70,
		Grade2:            80,
		Average:           75,
		FinalAverage:      75,
		Absences:          4,
		CourseHours:       80,
		RemainingAbsences: 16,
		AttendedPercent:   93.33,
		Status:            domain.StatusApproved,
	},
	{
		Name:     "Física",
		Grade1:   40,
		Grade2:   52.5,
		Average:  46.25,
		Absences: 10,
		Status:   domain.StatusInProgress,
	},
}

func TestCSV(t *testing.T) {
	data, err := export.CSV(sampleRows)
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, export.CSVHeader, records[0])
	assert.Equal(t, []string{
		"Cálculo I", "70", "80", "75", "0", "75", "4", "80", "93.33", "Aprovado",
	}, records[1])
	assert.Equal(t, "52.5", records[2][2], "fractional grades keep their precision")
	assert.Equal(t, "Cursando", records[2][9])
}

func TestCSV_EmptyRowsStillHaveHeader(t *testing.T) {
	data, err := export.CSV(nil)
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, export.CSVHeader, records[0])
}

func TestPDFRows(t *testing.T) {
	rows := export.PDFRows(sampleRows)
	require.Len(t, rows, 3)

	assert.Equal(t, "Disciplina", rows[0][0])
	assert.Equal(t, "Situação", rows[0][len(rows[0])-1])
	assert.Equal(t, "Cálculo I", rows[1][0])
	assert.Equal(t, "Aprovado", rows[1][len(rows[1])-1])

	for i, row := range rows[1:] {
		assert.Len(t, row, len(rows[0]), "row %d must match the header width", i)
	}
}

func TestTable(t *testing.T) {
	rendered := export.Table(sampleRows)

	assert.Contains(t, rendered, "DISCIPLINA")
	assert.Contains(t, rendered, "Cálculo I")
	assert.Contains(t, rendered, "Física")
	assert.Contains(t, rendered, "Aprovado")

	lines := strings.Split(rendered, "\n")
	assert.GreaterOrEqual(t, len(lines), 4)
}
