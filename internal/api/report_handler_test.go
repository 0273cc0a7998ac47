package api_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ifportal/portal-estudante/internal/domain"
	"github.com/ifportal/portal-estudante/internal/testutil"
)

func TestReport_RequiresExplicitPeriod(t *testing.T) {
	f := newFixture(t)
	headers := f.signIn("sid-report")

	tests := []string{
		"/api/report",
		"/api/report?ano=2024",
		"/api/report?periodo=1",
	}
	for _, url := range tests {
		recorder := f.helper.GET(url, headers)
		f.helper.AssertStatus(recorder, http.StatusBadRequest)
		assert.Contains(t, recorder.Body.String(), "MISSING_PERIOD")
	}
}

func TestReport_ReturnsRows(t *testing.T) {
	f := newFixture(t)
	f.upstream.grades = []domain.RawSubjectRecord{
		testutil.MockRawSubject("História", 90, 90, 90, 0, 40, 40, "Aprovado"),
	}
	headers := f.signIn("sid-report")

	recorder := f.helper.GET("/api/report?ano=2024&periodo=1", headers)
	f.helper.AssertStatus(recorder, http.StatusOK)

	var body struct {
		Success bool `json:"success"`
		Data    struct {
			ReportData []domain.SubjectReport `json:"report_data"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.True(t, body.Success)
	require.Len(t, body.Data.ReportData, 1)
	assert.Equal(t, "História", body.Data.ReportData[0].Name)
}

func TestReportCSV_Download(t *testing.T) {
	f := newFixture(t)
	f.upstream.grades = []domain.RawSubjectRecord{
		testutil.MockRawSubject("História", 90, 90, 90, 0, 40, 40, "Aprovado"),
	}
	headers := f.signIn("sid-csv")

	recorder := f.helper.GET("/api/report/csv?ano=2024&periodo=1", headers)
	f.helper.AssertStatus(recorder, http.StatusOK)

	assert.Contains(t, recorder.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, recorder.Header().Get("Content-Disposition"), `boletim_2024_1.csv`)
	assert.Contains(t, recorder.Body.String(), "Discipline,")
	assert.Contains(t, recorder.Body.String(), "História")
}

func TestReportTable_PlainText(t *testing.T) {
	f := newFixture(t)
	f.upstream.grades = []domain.RawSubjectRecord{
		testutil.MockRawSubject("História", 90, 90, 90, 0, 40, 40, "Aprovado"),
	}
	headers := f.signIn("sid-table")

	recorder := f.helper.GET("/api/report/table?ano=2024&periodo=1", headers)
	f.helper.AssertStatus(recorder, http.StatusOK)
	assert.Contains(t, recorder.Body.String(), "História")
	assert.Contains(t, recorder.Body.String(), "Aprovado")
}

func TestReport_RequiresSession(t *testing.T) {
	f := newFixture(t)

	recorder := f.helper.GET("/api/report?ano=2024&periodo=1", nil)
	f.helper.AssertStatus(recorder, http.StatusUnauthorized)
}
