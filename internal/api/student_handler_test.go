package api_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ifportal/portal-estudante/internal/domain"
	"github.com/ifportal/portal-estudante/internal/services"
	"github.com/ifportal/portal-estudante/internal/testutil"
)

func TestStudentLookup(t *testing.T) {
	f := newFixture(t)
	f.upstream.record = domain.RawSubjectRecord{"nome": "João Souza"}
	f.upstream.grades = []domain.RawSubjectRecord{
		testutil.MockRawSubject("Química", 80, 80, 80, 0, 40, 40, "Aprovado"),
	}
	headers := f.signIn("sid-staff")

	recorder := f.helper.GET("/api/students/20230098765", headers)
	f.helper.AssertStatus(recorder, http.StatusOK)

	var body struct {
		Success bool                 `json:"success"`
		Data    services.StudentInfo `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "João Souza", body.Data.Student["nome"])
	require.Len(t, body.Data.Grades, 1)
	assert.Equal(t, 1, body.Data.Summary.ApprovedSubjects)
}

func TestStudentLookup_UpstreamNotFound(t *testing.T) {
	f := newFixture(t)
	f.upstream.recordErr = domain.NewNotFoundError("STUDENT_NOT_FOUND", "unknown registration")
	headers := f.signIn("sid-staff")

	recorder := f.helper.GET("/api/students/00000000000", headers)
	f.helper.AssertStatus(recorder, http.StatusNotFound)
}

func TestStudentLookup_RequiresSession(t *testing.T) {
	f := newFixture(t)

	recorder := f.helper.GET("/api/students/20230098765", nil)
	f.helper.AssertStatus(recorder, http.StatusUnauthorized)
}
