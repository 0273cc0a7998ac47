// Package testutil provides HTTP test helpers and canned upstream data.
package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ifportal/portal-estudante/internal/domain"
)

// NewTestRouter creates a gin router in test mode.
func NewTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

// HTTPTestHelper provides utilities for HTTP handler testing.
type HTTPTestHelper struct {
	router *gin.Engine
	t      *testing.T
}

// NewHTTPTestHelper creates a new HTTP test helper.
func NewHTTPTestHelper(t *testing.T, router *gin.Engine) *HTTPTestHelper {
	return &HTTPTestHelper{router: router, t: t}
}

// Request performs an HTTP request against the router and records the
// response.
func (h *HTTPTestHelper) Request(
	method, url string,
	body interface{},
	headers map[string]string,
) *httptest.ResponseRecorder {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			h.t.Fatalf("failed to marshal request body: %v", err)
		}
		bodyReader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequestWithContext(context.Background(), method, url, bodyReader)
	if err != nil {
		h.t.Fatalf("failed to create request: %v", err)
	}
	if bodyReader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	recorder := httptest.NewRecorder()
	h.router.ServeHTTP(recorder, req)
	return recorder
}

// GET performs a GET request.
func (h *HTTPTestHelper) GET(url string, headers map[string]string) *httptest.ResponseRecorder {
	return h.Request(http.MethodGet, url, nil, headers)
}

// POST performs a POST request.
func (h *HTTPTestHelper) POST(url string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	return h.Request(http.MethodPost, url, body, headers)
}

// AssertStatus asserts the recorded status code.
func (h *HTTPTestHelper) AssertStatus(recorder *httptest.ResponseRecorder, expectedStatus int) {
	h.t.Helper()
	if recorder.Code != expectedStatus {
		h.t.Errorf("status code mismatch: expected %d, got %d (body: %s)",
			expectedStatus, recorder.Code, recorder.Body.String())
	}
}

// MockRawSubject builds a raw boletim record the way the upstream encodes
// it, with nested stage-grade objects.
func MockRawSubject(name string, grade1, grade2, average float64, absences, courseHours, completedHours int, situacao string) domain.RawSubjectRecord {
	return domain.RawSubjectRecord{
		"disciplina":             name,
		"nota_etapa_1":           map[string]interface{}{"nota": grade1},
		"nota_etapa_2":           map[string]interface{}{"nota": grade2},
		"media_disciplina":       average,
		"numero_faltas":          float64(absences),
		"carga_horaria":          float64(courseHours),
		"carga_horaria_cumprida": float64(completedHours),
		"situacao":               situacao,
	}
}

// MockSession builds a stored session for handler tests, valid for an hour.
func MockSession(id, token string) *domain.Session {
	now := time.Now()
	return &domain.Session{
		ID:          id,
		AccessToken: token,
		Profile: domain.UserProfile{
			Name:         "Maria Silva",
			Registration: "20240012345",
			Email:        "maria@example.edu",
		},
		CreatedAt: now,
		ExpiresAt: now.Add(time.Hour),
	}
}
