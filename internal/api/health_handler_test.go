package api_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPing(t *testing.T) {
	f := newFixture(t)

	recorder := f.helper.GET("/ping", nil)
	f.helper.AssertStatus(recorder, http.StatusOK)
	assert.Equal(t, "pong", recorder.Body.String())
}

func TestHealth(t *testing.T) {
	f := newFixture(t)

	recorder := f.helper.GET("/health", nil)
	f.helper.AssertStatus(recorder, http.StatusOK)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "development", body["environment"])
	assert.NotZero(t, body["timestamp"])
}
