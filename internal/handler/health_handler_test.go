package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-user-api/internal/model"
)

type fakePinger struct {
	err error
}

func (f *fakePinger) Health(_ context.Context) error {
	return f.err
}

func TestHealthCheckReportsOK(t *testing.T) {
	h := NewHealthHandler(&fakePinger{})

	rec := httptest.NewRecorder()
	h.Check(rec, httptest.NewRequest("GET", "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestHealthCheckReportsDatabaseDown(t *testing.T) {
	h := NewHealthHandler(&fakePinger{err: errors.New("connection refused")})

	rec := httptest.NewRecorder()
	h.Check(rec, httptest.NewRequest("GET", "/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body model.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Database unavailable", body.Error)
}
