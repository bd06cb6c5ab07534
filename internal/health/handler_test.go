package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler(t *testing.T) {
	w := httptest.NewRecorder()
	Handler(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestHandlerIgnoresDependencies(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", Handler)
	mux.HandleFunc("GET /ready", ReadyHandler(map[string]Check{
		"database": func(context.Context) error { return errors.New("connection refused") },
	}, time.Second))

	live := httptest.NewRecorder()
	mux.ServeHTTP(live, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, live.Code)

	ready := httptest.NewRecorder()
	mux.ServeHTTP(ready, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, ready.Code)
	assert.Contains(t, ready.Body.String(), `"status":"unavailable"`)
}

func TestReadyHandler(t *testing.T) {
	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("connection refused") }

	tests := []struct {
		name       string
		checks     map[string]Check
		wantStatus int
		wantChecks map[string]string
	}{
		{"all healthy", map[string]Check{"database": ok, "redis": ok}, http.StatusOK,
			map[string]string{"database": "ok", "redis": "ok"}},
		{"redis down", map[string]Check{"database": ok, "redis": down}, http.StatusServiceUnavailable,
			map[string]string{"database": "ok", "redis": "connection refused"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			ReadyHandler(tt.checks, time.Second)(w, httptest.NewRequest(http.MethodGet, "/ready", nil))

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

			var body struct {
				Status string            `json:"status"`
				Checks map[string]string `json:"checks"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.wantChecks, body.Checks)
		})
	}
}

func TestReadyHandlerTimeout(t *testing.T) {
	slow := func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}
	w := httptest.NewRecorder()
	ReadyHandler(map[string]Check{"database": slow}, 10*time.Millisecond)(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
