package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fluentnotes/fluent-notes/pkg/logger"
)

func TestCORSPreflight(t *testing.T) {
	handler, _ := newTestAPI(t) // default config allows all origins

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/meetings", nil)
	req.Header.Set("Origin", "http://localhost:8080")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, "http://localhost:8080", rec.Header().Get("Access-Control-Allow-Origin"))
	require.Equal(t, "GET, POST, OPTIONS", rec.Header().Get("Access-Control-Allow-Methods"))
}

func TestCORSDisallowedOrigin(t *testing.T) {
	mw := NewMiddleware(logger.NewNop())
	var reached bool
	handler := mw.CORS([]string{"http://allowed.example"})(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reached = true
			w.WriteHeader(http.StatusOK)
		}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	req.Header.Set("Origin", "http://other.example")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	// The request still runs; the browser is simply given no CORS grant
	require.True(t, reached)
	require.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSNoOriginHeaderPassesThrough(t *testing.T) {
	mw := NewMiddleware(logger.NewNop())
	handler := mw.CORS([]string{"*"})(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
