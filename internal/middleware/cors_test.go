package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func corsTestHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestCORS(t *testing.T) {
	t.Run("allowed_origin_gets_headers", func(t *testing.T) {
		mw := CORS([]string{"http://localhost:5173"})
		req := httptest.NewRequest(http.MethodGet, "/messages", nil)
		req.Header.Set("Origin", "http://localhost:5173")
		rec := httptest.NewRecorder()

		mw(corsTestHandler()).ServeHTTP(rec, req)

		assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("disallowed_origin_gets_no_headers", func(t *testing.T) {
		mw := CORS([]string{"http://localhost:5173"})
		req := httptest.NewRequest(http.MethodGet, "/messages", nil)
		req.Header.Set("Origin", "http://evil.example")
		rec := httptest.NewRecorder()

		mw(corsTestHandler()).ServeHTTP(rec, req)

		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
		// The request itself still goes through; CORS is a browser contract
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("wildcard_allows_any_origin", func(t *testing.T) {
		mw := CORS([]string{"*"})
		req := httptest.NewRequest(http.MethodGet, "/messages", nil)
		req.Header.Set("Origin", "http://anything.example")
		rec := httptest.NewRecorder()

		mw(corsTestHandler()).ServeHTTP(rec, req)

		assert.Equal(t, "http://anything.example", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight_short_circuits", func(t *testing.T) {
		called := false
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
		})
		mw := CORS([]string{"http://localhost:5173"})
		req := httptest.NewRequest(http.MethodOptions, "/messages", nil)
		req.Header.Set("Origin", "http://localhost:5173")
		rec := httptest.NewRecorder()

		mw(next).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.False(t, called)
	})
}
