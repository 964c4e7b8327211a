package middleware

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSpec = `
openapi: 3.0.3
info:
  title: Chat Relay API
  version: 1.0.0
paths:
  /messages:
    get:
      operationId: getMessages
      responses:
        "200":
          description: ok
    post:
      operationId: postMessage
      requestBody:
        required: true
        content:
          application/json:
            schema:
              type: object
              required: [sender]
              properties:
                sender:
                  type: string
                  minLength: 1
                text:
                  type: string
      responses:
        "201":
          description: created
`

func writeTestSpec(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "openapi.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testSpec), 0o644))
	return path
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestOpenAPIValidator(t *testing.T) {
	t.Run("disabled_is_noop", func(t *testing.T) {
		mw := OpenAPIValidator(&OpenAPIValidatorConfig{Enabled: false})
		req := httptest.NewRequest(http.MethodGet, "/not-in-spec", nil)
		rec := httptest.NewRecorder()

		mw(okHandler()).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("missing_spec_file_degrades_to_noop", func(t *testing.T) {
		mw := OpenAPIValidator(&OpenAPIValidatorConfig{
			Enabled:  true,
			SpecPath: "/does/not/exist.yaml",
		})
		req := httptest.NewRequest(http.MethodGet, "/messages", nil)
		rec := httptest.NewRecorder()

		mw(okHandler()).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("valid_request_passes", func(t *testing.T) {
		mw := OpenAPIValidator(&OpenAPIValidatorConfig{
			Enabled:  true,
			SpecPath: writeTestSpec(t),
		})
		body := strings.NewReader(`{"sender":"alice","text":"hello"}`)
		req := httptest.NewRequest(http.MethodPost, "/messages", body)
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()

		mw(okHandler()).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("invalid_body_rejected", func(t *testing.T) {
		mw := OpenAPIValidator(&OpenAPIValidatorConfig{
			Enabled:  true,
			SpecPath: writeTestSpec(t),
		})
		body := strings.NewReader(`{"text":"missing sender"}`)
		req := httptest.NewRequest(http.MethodPost, "/messages", body)
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()

		mw(okHandler()).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown_path_rejected", func(t *testing.T) {
		mw := OpenAPIValidator(&OpenAPIValidatorConfig{
			Enabled:  true,
			SpecPath: writeTestSpec(t),
		})
		req := httptest.NewRequest(http.MethodGet, "/not-in-spec", nil)
		rec := httptest.NewRecorder()

		mw(okHandler()).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("skip_paths_bypass_validation", func(t *testing.T) {
		mw := OpenAPIValidator(&OpenAPIValidatorConfig{
			Enabled:   true,
			SpecPath:  writeTestSpec(t),
			SkipPaths: []string{"/health", "/ws"},
		})
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		rec := httptest.NewRecorder()

		mw(okHandler()).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestShouldSkipPath(t *testing.T) {
	skip := []string{"/health", "/metrics"}
	assert.True(t, shouldSkipPath("/health", skip))
	assert.True(t, shouldSkipPath("/health/ready", skip))
	assert.True(t, shouldSkipPath("/metrics", skip))
	assert.False(t, shouldSkipPath("/messages", skip))
	assert.False(t, shouldSkipPath("/healthz", skip))
}
