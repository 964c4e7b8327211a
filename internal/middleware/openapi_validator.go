package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers/gorillamux"
)

// OpenAPIValidatorConfig holds configuration for OpenAPI validation middleware
type OpenAPIValidatorConfig struct {
	// Enabled controls whether validation is active
	Enabled bool
	// SpecPath is the path to the OpenAPI specification file
	SpecPath string
	// SkipPaths are paths to skip validation (health, metrics, the socket)
	SkipPaths []string
}

// DefaultOpenAPIValidatorConfig enables request validation in development
// and disables it in production.
func DefaultOpenAPIValidatorConfig() *OpenAPIValidatorConfig {
	env := os.Getenv("ENVIRONMENT")
	isDev := env != "production" && env != "prod"

	return &OpenAPIValidatorConfig{
		Enabled:  isDev,
		SpecPath: "api/openapi.yaml",
		SkipPaths: []string{
			"/health",
			"/metrics",
			"/ws",
		},
	}
}

// OpenAPIValidator validates REST requests against the OpenAPI document.
// Any failure to load the document degrades to a no-op middleware so a bad
// spec file cannot take the relay down.
func OpenAPIValidator(config *OpenAPIValidatorConfig) func(next http.Handler) http.Handler {
	noop := func(next http.Handler) http.Handler { return next }

	if config == nil {
		config = DefaultOpenAPIValidatorConfig()
	}
	if !config.Enabled {
		slog.Info("OpenAPI validation disabled")
		return noop
	}

	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromFile(config.SpecPath)
	if err != nil {
		slog.Error("failed to load OpenAPI spec",
			slog.String("path", config.SpecPath),
			slog.String("error", err.Error()))
		return noop
	}

	if err := doc.Validate(loader.Context); err != nil {
		slog.Error("OpenAPI spec validation failed", slog.String("error", err.Error()))
		return noop
	}

	router, err := gorillamux.NewRouter(doc)
	if err != nil {
		slog.Error("failed to create OpenAPI router", slog.String("error", err.Error()))
		return noop
	}

	slog.Info("OpenAPI validation enabled", slog.String("spec_path", config.SpecPath))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if shouldSkipPath(r.URL.Path, config.SkipPaths) {
				next.ServeHTTP(w, r)
				return
			}

			route, pathParams, err := router.FindRoute(r)
			if err != nil {
				slog.Warn("request path not found in OpenAPI spec",
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path))
				writeValidationError(w, fmt.Sprintf("Path not found in OpenAPI spec: %s %s", r.Method, r.URL.Path))
				return
			}

			input := &openapi3filter.RequestValidationInput{
				Request:    r,
				PathParams: pathParams,
				Route:      route,
				Options: &openapi3filter.Options{
					AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
				},
			}

			if err := openapi3filter.ValidateRequest(context.Background(), input); err != nil {
				slog.Warn("request validation failed",
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.String("error", err.Error()))
				writeValidationError(w, fmt.Sprintf("Request validation failed: %s", err.Error()))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// shouldSkipPath checks if a path should skip validation
func shouldSkipPath(path string, skipPaths []string) bool {
	for _, skipPath := range skipPaths {
		if path == skipPath || strings.HasPrefix(path, skipPath+"/") {
			return true
		}
	}
	return false
}

// writeValidationError writes a JSON error response
func writeValidationError(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
