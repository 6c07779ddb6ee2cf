package errors

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassifiedError(t *testing.T) {
	t.Run("builder fields", func(t *testing.T) {
		err := NewError(CategoryConfig, "invalid configuration").
			WithSeverity(SeverityFatal).
			WithContext("file", "config.yaml").
			Build()

		require.Equal(t, CategoryConfig, err.Category())
		require.Equal(t, SeverityFatal, err.Severity())
		require.Equal(t, "invalid configuration", err.Message())
		require.Equal(t, ErrorContext{"file": "config.yaml"}, err.Context())
	})

	t.Run("wrapping keeps the cause", func(t *testing.T) {
		cause := stderrors.New("connection refused")
		err := WrapError(cause, CategoryNetwork, "content API unreachable").Retryable().Build()

		require.ErrorIs(t, err, cause)
		require.True(t, err.CanRetry())
		require.Contains(t, err.Error(), "[network:error] content API unreachable: connection refused")
	})

	t.Run("AsClassified walks the chain", func(t *testing.T) {
		inner := NotFoundError("article missing").Build()
		wrapped := fmt.Errorf("page: %w", inner)

		got, ok := AsClassified(wrapped)
		require.True(t, ok)
		require.Same(t, inner, got)
		require.True(t, HasCategory(wrapped, CategoryNotFound))
		require.False(t, HasCategory(stderrors.New("plain"), CategoryNotFound))
	})
}

func TestHTTPErrorAdapter_StatusCodeFor(t *testing.T) {
	adapter := NewHTTPErrorAdapter(slog.Default())

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"nil error", nil, http.StatusOK},
		{"validation", ValidationError("bad query").Build(), http.StatusBadRequest},
		{"not found", NotFoundError("missing").Build(), http.StatusNotFound},
		{"network", NetworkError("down").Build(), http.StatusBadGateway},
		{"decode", NewError(CategoryDecode, "garbled").Build(), http.StatusBadGateway},
		{"render", RenderError("template").Build(), http.StatusInternalServerError},
		{"runtime", NewError(CategoryRuntime, "shutting down").Build(), http.StatusServiceUnavailable},
		{"unclassified", stderrors.New("unknown"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, adapter.StatusCodeFor(tt.err))
		})
	}
}

func TestHTTPErrorAdapter_WriteErrorResponse(t *testing.T) {
	adapter := NewHTTPErrorAdapter(slog.Default())

	t.Run("json when asked", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/articles/x", nil)
		req.Header.Set("Accept", "application/json")
		rec := httptest.NewRecorder()

		adapter.WriteErrorResponse(rec, req, NetworkError("content API unreachable").WithContext("endpoint", "/articles/x").Build())

		require.Equal(t, http.StatusBadGateway, rec.Code)
		require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		var payload HTTPErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
		require.Equal(t, "content API unreachable", payload.Error)
		require.Equal(t, "network", payload.Code)
		require.True(t, payload.Retryable)
		require.Equal(t, "/articles/x", payload.Details["endpoint"])
	})

	t.Run("plain text otherwise", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()

		adapter.WriteErrorResponse(rec, req, InternalError("boom").Build())

		require.Equal(t, http.StatusInternalServerError, rec.Code)
		require.Equal(t, "Internal Server Error\n", rec.Body.String())
	})
}

func TestCLIErrorAdapter(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, slog.Default())

	require.Equal(t, 0, adapter.ExitCodeFor(nil))
	require.Equal(t, 7, adapter.ExitCodeFor(ConfigError("bad").Build()))
	require.Equal(t, 2, adapter.ExitCodeFor(ValidationError("bad").Build()))
	require.Equal(t, 8, adapter.ExitCodeFor(NetworkError("down").Build()))
	require.Equal(t, 1, adapter.ExitCodeFor(stderrors.New("plain")))

	var out bytes.Buffer
	code := adapter.Report(&out, ConfigError("api.prefix must start with /").Build())
	require.Equal(t, 7, code)
	require.Equal(t, "Error: api.prefix must start with / (use -v for details)\n", out.String())
}
