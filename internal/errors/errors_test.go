package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestUnifiedError_Creation(t *testing.T) {
	tests := []struct {
		name     string
		builder  func() *UnifiedError
		expected *UnifiedError
	}{
		{
			name: "validation error",
			builder: func() *UnifiedError {
				return Validation(CodeInvalidInput, "Input validation failed").
					WithDetails("field 'zoom' must be positive").
					Build()
			},
			expected: &UnifiedError{
				Type:     ErrorTypeValidation,
				Code:     "INVALID_INPUT",
				Message:  "Input validation failed",
				Details:  "field 'zoom' must be positive",
				Severity: SeverityLow,
			},
		},
		{
			name: "not found error",
			builder: func() *UnifiedError {
				return NotFound(CodeNodeNotFound, "Node not found").WithResource("node").Build()
			},
			expected: &UnifiedError{
				Type:     ErrorTypeNotFound,
				Code:     "NODE_NOT_FOUND",
				Message:  "Node not found",
				Resource: "node",
				Severity: SeverityLow,
			},
		},
		{
			name: "unavailable error",
			builder: func() *UnifiedError {
				return Unavailable(CodeViewportNotReady, "Viewport is not initialized").Build()
			},
			expected: &UnifiedError{
				Type:     ErrorTypeUnavailable,
				Code:     "VIEWPORT_NOT_READY",
				Message:  "Viewport is not initialized",
				Severity: SeverityMedium,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.builder()

			assert.Equal(t, tt.expected.Type, err.Type)
			assert.Equal(t, tt.expected.Code, err.Code)
			assert.Equal(t, tt.expected.Message, err.Message)
			assert.Equal(t, tt.expected.Details, err.Details)
			assert.Equal(t, tt.expected.Resource, err.Resource)
			assert.Equal(t, tt.expected.Severity, err.Severity)
			assert.NotEmpty(t, err.File)
		})
	}
}

func TestUnifiedError_Format(t *testing.T) {
	err := Validation(CodeInvalidInput, "bad input").WithDetails("zoom").Build()
	assert.Equal(t, "[VALIDATION:INVALID_INPUT] bad input: zoom", err.Error())

	err = Internal(CodeInternalError, "boom").WithOperation("fit").Build()
	assert.Equal(t, "[INTERNAL:INTERNAL_ERROR] boom", err.Error())
	assert.Contains(t, err.String(), "Operation: fit")
	assert.Contains(t, err.String(), "Severity: CRITICAL")
}

func TestClassification(t *testing.T) {
	err := fmt.Errorf("outer: %w", NotFound(CodeEdgeNotFound, "missing").Build())

	assert.True(t, IsNotFound(err))
	assert.False(t, IsValidation(err))
	assert.False(t, IsType(errors.New("plain"), ErrorTypeNotFound))
	assert.True(t, IsConflict(Conflict(CodeEdgeExists, "dup").Build()))
	assert.True(t, IsInternal(Internal(CodeInternalError, "x").Build()))
}

func TestWrap(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		assert.Nil(t, Wrap(nil, "op", "msg"))
	})

	t.Run("keeps unified type", func(t *testing.T) {
		orig := Validation(CodeConfigInvalid, "min zoom above max zoom").Build()

		wrapped := Wrap(orig, "config.Load", "configuration rejected")

		assert.Equal(t, ErrorTypeValidation, wrapped.Type)
		assert.Equal(t, "CONFIG_INVALID", wrapped.Code)
		assert.Equal(t, "min zoom above max zoom", wrapped.Details)
		assert.Equal(t, "config.Load", wrapped.Operation)
		assert.ErrorIs(t, wrapped, orig)
	})

	t.Run("plain error becomes internal", func(t *testing.T) {
		cause := errors.New("disk gone")

		wrapped := Wrap(cause, "read", "could not read file")

		assert.Equal(t, ErrorTypeInternal, wrapped.Type)
		assert.Equal(t, "WRAP_ERROR", wrapped.Code)
		assert.Equal(t, "disk gone", wrapped.Details)
		assert.ErrorIs(t, wrapped, cause)
	})
}

func TestStatusCode(t *testing.T) {
	tests := []struct {
		err  *UnifiedError
		want int
	}{
		{Validation(CodeInvalidInput, "").Build(), http.StatusBadRequest},
		{NotFound(CodeNodeNotFound, "").Build(), http.StatusNotFound},
		{Conflict(CodeEdgeExists, "").Build(), http.StatusConflict},
		{Validation(CodeNothingToFit, "").Build(), http.StatusUnprocessableEntity},
		{Unavailable(CodeViewportNotReady, "").Build(), http.StatusServiceUnavailable},
		{Validation(CodeConfigInvalid, "").Build(), http.StatusBadRequest},
		{Internal(CodeInternalError, "").Build(), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusCode(tt.err), tt.err.Code)
	}
}

func TestWriteHTTPError(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/nodes/x", nil)

	WriteHTTPError(rec, req, NotFound(CodeNodeNotFound, "Node not found").WithResource("x").Build(), zap.NewNop())

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body HTTPErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "NODE_NOT_FOUND", body.Error.Code)
	assert.Equal(t, "x", body.Error.Resource)
	assert.NotEmpty(t, body.Timestamp)
}

func TestRecoveryMiddleware(t *testing.T) {
	h := RecoveryMiddleware(zap.NewNop())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("kaboom")
	}))
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "PANIC_RECOVERED")
}
