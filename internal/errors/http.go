package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// HTTPErrorResponse is the JSON body of every error response.
type HTTPErrorResponse struct {
	Error     HTTPErrorDetails `json:"error"`
	RequestID string           `json:"request_id,omitempty"`
	Timestamp string           `json:"timestamp"`
}

// HTTPErrorDetails contains the error details.
type HTTPErrorDetails struct {
	Type     string `json:"type"`
	Code     string `json:"code"`
	Message  string `json:"message"`
	Details  string `json:"details,omitempty"`
	Resource string `json:"resource,omitempty"`
}

// WriteHTTPError writes a standardized error response and logs it at a level
// derived from the severity.
func WriteHTTPError(w http.ResponseWriter, r *http.Request, err error, logger *zap.Logger) {
	if err == nil {
		return
	}

	var unified *UnifiedError
	if !errors.As(err, &unified) {
		unified = Wrap(err, "", "unexpected error")
	}
	requestID := unified.RequestID
	if requestID == "" && r != nil {
		requestID = middleware.GetReqID(r.Context())
	}

	status := StatusCode(unified)
	resp := HTTPErrorResponse{
		Error: HTTPErrorDetails{
			Type:     string(unified.Type),
			Code:     unified.Code,
			Message:  unified.Message,
			Details:  unified.Details,
			Resource: unified.Resource,
		},
		RequestID: requestID,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	logger.Log(logLevel(unified.Severity), "HTTP error response",
		zap.String("error_type", string(unified.Type)),
		zap.String("error_code", unified.Code),
		zap.String("message", unified.Message),
		zap.String("request_id", requestID),
		zap.Int("status_code", status),
		zap.Error(unified.Cause),
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger.Error("Failed to encode error response", zap.Error(err))
	}
}

// StatusCode maps an error to its HTTP status: the code first, then the type.
func StatusCode(err *UnifiedError) int {
	if s := ErrorCode(err.Code).HTTPStatusCode(); s != 0 {
		return s
	}
	switch err.Type {
	case ErrorTypeValidation:
		return http.StatusBadRequest
	case ErrorTypeNotFound:
		return http.StatusNotFound
	case ErrorTypeConflict:
		return http.StatusConflict
	case ErrorTypeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func logLevel(severity ErrorSeverity) zapcore.Level {
	switch severity {
	case SeverityCritical, SeverityHigh:
		return zapcore.ErrorLevel
	case SeverityMedium:
		return zapcore.WarnLevel
	default:
		return zapcore.InfoLevel
	}
}

// RecoveryMiddleware turns a panicking handler into a 500 response.
func RecoveryMiddleware(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					requestID := middleware.GetReqID(r.Context())
					logger.Error("Panic recovered",
						zap.String("request_id", requestID),
						zap.String("method", r.Method),
						zap.String("path", r.URL.Path),
						zap.Any("panic", rec),
						zap.String("stack_trace", string(debug.Stack())),
					)
					appErr := Internal(CodePanic, "An unexpected error occurred").
						WithOperation(fmt.Sprintf("%s %s", r.Method, r.URL.Path)).
						WithRequestID(requestID).
						Build()
					WriteHTTPError(w, r, appErr, logger)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
