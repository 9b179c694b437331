package errors

import "net/http"

// ErrorCode identifies a specific error scenario.
type ErrorCode string

const (
	// Graph errors
	CodeNodeNotFound     ErrorCode = "NODE_NOT_FOUND"
	CodeEdgeNotFound     ErrorCode = "EDGE_NOT_FOUND"
	CodeEdgeExists       ErrorCode = "EDGE_ALREADY_EXISTS"
	CodeInvalidGraphFile ErrorCode = "INVALID_GRAPH_FILE"

	// Viewport errors
	CodeViewportNotReady ErrorCode = "VIEWPORT_NOT_READY"
	CodeNothingToFit     ErrorCode = "NOTHING_TO_FIT"

	// Validation errors
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	CodeInvalidInput     ErrorCode = "INVALID_INPUT"

	// Configuration errors
	CodeConfigLoad    ErrorCode = "CONFIG_LOAD_FAILED"
	CodeConfigInvalid ErrorCode = "CONFIG_INVALID"
	CodeConfigWatch   ErrorCode = "CONFIG_WATCH_FAILED"

	// Infrastructure errors
	CodeInternalError ErrorCode = "INTERNAL_ERROR"
	CodePanic         ErrorCode = "PANIC_RECOVERED"
	CodeWrapped       ErrorCode = "WRAP_ERROR"
)

// HTTPStatusCode returns the HTTP status for the code, or 0 when the code
// does not pin one down.
func (c ErrorCode) HTTPStatusCode() int {
	switch c {
	case CodeValidationFailed, CodeInvalidInput, CodeInvalidGraphFile:
		return http.StatusBadRequest
	case CodeNodeNotFound, CodeEdgeNotFound:
		return http.StatusNotFound
	case CodeEdgeExists:
		return http.StatusConflict
	case CodeNothingToFit:
		return http.StatusUnprocessableEntity
	case CodeViewportNotReady:
		return http.StatusServiceUnavailable
	default:
		return 0
	}
}

// Severity returns the default severity for the code.
func (c ErrorCode) Severity() ErrorSeverity {
	switch c {
	case CodeInternalError, CodePanic:
		return SeverityCritical
	case CodeConfigLoad, CodeConfigWatch:
		return SeverityHigh
	case CodeConfigInvalid, CodeViewportNotReady:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// String returns the string representation of the code.
func (c ErrorCode) String() string {
	return string(c)
}
