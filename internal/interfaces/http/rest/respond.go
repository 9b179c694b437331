package rest

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	apperrors "flowcanvas/internal/errors"
	"flowcanvas/internal/validation"
)

// maxBodyBytes bounds request bodies; a graph upload is the largest payload.
const maxBodyBytes = 8 << 20

func respondJSON(w http.ResponseWriter, status int, data any, logger *zap.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("Failed to encode response", zap.Error(err))
	}
}

// decode reads a JSON body into dst and validates it.
func decode(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperrors.Validation(apperrors.CodeInvalidInput, "Invalid request body").
			WithDetails(err.Error()).
			WithCause(err).
			Build()
	}
	return validation.Struct(dst, apperrors.CodeValidationFailed)
}
