package commons

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tableside/internal/dto"
	apperrors "tableside/internal/errors"
)

const (
	TraceHeader = "X-Trace-Id"

	// MaxBodyBytes caps request bodies; a full 100-line order is far below it.
	MaxBodyBytes = 256 << 10
)

type traceKey struct{}

// Trace assigns every request a trace id, exposes it in the response headers
// and stores it in the request context.
func Trace(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := uuid.New().String()
		w.Header().Set(TraceHeader, traceID)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), traceKey{}, traceID)))
	})
}

// TraceID returns the request's trace id, minting one if Trace did not run.
func TraceID(r *http.Request) string {
	if id, ok := r.Context().Value(traceKey{}).(string); ok {
		return id
	}
	return uuid.New().String()
}

func WriteJSON(w http.ResponseWriter, status int, data interface{}, logger *zap.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode response", zap.Error(err))
	}
}

// DecodeJSON decodes the request body into dst. A malformed body is reported
// as a ValidationError on field "body".
func DecodeJSON(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return apperrors.NewValidationError("request body too large", apperrors.ValidationDetail{
				Field:   "body",
				Message: fmt.Sprintf("request body must not exceed %d bytes", tooLarge.Limit),
			})
		}
		return apperrors.NewValidationError("invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
	}
	return nil
}

// WriteError maps err onto its HTTP status and writes the error body.
// Unclassified errors are logged and their message is hidden.
func WriteError(w http.ResponseWriter, traceID string, err error, logger *zap.Logger) {
	resp := dto.ErrorResponse{
		TraceID:   traceID,
		Timestamp: time.Now().UTC(),
	}

	if ve, ok := apperrors.IsValidationError(err); ok {
		resp.Status, resp.Code, resp.Message, resp.Details = http.StatusBadRequest, "VALIDATION_ERROR", ve.Message, ve.Details
	} else if ue, ok := apperrors.IsUnauthorizedError(err); ok {
		resp.Status, resp.Code, resp.Message = http.StatusUnauthorized, "UNAUTHORIZED", ue.Message
	} else if fe, ok := apperrors.IsForbiddenError(err); ok {
		resp.Status, resp.Code, resp.Message, resp.Rule = http.StatusForbidden, "FORBIDDEN", fe.Message, fe.Rule
	} else if nfe, ok := apperrors.IsNotFoundError(err); ok {
		resp.Status, resp.Code, resp.Message = http.StatusNotFound, "NOT_FOUND", nfe.Message
	} else if ce, ok := apperrors.IsConflictError(err); ok {
		resp.Status, resp.Code, resp.Message = http.StatusConflict, "CONFLICT", ce.Message
	} else {
		logger.Error("unexpected error", zap.String("traceId", traceID), zap.Error(err))
		resp.Status, resp.Code, resp.Message = http.StatusInternalServerError, "INTERNAL_ERROR", "an unexpected error occurred"
	}

	if resp.Status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", "Bearer")
	}
	WriteJSON(w, resp.Status, resp, logger)
}
