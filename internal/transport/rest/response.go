package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/heartmarshall/mintmind/internal/domain"
)

const maxBodyBytes = 1 << 20

// ErrorResponse is the JSON body of every non-2xx answer.
type ErrorResponse struct {
	Error   string              `json:"error"`
	Details []domain.FieldError `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeError(w http.ResponseWriter, status int, msg string, details []domain.FieldError) {
	writeJSON(w, status, ErrorResponse{Error: msg, Details: details})
}

// decodeJSON reads a size-limited JSON body into dst. Unknown fields are
// rejected.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return domain.NewValidationError("body", fmt.Sprintf("invalid JSON: %v", err))
	}
	return nil
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrUnsupportedKind):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrRequestPending):
		return http.StatusConflict
	case errors.Is(err, domain.ErrUserRejected):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrNotImplemented):
		return http.StatusNotImplemented
	case errors.Is(err, domain.ErrRegistrationFailed), errors.Is(err, domain.ErrConnectionFailed):
		return http.StatusBadGateway
	case errors.Is(err, domain.ErrNoWalletDetected),
		errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// handleError writes err as JSON. Validation errors carry their field
// details; everything else uses msg, the user-facing text for the failed
// operation.
func handleError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error, msg string) {
	status := statusFor(err)

	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		writeError(w, status, verr.Error(), verr.Errors)
		return
	}

	if status >= http.StatusInternalServerError {
		log.ErrorContext(r.Context(), "request failed", slog.Int("status", status), slog.String("error", err.Error()))
	}
	if msg == "" {
		msg = http.StatusText(status)
	}
	writeError(w, status, msg, nil)
}
