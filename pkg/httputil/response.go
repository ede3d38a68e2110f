package httputil

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/mrquarshie/huddle/pkg/apperrors"
	"github.com/mrquarshie/huddle/pkg/logger"
)

// MessageResponse is the plain message envelope used for errors and simple
// confirmations.
type MessageResponse struct {
	Message string `json:"message"`
}

// ValidationResponse carries field-level violations. Every violated
// constraint is reported, not just the first.
type ValidationResponse struct {
	Errors []apperrors.FieldError `json:"errors"`
}

// WriteJSON writes a JSON response with the given status code.
// If encoding fails, the error is logged but headers are already sent so nothing can be done.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Headers are already sent; nothing meaningful can be done if encoding fails.
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes a standardized error response based on the error type.
// Validation failures become { errors: [...] }, everything else a { message }
// envelope with the status carried by the error. It prefers the
// request-scoped logger from context (set by the RequestLogger middleware)
// over the fallback logger.
func WriteError(w http.ResponseWriter, r *http.Request, err error, fallback *slog.Logger) {
	// Prefer the request-scoped logger (enriched with correlation_id, user_id,
	// trace_id, span_id) if the RequestLogger middleware has been mounted.
	l := logger.FromContext(r.Context())
	if l == slog.Default() {
		l = fallback
	}

	var valErr *apperrors.ValidationError
	if errors.As(err, &valErr) {
		WriteJSON(w, http.StatusBadRequest, ValidationResponse{Errors: valErr.Violations})
		return
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.Status == http.StatusInternalServerError {
			l.ErrorContext(r.Context(), "internal error",
				slog.String("error", err.Error()),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
			)
		}
		WriteJSON(w, appErr.Status, MessageResponse{Message: appErr.Message})
		return
	}

	status := apperrors.HTTPStatus(err)
	message := "Server error"

	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		message = "Not found"
	case errors.Is(err, apperrors.ErrAlreadyExists):
		message = "Resource already exists"
	case errors.Is(err, apperrors.ErrInvalidInput):
		message = err.Error()
	case errors.Is(err, apperrors.ErrUnauthorized):
		message = "Not authorized"
	case errors.Is(err, apperrors.ErrForbidden):
		message = "Forbidden"
	}

	if status == http.StatusInternalServerError {
		l.ErrorContext(r.Context(), "internal error",
			slog.String("error", err.Error()),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		)
	}

	WriteJSON(w, status, MessageResponse{Message: message})
}

// ParseUUID validates that the given string is a valid UUID and returns it.
// An invalid value writes a 404 so that /api/users/:id with a malformed id
// behaves like a lookup miss rather than leaking parsing details.
func ParseUUID(w http.ResponseWriter, param, resource string) (uuid.UUID, bool) {
	id, err := uuid.Parse(param)
	if err != nil {
		WriteJSON(w, http.StatusNotFound, MessageResponse{Message: resource + " not found"})
		return uuid.Nil, false
	}
	return id, true
}
