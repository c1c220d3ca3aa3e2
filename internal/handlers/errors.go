package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	apperrors "github.com/sharmalakshay/listky/pkg/errors"
)

// ErrMessageInternal is the generic message for 500 responses. Internal
// details never reach clients.
const ErrMessageInternal = "internal server error"

// JSONError sends a JSON error response with a single "error" field.
func JSONError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// WriteJSON sends a JSON response body with the given status.
func WriteJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// DomainError maps a typed domain error onto an HTTP status and a safe
// client-facing message.
func DomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, apperrors.ErrAlreadyExists):
		JSONError(w, "already exists", http.StatusConflict)
	case errors.Is(err, apperrors.ErrRateLimited):
		JSONError(w, "too many failed attempts, try again later", http.StatusTooManyRequests)
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		JSONError(w, "invalid credentials", http.StatusUnauthorized)
	case errors.Is(err, apperrors.ErrUnauthorized):
		JSONError(w, "unauthorized", http.StatusUnauthorized)
	case errors.Is(err, apperrors.ErrNotFound):
		JSONError(w, "not found", http.StatusNotFound)
	case errors.Is(err, apperrors.ErrInvalidUsername),
		errors.Is(err, apperrors.ErrInvalidPIN),
		errors.Is(err, apperrors.ErrInvalidSlug),
		errors.Is(err, apperrors.ErrInvalidInput):
		JSONError(w, err.Error(), http.StatusBadRequest)
	default:
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
	}
}
