// Package respond holds the JSON response helpers shared by every HTTP
// handler, including the single mapping from guard errors to statuses.
package respond

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"clinic-access-core/internal/platform/guard"
)

// ErrorResponse is the wire shape of every error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    int    `json:"code"`
	Message string `json:"message,omitempty"`
}

// WriteJSON writes data as a JSON body with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("failed to encode JSON response")
	}
}

// WriteError writes a standardized error body.
func WriteError(w http.ResponseWriter, statusCode int, message string) {
	WriteJSON(w, statusCode, ErrorResponse{
		Error:   http.StatusText(statusCode),
		Code:    statusCode,
		Message: message,
	})
}

func WriteBadRequest(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, message)
}

func WriteNotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, message)
}

func WriteInternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, message)
}

// WriteGuardError maps an authorization pipeline error to its HTTP
// status: 401 for a bad credential, 503 when the membership store is
// unreachable, and 403 for everything else the guard rejects. The 403
// body never says which rule denied.
func WriteGuardError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, guard.ErrUnauthenticated):
		WriteError(w, http.StatusUnauthorized, "invalid or missing credentials")
	case errors.Is(err, guard.ErrUpstreamUnavailable):
		WriteError(w, http.StatusServiceUnavailable, "authorization temporarily unavailable")
	default:
		WriteError(w, http.StatusForbidden, "forbidden")
	}
}
