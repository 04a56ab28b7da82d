package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/umgjosem/Arqui-parqueo/internal/domain"
)

// The API keeps the response envelope of the service it replaces:
// {"message": ..., "data": ...} on success and {"message": ...,
// "error": ...} on failure, with conflicts reported as 400.

type successEnvelope struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

type errorEnvelope struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

func writeData(w http.ResponseWriter, status int, message string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(successEnvelope{Message: message, Data: data})
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorEnvelope{Message: message})
}

// writeInternal reports an unexpected failure with its cause, matching
// the original API's 500 shape.
func writeInternal(w http.ResponseWriter, message string, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	_ = json.NewEncoder(w).Encode(errorEnvelope{Message: message, Error: err.Error()})
}

// respondServiceError maps domain sentinels onto the API contract:
// missing entities are 404, conflicts and bad input are 400, anything
// else is a 500 carrying contextMessage plus the cause.
func respondServiceError(w http.ResponseWriter, contextMessage string, err error) {
	switch {
	case errors.Is(err, domain.ErrClientNotFound),
		errors.Is(err, domain.ErrSpaceNotFound),
		errors.Is(err, domain.ErrRateNotFound),
		errors.Is(err, domain.ErrTicketNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrDuplicateNIT),
		errors.Is(err, domain.ErrClientInUse),
		errors.Is(err, domain.ErrDuplicateNumber),
		errors.Is(err, domain.ErrSpaceInUse),
		errors.Is(err, domain.ErrSpaceOccupied),
		errors.Is(err, domain.ErrSpaceNotHeld),
		errors.Is(err, domain.ErrDuplicateRate),
		errors.Is(err, domain.ErrRateInUse),
		errors.Is(err, domain.ErrNoActiveRate),
		errors.Is(err, domain.ErrTicketNotActive),
		errors.Is(err, domain.ErrNegativeDuration):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeInternal(w, contextMessage, err)
	}
}

func methodNotAllowed(w http.ResponseWriter) {
	writeError(w, http.StatusMethodNotAllowed, "metodo no permitido")
}
