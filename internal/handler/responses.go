package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/osse101/ItemLedger_Go/internal/domain"
	"github.com/osse101/ItemLedger_Go/internal/registry"
)

// InvalidInputResponse is returned for malformed path parameters
type InvalidInputResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// ServerErrorResponse is returned for failures outside the registry taxonomy
type ServerErrorResponse struct {
	Error string `json:"error"`
}

// respondJSON sends a JSON response with the given status code and payload
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	buf := getBuffer()
	defer putBuffer(buf)

	// Encode before writing headers so a marshal failure can still become a 500.
	if err := json.NewEncoder(buf).Encode(payload); err != nil {
		slog.Error(LogMsgEncodeFailed, "error", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"` + ErrMsgInternal + `"}` + "\n"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error(LogMsgWriteFailed, "error", err)
	}
}

// respondValue wraps v in the ok variant of the result envelope
func respondValue[V any](w http.ResponseWriter, v V) {
	respondJSON(w, http.StatusOK, registry.Ok(v))
}

// respondCode writes the error variant of the result envelope
func respondCode(w http.ResponseWriter, code domain.ErrorCode) {
	res, err := registry.Fail[struct{}](code)
	if err != nil {
		slog.Error(LogMsgUnexpectedError, "error", err)
		respondJSON(w, http.StatusInternalServerError, ServerErrorResponse{Error: ErrMsgInternal})
		return
	}
	respondJSON(w, statusForCode(code), res)
}

// respondError maps any service error onto a response
func respondError(w http.ResponseWriter, err error) {
	if code, ok := domain.CodeOf(err); ok {
		respondCode(w, code)
		return
	}
	status, msg := mapServiceError(err)
	respondJSON(w, status, ServerErrorResponse{Error: msg})
}

func respondInvalid(w http.ResponseWriter, err error) {
	respondJSON(w, http.StatusBadRequest, InvalidInputResponse{
		Error:  ErrMsgInvalidParams,
		Fields: FormatValidationError(err),
	})
}
