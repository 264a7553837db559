package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/spookystock/spookystock/internal/model"
)

// jsonResponse writes a JSON response with the given status code.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("encoding response", "error", err)
		}
	}
}

// jsonError writes a JSON error response.
func jsonError(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]string{"error": message})
}

// errorBody is the wire form of a structured catalog error.
type errorBody struct {
	Error  string `json:"error"`
	Kind   string `json:"kind,omitempty"`
	Entity string `json:"entity,omitempty"`
	Field  string `json:"field,omitempty"`
	ID     int64  `json:"id,omitempty"`
}

// writeError maps a catalog error kind to an HTTP status and writes the
// structured body. Anything unclassified becomes a 500.
func writeError(w http.ResponseWriter, err error) {
	var ce *model.Error
	if !errors.As(err, &ce) {
		slog.Error("unclassified error", "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}

	var status int
	switch ce.Kind {
	case model.KindValidation:
		status = http.StatusBadRequest
	case model.KindNotFound:
		status = http.StatusNotFound
	case model.KindCycle, model.KindConflict:
		status = http.StatusConflict
	case model.KindStorage:
		slog.Error("storage failure", "error", ce.Err)
		status = http.StatusServiceUnavailable
	default:
		status = http.StatusInternalServerError
	}

	jsonResponse(w, status, errorBody{
		Error:  ce.Message,
		Kind:   string(ce.Kind),
		Entity: ce.Entity,
		Field:  ce.Field,
		ID:     ce.ID,
	})
}

// decodeJSON decodes a JSON request body into the given target.
func decodeJSON(r *http.Request, target any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(target)
}
