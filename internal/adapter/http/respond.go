package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/simaogato/stockwise-backend/internal/domain"
)

type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON encodes v before writing anything so an encoding failure can still
// produce a clean 500
func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(buf.Bytes())
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, errorResponse{Error: msg})
}

// statusFor maps domain errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidPost), errors.Is(err, domain.ErrInvalidMetrics):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
