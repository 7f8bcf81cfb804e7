package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"reelforge/internal/canvas"
	"reelforge/internal/creative"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps domain errors onto HTTP statuses: precondition failures are
// the caller's fault, generation failures come from upstream, the rest is ours.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case canvas.IsPrecondition(err):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, creative.ErrUnusableNote):
		status = http.StatusUnprocessableEntity
	case canvas.IsGenerationFailure(err):
		status = http.StatusBadGateway
	}
	writeJSON(w, status, map[string]any{"error": err.Error()})
}
