package httpapi

import (
	"encoding/json"
	"net/http"

	"codeguardian/pkg/types"
)

// Fixed error details returned to callers.
const (
	detailModelNotLoaded = "Model not loaded"
	detailInternal       = "Internal Server Error"
)

// writeJSONError writes a consistent JSON error payload.
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, types.ErrorResponse{Detail: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
