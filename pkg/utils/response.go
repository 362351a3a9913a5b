package utils

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// RespondJSON writes a JSON payload with the given status code.
func RespondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		zap.L().Error("failed to encode response", zap.Error(err))
	}
}

// RespondDetail writes the {"detail": ...} error shape used across the API.
func RespondDetail(w http.ResponseWriter, status int, detail interface{}) {
	RespondJSON(w, status, map[string]interface{}{"detail": detail})
}
