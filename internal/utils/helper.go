package utils

import (
	"encoding/json"
	"net/http"

	"physicsclass-be/internal/logger"

	"go.uber.org/zap"
)

func StrPtr(s string) *string {
	return &s
}

func PtrString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// WriteJSON writes v with the given status code.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.L().Warn("failed to encode response", zap.Error(err))
	}
}

// WriteJSONError writes the {success:false,error} envelope.
func WriteJSONError(w http.ResponseWriter, message string, code int) {
	WriteJSON(w, code, map[string]any{"success": false, "error": message})
}
