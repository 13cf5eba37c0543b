package server

import (
	"encoding/json"
	"net/http"
)

// writeJSON encodes payload as the whole response body. Every endpoint,
// including the router's 404/405 fallbacks and the panic handler, answers
// through it so clients always receive application/json.
func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError sends the {"error": message} body used for rejected requests:
// unknown scripts, a missing credential, malformed bodies and exhausted
// execution slots.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
