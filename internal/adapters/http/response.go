package http

import (
	"encoding/json"
	"net/http"
)

type envelope struct {
	OK      bool   `json:"ok"`
	Message string `json:"message,omitempty"`
	Items   any    `json:"items,omitempty"`
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeMessage(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, envelope{OK: true, Message: message})
}

func writeItems(w http.ResponseWriter, statusCode int, message string, items any) {
	writeJSON(w, statusCode, envelope{OK: true, Message: message, Items: items})
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, envelope{OK: false, Message: message})
}
