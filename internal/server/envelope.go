package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/judgeLC/VupPlaylist-sub000/internal/models"
)

// Envelope is the uniform JSON response shape for every API endpoint.
type Envelope struct {
	Success   bool   `json:"success"`
	Message   string `json:"message,omitempty"`
	Data      any    `json:"data,omitempty"`
	Error     string `json:"error,omitempty"`
	Timestamp string `json:"timestamp"`
}

func respond(w http.ResponseWriter, status int, env Envelope) {
	env.Timestamp = time.Now().Format(models.TimeFormat)
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(env)
}

// ok writes a success envelope with optional payload.
func ok(w http.ResponseWriter, message string, data any) {
	respond(w, http.StatusOK, Envelope{Success: true, Message: message, Data: data})
}

// fail writes an error envelope with the given HTTP status.
func fail(w http.ResponseWriter, status int, errMsg string) {
	respond(w, status, Envelope{Success: false, Error: errMsg})
}
