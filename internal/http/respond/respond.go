// Package respond writes the JSON envelope every API endpoint returns. The
// envelope mirrors the shape of the auth results the front end consumes: a
// success flag, the HTTP status, a user-facing message (pt-BR on the auth
// failure paths), and an optional payload.
package respond

import (
	"encoding/json"
	"log"
	"net/http"
)

// Envelope wraps every API response body.
type Envelope struct {
	Success bool   `json:"success"`
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// JSON writes a successful response carrying the given payload.
func JSON(w http.ResponseWriter, status int, message string, data any) {
	write(w, Envelope{Success: true, Code: status, Message: message, Data: data})
}

// Error writes a failure response; message is shown to the user verbatim.
func Error(w http.ResponseWriter, status int, message string) {
	write(w, Envelope{Success: false, Code: status, Message: message})
}

func write(w http.ResponseWriter, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(env.Code)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		log.Printf("respond: write envelope: %v", err)
	}
}
