// Package response defines the envelope every endpoint answers with.
package response

import (
	"net/http"

	"github.com/goccy/go-json"
)

// Envelope is the uniform response body. Exactly one of Data and Error is
// populated depending on Success.
type Envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
	Error   interface{} `json:"error"`
}

// Success builds a successful envelope.
func Success(message string, data interface{}) Envelope {
	return Envelope{Success: true, Message: message, Data: data}
}

// Failure builds a failed envelope; the message doubles as the error.
func Failure(message string) Envelope {
	return Envelope{Success: false, Message: message, Error: message}
}

// JSON writes env with the given status code.
func JSON(w http.ResponseWriter, status int, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(env)
}

// OK writes a success envelope with status.
func OK(w http.ResponseWriter, status int, message string, data interface{}) {
	JSON(w, status, Success(message, data))
}

// Fail writes a failure envelope with status. Status must be 4xx or 5xx so
// the code and the success flag never disagree.
func Fail(w http.ResponseWriter, status int, message string) {
	if status < http.StatusBadRequest {
		status = http.StatusInternalServerError
	}
	JSON(w, status, Failure(message))
}
