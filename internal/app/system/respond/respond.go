// Package respond writes JSON response bodies.
package respond

import (
	"encoding/json"
	"net/http"
)

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Detail is the body of every error response.
type Detail struct {
	Detail string `json:"detail"`
}

// Error writes {"detail": msg}. A 401 also carries the bearer challenge.
func Error(w http.ResponseWriter, status int, msg string) {
	if status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", "Bearer")
	}
	JSON(w, status, Detail{Detail: msg})
}

// Message is the body of write endpoints that only report an outcome.
type Message struct {
	Message string `json:"message"`
}

// OK writes {"message": msg} with status 200.
func OK(w http.ResponseWriter, msg string) {
	JSON(w, http.StatusOK, Message{Message: msg})
}
