package httpx

import (
	"encoding/json"
	"net/http"
)

// Envelope is the uniform response body for every JSON endpoint. The HTTP
// status code is mirrored into the body so clients that swallow transport
// details still see it.
type Envelope struct {
	StatusCode  int               `json:"status_code"`
	Message     string            `json:"message"`
	AccessToken string            `json:"access_token,omitempty"`
	Data        any               `json:"data,omitempty"`
	Errors      map[string]string `json:"errors,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
// It automatically sets the Content-Type header and Cache-Control headers.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteEnvelope writes an Envelope, forcing the embedded status code to match
// the transport status.
func WriteEnvelope(w http.ResponseWriter, code int, env Envelope) {
	env.StatusCode = code
	WriteJSON(w, code, env)
}

// WriteMessage writes a body-only envelope with the given message.
func WriteMessage(w http.ResponseWriter, code int, message string) {
	WriteEnvelope(w, code, Envelope{Message: message})
}

// WriteValidationErrors writes a 422 envelope with per-field details.
func WriteValidationErrors(w http.ResponseWriter, fields map[string]string) {
	WriteEnvelope(w, http.StatusUnprocessableEntity, Envelope{
		Message: "Validation failed",
		Errors:  fields,
	})
}

// NoCache sets the Cache-Control and Pragma headers to prevent caching.
// This is commonly required for sensitive responses like tokens.
func NoCache(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
}
