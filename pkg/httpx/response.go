package httpx

import (
	"encoding/json"
	"net/http"
)

// Envelope is the uniform response shape produced by every handler in the
// service: a status mirroring the HTTP status code, a human-readable message,
// and a JSON body ({} when there is nothing to return).
type Envelope struct {
	Status int    `json:"status"`
	Msg    string `json:"msg"`
	Body   any    `json:"body"`
}

// WriteEnvelope writes an Envelope with the given status as both the HTTP
// status code and the envelope's status field. A nil body serializes as {}.
func WriteEnvelope(w http.ResponseWriter, status int, msg string, body any) {
	if body == nil {
		body = struct{}{}
	}
	WriteJSON(w, status, Envelope{Status: status, Msg: msg, Body: body})
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// NoCache sets the Cache-Control and Pragma headers to prevent caching.
// Required for responses carrying tokens.
func NoCache(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
}
