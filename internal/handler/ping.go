package handler

import "net/http"

// HandlePing is the liveness check.
//
// HTTP: GET /ping (public)
// Responds with the literal string "pong".
func HandlePing(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("pong"))
}
