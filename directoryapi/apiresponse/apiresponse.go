// Package apiresponse writes the directory API's JSON bodies.
package apiresponse

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"adminconsole/infrastructure/audit"
)

// ActorHeader names who is making a write, for the audit log.
const ActorHeader = "X-Actor"

type ErrorBody struct {
	Message string `json:"message"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("directory api: encode response failed", slog.Any("err", err))
	}
}

func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, ErrorBody{Message: message})
}

// Actor is the X-Actor header or the default audit actor.
func Actor(r *http.Request) string {
	if a := strings.TrimSpace(r.Header.Get(ActorHeader)); a != "" {
		return a
	}
	return audit.DefaultActor
}
