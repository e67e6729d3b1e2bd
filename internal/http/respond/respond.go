package respond

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// MessageBody is the shape of every informational and error response.
type MessageBody struct {
	Message string `json:"message"`
}

// JSON writes payload as the response body with the given status. Encode
// failures go to slog's default logger, which cmd/server sets to the
// configured application logger; the status line is already sent by then.
func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("respond: encode payload failed", "error", err)
	}
}

// Message writes a {"message": ...} body.
func Message(w http.ResponseWriter, status int, message string) {
	JSON(w, status, MessageBody{Message: message})
}
