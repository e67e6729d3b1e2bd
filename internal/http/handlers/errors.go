package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/hongminglow/expense-tracker-be/internal/http/respond"
	"github.com/hongminglow/expense-tracker-be/internal/storage"
)

// storeError reports a failed store call. Connection failures get a generic
// message; anything else echoes the database error text.
func storeError(w http.ResponseWriter, r *http.Request, log *slog.Logger, op string, err error) {
	log.ErrorContext(r.Context(), "store call failed", "op", op, "error", err)
	if errors.Is(err, storage.ErrUnavailable) {
		respond.Message(w, http.StatusInternalServerError, "Failed to connect to the database.")
		return
	}
	respond.Message(w, http.StatusInternalServerError, "Database error: "+err.Error())
}
