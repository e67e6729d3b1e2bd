package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hongminglow/expense-tracker-be/internal/http/respond"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler returns uptime and database reachability.
type HealthHandler struct {
	startedAt time.Time
	db        Pinger
}

// NewHealthHandler creates a health endpoint handler.
func NewHealthHandler(startedAt time.Time, db Pinger) *HealthHandler {
	return &HealthHandler{startedAt: startedAt, db: db}
}

// Register wires the handler into a router.
func (h *HealthHandler) Register(r chi.Router) {
	r.Get("/health", h.handle)
}

func (h *HealthHandler) handle(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status, dbState, code := "ok", "ok", http.StatusOK
	if err := h.db.Ping(ctx); err != nil {
		status, dbState, code = "degraded", "unavailable", http.StatusServiceUnavailable
	}
	respond.JSON(w, code, map[string]string{
		"status":   status,
		"uptime":   time.Since(h.startedAt).Truncate(time.Second).String(),
		"database": dbState,
	})
}
