package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/hongminglow/expense-tracker-be/internal/charts"
	"github.com/hongminglow/expense-tracker-be/internal/http/respond"
	"github.com/hongminglow/expense-tracker-be/internal/models"
	"github.com/hongminglow/expense-tracker-be/internal/models/dto"
	"github.com/hongminglow/expense-tracker-be/internal/storage"
)

// EntryHandler serves CRUD and chart routes for one ledger kind.
type EntryHandler struct {
	store storage.EntryStore
	kind  models.Kind
	log   *slog.Logger
}

// NewEntryHandler constructs the handler for kind.
func NewEntryHandler(store storage.EntryStore, kind models.Kind, log *slog.Logger) *EntryHandler {
	return &EntryHandler{store: store, kind: kind, log: log.With("kind", string(kind))}
}

// Register attaches, for kind "expense":
//
//	GET/POST   /expenses
//	PUT/DELETE /expenses/{id}
//	GET        /expense_bar_chart
//	GET        /expenses_line
func (h *EntryHandler) Register(r chi.Router) {
	plural := h.kind.Table()
	r.Get("/"+plural, h.handleList)
	r.Post("/"+plural, h.handleCreate)
	r.Put("/"+plural+"/{id:[0-9]+}", h.handleUpdate)
	r.Delete("/"+plural+"/{id:[0-9]+}", h.handleDelete)
	r.Get(fmt.Sprintf("/%s_bar_chart", h.kind), h.handleBarChart)
	r.Get(fmt.Sprintf("/%s_line", plural), h.handleLine)
}

func (h *EntryHandler) handleList(w http.ResponseWriter, r *http.Request) {
	entries, err := h.store.ListEntries(r.Context(), h.kind)
	if err != nil {
		storeError(w, r, h.log, "list", err)
		return
	}
	respond.JSON(w, http.StatusOK, entries)
}

func (h *EntryHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}
	created, err := h.store.CreateEntry(r.Context(), h.kind, req.Fields())
	if err != nil {
		storeError(w, r, h.log, "create", err)
		return
	}
	respond.JSON(w, http.StatusCreated, dto.CreatedResponse{
		Message: h.kind.Title() + " added successfully",
		ID:      created.ID,
	})
}

func (h *EntryHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := entryID(w, r)
	if !ok {
		return
	}
	req, ok := h.decode(w, r)
	if !ok {
		return
	}
	if err := h.store.UpdateEntry(r.Context(), h.kind, id, req.Fields()); err != nil {
		storeError(w, r, h.log, "update", err)
		return
	}
	respond.Message(w, http.StatusOK, h.kind.Title()+" updated successfully")
}

func (h *EntryHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := entryID(w, r)
	if !ok {
		return
	}
	if err := h.store.DeleteEntry(r.Context(), h.kind, id); err != nil {
		storeError(w, r, h.log, "delete", err)
		return
	}
	respond.Message(w, http.StatusOK, h.kind.Title()+" deleted successfully")
}

func (h *EntryHandler) handleBarChart(w http.ResponseWriter, r *http.Request) {
	totals, err := h.store.DailyTotals(r.Context(), h.kind)
	if err != nil {
		storeError(w, r, h.log, "daily totals", err)
		return
	}
	if len(totals) == 0 {
		respond.Message(w, http.StatusNotFound, "No data available for chart.")
		return
	}
	respond.JSON(w, http.StatusOK, charts.Bar(charts.BarTitle(h.kind), totals))
}

func (h *EntryHandler) handleLine(w http.ResponseWriter, r *http.Request) {
	points, err := h.store.Series(r.Context(), h.kind)
	if err != nil {
		storeError(w, r, h.log, "series", err)
		return
	}
	respond.JSON(w, http.StatusOK, points)
}

func (h *EntryHandler) decode(w http.ResponseWriter, r *http.Request) (dto.EntryRequest, bool) {
	var req dto.EntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Message(w, http.StatusBadRequest, "invalid JSON payload")
		return dto.EntryRequest{}, false
	}
	return req, true
}

// entryID reads the numeric {id} path segment. Values that overflow int64
// are treated like any other unroutable id.
func entryID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respond.Message(w, http.StatusNotFound, "not found")
		return 0, false
	}
	return id, true
}
