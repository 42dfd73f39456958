package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rms-foh/api/internal/service"
	"github.com/rms-foh/api/internal/state"
)

// TableHandler handles the floor-view endpoints.
type TableHandler struct {
	sessions *state.Manager
	svc      *service.FrontOfHouse
}

// NewTableHandler creates a new TableHandler.
func NewTableHandler(sessions *state.Manager, svc *service.FrontOfHouse) *TableHandler {
	return &TableHandler{sessions: sessions, svc: svc}
}

// RegisterRoutes registers table endpoints on the given Chi router.
func (h *TableHandler) RegisterRoutes(r chi.Router) {
	r.Get("/tables", h.List)
	r.Post("/tables/{id}/toggle", h.Toggle)
}

// List handles GET /tables.
func (h *TableHandler) List(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFromRequest(h.sessions, w, r)
	if !ok {
		return
	}

	tables := session.Tables.List()
	resp := make([]tableResponse, len(tables))
	for i, t := range tables {
		resp[i] = toTableResponse(t)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Toggle handles POST /tables/{id}/toggle.
func (h *TableHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFromRequest(h.sessions, w, r)
	if !ok {
		return
	}

	tableID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid table ID"})
		return
	}

	table, err := h.svc.ToggleTable(session, tableID)
	if err != nil {
		writeStateError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toTableResponse(table))
}
