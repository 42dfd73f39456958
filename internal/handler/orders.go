package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rms-foh/api/internal/service"
	"github.com/rms-foh/api/internal/state"
)

// OrderHandler handles the dine-in order endpoints.
type OrderHandler struct {
	sessions *state.Manager
	svc      *service.FrontOfHouse
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(sessions *state.Manager, svc *service.FrontOfHouse) *OrderHandler {
	return &OrderHandler{sessions: sessions, svc: svc}
}

// RegisterRoutes registers order endpoints on the given Chi router.
func (h *OrderHandler) RegisterRoutes(r chi.Router) {
	r.Post("/orders", h.Create)
	r.Get("/orders", h.List)
	r.Post("/tables/{id}/complete", h.CompleteTable)
}

// --- Request types ---

type createOrderRequest struct {
	TableID int               `json:"table_id"`
	Items   []lineItemRequest `json:"items"`
}

// --- Handlers ---

// Create handles POST /orders: a new dine-in order that occupies its table.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFromRequest(h.sessions, w, r)
	if !ok {
		return
	}

	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.TableID == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "table_id is required"})
		return
	}

	order, err := h.svc.CreateDineInOrder(session, req.TableID, toLineItems(req.Items))
	if err != nil {
		writeStateError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toOrderResponse(order))
}

// List handles GET /orders. Optional ?table= filters to one table; the list
// is newest first either way.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFromRequest(h.sessions, w, r)
	if !ok {
		return
	}

	if table := r.URL.Query().Get("table"); table != "" {
		writeJSON(w, http.StatusOK, toOrderResponses(session.Orders.ListByContext(table)))
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponses(session.Orders.List()))
}

// CompleteTable handles POST /tables/{id}/complete: folds every unbilled
// order on the table into one bill and frees the table.
func (h *OrderHandler) CompleteTable(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFromRequest(h.sessions, w, r)
	if !ok {
		return
	}

	tableID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid table ID"})
		return
	}

	bill, err := h.svc.CompleteTable(session, tableID)
	if err != nil {
		writeStateError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toBillResponse(bill))
}
