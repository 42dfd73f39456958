package handler

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rms-foh/api/internal/enum"
	"github.com/rms-foh/api/internal/service"
	"github.com/rms-foh/api/internal/state"
	"github.com/rms-foh/api/internal/upstream"
)

// UpstreamOrders defines the backend methods needed by the takeaway handler.
// Satisfied by *upstream.Client; narrow interface for testability.
type UpstreamOrders interface {
	TakeawayOrders(ctx context.Context, token string) ([]upstream.TakeawayOrder, error)
	Enabled() bool
}

// TakeawayHandler handles the takeaway counter endpoints.
type TakeawayHandler struct {
	sessions *state.Manager
	svc      *service.FrontOfHouse
	backend  UpstreamOrders
}

// NewTakeawayHandler creates a new TakeawayHandler.
func NewTakeawayHandler(sessions *state.Manager, svc *service.FrontOfHouse, backend UpstreamOrders) *TakeawayHandler {
	return &TakeawayHandler{sessions: sessions, svc: svc, backend: backend}
}

// RegisterRoutes registers takeaway endpoints on the given Chi router.
func (h *TakeawayHandler) RegisterRoutes(r chi.Router) {
	r.Get("/takeaway", h.List)
	r.Post("/takeaway", h.Create)
	r.Post("/takeaway/{id}/complete", h.Complete)
}

// --- Request / Response types ---

type createTakeawayRequest struct {
	CustomerName string            `json:"customer_name"`
	Items        []lineItemRequest `json:"items"`
}

// takeawayListResponse carries the session's own orders plus whatever the
// backend knows about. The backend list is best-effort: when the call fails
// the response says so instead of silently showing less.
type takeawayListResponse struct {
	Orders          []orderResponse          `json:"orders"`
	Upstream        []upstream.TakeawayOrder `json:"upstream"`
	UpstreamOffline bool                     `json:"upstream_offline"`
}

// --- Handlers ---

// List handles GET /takeaway.
func (h *TakeawayHandler) List(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFromRequest(h.sessions, w, r)
	if !ok {
		return
	}

	resp := takeawayListResponse{
		Orders:   toOrderResponses(session.Orders.ListByType(enum.OrderTypeTakeaway)),
		Upstream: []upstream.TakeawayOrder{},
	}

	if h.backend.Enabled() {
		remote, err := h.backend.TakeawayOrders(r.Context(), session.UpstreamToken)
		if err != nil {
			log.Printf("WARN: backend takeaway listing unavailable, serving local only: %v", err)
			resp.UpstreamOffline = true
		} else if remote != nil {
			resp.Upstream = remote
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// Create handles POST /takeaway.
func (h *TakeawayHandler) Create(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFromRequest(h.sessions, w, r)
	if !ok {
		return
	}

	var req createTakeawayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.CustomerName == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "customer_name is required"})
		return
	}

	order, err := h.svc.CreateTakeawayOrder(session, req.CustomerName, toLineItems(req.Items))
	if err != nil {
		writeStateError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toOrderResponse(order))
}

// Complete handles POST /takeaway/{id}/complete: bills the order and flips
// it to COMPLETED. The order stays listed; only the table flow removes
// orders at completion.
func (h *TakeawayHandler) Complete(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFromRequest(h.sessions, w, r)
	if !ok {
		return
	}

	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order ID"})
		return
	}

	bill, err := h.svc.CompleteTakeaway(session, orderID)
	if err != nil {
		writeStateError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toBillResponse(bill))
}
