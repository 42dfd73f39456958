package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rms-foh/api/internal/enum"
	"github.com/rms-foh/api/internal/service"
	"github.com/rms-foh/api/internal/state"
)

// KitchenHandler handles the chef's dashboard endpoints.
type KitchenHandler struct {
	sessions *state.Manager
	svc      *service.FrontOfHouse
}

// NewKitchenHandler creates a new KitchenHandler.
func NewKitchenHandler(sessions *state.Manager, svc *service.FrontOfHouse) *KitchenHandler {
	return &KitchenHandler{sessions: sessions, svc: svc}
}

// RegisterRoutes registers kitchen endpoints on the given Chi router.
func (h *KitchenHandler) RegisterRoutes(r chi.Router) {
	r.Get("/kitchen/orders", h.List)
	r.Post("/orders/{id}/ready", h.MarkReady)
}

// List handles GET /kitchen/orders: every order still in the kitchen's
// hands, newest first. Completed orders are history, not work.
func (h *KitchenHandler) List(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFromRequest(h.sessions, w, r)
	if !ok {
		return
	}

	var open []state.Order
	for _, o := range session.Orders.List() {
		if o.Status != enum.OrderStatusCompleted {
			open = append(open, o)
		}
	}
	writeJSON(w, http.StatusOK, toOrderResponses(open))
}

// MarkReady handles POST /orders/{id}/ready.
func (h *KitchenHandler) MarkReady(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFromRequest(h.sessions, w, r)
	if !ok {
		return
	}

	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order ID"})
		return
	}

	order, err := h.svc.MarkOrderReady(session, orderID)
	if err != nil {
		writeStateError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toOrderResponse(order))
}
