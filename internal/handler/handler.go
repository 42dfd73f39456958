// Package handler exposes the front-of-house screens over HTTP. Every
// protected handler resolves the caller's session from the token claims;
// there is no cross-session visibility.
package handler

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rms-foh/api/internal/middleware"
	"github.com/rms-foh/api/internal/state"
	"github.com/shopspring/decimal"
)

// sessionFromRequest resolves the caller's live session. A token that
// outlives its session (server restart, logout) gets a 401 so the client
// knows to log in again.
func sessionFromRequest(sessions *state.Manager, w http.ResponseWriter, r *http.Request) (*state.Session, bool) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return nil, false
	}

	session := sessions.Get(claims.SessionID)
	if session == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "session expired"})
		return nil, false
	}
	return session, true
}

// writeStateError maps state-machine errors to HTTP status codes.
func writeStateError(w http.ResponseWriter, err error) {
	switch {
	case isNotFound(err):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case isInvalidState(err):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	case isValidationError(err):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		log.Printf("ERROR: unexpected state error: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, state.ErrOrderNotFound) ||
		errors.Is(err, state.ErrTableNotFound) ||
		errors.Is(err, state.ErrEntryNotFound)
}

func isInvalidState(err error) bool {
	return errors.Is(err, state.ErrAlreadyCompleted) ||
		errors.Is(err, state.ErrNoOrders)
}

// isValidationError checks if the error is a known validation error from the
// state layer that should result in 400 Bad Request.
func isValidationError(err error) bool {
	return errors.Is(err, state.ErrEmptyItems) ||
		errors.Is(err, state.ErrEmptyItemName) ||
		errors.Is(err, state.ErrInvalidQuantity) ||
		errors.Is(err, state.ErrInvalidPrice) ||
		errors.Is(err, state.ErrEmptyContext) ||
		errors.Is(err, state.ErrInvalidOrderType) ||
		errors.Is(err, state.ErrEmptyPartyName) ||
		errors.Is(err, state.ErrInvalidPartySize)
}

// --- Shared response types ---

type lineItemRequest struct {
	Name     string   `json:"name"`
	Quantity int32    `json:"quantity"`
	Price    *float64 `json:"price,omitempty"`
}

type lineItemResponse struct {
	Name      string `json:"name"`
	Quantity  int32  `json:"quantity"`
	UnitPrice string `json:"unit_price"`
	Subtotal  string `json:"subtotal"`
}

type orderResponse struct {
	ID        uuid.UUID          `json:"id"`
	Number    string             `json:"number"`
	ContextID string             `json:"context_id"`
	Type      string             `json:"type"`
	Status    string             `json:"status"`
	Items     []lineItemResponse `json:"items"`
	CreatedAt time.Time          `json:"created_at"`
}

type billResponse struct {
	ID        uuid.UUID          `json:"id"`
	Number    string             `json:"number"`
	Source    string             `json:"source"`
	Type      string             `json:"type"`
	Items     []lineItemResponse `json:"items"`
	Total     string             `json:"total"`
	CreatedAt time.Time          `json:"created_at"`
}

type tableResponse struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

type queueEntryResponse struct {
	ID        uuid.UUID `json:"id"`
	PartyName string    `json:"party_name"`
	PartySize int32     `json:"party_size"`
	Status    string    `json:"status"`
}

// --- Conversions ---

func toLineItems(reqs []lineItemRequest) []state.LineItem {
	items := make([]state.LineItem, len(reqs))
	for i, r := range reqs {
		items[i] = state.LineItem{Name: r.Name, Quantity: r.Quantity}
		if r.Price != nil {
			items[i].UnitPrice = decimal.NewFromFloat(*r.Price)
			items[i].HasPrice = true
		}
	}
	return items
}

func toLineItemResponse(it state.LineItem) lineItemResponse {
	price := it.Price()
	return lineItemResponse{
		Name:      it.Name,
		Quantity:  it.Quantity,
		UnitPrice: price.StringFixed(2),
		Subtotal:  price.Mul(decimal.NewFromInt32(it.Quantity)).StringFixed(2),
	}
}

func toOrderResponse(o state.Order) orderResponse {
	items := make([]lineItemResponse, len(o.Items))
	for i, it := range o.Items {
		items[i] = toLineItemResponse(it)
	}
	return orderResponse{
		ID:        o.ID,
		Number:    o.Number,
		ContextID: o.ContextID,
		Type:      o.Type,
		Status:    o.Status,
		Items:     items,
		CreatedAt: o.CreatedAt,
	}
}

func toBillResponse(b state.Bill) billResponse {
	items := make([]lineItemResponse, len(b.Items))
	for i, it := range b.Items {
		items[i] = toLineItemResponse(it)
	}
	return billResponse{
		ID:        b.ID,
		Number:    b.Number,
		Source:    b.Source,
		Type:      b.Type,
		Items:     items,
		Total:     b.Total.StringFixed(2),
		CreatedAt: b.CreatedAt,
	}
}

func toOrderResponses(orders []state.Order) []orderResponse {
	out := make([]orderResponse, len(orders))
	for i, o := range orders {
		out[i] = toOrderResponse(o)
	}
	return out
}

func toTableResponse(t state.Table) tableResponse {
	return tableResponse{ID: t.ID, Name: t.Name, Status: t.Status}
}

func toQueueEntryResponse(e state.QueueEntry) queueEntryResponse {
	return queueEntryResponse{ID: e.ID, PartyName: e.PartyName, PartySize: e.PartySize, Status: e.Status}
}
