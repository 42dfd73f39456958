package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rms-foh/api/internal/service"
	"github.com/rms-foh/api/internal/state"
)

// QueueHandler handles the waiting-queue endpoints.
type QueueHandler struct {
	sessions *state.Manager
	svc      *service.FrontOfHouse
}

// NewQueueHandler creates a new QueueHandler.
func NewQueueHandler(sessions *state.Manager, svc *service.FrontOfHouse) *QueueHandler {
	return &QueueHandler{sessions: sessions, svc: svc}
}

// RegisterRoutes registers queue endpoints on the given Chi router.
func (h *QueueHandler) RegisterRoutes(r chi.Router) {
	r.Get("/queue", h.List)
	r.Post("/queue", h.Enqueue)
	r.Get("/queue/next", h.Next)
	r.Post("/queue/{id}/call", h.Call)
	r.Post("/queue/{id}/seat", h.Seat)
}

// --- Request types ---

type enqueueRequest struct {
	PartyName string `json:"party_name"`
	PartySize int32  `json:"party_size"`
}

// --- Handlers ---

// List handles GET /queue, in arrival order.
func (h *QueueHandler) List(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFromRequest(h.sessions, w, r)
	if !ok {
		return
	}

	entries := session.Queue.List()
	resp := make([]queueEntryResponse, len(entries))
	for i, e := range entries {
		resp[i] = toQueueEntryResponse(e)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Enqueue handles POST /queue.
func (h *QueueHandler) Enqueue(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFromRequest(h.sessions, w, r)
	if !ok {
		return
	}

	var req enqueueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	entry, err := h.svc.EnqueueParty(session, req.PartyName, req.PartySize)
	if err != nil {
		writeStateError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toQueueEntryResponse(entry))
}

// Next handles GET /queue/next: the first party still WAITING.
func (h *QueueHandler) Next(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFromRequest(h.sessions, w, r)
	if !ok {
		return
	}

	entry, found := session.Queue.NextWaiting()
	if !found {
		writeJSON(w, http.StatusOK, map[string]interface{}{"next": nil})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"next": toQueueEntryResponse(entry)})
}

// Call handles POST /queue/{id}/call. Calling an unknown or already-called
// entry is not an error; the endpoint reports the queue as it stands.
func (h *QueueHandler) Call(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFromRequest(h.sessions, w, r)
	if !ok {
		return
	}

	entryID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid queue entry ID"})
		return
	}

	h.svc.CallParty(session, entryID)

	entries := session.Queue.List()
	resp := make([]queueEntryResponse, len(entries))
	for i, e := range entries {
		resp[i] = toQueueEntryResponse(e)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Seat handles POST /queue/{id}/seat: removal is the entry's terminal
// transition.
func (h *QueueHandler) Seat(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFromRequest(h.sessions, w, r)
	if !ok {
		return
	}

	entryID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid queue entry ID"})
		return
	}

	if err := h.svc.SeatParty(session, entryID); err != nil {
		writeStateError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "seated"})
}
