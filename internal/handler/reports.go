package handler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rms-foh/api/internal/enum"
	"github.com/rms-foh/api/internal/state"
	"github.com/shopspring/decimal"
)

// ReportsHandler handles the billing report endpoints.
type ReportsHandler struct {
	sessions *state.Manager
}

// NewReportsHandler creates a new ReportsHandler.
func NewReportsHandler(sessions *state.Manager) *ReportsHandler {
	return &ReportsHandler{sessions: sessions}
}

// RegisterRoutes registers report endpoints on the given Chi router.
func (h *ReportsHandler) RegisterRoutes(r chi.Router) {
	r.Get("/reports/bills", h.Bills)
}

type billsReportResponse struct {
	Bills   []billResponse    `json:"bills"`
	Count   int               `json:"count"`
	Revenue map[string]string `json:"revenue"`
	Total   string            `json:"total"`
}

// Bills handles GET /reports/bills?type=&q=. Bills are newest first; the
// revenue summary always covers the whole log, not just the filtered view.
func (h *ReportsHandler) Bills(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFromRequest(h.sessions, w, r)
	if !ok {
		return
	}

	billType := r.URL.Query().Get("type")
	if billType != "" && billType != enum.OrderTypeDineIn && billType != enum.OrderTypeTakeaway {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid type"})
		return
	}
	query := strings.ToLower(r.URL.Query().Get("q"))

	bills := make([]billResponse, 0)
	for _, b := range session.Bills.List() {
		if billType != "" && b.Type != billType {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(b.Number), query) &&
			!strings.Contains(strings.ToLower(b.Source), query) {
			continue
		}
		bills = append(bills, toBillResponse(b))
	}

	revenue := make(map[string]string)
	total := decimal.Zero
	for typ, sum := range session.Bills.RevenueByType() {
		revenue[typ] = sum.StringFixed(2)
		total = total.Add(sum)
	}

	writeJSON(w, http.StatusOK, billsReportResponse{
		Bills:   bills,
		Count:   len(bills),
		Revenue: revenue,
		Total:   total.StringFixed(2),
	})
}
