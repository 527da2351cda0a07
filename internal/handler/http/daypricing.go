package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mahmoud22020/Pvdmenus/internal/domain"
	"github.com/mahmoud22020/Pvdmenus/internal/service"
	"github.com/mahmoud22020/Pvdmenus/pkg/httputil"
)

// DayPricingHandler serves weekday price schedules.
type DayPricingHandler struct {
	dayPricing *service.DayPricingService
	logger     *slog.Logger
}

// NewDayPricingHandler creates a new day pricing HTTP handler.
func NewDayPricingHandler(dayPricing *service.DayPricingService, logger *slog.Logger) *DayPricingHandler {
	return &DayPricingHandler{dayPricing: dayPricing, logger: logger}
}

// DayPricingRequest is the JSON body of PUT /day-pricing/{itemId}.
type DayPricingRequest struct {
	DayPricing []domain.DayPricingEntry `json:"dayPricing"`
}

// GetDayPricing handles GET /day-pricing/{itemId}
func (h *DayPricingHandler) GetDayPricing(w http.ResponseWriter, r *http.Request) {
	venue, ok := venueParam(w, r)
	if !ok {
		return
	}
	itemID, ok := httputil.ParseID(w, chi.URLParam(r, "itemId"))
	if !ok {
		return
	}

	entries, err := h.dayPricing.Get(r.Context(), venue, itemID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, entries)
}

// PutDayPricing handles PUT /day-pricing/{itemId}. Days left out are stored
// inactive.
func (h *DayPricingHandler) PutDayPricing(w http.ResponseWriter, r *http.Request) {
	venue, ok := venueParam(w, r)
	if !ok {
		return
	}
	itemID, ok := httputil.ParseID(w, chi.URLParam(r, "itemId"))
	if !ok {
		return
	}
	var req DayPricingRequest
	if !decodeBody(w, r, &req) {
		return
	}

	entries, err := h.dayPricing.Replace(r.Context(), venue, itemID, req.DayPricing)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, entries)
}
