package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/md-rashed-zaman/courtside/internal/availability"
	"github.com/md-rashed-zaman/courtside/internal/cache"
	"github.com/md-rashed-zaman/courtside/internal/pricing"
	"github.com/md-rashed-zaman/courtside/internal/storage"
)

type AvailabilityHandler struct {
	svc    *availability.Service
	cache  *cache.AvailabilityCache
	logger *slog.Logger
}

// NewAvailabilityHandler builds the public read surface. cache may be nil
// (dev mode without Redis); responses are then always recomputed.
func NewAvailabilityHandler(svc *availability.Service, availCache *cache.AvailabilityCache, logger *slog.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{svc: svc, cache: availCache, logger: logger}
}

type quoteResponse struct {
	QuoteID    string                  `json:"quote_id"`
	TotalPrice float64                 `json:"total_price"`
	Breakdown  []pricing.BreakdownLine `json:"breakdown"`
}

func (h *AvailabilityHandler) Day(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	courtID := strings.TrimSpace(r.URL.Query().Get("court_id"))
	date := strings.TrimSpace(r.URL.Query().Get("date"))
	if courtID == "" || date == "" {
		http.Error(w, "court_id and date are required", http.StatusBadRequest)
		return
	}

	duration := availability.DefaultDuration
	if raw := strings.TrimSpace(r.URL.Query().Get("duration_minutes")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			http.Error(w, "duration_minutes must be a positive integer", http.StatusBadRequest)
			return
		}
		duration = n
	}

	ctx := r.Context()
	if h.cache != nil {
		if res, ok := h.cache.Get(ctx, courtID, date, duration); ok {
			writeJSON(w, http.StatusOK, res)
			return
		}
	}

	res, err := h.svc.DayAvailability(ctx, courtID, date, duration)
	if err != nil {
		h.writeEngineError(w, err)
		return
	}

	if h.cache != nil {
		if err := h.cache.Set(ctx, courtID, date, duration, res); err != nil {
			h.logger.Warn("availability cache write failed", "err", err)
		}
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *AvailabilityHandler) Quote(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	q := r.URL.Query()
	courtID := strings.TrimSpace(q.Get("court_id"))
	date := strings.TrimSpace(q.Get("date"))
	startTime := strings.TrimSpace(q.Get("start_time"))
	endTime := strings.TrimSpace(q.Get("end_time"))
	if courtID == "" || date == "" || startTime == "" || endTime == "" {
		http.Error(w, "court_id, date, start_time and end_time are required", http.StatusBadRequest)
		return
	}

	quote, err := h.svc.QuoteBooking(r.Context(), courtID, date, startTime, endTime)
	if err != nil {
		h.writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, quoteResponse{
		QuoteID:    uuid.NewString(),
		TotalPrice: quote.TotalPrice,
		Breakdown:  quote.Breakdown,
	})
}

func (h *AvailabilityHandler) writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, availability.ErrInvalidDate),
		errors.Is(err, availability.ErrInvalidDuration),
		errors.Is(err, availability.ErrInvalidTimeRange),
		errors.Is(err, pricing.ErrInvalidInterval):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case storage.IsNotFound(err):
		http.Error(w, "court not found", http.StatusNotFound)
	case errors.Is(err, pricing.ErrAmbiguousSchedule):
		// Bad schedule rows are reported, not silently reinterpreted.
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		h.logger.Error("availability request failed", "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "failed to build response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
