package http

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/atinyakov/GophStore/internal/models"
	"github.com/atinyakov/GophStore/internal/service"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DiscountService defines the campaign lifecycle.
type DiscountService interface {
	CreateEvent(ctx context.Context, ev service.DiscountEvent) (string, error)
	DeactivateAll(ctx context.Context) (int64, error)
	Check(ctx context.Context) (service.DiscountStatus, error)
}

// DiscountHandler serves discount campaigns.
type DiscountHandler struct {
	Discounts DiscountService
	Log       *zap.Logger
}

// dateLayouts are accepted for campaign windows; zone-less values are UTC.
var dateLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02T15:04", "2006-01-02"}

func parseDate(v string) (*time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("%w: invalid date %q", service.ErrInvalidInput, v)
}

type discountEventRequest struct {
	Name       string           `json:"name"`
	Percentage *decimal.Decimal `json:"percentage"`
	EventType  models.EventType `json:"event_type"`
	Categories []string         `json:"categories"`
	StartDate  string           `json:"start_date"`
	EndDate    string           `json:"end_date"`
}

// CreateEvent handles POST /api/create-discount-event.
// It expects a JSON body with name, percentage, event_type, categories
// and optional start_date and end_date. Any active campaign is replaced,
// a linked discount banner is created, and the banner id is returned.
// A malformed date or percentage yields 400.
func (h *DiscountHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req discountEventRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	start, err := parseDate(req.StartDate)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	bannerID, err := h.Discounts.CreateEvent(r.Context(), service.DiscountEvent{
		Name:       strings.TrimSpace(req.Name),
		Percentage: req.Percentage,
		EventType:  req.EventType,
		Categories: req.Categories,
		StartDate:  start,
		EndDate:    end,
	})
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, Result{Success: true, Message: "Discount event created", BannerID: bannerID})
}

// Deactivate handles POST /api/deactivate-discount.
// It ends every active campaign together with its discount banners.
func (h *DiscountHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	n, err := h.Discounts.DeactivateAll(r.Context())
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeOK(w, fmt.Sprintf("Discounts deactivated (%d)", n))
}

// Check handles GET /api/check-discount.
func (h *DiscountHandler) Check(w http.ResponseWriter, r *http.Request) {
	status, err := h.Discounts.Check(r.Context())
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}
