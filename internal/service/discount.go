package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/atinyakov/GophStore/internal/metrics"
	"github.com/atinyakov/GophStore/internal/models"
	"github.com/atinyakov/GophStore/internal/repository"
	"github.com/atinyakov/GophStore/internal/validator"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DiscountRepository defines the persistence operations needed by the DiscountService.
type DiscountRepository interface {
	// ListActive returns the campaigns flagged active.
	ListActive(ctx context.Context) ([]models.Discount, error)
	// Deactivate clears the active flag of one campaign.
	Deactivate(ctx context.Context, id string) error
	// DeactivateAll switches off every active campaign and discount banner.
	DeactivateAll(ctx context.Context) (int64, error)
	// ReplaceActive stores banner and d as the only active campaign.
	ReplaceActive(ctx context.Context, banner *models.Banner, d *models.Discount) error
}

// BannerGetter fetches a banner by id.
type BannerGetter interface {
	Get(ctx context.Context, id string) (*models.Banner, error)
}

const (
	defaultEventName    = "Oferta Flash"
	defaultEventTitle   = "Oferta Especial"
	defaultEventWindow  = 24 * time.Hour
	discountBannerColor = "#ff6b6b"
	discountBannerDelay = 2000
)

var defaultEventPercentage = decimal.NewFromInt(20)

// DiscountService resolves and manages discount campaigns.
type DiscountService struct {
	repo    DiscountRepository
	banners BannerGetter
	log     *zap.Logger
	now     func() time.Time
}

// NewDiscountService constructs a DiscountService.
func NewDiscountService(repo DiscountRepository, banners BannerGetter, log *zap.Logger) *DiscountService {
	return &DiscountService{repo: repo, banners: banners, log: log, now: time.Now}
}

// Resolve returns the campaign currently in effect, or nil.
//
// The first active campaign whose window covers the current instant is
// selected; flash campaigns always match. When the selected campaign links
// a banner that is missing or inactive, the campaign is deactivated and
// no discount is reported.
func (s *DiscountService) Resolve(ctx context.Context) (*models.Discount, error) {
	active, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active discounts: %w", err)
	}

	now := s.now()
	for i := range active {
		d := &active[i]
		if !d.CoversInstant(now) {
			continue
		}
		return s.checkBanner(ctx, d)
	}
	return nil, nil
}

func (s *DiscountService) checkBanner(ctx context.Context, d *models.Discount) (*models.Discount, error) {
	if d.BannerID == "" {
		return d, nil
	}
	b, err := s.banners.Get(ctx, d.BannerID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
	case err != nil:
		return nil, fmt.Errorf("get discount banner: %w", err)
	case b.IsActive:
		return d, nil
	}

	if err := s.repo.Deactivate(ctx, d.ID); err != nil {
		s.log.Warn("failed to deactivate discount without banner", zap.String("discount", d.ID), zap.Error(err))
	} else {
		s.log.Warn("deactivated discount without active banner",
			zap.String("discount", d.ID), zap.String("banner", d.BannerID))
		metrics.DiscountDeactivations.WithLabelValues("banner_missing").Inc()
	}
	return nil, nil
}

// DiscountEvent is the admin request for a new campaign.
type DiscountEvent struct {
	Name       string           `json:"name"`
	Percentage *decimal.Decimal `json:"percentage"`
	EventType  models.EventType `json:"event_type"`
	Categories []string         `json:"categories"`
	StartDate  *time.Time       `json:"start_date"`
	EndDate    *time.Time       `json:"end_date"`
}

// CreateEvent replaces the active campaign with a new one and its
// fullscreen discount banner. It returns the new banner id.
func (s *DiscountService) CreateEvent(ctx context.Context, ev DiscountEvent) (string, error) {
	now := s.now().UTC()

	pct := defaultEventPercentage
	if ev.Percentage != nil {
		pct = *ev.Percentage
	}
	if ev.EventType == "" {
		ev.EventType = models.EventFlash
	}
	title := ev.Name
	if title == "" {
		title = defaultEventTitle
		ev.Name = defaultEventName
	}

	d := &models.Discount{
		Name:       ev.Name,
		Percentage: pct,
		EventType:  ev.EventType,
		Categories: ev.Categories,
		CreatedAt:  now,
	}
	if d.EventType != models.EventFlash {
		start, end := now, now.Add(defaultEventWindow)
		if ev.StartDate != nil {
			start = *ev.StartDate
		}
		if ev.EndDate != nil {
			end = *ev.EndDate
		}
		d.StartDate, d.EndDate = &start, &end
	}
	if err := validator.ValidateDiscount(d); err != nil {
		return "", invalid(err)
	}

	banner := &models.Banner{
		Title:           "¡" + title + "!",
		Subtitle:        pct.String() + "% de descuento",
		BackgroundColor: discountBannerColor,
		TextColor:       models.DefaultBannerText,
		ButtonText:      "Ver Ofertas",
		ButtonLink:      "#productos",
		IsActive:        true,
		BannerType:      models.BannerDiscount,
		IsFullscreen:    true,
		AutoShow:        true,
		ShowDelay:       discountBannerDelay,
		CreatedAt:       now,
	}
	if err := s.repo.ReplaceActive(ctx, banner, d); err != nil {
		return "", fmt.Errorf("create discount event: %w", err)
	}
	s.log.Info("discount event created",
		zap.String("discount", d.ID), zap.String("type", string(d.EventType)), zap.String("percentage", pct.String()))
	return banner.ID, nil
}

// DeactivateAll switches off every active campaign and discount banner.
func (s *DiscountService) DeactivateAll(ctx context.Context) (int64, error) {
	n, err := s.repo.DeactivateAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("deactivate discounts: %w", err)
	}
	return n, nil
}

// DiscountStatus is the public view of the campaign in effect.
type DiscountStatus struct {
	HasDiscount bool             `json:"has_discount"`
	Percentage  *decimal.Decimal `json:"percentage,omitempty"`
	Name        string           `json:"name,omitempty"`
	BannerID    string           `json:"banner_id,omitempty"`
}

// Check reports the campaign in effect.
func (s *DiscountService) Check(ctx context.Context) (DiscountStatus, error) {
	d, err := s.Resolve(ctx)
	if err != nil {
		return DiscountStatus{}, err
	}
	if d == nil {
		return DiscountStatus{}, nil
	}
	pct := d.Percentage
	return DiscountStatus{HasDiscount: true, Percentage: &pct, Name: d.Name, BannerID: d.BannerID}, nil
}
