package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/atinyakov/GophStore/internal/catalog"
	"github.com/atinyakov/GophStore/internal/metrics"
	"github.com/atinyakov/GophStore/internal/models"
	"github.com/atinyakov/GophStore/internal/repository"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// AccountReader lists credential records.
type AccountReader interface {
	List(ctx context.Context) ([]models.Account, error)
	DistinctNames(ctx context.Context) ([]string, error)
}

// BannerReader lists and fetches banners.
type BannerReader interface {
	List(ctx context.Context, activeOnly bool) ([]models.Banner, error)
	Get(ctx context.Context, id string) (*models.Banner, error)
}

// DiscountResolver returns the campaign in effect, or nil.
type DiscountResolver interface {
	Resolve(ctx context.Context) (*models.Discount, error)
}

// CatalogService builds the storefront and the admin reporting views.
type CatalogService struct {
	accounts  AccountReader
	banners   BannerReader
	discounts DiscountResolver
	log       *zap.Logger
}

// NewCatalogService constructs a CatalogService.
func NewCatalogService(accounts AccountReader, banners BannerReader, discounts DiscountResolver, log *zap.Logger) *CatalogService {
	return &CatalogService{accounts: accounts, banners: banners, discounts: discounts, log: log}
}

// Storefront is everything the public catalog page shows.
type Storefront struct {
	Products       []catalog.Product `json:"products"`
	Banners        []models.Banner   `json:"banners"`
	DiscountBanner *models.Banner    `json:"discount_banner,omitempty"`
	Discount       *models.Discount  `json:"active_discount,omitempty"`
}

// Storefront aggregates available records into products priced with the
// campaign in effect. A failing discount lookup degrades to list prices.
func (s *CatalogService) Storefront(ctx context.Context) (*Storefront, error) {
	records, err := s.accounts.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}

	discount, err := s.discounts.Resolve(ctx)
	if err != nil {
		s.log.Warn("failed to resolve discount, showing list prices", zap.Error(err))
		discount = nil
	}

	banners, err := s.banners.List(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("list banners: %w", err)
	}

	out := &Storefront{
		Products: catalog.Build(records, discount),
		Banners:  banners,
		Discount: discount,
	}
	if discount != nil && discount.BannerID != "" {
		b, err := s.banners.Get(ctx, discount.BannerID)
		switch {
		case err == nil:
			out.DiscountBanner = b
		case !errors.Is(err, repository.ErrNotFound):
			s.log.Warn("failed to load discount banner", zap.String("banner", discount.BannerID), zap.Error(err))
		}
	}
	metrics.CatalogProducts.Set(float64(len(out.Products)))
	return out, nil
}

// StoreProducts returns the product grouping at list price.
func (s *CatalogService) StoreProducts(ctx context.Context) ([]catalog.Product, error) {
	records, err := s.accounts.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	return catalog.Build(records, nil), nil
}

// Statistics summarises storefront visibility.
func (s *CatalogService) Statistics(ctx context.Context) (catalog.Statistics, error) {
	records, err := s.accounts.List(ctx)
	if err != nil {
		return catalog.Statistics{}, fmt.Errorf("list accounts: %w", err)
	}
	return catalog.Stats(records), nil
}

// Analytics returns the inventory breakdown.
func (s *CatalogService) Analytics(ctx context.Context) (catalog.AnalyticsReport, error) {
	records, err := s.accounts.List(ctx)
	if err != nil {
		return catalog.AnalyticsReport{}, fmt.Errorf("list accounts: %w", err)
	}
	return catalog.Analytics(records), nil
}

// Dashboard returns the back-office summary together with the product grouping.
func (s *CatalogService) Dashboard(ctx context.Context) (catalog.DashboardReport, []catalog.Product, error) {
	records, err := s.accounts.List(ctx)
	if err != nil {
		return catalog.DashboardReport{}, nil, fmt.Errorf("list accounts: %w", err)
	}
	return catalog.Dashboard(records), catalog.Build(records, nil), nil
}

// Services lists the distinct product names.
func (s *CatalogService) Services(ctx context.Context) ([]string, error) {
	names, err := s.accounts.DistinctNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	return names, nil
}

// AccountSummary is a credential record safe to expose over the API.
type AccountSummary struct {
	ID     string               `json:"id"`
	Email  string               `json:"email"`
	Name   string               `json:"name"`
	Type   string               `json:"type"`
	Price  decimal.Decimal      `json:"price"`
	Status models.AccountStatus `json:"status"`
}

// Accounts returns every record in full, for the back-office page.
func (s *CatalogService) Accounts(ctx context.Context) ([]models.Account, error) {
	records, err := s.accounts.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	return records, nil
}

// MaskedAccounts returns every record with the email partially hidden and
// the password left out.
func (s *CatalogService) MaskedAccounts(ctx context.Context) ([]AccountSummary, error) {
	records, err := s.Accounts(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]AccountSummary, 0, len(records))
	for _, a := range records {
		out = append(out, AccountSummary{
			ID:     a.ID,
			Email:  MaskEmail(a.Email),
			Name:   a.Name,
			Type:   a.Type,
			Price:  a.Price,
			Status: a.Status,
		})
	}
	return out, nil
}

// MaskEmail keeps at most the first three characters of the local part
// and the domain: "johndoe@x.com" becomes "joh***@x.com".
func MaskEmail(email string) string {
	local, domain, ok := strings.Cut(email, "@")
	if !ok {
		return "N/A"
	}
	r := []rune(local)
	if len(r) > 3 {
		r = r[:3]
	}
	return string(r) + "***@" + domain
}
