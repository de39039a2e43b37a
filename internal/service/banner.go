package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/atinyakov/GophStore/internal/models"
	"github.com/atinyakov/GophStore/internal/repository"
)

// BannerRepository defines banner persistence.
type BannerRepository interface {
	List(ctx context.Context, activeOnly bool) ([]models.Banner, error)
	Get(ctx context.Context, id string) (*models.Banner, error)
	Create(ctx context.Context, b *models.Banner) error
	Update(ctx context.Context, b *models.Banner) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// BannerService manages promotional banners.
type BannerService struct {
	repo BannerRepository
}

// NewBannerService constructs a BannerService.
func NewBannerService(repo BannerRepository) *BannerService {
	return &BannerService{repo: repo}
}

// List returns every banner.
func (s *BannerService) List(ctx context.Context) ([]models.Banner, error) {
	banners, err := s.repo.List(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("list banners: %w", err)
	}
	return banners, nil
}

// Get returns one banner.
func (s *BannerService) Get(ctx context.Context, id string) (*models.Banner, error) {
	b, err := s.repo.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	return b, err
}

func checkBanner(b *models.Banner) error {
	b.Title = strings.TrimSpace(b.Title)
	switch b.BannerType {
	case "", models.BannerPromotion, models.BannerDiscount:
	default:
		return invalid(fmt.Errorf("unknown banner type %q", b.BannerType))
	}
	return nil
}

// Create stores a banner with default presentation values filled in.
func (s *BannerService) Create(ctx context.Context, b *models.Banner) error {
	if err := checkBanner(b); err != nil {
		return err
	}
	if err := s.repo.Create(ctx, b); err != nil {
		return fmt.Errorf("create banner: %w", err)
	}
	return nil
}

// Update overwrites the editable fields of a banner.
func (s *BannerService) Update(ctx context.Context, b *models.Banner) error {
	if err := checkBanner(b); err != nil {
		return err
	}
	ok, err := s.repo.Update(ctx, b)
	if err != nil {
		return fmt.Errorf("update banner: %w", err)
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

// Delete removes a banner. A discount linked to it is switched off on the
// next resolution.
func (s *BannerService) Delete(ctx context.Context, id string) error {
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete banner: %w", err)
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}
