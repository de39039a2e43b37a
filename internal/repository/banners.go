package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/atinyakov/GophStore/internal/models"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const bannerColumns = `id, title, subtitle, image_url, background_color, text_color, button_text,
	button_link, is_active, display_order, banner_type, is_fullscreen, auto_show, show_delay, created_at`

// PostgresBannerRepository implements banner persistence.
type PostgresBannerRepository struct {
	DB *sqlx.DB
}

// NewPostgresBannerRepository creates a banner repository over db.
func NewPostgresBannerRepository(db *sqlx.DB) *PostgresBannerRepository {
	return &PostgresBannerRepository{DB: db}
}

// List returns banners ordered by display order, only active ones when activeOnly is set.
func (r *PostgresBannerRepository) List(ctx context.Context, activeOnly bool) ([]models.Banner, error) {
	query := `SELECT ` + bannerColumns + ` FROM banners`
	if activeOnly {
		query += ` WHERE is_active = true`
	}
	query += ` ORDER BY display_order, created_at`

	banners := []models.Banner{}
	if err := r.DB.SelectContext(ctx, &banners, query); err != nil {
		return nil, fmt.Errorf("list banners: %w", err)
	}
	return banners, nil
}

// Get returns a single banner.
func (r *PostgresBannerRepository) Get(ctx context.Context, id string) (*models.Banner, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}
	var b models.Banner
	err := r.DB.GetContext(ctx, &b, `SELECT `+bannerColumns+` FROM banners WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get banner: %w", err)
	}
	return &b, nil
}

// Create inserts b, assigning its ID.
func (r *PostgresBannerRepository) Create(ctx context.Context, b *models.Banner) error {
	return insertBanner(ctx, r.DB, b)
}

func insertBanner(ctx context.Context, db sqlx.ExecerContext, b *models.Banner) error {
	b.Normalize()
	id := uuid.NewString()
	_, err := db.ExecContext(ctx, `
		INSERT INTO banners (id, title, subtitle, image_url, background_color, text_color, button_text,
			button_link, is_active, display_order, banner_type, is_fullscreen, auto_show, show_delay, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`, id, b.Title, b.Subtitle, b.ImageURL, b.BackgroundColor, b.TextColor, b.ButtonText,
		b.ButtonLink, b.IsActive, b.DisplayOrder, string(b.BannerType), b.IsFullscreen, b.AutoShow,
		b.ShowDelay, b.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert banner: %w", err)
	}
	b.ID = id
	return nil
}

// Update overwrites the editable fields of b. It returns false when no
// banner has b.ID.
func (r *PostgresBannerRepository) Update(ctx context.Context, b *models.Banner) (bool, error) {
	if !validID(b.ID) {
		return false, nil
	}
	b.Normalize()
	res, err := r.DB.ExecContext(ctx, `
		UPDATE banners SET title = $2, subtitle = $3, image_url = $4, background_color = $5,
			text_color = $6, button_text = $7, button_link = $8, is_active = $9,
			display_order = $10, banner_type = $11
		WHERE id = $1
	`, b.ID, b.Title, b.Subtitle, b.ImageURL, b.BackgroundColor, b.TextColor, b.ButtonText,
		b.ButtonLink, b.IsActive, b.DisplayOrder, string(b.BannerType))
	if err != nil {
		return false, fmt.Errorf("update banner: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update banner: %w", err)
	}
	return n > 0, nil
}

// Delete removes a banner and reports whether it existed.
func (r *PostgresBannerRepository) Delete(ctx context.Context, id string) (bool, error) {
	if !validID(id) {
		return false, nil
	}
	res, err := r.DB.ExecContext(ctx, `DELETE FROM banners WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete banner: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete banner: %w", err)
	}
	return n > 0, nil
}
