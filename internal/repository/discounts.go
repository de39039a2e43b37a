package repository

import (
	"context"
	"fmt"

	"github.com/atinyakov/GophStore/internal/models"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const discountColumns = `id, name, percentage, event_type, start_date, end_date, is_active,
	categories, banner_id, created_at`

// PostgresDiscountRepository implements discount campaign persistence.
type PostgresDiscountRepository struct {
	DB *sqlx.DB
}

// NewPostgresDiscountRepository creates a discount repository over db.
func NewPostgresDiscountRepository(db *sqlx.DB) *PostgresDiscountRepository {
	return &PostgresDiscountRepository{DB: db}
}

// ListActive returns the campaigns flagged active, oldest first.
func (r *PostgresDiscountRepository) ListActive(ctx context.Context) ([]models.Discount, error) {
	discounts := []models.Discount{}
	err := r.DB.SelectContext(ctx, &discounts,
		`SELECT `+discountColumns+` FROM discounts WHERE is_active = true ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list active discounts: %w", err)
	}
	return discounts, nil
}

// Deactivate clears the active flag of one campaign.
func (r *PostgresDiscountRepository) Deactivate(ctx context.Context, id string) error {
	if _, err := r.DB.ExecContext(ctx, `UPDATE discounts SET is_active = false WHERE id = $1`, id); err != nil {
		return fmt.Errorf("deactivate discount: %w", err)
	}
	return nil
}

// DeactivateAll switches off every active campaign and every active
// discount banner. It returns the number of campaigns switched off.
func (r *PostgresDiscountRepository) DeactivateAll(ctx context.Context) (int64, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	n, err := deactivateAll(ctx, tx)
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return n, nil
}

// ReplaceActive deactivates whatever campaign is active, then stores banner
// and d (linked to the banner) as the only active campaign.
func (r *PostgresDiscountRepository) ReplaceActive(ctx context.Context, banner *models.Banner, d *models.Discount) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := deactivateAll(ctx, tx); err != nil {
		return err
	}
	if err := insertBanner(ctx, tx, banner); err != nil {
		return err
	}

	id := uuid.NewString()
	d.BannerID = banner.ID
	d.IsActive = true
	if d.Categories == nil {
		d.Categories = []string{}
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO discounts (id, name, percentage, event_type, start_date, end_date, is_active,
			categories, banner_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, true, $7, $8, $9)
	`, id, d.Name, d.Percentage, string(d.EventType), d.StartDate, d.EndDate, d.Categories,
		d.BannerID, d.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert discount: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	d.ID = id
	return nil
}

func deactivateAll(ctx context.Context, tx *sqlx.Tx) (int64, error) {
	res, err := tx.ExecContext(ctx, `UPDATE discounts SET is_active = false WHERE is_active = true`)
	if err != nil {
		return 0, fmt.Errorf("deactivate discounts: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("deactivate discounts: %w", err)
	}
	_, err = tx.ExecContext(ctx,
		`UPDATE banners SET is_active = false WHERE banner_type = 'discount' AND is_active = true`)
	if err != nil {
		return 0, fmt.Errorf("deactivate discount banners: %w", err)
	}
	return n, nil
}
