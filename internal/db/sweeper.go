// Package db opens the store database, applies schema migrations and runs
// periodic maintenance against it.
package db

import (
	"context"
	"database/sql"
	"time"

	"github.com/atinyakov/GophStore/internal/metrics"
	"go.uber.org/zap"
)

// RowQuerier is the subset of *sql.DB used by the sweeper.
type RowQuerier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

const expireDiscountsQuery = `
WITH expired AS (
    UPDATE discounts SET is_active = false
     WHERE is_active = true
       AND event_type <> 'flash'
       AND end_date IS NOT NULL
       AND end_date < $1
    RETURNING banner_id
), hidden AS (
    UPDATE banners SET is_active = false
     WHERE id IN (SELECT banner_id FROM expired)
    RETURNING id
)
SELECT (SELECT count(*) FROM expired), (SELECT count(*) FROM hidden)
`

// StartDiscountSweeper deactivates, every interval, the campaigns whose
// date window has closed together with their banners. Flash campaigns
// have no window and are left alone.
func StartDiscountSweeper(
	ctx context.Context,
	db RowQuerier,
	interval time.Duration,
	log *zap.Logger,
) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				var campaigns, banners int64
				err := db.QueryRowContext(ctx, expireDiscountsQuery, time.Now().UTC()).Scan(&campaigns, &banners)
				if err != nil {
					log.Error("failed to sweep expired discounts", zap.Error(err))
					continue
				}
				if campaigns > 0 {
					metrics.DiscountDeactivations.WithLabelValues("expired").Add(float64(campaigns))
					log.Info("deactivated expired discounts",
						zap.Int64("campaigns", campaigns), zap.Int64("banners", banners))
				}
			}
		}
	}()
}
