package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/atinyakov/GophStore/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListActiveDiscounts(t *testing.T) {
	db, mock, cleanup := setupMock(t)
	defer cleanup()
	repo := NewPostgresDiscountRepository(db)

	start := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(24 * time.Hour)
	mock.ExpectQuery(regexp.QuoteMeta(`FROM discounts WHERE is_active = true ORDER BY created_at, id`)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "percentage", "event_type", "start_date", "end_date", "is_active",
			"categories", "banner_id", "created_at",
		}).
			AddRow("d-1", "Summer", "20", "manual", start, end, true, "{Streaming,Music}", "b-1", start).
			AddRow("d-2", "Flash", "10.5", "flash", nil, nil, true, "{}", "", start))

	discounts, err := repo.ListActive(context.Background())
	require.NoError(t, err)
	require.Len(t, discounts, 2)

	assert.Equal(t, models.EventManual, discounts[0].EventType)
	assert.True(t, discounts[0].Percentage.Equal(decimal.NewFromInt(20)))
	assert.Equal(t, []string{"Streaming", "Music"}, []string(discounts[0].Categories))
	assert.Nil(t, discounts[1].StartDate)
	assert.Empty(t, discounts[1].Categories)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeactivateDiscount(t *testing.T) {
	db, mock, cleanup := setupMock(t)
	defer cleanup()
	repo := NewPostgresDiscountRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE discounts SET is_active = false WHERE id = $1`)).
		WithArgs("d-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Deactivate(context.Background(), "d-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeactivateAllDiscounts(t *testing.T) {
	db, mock, cleanup := setupMock(t)
	defer cleanup()
	repo := NewPostgresDiscountRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE discounts SET is_active = false WHERE is_active = true`)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE banners SET is_active = false WHERE banner_type = 'discount'`)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	n, err := repo.DeactivateAll(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReplaceActive(t *testing.T) {
	db, mock, cleanup := setupMock(t)
	defer cleanup()
	repo := NewPostgresDiscountRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE discounts SET is_active = false WHERE is_active = true`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE banners SET is_active = false`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO banners`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO discounts`)).
		WithArgs(sqlmock.AnyArg(), "Flash", sqlmock.AnyArg(), "flash", nil, nil, sqlmock.AnyArg(),
			sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	banner := &models.Banner{Title: "¡Flash!", BannerType: models.BannerDiscount, IsActive: true}
	d := &models.Discount{Name: "Flash", Percentage: decimal.NewFromInt(20), EventType: models.EventFlash}
	require.NoError(t, repo.ReplaceActive(context.Background(), banner, d))

	assert.NotEmpty(t, banner.ID)
	assert.NotEmpty(t, d.ID)
	assert.Equal(t, banner.ID, d.BannerID)
	assert.True(t, d.IsActive)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReplaceActive_RollsBackOnError(t *testing.T) {
	db, mock, cleanup := setupMock(t)
	defer cleanup()
	repo := NewPostgresDiscountRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE discounts SET is_active = false`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE banners SET is_active = false`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO banners`)).
		WillReturnError(errors.New("insert failed"))
	mock.ExpectRollback()

	d := &models.Discount{Name: "Flash", EventType: models.EventFlash}
	err := repo.ReplaceActive(context.Background(), &models.Banner{}, d)
	assert.Error(t, err)
	assert.Empty(t, d.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
