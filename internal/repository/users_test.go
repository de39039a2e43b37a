package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/atinyakov/GophStore/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var userRowColumns = []string{
	"id", "email", "password_hash", "is_admin", "two_factor_secret", "failed_attempts",
	"locked_until", "last_login", "created_at",
}

func TestFindByEmail(t *testing.T) {
	db, mock, cleanup := setupMock(t)
	defer cleanup()
	repo := NewPostgresUserRepository(db)

	locked := time.Date(2026, 5, 1, 10, 30, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE email = $1`)).
		WithArgs("admin@store.test").
		WillReturnRows(sqlmock.NewRows(userRowColumns).
			AddRow("u-1", "admin@store.test", "$2a$hash", true, "SECRET", 5, locked, nil, time.Now()))

	u, err := repo.FindByEmail(context.Background(), "admin@store.test")
	require.NoError(t, err)
	assert.Equal(t, "u-1", u.ID)
	assert.True(t, u.IsAdmin)
	assert.Equal(t, 5, u.FailedAttempts)
	require.NotNil(t, u.LockedUntil)
	assert.True(t, u.LockedUntil.Equal(locked))
	assert.Nil(t, u.LastLogin)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByEmail_NotFound(t *testing.T) {
	db, mock, cleanup := setupMock(t)
	defer cleanup()
	repo := NewPostgresUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE email = $1`)).
		WithArgs("ghost@store.test").
		WillReturnRows(sqlmock.NewRows(userRowColumns))

	_, err := repo.FindByEmail(context.Background(), "ghost@store.test")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFindByID_Malformed(t *testing.T) {
	db, mock, cleanup := setupMock(t)
	defer cleanup()
	repo := NewPostgresUserRepository(db)

	_, err := repo.FindByID(context.Background(), "123")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUser(t *testing.T) {
	db, mock, cleanup := setupMock(t)
	defer cleanup()
	repo := NewPostgresUserRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO users (id, email, password_hash, is_admin, created_at)`)).
		WithArgs(sqlmock.AnyArg(), "admin@store.test", "hash", true, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	u := &models.User{Email: "admin@store.test", PasswordHash: "hash", IsAdmin: true}
	require.NoError(t, repo.Create(context.Background(), u))
	assert.NotEmpty(t, u.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordFailedAttempt(t *testing.T) {
	db, mock, cleanup := setupMock(t)
	defer cleanup()
	repo := NewPostgresUserRepository(db)

	until := time.Now().Add(30 * time.Minute)
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE users SET failed_attempts = $2, locked_until = $3 WHERE id = $1`)).
		WithArgs("u-1", 5, &until).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.RecordFailedAttempt(context.Background(), "u-1", 5, &until))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResetFailedAttempts_Error(t *testing.T) {
	db, mock, cleanup := setupMock(t)
	defer cleanup()
	repo := NewPostgresUserRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE users SET failed_attempts = 0`)).
		WillReturnError(errors.New("exec failed"))

	err := repo.ResetFailedAttempts(context.Background(), "u-1", time.Now())
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetTwoFactorSecret(t *testing.T) {
	db, mock, cleanup := setupMock(t)
	defer cleanup()
	repo := NewPostgresUserRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE users SET two_factor_secret = $2 WHERE id = $1`)).
		WithArgs("u-1", "JBSWY3DPEHPK3PXP").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.SetTwoFactorSecret(context.Background(), "u-1", "JBSWY3DPEHPK3PXP"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
