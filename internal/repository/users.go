package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/atinyakov/GophStore/internal/models"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const userColumns = `id, email, password_hash, is_admin, two_factor_secret, failed_attempts,
	locked_until, last_login, created_at`

// PostgresUserRepository implements back-office user persistence.
type PostgresUserRepository struct {
	// DB is the database handle for executing queries.
	DB *sqlx.DB
}

// NewPostgresUserRepository creates a new PostgresUserRepository with the given database connection.
func NewPostgresUserRepository(db *sqlx.DB) *PostgresUserRepository {
	return &PostgresUserRepository{DB: db}
}

// FindByEmail returns the user with the given login email.
func (r *PostgresUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.get(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

// FindByID returns the user with the given id.
func (r *PostgresUserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}
	return r.get(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *PostgresUserRepository) get(ctx context.Context, query string, arg string) (*models.User, error) {
	var u models.User
	err := r.DB.GetContext(ctx, &u, query, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

// Create inserts u, assigning its ID.
func (r *PostgresUserRepository) Create(ctx context.Context, u *models.User) error {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	id := uuid.NewString()
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO users (id, email, password_hash, is_admin, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, id, u.Email, u.PasswordHash, u.IsAdmin, u.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	u.ID = id
	return nil
}

// SetTwoFactorSecret stores the TOTP secret of a user.
func (r *PostgresUserRepository) SetTwoFactorSecret(ctx context.Context, id, secret string) error {
	_, err := r.DB.ExecContext(ctx, `UPDATE users SET two_factor_secret = $2 WHERE id = $1`, id, secret)
	if err != nil {
		return fmt.Errorf("set 2fa secret: %w", err)
	}
	return nil
}

// RecordFailedAttempt stores the failed attempt counter and lock deadline.
func (r *PostgresUserRepository) RecordFailedAttempt(ctx context.Context, id string, attempts int, lockedUntil *time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE users SET failed_attempts = $2, locked_until = $3 WHERE id = $1`,
		id, attempts, lockedUntil)
	if err != nil {
		return fmt.Errorf("record failed attempt: %w", err)
	}
	return nil
}

// ResetFailedAttempts clears the lockout state and records a completed login.
func (r *PostgresUserRepository) ResetFailedAttempts(ctx context.Context, id string, at time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE users SET failed_attempts = 0, locked_until = NULL, last_login = $2 WHERE id = $1`,
		id, at)
	if err != nil {
		return fmt.Errorf("reset failed attempts: %w", err)
	}
	return nil
}
