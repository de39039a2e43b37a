package repository

import (
	"context"
	"fmt"

	"github.com/atinyakov/GophStore/internal/models"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// PostgresFeedbackRepository stores customer comments and suggestions.
type PostgresFeedbackRepository struct {
	DB *sqlx.DB
}

// NewPostgresFeedbackRepository creates a feedback repository over db.
func NewPostgresFeedbackRepository(db *sqlx.DB) *PostgresFeedbackRepository {
	return &PostgresFeedbackRepository{DB: db}
}

// ListApprovedComments returns up to limit approved comments, newest first.
func (r *PostgresFeedbackRepository) ListApprovedComments(ctx context.Context, limit int) ([]models.Comment, error) {
	comments := []models.Comment{}
	err := r.DB.SelectContext(ctx, &comments, `
		SELECT id, name, rating, text, is_approved, created_at FROM comments
		WHERE is_approved = true ORDER BY created_at DESC LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return comments, nil
}

// CreateComment inserts c, assigning its ID.
func (r *PostgresFeedbackRepository) CreateComment(ctx context.Context, c *models.Comment) error {
	id := uuid.NewString()
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO comments (id, name, rating, text, is_approved, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, id, c.Name, c.Rating, c.Text, c.IsApproved, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert comment: %w", err)
	}
	c.ID = id
	return nil
}

// ListSuggestions returns every suggestion, newest first.
func (r *PostgresFeedbackRepository) ListSuggestions(ctx context.Context) ([]models.Suggestion, error) {
	suggestions := []models.Suggestion{}
	err := r.DB.SelectContext(ctx, &suggestions, `
		SELECT id, customer_name, customer_email, service_name, phone, is_read, created_at
		FROM suggestions ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list suggestions: %w", err)
	}
	return suggestions, nil
}

// CreateSuggestion inserts s, assigning its ID.
func (r *PostgresFeedbackRepository) CreateSuggestion(ctx context.Context, s *models.Suggestion) error {
	id := uuid.NewString()
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO suggestions (id, customer_name, customer_email, service_name, phone, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, id, s.CustomerName, s.CustomerEmail, s.ServiceName, s.Phone, s.IsRead, s.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert suggestion: %w", err)
	}
	s.ID = id
	return nil
}
