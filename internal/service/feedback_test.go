package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/atinyakov/GophStore/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockFeedbackRepo struct {
	ListApprovedCommentsFunc func(ctx context.Context, limit int) ([]models.Comment, error)
	CreateCommentFunc        func(ctx context.Context, c *models.Comment) error
	ListSuggestionsFunc      func(ctx context.Context) ([]models.Suggestion, error)
	CreateSuggestionFunc     func(ctx context.Context, s *models.Suggestion) error
}

func (m *mockFeedbackRepo) ListApprovedComments(ctx context.Context, limit int) ([]models.Comment, error) {
	return m.ListApprovedCommentsFunc(ctx, limit)
}
func (m *mockFeedbackRepo) CreateComment(ctx context.Context, c *models.Comment) error {
	return m.CreateCommentFunc(ctx, c)
}
func (m *mockFeedbackRepo) ListSuggestions(ctx context.Context) ([]models.Suggestion, error) {
	return m.ListSuggestionsFunc(ctx)
}
func (m *mockFeedbackRepo) CreateSuggestion(ctx context.Context, s *models.Suggestion) error {
	return m.CreateSuggestionFunc(ctx, s)
}

type chanNotifier struct {
	sent chan string
	err  error
}

func (n *chanNotifier) Notify(ctx context.Context, subject, body string) error {
	n.sent <- subject
	return n.err
}

func TestLatestComments_UsesLimit(t *testing.T) {
	repo := &mockFeedbackRepo{ListApprovedCommentsFunc: func(ctx context.Context, limit int) ([]models.Comment, error) {
		assert.Equal(t, 10, limit)
		return []models.Comment{{Name: "Ana"}}, nil
	}}
	s := NewFeedbackService(repo, nil, zap.NewNop())

	list, err := s.LatestComments(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestAddComment(t *testing.T) {
	var stored *models.Comment
	repo := &mockFeedbackRepo{CreateCommentFunc: func(ctx context.Context, c *models.Comment) error {
		stored = c
		return nil
	}}
	s := NewFeedbackService(repo, nil, zap.NewNop())
	s.now = func() time.Time { return fixedNow }

	require.NoError(t, s.AddComment(context.Background(), &models.Comment{Name: " Ana ", Text: " great "}))
	assert.Equal(t, "Ana", stored.Name)
	assert.Equal(t, 5, stored.Rating)
	assert.True(t, stored.IsApproved)
	assert.Equal(t, fixedNow, stored.CreatedAt)
}

func TestAddComment_Invalid(t *testing.T) {
	s := NewFeedbackService(&mockFeedbackRepo{}, nil, zap.NewNop())

	assert.ErrorIs(t, s.AddComment(context.Background(), &models.Comment{Name: "Ana"}), ErrInvalidInput)
	assert.ErrorIs(t, s.AddComment(context.Background(), &models.Comment{Name: "Ana", Text: "ok", Rating: 6}), ErrInvalidInput)
}

func TestAddSuggestion_NotifiesInBackground(t *testing.T) {
	var stored *models.Suggestion
	repo := &mockFeedbackRepo{CreateSuggestionFunc: func(ctx context.Context, sg *models.Suggestion) error {
		stored = sg
		return nil
	}}
	notifier := &chanNotifier{sent: make(chan string, 1), err: errors.New("smtp down")}
	s := NewFeedbackService(repo, notifier, zap.NewNop())
	s.now = func() time.Time { return fixedNow }

	ctx, cancel := context.WithCancel(context.Background())
	err := s.AddSuggestion(ctx, &models.Suggestion{
		CustomerName: "Luis", CustomerEmail: "luis@mail.com", ServiceName: " Crunchyroll ",
	})
	cancel()
	require.NoError(t, err)
	assert.Equal(t, "Crunchyroll", stored.ServiceName)
	assert.False(t, stored.IsRead)
	assert.Equal(t, "07:00", stored.CreatedAt.Format("15:04"))

	select {
	case subject := <-notifier.sent:
		assert.Equal(t, "New service suggestion: Crunchyroll", subject)
	case <-time.After(time.Second):
		t.Fatal("notification was not sent")
	}
}

func TestAddSuggestion_InvalidEmail(t *testing.T) {
	s := NewFeedbackService(&mockFeedbackRepo{}, nil, zap.NewNop())

	err := s.AddSuggestion(context.Background(), &models.Suggestion{
		CustomerName: "Luis", CustomerEmail: "luis", ServiceName: "HBO",
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
