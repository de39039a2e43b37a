package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atinyakov/GophStore/internal/models"
	"github.com/atinyakov/GophStore/internal/validator"
	"go.uber.org/zap"
)

// FeedbackRepository stores comments and suggestions.
type FeedbackRepository interface {
	ListApprovedComments(ctx context.Context, limit int) ([]models.Comment, error)
	CreateComment(ctx context.Context, c *models.Comment) error
	ListSuggestions(ctx context.Context) ([]models.Suggestion, error)
	CreateSuggestion(ctx context.Context, s *models.Suggestion) error
}

// Notifier tells the shop owner about new customer input.
type Notifier interface {
	Notify(ctx context.Context, subject, body string) error
}

const (
	latestCommentsLimit = 10
	notifyTimeout       = 30 * time.Second
)

// suggestionZone is the shop's local time zone; Ecuador has no DST.
var suggestionZone = loadZone("America/Guayaquil", -5*60*60)

func loadZone(name string, fallbackOffset int) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.FixedZone(name, fallbackOffset)
	}
	return loc
}

// FeedbackService handles public comments and service suggestions.
type FeedbackService struct {
	repo     FeedbackRepository
	notifier Notifier
	log      *zap.Logger
	now      func() time.Time
}

// NewFeedbackService constructs a FeedbackService. notifier may be nil.
func NewFeedbackService(repo FeedbackRepository, notifier Notifier, log *zap.Logger) *FeedbackService {
	return &FeedbackService{repo: repo, notifier: notifier, log: log, now: time.Now}
}

// LatestComments returns the newest approved comments.
func (s *FeedbackService) LatestComments(ctx context.Context) ([]models.Comment, error) {
	comments, err := s.repo.ListApprovedComments(ctx, latestCommentsLimit)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return comments, nil
}

// AddComment stores a public comment. Comments are published without moderation.
func (s *FeedbackService) AddComment(ctx context.Context, c *models.Comment) error {
	c.Name = strings.TrimSpace(c.Name)
	c.Text = strings.TrimSpace(c.Text)
	if c.Rating == 0 {
		c.Rating = 5
	}
	if err := validator.ValidateComment(c); err != nil {
		return invalid(err)
	}
	c.IsApproved = true
	c.CreatedAt = s.now().UTC()
	if err := s.repo.CreateComment(ctx, c); err != nil {
		return fmt.Errorf("add comment: %w", err)
	}
	return nil
}

// Suggestions returns every suggestion, newest first, in the shop's time zone.
func (s *FeedbackService) Suggestions(ctx context.Context) ([]models.Suggestion, error) {
	list, err := s.repo.ListSuggestions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list suggestions: %w", err)
	}
	for i := range list {
		list[i].CreatedAt = list[i].CreatedAt.In(suggestionZone)
	}
	return list, nil
}

// AddSuggestion stores a service request and notifies the owner in the background.
func (s *FeedbackService) AddSuggestion(ctx context.Context, sg *models.Suggestion) error {
	sg.CustomerName = strings.TrimSpace(sg.CustomerName)
	sg.CustomerEmail = strings.TrimSpace(sg.CustomerEmail)
	sg.ServiceName = strings.TrimSpace(sg.ServiceName)
	sg.Phone = strings.TrimSpace(sg.Phone)
	if err := validator.ValidateSuggestion(sg); err != nil {
		return invalid(err)
	}
	sg.IsRead = false
	sg.CreatedAt = s.now().In(suggestionZone)
	if err := s.repo.CreateSuggestion(ctx, sg); err != nil {
		return fmt.Errorf("add suggestion: %w", err)
	}

	if s.notifier != nil {
		subject := "New service suggestion: " + sg.ServiceName
		body := fmt.Sprintf("Customer: %s\nEmail: %s\nPhone: %s\nService: %s\nDate: %s\n",
			sg.CustomerName, sg.CustomerEmail, sg.Phone, sg.ServiceName, sg.CreatedAt.Format("02/01/2006 15:04"))
		go s.notify(context.WithoutCancel(ctx), subject, body)
	}
	return nil
}

func (s *FeedbackService) notify(ctx context.Context, subject, body string) {
	ctx, cancel := context.WithTimeout(ctx, notifyTimeout)
	defer cancel()
	if err := s.notifier.Notify(ctx, subject, body); err != nil {
		s.log.Warn("failed to send suggestion notification", zap.Error(err))
	}
}
