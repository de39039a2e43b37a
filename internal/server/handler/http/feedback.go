package http

import (
	"context"
	"net/http"

	"github.com/atinyakov/GophStore/internal/models"
	"go.uber.org/zap"
)

// FeedbackService defines customer comments and suggestions.
type FeedbackService interface {
	LatestComments(ctx context.Context) ([]models.Comment, error)
	AddComment(ctx context.Context, c *models.Comment) error
	Suggestions(ctx context.Context) ([]models.Suggestion, error)
	AddSuggestion(ctx context.Context, s *models.Suggestion) error
}

// FeedbackHandler serves the public comment and suggestion endpoints.
type FeedbackHandler struct {
	Feedback FeedbackService
	Log      *zap.Logger
}

type commentView struct {
	Name   string `json:"name"`
	Rating int    `json:"rating"`
	Text   string `json:"text"`
	Date   string `json:"date"`
}

type suggestionView struct {
	ID            string `json:"id"`
	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
	ServiceName   string `json:"service_name"`
	Phone         string `json:"phone"`
	IsRead        bool   `json:"is_read"`
	Date          string `json:"date"`
}

// Comments handles GET /api/comments.
func (h *FeedbackHandler) Comments(w http.ResponseWriter, r *http.Request) {
	comments, err := h.Feedback.LatestComments(r.Context())
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	views := make([]commentView, 0, len(comments))
	for _, c := range comments {
		views = append(views, commentView{
			Name:   c.Name,
			Rating: c.Rating,
			Text:   c.Text,
			Date:   c.CreatedAt.Format("02 de January, 2006"),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"comments": views})
}

// AddComment handles POST /api/comments.
func (h *FeedbackHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	var c models.Comment
	if !decodeJSON(w, r, &c) {
		return
	}
	c.ID, c.IsApproved = "", false
	if err := h.Feedback.AddComment(r.Context(), &c); err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeOK(w, "Comment saved")
}

// AddSuggestion handles POST /api/suggestions.
func (h *FeedbackHandler) AddSuggestion(w http.ResponseWriter, r *http.Request) {
	var s models.Suggestion
	if !decodeJSON(w, r, &s) {
		return
	}
	s.ID = ""
	if err := h.Feedback.AddSuggestion(r.Context(), &s); err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeOK(w, "Suggestion sent")
}

// Suggestions handles GET /api/admin/suggestions.
func (h *FeedbackHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	list, err := h.Feedback.Suggestions(r.Context())
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	views := make([]suggestionView, 0, len(list))
	for _, s := range list {
		views = append(views, suggestionView{
			ID:            s.ID,
			CustomerName:  s.CustomerName,
			CustomerEmail: s.CustomerEmail,
			ServiceName:   s.ServiceName,
			Phone:         s.Phone,
			IsRead:        s.IsRead,
			Date:          s.CreatedAt.Format("02/01/2006 15:04"),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"suggestions": views})
}
