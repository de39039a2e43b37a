package http

import (
	"context"
	"net/http"

	"github.com/atinyakov/GophStore/internal/models"
	"go.uber.org/zap"
)

// BannerService defines banner administration.
type BannerService interface {
	List(ctx context.Context) ([]models.Banner, error)
	Create(ctx context.Context, b *models.Banner) error
	Update(ctx context.Context, b *models.Banner) error
	Delete(ctx context.Context, id string) error
}

// BannerHandler serves banner CRUD.
type BannerHandler struct {
	Banners BannerService
	Log     *zap.Logger
}

// bannerRequest carries the editable banner fields. IsActive defaults to
// true; the remaining defaults are applied by the model.
type bannerRequest struct {
	BannerID        string            `json:"banner_id"`
	Title           string            `json:"title"`
	Subtitle        string            `json:"subtitle"`
	ImageURL        string            `json:"image_url"`
	BackgroundColor string            `json:"background_color"`
	TextColor       string            `json:"text_color"`
	ButtonText      string            `json:"button_text"`
	ButtonLink      string            `json:"button_link"`
	IsActive        *bool             `json:"is_active"`
	DisplayOrder    int               `json:"display_order"`
	BannerType      models.BannerType `json:"banner_type"`
	IsFullscreen    bool              `json:"is_fullscreen"`
	AutoShow        bool              `json:"auto_show"`
	ShowDelay       int               `json:"show_delay"`
}

func (req *bannerRequest) banner() *models.Banner {
	b := &models.Banner{
		ID:              req.BannerID,
		Title:           req.Title,
		Subtitle:        req.Subtitle,
		ImageURL:        req.ImageURL,
		BackgroundColor: req.BackgroundColor,
		TextColor:       req.TextColor,
		ButtonText:      req.ButtonText,
		ButtonLink:      req.ButtonLink,
		IsActive:        req.IsActive == nil || *req.IsActive,
		DisplayOrder:    req.DisplayOrder,
		BannerType:      req.BannerType,
		IsFullscreen:    req.IsFullscreen,
		AutoShow:        req.AutoShow,
		ShowDelay:       req.ShowDelay,
	}
	b.Normalize()
	return b
}

// List handles GET /api/banners.
func (h *BannerHandler) List(w http.ResponseWriter, r *http.Request) {
	banners, err := h.Banners.List(r.Context())
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	if banners == nil {
		banners = []models.Banner{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"banners": banners})
}

// Add handles POST /api/add-banner and POST /api/banners.
func (h *BannerHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req bannerRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	b := req.banner()
	b.ID = ""
	if err := h.Banners.Create(r.Context(), b); err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, Result{Success: true, Message: "Banner created", BannerID: b.ID})
}

// Update handles POST /api/update-banner.
func (h *BannerHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req bannerRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.Banners.Update(r.Context(), req.banner()); err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeOK(w, "Banner updated")
}

// Delete handles POST /api/delete-banner.
func (h *BannerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var req struct {
		BannerID string `json:"banner_id"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.Banners.Delete(r.Context(), req.BannerID); err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeOK(w, "Banner deleted")
}
