package models

import "time"

// BannerType distinguishes manually created banners from the ones
// generated for discount campaigns.
type BannerType string

const (
	BannerPromotion BannerType = "promotion"
	BannerDiscount  BannerType = "discount"
)

// Default banner presentation values.
const (
	DefaultBannerBackground = "#667eea"
	DefaultBannerText       = "#ffffff"
	DefaultBannerShowDelay  = 3000
)

// Banner is a promotional display unit of the storefront.
type Banner struct {
	ID              string     `db:"id" json:"id"`
	Title           string     `db:"title" json:"title"`
	Subtitle        string     `db:"subtitle" json:"subtitle"`
	ImageURL        string     `db:"image_url" json:"image_url"`
	BackgroundColor string     `db:"background_color" json:"background_color"`
	TextColor       string     `db:"text_color" json:"text_color"`
	ButtonText      string     `db:"button_text" json:"button_text"`
	ButtonLink      string     `db:"button_link" json:"button_link"`
	IsActive        bool       `db:"is_active" json:"is_active"`
	DisplayOrder    int        `db:"display_order" json:"display_order"`
	BannerType      BannerType `db:"banner_type" json:"banner_type"`
	IsFullscreen    bool       `db:"is_fullscreen" json:"is_fullscreen"`
	AutoShow        bool       `db:"auto_show" json:"auto_show"`
	// ShowDelay is in milliseconds.
	ShowDelay int       `db:"show_delay" json:"show_delay"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Normalize fills unset presentation fields with their defaults.
func (b *Banner) Normalize() {
	if b.BackgroundColor == "" {
		b.BackgroundColor = DefaultBannerBackground
	}
	if b.TextColor == "" {
		b.TextColor = DefaultBannerText
	}
	if b.BannerType == "" {
		b.BannerType = BannerPromotion
	}
	if b.ShowDelay <= 0 {
		b.ShowDelay = DefaultBannerShowDelay
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now().UTC()
	}
}
