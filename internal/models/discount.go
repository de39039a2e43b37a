package models

import (
	"slices"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// EventType classifies discount campaigns.
type EventType string

const (
	EventManual  EventType = "manual"
	EventFlash   EventType = "flash"
	EventWeekend EventType = "weekend"
	EventHoliday EventType = "holiday"
)

// Valid reports whether e is one of the known event types.
func (e EventType) Valid() bool {
	switch e {
	case EventManual, EventFlash, EventWeekend, EventHoliday:
		return true
	}
	return false
}

// Discount is a percentage markdown campaign, optionally linked to a banner.
type Discount struct {
	ID         string          `db:"id" json:"id"`
	Name       string          `db:"name" json:"name"`
	Percentage decimal.Decimal `db:"percentage" json:"percentage"`
	EventType  EventType       `db:"event_type" json:"event_type"`
	// StartDate and EndDate are nil for flash campaigns.
	StartDate *time.Time `db:"start_date" json:"start_date,omitempty"`
	EndDate   *time.Time `db:"end_date" json:"end_date,omitempty"`
	IsActive  bool       `db:"is_active" json:"is_active"`
	// Categories restricts the campaign; empty applies to every category.
	Categories pq.StringArray `db:"categories" json:"categories"`
	BannerID   string         `db:"banner_id" json:"banner_id"`
	CreatedAt  time.Time      `db:"created_at" json:"created_at"`
}

// AppliesToCategory reports whether the campaign marks down the category.
func (d *Discount) AppliesToCategory(category string) bool {
	return len(d.Categories) == 0 || slices.Contains(d.Categories, category)
}

// CoversInstant reports whether the campaign's date window contains now.
// Flash campaigns are always current.
func (d *Discount) CoversInstant(now time.Time) bool {
	if d.EventType == EventFlash {
		return true
	}
	if d.StartDate == nil || d.EndDate == nil {
		return false
	}
	return !now.Before(*d.StartDate) && !now.After(*d.EndDate)
}
