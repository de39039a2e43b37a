// Package models defines the core data structures for admin users,
// sellable credential records, promotional banners, discount campaigns
// and customer feedback.
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// User represents a back-office user able to log in.
type User struct {
	// ID is the unique identifier for the user.
	ID string `db:"id"`
	// Email is the login name of the user.
	Email string `db:"email"`
	// PasswordHash is the bcrypt hash of the user's password.
	PasswordHash string `db:"password_hash"`
	// IsAdmin grants access to the back-office.
	IsAdmin bool `db:"is_admin"`
	// TwoFactorSecret is the base32 TOTP secret; empty until enrollment.
	TwoFactorSecret string `db:"two_factor_secret"`
	// FailedAttempts counts consecutive failed password checks.
	FailedAttempts int `db:"failed_attempts"`
	// LockedUntil is set once FailedAttempts reaches the lockout threshold.
	LockedUntil *time.Time `db:"locked_until"`
	// LastLogin is the time of the last completed login.
	LastLogin *time.Time `db:"last_login"`
	// CreatedAt is the creation time.
	CreatedAt time.Time `db:"created_at"`
}

// IsLocked reports whether the user is locked out at the given instant.
func (u *User) IsLocked(now time.Time) bool {
	return u.LockedUntil != nil && now.Before(*u.LockedUntil)
}

// AccountStatus is the sale status of a single credential record.
type AccountStatus string

const (
	// StatusAvailable marks a record that can be sold and counts as stock.
	StatusAvailable AccountStatus = "available"
	// StatusSold marks a record that has been sold.
	StatusSold AccountStatus = "sold"
	// StatusFailed marks a record whose credentials do not work.
	StatusFailed AccountStatus = "failed"
	// StatusHidden marks a record withdrawn from the storefront.
	StatusHidden AccountStatus = "hidden"
)

// Valid reports whether s is one of the known statuses.
func (s AccountStatus) Valid() bool {
	switch s {
	case StatusAvailable, StatusSold, StatusFailed, StatusHidden:
		return true
	}
	return false
}

// Account is one sellable credential (a single email+password pair).
// Email and Password always hold plaintext; encoding happens at the
// storage boundary.
type Account struct {
	// ID is the unique identifier for the record.
	ID string `json:"id"`
	// Email is the login of the sold credential.
	Email string `json:"email"`
	// Password is the password of the sold credential.
	Password string `json:"password"`
	// Name is the product display name, e.g. "Netflix".
	Name string `json:"name"`
	// Plan is an optional plan suffix, e.g. "Premium".
	Plan string `json:"plan"`
	// Type is the product category.
	Type string `json:"type"`
	// Price is the list price of the record.
	Price decimal.Decimal `json:"price"`
	// Quantity is informational; every record counts as one unit of stock.
	Quantity int `json:"quantity"`
	// Status is the sale status.
	Status AccountStatus `json:"status"`
	// Description is a free-form note.
	Description string `json:"description"`
	// ImageURL is the product image shown in the storefront.
	ImageURL string `json:"image_url"`
	// DisplayOrder sorts products in the storefront, ascending.
	DisplayOrder int `json:"display_order"`
	// CreatedAt is the creation time.
	CreatedAt time.Time `json:"created_at"`
}

// Normalize applies the defaulting rules of stored records.
func (a *Account) Normalize() {
	if a.Status == "" {
		a.Status = StatusAvailable
	}
	if a.Quantity <= 0 {
		a.Quantity = 1
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
}
