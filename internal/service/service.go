// Package service provides the store's business logic: catalog views,
// discount resolution, inventory management, bulk imports, back-office
// authentication, banners and customer feedback. Persistence is delegated
// to repository interfaces declared next to each service.
package service

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when the addressed record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput wraps every validation failure.
	ErrInvalidInput = errors.New("invalid input")
	// ErrAccountLocked is returned while a user is locked out.
	ErrAccountLocked = errors.New("account locked after repeated failed logins")
	// ErrInvalidCredentials is returned for an unknown email or a wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrInvalidCode is returned for a wrong or expired second-factor code.
	ErrInvalidCode = errors.New("invalid 2FA code")
)

func invalid(err error) error {
	return fmt.Errorf("%w: %w", ErrInvalidInput, err)
}
