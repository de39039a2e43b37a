// Package repository provides PostgreSQL persistence for the store's
// collections: users, credential records, banners, discount campaigns,
// comments and suggestions.
package repository

import (
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a record does not exist. Malformed ids are
// reported the same way.
var ErrNotFound = errors.New("record not found")

// validID reports whether id can identify a stored record.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
