package models

import "time"

// Comment is a public customer review.
type Comment struct {
	ID         string    `db:"id" json:"id"`
	Name       string    `db:"name" json:"name"`
	Rating     int       `db:"rating" json:"rating"`
	Text       string    `db:"text" json:"text"`
	IsApproved bool      `db:"is_approved" json:"is_approved"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// Suggestion is a customer request for a service not yet in the catalog.
type Suggestion struct {
	ID            string    `db:"id" json:"id"`
	CustomerName  string    `db:"customer_name" json:"customer_name"`
	CustomerEmail string    `db:"customer_email" json:"customer_email"`
	ServiceName   string    `db:"service_name" json:"service_name"`
	Phone         string    `db:"phone" json:"phone"`
	IsRead        bool      `db:"is_read" json:"is_read"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}
