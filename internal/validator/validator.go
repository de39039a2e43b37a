// Package validator checks user supplied fields before they reach storage.
package validator

import (
	"errors"
	"regexp"
	"strings"

	"github.com/atinyakov/GophStore/internal/models"
	"github.com/shopspring/decimal"
)

var (
	ErrEmptyEmail         = errors.New("email is empty")
	ErrInvalidEmailFormat = errors.New("invalid email format")
	ErrEmptyPassword      = errors.New("password is empty")
	ErrEmptyName          = errors.New("name is empty")
	ErrEmptyText          = errors.New("text is empty")
	ErrEmptyService       = errors.New("service name is empty")
	ErrInvalidRating      = errors.New("rating must be between 1 and 5")
	ErrInvalidPercentage  = errors.New("percentage must be greater than 0 and at most 100")
	ErrNegativePrice      = errors.New("price must not be negative")
	ErrInvalidStatus      = errors.New("unknown account status")
	ErrInvalidEventType   = errors.New("unknown event type")
	ErrInvalidWindow      = errors.New("end date is before start date")
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

var hundred = decimal.NewFromInt(100)

// ValidateEmail requires a well-formed address.
func ValidateEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return ErrEmptyEmail
	}
	if !emailRegex.MatchString(email) {
		return ErrInvalidEmailFormat
	}
	return nil
}

// ValidateCredentialEmail accepts anything that has a local part and a
// domain separated by '@'. Sold logins are not always deliverable addresses.
func ValidateCredentialEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ErrEmptyEmail
	}
	local, domain, ok := strings.Cut(email, "@")
	if !ok || local == "" || domain == "" {
		return ErrInvalidEmailFormat
	}
	return nil
}

func ValidateRating(rating int) error {
	if rating < 1 || rating > 5 {
		return ErrInvalidRating
	}
	return nil
}

func ValidatePercentage(pct decimal.Decimal) error {
	if !pct.IsPositive() || pct.GreaterThan(hundred) {
		return ErrInvalidPercentage
	}
	return nil
}

func ValidatePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return ErrNegativePrice
	}
	return nil
}

// ValidateAccount checks a credential record before it is written.
func ValidateAccount(a *models.Account) error {
	if err := ValidateCredentialEmail(a.Email); err != nil {
		return err
	}
	if strings.TrimSpace(a.Name) == "" {
		return ErrEmptyName
	}
	if err := ValidatePrice(a.Price); err != nil {
		return err
	}
	if a.Status != "" && !a.Status.Valid() {
		return ErrInvalidStatus
	}
	return nil
}

// ValidateComment checks a public review.
func ValidateComment(c *models.Comment) error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if strings.TrimSpace(c.Text) == "" {
		return ErrEmptyText
	}
	return ValidateRating(c.Rating)
}

// ValidateSuggestion checks a service request. Phone is optional.
func ValidateSuggestion(s *models.Suggestion) error {
	if strings.TrimSpace(s.CustomerName) == "" {
		return ErrEmptyName
	}
	if strings.TrimSpace(s.ServiceName) == "" {
		return ErrEmptyService
	}
	return ValidateEmail(s.CustomerEmail)
}

// ValidateDiscount checks a campaign before it is created.
func ValidateDiscount(d *models.Discount) error {
	if strings.TrimSpace(d.Name) == "" {
		return ErrEmptyName
	}
	if err := ValidatePercentage(d.Percentage); err != nil {
		return err
	}
	if !d.EventType.Valid() {
		return ErrInvalidEventType
	}
	if d.StartDate != nil && d.EndDate != nil && d.EndDate.Before(*d.StartDate) {
		return ErrInvalidWindow
	}
	return nil
}
