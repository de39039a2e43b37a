package validator

import (
	"testing"
	"time"

	"github.com/atinyakov/GophStore/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("luis@example.com"))
	assert.ErrorIs(t, ValidateEmail("  "), ErrEmptyEmail)
	assert.ErrorIs(t, ValidateEmail("luis@example"), ErrInvalidEmailFormat)
}

func TestValidateCredentialEmail(t *testing.T) {
	assert.NoError(t, ValidateCredentialEmail("user1@x"))
	assert.ErrorIs(t, ValidateCredentialEmail(""), ErrEmptyEmail)
	assert.ErrorIs(t, ValidateCredentialEmail("nodomain"), ErrInvalidEmailFormat)
	assert.ErrorIs(t, ValidateCredentialEmail("@x.com"), ErrInvalidEmailFormat)
}

func TestValidatePercentage(t *testing.T) {
	tests := []struct {
		in   string
		want error
	}{
		{"20", nil},
		{"100", nil},
		{"0.5", nil},
		{"0", ErrInvalidPercentage},
		{"-5", ErrInvalidPercentage},
		{"100.01", ErrInvalidPercentage},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			err := ValidatePercentage(decimal.RequireFromString(tt.in))
			if tt.want == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.want)
			}
		})
	}
}

func TestValidateAccount(t *testing.T) {
	ok := &models.Account{Email: "a@b.c", Name: "Netflix", Price: decimal.NewFromInt(5)}
	assert.NoError(t, ValidateAccount(ok))

	assert.ErrorIs(t, ValidateAccount(&models.Account{Email: "a@b.c"}), ErrEmptyName)
	assert.ErrorIs(t, ValidateAccount(&models.Account{Email: "a@b.c", Name: "N", Price: decimal.NewFromInt(-1)}), ErrNegativePrice)
	assert.ErrorIs(t, ValidateAccount(&models.Account{Email: "a@b.c", Name: "N", Status: "reserved"}), ErrInvalidStatus)
}

func TestValidateComment(t *testing.T) {
	assert.NoError(t, ValidateComment(&models.Comment{Name: "Ana", Text: "Great", Rating: 5}))
	assert.ErrorIs(t, ValidateComment(&models.Comment{Name: "Ana", Text: "Great", Rating: 6}), ErrInvalidRating)
	assert.ErrorIs(t, ValidateComment(&models.Comment{Name: "Ana", Rating: 3}), ErrEmptyText)
}

func TestValidateSuggestion(t *testing.T) {
	s := &models.Suggestion{CustomerName: "Luis", CustomerEmail: "luis@example.com", ServiceName: "HBO"}
	assert.NoError(t, ValidateSuggestion(s))

	s.ServiceName = ""
	assert.ErrorIs(t, ValidateSuggestion(s), ErrEmptyService)
}

func TestValidateDiscount(t *testing.T) {
	start := time.Now()
	end := start.Add(-time.Hour)
	d := &models.Discount{Name: "Sale", Percentage: decimal.NewFromInt(10), EventType: models.EventManual}
	assert.NoError(t, ValidateDiscount(d))

	d.StartDate, d.EndDate = &start, &end
	assert.ErrorIs(t, ValidateDiscount(d), ErrInvalidWindow)

	d.EventType = "birthday"
	assert.ErrorIs(t, ValidateDiscount(d), ErrInvalidEventType)
}
