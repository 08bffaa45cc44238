package model

import (
	"errors"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrEmptyTitle      = errors.New("title is required")
	ErrInvalidAmount   = errors.New("amount must be greater than 0")
	ErrInvalidType     = errors.New("type must be income or expense")
	ErrUnknownCategory = errors.New("unknown category")

	ErrInvalidEmail  = errors.New("invalid email address")
	ErrShortPassword = errors.New("password must be at least 6 characters")
	ErrShortName     = errors.New("name must be at least 2 characters")
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ParseAmount parses a user-entered amount and normalizes it to two
// decimals. Empty, unparsable or non-positive input is rejected.
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if !d.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}
	return d.Round(2), nil
}

// CoerceBudget parses a budget amount; invalid or empty input coerces to
// zero (unset) rather than an error, and negatives clamp to zero.
func CoerceBudget(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil || d.IsNegative() {
		return decimal.Zero
	}
	return d.Round(2)
}

// Validate checks the fields a transaction must carry before any mutation
// reaches a backing store.
func (t Transaction) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return ErrEmptyTitle
	}
	if !t.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if t.Type != TypeIncome && t.Type != TypeExpense {
		return ErrInvalidType
	}
	if !ValidCategory(t.Category) {
		return ErrUnknownCategory
	}
	return nil
}

// ValidateEmail checks basic email shape.
func ValidateEmail(email string) error {
	if !emailRe.MatchString(email) {
		return ErrInvalidEmail
	}
	return nil
}

// ValidatePassword enforces the minimum password length.
func ValidatePassword(password string) error {
	if len(password) < 6 {
		return ErrShortPassword
	}
	return nil
}

// ValidateName enforces the minimum display-name length.
func ValidateName(name string) error {
	if len(strings.TrimSpace(name)) < 2 {
		return ErrShortName
	}
	return nil
}
