package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Validation errors
var (
	ErrInvalidPrice     = errors.New("price must be positive")
	ErrPriceTooLarge    = errors.New("price exceeds maximum allowed")
	ErrInvalidTimestamp = errors.New("timestamp must be set")
	ErrInvalidQuantity  = errors.New("quantity must be positive")
	ErrInvalidTitle     = errors.New("invalid book title")
	ErrInvalidISBN      = errors.New("invalid ISBN")
)

// Validation constants
const (
	MaxTitleLength = 255
	MaxBookPrice   = "1000000"
)

// ISBN-10 or ISBN-13, hyphens optional.
var isbnRegex = regexp.MustCompile(`^(?:\d[- ]?){9}[\dXx]$|^(?:\d[- ]?){12}\d$`)

// ValidatePrice checks that a price is positive and within bounds.
func ValidatePrice(price decimal.Decimal) error {
	if price.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidPrice
	}

	maxPrice, _ := decimal.NewFromString(MaxBookPrice)
	if price.GreaterThan(maxPrice) {
		return fmt.Errorf("%w: maximum price is %s", ErrPriceTooLarge, MaxBookPrice)
	}

	return nil
}

// ValidateTimestamp checks that a timestamp carries a real point in time.
func ValidateTimestamp(t time.Time) error {
	if t.IsZero() {
		return ErrInvalidTimestamp
	}

	return nil
}

// ValidateTitle checks a book title.
func ValidateTitle(title string) error {
	title = strings.TrimSpace(title)

	if title == "" {
		return fmt.Errorf("%w: title cannot be empty", ErrInvalidTitle)
	}

	if len(title) > MaxTitleLength {
		return fmt.Errorf("%w: title exceeds %d characters", ErrInvalidTitle, MaxTitleLength)
	}

	return nil
}

// ValidateISBN checks an ISBN-10 or ISBN-13 string.
func ValidateISBN(isbn string) error {
	isbn = strings.TrimSpace(isbn)

	if !isbnRegex.MatchString(isbn) {
		return fmt.Errorf("%w: %s", ErrInvalidISBN, isbn)
	}

	return nil
}
