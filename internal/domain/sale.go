package domain

import "time"

// SaleEvent is one historical sale of a book: when it happened and how
// many copies were sold.
type SaleEvent struct {
	Date     time.Time
	Quantity int64
}

// Validate checks the event fields.
func (s SaleEvent) Validate() error {
	if err := ValidateTimestamp(s.Date); err != nil {
		return err
	}

	if s.Quantity <= 0 {
		return ErrInvalidQuantity
	}

	return nil
}
