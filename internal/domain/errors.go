package domain

import "errors"

var (
	// Book errors
	ErrBookNotFound = errors.New("book not found")

	// Price errors
	ErrNoCurrentPrice = errors.New("book has no current price")
	ErrNoPriceAtDate  = errors.New("no price effective at the given date")
	ErrPriceConflict  = errors.New("price change conflicts with existing price history")
)
