package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/bookstore/internal/domain"
	"github.com/iho/bookstore/internal/usecase"
)

// CreateBookRequest represents a request to create a book.
type CreateBookRequest struct {
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	ISBN        string    `json:"isbn"`
	PublishedAt time.Time `json:"published_at"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateBookRequest) ToUseCaseInput() usecase.CreateBookInput {
	return usecase.CreateBookInput{
		Title:       r.Title,
		Author:      r.Author,
		ISBN:        r.ISBN,
		PublishedAt: r.PublishedAt,
	}
}

// SetPriceRequest represents a request to price a book for the first
// time. Price travels as a string so clients never round it through a
// float.
type SetPriceRequest struct {
	Price         string    `json:"price"`
	EffectiveFrom time.Time `json:"effective_from"`
}

// ToUseCaseInput converts to use case input.
func (r *SetPriceRequest) ToUseCaseInput(bookID string) (usecase.SetInitialPriceInput, error) {
	price, err := decimal.NewFromString(r.Price)
	if err != nil {
		return usecase.SetInitialPriceInput{}, err
	}

	return usecase.SetInitialPriceInput{
		BookID:        bookID,
		Price:         price,
		EffectiveFrom: r.EffectiveFrom,
	}, nil
}

// UpdatePriceRequest represents a request to change a book's price.
type UpdatePriceRequest struct {
	NewPrice    string    `json:"new_price"`
	EffectiveAt time.Time `json:"effective_at"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdatePriceRequest) ToUseCaseInput(bookID string) (usecase.UpdatePriceInput, error) {
	price, err := decimal.NewFromString(r.NewPrice)
	if err != nil {
		return usecase.UpdatePriceInput{}, err
	}

	return usecase.UpdatePriceInput{
		BookID:      bookID,
		NewPrice:    price,
		EffectiveAt: r.EffectiveAt,
	}, nil
}

// SaleEventItem represents a single sale in a revenue request.
type SaleEventItem struct {
	Date     time.Time `json:"date"`
	Quantity int64     `json:"quantity"`
}

// ComputeRevenueRequest represents a request to reconcile sale events
// against the price history.
type ComputeRevenueRequest struct {
	Events []SaleEventItem `json:"events"`
}

// ToDomainEvents converts to domain sale events.
func (r *ComputeRevenueRequest) ToDomainEvents() []domain.SaleEvent {
	events := make([]domain.SaleEvent, len(r.Events))
	for i, ev := range r.Events {
		events[i] = domain.SaleEvent{
			Date:     ev.Date,
			Quantity: ev.Quantity,
		}
	}
	return events
}
