package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/bookstore/internal/domain"
	"github.com/iho/bookstore/internal/usecase"
)

// BookResponse represents a book in API responses.
type BookResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	ISBN        string    `json:"isbn"`
	PublishedAt time.Time `json:"published_at"`
	CreatedAt   time.Time `json:"created_at"`
}

// BookFromDomain converts domain book to response.
func BookFromDomain(b *domain.Book) *BookResponse {
	return &BookResponse{
		ID:          b.ID,
		Title:       b.Title,
		Author:      b.Author,
		ISBN:        b.ISBN,
		PublishedAt: b.PublishedAt,
		CreatedAt:   b.CreatedAt,
	}
}

// BooksFromDomain converts domain books to responses.
func BooksFromDomain(books []*domain.Book) []*BookResponse {
	result := make([]*BookResponse, len(books))
	for i, b := range books {
		result[i] = BookFromDomain(b)
	}
	return result
}

// ListBooksResponse represents a paginated book listing.
type ListBooksResponse struct {
	Books []*BookResponse `json:"books"`
	Total int64           `json:"total"`
}

// PriceIntervalResponse represents a price interval in API responses.
// EffectiveUntil is null while the interval is open.
type PriceIntervalResponse struct {
	ID             string          `json:"id"`
	BookID         string          `json:"book_id"`
	Price          decimal.Decimal `json:"price"`
	EffectiveFrom  time.Time       `json:"effective_from"`
	EffectiveUntil *time.Time      `json:"effective_until"`
	CreatedAt      time.Time       `json:"created_at"`
}

// PriceIntervalFromDomain converts a domain interval to a response.
func PriceIntervalFromDomain(p *domain.PriceInterval) *PriceIntervalResponse {
	resp := &PriceIntervalResponse{
		ID:            p.ID,
		BookID:        p.BookID,
		Price:         p.Price,
		EffectiveFrom: p.EffectiveFrom,
		CreatedAt:     p.CreatedAt,
	}

	if until, closed := p.End.At(); closed {
		resp.EffectiveUntil = &until
	}

	return resp
}

// PriceIntervalsFromDomain converts domain intervals to responses.
func PriceIntervalsFromDomain(intervals []domain.PriceInterval) []*PriceIntervalResponse {
	result := make([]*PriceIntervalResponse, len(intervals))
	for i := range intervals {
		result[i] = PriceIntervalFromDomain(&intervals[i])
	}
	return result
}

// PriceHistoryResponse represents a book's full price history.
type PriceHistoryResponse struct {
	BookID    string                   `json:"book_id"`
	Intervals []*PriceIntervalResponse `json:"intervals"`
}

// RevenueReportResponse represents a revenue reconciliation result.
type RevenueReportResponse struct {
	BookID        string          `json:"book_id"`
	Total         decimal.Decimal `json:"total"`
	MatchedEvents int             `json:"matched_events"`
	SkippedEvents int             `json:"skipped_events"`
	ComputedAt    time.Time       `json:"computed_at"`
}

// RevenueReportFromUseCase converts a use case report to a response.
func RevenueReportFromUseCase(r *usecase.RevenueReport) *RevenueReportResponse {
	return &RevenueReportResponse{
		BookID:        r.BookID,
		Total:         r.Total,
		MatchedEvents: r.MatchedEvents,
		SkippedEvents: r.SkippedEvents,
		ComputedAt:    r.ComputedAt,
	}
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
