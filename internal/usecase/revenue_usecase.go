package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/bookstore/internal/domain"
	"github.com/iho/bookstore/internal/infrastructure/metrics"
)

// RevenueUseCase reconciles historical sales against the price that was
// effective on each sale date. It only reads the ledger.
type RevenueUseCase struct {
	bookRepo  BookRepository
	priceRepo PriceRepository
	metrics   *metrics.Metrics
}

// NewRevenueUseCase creates a new RevenueUseCase. metrics may be nil.
func NewRevenueUseCase(bookRepo BookRepository, priceRepo PriceRepository, metrics *metrics.Metrics) *RevenueUseCase {
	return &RevenueUseCase{
		bookRepo:  bookRepo,
		priceRepo: priceRepo,
		metrics:   metrics,
	}
}

// RevenueReport is the result of reconciling a set of sale events.
type RevenueReport struct {
	BookID        string
	Total         decimal.Decimal
	MatchedEvents int
	SkippedEvents int
	ComputedAt    time.Time
}

// ComputeRevenue sums price x quantity over the given sale events,
// resolving each event's price by interval containment on the sale date.
// An event dated before the book's first recorded price contributes zero
// and is skipped: an unpriced sale date is a data-quality condition in the
// input, not a fault. The ledger price is never extrapolated outside its
// recorded range. A book with no catalog entry is ErrBookNotFound.
func (uc *RevenueUseCase) ComputeRevenue(ctx context.Context, bookID string, events []domain.SaleEvent) (*RevenueReport, error) {
	start := time.Now()

	for _, ev := range events {
		if err := ev.Validate(); err != nil {
			return nil, err
		}
	}

	if _, err := uc.bookRepo.GetByID(ctx, bookID); err != nil {
		return nil, err
	}

	intervals, err := uc.priceRepo.ListByBook(ctx, bookID)
	if err != nil {
		return nil, err
	}

	ledger := domain.NewLedger(bookID, intervals)

	report := &RevenueReport{
		BookID:     bookID,
		Total:      decimal.Zero,
		ComputedAt: time.Now().UTC(),
	}

	for _, ev := range events {
		interval, err := ledger.At(ev.Date)
		if err != nil {
			if errors.Is(err, domain.ErrNoPriceAtDate) {
				report.SkippedEvents++
				continue
			}

			return nil, err
		}

		report.Total = report.Total.Add(interval.Price.Mul(decimal.NewFromInt(ev.Quantity)))
		report.MatchedEvents++
	}

	if uc.metrics != nil {
		uc.metrics.RevenueComputations.Inc()
		uc.metrics.RevenueEventsMatched.Add(float64(report.MatchedEvents))
		uc.metrics.RevenueEventsSkipped.Add(float64(report.SkippedEvents))
		uc.metrics.RevenueDuration.Observe(time.Since(start).Seconds())
	}

	return report, nil
}
