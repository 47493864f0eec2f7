package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/bookstore/internal/domain"
	"github.com/iho/bookstore/internal/infrastructure/metrics"
)

// PriceUseCase owns the write boundary of a book's price ledger and its
// point-in-time lookups. A price change is one transaction: the open
// interval is closed and the successor opened with the book's rows locked,
// so no reader ever observes zero or two open intervals for a book.
type PriceUseCase struct {
	txManager TransactionManager
	bookRepo  BookRepository
	priceRepo PriceRepository
	idGen     IDGenerator
	cache     Cache
	retrier   Retrier
	metrics   *metrics.Metrics
}

// NewPriceUseCase creates a new PriceUseCase. cache, retrier and metrics
// may be nil.
func NewPriceUseCase(
	txManager TransactionManager,
	bookRepo BookRepository,
	priceRepo PriceRepository,
	idGen IDGenerator,
	cache Cache,
	retrier Retrier,
	metrics *metrics.Metrics,
) *PriceUseCase {
	return &PriceUseCase{
		txManager: txManager,
		bookRepo:  bookRepo,
		priceRepo: priceRepo,
		idGen:     idGen,
		cache:     cache,
		retrier:   retrier,
		metrics:   metrics,
	}
}

// SetInitialPriceInput represents input for pricing a book for the first time.
type SetInitialPriceInput struct {
	BookID        string
	Price         decimal.Decimal
	EffectiveFrom time.Time
}

// SetInitialPrice records a book's first price. It is the initialization
// path: there is no predecessor to close, and a book that already has an
// open interval is a conflict, not an update.
func (uc *PriceUseCase) SetInitialPrice(ctx context.Context, input SetInitialPriceInput) (*domain.PriceInterval, error) {
	start := time.Now()

	if err := domain.ValidatePrice(input.Price); err != nil {
		return nil, err
	}

	if err := domain.ValidateTimestamp(input.EffectiveFrom); err != nil {
		return nil, err
	}

	var interval domain.PriceInterval

	err := uc.withRetry(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		if _, err := uc.bookRepo.GetByIDForUpdate(ctx, tx, input.BookID); err != nil {
			return err
		}

		intervals, err := uc.priceRepo.ListByBookForUpdate(ctx, tx, input.BookID)
		if err != nil {
			return err
		}

		ledger := domain.NewLedger(input.BookID, intervals)

		interval, err = ledger.Append(uc.idGen.Generate(), input.Price, input.EffectiveFrom, time.Now())
		if err != nil {
			return err
		}

		if err := uc.priceRepo.Create(ctx, tx, &interval); err != nil {
			return err
		}

		return tx.Commit(ctx)
	})
	if err != nil {
		uc.recordPriceError(err)
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.PricesSet.Inc()
		uc.metrics.PriceUpdateDuration.Observe(time.Since(start).Seconds())
	}

	uc.invalidateCurrentPrice(ctx, input.BookID)

	return &interval, nil
}

// UpdatePriceInput represents input for changing a book's price.
type UpdatePriceInput struct {
	BookID      string
	NewPrice    decimal.Decimal
	EffectiveAt time.Time
}

// UpdatePrice closes the current open interval at EffectiveAt and opens a
// new one with NewPrice, atomically. A book that has never been priced is
// not updatable; callers set the initial price instead.
func (uc *PriceUseCase) UpdatePrice(ctx context.Context, input UpdatePriceInput) (*domain.PriceInterval, error) {
	start := time.Now()

	if err := domain.ValidatePrice(input.NewPrice); err != nil {
		return nil, err
	}

	if err := domain.ValidateTimestamp(input.EffectiveAt); err != nil {
		return nil, err
	}

	var opened domain.PriceInterval

	err := uc.withRetry(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		// Lock the book row first so concurrent updates on the same book
		// serialize even before its price rows exist.
		if _, err := uc.bookRepo.GetByIDForUpdate(ctx, tx, input.BookID); err != nil {
			return err
		}

		intervals, err := uc.priceRepo.ListByBookForUpdate(ctx, tx, input.BookID)
		if err != nil {
			return err
		}

		ledger := domain.NewLedger(input.BookID, intervals)

		closed, newInterval, err := ledger.ChangePrice(uc.idGen.Generate(), input.NewPrice, input.EffectiveAt, time.Now())
		if err != nil {
			return err
		}

		until, _ := closed.End.At()
		if err := uc.priceRepo.Close(ctx, tx, closed.ID, until); err != nil {
			return err
		}

		if err := uc.priceRepo.Create(ctx, tx, &newInterval); err != nil {
			return err
		}

		if err := tx.Commit(ctx); err != nil {
			return err
		}

		opened = newInterval

		return nil
	})
	if err != nil {
		uc.recordPriceError(err)
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.PriceUpdates.Inc()
		uc.metrics.PriceUpdateDuration.Observe(time.Since(start).Seconds())
	}

	uc.invalidateCurrentPrice(ctx, input.BookID)

	return &opened, nil
}

// GetCurrentPrice returns the book's open interval.
func (uc *PriceUseCase) GetCurrentPrice(ctx context.Context, bookID string) (*domain.PriceInterval, error) {
	if cached, ok := uc.cachedCurrentPrice(ctx, bookID); ok {
		return cached, nil
	}

	ledger, err := uc.loadLedger(ctx, bookID)
	if err != nil {
		return nil, err
	}

	current, err := ledger.Current()
	if err != nil {
		return nil, err
	}

	uc.storeCurrentPrice(ctx, current)

	return &current, nil
}

// GetPriceAt returns the interval effective at the given instant.
func (uc *PriceUseCase) GetPriceAt(ctx context.Context, bookID string, at time.Time) (*domain.PriceInterval, error) {
	if err := domain.ValidateTimestamp(at); err != nil {
		return nil, err
	}

	ledger, err := uc.loadLedger(ctx, bookID)
	if err != nil {
		return nil, err
	}

	interval, err := ledger.At(at)
	if err != nil {
		return nil, err
	}

	return &interval, nil
}

// GetHistory returns all of a book's intervals ascending by EffectiveFrom.
func (uc *PriceUseCase) GetHistory(ctx context.Context, bookID string) ([]domain.PriceInterval, error) {
	ledger, err := uc.loadLedger(ctx, bookID)
	if err != nil {
		return nil, err
	}

	return ledger.History(), nil
}

func (uc *PriceUseCase) loadLedger(ctx context.Context, bookID string) (*domain.Ledger, error) {
	if _, err := uc.bookRepo.GetByID(ctx, bookID); err != nil {
		return nil, err
	}

	intervals, err := uc.priceRepo.ListByBook(ctx, bookID)
	if err != nil {
		return nil, err
	}

	return domain.NewLedger(bookID, intervals), nil
}

func (uc *PriceUseCase) recordPriceError(err error) {
	if uc.metrics == nil {
		return
	}

	if errors.Is(err, domain.ErrPriceConflict) {
		uc.metrics.PriceConflicts.Inc()
		return
	}

	uc.metrics.PriceErrors.WithLabelValues("write").Inc()
}

func (uc *PriceUseCase) withRetry(ctx context.Context, operation func() error) error {
	if uc.retrier == nil {
		return operation()
	}

	return uc.retrier.Retry(ctx, operation)
}

// currentPriceCacheEntry is the cached form of an open interval. The end
// is implied open, which keeps the payload a flat JSON object.
type currentPriceCacheEntry struct {
	ID            string          `json:"id"`
	BookID        string          `json:"book_id"`
	Price         decimal.Decimal `json:"price"`
	EffectiveFrom time.Time       `json:"effective_from"`
	CreatedAt     time.Time       `json:"created_at"`
}

func currentPriceKey(bookID string) string {
	return "price:current:" + bookID
}

func (uc *PriceUseCase) cachedCurrentPrice(ctx context.Context, bookID string) (*domain.PriceInterval, bool) {
	if uc.cache == nil {
		return nil, false
	}

	raw, err := uc.cache.Get(ctx, currentPriceKey(bookID))
	if err != nil {
		uc.recordCacheLookup(false)
		return nil, false
	}

	var entry currentPriceCacheEntry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		uc.recordCacheLookup(false)
		return nil, false
	}

	uc.recordCacheLookup(true)

	return &domain.PriceInterval{
		ID:            entry.ID,
		BookID:        entry.BookID,
		Price:         entry.Price,
		EffectiveFrom: entry.EffectiveFrom,
		End:           domain.OpenEnd(),
		CreatedAt:     entry.CreatedAt,
	}, true
}

func (uc *PriceUseCase) recordCacheLookup(hit bool) {
	if uc.metrics == nil {
		return
	}

	if hit {
		uc.metrics.CacheHits.WithLabelValues("current_price").Inc()
		return
	}

	uc.metrics.CacheMisses.WithLabelValues("current_price").Inc()
}

func (uc *PriceUseCase) storeCurrentPrice(ctx context.Context, interval domain.PriceInterval) {
	if uc.cache == nil {
		return
	}

	raw, err := json.Marshal(currentPriceCacheEntry{
		ID:            interval.ID,
		BookID:        interval.BookID,
		Price:         interval.Price,
		EffectiveFrom: interval.EffectiveFrom,
		CreatedAt:     interval.CreatedAt,
	})
	if err != nil {
		return
	}

	// Cache failures only cost a future lookup.
	_ = uc.cache.Set(ctx, currentPriceKey(interval.BookID), string(raw), CurrentPriceCacheTTL)
}

func (uc *PriceUseCase) invalidateCurrentPrice(ctx context.Context, bookID string) {
	if uc.cache == nil {
		return
	}

	_ = uc.cache.Delete(ctx, currentPriceKey(bookID))
}
