package usecase

import (
	"context"
	"time"

	"github.com/iho/bookstore/internal/domain"
)

// BookRepository defines data access for books.
type BookRepository interface {
	Create(ctx context.Context, book *domain.Book) error
	GetByID(ctx context.Context, id string) (*domain.Book, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Book, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Book, error)
}

// PriceRepository defines data access for price intervals.
type PriceRepository interface {
	Create(ctx context.Context, tx Transaction, interval *domain.PriceInterval) error
	ListByBook(ctx context.Context, bookID string) ([]domain.PriceInterval, error)
	ListByBookForUpdate(ctx context.Context, tx Transaction, bookID string) ([]domain.PriceInterval, error)
	// Close sets the exclusive end of an interval that is still open.
	// Returns domain.ErrPriceConflict when the interval was already closed
	// by a concurrent writer.
	Close(ctx context.Context, tx Transaction, id string, until time.Time) error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Retrier retries an operation on transient storage errors.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
