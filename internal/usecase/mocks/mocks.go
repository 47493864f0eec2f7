package mocks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/iho/bookstore/internal/domain"
	"github.com/iho/bookstore/internal/usecase"
)

// MockBookRepository is a mock implementation of BookRepository.
type MockBookRepository struct {
	mu    sync.RWMutex
	books map[string]*domain.Book

	CreateFunc           func(ctx context.Context, book *domain.Book) error
	GetByIDFunc          func(ctx context.Context, id string) (*domain.Book, error)
	GetByIDForUpdateFunc func(ctx context.Context, tx usecase.Transaction, id string) (*domain.Book, error)
	ListFunc             func(ctx context.Context, limit, offset int) ([]*domain.Book, error)
}

func NewMockBookRepository() *MockBookRepository {
	return &MockBookRepository{
		books: make(map[string]*domain.Book),
	}
}

func (m *MockBookRepository) Create(ctx context.Context, book *domain.Book) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, book)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.books[book.ID] = book
	return nil
}

func (m *MockBookRepository) GetByID(ctx context.Context, id string) (*domain.Book, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if book, ok := m.books[id]; ok {
		return book, nil
	}
	return nil, domain.ErrBookNotFound
}

func (m *MockBookRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Book, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockBookRepository) List(ctx context.Context, limit, offset int) ([]*domain.Book, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	books := make([]*domain.Book, 0, len(m.books))
	for _, b := range m.books {
		books = append(books, b)
	}
	if offset >= len(books) {
		return nil, nil
	}
	books = books[offset:]
	if limit < len(books) {
		books = books[:limit]
	}
	return books, nil
}

// MockPriceRepository is a mock implementation of PriceRepository backed by
// an in-memory interval store.
type MockPriceRepository struct {
	mu        sync.RWMutex
	intervals map[string][]domain.PriceInterval

	CreateFunc              func(ctx context.Context, tx usecase.Transaction, interval *domain.PriceInterval) error
	ListByBookFunc          func(ctx context.Context, bookID string) ([]domain.PriceInterval, error)
	ListByBookForUpdateFunc func(ctx context.Context, tx usecase.Transaction, bookID string) ([]domain.PriceInterval, error)
	CloseFunc               func(ctx context.Context, tx usecase.Transaction, id string, until time.Time) error
}

func NewMockPriceRepository() *MockPriceRepository {
	return &MockPriceRepository{
		intervals: make(map[string][]domain.PriceInterval),
	}
}

func (m *MockPriceRepository) Create(ctx context.Context, tx usecase.Transaction, interval *domain.PriceInterval) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, interval)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.intervals[interval.BookID] = append(m.intervals[interval.BookID], *interval)
	return nil
}

func (m *MockPriceRepository) ListByBook(ctx context.Context, bookID string) ([]domain.PriceInterval, error) {
	if m.ListByBookFunc != nil {
		return m.ListByBookFunc(ctx, bookID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.PriceInterval, len(m.intervals[bookID]))
	copy(out, m.intervals[bookID])
	return out, nil
}

func (m *MockPriceRepository) ListByBookForUpdate(ctx context.Context, tx usecase.Transaction, bookID string) ([]domain.PriceInterval, error) {
	if m.ListByBookForUpdateFunc != nil {
		return m.ListByBookForUpdateFunc(ctx, tx, bookID)
	}
	return m.ListByBook(ctx, bookID)
}

func (m *MockPriceRepository) Close(ctx context.Context, tx usecase.Transaction, id string, until time.Time) error {
	if m.CloseFunc != nil {
		return m.CloseFunc(ctx, tx, id, until)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for bookID, ivs := range m.intervals {
		for i := range ivs {
			if ivs[i].ID != id {
				continue
			}
			if !ivs[i].End.IsOpen() {
				return domain.ErrPriceConflict
			}
			ivs[i].End = domain.ClosedEnd(until)
			m.intervals[bookID] = ivs
			return nil
		}
	}
	return domain.ErrPriceConflict
}

// MockTransaction is a mock implementation of Transaction.
type MockTransaction struct {
	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error

	Committed  bool
	RolledBack bool
}

func (m *MockTransaction) Commit(ctx context.Context) error {
	if m.CommitFunc != nil {
		return m.CommitFunc(ctx)
	}
	m.Committed = true
	return nil
}

func (m *MockTransaction) Rollback(ctx context.Context) error {
	if m.RollbackFunc != nil {
		return m.RollbackFunc(ctx)
	}
	if !m.Committed {
		m.RolledBack = true
	}
	return nil
}

// MockTransactionManager is a mock implementation of TransactionManager.
type MockTransactionManager struct {
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)

	mu  sync.Mutex
	Txs []*MockTransaction
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	tx := &MockTransaction{}
	m.Txs = append(m.Txs, tx)
	return tx, nil
}

// MockIDGenerator is a mock implementation of IDGenerator.
type MockIDGenerator struct {
	GenerateFunc func() string

	mu   sync.Mutex
	next int
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	return fmt.Sprintf("id-%d", m.next)
}

// MockCache is an in-memory mock implementation of Cache.
type MockCache struct {
	mu     sync.RWMutex
	values map[string]string

	GetFunc    func(ctx context.Context, key string) (string, error)
	SetFunc    func(ctx context.Context, key, value string, ttl time.Duration) error
	DeleteFunc func(ctx context.Context, key string) error
}

func NewMockCache() *MockCache {
	return &MockCache{values: make(map[string]string)}
}

var errCacheMiss = fmt.Errorf("cache miss")

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if v, ok := m.values[key]; ok {
		return v, nil
	}
	return "", errCacheMiss
}

func (m *MockCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

// Len reports how many keys the cache holds.
func (m *MockCache) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.values)
}
