package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/iho/bookstore/internal/domain"
	"github.com/iho/bookstore/internal/infrastructure/metrics"
)

// BookUseCase handles catalog business logic.
type BookUseCase struct {
	bookRepo BookRepository
	idGen    IDGenerator
	metrics  *metrics.Metrics
}

// NewBookUseCase creates a new BookUseCase. metrics may be nil.
func NewBookUseCase(bookRepo BookRepository, idGen IDGenerator, metrics *metrics.Metrics) *BookUseCase {
	return &BookUseCase{
		bookRepo: bookRepo,
		idGen:    idGen,
		metrics:  metrics,
	}
}

// CreateBookInput represents input for creating a book.
type CreateBookInput struct {
	Title       string
	Author      string
	ISBN        string
	PublishedAt time.Time
}

// CreateBook creates a new catalog entry.
func (uc *BookUseCase) CreateBook(ctx context.Context, input CreateBookInput) (*domain.Book, error) {
	if err := domain.ValidateTitle(input.Title); err != nil {
		return nil, err
	}

	if err := domain.ValidateISBN(input.ISBN); err != nil {
		return nil, err
	}

	book := &domain.Book{
		ID:          uc.idGen.Generate(),
		Title:       strings.TrimSpace(input.Title),
		Author:      strings.TrimSpace(input.Author),
		ISBN:        strings.TrimSpace(input.ISBN),
		PublishedAt: input.PublishedAt,
		CreatedAt:   time.Now().UTC(),
	}

	if err := uc.bookRepo.Create(ctx, book); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.BooksCreated.Inc()
	}

	return book, nil
}

// GetBook retrieves a book by ID.
func (uc *BookUseCase) GetBook(ctx context.Context, id string) (*domain.Book, error) {
	return uc.bookRepo.GetByID(ctx, id)
}

// ListBooksInput represents input for listing books.
type ListBooksInput struct {
	Limit  int
	Offset int
}

// ListBooks lists books with pagination.
func (uc *BookUseCase) ListBooks(ctx context.Context, input ListBooksInput) ([]*domain.Book, error) {
	if input.Limit <= 0 {
		input.Limit = DefaultPageSize
	}
	if input.Limit > MaxPageSize {
		input.Limit = MaxPageSize
	}
	return uc.bookRepo.List(ctx, input.Limit, input.Offset)
}
