package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/iho/bookstore/internal/domain"
	"github.com/iho/bookstore/internal/infrastructure/postgres/generated"
	"github.com/iho/bookstore/internal/usecase"
)

// BookRepository implements usecase.BookRepository.
type BookRepository struct {
	pool    *pgxpool.Pool
	queries *generated.Queries
}

// NewBookRepository creates a new BookRepository.
func NewBookRepository(pool *pgxpool.Pool) *BookRepository {
	return &BookRepository{
		pool:    pool,
		queries: generated.New(pool),
	}
}

// Create creates a new book.
func (r *BookRepository) Create(ctx context.Context, book *domain.Book) error {
	_, err := r.queries.CreateBook(ctx, generated.CreateBookParams{
		ID:          book.ID,
		Title:       book.Title,
		Author:      book.Author,
		Isbn:        book.ISBN,
		PublishedAt: timeToPgTimestamptz(book.PublishedAt),
		CreatedAt:   timeToPgTimestamptz(book.CreatedAt),
	})

	return err
}

// GetByID retrieves a book by ID.
func (r *BookRepository) GetByID(ctx context.Context, id string) (*domain.Book, error) {
	row, err := r.queries.GetBookByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBookNotFound
		}

		return nil, err
	}

	return rowToBook(row), nil
}

// GetByIDForUpdate retrieves a book by ID with a FOR UPDATE lock. Price
// writes lock the book row first so that updates on the same book
// serialize even before any price rows exist.
func (r *BookRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Book, error) {
	pgxTx := tx.(*Tx).PgxTx()
	queries := generated.New(pgxTx)

	row, err := queries.GetBookByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBookNotFound
		}

		return nil, err
	}

	return rowToBook(row), nil
}

// List lists books with pagination.
func (r *BookRepository) List(ctx context.Context, limit, offset int) ([]*domain.Book, error) {
	rows, err := r.queries.ListBooks(ctx, generated.ListBooksParams{
		Limit:  int32(limit),
		Offset: int32(offset),
	})
	if err != nil {
		return nil, err
	}

	books := make([]*domain.Book, 0, len(rows))
	for _, row := range rows {
		books = append(books, rowToBook(row))
	}

	return books, nil
}

func rowToBook(row generated.Book) *domain.Book {
	return &domain.Book{
		ID:          row.ID,
		Title:       row.Title,
		Author:      row.Author,
		ISBN:        row.Isbn,
		PublishedAt: row.PublishedAt.Time,
		CreatedAt:   row.CreatedAt.Time,
	}
}

// Type conversion helpers.
func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric

	_ = n.Scan(d.String())

	return n
}

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}

	d, _ := decimal.NewFromString(n.Int.String())
	if n.Exp != 0 {
		d = d.Shift(n.Exp)
	}

	return d
}

func timeToPgTimestamptz(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: true}
}
