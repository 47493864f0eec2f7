package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/bookstore/internal/domain"
	"github.com/iho/bookstore/internal/infrastructure/postgres/generated"
	"github.com/iho/bookstore/internal/usecase"
)

// PriceRepository implements usecase.PriceRepository. A price interval
// row is written once and mutated at most once, when its open end is
// closed; Close is conditional on the row still being open so a lost
// race surfaces as a conflict instead of a silent overwrite.
type PriceRepository struct {
	pool    *pgxpool.Pool
	queries *generated.Queries
}

// NewPriceRepository creates a new PriceRepository.
func NewPriceRepository(pool *pgxpool.Pool) *PriceRepository {
	return &PriceRepository{
		pool:    pool,
		queries: generated.New(pool),
	}
}

// Create inserts a new price interval inside the transaction.
func (r *PriceRepository) Create(ctx context.Context, tx usecase.Transaction, interval *domain.PriceInterval) error {
	pgxTx := tx.(*Tx).PgxTx()
	queries := generated.New(pgxTx)

	_, err := queries.CreateBookPrice(ctx, generated.CreateBookPriceParams{
		ID:             interval.ID,
		BookID:         interval.BookID,
		Price:          decimalToNumeric(interval.Price),
		EffectiveFrom:  timeToPgTimestamptz(interval.EffectiveFrom),
		EffectiveUntil: intervalEndToPg(interval.End),
		CreatedAt:      timeToPgTimestamptz(interval.CreatedAt),
	})

	return err
}

// ListByBook retrieves all price intervals of a book, ascending by
// effective_from.
func (r *PriceRepository) ListByBook(ctx context.Context, bookID string) ([]domain.PriceInterval, error) {
	rows, err := r.queries.ListBookPrices(ctx, bookID)
	if err != nil {
		return nil, err
	}

	return rowsToIntervals(rows), nil
}

// ListByBookForUpdate retrieves all price intervals of a book with FOR
// UPDATE locks inside the transaction.
func (r *PriceRepository) ListByBookForUpdate(ctx context.Context, tx usecase.Transaction, bookID string) ([]domain.PriceInterval, error) {
	pgxTx := tx.(*Tx).PgxTx()
	queries := generated.New(pgxTx)

	rows, err := queries.ListBookPricesForUpdate(ctx, bookID)
	if err != nil {
		return nil, err
	}

	return rowsToIntervals(rows), nil
}

// Close sets the exclusive end of an interval that is still open.
func (r *PriceRepository) Close(ctx context.Context, tx usecase.Transaction, id string, until time.Time) error {
	pgxTx := tx.(*Tx).PgxTx()
	queries := generated.New(pgxTx)

	affected, err := queries.CloseBookPrice(ctx, generated.CloseBookPriceParams{
		ID:             id,
		EffectiveUntil: timeToPgTimestamptz(until),
	})
	if err != nil {
		return err
	}

	if affected == 0 {
		return domain.ErrPriceConflict
	}

	return nil
}

func rowsToIntervals(rows []generated.BookPrice) []domain.PriceInterval {
	intervals := make([]domain.PriceInterval, 0, len(rows))
	for _, row := range rows {
		intervals = append(intervals, rowToInterval(row))
	}

	return intervals
}

func rowToInterval(row generated.BookPrice) domain.PriceInterval {
	end := domain.OpenEnd()
	if row.EffectiveUntil.Valid {
		end = domain.ClosedEnd(row.EffectiveUntil.Time)
	}

	return domain.PriceInterval{
		ID:            row.ID,
		BookID:        row.BookID,
		Price:         numericToDecimal(row.Price),
		EffectiveFrom: row.EffectiveFrom.Time,
		End:           end,
		CreatedAt:     row.CreatedAt.Time,
	}
}

func intervalEndToPg(end domain.IntervalEnd) pgtype.Timestamptz {
	until, closed := end.At()
	if !closed {
		return pgtype.Timestamptz{}
	}

	return timeToPgTimestamptz(until)
}
