package usecase_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"

	"github.com/iho/bookstore/internal/domain"
	"github.com/iho/bookstore/internal/usecase"
	"github.com/iho/bookstore/internal/usecase/mocks"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func price(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

type priceFixture struct {
	txManager *mocks.MockTransactionManager
	bookRepo  *mocks.MockBookRepository
	priceRepo *mocks.MockPriceRepository
	idGen     *mocks.MockIDGenerator
	cache     *mocks.MockCache
	uc        *usecase.PriceUseCase
}

func newPriceFixture(t *testing.T) *priceFixture {
	t.Helper()

	f := &priceFixture{
		txManager: mocks.NewMockTransactionManager(),
		bookRepo:  mocks.NewMockBookRepository(),
		priceRepo: mocks.NewMockPriceRepository(),
		idGen:     mocks.NewMockIDGenerator(),
		cache:     mocks.NewMockCache(),
	}
	f.uc = usecase.NewPriceUseCase(f.txManager, f.bookRepo, f.priceRepo, f.idGen, f.cache, nil, nil)

	if err := f.bookRepo.Create(context.Background(), &domain.Book{ID: "book-1", Title: "Software Development"}); err != nil {
		t.Fatalf("seed book failed: %v", err)
	}

	return f
}

func TestPriceUseCase_SetInitialPrice(t *testing.T) {
	f := newPriceFixture(t)
	ctx := context.Background()

	interval, err := f.uc.SetInitialPrice(ctx, usecase.SetInitialPriceInput{
		BookID:        "book-1",
		Price:         price("10.00"),
		EffectiveFrom: date("2023-01-01"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !interval.End.IsOpen() {
		t.Error("expected initial interval to be open")
	}
	if len(f.txManager.Txs) != 1 || !f.txManager.Txs[0].Committed {
		t.Error("expected exactly one committed transaction")
	}
}

func TestPriceUseCase_SetInitialPriceErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   usecase.SetInitialPriceInput
		seed    bool
		wantErr error
	}{
		{
			name: "unknown book",
			input: usecase.SetInitialPriceInput{
				BookID: "missing", Price: price("10.00"), EffectiveFrom: date("2023-01-01"),
			},
			wantErr: domain.ErrBookNotFound,
		},
		{
			name: "already priced",
			input: usecase.SetInitialPriceInput{
				BookID: "book-1", Price: price("12.00"), EffectiveFrom: date("2024-01-01"),
			},
			seed:    true,
			wantErr: domain.ErrPriceConflict,
		},
		{
			name: "non-positive price",
			input: usecase.SetInitialPriceInput{
				BookID: "book-1", Price: price("0"), EffectiveFrom: date("2023-01-01"),
			},
			wantErr: domain.ErrInvalidPrice,
		},
		{
			name: "missing timestamp",
			input: usecase.SetInitialPriceInput{
				BookID: "book-1", Price: price("10.00"),
			},
			wantErr: domain.ErrInvalidTimestamp,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newPriceFixture(t)
			ctx := context.Background()

			if tt.seed {
				if _, err := f.uc.SetInitialPrice(ctx, usecase.SetInitialPriceInput{
					BookID: "book-1", Price: price("10.00"), EffectiveFrom: date("2023-01-01"),
				}); err != nil {
					t.Fatalf("seed price failed: %v", err)
				}
			}

			_, err := f.uc.SetInitialPrice(ctx, tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestPriceUseCase_UpdatePriceRoundTrip(t *testing.T) {
	f := newPriceFixture(t)
	ctx := context.Background()

	if _, err := f.uc.SetInitialPrice(ctx, usecase.SetInitialPriceInput{
		BookID: "book-1", Price: price("10.00"), EffectiveFrom: date("2023-01-01"),
	}); err != nil {
		t.Fatalf("set initial price failed: %v", err)
	}

	opened, err := f.uc.UpdatePrice(ctx, usecase.UpdatePriceInput{
		BookID: "book-1", NewPrice: price("15.00"), EffectiveAt: date("2023-06-01"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !opened.Price.Equal(price("15.00")) {
		t.Errorf("expected opened price 15.00, got %s", opened.Price)
	}

	// priceAt(T) resolves to the new price, priceAt(T-eps) to the old one.
	at, err := f.uc.GetPriceAt(ctx, "book-1", date("2023-06-01"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !at.Price.Equal(price("15.00")) {
		t.Errorf("expected 15.00 at boundary, got %s", at.Price)
	}

	before, err := f.uc.GetPriceAt(ctx, "book-1", date("2023-06-01").Add(-time.Second))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !before.Price.Equal(price("10.00")) {
		t.Errorf("expected 10.00 just before boundary, got %s", before.Price)
	}

	history, err := f.uc.GetHistory(ctx, "book-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 intervals, got %d", len(history))
	}
	until, closed := history[0].End.At()
	if !closed || !until.Equal(date("2023-06-01")) {
		t.Error("expected first interval closed at 2023-06-01")
	}
	if !history[1].End.IsOpen() {
		t.Error("expected second interval open")
	}
}

func TestPriceUseCase_UpdatePriceErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   usecase.UpdatePriceInput
		priced  bool
		wantErr error
	}{
		{
			name: "never priced book",
			input: usecase.UpdatePriceInput{
				BookID: "book-1", NewPrice: price("15.00"), EffectiveAt: date("2023-06-01"),
			},
			wantErr: domain.ErrNoCurrentPrice,
		},
		{
			name: "unknown book",
			input: usecase.UpdatePriceInput{
				BookID: "missing", NewPrice: price("15.00"), EffectiveAt: date("2023-06-01"),
			},
			wantErr: domain.ErrBookNotFound,
		},
		{
			name: "back-dated before the open interval",
			input: usecase.UpdatePriceInput{
				BookID: "book-1", NewPrice: price("20.00"), EffectiveAt: date("2022-05-01"),
			},
			priced:  true,
			wantErr: domain.ErrPriceConflict,
		},
		{
			name: "negative price",
			input: usecase.UpdatePriceInput{
				BookID: "book-1", NewPrice: price("-1"), EffectiveAt: date("2023-06-01"),
			},
			priced:  true,
			wantErr: domain.ErrInvalidPrice,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newPriceFixture(t)
			ctx := context.Background()

			if tt.priced {
				if _, err := f.uc.SetInitialPrice(ctx, usecase.SetInitialPriceInput{
					BookID: "book-1", Price: price("10.00"), EffectiveFrom: date("2023-01-01"),
				}); err != nil {
					t.Fatalf("seed price failed: %v", err)
				}
			}

			_, err := f.uc.UpdatePrice(ctx, tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

// Two updates racing on the same book must end with exactly one success;
// the loser hits the conditional close and reports a conflict. Both
// writers are given the same pre-update snapshot, as if neither had seen
// the other's commit yet.
func TestPriceUseCase_ConcurrentUpdateOneWinner(t *testing.T) {
	f := newPriceFixture(t)
	ctx := context.Background()

	if _, err := f.uc.SetInitialPrice(ctx, usecase.SetInitialPriceInput{
		BookID: "book-1", Price: price("10.00"), EffectiveFrom: date("2023-01-01"),
	}); err != nil {
		t.Fatalf("seed price failed: %v", err)
	}

	snapshot, err := f.priceRepo.ListByBook(ctx, "book-1")
	if err != nil {
		t.Fatalf("snapshot failed: %v", err)
	}
	f.priceRepo.ListByBookForUpdateFunc = func(ctx context.Context, tx usecase.Transaction, bookID string) ([]domain.PriceInterval, error) {
		out := make([]domain.PriceInterval, len(snapshot))
		copy(out, snapshot)
		return out, nil
	}

	var wg sync.WaitGroup
	results := make(chan error, 2)

	for _, p := range []string{"15.00", "18.00"} {
		wg.Add(1)
		go func(newPrice string) {
			defer wg.Done()
			_, err := f.uc.UpdatePrice(ctx, usecase.UpdatePriceInput{
				BookID: "book-1", NewPrice: price(newPrice), EffectiveAt: date("2023-06-01"),
			})
			results <- err
		}(p)
	}

	wg.Wait()
	close(results)

	var successes, conflicts int
	for err := range results {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, domain.ErrPriceConflict):
			conflicts++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}

	if successes != 1 || conflicts != 1 {
		t.Errorf("expected 1 success and 1 conflict, got %d and %d", successes, conflicts)
	}

	// The store must still hold exactly one open interval.
	intervals, err := f.priceRepo.ListByBook(ctx, "book-1")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	open := 0
	for _, iv := range intervals {
		if iv.End.IsOpen() {
			open++
		}
	}
	if open != 1 {
		t.Errorf("expected exactly one open interval, got %d", open)
	}
}

func TestPriceUseCase_CurrentPriceUsesCache(t *testing.T) {
	f := newPriceFixture(t)
	ctx := context.Background()

	if _, err := f.uc.SetInitialPrice(ctx, usecase.SetInitialPriceInput{
		BookID: "book-1", Price: price("10.00"), EffectiveFrom: date("2023-01-01"),
	}); err != nil {
		t.Fatalf("seed price failed: %v", err)
	}

	snapshot, err := f.priceRepo.ListByBook(ctx, "book-1")
	if err != nil {
		t.Fatalf("snapshot failed: %v", err)
	}

	listCalls := 0
	f.priceRepo.ListByBookFunc = func(ctx context.Context, bookID string) ([]domain.PriceInterval, error) {
		listCalls++
		out := make([]domain.PriceInterval, len(snapshot))
		copy(out, snapshot)
		return out, nil
	}

	first, err := f.uc.GetCurrentPrice(ctx, "book-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second, err := f.uc.GetCurrentPrice(ctx, "book-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !first.Price.Equal(second.Price) || first.ID != second.ID {
		t.Error("cached current price differs from the stored one")
	}
	if listCalls != 1 {
		t.Errorf("expected 1 repository read, got %d", listCalls)
	}
}

func TestPriceUseCase_UpdateInvalidatesCachedCurrentPrice(t *testing.T) {
	f := newPriceFixture(t)
	ctx := context.Background()

	if _, err := f.uc.SetInitialPrice(ctx, usecase.SetInitialPriceInput{
		BookID: "book-1", Price: price("10.00"), EffectiveFrom: date("2023-01-01"),
	}); err != nil {
		t.Fatalf("seed price failed: %v", err)
	}

	if _, err := f.uc.GetCurrentPrice(ctx, "book-1"); err != nil {
		t.Fatalf("warm cache failed: %v", err)
	}
	if f.cache.Len() != 1 {
		t.Fatalf("expected cached current price, cache holds %d keys", f.cache.Len())
	}

	if _, err := f.uc.UpdatePrice(ctx, usecase.UpdatePriceInput{
		BookID: "book-1", NewPrice: price("15.00"), EffectiveAt: date("2023-06-01"),
	}); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	current, err := f.uc.GetCurrentPrice(ctx, "book-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !current.Price.Equal(price("15.00")) {
		t.Errorf("expected refreshed price 15.00, got %s", current.Price)
	}
}

func TestPriceUseCase_WriteGoesThroughRetrier(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	retrier := mocks.NewMockRetrier(ctrl)
	retrier.EXPECT().Retry(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, operation func() error) error {
			return operation()
		},
	)

	txManager := mocks.NewMockTransactionManager()
	bookRepo := mocks.NewMockBookRepository()
	priceRepo := mocks.NewMockPriceRepository()
	idGen := mocks.NewMockIDGenerator()

	if err := bookRepo.Create(context.Background(), &domain.Book{ID: "book-1"}); err != nil {
		t.Fatalf("seed book failed: %v", err)
	}

	uc := usecase.NewPriceUseCase(txManager, bookRepo, priceRepo, idGen, nil, retrier, nil)

	if _, err := uc.SetInitialPrice(context.Background(), usecase.SetInitialPriceInput{
		BookID: "book-1", Price: price("10.00"), EffectiveFrom: date("2023-01-01"),
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPriceUseCase_GetCurrentPriceNoHistory(t *testing.T) {
	f := newPriceFixture(t)

	_, err := f.uc.GetCurrentPrice(context.Background(), "book-1")
	if !errors.Is(err, domain.ErrNoCurrentPrice) {
		t.Errorf("expected ErrNoCurrentPrice, got %v", err)
	}
}

func TestPriceUseCase_GetHistoryEmpty(t *testing.T) {
	f := newPriceFixture(t)

	history, err := f.uc.GetHistory(context.Background(), "book-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(history) != 0 {
		t.Errorf("expected empty history, got %d intervals", len(history))
	}
}
