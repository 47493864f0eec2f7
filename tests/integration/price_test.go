package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	adaptershttp "github.com/iho/bookstore/internal/adapter/http"
	"github.com/iho/bookstore/internal/adapter/http/dto"
	"github.com/iho/bookstore/internal/adapter/http/handler"
	"github.com/iho/bookstore/internal/adapter/repository/postgres"
	"github.com/iho/bookstore/internal/domain"
	"github.com/iho/bookstore/internal/usecase"
	"github.com/iho/bookstore/tests/testutil"
)

func newPriceUseCase(pool *testutil.TestDB) *usecase.PriceUseCase {
	txManager := postgres.NewTxManager(pool.Pool)
	bookRepo := postgres.NewBookRepository(pool.Pool)
	priceRepo := postgres.NewPriceRepository(pool.Pool)
	idGen := postgres.NewULIDGenerator()
	retrier := postgres.NewRetrier()

	return usecase.NewPriceUseCase(txManager, bookRepo, priceRepo, idGen, nil, retrier, nil)
}

func newPriceRouter(testDB *testutil.TestDB) http.Handler {
	bookRepo := postgres.NewBookRepository(testDB.Pool)
	idGen := postgres.NewULIDGenerator()

	bookUC := usecase.NewBookUseCase(bookRepo, idGen, nil)
	priceUC := newPriceUseCase(testDB)
	revenueUC := usecase.NewRevenueUseCase(bookRepo, postgres.NewPriceRepository(testDB.Pool), nil)

	return adaptershttp.NewRouter(adaptershttp.RouterConfig{
		BookHandler:    handler.NewBookHandler(bookUC),
		PriceHandler:   handler.NewPriceHandler(priceUC),
		RevenueHandler: handler.NewRevenueHandler(revenueUC),
		HealthHandler:  &handler.HealthHandler{},
		Logger:         zerolog.Nop(),
	})
}

func TestPriceLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()

	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()

	testDB.TruncateAll(ctx)

	router := newPriceRouter(testDB)

	book := testDB.CreateTestBook(ctx, "The Go Programming Language", "Donovan", "0134190440")

	t.Run("set initial price", func(t *testing.T) {
		body, _ := json.Marshal(dto.SetPriceRequest{
			Price:         "12.50",
			EffectiveFrom: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		})

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/books/"+book.ID+"/price", bytes.NewReader(body))
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}

		var resp dto.PriceIntervalResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}

		if resp.EffectiveUntil != nil {
			t.Fatalf("expected open interval, got until %v", resp.EffectiveUntil)
		}
	})

	t.Run("second initial price is a conflict", func(t *testing.T) {
		body, _ := json.Marshal(dto.SetPriceRequest{
			Price:         "13.00",
			EffectiveFrom: time.Date(2023, 2, 1, 0, 0, 0, 0, time.UTC),
		})

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/books/"+book.ID+"/price", bytes.NewReader(body))
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
	})

	t.Run("update closes predecessor at the new boundary", func(t *testing.T) {
		body, _ := json.Marshal(dto.UpdatePriceRequest{
			NewPrice:    "15.00",
			EffectiveAt: time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC),
		})

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPut, "/api/v1/books/"+book.ID+"/price", bytes.NewReader(body))
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}

		histRec := httptest.NewRecorder()
		histReq := httptest.NewRequest(http.MethodGet, "/api/v1/books/"+book.ID+"/prices", nil)
		router.ServeHTTP(histRec, histReq)

		var hist dto.PriceHistoryResponse
		if err := json.Unmarshal(histRec.Body.Bytes(), &hist); err != nil {
			t.Fatalf("failed to decode history: %v", err)
		}

		if len(hist.Intervals) != 2 {
			t.Fatalf("expected 2 intervals, got %d", len(hist.Intervals))
		}

		boundary := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)
		if hist.Intervals[0].EffectiveUntil == nil || !hist.Intervals[0].EffectiveUntil.Equal(boundary) {
			t.Fatalf("expected first interval closed at %v, got %+v", boundary, hist.Intervals[0])
		}

		if hist.Intervals[1].EffectiveUntil != nil {
			t.Fatalf("expected second interval open, got %+v", hist.Intervals[1])
		}
	})

	t.Run("point lookups", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/books/"+book.ID+"/prices/at?at=2023-02-01T00:00:00Z", nil)
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}

		var resp dto.PriceIntervalResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}

		if !resp.Price.Equal(decimal.RequireFromString("12.50")) {
			t.Fatalf("expected 12.50 before the update boundary, got %s", resp.Price)
		}

		curRec := httptest.NewRecorder()
		curReq := httptest.NewRequest(http.MethodGet, "/api/v1/books/"+book.ID+"/prices/current", nil)
		router.ServeHTTP(curRec, curReq)

		var current dto.PriceIntervalResponse
		if err := json.Unmarshal(curRec.Body.Bytes(), &current); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}

		if !current.Price.Equal(decimal.RequireFromString("15.00")) {
			t.Fatalf("expected current price 15.00, got %s", current.Price)
		}
	})

	t.Run("lookup before first price is 404", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/books/"+book.ID+"/prices/at?at=2020-01-01T00:00:00Z", nil)
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestConcurrentPriceUpdatesOneWinner(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()

	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()

	testDB.TruncateAll(ctx)

	book := testDB.CreateTestBook(ctx, "Concurrent Pricing", "Author", "0134190440")
	testDB.CreateTestPrice(ctx, book.ID, decimal.RequireFromString("10.00"), time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), nil)

	uc := newPriceUseCase(testDB)

	const workers = 4

	var wg sync.WaitGroup
	results := make(chan error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()

			_, err := uc.UpdatePrice(ctx, usecase.UpdatePriceInput{
				BookID:      book.ID,
				NewPrice:    decimal.NewFromInt(int64(20 + n)),
				EffectiveAt: time.Date(2023, 6, 1, 0, 0, 0, int(time.Duration(n) * time.Millisecond), time.UTC),
			})
			results <- err
		}(i)
	}

	wg.Wait()
	close(results)

	// Row locks serialize the updates; each one lands on the latest open
	// interval, so all may succeed but the ledger must stay consistent.
	failures := 0
	for err := range results {
		if err != nil && !errors.Is(err, domain.ErrPriceConflict) {
			t.Fatalf("unexpected error: %v", err)
		}
		if err != nil {
			failures++
		}
	}

	history, err := uc.GetHistory(ctx, book.ID)
	if err != nil {
		t.Fatalf("failed to load history: %v", err)
	}

	open := 0
	for _, interval := range history {
		if interval.End.IsOpen() {
			open++
		}
	}

	if open != 1 {
		t.Fatalf("expected exactly one open interval, got %d (history %d entries, %d conflicts)", open, len(history), failures)
	}
}
