package dto

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/bookstore/internal/domain"
)

func TestPriceIntervalFromDomainOpenEnd(t *testing.T) {
	interval := &domain.PriceInterval{
		ID:            "price-1",
		BookID:        "book-1",
		Price:         decimal.RequireFromString("12.50"),
		EffectiveFrom: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		End:           domain.OpenEnd(),
	}

	resp := PriceIntervalFromDomain(interval)

	if resp.EffectiveUntil != nil {
		t.Fatalf("expected nil effective_until for open interval, got %v", resp.EffectiveUntil)
	}

	raw, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	if !strings.Contains(string(raw), `"effective_until":null`) {
		t.Fatalf("expected null effective_until in JSON, got %s", raw)
	}
}

func TestPriceIntervalFromDomainClosedEnd(t *testing.T) {
	until := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)
	interval := &domain.PriceInterval{
		ID:            "price-1",
		BookID:        "book-1",
		Price:         decimal.RequireFromString("10.00"),
		EffectiveFrom: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		End:           domain.ClosedEnd(until),
	}

	resp := PriceIntervalFromDomain(interval)

	if resp.EffectiveUntil == nil || !resp.EffectiveUntil.Equal(until) {
		t.Fatalf("expected effective_until %v, got %v", until, resp.EffectiveUntil)
	}
}

func TestPriceIntervalsFromDomainPreservesOrder(t *testing.T) {
	intervals := []domain.PriceInterval{
		{ID: "price-1", End: domain.ClosedEnd(time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC))},
		{ID: "price-2", End: domain.OpenEnd()},
	}

	result := PriceIntervalsFromDomain(intervals)
	if len(result) != 2 {
		t.Fatalf("expected 2 responses, got %d", len(result))
	}

	if result[0].ID != "price-1" || result[1].ID != "price-2" {
		t.Fatalf("expected order preserved, got %s, %s", result[0].ID, result[1].ID)
	}
}
