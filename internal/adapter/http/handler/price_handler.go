package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/iho/bookstore/internal/adapter/http/dto"
	"github.com/iho/bookstore/internal/domain"
	"github.com/iho/bookstore/internal/usecase"
)

// PriceService defines the behavior needed by PriceHandler.
type PriceService interface {
	SetInitialPrice(ctx context.Context, input usecase.SetInitialPriceInput) (*domain.PriceInterval, error)
	UpdatePrice(ctx context.Context, input usecase.UpdatePriceInput) (*domain.PriceInterval, error)
	GetCurrentPrice(ctx context.Context, bookID string) (*domain.PriceInterval, error)
	GetPriceAt(ctx context.Context, bookID string, at time.Time) (*domain.PriceInterval, error)
	GetHistory(ctx context.Context, bookID string) ([]domain.PriceInterval, error)
}

// PriceHandler handles price ledger HTTP requests.
type PriceHandler struct {
	priceUC PriceService
}

// NewPriceHandler creates a new PriceHandler.
func NewPriceHandler(priceUC PriceService) *PriceHandler {
	return &PriceHandler{priceUC: priceUC}
}

// SetInitial records a book's first price.
func (h *PriceHandler) SetInitial(w http.ResponseWriter, r *http.Request) {
	bookID := chi.URLParam(r, "id")
	if bookID == "" {
		writeError(w, http.StatusBadRequest, "missing book ID", "")
		return
	}

	var req dto.SetPriceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput(bookID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid price", err.Error())
		return
	}

	interval, err := h.priceUC.SetInitialPrice(r.Context(), input)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to set price", err.Error())

		return
	}

	writeJSON(w, http.StatusCreated, dto.PriceIntervalFromDomain(interval))
}

// Update changes a book's price from a given instant.
func (h *PriceHandler) Update(w http.ResponseWriter, r *http.Request) {
	bookID := chi.URLParam(r, "id")
	if bookID == "" {
		writeError(w, http.StatusBadRequest, "missing book ID", "")
		return
	}

	var req dto.UpdatePriceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput(bookID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid price", err.Error())
		return
	}

	interval, err := h.priceUC.UpdatePrice(r.Context(), input)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to update price", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.PriceIntervalFromDomain(interval))
}

// Current returns the book's currently effective price.
func (h *PriceHandler) Current(w http.ResponseWriter, r *http.Request) {
	bookID := chi.URLParam(r, "id")
	if bookID == "" {
		writeError(w, http.StatusBadRequest, "missing book ID", "")
		return
	}

	interval, err := h.priceUC.GetCurrentPrice(r.Context(), bookID)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to get current price", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.PriceIntervalFromDomain(interval))
}

// At returns the price effective at the instant in the "at" query
// parameter, RFC 3339.
func (h *PriceHandler) At(w http.ResponseWriter, r *http.Request) {
	bookID := chi.URLParam(r, "id")
	if bookID == "" {
		writeError(w, http.StatusBadRequest, "missing book ID", "")
		return
	}

	raw := r.URL.Query().Get("at")
	if raw == "" {
		writeError(w, http.StatusBadRequest, "missing at parameter", "")
		return
	}

	at, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid at parameter", err.Error())
		return
	}

	interval, err := h.priceUC.GetPriceAt(r.Context(), bookID, at)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to get price", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.PriceIntervalFromDomain(interval))
}

// History returns the book's full price history.
func (h *PriceHandler) History(w http.ResponseWriter, r *http.Request) {
	bookID := chi.URLParam(r, "id")
	if bookID == "" {
		writeError(w, http.StatusBadRequest, "missing book ID", "")
		return
	}

	intervals, err := h.priceUC.GetHistory(r.Context(), bookID)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to get price history", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.PriceHistoryResponse{
		BookID:    bookID,
		Intervals: dto.PriceIntervalsFromDomain(intervals),
	})
}
