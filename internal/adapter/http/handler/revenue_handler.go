package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/bookstore/internal/adapter/http/dto"
	"github.com/iho/bookstore/internal/domain"
	"github.com/iho/bookstore/internal/usecase"
)

// RevenueService defines the behavior needed by RevenueHandler.
type RevenueService interface {
	ComputeRevenue(ctx context.Context, bookID string, events []domain.SaleEvent) (*usecase.RevenueReport, error)
}

// RevenueHandler handles revenue reconciliation HTTP requests.
type RevenueHandler struct {
	revenueUC RevenueService
}

// NewRevenueHandler creates a new RevenueHandler.
func NewRevenueHandler(revenueUC RevenueService) *RevenueHandler {
	return &RevenueHandler{revenueUC: revenueUC}
}

// Compute reconciles the submitted sale events against the book's
// price history.
func (h *RevenueHandler) Compute(w http.ResponseWriter, r *http.Request) {
	bookID := chi.URLParam(r, "id")
	if bookID == "" {
		writeError(w, http.StatusBadRequest, "missing book ID", "")
		return
	}

	var req dto.ComputeRevenueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	report, err := h.revenueUC.ComputeRevenue(r.Context(), bookID, req.ToDomainEvents())
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to compute revenue", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.RevenueReportFromUseCase(report))
}
