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

// BookService defines the behavior needed by BookHandler.
type BookService interface {
	CreateBook(ctx context.Context, input usecase.CreateBookInput) (*domain.Book, error)
	GetBook(ctx context.Context, id string) (*domain.Book, error)
	ListBooks(ctx context.Context, input usecase.ListBooksInput) ([]*domain.Book, error)
}

// BookHandler handles catalog HTTP requests.
type BookHandler struct {
	bookUC BookService
}

// NewBookHandler creates a new BookHandler.
func NewBookHandler(bookUC BookService) *BookHandler {
	return &BookHandler{bookUC: bookUC}
}

// Create creates a new book.
func (h *BookHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateBookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	book, err := h.bookUC.CreateBook(r.Context(), req.ToUseCaseInput())
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to create book", err.Error())

		return
	}

	writeJSON(w, http.StatusCreated, dto.BookFromDomain(book))
}

// Get retrieves a book by ID.
func (h *BookHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing book ID", "")
		return
	}

	book, err := h.bookUC.GetBook(r.Context(), id)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to get book", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.BookFromDomain(book))
}

// List lists books.
func (h *BookHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := parseIntQuery(r, "limit", 20)
	offset := parseIntQuery(r, "offset", 0)

	books, err := h.bookUC.ListBooks(r.Context(), usecase.ListBooksInput{
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list books", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ListBooksResponse{
		Books: dto.BooksFromDomain(books),
		Total: int64(len(books)),
	})
}
