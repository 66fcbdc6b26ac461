// Package storage defines the book store used by the HTTP API and its
// default in-memory implementation.
package storage

import (
	"context"
	"errors"

	"book_registry/internal/models"
)

var ErrNotFound = errors.New("book not found")

// Store is the collection of books. Implementations assign ids from a
// counter that only grows, so a deleted id is never handed out again.
type Store interface {
	ListBooks(ctx context.Context) ([]models.Book, error)
	GetBook(ctx context.Context, id int64) (models.Book, error)
	// CreateBook ignores book.ID and returns the stored record.
	CreateBook(ctx context.Context, book models.Book) (models.Book, error)
	UpdateBook(ctx context.Context, id int64, patch models.BookPatch) (models.Book, error)
	DeleteBook(ctx context.Context, id int64) error
}
