package storage_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"book_registry/internal/models"
	"book_registry/internal/storage"
	"book_registry/internal/storage/storetest"
)

func TestMemoryStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) storage.Store {
		return storage.NewMemoryStore()
	})
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := storage.NewMemoryStore()

	created, err := s.CreateBook(ctx, models.Book{Title: "Emma", Author: "Austen", Year: models.IntPtr(1815)})
	require.NoError(t, err)
	*created.Year = 2000

	got, err := s.GetBook(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, 1815, *got.Year)

	books, err := s.ListBooks(ctx)
	require.NoError(t, err)
	books[0].Title = "changed"

	got, err = s.GetBook(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "Emma", got.Title)
}
