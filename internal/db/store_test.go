package db

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"book_registry/internal/models"
	"book_registry/internal/storage"
	"book_registry/internal/storage/storetest"
)

func TestStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) storage.Store {
		s, err := Open(MemoryDSN)
		require.NoError(t, err)
		t.Cleanup(func() { _ = s.Close() })
		return s
	})
}

func TestOpenEmptyDSN(t *testing.T) {
	_, err := Open("")
	require.Error(t, err)
}

func TestOpenIsolated(t *testing.T) {
	a, err := Open(MemoryDSN)
	require.NoError(t, err)
	defer a.Close()
	b, err := Open(MemoryDSN)
	require.NoError(t, err)
	defer b.Close()

	_, err = a.CreateBook(context.Background(), models.Book{Title: "only in a", Author: "x"})
	require.NoError(t, err)

	books, err := b.ListBooks(context.Background())
	require.NoError(t, err)
	require.Empty(t, books)
}

func TestCloseNil(t *testing.T) {
	var s *Store
	require.NoError(t, s.Close())
}

func TestStoreSurvivesCancelledContexts(t *testing.T) {
	s, err := Open(MemoryDSN)
	require.NoError(t, err)
	defer s.Close()

	created, err := s.CreateBook(context.Background(), models.Book{Title: "Dune", Author: "Herbert"})
	require.NoError(t, err)

	// Contexts that expire before, during or just after the call, like a
	// client hanging up mid-request.
	for i := 0; i < 500; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), time.Duration(i%50)*time.Microsecond)
		if i%2 == 0 {
			_, _ = s.UpdateBook(ctx, created.ID, models.BookPatch{YearSet: true, Year: models.IntPtr(i)})
		} else {
			_, _ = s.ListBooks(ctx)
		}
		cancel()
	}

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = s.UpdateBook(cancelled, created.ID, models.BookPatch{YearSet: true, Year: models.IntPtr(2024)})
	require.NoError(t, err)

	books, err := s.ListBooks(context.Background())
	require.NoError(t, err)
	require.Len(t, books, 1)
	require.Equal(t, "Dune", books[0].Title)
	require.Equal(t, 2024, *books[0].Year)

	next, err := s.CreateBook(context.Background(), models.Book{Title: "Emma", Author: "Austen"})
	require.NoError(t, err)
	require.Equal(t, created.ID+1, next.ID)
}
