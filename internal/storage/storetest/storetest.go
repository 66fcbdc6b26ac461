// Package storetest holds behaviour checks shared by every storage.Store
// implementation.
package storetest

import (
	"context"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"book_registry/internal/models"
	"book_registry/internal/storage"
)

// Run exercises a fresh store returned by newStore in every subtest.
func Run(t *testing.T, newStore func(t *testing.T) storage.Store) {
	t.Helper()

	t.Run("empty list", func(t *testing.T) {
		books, err := newStore(t).ListBooks(context.Background())
		require.NoError(t, err)
		require.NotNil(t, books)
		require.Empty(t, books)
	})

	t.Run("create assigns increasing ids", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)

		var last int64
		for _, title := range []string{"1984", "Dune", "Emma"} {
			b, err := s.CreateBook(ctx, models.Book{ID: 99, Title: title, Author: "someone"})
			require.NoError(t, err)
			require.Greater(t, b.ID, last)
			last = b.ID
		}
		require.Equal(t, int64(3), last)
	})

	t.Run("get after create", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)

		created, err := s.CreateBook(ctx, models.Book{Title: "1984", Author: "Orwell", Year: models.IntPtr(1949)})
		require.NoError(t, err)

		got, err := s.GetBook(ctx, created.ID)
		require.NoError(t, err)
		want := models.Book{ID: 1, Title: "1984", Author: "Orwell", Year: models.IntPtr(1949)}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("GetBook mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("get missing", func(t *testing.T) {
		_, err := newStore(t).GetBook(context.Background(), 42)
		require.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("list keeps insertion order", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)

		for _, title := range []string{"c", "a", "b"} {
			_, err := s.CreateBook(ctx, models.Book{Title: title, Author: "x"})
			require.NoError(t, err)
		}

		books, err := s.ListBooks(ctx)
		require.NoError(t, err)
		require.Len(t, books, 3)
		require.Equal(t, []string{"c", "a", "b"}, []string{books[0].Title, books[1].Title, books[2].Title})
	})

	t.Run("update year only", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)

		created, err := s.CreateBook(ctx, models.Book{Title: "Dune", Author: "Herbert", Read: true})
		require.NoError(t, err)

		updated, err := s.UpdateBook(ctx, created.ID, models.BookPatch{YearSet: true, Year: models.IntPtr(1999)})
		require.NoError(t, err)
		want := models.Book{ID: created.ID, Title: "Dune", Author: "Herbert", Year: models.IntPtr(1999), Read: true}
		if diff := cmp.Diff(want, updated); diff != "" {
			t.Fatalf("UpdateBook mismatch (-want +got):\n%s", diff)
		}

		got, err := s.GetBook(ctx, created.ID)
		require.NoError(t, err)
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("GetBook after update mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("update accepts empty title", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)

		created, err := s.CreateBook(ctx, models.Book{Title: "Dune", Author: "Herbert"})
		require.NoError(t, err)

		empty := ""
		updated, err := s.UpdateBook(ctx, created.ID, models.BookPatch{Title: &empty})
		require.NoError(t, err)
		require.Equal(t, "", updated.Title)
		require.Equal(t, "Herbert", updated.Author)
	})

	t.Run("update missing", func(t *testing.T) {
		_, err := newStore(t).UpdateBook(context.Background(), 7, models.BookPatch{})
		require.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("delete does not reuse ids", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)

		first, err := s.CreateBook(ctx, models.Book{Title: "a", Author: "x"})
		require.NoError(t, err)
		second, err := s.CreateBook(ctx, models.Book{Title: "b", Author: "x"})
		require.NoError(t, err)

		require.NoError(t, s.DeleteBook(ctx, second.ID))
		_, err = s.GetBook(ctx, second.ID)
		require.ErrorIs(t, err, storage.ErrNotFound)
		require.ErrorIs(t, s.DeleteBook(ctx, second.ID), storage.ErrNotFound)

		third, err := s.CreateBook(ctx, models.Book{Title: "c", Author: "x"})
		require.NoError(t, err)
		require.Greater(t, third.ID, second.ID)

		books, err := s.ListBooks(ctx)
		require.NoError(t, err)
		require.Len(t, books, 2)
		require.Equal(t, first.ID, books[0].ID)
		require.Equal(t, third.ID, books[1].ID)
	})

	t.Run("concurrent creates get distinct ids", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)

		const n = 50
		ids := make(chan int64, n)
		var wg sync.WaitGroup
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				b, err := s.CreateBook(ctx, models.Book{Title: "t", Author: "a"})
				if err != nil {
					t.Errorf("CreateBook: %v", err)
					return
				}
				ids <- b.ID
			}()
		}
		wg.Wait()
		close(ids)

		seen := map[int64]bool{}
		for id := range ids {
			require.False(t, seen[id], "duplicate id %d", id)
			seen[id] = true
		}
		require.Len(t, seen, n)
	})
}
