package storage

import (
	"context"
	"sync"

	"book_registry/internal/models"
)

// MemoryStore keeps books in insertion order in a slice.
type MemoryStore struct {
	mu     sync.RWMutex
	books  []models.Book
	nextID int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		books:  []models.Book{},
		nextID: 1,
	}
}

func (s *MemoryStore) ListBooks(_ context.Context) ([]models.Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Book, len(s.books))
	for i, b := range s.books {
		out[i] = clone(b)
	}
	return out, nil
}

func (s *MemoryStore) GetBook(_ context.Context, id int64) (models.Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.find(id)
	if i < 0 {
		return models.Book{}, ErrNotFound
	}
	return clone(s.books[i]), nil
}

func (s *MemoryStore) CreateBook(_ context.Context, book models.Book) (models.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	book = clone(book)
	book.ID = s.nextID
	s.nextID++
	s.books = append(s.books, book)
	return clone(book), nil
}

func (s *MemoryStore) UpdateBook(_ context.Context, id int64, patch models.BookPatch) (models.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.find(id)
	if i < 0 {
		return models.Book{}, ErrNotFound
	}
	patch.Apply(&s.books[i])
	return clone(s.books[i]), nil
}

func (s *MemoryStore) DeleteBook(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.find(id)
	if i < 0 {
		return ErrNotFound
	}
	s.books = append(s.books[:i], s.books[i+1:]...)
	return nil
}

// find does a linear scan; callers hold the lock.
func (s *MemoryStore) find(id int64) int {
	for i := range s.books {
		if s.books[i].ID == id {
			return i
		}
	}
	return -1
}

// clone detaches the year pointer so callers can't mutate stored records.
func clone(b models.Book) models.Book {
	if b.Year != nil {
		y := *b.Year
		b.Year = &y
	}
	return b
}
