package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"book_registry/internal/models"
	"book_registry/internal/storage"
)

// MemoryDSN opens a private in-memory database. It lives as long as its
// single connection, which the pool is pinned to.
const MemoryDSN = ":memory:"

// Store is a storage.Store backed by SQLite.
type Store struct {
	db *sql.DB
}

var _ storage.Store = (*Store)(nil)

func Open(dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("empty sqlite dsn")
	}

	// 1. One connection for the whole process: a :memory: database
	// belongs to the connection that created it.
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	// 2. Pragmas, then the schema.
	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, err
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func applyPragmas(db *sql.DB) error {
	pragma := []string{
		"PRAGMA foreign_keys = ON;",
		"PRAGMA busy_timeout = 5000;",
	}

	for _, stmt := range pragma {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("pragma: %w", err)
		}
	}
	return nil
}

func migrate(db *sql.DB) error {
	// AUTOINCREMENT keeps ids of deleted rows from being reused.
	schema := `
CREATE TABLE IF NOT EXISTS books (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL,
	author TEXT NOT NULL,
	year INTEGER,
	is_read INTEGER NOT NULL DEFAULT 0
);
`

	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBook(row rowScanner) (models.Book, error) {
	var (
		b    models.Book
		year sql.NullInt64
	)
	if err := row.Scan(&b.ID, &b.Title, &b.Author, &year, &b.Read); err != nil {
		return models.Book{}, err
	}
	if year.Valid {
		b.Year = models.IntPtr(int(year.Int64))
	}
	return b, nil
}

func yearArg(year *int) any {
	if year == nil {
		return nil
	}
	return int64(*year)
}

// detach drops cancellation from ctx. An interrupted statement can make
// database/sql discard the connection, and with it the in-memory database.
func detach(ctx context.Context) context.Context {
	return context.WithoutCancel(ctx)
}

func (s *Store) ListBooks(ctx context.Context) ([]models.Book, error) {
	ctx = detach(ctx)
	rows, err := s.db.QueryContext(ctx, `
SELECT id, title, author, year, is_read
FROM books
ORDER BY id
`)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	defer rows.Close()

	books := []models.Book{}
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("scan book: %w", err)
		}
		books = append(books, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list books rows: %w", err)
	}
	return books, nil
}

func (s *Store) GetBook(ctx context.Context, id int64) (models.Book, error) {
	return getBook(detach(ctx), s.db, id)
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func getBook(ctx context.Context, q querier, id int64) (models.Book, error) {
	b, err := scanBook(q.QueryRowContext(ctx, `
SELECT id, title, author, year, is_read
FROM books
WHERE id = ?
`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Book{}, storage.ErrNotFound
		}
		return models.Book{}, fmt.Errorf("get book %d: %w", id, err)
	}
	return b, nil
}

func (s *Store) CreateBook(ctx context.Context, book models.Book) (models.Book, error) {
	ctx = detach(ctx)
	res, err := s.db.ExecContext(ctx, `
INSERT INTO books (title, author, year, is_read)
VALUES (?, ?, ?, ?)
`, book.Title, book.Author, yearArg(book.Year), book.Read)
	if err != nil {
		return models.Book{}, fmt.Errorf("insert book: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return models.Book{}, fmt.Errorf("insert book id: %w", err)
	}
	book.ID = id
	return book, nil
}

func (s *Store) UpdateBook(ctx context.Context, id int64, patch models.BookPatch) (models.Book, error) {
	ctx = detach(ctx)
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Book{}, fmt.Errorf("begin update: %w", err)
	}
	defer tx.Rollback()

	b, err := getBook(ctx, tx, id)
	if err != nil {
		return models.Book{}, err
	}
	patch.Apply(&b)

	_, err = tx.ExecContext(ctx, `
UPDATE books
SET title = ?, author = ?, year = ?, is_read = ?
WHERE id = ?
`, b.Title, b.Author, yearArg(b.Year), b.Read, id)
	if err != nil {
		return models.Book{}, fmt.Errorf("update book %d: %w", id, err)
	}

	if err := tx.Commit(); err != nil {
		return models.Book{}, fmt.Errorf("commit update: %w", err)
	}
	return b, nil
}

func (s *Store) DeleteBook(ctx context.Context, id int64) error {
	ctx = detach(ctx)
	res, err := s.db.ExecContext(ctx, `DELETE FROM books WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete book %d: %w", id, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete book %d: %w", id, err)
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}
