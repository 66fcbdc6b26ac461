package httpapi

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"book_registry/internal/storage"
)

const msgBookNotFound = "Book not found"

// bookID parses the {id} route variable. The route pattern only admits
// digits, so the only failure left is an overflow, which can't match a book.
func bookID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// GET /books
func (s *Server) handleListBooks(w http.ResponseWriter, r *http.Request) {
	books, err := s.store.ListBooks(r.Context())
	if err != nil {
		writeInternal(w, r, "list books", err)
		return
	}
	writeJSON(w, http.StatusOK, books)
}

// GET /books/{id}
func (s *Server) handleGetBook(w http.ResponseWriter, r *http.Request) {
	id, ok := bookID(r)
	if !ok {
		writeError(w, http.StatusNotFound, msgBookNotFound)
		return
	}

	book, err := s.store.GetBook(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, msgBookNotFound)
		return
	}
	if err != nil {
		writeInternal(w, r, "get book", err)
		return
	}
	writeJSON(w, http.StatusOK, book)
}

// POST /books
func (s *Server) handleCreateBook(w http.ResponseWriter, r *http.Request) {
	if !requireJSON(w, r) {
		return
	}
	fields, ok := decodeBody(w, r)
	if !ok {
		return
	}

	in, err := parseNewBook(fields)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	book, err := s.store.CreateBook(r.Context(), in)
	if err != nil {
		writeInternal(w, r, "create book", err)
		return
	}
	log.Printf("books: created %s", book)
	writeJSON(w, http.StatusCreated, book)
}

// PUT /books/{id}
// Content type first, then the lookup, then the body: a garbled body for a
// missing book is still a 404.
func (s *Server) handleUpdateBook(w http.ResponseWriter, r *http.Request) {
	if !requireJSON(w, r) {
		return
	}

	id, ok := bookID(r)
	if !ok {
		writeError(w, http.StatusNotFound, msgBookNotFound)
		return
	}

	_, err := s.store.GetBook(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, msgBookNotFound)
		return
	}
	if err != nil {
		writeInternal(w, r, "update book", err)
		return
	}

	fields, ok := decodeBody(w, r)
	if !ok {
		return
	}

	patch, err := parsePatch(fields)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	// The book may have been deleted since the lookup.
	book, err := s.store.UpdateBook(r.Context(), id, patch)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, msgBookNotFound)
		return
	}
	if err != nil {
		writeInternal(w, r, "update book", err)
		return
	}
	writeJSON(w, http.StatusOK, book)
}

// DELETE /books/{id}
func (s *Server) handleDeleteBook(w http.ResponseWriter, r *http.Request) {
	id, ok := bookID(r)
	if !ok {
		writeError(w, http.StatusNotFound, msgBookNotFound)
		return
	}

	err := s.store.DeleteBook(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, msgBookNotFound)
		return
	}
	if err != nil {
		writeInternal(w, r, "delete book", err)
		return
	}
	log.Printf("books: deleted #%d", id)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Book deleted"})
}
