package httpapi

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"book_registry/internal/storage"
)

// maxBodyBytes bounds request bodies read by the JSON handlers.
const maxBodyBytes = 2 << 20

const requestIDHeader = "X-Request-Id"

type Server struct {
	store storage.Store
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

type ctxKey struct{}

func New(store storage.Store) *Server {
	return &Server{store: store}
}

func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(handleNotFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(handleMethodNotAllowed)

	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet, http.MethodHead)

	r.HandleFunc("/books", s.handleListBooks).Methods(http.MethodGet, http.MethodHead)
	r.HandleFunc("/books", s.handleCreateBook).Methods(http.MethodPost)
	r.HandleFunc("/books/{id:[0-9]+}", s.handleGetBook).Methods(http.MethodGet, http.MethodHead)
	r.HandleFunc("/books/{id:[0-9]+}", s.handleUpdateBook).Methods(http.MethodPut)
	r.HandleFunc("/books/{id:[0-9]+}", s.handleDeleteBook).Methods(http.MethodDelete)

	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		id := req.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		req = req.WithContext(context.WithValue(req.Context(), ctxKey{}, id))
		r.ServeHTTP(rec, req)
		log.Printf("http %s %s -> %d id=%s dur=%s", req.Method, req.URL.Path, rec.status, id, time.Since(start).Round(time.Microsecond))
	})
}

func requestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func handleNotFound(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusNotFound, "Not found")
}

func handleMethodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeInternal hides backend failures from the client and logs the cause.
func writeInternal(w http.ResponseWriter, r *http.Request, op string, err error) {
	log.Printf("%s: id=%s err=%v", op, requestID(r.Context()), err)
	writeError(w, http.StatusInternalServerError, "internal error")
}
