package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"book_registry/internal/config"
	"book_registry/internal/db"
	"book_registry/internal/httpapi"
	"book_registry/internal/network"
	"book_registry/internal/storage"
)

func main() {
	// 1. Configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	log.Println("=== BOOK REGISTRY STARTING ===")

	// 2. Store (memory or in-memory SQLite)
	store, closeStore, err := openStore(cfg.StoreBackend)
	if err != nil {
		log.Fatalf("store: %v", err)
	}
	defer closeStore()
	log.Printf("store: %s", cfg.StoreBackend)

	// 3. Listener and HTTP API
	ln, err := network.Listen(cfg.HTTPAddr, cfg.MaxConns)
	if err != nil {
		log.Fatalf("listen: %v", err)
	}

	api := httpapi.New(store)
	server := &http.Server{
		Handler:           api.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("HTTP API listening on %s (max_conns=%d)", ln.Addr(), cfg.MaxConns)
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("HTTP API: %v", err)
		}
	}()

	// 4. Wait for Ctrl+C or SIGTERM, then drain in-flight requests.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Println("shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
		return
	}
	log.Println("server stopped")
}

// openStore returns the configured backend and its release function.
func openStore(backend string) (storage.Store, func(), error) {
	switch backend {
	case config.BackendSQLite:
		s, err := db.Open(db.MemoryDSN)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { _ = s.Close() }, nil
	default:
		return storage.NewMemoryStore(), func() {}, nil
	}
}
