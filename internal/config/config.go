package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
)

// Config holds the settings of the service.
type Config struct {
	HTTPAddr        string
	StoreBackend    string
	MaxConns        int
	ShutdownTimeout time.Duration
}

// Load reads an optional .env file and fills Config from the environment.
func Load() (*Config, error) {
	// 1. Pull variables from .env into the process environment.
	// A missing file is fine: in containers the variables come from the environment.
	if err := godotenv.Load(); err != nil {
		log.Println("config: .env not found, using process environment")
	}

	// 2. Read and validate the variables.
	return FromEnv(os.Getenv)
}

// FromEnv builds Config from a lookup function, so tests don't touch the process env.
func FromEnv(getenv func(string) string) (*Config, error) {
	// 1. Store backend
	backend := strings.ToLower(withDefault(getenv("STORE_BACKEND"), BackendMemory))
	if backend != BackendMemory && backend != BackendSQLite {
		return nil, fmt.Errorf("STORE_BACKEND must be %q or %q, got %q", BackendMemory, BackendSQLite, backend)
	}

	// 2. Listener limits and shutdown bound
	maxConns, err := strconv.Atoi(withDefault(getenv("MAX_CONNS"), "0"))
	if err != nil || maxConns < 0 {
		return nil, fmt.Errorf("MAX_CONNS must be a non-negative integer, got %q", getenv("MAX_CONNS"))
	}

	timeout, err := time.ParseDuration(withDefault(getenv("SHUTDOWN_TIMEOUT"), "10s"))
	if err != nil {
		return nil, fmt.Errorf("SHUTDOWN_TIMEOUT: %w", err)
	}
	if timeout <= 0 {
		return nil, fmt.Errorf("SHUTDOWN_TIMEOUT must be positive, got %s", timeout)
	}

	// 3. Assemble the config
	return &Config{
		HTTPAddr:        withDefault(getenv("HTTP_ADDR"), ":5001"),
		StoreBackend:    backend,
		MaxConns:        maxConns,
		ShutdownTimeout: timeout,
	}, nil
}

func withDefault(value string, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return strings.TrimSpace(value)
}
