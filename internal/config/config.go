package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

type Config struct {
	LedgerDriver string // "postgres", "sqlite" or "memory"
	DatabaseURL  string // required for postgres
	SQLitePath   string // default "./data/tradebook.db"

	QuoteAPIKey  string // empty disables upstream price lookups
	QuoteBaseURL string
	QuoteTimeout time.Duration

	PriceCacheTTL    time.Duration // default 60s
	FetchConcurrency int           // default 1 (sequential)

	HTTPAddr       string // default ":8080"
	LogLevel       slog.Level
	ReportCurrency string // default "USD"
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		LedgerDriver:   strings.ToLower(getEnvDefault("LEDGER_DRIVER", DriverSQLite)),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		SQLitePath:     getEnvDefault("SQLITE_PATH", "./data/tradebook.db"),
		QuoteAPIKey:    os.Getenv("QUOTE_API_KEY"),
		QuoteBaseURL:   os.Getenv("QUOTE_BASE_URL"),
		HTTPAddr:       getEnvDefault("HTTP_ADDR", ":8080"),
		ReportCurrency: strings.ToUpper(getEnvDefault("REPORT_CURRENCY", "USD")),
	}

	var err error
	if cfg.QuoteTimeout, err = getDurationDefault("QUOTE_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.PriceCacheTTL, err = getDurationDefault("PRICE_CACHE_TTL", 60*time.Second); err != nil {
		return nil, err
	}
	if cfg.FetchConcurrency, err = getIntDefault("FETCH_CONCURRENCY", 1); err != nil {
		return nil, err
	}
	if err := cfg.LogLevel.UnmarshalText([]byte(getEnvDefault("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("LOG_LEVEL: %w", err)
	}

	switch cfg.LedgerDriver {
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required when LEDGER_DRIVER=postgres")
		}
	case DriverSQLite, DriverMemory:
	default:
		return nil, fmt.Errorf("LEDGER_DRIVER must be 'postgres', 'sqlite' or 'memory', got %q", cfg.LedgerDriver)
	}
	if cfg.PriceCacheTTL <= 0 {
		return nil, fmt.Errorf("PRICE_CACHE_TTL must be positive, got %s", cfg.PriceCacheTTL)
	}

	return cfg, nil
}

func getEnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getDurationDefault(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func getIntDefault(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}
