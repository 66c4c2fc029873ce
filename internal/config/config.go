package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/simaogato/stockwise-backend/internal/domain"
)

// Storage drivers
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// maxYearsLimit bounds MAX_YEARS; longer horizons overflow the integer series
const maxYearsLimit = 150

// Config holds application configuration
type Config struct {
	GRPCAddr string
	HTTPAddr string

	StorageDriver string
	DBConnStr     string

	RedisAddr string
	CacheTTL  time.Duration
	CacheSize int

	// HistoryLimit caps the simulations kept by the memory storage driver
	HistoryLimit int

	APIToken  string
	JWTSecret string

	PostsURL        string
	NewsFeeds       []string
	RefreshSchedule string

	MaxYears      int
	DefaultLocale domain.Locale
	LogLevel      logrus.Level
}

// NewConfig loads configuration from environment variables
func NewConfig() (*Config, error) {
	cfg := &Config{
		GRPCAddr:        getEnv("GRPC_ADDR", ":8080"),
		HTTPAddr:        getEnv("HTTP_ADDR", ":8081"),
		StorageDriver:   strings.ToLower(getEnv("STORAGE_DRIVER", StoragePostgres)),
		DBConnStr:       dbConnStr(),
		RedisAddr:       getEnv("REDIS_ADDR", ""),
		APIToken:        getEnv("API_TOKEN", "dev-token"),
		JWTSecret:       getEnv("JWT_SECRET", "dev-secret"),
		PostsURL:        getEnv("POSTS_URL", ""),
		NewsFeeds:       splitList(getEnv("NEWS_FEEDS", "")),
		RefreshSchedule: getEnv("REFRESH_SCHEDULE", "@every 30m"),
	}

	var err error
	if cfg.CacheTTL, err = time.ParseDuration(getEnv("CACHE_TTL", "1h")); err != nil {
		return nil, fmt.Errorf("invalid CACHE_TTL: %w", err)
	}

	if cfg.CacheSize, err = strconv.Atoi(getEnv("CACHE_SIZE", "10000")); err != nil {
		return nil, fmt.Errorf("invalid CACHE_SIZE: %w", err)
	}

	if cfg.HistoryLimit, err = strconv.Atoi(getEnv("HISTORY_LIMIT", "1000")); err != nil {
		return nil, fmt.Errorf("invalid HISTORY_LIMIT: %w", err)
	}

	if cfg.MaxYears, err = strconv.Atoi(getEnv("MAX_YEARS", strconv.Itoa(domain.DefaultMaxYears))); err != nil {
		return nil, fmt.Errorf("invalid MAX_YEARS: %w", err)
	}

	locale := getEnv("DEFAULT_LOCALE", string(domain.LocaleEnglish))
	cfg.DefaultLocale = domain.ParseLocale(locale, "")
	if cfg.DefaultLocale == "" {
		return nil, fmt.Errorf("unsupported DEFAULT_LOCALE %q", locale)
	}

	if cfg.LogLevel, err = logrus.ParseLevel(getEnv("LOG_LEVEL", "info")); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.StorageDriver {
	case StoragePostgres, StorageMemory:
	default:
		return fmt.Errorf("STORAGE_DRIVER must be %q or %q, got %q", StoragePostgres, StorageMemory, c.StorageDriver)
	}

	if c.MaxYears <= 0 || c.MaxYears > maxYearsLimit {
		return fmt.Errorf("MAX_YEARS must be between 1 and %d, got %d", maxYearsLimit, c.MaxYears)
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("CACHE_TTL cannot be negative")
	}
	if c.CacheSize <= 0 {
		return fmt.Errorf("CACHE_SIZE must be positive, got %d", c.CacheSize)
	}
	if c.HistoryLimit <= 0 {
		return fmt.Errorf("HISTORY_LIMIT must be positive, got %d", c.HistoryLimit)
	}
	if c.APIToken == "" {
		return fmt.Errorf("API_TOKEN is required")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.RefreshSchedule == "" {
		return fmt.Errorf("REFRESH_SCHEDULE is required")
	}
	return nil
}

// dbConnStr uses DB_CONN_STR if set, otherwise builds it from the individual DB_* variables
func dbConnStr() string {
	if connStr := getEnv("DB_CONN_STR", ""); connStr != "" {
		return connStr
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		getEnv("DB_HOST", "localhost"),
		getEnv("DB_PORT", "5432"),
		getEnv("DB_USER", "postgres"),
		getEnv("DB_PASSWORD", "postgres"),
		getEnv("DB_NAME", "stockwise"),
	)
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}
