package config

import (
	"errors"
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage backends for the printable quiz tab storage.
const (
	StorageSQLite = "sqlite"
	StorageRedis  = "redis"
	StorageMemory = "memory"
)

type Config struct {
	Addr                string
	DBPath              string
	LogLevel            string
	PDFServiceURL       string
	PDFServiceTimeout   time.Duration
	PublicOrigin        string
	WatermarkPath       string
	AssetsDir           string
	StorageBackend      string
	RedisAddr           string
	RedisPassword       string
	RedisDB             int
	TabStorageTTL       time.Duration
	PurgeInterval       time.Duration
	SessionTTL          time.Duration
	WorkerCount         int
	QueueSize           int
	QuestionsPerSession int
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:                envOr("ADDR", ":8080"),
		DBPath:              envOr("DB_PATH", "file:eduplay.db"),
		LogLevel:            envOr("LOG_LEVEL", "INFO"),
		PDFServiceURL:       envOr("PDF_SERVICE_URL", "http://127.0.0.1:8000"),
		PDFServiceTimeout:   envDurationOr("PDF_SERVICE_TIMEOUT", 0),
		PublicOrigin:        envOr("PUBLIC_ORIGIN", ""),
		WatermarkPath:       envOr("WATERMARK_PATH", "/assets/logo1.png"),
		AssetsDir:           envOr("ASSETS_DIR", ""),
		StorageBackend:      strings.ToLower(envOr("STORAGE_BACKEND", StorageSQLite)),
		RedisAddr:           envOr("REDIS_ADDR", "localhost:6379"),
		RedisPassword:       envOr("REDIS_PASSWORD", ""),
		RedisDB:             envIntOr("REDIS_DB", 0),
		TabStorageTTL:       envDurationOr("TAB_STORAGE_TTL", 12*time.Hour),
		PurgeInterval:       envDurationOr("PURGE_INTERVAL", 15*time.Minute),
		SessionTTL:          envDurationOr("SESSION_TTL", 2*time.Hour),
		WorkerCount:         envIntOr("WORKER_COUNT", 1),
		QueueSize:           envIntOr("QUEUE_SIZE", 8),
		QuestionsPerSession: envIntOr("QUESTIONS_PER_SESSION", 5),
	}
}

// Validate checks the configuration and returns every problem found.
func (c Config) Validate() error {
	var errs []error

	if c.Addr == "" {
		errs = append(errs, errors.New("ADDR cannot be empty"))
	}
	if c.StorageBackend == StorageSQLite && c.DBPath == "" {
		errs = append(errs, errors.New("DB_PATH cannot be empty"))
	}
	if u, err := url.Parse(c.PDFServiceURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("PDF_SERVICE_URL must be an absolute URL, got %q", c.PDFServiceURL))
	}
	if c.PDFServiceTimeout < 0 {
		errs = append(errs, errors.New("PDF_SERVICE_TIMEOUT cannot be negative"))
	}
	if c.PublicOrigin != "" {
		if u, err := url.Parse(c.PublicOrigin); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Errorf("PUBLIC_ORIGIN must be an absolute URL, got %q", c.PublicOrigin))
		}
	}
	switch c.StorageBackend {
	case StorageSQLite, StorageMemory:
	case StorageRedis:
		if c.RedisAddr == "" {
			errs = append(errs, errors.New("REDIS_ADDR cannot be empty when STORAGE_BACKEND=redis"))
		}
	default:
		errs = append(errs, fmt.Errorf("STORAGE_BACKEND must be one of sqlite, redis, memory, got %q", c.StorageBackend))
	}
	if c.TabStorageTTL <= 0 {
		errs = append(errs, errors.New("TAB_STORAGE_TTL must be positive"))
	}
	if c.PurgeInterval <= 0 {
		errs = append(errs, errors.New("PURGE_INTERVAL must be positive"))
	}
	if c.SessionTTL <= 0 {
		errs = append(errs, errors.New("SESSION_TTL must be positive"))
	}
	if c.WorkerCount < 1 {
		errs = append(errs, errors.New("WORKER_COUNT must be at least 1"))
	}
	if c.QueueSize < 1 {
		errs = append(errs, errors.New("QUEUE_SIZE must be at least 1"))
	}
	if c.QuestionsPerSession < 1 || c.QuestionsPerSession > 50 {
		errs = append(errs, fmt.Errorf("QUESTIONS_PER_SESSION must be between 1 and 50, got %d", c.QuestionsPerSession))
	}

	return errors.Join(errs...)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}

func envDurationOr(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		log.Printf("invalid value for %s=%q, using default %s", key, v, def)
	}
	return def
}
