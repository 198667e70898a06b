package config

import (
	"os"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
)

const (
	CatalogStatic = "static"
	CatalogMongo  = "mongo"
)

// DefaultSlotLockTTL bounds how long a booking attempt holds its slot lock.
const DefaultSlotLockTTL = 30 * time.Second

type Config struct {
	HTTPAddr           string
	DatabaseURL        string
	MongoURI           string
	MongoDB            string
	RedisAddr          string
	RabbitURL          string
	OTLPEndpoint       string
	CatalogBackend     string
	CatalogCacheTTL    time.Duration
	SlotLockTTL        time.Duration
	PendingBookingTTL  time.Duration
	SweepInterval      time.Duration
	RateLimitPerMinute int
	IdempotencyTTL     time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		HTTPAddr:       getenv("HTTP_ADDR", ":8080"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		MongoURI:       os.Getenv("MONGO_URI"),
		MongoDB:        getenv("MONGO_DB", "arenalink"),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		RabbitURL:      os.Getenv("RABBIT_URL"),
		OTLPEndpoint:   os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		CatalogBackend: getenv("CATALOG_BACKEND", CatalogStatic),
	}

	var err error
	if cfg.CatalogCacheTTL, err = duration("CATALOG_CACHE_TTL", time.Minute); err != nil {
		return nil, err
	}
	if cfg.SlotLockTTL, err = duration("SLOT_LOCK_TTL", DefaultSlotLockTTL); err != nil {
		return nil, err
	}
	if cfg.PendingBookingTTL, err = duration("PENDING_BOOKING_TTL", 15*time.Minute); err != nil {
		return nil, err
	}
	if cfg.SweepInterval, err = duration("SWEEP_INTERVAL", time.Minute); err != nil {
		return nil, err
	}
	if cfg.IdempotencyTTL, err = duration("IDEMPOTENCY_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.RateLimitPerMinute, err = integer("RATE_LIMIT_PER_MINUTE", 100); err != nil {
		return nil, err
	}

	switch cfg.CatalogBackend {
	case CatalogStatic:
	case CatalogMongo:
		if cfg.MongoURI == "" {
			return nil, errors.New("CATALOG_BACKEND=mongo requires MONGO_URI")
		}
	default:
		return nil, errors.Newf("unknown CATALOG_BACKEND %q", cfg.CatalogBackend)
	}

	return cfg, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func duration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, errors.Wrapf(err, "parse %s", key)
	}
	if d <= 0 {
		return 0, errors.Newf("%s must be positive, got %s", key, v)
	}
	return d, nil
}

func integer(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, errors.Wrapf(err, "parse %s", key)
	}
	if n <= 0 {
		return 0, errors.Newf("%s must be positive, got %d", key, n)
	}
	return n, nil
}
