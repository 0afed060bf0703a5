package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Config is the full service configuration, loaded from the environment.
type Config struct {
	ListenAddr string

	// DatabaseURL selects the postgres store; empty means in-memory.
	DatabaseURL string

	// KafkaBrokers selects the kafka publisher; empty means events are dropped.
	KafkaBrokers []string
	KafkaTopic   string

	JWTSecret string
	TokenTTL  time.Duration

	// WithdrawLimit is the per-transaction withdrawal ceiling.
	WithdrawLimit decimal.Decimal

	// MaxAttempts bounds the optimistic retry loop.
	MaxAttempts int
}

// Load reads configuration from a .env file (if present) and the environment.
func Load() (Config, error) {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := Config{
		ListenAddr:    getEnv("LISTEN_ADDR", ":8080"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		KafkaTopic:    getEnv("KAFKA_TOPIC", "transaction_completed"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		TokenTTL:      time.Hour,
		WithdrawLimit: decimal.NewFromInt(50000),
		MaxAttempts:   3,
	}

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}

	if raw := os.Getenv("TOKEN_TTL"); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil {
			return Config{}, fmt.Errorf("invalid TOKEN_TTL %q: %w", raw, err)
		}
		cfg.TokenTTL = ttl
	}

	if raw := os.Getenv("WITHDRAW_LIMIT"); raw != "" {
		limit, err := decimal.NewFromString(raw)
		if err != nil {
			return Config{}, fmt.Errorf("invalid WITHDRAW_LIMIT %q: %w", raw, err)
		}
		cfg.WithdrawLimit = limit
	}

	if raw := os.Getenv("MAX_ATTEMPTS"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return Config{}, fmt.Errorf("invalid MAX_ATTEMPTS %q", raw)
		}
		cfg.MaxAttempts = n
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
