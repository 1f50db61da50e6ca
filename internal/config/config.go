package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultOrderTopic     = "orders"
	defaultOutboxInterval = 5 * time.Second
	defaultLockTTL        = 10 * time.Second
	defaultCORSOrigin     = "http://localhost:3000"
)

type Config struct {
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
	AppPort    string
	AppEnv     string
	SecretKey  string
	CORSOrigin string

	// InternalSecretKey lets trusted services act for any user; empty disables it.
	InternalSecretKey string

	// RedisAddr enables the per-user checkout lock when set.
	RedisAddr       string
	CheckoutLockTTL time.Duration

	// KafkaBrokers enables the outbox relay when non-empty.
	KafkaBrokers    []string
	KafkaOrderTopic string
	OutboxInterval  time.Duration
}

func LoadConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		DBHost:            os.Getenv("DB_HOST"),
		DBUser:            os.Getenv("DB_USER"),
		DBPassword:        os.Getenv("DB_PASSWORD"),
		DBName:            os.Getenv("DB_NAME"),
		DBPort:            os.Getenv("DB_PORT"),
		AppPort:           envOr("APP_PORT", "8080"),
		AppEnv:            os.Getenv("APP_ENV"),
		SecretKey:         os.Getenv("SECRET_KEY"),
		CORSOrigin:        envOr("CORS_ORIGIN", defaultCORSOrigin),
		InternalSecretKey: os.Getenv("INTERNAL_SECRET_KEY"),
		RedisAddr:         os.Getenv("REDIS_ADDR"),
		CheckoutLockTTL:   durationOr("CHECKOUT_LOCK_TTL", defaultLockTTL),
		KafkaBrokers:      splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaOrderTopic:   envOr("KAFKA_ORDER_TOPIC", defaultOrderTopic),
		OutboxInterval:    durationOr("OUTBOX_INTERVAL", defaultOutboxInterval),
	}

	if cfg.DBHost == "" {
		log.Fatal("Environment variables not loaded properly")
	}

	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationOr(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		log.Printf("invalid %s=%q, using %s", key, v, fallback)
		return fallback
	}
	return d
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
