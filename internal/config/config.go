package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port     string
	LogLevel string

	DatabaseURL string
	DBLogLevel  string

	JWTSecret string
	JWTTTL    time.Duration

	OrderTxTimeout time.Duration

	// Empty RedisAddr disables the report cache.
	RedisAddr      string
	ReportCacheTTL time.Duration

	// Empty KafkaBrokers disables event publishing to Kafka.
	KafkaBrokers []string
	KafkaTopic   string
}

func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Notice: .env file not found, using system environment")
	}

	return Config{
		Port:           getenv("PORT", "3000"),
		LogLevel:       getenv("LOG_LEVEL", "info"),
		DatabaseURL:    databaseURL(),
		DBLogLevel:     getenv("DB_LOG_LEVEL", "warn"),
		JWTSecret:      getenv("JWT_SECRET", "change-me-in-production"),
		JWTTTL:         getduration("JWT_TTL", 24*time.Hour),
		OrderTxTimeout: getduration("ORDER_TX_TIMEOUT", 5*time.Second),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		ReportCacheTTL: getduration("REPORT_CACHE_TTL", 10*time.Minute),
		KafkaBrokers:   splitCSV(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:     getenv("KAFKA_TOPIC", "pos-events"),
	}
}

// databaseURL prefers DATABASE_URL and falls back to the DB_* parts.
func databaseURL() string {
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		return dsn
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		getenv("DB_HOST", "localhost"),
		getenv("DB_USER", "postgres"),
		os.Getenv("DB_PASSWORD"),
		getenv("DB_NAME", "coffee_pos"),
		getenv("DB_PORT", "5432"),
	)
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getduration(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		log.Printf("Warning: invalid %s=%q, using %s", k, v, def)
		return def
	}
	return d
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
