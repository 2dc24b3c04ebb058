package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// Session store drivers.
const (
	StoreMemory   = "memory"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
)

type Config struct {
	Addr           string
	BackendURL     string
	BackendTimeout time.Duration
	JWTSecret      string
	SessionTTL     time.Duration

	StoreDriver   string
	DatabaseURL   string
	MigrationsDir string
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	KafkaBrokers []string
	KafkaTopic   string

	CORSOrigins string
	LogLevel    string
}

func Load() Config {
	return Config{
		Addr:           getenv("PORTAL_ADDR", ":8080"),
		BackendURL:     getenv("BACKEND_URL", "https://pharmachain-backend-production-6ecf.up.railway.app"),
		BackendTimeout: duration("BACKEND_TIMEOUT", 15*time.Second),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		SessionTTL:     duration("SESSION_TTL", 72*time.Hour),

		StoreDriver:   strings.ToLower(getenv("STORE_DRIVER", StoreMemory)),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		MigrationsDir: getenv("MIGRATIONS_DIR", "migrations"),
		RedisAddr:     getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       integer("REDIS_DB", 0),

		KafkaBrokers: list("KAFKA_BROKERS"),
		KafkaTopic:   getenv("KAFKA_TOPIC", "pharmachain.checkout"),

		CORSOrigins: getenv("CORS_ORIGINS", "*"),
		LogLevel:    strings.ToLower(getenv("LOG_LEVEL", "info")),
	}
}

// Validate reports settings the portal cannot start without.
func (c Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is not set")
	}
	switch c.StoreDriver {
	case StoreMemory, StoreRedis:
	case StorePostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is not set")
		}
	default:
		return errors.New("STORE_DRIVER must be memory, redis or postgres")
	}
	return nil
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func duration(key string, def time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil && d > 0 {
		return d
	}
	return def
}

func integer(key string, def int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return n
	}
	return def
}

func list(key string) []string {
	var out []string
	for _, s := range strings.Split(os.Getenv(key), ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
