package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr           string
	Environment    string
	RequestTimeout time.Duration
	StoreBackend   string

	JWT      JWT
	Claims   Claims
	Terms    Terms
	Database Database
	Redis    Redis
	Kafka    Kafka
}

// JWT configures verification of caller tokens.
type JWT struct {
	SigningKey    string
	IssuerBaseURL string
	Audience      string
	TokenTTL      time.Duration
}

// Claims configures the per-user acknowledgement ledger.
type Claims struct {
	// Namespace is the claims key that owns the acknowledgement set.
	Namespace   string
	MaxBytes    int
	MaxAttempts int
}

type Terms struct {
	CacheTTL time.Duration
}

type Database struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type Redis struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type Kafka struct {
	Brokers    []string
	AuditTopic string
}

const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Use a default for development - should be overridden in production
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	return Server{
		Addr:           envString("TOS_GATEWAY_ADDR", ":8080"),
		Environment:    envString("TOS_ENV", "dev"),
		RequestTimeout: envDuration("REQUEST_TIMEOUT", 10*time.Second),
		StoreBackend:   envString("STORE_BACKEND", BackendMemory),
		JWT: JWT{
			SigningKey:    jwtSigningKey,
			IssuerBaseURL: envString("JWT_ISSUER_BASE_URL", "http://localhost:8080"),
			Audience:      envString("JWT_AUDIENCE", "tosgate"),
			TokenTTL:      envDuration("TOKEN_TTL", 15*time.Minute),
		},
		Claims: Claims{
			Namespace:   envString("EXT_INSTANCE_ID", "tos-acknowledgements"),
			MaxBytes:    envInt("CLAIMS_MAX_BYTES", 1000),
			MaxAttempts: envInt("CLAIMS_MAX_ATTEMPTS", 5),
		},
		Terms: Terms{
			CacheTTL: envDuration("TERMS_CACHE_TTL", time.Minute),
		},
		Database: Database{
			URL:             os.Getenv("DATABASE_URL"),
			MaxOpenConns:    envInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    envInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: envDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		Redis: Redis{
			URL:          envString("REDIS_URL", "redis://localhost:6379/0"),
			PoolSize:     envInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Kafka: Kafka{
			Brokers:    envList("KAFKA_BROKERS"),
			AuditTopic: envString("AUDIT_TOPIC", "tosgate.audit"),
		},
	}
}

func envString(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envList(key string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
