package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("TOS_GATEWAY_ADDR", "")
	t.Setenv("EXT_INSTANCE_ID", "")
	t.Setenv("CLAIMS_MAX_BYTES", "")
	t.Setenv("STORE_BACKEND", "")
	t.Setenv("KAFKA_BROKERS", "")

	cfg := FromEnv()

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, BackendMemory, cfg.StoreBackend)
	assert.Equal(t, "tos-acknowledgements", cfg.Claims.Namespace)
	assert.Equal(t, 1000, cfg.Claims.MaxBytes)
	assert.Equal(t, 5, cfg.Claims.MaxAttempts)
	assert.NotEmpty(t, cfg.JWT.SigningKey)
	assert.Nil(t, cfg.Kafka.Brokers)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("TOS_GATEWAY_ADDR", ":9090")
	t.Setenv("EXT_INSTANCE_ID", "tos-ext-prod")
	t.Setenv("CLAIMS_MAX_BYTES", "4096")
	t.Setenv("CLAIMS_MAX_ATTEMPTS", "not-a-number")
	t.Setenv("TERMS_CACHE_TTL", "30s")
	t.Setenv("STORE_BACKEND", "postgres")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")

	cfg := FromEnv()

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "tos-ext-prod", cfg.Claims.Namespace)
	assert.Equal(t, 4096, cfg.Claims.MaxBytes)
	assert.Equal(t, 5, cfg.Claims.MaxAttempts, "unparseable values fall back to defaults")
	assert.Equal(t, 30*time.Second, cfg.Terms.CacheTTL)
	assert.Equal(t, BackendPostgres, cfg.StoreBackend)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
}
