package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig_Defaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "STORE_BACKEND", "STORE_KEY", "SEED_ON_EMPTY", "DB_PATH",
		"REDIS_DB", "REDIS_TTL_SECONDS", "SIMULATED_DELAY_SCALE", "WARMER_INTERVAL_SECONDS",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg := LoadConfig()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, BackendSQLite, cfg.StoreBackend)
	assert.Equal(t, DefaultStoreKey, cfg.StoreKey)
	assert.Equal(t, "./dashboard.db", cfg.DBPath)
	assert.True(t, cfg.SeedOnEmpty)
	assert.Equal(t, 0, cfg.RedisDB)
	assert.Equal(t, time.Duration(0), cfg.RedisTTL)
	assert.Equal(t, 1.0, cfg.SimulatedDelayScale)
	assert.Equal(t, 10*time.Second, cfg.WarmerInterval)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("STORE_BACKEND", BackendRedis)
	t.Setenv("STORE_KEY", "custom-key")
	t.Setenv("SEED_ON_EMPTY", "false")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("REDIS_TTL_SECONDS", "60")
	t.Setenv("SIMULATED_DELAY_SCALE", "0")
	t.Setenv("WARMER_INTERVAL_SECONDS", "2")
	t.Setenv("RANDOM_SEED", "42")

	cfg := LoadConfig()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, BackendRedis, cfg.StoreBackend)
	assert.Equal(t, "custom-key", cfg.StoreKey)
	assert.False(t, cfg.SeedOnEmpty)
	assert.Equal(t, "redis:6379", cfg.RedisAddr)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, time.Minute, cfg.RedisTTL)
	assert.Equal(t, 0.0, cfg.SimulatedDelayScale)
	assert.Equal(t, 2*time.Second, cfg.WarmerInterval)
	assert.Equal(t, uint64(42), cfg.RandomSeed)
}

func TestLoadConfig_InvalidNumbersFallBack(t *testing.T) {
	t.Setenv("REDIS_DB", "not-a-number")
	t.Setenv("SIMULATED_DELAY_SCALE", "-1")
	t.Setenv("SEED_ON_EMPTY", "maybe")

	cfg := LoadConfig()

	assert.Equal(t, 0, cfg.RedisDB)
	assert.Equal(t, 1.0, cfg.SimulatedDelayScale)
	assert.True(t, cfg.SeedOnEmpty)
}
