package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Store backends
const (
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
	BackendMemory   = "memory"
)

// DefaultStoreKey is the namespace key of the persisted snapshot slot
const DefaultStoreKey = "whatsapp-display-jabar-store"

type Config struct {
	Port         string
	StoreBackend string
	StoreKey     string
	SeedOnEmpty  bool

	DBPath     string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisTTL      time.Duration

	// SimulatedDelayScale multiplies every simulated backend delay; 0 disables them.
	SimulatedDelayScale float64
	WarmerInterval      time.Duration
	RandomSeed          uint64
}

func LoadConfig() *Config {
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: Error loading .env file")
	}

	return &Config{
		Port:                getEnv("PORT", "8080"),
		StoreBackend:        getEnv("STORE_BACKEND", BackendSQLite),
		StoreKey:            getEnv("STORE_KEY", DefaultStoreKey),
		SeedOnEmpty:         getEnvBool("SEED_ON_EMPTY", true),
		DBPath:              getEnv("DB_PATH", "./dashboard.db"),
		DBHost:              getEnv("DB_HOST", "localhost"),
		DBPort:              getEnv("DB_PORT", "5432"),
		DBUser:              getEnv("DB_USER", "postgres"),
		DBPassword:          getEnv("DB_PASSWORD", ""),
		DBName:              getEnv("DB_NAME", "whatsapp_dashboard"),
		DBSSLMode:           getEnv("DB_SSLMODE", "disable"),
		RedisAddr:           getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:       getEnv("REDIS_PASSWORD", ""),
		RedisDB:             getEnvInt("REDIS_DB", 0),
		RedisTTL:            time.Duration(getEnvInt("REDIS_TTL_SECONDS", 0)) * time.Second,
		SimulatedDelayScale: getEnvFloat("SIMULATED_DELAY_SCALE", 1),
		WarmerInterval:      time.Duration(getEnvInt("WARMER_INTERVAL_SECONDS", 10)) * time.Second,
		RandomSeed:          uint64(getEnvInt("RANDOM_SEED", int(time.Now().UnixNano()%1_000_000_007))),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("Warning: invalid int for %s=%q, using %d", key, v, fallback)
		return fallback
	}
	return i
}

func getEnvFloat(key string, fallback float64) float64 {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f < 0 {
		log.Printf("Warning: invalid number for %s=%q, using %v", key, v, fallback)
		return fallback
	}
	return f
}

func getEnvBool(key string, fallback bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("Warning: invalid bool for %s=%q, using %v", key, v, fallback)
		return fallback
	}
	return b
}
