package persist

import (
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"

	"whatsapp-dashboard/internal/config"
	"whatsapp-dashboard/internal/database"
)

// Open returns the persister selected by cfg.StoreBackend and a func that
// releases its connection.
func Open(cfg *config.Config) (Persister, func() error, error) {
	switch cfg.StoreBackend {
	case config.BackendMemory:
		log.Println("Using in-memory snapshot store; state is lost on restart")
		return NewMemoryStore(), func() error { return nil }, nil

	case config.BackendRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		log.Printf("Using Redis snapshot store at %s", cfg.RedisAddr)
		return NewRedisStore(rdb, cfg.StoreKey, cfg.RedisTTL), rdb.Close, nil

	case config.BackendSQLite, config.BackendPostgres:
		db, err := database.Open(cfg)
		if err != nil {
			return nil, nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, nil, fmt.Errorf("getting sql handle: %w", err)
		}
		return NewGormStore(db, cfg.StoreKey), sqlDB.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
}
