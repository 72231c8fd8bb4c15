package database

import (
	"fmt"
	"log"

	"whatsapp-dashboard/internal/config"
	"whatsapp-dashboard/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// PostgresDSN builds the connection string from the DB_* settings
func PostgresDSN(cfg *config.Config) string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort, cfg.DBSSLMode)
}

// OpenSQLite opens (or creates) the sqlite file at path and migrates the snapshot table.
func OpenSQLite(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to sqlite at %s: %w", path, err)
	}
	log.Printf("Connected to SQLite at %s", path)
	return db, migrate(db)
}

// OpenPostgres connects using the DB_* settings and migrates the snapshot table.
func OpenPostgres(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(PostgresDSN(cfg)), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	log.Println("Connected to PostgreSQL successfully")
	return db, migrate(db)
}

// Open picks the driver from STORE_BACKEND
func Open(cfg *config.Config) (*gorm.DB, error) {
	switch cfg.StoreBackend {
	case config.BackendPostgres:
		return OpenPostgres(cfg)
	case config.BackendSQLite:
		return OpenSQLite(cfg.DBPath)
	default:
		return nil, fmt.Errorf("store backend %q is not a SQL backend", cfg.StoreBackend)
	}
}

func migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.StoredSnapshot{}); err != nil {
		return fmt.Errorf("running auto-migration: %w", err)
	}
	log.Println("Database migration completed")
	return nil
}
