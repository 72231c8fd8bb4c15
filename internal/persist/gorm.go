package persist

import (
	"context"
	"errors"
	"fmt"

	"whatsapp-dashboard/internal/models"

	"gorm.io/gorm"
)

// GormStore keeps the snapshot in the snapshots table, one row per key
type GormStore struct {
	db  *gorm.DB
	key string
}

func NewGormStore(db *gorm.DB, key string) *GormStore {
	return &GormStore{db: db, key: key}
}

func (s *GormStore) Load(ctx context.Context) ([]byte, error) {
	var row models.StoredSnapshot
	err := s.db.WithContext(ctx).Where(&models.StoredSnapshot{Key: s.key}).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading snapshot %s: %w", s.key, err)
	}
	return []byte(row.Payload), nil
}

func (s *GormStore) Save(ctx context.Context, payload []byte) error {
	row := models.StoredSnapshot{
		Key:     s.key,
		Version: CurrentVersion,
		Payload: string(payload),
	}
	// Upsert on the primary key
	if err := s.db.WithContext(ctx).Save(&row).Error; err != nil {
		return fmt.Errorf("saving snapshot %s: %w", s.key, err)
	}
	return nil
}
