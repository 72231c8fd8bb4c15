package models

import "time"

// StoredSnapshot is the persisted store slot, one row per namespace key
type StoredSnapshot struct {
	Key       string    `gorm:"primaryKey;type:varchar(255)" json:"key"`
	Version   int       `gorm:"not null;default:1" json:"version"`
	Payload   string    `gorm:"type:text" json:"payload"` // JSON envelope
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (StoredSnapshot) TableName() string {
	return "snapshots"
}
