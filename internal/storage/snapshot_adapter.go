// File: internal/storage/snapshot_adapter.go
package storage

import (
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/decisiondeft/decision-deft/internal/domain"
	"github.com/decisiondeft/decision-deft/internal/services"
)

// SnapshotKey is the fixed key the conversation collection lives under.
const SnapshotKey = "decision-deft-conversations"

// snapshotRecord is one row of the key-value snapshot table.
type snapshotRecord struct {
	Key       string `gorm:"primaryKey;column:key"`
	Value     string `gorm:"column:value"`
	UpdatedAt time.Time
}

func (snapshotRecord) TableName() string { return "snapshots" }

type gormSnapshotAdapter struct {
	db     *gorm.DB
	logger services.Logger
}

// NewSnapshotAdapter creates an Adapter backed by a sqlite key-value table.
func NewSnapshotAdapter(db *gorm.DB, logger services.Logger) (Adapter, error) {
	if err := db.AutoMigrate(&snapshotRecord{}); err != nil {
		return nil, err
	}
	return &gormSnapshotAdapter{db: db, logger: logger}, nil
}

// Load reads the snapshot row and decodes it. A missing row or a payload
// that fails to parse is treated as "no data" rather than an error, so a
// tampered store can never take the application down.
func (a *gormSnapshotAdapter) Load() ([]domain.Conversation, error) {
	var rec snapshotRecord
	err := a.db.First(&rec, "key = ?", SnapshotKey).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return []domain.Conversation{}, nil
	}
	if err != nil {
		return nil, err
	}

	var collection []domain.Conversation
	if err := json.Unmarshal([]byte(rec.Value), &collection); err != nil {
		a.logger.Warn("stored conversations are unreadable, starting empty", "error", err.Error())
		return []domain.Conversation{}, nil
	}
	if collection == nil {
		collection = []domain.Conversation{}
	}
	return collection, nil
}

// Save upserts the full serialized collection. Last write wins.
func (a *gormSnapshotAdapter) Save(collection []domain.Conversation) error {
	if collection == nil {
		collection = []domain.Conversation{}
	}
	payload, err := json.Marshal(collection)
	if err != nil {
		return err
	}
	rec := snapshotRecord{Key: SnapshotKey, Value: string(payload)}
	return a.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&rec).Error
}

// Clear removes the snapshot row.
func (a *gormSnapshotAdapter) Clear() error {
	return a.db.Delete(&snapshotRecord{}, "key = ?", SnapshotKey).Error
}
