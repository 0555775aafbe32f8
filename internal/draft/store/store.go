// Package store is the local persistence layer for the draft engine:
// a two-key record table holding JSON blobs, the server-side analogue
// of the browser's key-value storage. Consumers treat every error and
// unparsable payload as "record absent".
package store

import (
	"context"
	"errors"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Record keys for the two persisted documents.
const (
	DraftKey       = "draft_invoice_v1"
	PreferencesKey = "preferences_v1"
)

// Record is one persisted JSON document.
type Record struct {
	Key       string         `gorm:"primaryKey;column:key"`
	Value     datatypes.JSON `gorm:"not null"`
	UpdatedAt time.Time      `gorm:"not null"`
}

// TableName sets the database table name.
func (Record) TableName() string { return "draft_records" }

type Params struct {
	fx.In

	DB  *gorm.DB
	Log *zap.Logger
}

// Store reads and writes persisted records.
type Store struct {
	db  *gorm.DB
	log *zap.Logger
}

func New(p Params) (*Store, error) {
	if err := p.DB.AutoMigrate(&Record{}); err != nil {
		return nil, err
	}
	return &Store{
		db:  p.DB,
		log: p.Log.Named("draft.store"),
	}, nil
}

// Get returns the stored payload for key. The second return is false
// when no record exists.
func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var rec Record
	err := s.db.WithContext(ctx).First(&rec, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return []byte(rec.Value), true, nil
}

// Put upserts the payload under key.
func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	rec := Record{
		Key:       key,
		Value:     datatypes.JSON(value),
		UpdatedAt: time.Now().UTC(),
	}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&rec).Error
}
