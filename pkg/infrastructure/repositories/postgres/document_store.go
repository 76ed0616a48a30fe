// Package postgres stores per-user snapshot documents in PostgreSQL through gorm
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/vsinha/bakeshop/pkg/domain/repositories"
	"github.com/vsinha/bakeshop/pkg/domain/state"
)

// Document is the row holding one owner's snapshot
type Document struct {
	OwnerID   string `gorm:"primaryKey;size:191"`
	Body      string `gorm:"type:jsonb;not null"`
	UpdatedAt time.Time
}

// TableName keeps the table name stable
func (Document) TableName() string {
	return "snapshot_documents"
}

// Open connects to dsn and migrates the documents table
func Open(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	if err := db.AutoMigrate(&Document{}); err != nil {
		return nil, fmt.Errorf("failed to migrate snapshot documents: %w", err)
	}
	return db, nil
}

// DocumentStore is a repositories.DocumentStore over gorm
type DocumentStore struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewDocumentStore(db *gorm.DB, logger *zap.Logger) *DocumentStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DocumentStore{db: db, logger: logger}
}

var _ repositories.DocumentStore = (*DocumentStore)(nil)

func (s *DocumentStore) LoadDocument(ctx context.Context, ownerID string) (*state.Snapshot, error) {
	var doc Document
	err := s.db.WithContext(ctx).Where("owner_id = ?", ownerID).First(&doc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repositories.ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot of %s: %w", ownerID, err)
	}

	var snapshot state.Snapshot
	if err := json.Unmarshal([]byte(doc.Body), &snapshot); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot of %s: %w", ownerID, err)
	}
	return &snapshot, nil
}

func (s *DocumentStore) SaveDocument(ctx context.Context, ownerID string, snapshot *state.Snapshot) error {
	body, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot of %s: %w", ownerID, err)
	}

	doc := Document{OwnerID: ownerID, Body: string(body), UpdatedAt: time.Now().UTC()}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "owner_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"body", "updated_at"}),
	}).Create(&doc).Error
	if err != nil {
		return fmt.Errorf("failed to save snapshot of %s: %w", ownerID, err)
	}

	s.logger.Debug("snapshot saved", zap.String("owner", ownerID), zap.Int("bytes", len(body)))
	return nil
}
