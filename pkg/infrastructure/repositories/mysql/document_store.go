// Package mysql stores snapshot documents in a MySQL table, one row per owner
package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"go.uber.org/zap"

	"github.com/vsinha/bakeshop/pkg/domain/repositories"
	"github.com/vsinha/bakeshop/pkg/domain/state"
)

const createTable = `CREATE TABLE IF NOT EXISTS snapshots (
	owner_id   VARCHAR(191) NOT NULL PRIMARY KEY,
	document   LONGTEXT     NOT NULL,
	updated_at DATETIME(6)  NOT NULL
)`

const maxAttempts = 3

// DocumentStore is a repositories.DocumentStore over database/sql
type DocumentStore struct {
	db      *sql.DB
	logger  *zap.Logger
	backoff time.Duration
}

// Open connects with dsn, forcing parseTime so DATETIME columns scan into time.Time
func Open(dsn string) (*sql.DB, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse mysql dsn: %w", err)
	}
	cfg.ParseTime = true

	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create mysql connector: %w", err)
	}
	return sql.OpenDB(connector), nil
}

// NewDocumentStore creates the snapshots table if it does not exist
func NewDocumentStore(ctx context.Context, db *sql.DB, logger *zap.Logger) (*DocumentStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if _, err := db.ExecContext(ctx, createTable); err != nil {
		return nil, fmt.Errorf("failed to create snapshots table: %w", err)
	}
	return &DocumentStore{db: db, logger: logger, backoff: 2 * time.Second}, nil
}

var _ repositories.DocumentStore = (*DocumentStore)(nil)

func (s *DocumentStore) LoadDocument(ctx context.Context, ownerID string) (*state.Snapshot, error) {
	var document string
	err := s.db.QueryRowContext(ctx, `SELECT document FROM snapshots WHERE owner_id = ?`, ownerID).Scan(&document)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repositories.ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot of %s: %w", ownerID, err)
	}

	var snapshot state.Snapshot
	if err := json.Unmarshal([]byte(document), &snapshot); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot of %s: %w", ownerID, err)
	}
	return &snapshot, nil
}

// SaveDocument upserts the owner's row, retrying transient server errors
func (s *DocumentStore) SaveDocument(ctx context.Context, ownerID string, snapshot *state.Snapshot) error {
	document, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot of %s: %w", ownerID, err)
	}

	for attempt := 1; ; attempt++ {
		_, err = s.db.ExecContext(ctx,
			`INSERT INTO snapshots (owner_id, document, updated_at) VALUES (?, ?, ?)
			 ON DUPLICATE KEY UPDATE document = VALUES(document), updated_at = VALUES(updated_at)`,
			ownerID, string(document), time.Now().UTC())
		if err == nil {
			return nil
		}
		if attempt == maxAttempts || !isTransientError(err) {
			return fmt.Errorf("failed to save snapshot of %s after %d attempts: %w", ownerID, attempt, err)
		}

		s.logger.Warn("snapshot save failed, retrying",
			zap.String("owner", ownerID),
			zap.Int("attempt", attempt),
			zap.Error(err))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(s.backoff):
		}
	}
}

// isTransientError reports whether a MySQL error is worth retrying
func isTransientError(err error) bool {
	var driverErr *mysql.MySQLError
	if !errors.As(err, &driverErr) {
		return errors.Is(err, mysql.ErrInvalidConn)
	}
	switch driverErr.Number {
	case 1040, // too many connections
		1205, // lock wait timeout
		1213: // deadlock
		return true
	}
	return false
}
