// Package file stores each owner's snapshot as a JSON document on the local disk
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/vsinha/bakeshop/pkg/domain/repositories"
	"github.com/vsinha/bakeshop/pkg/domain/state"
)

// DocumentStore writes <dir>/<owner>.json. Writes go to a temp file first and are renamed into place.
type DocumentStore struct {
	dir string
	mu  sync.Mutex
}

// NewDocumentStore creates the directory if needed
func NewDocumentStore(dir string) (*DocumentStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory %s: %w", dir, err)
	}
	return &DocumentStore{dir: dir}, nil
}

var _ repositories.DocumentStore = (*DocumentStore)(nil)

func (s *DocumentStore) path(ownerID string) string {
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, ownerID)
	return filepath.Join(s.dir, safe+".json")
}

func (s *DocumentStore) LoadDocument(ctx context.Context, ownerID string) (*state.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path(ownerID))
	if errors.Is(err, os.ErrNotExist) {
		return nil, repositories.ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot of %s: %w", ownerID, err)
	}

	var snapshot state.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot of %s: %w", ownerID, err)
	}
	return &snapshot, nil
}

func (s *DocumentStore) SaveDocument(ctx context.Context, ownerID string, snapshot *state.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode snapshot of %s: %w", ownerID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	target := s.path(ownerID)
	tmp, err := os.CreateTemp(s.dir, filepath.Base(target)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write snapshot of %s: %w", ownerID, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write snapshot of %s: %w", ownerID, err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return fmt.Errorf("failed to replace snapshot of %s: %w", ownerID, err)
	}
	return nil
}
