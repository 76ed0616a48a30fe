package memory

import (
	"context"
	"sync"

	"github.com/vsinha/bakeshop/pkg/domain/repositories"
	"github.com/vsinha/bakeshop/pkg/domain/state"
)

// DocumentStore keeps snapshot documents in process memory, one per owner
type DocumentStore struct {
	mu        sync.RWMutex
	documents map[string]state.Snapshot
}

// NewDocumentStore creates an empty in-memory document store
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		documents: make(map[string]state.Snapshot),
	}
}

// Verify interface compliance
var _ repositories.DocumentStore = (*DocumentStore)(nil)

// LoadDocument returns a copy of the owner's snapshot
func (s *DocumentStore) LoadDocument(_ context.Context, ownerID string) (*state.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, exists := s.documents[ownerID]
	if !exists {
		return nil, repositories.ErrSnapshotNotFound
	}
	snapshot := doc.Clone()
	return &snapshot, nil
}

// SaveDocument stores a copy of snapshot as the owner's document
func (s *DocumentStore) SaveDocument(_ context.Context, ownerID string, snapshot *state.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.documents[ownerID] = snapshot.Clone()
	return nil
}

// Owners returns the owners that have a stored document
func (s *DocumentStore) Owners() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	owners := make([]string, 0, len(s.documents))
	for owner := range s.documents {
		owners = append(owners, owner)
	}
	return owners
}
