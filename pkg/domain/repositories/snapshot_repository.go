package repositories

import (
	"context"
	"errors"

	"github.com/vsinha/bakeshop/pkg/domain/state"
)

// ErrSnapshotNotFound is returned by Load when nothing has been saved yet
var ErrSnapshotNotFound = errors.New("snapshot not found")

// DeviceOwner is the owner key of the per-device document used when no user session is active
const DeviceOwner = "device"

// UserOwner is the owner key of a signed-in user's document. The prefix keeps user ids from
// colliding with DeviceOwner or with each other's keys.
func UserOwner(userID string) string {
	return "user:" + userID
}

// SnapshotRepository persists the whole entity store of one ledger
type SnapshotRepository interface {
	Load(ctx context.Context) (*state.Snapshot, error)
	Save(ctx context.Context, snapshot *state.Snapshot) error
}

// DocumentStore keeps one snapshot document per owner
type DocumentStore interface {
	LoadDocument(ctx context.Context, ownerID string) (*state.Snapshot, error)
	SaveDocument(ctx context.Context, ownerID string, snapshot *state.Snapshot) error
}

// OwnerRepository binds a DocumentStore to a single owner
type OwnerRepository struct {
	store   DocumentStore
	ownerID string
}

// ForOwner returns the SnapshotRepository of ownerID inside store
func ForOwner(store DocumentStore, ownerID string) *OwnerRepository {
	if ownerID == "" {
		ownerID = DeviceOwner
	}
	return &OwnerRepository{store: store, ownerID: ownerID}
}

// Verify interface compliance
var _ SnapshotRepository = (*OwnerRepository)(nil)

// OwnerID returns the owner this repository reads and writes
func (r *OwnerRepository) OwnerID() string {
	return r.ownerID
}

// Load reads the owner's snapshot
func (r *OwnerRepository) Load(ctx context.Context) (*state.Snapshot, error) {
	return r.store.LoadDocument(ctx, r.ownerID)
}

// Save writes the owner's snapshot
func (r *OwnerRepository) Save(ctx context.Context, snapshot *state.Snapshot) error {
	return r.store.SaveDocument(ctx, r.ownerID, snapshot)
}
