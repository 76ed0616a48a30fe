package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/vsinha/bakeshop/pkg/domain/repositories"
	"github.com/vsinha/bakeshop/pkg/infrastructure/seed"
	testhelpers "github.com/vsinha/bakeshop/pkg/infrastructure/testing"
)

func TestDocumentStore_SaveAndLoad(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	if _, err := store.LoadDocument(ctx, "alice"); !errors.Is(err, repositories.ErrSnapshotNotFound) {
		t.Fatalf("Expected ErrSnapshotNotFound, got %v", err)
	}

	snapshot := testhelpers.BuildNastarSnapshot()
	if err := store.SaveDocument(ctx, "alice", &snapshot); err != nil {
		t.Fatalf("Expected save to succeed: %v", err)
	}

	// Later changes to the caller's copy must not leak into the store
	snapshot.Products[0].Stock = 99

	loaded, err := store.LoadDocument(ctx, "alice")
	if err != nil {
		t.Fatalf("Expected load to succeed: %v", err)
	}
	if testhelpers.ProductStock(loaded, seed.NastarID) != 10 {
		t.Errorf("Expected stored stock 10, got %d", testhelpers.ProductStock(loaded, seed.NastarID))
	}

	loaded.Materials[0].Name = "changed"
	again, _ := store.LoadDocument(ctx, "alice")
	if again.Materials[0].Name == "changed" {
		t.Error("Expected loaded snapshots to be independent copies")
	}

	if _, err := store.LoadDocument(ctx, "bob"); !errors.Is(err, repositories.ErrSnapshotNotFound) {
		t.Errorf("Expected owners to be isolated, got %v", err)
	}
}

func TestForOwner_DefaultsToDevice(t *testing.T) {
	store := NewDocumentStore()
	repo := repositories.ForOwner(store, "")

	snapshot := testhelpers.BuildNastarSnapshot()
	if err := repo.Save(context.Background(), &snapshot); err != nil {
		t.Fatalf("Expected save to succeed: %v", err)
	}

	owners := store.Owners()
	if len(owners) != 1 || owners[0] != repositories.DeviceOwner {
		t.Errorf("Expected only the device document, got %v", owners)
	}
}
