package postgres

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/vsinha/bakeshop/pkg/domain/repositories"
	"github.com/vsinha/bakeshop/pkg/infrastructure/seed"
	testhelpers "github.com/vsinha/bakeshop/pkg/infrastructure/testing"
)

func TestDocument_TableName(t *testing.T) {
	if name := (Document{}).TableName(); name != "snapshot_documents" {
		t.Errorf("Expected table snapshot_documents, got %s", name)
	}
}

// Runs against a real server when BAKESHOP_TEST_POSTGRES_DSN is set
func TestDocumentStore_Integration(t *testing.T) {
	dsn := os.Getenv("BAKESHOP_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("BAKESHOP_TEST_POSTGRES_DSN not set")
	}

	db, err := Open(dsn)
	if err != nil {
		t.Fatalf("Expected connection: %v", err)
	}
	store := NewDocumentStore(db, nil)
	ctx := context.Background()

	owner := "test-" + t.Name()
	defer db.Where("owner_id = ?", owner).Delete(&Document{})

	if _, err := store.LoadDocument(ctx, owner); !errors.Is(err, repositories.ErrSnapshotNotFound) {
		t.Fatalf("Expected ErrSnapshotNotFound, got %v", err)
	}

	snapshot := testhelpers.BuildNastarSnapshot()
	for i := 0; i < 2; i++ {
		snapshot.Products[0].Stock = int64(10 + i)
		if err := store.SaveDocument(ctx, owner, &snapshot); err != nil {
			t.Fatalf("Expected save %d to succeed: %v", i+1, err)
		}
	}

	loaded, err := store.LoadDocument(ctx, owner)
	if err != nil {
		t.Fatalf("Expected load to succeed: %v", err)
	}
	if testhelpers.ProductStock(loaded, seed.NastarID) != 11 {
		t.Errorf("Expected the upsert to keep the latest stock 11, got %d", testhelpers.ProductStock(loaded, seed.NastarID))
	}
}
