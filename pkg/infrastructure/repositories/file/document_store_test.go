package file

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vsinha/bakeshop/pkg/application/services/production"
	"github.com/vsinha/bakeshop/pkg/domain/entities"
	"github.com/vsinha/bakeshop/pkg/domain/repositories"
	"github.com/vsinha/bakeshop/pkg/infrastructure/seed"
	testhelpers "github.com/vsinha/bakeshop/pkg/infrastructure/testing"
)

func TestDocumentStore_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	store, err := NewDocumentStore(dir)
	if err != nil {
		t.Fatalf("Expected store to be created: %v", err)
	}
	ctx := context.Background()

	if _, err := store.LoadDocument(ctx, "alice"); !errors.Is(err, repositories.ErrSnapshotNotFound) {
		t.Fatalf("Expected ErrSnapshotNotFound, got %v", err)
	}

	st := testhelpers.BuildNastarStore()
	if _, err := production.Commit(st, seed.NastarID, 2, testhelpers.Now); err != nil {
		t.Fatalf("Expected production to succeed: %v", err)
	}
	delivery := testhelpers.Now.AddDate(0, 0, 5)
	st.Sales = append(st.Sales, entities.Sale{
		ID: "s1", CustomerName: "Bu Ani", Date: testhelpers.Now, Items: testhelpers.NastarSale(1),
		TotalPrice: testhelpers.D("85000.50"), Status: entities.StatusPreOrder, DeliveryDate: &delivery,
	})

	if err := store.SaveDocument(ctx, "alice", &st.Snapshot); err != nil {
		t.Fatalf("Expected save to succeed: %v", err)
	}

	loaded, err := store.LoadDocument(ctx, "alice")
	if err != nil {
		t.Fatalf("Expected load to succeed: %v", err)
	}
	if !testhelpers.MaterialStock(loaded, seed.TepungID).Equal(testhelpers.D("4500")) {
		t.Errorf("Expected Tepung 4500, got %s", testhelpers.MaterialStock(loaded, seed.TepungID))
	}
	if len(loaded.Productions) != 1 || !loaded.Productions[0].TotalCost.Equal(testhelpers.D("46500")) {
		t.Errorf("Expected one production costing 46500, got %v", loaded.Productions)
	}
	if len(loaded.Productions[0].Consumption) != 5 {
		t.Errorf("Expected frozen consumption to survive, got %d lines", len(loaded.Productions[0].Consumption))
	}
	sale := loaded.Sales[0]
	if !sale.TotalPrice.Equal(testhelpers.D("85000.5")) || sale.DeliveryDate == nil || !sale.DeliveryDate.Equal(delivery) {
		t.Errorf("Expected sale total and delivery date to survive, got %+v", sale)
	}
	if !loaded.Productions[0].Date.Equal(testhelpers.Now) {
		t.Errorf("Expected production date %s, got %s", testhelpers.Now, loaded.Productions[0].Date)
	}
}

func TestDocumentStore_OwnerFileNames(t *testing.T) {
	dir := t.TempDir()
	store, err := NewDocumentStore(dir)
	if err != nil {
		t.Fatalf("Expected store to be created: %v", err)
	}

	snapshot := testhelpers.BuildNastarSnapshot()
	if err := store.SaveDocument(context.Background(), "../evil/owner", &snapshot); err != nil {
		t.Fatalf("Expected save to succeed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "___evil_owner.json")); err != nil {
		t.Errorf("Expected a sanitised file inside the data directory: %v", err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("Expected no temp files left behind, got %d entries", len(entries))
	}
}

func TestDocumentStore_CorruptDocument(t *testing.T) {
	dir := t.TempDir()
	store, _ := NewDocumentStore(dir)
	if err := os.WriteFile(filepath.Join(dir, "device.json"), []byte("{not json"), 0644); err != nil {
		t.Fatalf("Failed to write corrupt document: %v", err)
	}

	_, err := store.LoadDocument(context.Background(), "device")
	if err == nil || errors.Is(err, repositories.ErrSnapshotNotFound) {
		t.Errorf("Expected a decode error, got %v", err)
	}
}

func TestDocumentStore_CancelledContext(t *testing.T) {
	store, _ := NewDocumentStore(t.TempDir())
	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	<-ctx.Done()

	snapshot := testhelpers.BuildNastarSnapshot()
	if err := store.SaveDocument(ctx, "device", &snapshot); err == nil {
		t.Error("Expected save to honour the cancelled context")
	}
}
