package engine

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/vsinha/bakeshop/pkg/application/commands"
	"github.com/vsinha/bakeshop/pkg/domain/entities"
	"github.com/vsinha/bakeshop/pkg/domain/repositories"
	"github.com/vsinha/bakeshop/pkg/domain/state"
	"github.com/vsinha/bakeshop/pkg/infrastructure/events"
	"github.com/vsinha/bakeshop/pkg/infrastructure/repositories/memory"
	"github.com/vsinha/bakeshop/pkg/infrastructure/seed"
	testhelpers "github.com/vsinha/bakeshop/pkg/infrastructure/testing"
)

// failingRepository loads nothing and refuses every save
type failingRepository struct{}

func (failingRepository) Load(context.Context) (*state.Snapshot, error) {
	return nil, repositories.ErrSnapshotNotFound
}

func (failingRepository) Save(context.Context, *state.Snapshot) error {
	return errors.New("disk full")
}

func openDemo(t *testing.T, store *memory.DocumentStore) *Engine {
	t.Helper()
	e, err := Open(context.Background(), "alice", repositories.ForOwner(store, "alice"), Options{
		IDs:  state.NewSequenceGenerator("id"),
		Seed: seed.Demo,
	})
	if err != nil {
		t.Fatalf("Expected engine to open: %v", err)
	}
	return e
}

func TestOpen_SeedsWhenNothingStored(t *testing.T) {
	e := openDemo(t, memory.NewDocumentStore())
	defer e.Close(context.Background())

	snapshot := e.Snapshot()
	if len(snapshot.Materials) != 5 || snapshot.AppSettings.AppName != seed.DemoAppName {
		t.Errorf("Expected demo data, got %d materials and name %q", len(snapshot.Materials), snapshot.AppSettings.AppName)
	}

	empty, err := Open(context.Background(), "bob", repositories.ForOwner(memory.NewDocumentStore(), "bob"), Options{})
	if err != nil {
		t.Fatalf("Expected engine to open: %v", err)
	}
	defer empty.Close(context.Background())
	if s := empty.Snapshot(); len(s.Materials) != 0 || s.AppSettings.AppName != "NastarKu" {
		t.Errorf("Expected empty state with default settings, got %+v", s.AppSettings)
	}
}

func TestDispatch_CommitsAndPersistsOnClose(t *testing.T) {
	store := memory.NewDocumentStore()
	e := openDemo(t, store)

	res, err := e.Dispatch(context.Background(), commands.AddProduction{ProductID: seed.NastarID, Quantity: 2, Date: testhelpers.Now})
	if err != nil {
		t.Fatalf("Expected production to commit: %v", err)
	}
	if res.ID != "id-1" {
		t.Errorf("Expected production id id-1, got %s", res.ID)
	}

	if err := e.Close(context.Background()); err != nil {
		t.Fatalf("Expected close to flush: %v", err)
	}

	saved, err := store.LoadDocument(context.Background(), "alice")
	if err != nil {
		t.Fatalf("Expected a saved document: %v", err)
	}
	if testhelpers.ProductStock(saved, seed.NastarID) != 12 {
		t.Errorf("Expected persisted Nastar stock 12, got %d", testhelpers.ProductStock(saved, seed.NastarID))
	}
	if !testhelpers.MaterialStock(saved, seed.TepungID).Equal(testhelpers.D("4500")) {
		t.Errorf("Expected persisted Tepung stock 4500, got %s", testhelpers.MaterialStock(saved, seed.TepungID))
	}

	// Reopening picks up where the last session ended
	reopened := openDemo(t, store)
	defer reopened.Close(context.Background())
	if s := reopened.Snapshot(); len(s.Productions) != 1 {
		t.Errorf("Expected reopened ledger to hold one production, got %d", len(s.Productions))
	}
}

func TestDispatch_RejectedCommandChangesNothing(t *testing.T) {
	e := openDemo(t, memory.NewDocumentStore())
	defer e.Close(context.Background())

	_, err := e.Dispatch(context.Background(), commands.AddProduction{ProductID: seed.NastarID, Quantity: 100, Date: testhelpers.Now})
	if !errors.Is(err, entities.ErrInsufficientStock) {
		t.Fatalf("Expected ErrInsufficientStock, got %v", err)
	}

	snapshot := e.Snapshot()
	if testhelpers.ProductStock(&snapshot, seed.NastarID) != 10 || len(snapshot.MaterialTransactions) != 0 {
		t.Error("Expected a rejected production to leave state untouched")
	}
	recorded, _ := e.Events(1)
	if len(recorded) != 0 {
		t.Errorf("Expected no events for a rejected command, got %d", len(recorded))
	}
}

func TestDispatch_RecordsEvents(t *testing.T) {
	e := openDemo(t, memory.NewDocumentStore())
	defer e.Close(context.Background())

	ctx := context.Background()
	if _, err := e.Dispatch(ctx, commands.AddMaterialTransaction{
		MaterialID: seed.TepungID, Type: entities.In, Quantity: testhelpers.D("2000"), Date: testhelpers.Now,
	}); err != nil {
		t.Fatalf("Expected transaction to commit: %v", err)
	}
	if _, err := e.Dispatch(ctx, commands.DeleteMaterialTransaction{ID: "id-1"}); err != nil {
		t.Fatalf("Expected reversal to commit: %v", err)
	}

	recorded, err := e.Events(1)
	if err != nil {
		t.Fatalf("Expected events: %v", err)
	}
	if len(recorded) != 2 {
		t.Fatalf("Expected 2 events, got %d", len(recorded))
	}
	if recorded[0].Type() != events.MaterialTransactionAppliedEvent || recorded[1].Type() != events.MaterialTransactionReversedEvent {
		t.Errorf("Expected applied then reversed, got %s then %s", recorded[0].Type(), recorded[1].Type())
	}
	if recorded[1].Version() != 2 || recorded[1].StreamID() != "alice" {
		t.Errorf("Expected version 2 on stream alice, got %d on %s", recorded[1].Version(), recorded[1].StreamID())
	}
	payload, ok := recorded[0].Data().(events.CommandCommitted)
	if !ok || payload.EntityID != "id-1" || payload.Command != "AddMaterialTransaction" {
		t.Errorf("Expected command payload for id-1, got %+v", recorded[0].Data())
	}
}

func TestDispatch_AfterClose(t *testing.T) {
	e := openDemo(t, memory.NewDocumentStore())
	if err := e.Close(context.Background()); err != nil {
		t.Fatalf("Expected close to succeed: %v", err)
	}
	if err := e.Close(context.Background()); err != nil {
		t.Errorf("Expected a second close to be harmless, got %v", err)
	}

	if _, err := e.Dispatch(context.Background(), commands.DeleteSale{ID: "x"}); !errors.Is(err, ErrClosed) {
		t.Errorf("Expected ErrClosed, got %v", err)
	}
}

func TestDispatch_CancelledContext(t *testing.T) {
	e := openDemo(t, memory.NewDocumentStore())
	defer e.Close(context.Background())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := e.Dispatch(ctx, commands.UpdateSettings{AppName: "X"}); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestSaveFailureIsRecorded(t *testing.T) {
	e, err := Open(context.Background(), "device", failingRepository{}, Options{})
	if err != nil {
		t.Fatalf("Expected engine to open: %v", err)
	}

	if _, err := e.Dispatch(context.Background(), commands.UpdateSettings{AppName: "Dapur Ibu"}); err != nil {
		t.Fatalf("Expected the command itself to commit: %v", err)
	}
	if err := e.Close(context.Background()); err != nil {
		t.Fatalf("Expected close to succeed: %v", err)
	}

	if s := e.Snapshot(); s.AppSettings.AppName != "Dapur Ibu" {
		t.Error("Expected in-memory state to keep the committed change")
	}
	recorded, _ := e.Events(1)
	if len(recorded) != 2 || recorded[1].Type() != events.SnapshotSaveFailedEvent {
		t.Fatalf("Expected a save failure event after the command event, got %d events", len(recorded))
	}
}

func TestDispatch_Concurrent(t *testing.T) {
	e := openDemo(t, memory.NewDocumentStore())
	defer e.Close(context.Background())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = e.Dispatch(context.Background(), commands.AddSale{Date: testhelpers.Now, Items: testhelpers.NastarSale(1)})
		}()
	}
	wg.Wait()

	snapshot := e.Snapshot()
	if len(snapshot.Sales) != 20 {
		t.Errorf("Expected 20 sales, got %d", len(snapshot.Sales))
	}
	if stock := testhelpers.ProductStock(&snapshot, seed.NastarID); stock != -10 {
		t.Errorf("Expected Nastar stock -10, got %d", stock)
	}
}
