package alerts

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/vsinha/bakeshop/pkg/application/commands"
	"github.com/vsinha/bakeshop/pkg/application/engine"
	"github.com/vsinha/bakeshop/pkg/domain/entities"
	"github.com/vsinha/bakeshop/pkg/domain/state"
	"github.com/vsinha/bakeshop/pkg/infrastructure/events"
	"github.com/vsinha/bakeshop/pkg/infrastructure/repositories/memory"
	"github.com/vsinha/bakeshop/pkg/infrastructure/seed"
	testhelpers "github.com/vsinha/bakeshop/pkg/infrastructure/testing"
)

type fixedSource map[string]state.Snapshot

func (f fixedSource) Snapshot(ownerID string) (state.Snapshot, bool) {
	s, ok := f[ownerID]
	return s, ok
}

func observedLogger() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.InfoLevel)
	return zap.New(core), logs
}

func TestLowStockWatcher_Handle(t *testing.T) {
	logger, logs := observedLogger()
	source := fixedSource{"device": testhelpers.BuildNastarSnapshot()}
	watcher := NewLowStockWatcher(source, logger)
	event := events.NewCommandEvent(events.MaterialTransactionAppliedEvent, "device", "AddMaterialTransaction", "t1", nil)

	if err := watcher.Handle(event); err != nil {
		t.Fatalf("Expected handle to succeed: %v", err)
	}
	if logs.Len() != 0 {
		t.Fatalf("Expected no alerts while every material is stocked, got %d", logs.Len())
	}

	low := testhelpers.BuildNastarSnapshot()
	telur, _ := low.Material(seed.TelurID)
	telur.Stock = testhelpers.D("5")
	source["device"] = low

	for i := 0; i < 2; i++ {
		if err := watcher.Handle(event); err != nil {
			t.Fatalf("Expected handle to succeed: %v", err)
		}
	}
	warnings := logs.FilterMessage("material low on stock")
	if warnings.Len() != 1 {
		t.Fatalf("Expected one low stock warning across repeated events, got %d", warnings.Len())
	}
	if name := warnings.All()[0].ContextMap()["material"]; name != "Telur" {
		t.Errorf("Expected the warning to name Telur, got %v", name)
	}

	source["device"] = testhelpers.BuildNastarSnapshot()
	if err := watcher.Handle(event); err != nil {
		t.Fatalf("Expected handle to succeed: %v", err)
	}
	if logs.FilterMessage("material restocked").Len() != 1 {
		t.Error("Expected a restock notice once Telur recovers")
	}

	if err := watcher.Handle(events.NewEvent(events.MaterialUpdatedEvent, "bob", nil)); err == nil {
		t.Error("Expected an error for a ledger that is not open")
	}
}

func TestLowStockWatcher_CanHandle(t *testing.T) {
	watcher := NewLowStockWatcher(fixedSource{}, nil)

	testCases := []struct {
		eventType string
		expected  bool
	}{
		{events.MaterialTransactionAppliedEvent, true},
		{events.ProductionCommittedEvent, true},
		{events.ProductionDeletedEvent, true},
		{events.SaleCreatedEvent, false},
		{events.SnapshotSaveFailedEvent, false},
	}

	for _, tc := range testCases {
		t.Run(tc.eventType, func(t *testing.T) {
			if got := watcher.CanHandle(tc.eventType); got != tc.expected {
				t.Errorf("Expected CanHandle(%s) = %v, got %v", tc.eventType, tc.expected, got)
			}
		})
	}
}

func waitFor(t *testing.T, logs *observer.ObservedLogs, message string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for logs.FilterMessage(message).Len() == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("Expected log %q within 2s", message)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestLowStockWatcher_WatchesRegistry(t *testing.T) {
	ctx := context.Background()
	logger, logs := observedLogger()

	registry := engine.NewRegistry(memory.NewDocumentStore(), engine.Options{
		IDs:  state.NewSequenceGenerator("id"),
		Seed: seed.Demo,
	})
	defer registry.Close(ctx)

	watcher := NewLowStockWatcher(registry, logger)
	if err := watcher.Watch(registry.Events()); err != nil {
		t.Fatalf("Expected watch to succeed: %v", err)
	}

	e, err := registry.For(ctx, "")
	if err != nil {
		t.Fatalf("Expected ledger to open: %v", err)
	}

	use := commands.AddMaterialTransaction{
		MaterialID: seed.TelurID, Type: entities.Out, Quantity: testhelpers.D("25"), Date: testhelpers.Now,
	}
	if _, err := e.Dispatch(ctx, use); err != nil {
		t.Fatalf("Expected transaction to apply: %v", err)
	}
	waitFor(t, logs, "material low on stock")

	buy := commands.AddMaterialTransaction{
		MaterialID: seed.TelurID, Type: entities.In, Quantity: testhelpers.D("20"), Date: testhelpers.Now,
	}
	if _, err := e.Dispatch(ctx, buy); err != nil {
		t.Fatalf("Expected transaction to apply: %v", err)
	}
	waitFor(t, logs, "material restocked")

	if err := watcher.Stop(registry.Events()); err != nil {
		t.Fatalf("Expected stop to succeed: %v", err)
	}
	if _, err := e.Dispatch(ctx, use); err != nil {
		t.Fatalf("Expected transaction to apply: %v", err)
	}
	time.Sleep(50 * time.Millisecond)
	if n := logs.FilterMessage("material low on stock").Len(); n != 1 {
		t.Errorf("Expected no further warnings after stop, got %d", n)
	}
}
