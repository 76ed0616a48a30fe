// Package alerts watches ledger events and warns when materials cross their reorder threshold
package alerts

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/vsinha/bakeshop/pkg/domain/state"
	"github.com/vsinha/bakeshop/pkg/infrastructure/events"
)

// SnapshotSource returns the current state of an owner's ledger
type SnapshotSource interface {
	Snapshot(ownerID string) (state.Snapshot, bool)
}

// stockEvents are the events that can move a material across its threshold
var stockEvents = []string{
	events.MaterialAddedEvent,
	events.MaterialUpdatedEvent,
	events.MaterialTransactionAppliedEvent,
	events.MaterialTransactionReversedEvent,
	events.ProductionCommittedEvent,
	events.ProductionDeletedEvent,
}

// LowStockWatcher logs a warning when a material becomes low on stock and a notice when it recovers.
// Each owner's ledger is tracked separately.
type LowStockWatcher struct {
	source SnapshotSource
	logger *zap.Logger

	mu  sync.Mutex
	low map[string]map[string]bool
}

func NewLowStockWatcher(source SnapshotSource, logger *zap.Logger) *LowStockWatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LowStockWatcher{
		source: source,
		logger: logger,
		low:    make(map[string]map[string]bool),
	}
}

var _ events.EventHandler = (*LowStockWatcher)(nil)

// Watch subscribes the watcher to the stock-moving events of store
func (w *LowStockWatcher) Watch(store events.EventStore) error {
	if err := store.Subscribe(stockEvents, w); err != nil {
		return fmt.Errorf("failed to subscribe low stock watcher: %w", err)
	}
	return nil
}

// Stop unsubscribes the watcher from store
func (w *LowStockWatcher) Stop(store events.EventStore) error {
	return store.Unsubscribe(w)
}

func (w *LowStockWatcher) CanHandle(eventType string) bool {
	for _, t := range stockEvents {
		if t == eventType {
			return true
		}
	}
	return false
}

func (w *LowStockWatcher) Handle(event events.Event) error {
	snapshot, ok := w.source.Snapshot(event.StreamID())
	if !ok {
		return fmt.Errorf("ledger %s is not open", event.StreamID())
	}

	current := make(map[string]bool)
	for _, m := range snapshot.LowStockMaterials() {
		current[m.ID] = true
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	previous := w.low[event.StreamID()]
	for _, m := range snapshot.LowStockMaterials() {
		if previous[m.ID] {
			continue
		}
		w.logger.Warn("material low on stock",
			zap.String("owner", event.StreamID()),
			zap.String("material", m.Name),
			zap.String("stock", m.Stock.String()),
			zap.String("minStock", m.MinStock.String()),
			zap.String("unit", string(m.Unit)))
	}
	for id := range previous {
		if current[id] {
			continue
		}
		if m, ok := snapshot.Material(id); ok {
			w.logger.Info("material restocked",
				zap.String("owner", event.StreamID()),
				zap.String("material", m.Name),
				zap.String("stock", m.Stock.String()))
		}
	}
	w.low[event.StreamID()] = current

	return nil
}
