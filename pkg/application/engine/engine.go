// Package engine holds the current state of one ledger. It serialises commands, persists each
// committed snapshot in the background and records a domain event per command.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/vsinha/bakeshop/pkg/application/commands"
	"github.com/vsinha/bakeshop/pkg/domain/repositories"
	"github.com/vsinha/bakeshop/pkg/domain/services"
	"github.com/vsinha/bakeshop/pkg/domain/state"
	"github.com/vsinha/bakeshop/pkg/infrastructure/events"
)

// ErrClosed is returned by Dispatch after Close
var ErrClosed = errors.New("engine closed")

const saveQueueSize = 64

// Options configures an Engine. Zero values are usable.
type Options struct {
	Events events.EventStore
	IDs    state.IDGenerator
	Logger *zap.Logger
	// Seed builds the initial state when nothing is persisted yet; nil means an empty state
	Seed func() state.Snapshot
}

// Engine owns the authoritative in-memory snapshot of one owner's ledger
type Engine struct {
	mu       sync.Mutex
	ownerID  string
	snapshot state.Snapshot
	closed   bool

	repo   repositories.SnapshotRepository
	events events.EventStore
	ids    state.IDGenerator
	logger *zap.Logger

	saves chan state.Snapshot
	done  chan struct{}
}

// Open loads the owner's snapshot from repo, migrating it, and starts the save worker
func Open(ctx context.Context, ownerID string, repo repositories.SnapshotRepository, opts Options) (*Engine, error) {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Events == nil {
		opts.Events = events.NewInMemoryEventStore(opts.Logger)
	}
	if opts.IDs == nil {
		opts.IDs = state.UUIDGenerator{}
	}

	snapshot, err := repo.Load(ctx)
	switch {
	case errors.Is(err, repositories.ErrSnapshotNotFound):
		initial := state.Empty()
		if opts.Seed != nil {
			initial = opts.Seed()
		}
		snapshot = &initial
		opts.Logger.Info("starting new ledger", zap.String("owner", ownerID), zap.Bool("seeded", opts.Seed != nil))
	case err != nil:
		return nil, fmt.Errorf("failed to load ledger of %s: %w", ownerID, err)
	}

	if problems := services.ValidateSnapshot(snapshot); problems.HasProblems() {
		opts.Logger.Warn("repairing stored snapshot",
			zap.String("owner", ownerID),
			zap.Strings("problems", problems.Errors))
	}

	e := &Engine{
		ownerID:  ownerID,
		snapshot: services.MigrateSnapshot(*snapshot),
		repo:     repo,
		events:   opts.Events,
		ids:      opts.IDs,
		logger:   opts.Logger.With(zap.String("owner", ownerID)),
		saves:    make(chan state.Snapshot, saveQueueSize),
		done:     make(chan struct{}),
	}
	go e.saveLoop()

	return e, nil
}

// OwnerID returns the owner of this ledger
func (e *Engine) OwnerID() string {
	return e.ownerID
}

// Snapshot returns a copy of the current state
func (e *Engine) Snapshot() state.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshot.Clone()
}

// Dispatch applies cmd. On success the new state replaces the old one, a save is queued and an event
// is recorded; on failure nothing changes.
func (e *Engine) Dispatch(ctx context.Context, cmd commands.Command) (commands.Result, error) {
	if err := ctx.Err(); err != nil {
		return commands.Result{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return commands.Result{}, ErrClosed
	}

	next, res, err := commands.Reduce(e.snapshot, cmd, e.ids)
	if err != nil {
		e.logger.Debug("command rejected", zap.String("command", cmd.Kind()), zap.Error(err))
		return commands.Result{}, err
	}

	e.snapshot = next
	if err := e.events.AppendEvent(e.ownerID, events.NewCommandEvent(cmd.Event(), e.ownerID, cmd.Kind(), res.ID, res.Value)); err != nil {
		e.logger.Warn("failed to record event", zap.String("event", cmd.Event()), zap.Error(err))
	}
	e.saves <- next

	e.logger.Debug("command committed", zap.String("command", cmd.Kind()), zap.String("id", res.ID))

	return res, nil
}

// Events returns the events recorded for this ledger from version onward (1-based)
func (e *Engine) Events(fromVersion int) ([]events.Event, error) {
	return e.events.ReadEvents(e.ownerID, fromVersion)
}

func (e *Engine) saveLoop() {
	defer close(e.done)
	for snapshot := range e.saves {
		if err := e.repo.Save(context.Background(), &snapshot); err != nil {
			e.logger.Error("failed to save snapshot", zap.Error(err))
			_ = e.events.AppendEvent(e.ownerID, events.NewEvent(events.SnapshotSaveFailedEvent, e.ownerID,
				events.SaveFailed{Error: err.Error()}))
		}
	}
}

// Close stops accepting commands and waits until every queued save has been written
func (e *Engine) Close(ctx context.Context) error {
	e.mu.Lock()
	if !e.closed {
		e.closed = true
		close(e.saves)
	}
	e.mu.Unlock()

	select {
	case <-e.done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("failed to flush ledger of %s: %w", e.ownerID, ctx.Err())
	}
}
