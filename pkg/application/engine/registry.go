package engine

import (
	"context"
	"errors"
	"sync"

	"github.com/vsinha/bakeshop/pkg/domain/repositories"
	"github.com/vsinha/bakeshop/pkg/domain/state"
	"github.com/vsinha/bakeshop/pkg/infrastructure/events"
)

// Registry opens one Engine per owner on first use, all backed by the same document store
type Registry struct {
	mu      sync.Mutex
	store   repositories.DocumentStore
	opts    Options
	engines map[string]*Engine
}

// NewRegistry shares opts, including one event store, between all engines
func NewRegistry(store repositories.DocumentStore, opts Options) *Registry {
	if opts.Events == nil {
		opts.Events = events.NewInMemoryEventStore(opts.Logger)
	}
	return &Registry{
		store:   store,
		opts:    opts,
		engines: make(map[string]*Engine),
	}
}

// For returns the engine of ownerID; an empty owner selects the per-device ledger
func (r *Registry) For(ctx context.Context, ownerID string) (*Engine, error) {
	repo := repositories.ForOwner(r.store, ownerID)

	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.engines[repo.OwnerID()]; ok {
		return e, nil
	}
	e, err := Open(ctx, repo.OwnerID(), repo, r.opts)
	if err != nil {
		return nil, err
	}
	r.engines[repo.OwnerID()] = e
	return e, nil
}

// Events returns the event store shared by every engine of the registry
func (r *Registry) Events() events.EventStore {
	return r.opts.Events
}

// Snapshot returns the state of an already open ledger without opening one
func (r *Registry) Snapshot(ownerID string) (state.Snapshot, bool) {
	r.mu.Lock()
	e, ok := r.engines[ownerID]
	r.mu.Unlock()
	if !ok {
		return state.Snapshot{}, false
	}
	return e.Snapshot(), true
}

// Close closes every open engine
func (r *Registry) Close(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	for owner, e := range r.engines {
		if err := e.Close(ctx); err != nil {
			errs = append(errs, err)
		}
		delete(r.engines, owner)
	}
	return errors.Join(errs...)
}
