package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/vsinha/bakeshop/pkg/application/engine"
	"github.com/vsinha/bakeshop/pkg/domain/entities"
	"github.com/vsinha/bakeshop/pkg/domain/repositories"
	"github.com/vsinha/bakeshop/pkg/domain/state"
	"github.com/vsinha/bakeshop/pkg/infrastructure/config"
	"github.com/vsinha/bakeshop/pkg/infrastructure/logging"
	"github.com/vsinha/bakeshop/pkg/infrastructure/seed"
	"github.com/vsinha/bakeshop/pkg/infrastructure/storage"
)

// Config holds the flags shared by every subcommand
type Config struct {
	ConfigFile string
	// Owner is the user whose ledger to open; empty opens the device ledger
	Owner     string
	Format    string
	OutputDir string
	Verbose   bool
	Help      bool

	// report
	Period string

	// produce and sell
	Product      string
	Quantity     int64
	DryRun       bool
	PriceName    string
	Customer     string
	Payment      string
	Source       string
	DeliveryDate string

	// import
	ImportDir string

	// Settings overrides the loaded application config; used by tests
	Settings *config.Config
}

// ledgerSession is an opened ledger plus everything that must be released with it
type ledgerSession struct {
	settings   *config.Config
	logger     *zap.Logger
	registry   *engine.Registry
	engine     *engine.Engine
	closeStore func() error
}

func loadSettings(c Config) (*config.Config, error) {
	if c.Settings != nil {
		return c.Settings, nil
	}
	return config.Load(c.ConfigFile)
}

// initialState builds the state of a ledger that has never been saved
func initialState(cfg *config.Config) func() state.Snapshot {
	return func() state.Snapshot {
		snapshot := state.Empty()
		if cfg.SeedDemo {
			snapshot = seed.Demo()
		}
		if cfg.App.Name != "" {
			snapshot.AppSettings.AppName = cfg.App.Name
		}
		if cfg.App.Tagline != "" {
			snapshot.AppSettings.AppTagline = cfg.App.Tagline
		}
		return snapshot
	}
}

func openRegistry(ctx context.Context, cfg *config.Config) (*engine.Registry, *zap.Logger, func() error, error) {
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, nil, nil, err
	}

	store, closeStore, err := storage.Open(ctx, cfg.Storage, logger)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to open %s storage: %w", cfg.Storage.Driver, err)
	}

	registry := engine.NewRegistry(store, engine.Options{
		Logger: logger,
		Seed:   initialState(cfg),
	})
	return registry, logger, closeStore, nil
}

func openLedger(ctx context.Context, c Config) (*ledgerSession, error) {
	cfg, err := loadSettings(c)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	registry, logger, closeStore, err := openRegistry(ctx, cfg)
	if err != nil {
		return nil, err
	}

	owner := ""
	if c.Owner != "" {
		owner = repositories.UserOwner(c.Owner)
	}
	e, err := registry.For(ctx, owner)
	if err != nil {
		closeStore()
		return nil, err
	}

	return &ledgerSession{
		settings:   cfg,
		logger:     logger,
		registry:   registry,
		engine:     e,
		closeStore: closeStore,
	}, nil
}

// Close flushes pending saves and releases the store
func (s *ledgerSession) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := errors.Join(s.registry.Close(ctx), s.closeStore())
	logging.Sync(s.logger)
	return err
}

// findProduct resolves a product by id or, failing that, by case-insensitive name
func findProduct(snapshot *state.Snapshot, ref string) (*entities.Product, error) {
	if p, ok := snapshot.Product(ref); ok {
		return p, nil
	}
	for i := range snapshot.Products {
		if strings.EqualFold(snapshot.Products[i].Name, ref) {
			return &snapshot.Products[i], nil
		}
	}
	return nil, entities.NotFoundf("product", ref)
}

func findMaterialByName(snapshot *state.Snapshot, name string) (*entities.Material, bool) {
	for i := range snapshot.Materials {
		if strings.EqualFold(snapshot.Materials[i].Name, name) {
			return &snapshot.Materials[i], true
		}
	}
	return nil, false
}
