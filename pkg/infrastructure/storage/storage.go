// Package storage opens the document store selected by configuration
package storage

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/vsinha/bakeshop/pkg/domain/repositories"
	"github.com/vsinha/bakeshop/pkg/infrastructure/config"
	"github.com/vsinha/bakeshop/pkg/infrastructure/repositories/file"
	"github.com/vsinha/bakeshop/pkg/infrastructure/repositories/memory"
	"github.com/vsinha/bakeshop/pkg/infrastructure/repositories/mysql"
	"github.com/vsinha/bakeshop/pkg/infrastructure/repositories/postgres"
)

// Open returns the document store for cfg and a function releasing its connections
func Open(ctx context.Context, cfg config.StorageConfig, logger *zap.Logger) (repositories.DocumentStore, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Driver {
	case config.DriverMemory:
		return memory.NewDocumentStore(), noop, nil

	case config.DriverFile:
		store, err := file.NewDocumentStore(cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		return store, noop, nil

	case config.DriverMySQL:
		db, err := mysql.Open(cfg.DSN)
		if err != nil {
			return nil, nil, err
		}
		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("failed to reach mysql: %w", err)
		}
		store, err := mysql.NewDocumentStore(ctx, db, logger)
		if err != nil {
			db.Close()
			return nil, nil, err
		}
		return store, db.Close, nil

	case config.DriverPostgres:
		db, err := postgres.Open(cfg.DSN)
		if err != nil {
			return nil, nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to get postgres connection pool: %w", err)
		}
		return postgres.NewDocumentStore(db, logger), sqlDB.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
