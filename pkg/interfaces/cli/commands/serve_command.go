package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vsinha/bakeshop/pkg/application/alerts"
	"github.com/vsinha/bakeshop/pkg/infrastructure/logging"
	"github.com/vsinha/bakeshop/pkg/interfaces/api"
)

// ServeCommand runs the HTTP API until ctx is cancelled, then drains pending saves
type ServeCommand struct {
	config Config
}

func NewServeCommand(config Config) *ServeCommand {
	return &ServeCommand{config: config}
}

func (c *ServeCommand) Execute(ctx context.Context) error {
	cfg, err := loadSettings(c.config)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	registry, logger, closeStore, err := openRegistry(ctx, cfg)
	if err != nil {
		return err
	}
	defer logging.Sync(logger)
	defer closeStore()

	watcher := alerts.NewLowStockWatcher(registry, logger)
	if err := watcher.Watch(registry.Events()); err != nil {
		registry.Close(context.Background())
		return err
	}
	defer watcher.Stop(registry.Events())

	if !cfg.Log.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.HTTP.JWTSecret == "" {
		logger.Warn("no jwt secret configured, every request uses the device ledger")
	}

	server := &http.Server{
		Addr: cfg.HTTP.Addr,
		Handler: api.NewRouter(registry, api.Options{
			JWTSecret:      []byte(cfg.HTTP.JWTSecret),
			AllowedOrigins: cfg.HTTP.AllowedOrigins,
			Logger:         logger,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", cfg.HTTP.Addr), zap.String("storage", cfg.Storage.Driver))
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			registry.Close(context.Background())
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logger.Info("shutting down")
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
	return registry.Close(shutdownCtx)
}
