// Package devbackend wires the local stand-in backend: config, object
// storage, the in-memory service and the HTTP router.
package devbackend

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/dmitrijs2005/timecapsule/internal/devbackend/config"
	"github.com/dmitrijs2005/timecapsule/internal/devbackend/handlers"
	"github.com/dmitrijs2005/timecapsule/internal/devbackend/service"
	"github.com/dmitrijs2005/timecapsule/internal/devbackend/storage"
	"github.com/dmitrijs2005/timecapsule/internal/logging"
)

const shutdownTimeout = 10 * time.Second

var newObjectStore = func(ctx context.Context, c *config.Config) (objectStore, error) {
	return storage.NewS3Store(ctx, c)
}

type objectStore interface {
	service.ObjectStore
	EnsureBucket(ctx context.Context) error
}

type App struct {
	config *config.Config
	logger logging.Logger
	server *http.Server
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.New(c.LogFormat, os.Stdout)

	objects, err := newObjectStore(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("object store init error: %w", err)
	}
	if err := objects.EnsureBucket(ctx); err != nil {
		logger.Warn(ctx, "bucket not ready, uploads will fail until it exists", "bucket", c.S3Bucket, "error", err)
	}

	backend := service.New(objects, c, service.WithLogger(logger))
	h := handlers.NewHandler(backend, logger, []byte(c.SecretKey), c.TokenTTL)

	return &App{
		config: c,
		logger: logger,
		server: &http.Server{
			Addr:              c.Addr,
			Handler:           handlers.NewRouter(logger, h),
			ReadHeaderTimeout: 5 * time.Second,
		},
	}, nil
}

// Run serves until ctx is cancelled, then shuts the server down gracefully.
func (app *App) Run(ctx context.Context) error {
	app.logger.Info(ctx, "Starting dev backend...", "addr", app.config.Addr, "public_url", app.config.PublicURL)

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	app.logger.Info(ctx, "Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := app.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
