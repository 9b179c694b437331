package di

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"flowcanvas/internal/application/flow"
	"flowcanvas/internal/config"
	"flowcanvas/internal/infrastructure/observability"
	"flowcanvas/internal/panzoom"
	"flowcanvas/internal/store"
)

// App holds the wired canvas server.
type App struct {
	Config    *config.Config
	Logging   *Logging
	Logger    *zap.Logger
	Store     *store.Store
	PanZoom   *panzoom.Behavior
	Flow      *flow.Instance
	Collector *observability.Collector
	Tracer    *observability.TracerProvider
	Cull      *atomic.Bool
	Server    *http.Server
	Watcher   *config.Watcher
}

// Run serves the inspector and watches the configuration directory until
// ctx is done, then shuts the server down.
func (a *App) Run(ctx context.Context) error {
	a.Watcher.OnChange(a.Apply)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.Logger.Info("Starting server",
			zap.String("address", a.Server.Addr),
			zap.String("environment", string(a.Config.Environment)),
			zap.Strings("config_sources", a.Config.LoadedFrom),
		)
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		// Serving works without hot reload.
		if err := a.Watcher.Run(ctx); err != nil {
			a.Logger.Warn("Configuration watcher stopped", zap.Error(err))
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		a.Logger.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout.Duration)
		defer cancel()
		return a.Server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// Apply pushes a reloaded configuration into the running canvas. Server
// settings only take effect after a restart.
func (a *App) Apply(next *config.Config) {
	_, span := a.Tracer.StartSpan(context.Background(), "config.apply")
	defer span.End()

	next.ApplyTo(a.Store)
	a.Cull.Store(next.Editor.OnlyRenderVisible)

	if level, err := observability.ParseLevel(next.Logging.Level); err == nil {
		a.Logging.Level.SetLevel(level)
	}
	if next.Server.Addr() != a.Server.Addr {
		a.Logger.Warn("Server address changed, restart to apply",
			zap.String("current", a.Server.Addr),
			zap.String("configured", next.Server.Addr()),
		)
	}
	a.Logger.Info("Configuration applied", zap.Strings("sources", next.LoadedFrom))
}
