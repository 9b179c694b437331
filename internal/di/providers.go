package di

import (
	"context"
	"net/http"
	"sync/atomic"

	"go.uber.org/zap"

	"flowcanvas/internal/application/flow"
	"flowcanvas/internal/config"
	"flowcanvas/internal/domain/geometry"
	"flowcanvas/internal/infrastructure/observability"
	"flowcanvas/internal/interfaces/http/rest"
	"flowcanvas/internal/panzoom"
	"flowcanvas/internal/store"
	"flowcanvas/internal/viewport"
)

// ConfigDir is the directory holding base.<ext> and <env>.<ext>.
type ConfigDir string

// Version is the build version reported to tracing backends.
type Version string

// Logging pairs the process logger with its runtime adjustable level.
type Logging struct {
	Logger *zap.Logger
	Level  zap.AtomicLevel
}

// ============================================================================
// CONFIG
// ============================================================================

// ProvideEnvironment reads the deployment environment from the process.
func ProvideEnvironment() config.Environment {
	return config.GetEnvironment()
}

// ProvideLoader creates the layered configuration loader.
func ProvideLoader(dir ConfigDir, env config.Environment) *config.Loader {
	return config.NewLoader(string(dir), env)
}

// ProvideConfig loads and validates the configuration.
func ProvideConfig(loader *config.Loader) (*config.Config, error) {
	return loader.Load()
}

// ============================================================================
// INFRASTRUCTURE
// ============================================================================

// ProvideLogging builds the logger. The cleanup flushes buffered entries.
func ProvideLogging(cfg *config.Config) (*Logging, func(), error) {
	logger, level, err := observability.NewLogger(cfg.Logging, cfg.Environment)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		_ = logger.Sync()
	}
	return &Logging{Logger: logger, Level: level}, cleanup, nil
}

// ProvideLogger exposes the logger of l.
func ProvideLogger(l *Logging) *zap.Logger {
	return l.Logger
}

// ProvideTracer starts the tracer provider. The cleanup flushes pending
// spans.
func ProvideTracer(ctx context.Context, cfg *config.Config, version Version, logger *zap.Logger) (*observability.TracerProvider, func(), error) {
	tp, err := observability.InitTracing(ctx, cfg.Tracing, cfg.Environment, string(version))
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			logger.Warn("Tracer shutdown failed", zap.Error(err))
		}
	}
	return tp, cleanup, nil
}

// ProvideCollector creates the metrics collector and subscribes it to the
// store. It returns nil when metrics are disabled.
func ProvideCollector(cfg *config.Config, s *store.Store) (*observability.Collector, func()) {
	if !cfg.Metrics.Enabled {
		return nil, func() {}
	}
	c := observability.NewCollector(cfg.Metrics.Namespace)
	detach := c.Attach(s)
	return c, detach
}

// ProvideWatcher creates the configuration watcher seeded with cfg.
func ProvideWatcher(loader *config.Loader, cfg *config.Config, logger *zap.Logger) *config.Watcher {
	return config.NewWatcher(loader, cfg, logger.Named("config"))
}

// ============================================================================
// APPLICATION
// ============================================================================

// ProvideStore creates the canvas store from the editor settings.
func ProvideStore(cfg *config.Config, logger *zap.Logger) *store.Store {
	s := store.New(cfg.StoreSettings(), logger.Named("store"))
	if cfg.Editor.MultiSelectionActive {
		s.SetMultiSelectionActive(true)
	}
	return s
}

// ProvidePanZoom attaches a headless camera to s. The cleanup cancels any
// transition still in flight.
func ProvidePanZoom(s *store.Store, cfg *config.Config, logger *zap.Logger) (*panzoom.Behavior, func()) {
	b := panzoom.NewBehavior(geometry.Identity, cfg.Editor.MinZoom, cfg.Editor.MaxZoom, s.SetTransform, logger.Named("panzoom"))
	s.AttachPanZoom(b)
	return b, b.Stop
}

// ProvideViewportHelper creates the camera helper bound to s.
func ProvideViewportHelper(s *store.Store, logger *zap.Logger) *viewport.Helper {
	return viewport.NewHelper(s, logger)
}

// ProvideInstance creates the flow instance. Requiring the camera makes sure
// it is attached before the instance is handed out.
func ProvideInstance(s *store.Store, helper *viewport.Helper, _ *panzoom.Behavior, logger *zap.Logger) *flow.Instance {
	return flow.NewInstance(s, helper, logger)
}

// ProvideCull holds the live only-render-visible setting.
func ProvideCull(cfg *config.Config) *atomic.Bool {
	cull := &atomic.Bool{}
	cull.Store(cfg.Editor.OnlyRenderVisible)
	return cull
}

// ============================================================================
// INTERFACES
// ============================================================================

// ProvideRouter creates the inspector router.
func ProvideRouter(f *flow.Instance, collector *observability.Collector, cfg *config.Config, cull *atomic.Bool, logger *zap.Logger) *rest.Router {
	return rest.NewRouter(f, collector, cfg, cull, logger)
}

// ProvideHTTPServer creates the HTTP server for the inspector.
func ProvideHTTPServer(cfg *config.Config, router *rest.Router) *http.Server {
	return &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeout.Duration,
		WriteTimeout: cfg.Server.WriteTimeout.Duration,
	}
}
