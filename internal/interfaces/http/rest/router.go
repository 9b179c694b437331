// Package rest is the HTTP inspector of a running canvas: a JSON view of the
// graph, the camera and the visible sets, plus endpoints that drive the same
// store actions a host UI would.
package rest

import (
	"net/http"
	"sync/atomic"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"flowcanvas/internal/application/flow"
	"flowcanvas/internal/config"
	apperrors "flowcanvas/internal/errors"
	"flowcanvas/internal/infrastructure/observability"
)

// Router creates and configures the HTTP router
type Router struct {
	canvas    *CanvasHandler
	collector *observability.Collector
	cfg       *config.Config
	logger    *zap.Logger
}

// NewRouter creates a router serving f. collector may be nil when metrics
// are disabled.
func NewRouter(f *flow.Instance, collector *observability.Collector, cfg *config.Config, cull *atomic.Bool, logger *zap.Logger) *Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Router{
		canvas:    NewCanvasHandler(f, cull, logger),
		collector: collector,
		cfg:       cfg,
		logger:    logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(apperrors.RecoveryMiddleware(rt.logger))
	router.Use(Logger(rt.logger))
	if rt.cfg.Tracing.Enabled {
		router.Use(observability.TracingMiddleware(rt.cfg.Tracing.ServiceName))
	}
	if rt.collector != nil {
		router.Use(observability.MetricsMiddleware(rt.collector))
	}

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: rt.cfg.Server.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID", "X-Trace-ID"},
		MaxAge:         300,
	}))

	router.Get("/health", rt.healthCheck)
	if rt.collector != nil {
		router.Method(http.MethodGet, rt.cfg.Metrics.Path, rt.collector.Handler())
	}

	h := rt.canvas
	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/flow", h.GetFlow)
		r.Put("/flow", h.ReplaceFlow)
		r.Post("/connect", h.Connect)
		r.Post("/elements/delete", h.DeleteElements)

		r.Route("/nodes", func(r chi.Router) {
			r.Get("/", h.ListNodes)
			r.Post("/", h.AddNodes)
			r.Post("/dimensions", h.UpdateDimensions)
			r.Get("/{nodeID}", h.GetNode)
			r.Delete("/{nodeID}", h.DeleteNode)
			r.Post("/{nodeID}/move", h.MoveNode)
		})

		r.Route("/edges", func(r chi.Router) {
			r.Get("/", h.ListEdges)
			r.Post("/", h.AddEdges)
			r.Get("/{edgeID}", h.GetEdge)
			r.Delete("/{edgeID}", h.DeleteEdge)
		})

		r.Route("/selection", func(r chi.Router) {
			r.Post("/", h.Select)
			r.Delete("/", h.ResetSelection)
			r.Post("/unselect", h.Unselect)
		})

		r.Route("/viewport", func(r chi.Router) {
			r.Get("/", h.GetViewport)
			r.Put("/", h.SetViewport)
			r.Put("/dimensions", h.Resize)
			r.Post("/zoom-in", h.ZoomIn)
			r.Post("/zoom-out", h.ZoomOut)
			r.Post("/zoom", h.ZoomTo)
			r.Post("/center", h.SetCenter)
			r.Post("/fit-view", h.FitView)
			r.Post("/fit-bounds", h.FitBounds)
			r.Post("/project", h.Project)
		})

		r.Get("/view/nodes", h.VisibleNodes)
		r.Get("/view/edges", h.EdgeLayers)
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":              "healthy",
		"viewportInitialized": rt.canvas.flow.ViewportInitialized(),
	}, rt.logger)
}
