package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"flowcanvas/internal/connection"
	"flowcanvas/internal/store"
)

// Collector holds the prometheus series of one canvas process.
type Collector struct {
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Store metrics
	StoreActions *prometheus.CounterVec
	NodeChanges  *prometheus.CounterVec
	EdgeChanges  *prometheus.CounterVec
	Nodes        prometheus.Gauge
	Edges        prometheus.Gauge
	Zoom         prometheus.Gauge

	// Connection gesture metrics
	Gestures        *prometheus.CounterVec
	GestureDuration prometheus.Histogram
	ActiveGestures  prometheus.Gauge
}

var _ connection.Observer = (*Collector)(nil)

// NewCollector creates a collector with its own registry, so several
// collectors can live in one process (tests, multiple canvases).
func NewCollector(namespace string) *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),

		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),

		StoreActions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "store",
				Name:      "actions_total",
				Help:      "Store actions published, by action name",
			},
			[]string{"action"},
		),
		NodeChanges: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "store",
				Name:      "node_changes_total",
				Help:      "Node change records emitted, by type",
			},
			[]string{"type"},
		),
		EdgeChanges: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "store",
				Name:      "edge_changes_total",
				Help:      "Edge change records emitted, by type",
			},
			[]string{"type"},
		),
		Nodes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "nodes",
			Help:      "Nodes in the current snapshot",
		}),
		Edges: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "edges",
			Help:      "Edges in the current snapshot",
		}),
		Zoom: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "viewport",
			Name:      "zoom",
			Help:      "Current viewport zoom",
		}),

		Gestures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "connection",
				Name:      "gestures_total",
				Help:      "Finished connection gestures, by outcome",
			},
			[]string{"outcome"},
		),
		GestureDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "connection",
			Name:      "gesture_duration_seconds",
			Help:      "Time from press to release or cancel",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		ActiveGestures: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "connection",
			Name:      "active_gestures",
			Help:      "Connection gestures in progress",
		}),
	}

	c.registry.MustRegister(
		c.HTTPRequests,
		c.HTTPDuration,
		c.StoreActions,
		c.NodeChanges,
		c.EdgeChanges,
		c.Nodes,
		c.Edges,
		c.Zoom,
		c.Gestures,
		c.GestureDuration,
		c.ActiveGestures,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

// Registry returns the registry the series live in.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

// ============================================================================
// STORE EVENTS
// ============================================================================

// Attach subscribes the collector to s and returns the unsubscribe function.
func (c *Collector) Attach(s *store.Store) func() {
	return s.Subscribe(c.Observe)
}

// Observe records one store event.
func (c *Collector) Observe(ev store.Event) {
	c.StoreActions.WithLabelValues(ev.Action).Inc()
	for _, ch := range ev.NodeChanges {
		c.NodeChanges.WithLabelValues(string(ch.Type)).Inc()
	}
	for _, ch := range ev.EdgeChanges {
		c.EdgeChanges.WithLabelValues(string(ch.Type)).Inc()
	}
	c.Nodes.Set(float64(ev.State.Nodes.Len()))
	c.Edges.Set(float64(len(ev.State.Edges)))
	c.Zoom.Set(ev.State.Transform.Zoom)
}

// ============================================================================
// CONNECTION GESTURES
// ============================================================================

// GestureStarted implements connection.Observer.
func (c *Collector) GestureStarted() {
	c.ActiveGestures.Inc()
}

// GestureFinished implements connection.Observer.
func (c *Collector) GestureFinished(outcome connection.Outcome, elapsed time.Duration) {
	c.ActiveGestures.Dec()
	c.Gestures.WithLabelValues(string(outcome)).Inc()
	c.GestureDuration.Observe(elapsed.Seconds())
}

// ============================================================================
// HTTP
// ============================================================================

// MetricsMiddleware records request counts and latency per chi route.
func MetricsMiddleware(collector *Collector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := &responseWriter{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(ww, r)

			// The pattern is complete only after routing.
			routePattern := "unknown"
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				routePattern = rctx.RoutePattern()
			}
			collector.HTTPRequests.WithLabelValues(r.Method, routePattern, strconv.Itoa(ww.status)).Inc()
			collector.HTTPDuration.WithLabelValues(r.Method, routePattern).Observe(time.Since(start).Seconds())
		})
	}
}

// responseWriter wraps http.ResponseWriter to capture response status
type responseWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *responseWriter) WriteHeader(status int) {
	if !w.wroteHeader {
		w.status = status
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *responseWriter) Write(b []byte) (int, error) {
	w.wroteHeader = true
	return w.ResponseWriter.Write(b)
}
