package config

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flowcanvas/internal/domain/edge"
	"flowcanvas/internal/domain/geometry"
	apperrors "flowcanvas/internal/errors"
	"flowcanvas/internal/store"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := NewLoader(t.TempDir(), Development).Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"defaults"}, cfg.LoadedFrom)
	assert.Equal(t, 0.5, cfg.Editor.MinZoom)
	assert.Equal(t, 2.0, cfg.Editor.MaxZoom)
	assert.Equal(t, [2]float64{15, 15}, cfg.Editor.SnapGrid)
	assert.Equal(t, "strict", cfg.Editor.ConnectionMode)
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr())
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout.Duration)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoad_Layering(t *testing.T) {
	dir := t.TempDir()
	base := writeFile(t, dir, "base.yaml", `
editor:
  maxZoom: 4
  snapToGrid: true
  translateExtent:
    minX: -100
    minY: -50
    maxX: 100
    maxY: 50
server:
  port: 9000
  readTimeout: 5s
`)
	env := writeFile(t, dir, "staging.toml", `
[server]
port = 9100
writeTimeout = "2s"

[logging]
format = "console"
`)
	t.Setenv("FLOWCANVAS_LOG_LEVEL", "debug")
	t.Setenv("FLOWCANVAS_VIEWPORT_WIDTH", "640")

	cfg, err := NewLoader(dir, Staging).Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"defaults", base, env, "environment"}, cfg.LoadedFrom)
	assert.Equal(t, 4.0, cfg.Editor.MaxZoom)
	assert.Equal(t, 0.5, cfg.Editor.MinZoom, "untouched fields keep their defaults")
	assert.True(t, cfg.Editor.SnapToGrid)
	require.NotNil(t, cfg.Editor.TranslateExtent)
	assert.Equal(t, Extent{MinX: -100, MinY: -50, MaxX: 100, MaxY: 50}, *cfg.Editor.TranslateExtent)
	assert.Equal(t, 9100, cfg.Server.Port, "environment file overrides base")
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout.Duration)
	assert.Equal(t, 2*time.Second, cfg.Server.WriteTimeout.Duration)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 640.0, cfg.Viewport.Width)
}

func TestLoad_JSON(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "base.json", `{
  "editor": {"connectionMode": "loose", "defaultEdge": {"type": "step", "marker": "arrowclosed"}},
  "server": {"shutdownTimeout": "1m"}
}`)

	cfg, err := NewLoader(dir, Production).Load()
	require.NoError(t, err)

	assert.Equal(t, "loose", cfg.Editor.ConnectionMode)
	require.NotNil(t, cfg.Editor.DefaultEdge)
	assert.Equal(t, "step", cfg.Editor.DefaultEdge.Type)
	assert.Equal(t, time.Minute, cfg.Server.ShutdownTimeout.Duration)
}

func TestLoad_EmptyYAMLIsAccepted(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "base.yaml", "")

	cfg, err := NewLoader(dir, Development).Load()
	require.NoError(t, err)
	assert.Len(t, cfg.LoadedFrom, 2)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		code    string
		details string
	}{
		{
			name:    "zoom bounds inverted",
			file:    "base.yaml",
			content: "editor:\n  minZoom: 2\n  maxZoom: 1\n",
			code:    "CONFIG_INVALID",
			details: "editor.maxZoom must not be below MinZoom",
		},
		{
			name:    "unknown connection mode",
			file:    "base.yaml",
			content: "editor:\n  connectionMode: sideways\n",
			code:    "CONFIG_INVALID",
			details: "editor.connectionMode must be one of: strict loose",
		},
		{
			name:    "port out of range",
			file:    "base.toml",
			content: "[server]\nport = 70000\n",
			code:    "CONFIG_INVALID",
			details: "server.port must be at most 65535",
		},
		{
			name:    "empty extent",
			file:    "base.yaml",
			content: "editor:\n  nodeExtent: {minX: 10, minY: 0, maxX: 10, maxY: 5}\n",
			code:    "CONFIG_INVALID",
			details: "editor.nodeExtent.maxX must be greater than MinX",
		},
		{
			name:    "malformed file",
			file:    "base.yaml",
			content: "editor: [\n",
			code:    "CONFIG_LOAD_FAILED",
		},
		{
			name:    "unknown json field",
			file:    "base.json",
			content: `{"editor": {"zoomMax": 3}}`,
			code:    "CONFIG_LOAD_FAILED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, dir, tt.file, tt.content)

			cfg, err := NewLoader(dir, Development).Load()

			require.Error(t, err)
			assert.Nil(t, cfg)
			var unified *apperrors.UnifiedError
			require.ErrorAs(t, err, &unified)
			assert.Equal(t, tt.code, unified.Code)
			assert.Contains(t, unified.Details, tt.details)
		})
	}
}

func TestGetEnvironment(t *testing.T) {
	t.Setenv("FLOWCANVAS_ENVIRONMENT", "PRODUCTION")
	assert.Equal(t, Production, GetEnvironment())

	t.Setenv("FLOWCANVAS_ENVIRONMENT", "qa")
	assert.Equal(t, Development, GetEnvironment())
}

func TestStoreSettings(t *testing.T) {
	cfg := Default(Development)
	cfg.Viewport = ViewportSize{Width: 800, Height: 600}
	cfg.Editor.NodeExtent = &Extent{MinX: 0, MinY: 0, MaxX: 500, MaxY: 400}
	cfg.Editor.FitViewOnInit = true
	cfg.Editor.FitViewPadding = 0.2
	animated := true
	cfg.Editor.DefaultEdge = &EdgeDefaults{Type: "smoothstep", Animated: &animated, Marker: "arrow"}

	set := cfg.StoreSettings()

	assert.Equal(t, 800.0, set.Width)
	assert.Equal(t, geometry.InfiniteExtent, set.TranslateExtent)
	assert.Equal(t, geometry.CoordinateExtent{{X: 0, Y: 0}, {X: 500, Y: 400}}, set.NodeExtent)
	assert.Equal(t, geometry.SnapGrid{15, 15}, set.SnapGrid)
	assert.Equal(t, store.ConnectionStrict, set.ConnectionMode)
	assert.Equal(t, store.ModeUncontrolled, set.NodeMode)
	require.NotNil(t, set.FitViewOptions)
	assert.Equal(t, 0.2, *set.FitViewOptions.Padding)
	require.NotNil(t, set.DefaultEdgeOptions)
	assert.Equal(t, "smoothstep", set.DefaultEdgeOptions.Type)
	assert.Equal(t, &edge.Marker{Type: edge.MarkerArrow}, set.DefaultEdgeOptions.MarkerEnd)

	cfg.Editor.FitViewOnInit = false
	assert.Nil(t, cfg.StoreSettings().FitViewOptions)
}

func TestApplyTo(t *testing.T) {
	cfg := Default(Development)
	s := store.New(cfg.StoreSettings(), nil)

	cfg.Editor.MaxZoom = 3
	cfg.Editor.ConnectionMode = "loose"
	cfg.Editor.MultiSelectionActive = true
	cfg.ApplyTo(s)

	st := s.Snapshot()
	assert.Equal(t, 3.0, st.MaxZoom)
	assert.Equal(t, store.ConnectionLoose, st.ConnectionMode)
	assert.True(t, st.MultiSelectionActive)
}

// ============================================================================
// WATCHER
// ============================================================================

type recorder struct {
	mu      sync.Mutex
	configs []*Config
}

func (r *recorder) record(c *Config) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.configs = append(r.configs, c)
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.configs)
}

func (r *recorder) last() *Config {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.configs[len(r.configs)-1]
}

func TestWatcher_Reload(t *testing.T) {
	dir := t.TempDir()
	loader := NewLoader(dir, Development)
	initial, err := loader.Load()
	require.NoError(t, err)

	w := NewWatcher(loader, initial, nil)
	rec := &recorder{}
	w.OnChange(rec.record)

	t.Run("unchanged is dropped", func(t *testing.T) {
		w.Reload()
		assert.Equal(t, 0, rec.count())
	})

	t.Run("change notifies", func(t *testing.T) {
		writeFile(t, dir, "base.yaml", "editor:\n  maxZoom: 5\n")

		w.Reload()

		require.Equal(t, 1, rec.count())
		assert.Equal(t, 5.0, rec.last().Editor.MaxZoom)
		assert.Same(t, rec.last(), w.Config())
	})

	t.Run("invalid keeps current", func(t *testing.T) {
		writeFile(t, dir, "base.yaml", "editor:\n  maxZoom: 0.1\n")

		w.Reload()

		assert.Equal(t, 1, rec.count())
		assert.Equal(t, 5.0, w.Config().Editor.MaxZoom)
	})
}

func TestWatcher_PanickingCallbackDoesNotStopOthers(t *testing.T) {
	dir := t.TempDir()
	loader := NewLoader(dir, Development)
	w := NewWatcher(loader, Default(Development), nil)
	rec := &recorder{}
	w.OnChange(func(*Config) { panic("bad callback") })
	w.OnChange(rec.record)

	writeFile(t, dir, "base.yaml", "logging:\n  level: warn\n")
	w.Reload()

	assert.Equal(t, 1, rec.count())
}

func TestWatcher_Run(t *testing.T) {
	dir := t.TempDir()
	loader := NewLoader(dir, Development)
	w := NewWatcher(loader, Default(Development), nil, WithDebounce(10*time.Millisecond))

	s := store.New(Default(Development).StoreSettings(), nil)
	w.OnChange(func(c *Config) { c.ApplyTo(s) })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Keep writing until the watcher has registered the directory.
	assert.Eventually(t, func() bool {
		writeFile(t, dir, "base.yaml", "editor:\n  minZoom: 0.25\n")
		return s.Snapshot().MinZoom == 0.25
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestWatcher_RunMissingDirectory(t *testing.T) {
	loader := NewLoader(filepath.Join(t.TempDir(), "missing"), Development)
	w := NewWatcher(loader, Default(Development), nil)

	err := w.Run(context.Background())

	require.Error(t, err)
	var unified *apperrors.UnifiedError
	require.ErrorAs(t, err, &unified)
	assert.Equal(t, "CONFIG_WATCH_FAILED", unified.Code)
}
