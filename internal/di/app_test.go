package di

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"flowcanvas/internal/config"
	"flowcanvas/internal/domain/geometry"
	"flowcanvas/internal/domain/node"
)

func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := l.Addr().(*net.TCPAddr).Port
	require.NoError(t, l.Close())
	return port
}

func newApp(t *testing.T, yaml string) (*App, string) {
	t.Helper()
	dir := t.TempDir()
	if yaml != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "base.yaml"), []byte(yaml), 0o600))
	}
	t.Setenv(config.EnvPrefix+"SERVER_HOST", "127.0.0.1")
	t.Setenv(config.EnvPrefix+"SERVER_PORT", strconv.Itoa(freePort(t)))

	app, cleanup, err := InitializeApp(context.Background(), ConfigDir(dir), "test")
	require.NoError(t, err)
	t.Cleanup(cleanup)
	return app, dir
}

func TestInitializeApp(t *testing.T) {
	app, _ := newApp(t, "editor:\n  onlyRenderVisible: true\n  multiSelectionActive: true\n")

	assert.Equal(t, config.Development, app.Config.Environment)
	assert.True(t, app.Flow.ViewportInitialized())
	assert.NotNil(t, app.Collector)
	assert.False(t, app.Tracer.Enabled())
	assert.True(t, app.Cull.Load())

	st := app.Store.Snapshot()
	assert.True(t, st.MultiSelectionActive)
	assert.Equal(t, 1280.0, st.Width)

	app.Flow.SetNodes([]node.Node{{ID: "a", Position: geometry.XYPosition{X: 10, Y: 20}}})
	n, ok := app.Flow.GetNode("a")
	require.True(t, ok)
	assert.Equal(t, 10.0, n.Position.X)
}

func TestInitializeApp_InvalidConfig(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "base.yaml"), []byte("logging:\n  level: loud\n"), 0o600))

	_, _, err := InitializeApp(context.Background(), ConfigDir(dir), "test")
	assert.Error(t, err)
}

func TestApp_Apply(t *testing.T) {
	app, _ := newApp(t, "")

	next := config.Default(config.Development)
	next.Editor.MaxZoom = 4
	next.Editor.OnlyRenderVisible = true
	next.Logging.Level = "debug"
	app.Apply(next)

	assert.Equal(t, 4.0, app.Store.Snapshot().MaxZoom)
	assert.True(t, app.Cull.Load())
	assert.Equal(t, zapcore.DebugLevel, app.Logging.Level.Level())
}

func TestApp_Run(t *testing.T) {
	app, _ := newApp(t, "")
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	url := fmt.Sprintf("http://%s/health", app.Server.Addr)
	assert.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
