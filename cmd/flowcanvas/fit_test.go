package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flowcanvas/internal/errors"
)

const graphYAML = `
width: 800
height: 600
nodes:
  - id: a
    position: {x: 0, y: 0}
    width: 100
    height: 50
  - id: b
    position: {x: 300, y: 150}
    width: 100
    height: 50
edges:
  - id: e1
    source: a
    target: b
`

func writeGraph(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func defaultFitOptions() fitOptions {
	return fitOptions{padding: 0.1, minZoom: 0.5, maxZoom: 2, onlyRenderVisible: true}
}

func TestFitGraph(t *testing.T) {
	res, err := fitGraph(writeGraph(t, "graph.yaml", graphYAML), defaultFitOptions())
	require.NoError(t, err)

	assert.InDelta(t, 800.0/440.0, res.Viewport.Zoom, 1e-9)
	assert.Len(t, res.Visible, 2)
	require.Len(t, res.Layers, 1)
	assert.Equal(t, "e1", res.Layers[0].Edges[0].ID)

	var out bytes.Buffer
	printFit(&out, res)
	assert.Contains(t, out.String(), "zoom=1.8182")
	assert.Contains(t, out.String(), "e1")
}

func TestFitGraph_ZoomClamped(t *testing.T) {
	opts := defaultFitOptions()
	opts.maxZoom = 1
	res, err := fitGraph(writeGraph(t, "graph.yaml", graphYAML), opts)
	require.NoError(t, err)
	assert.Equal(t, 1.0, res.Viewport.Zoom)
}

func TestFitGraph_JSON(t *testing.T) {
	body := `{"width":800,"height":600,"nodes":[{"id":"a","position":{"x":0,"y":0},"width":100,"height":50}],"edges":[]}`
	res, err := fitGraph(writeGraph(t, "graph.json", body), defaultFitOptions())
	require.NoError(t, err)
	assert.Len(t, res.Visible, 1)
}

func TestFitGraph_Errors(t *testing.T) {
	tests := []struct {
		name string
		file string
		body string
		code errors.ErrorCode
	}{
		{
			name: "unsupported extension",
			file: "graph.txt",
			body: graphYAML,
			code: errors.CodeInvalidGraphFile,
		},
		{
			name: "malformed yaml",
			file: "graph.yaml",
			body: "nodes: [",
			code: errors.CodeInvalidGraphFile,
		},
		{
			name: "node without id",
			file: "graph.yaml",
			body: "nodes:\n  - position: {x: 0, y: 0}\n",
			code: errors.CodeInvalidGraphFile,
		},
		{
			name: "nothing measured",
			file: "graph.yaml",
			body: "nodes:\n  - id: a\n    position: {x: 0, y: 0}\n",
			code: errors.CodeNothingToFit,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := fitGraph(writeGraph(t, tt.file, tt.body), defaultFitOptions())
			require.Error(t, err)

			var ue *errors.UnifiedError
			require.ErrorAs(t, err, &ue)
			assert.Equal(t, string(tt.code), ue.Code)
		})
	}

	_, err := fitGraph(filepath.Join(t.TempDir(), "missing.yaml"), defaultFitOptions())
	assert.Error(t, err)
}

func TestRootCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"version"})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), version)
}
