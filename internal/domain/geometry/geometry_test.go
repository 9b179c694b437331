package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClampPosition(t *testing.T) {
	extent := CoordinateExtent{{X: 0, Y: 0}, {X: 100, Y: 50}}

	tests := []struct {
		name string
		in   XYPosition
		want XYPosition
	}{
		{"inside", XYPosition{X: 10, Y: 10}, XYPosition{X: 10, Y: 10}},
		{"overshoot max", XYPosition{X: 500, Y: 500}, XYPosition{X: 100, Y: 50}},
		{"overshoot min", XYPosition{X: -5, Y: -1}, XYPosition{X: 0, Y: 0}},
		{"mixed", XYPosition{X: -5, Y: 20}, XYPosition{X: 0, Y: 20}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClampPosition(tt.in, extent))
		})
	}
}

func TestCoordinateExtent_ForSize(t *testing.T) {
	extent := CoordinateExtent{{X: 0, Y: 0}, {X: 100, Y: 100}}

	t.Run("fits", func(t *testing.T) {
		got := extent.ForSize(Dimensions{Width: 40, Height: 10})
		assert.Equal(t, XYPosition{X: 60, Y: 90}, got[1])
	})

	t.Run("larger than extent collapses onto min", func(t *testing.T) {
		got := extent.ForSize(Dimensions{Width: 400, Height: 10})
		assert.Equal(t, 0.0, got[1].X)
		assert.Equal(t, 90.0, got[1].Y)
	})

	t.Run("infinite stays infinite", func(t *testing.T) {
		got := InfiniteExtent.ForSize(Dimensions{Width: 40, Height: 10})
		assert.True(t, got.IsInfinite())
	})
}

func TestPointToRendererPoint(t *testing.T) {
	tr := Transform{X: 100, Y: 50, Zoom: 2}

	got := PointToRendererPoint(XYPosition{X: 120, Y: 70}, tr, false, DefaultSnapGrid)
	assert.Equal(t, XYPosition{X: 10, Y: 10}, got)

	snapped := PointToRendererPoint(XYPosition{X: 120, Y: 70}, tr, true, DefaultSnapGrid)
	assert.Equal(t, XYPosition{X: 15, Y: 15}, snapped)

	// Round trip through Apply.
	p := XYPosition{X: 33, Y: -7}
	assert.Equal(t, p, tr.Invert(tr.Apply(p)))
}

func TestTransformForBounds(t *testing.T) {
	t.Run("centers and pads", func(t *testing.T) {
		got := TransformForBounds(Rect{X: 0, Y: 0, Width: 100, Height: 100}, 500, 500, 0.5, 2, 0.1)
		assert.Equal(t, 2.0, got.Zoom)
		assert.Equal(t, 150.0, got.X)
		assert.Equal(t, 150.0, got.Y)
	})

	t.Run("clamps to min zoom", func(t *testing.T) {
		got := TransformForBounds(Rect{X: 0, Y: 0, Width: 10000, Height: 10}, 500, 500, 0.5, 2, 0)
		assert.Equal(t, 0.5, got.Zoom)
		assert.Equal(t, 250-5000*0.5, got.X)
	})

	t.Run("uses the tighter axis", func(t *testing.T) {
		got := TransformForBounds(Rect{X: 0, Y: 0, Width: 400, Height: 200}, 400, 400, 0.1, 4, 0)
		assert.Equal(t, 1.0, got.Zoom)
	})
}

func TestOverlapArea(t *testing.T) {
	a := Rect{X: 0, Y: 0, Width: 10, Height: 10}
	assert.Equal(t, 25.0, OverlapArea(a, Rect{X: 5, Y: 5, Width: 10, Height: 10}))
	assert.Equal(t, 0.0, OverlapArea(a, Rect{X: 20, Y: 20, Width: 1, Height: 1}))
	assert.Equal(t, 0.0, OverlapArea(a, Rect{X: 10, Y: 0, Width: 5, Height: 5}))
}

func TestRendererRect(t *testing.T) {
	got := RendererRect(200, 100, Transform{X: -100, Y: 0, Zoom: 2})
	assert.Equal(t, Rect{X: 50, Y: 0, Width: 100, Height: 50}, got)
	assert.False(t, math.IsNaN(got.Width))
}

func TestBoundsOfBoxes(t *testing.T) {
	got := BoundsOfBoxes(Box{X: 0, Y: 5, X2: 10, Y2: 10}, Box{X: -5, Y: 7, X2: 3, Y2: 20})
	assert.Equal(t, Box{X: -5, Y: 5, X2: 10, Y2: 20}, got)
	assert.Equal(t, Rect{X: -5, Y: 5, Width: 15, Height: 15}, BoxToRect(got))
}
