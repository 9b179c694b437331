// Package geometry holds the pure math behind the flow canvas.
//
// PURPOSE: Coordinate clamping, screen/graph projection, bounding boxes and
// the transform that frames a rectangle inside a viewport.
//
// DOMAIN ROLE: Value objects only. Nothing in this package holds state, so
// every function is safe to call from any goroutine.
package geometry

import "math"

// XYPosition is a point in either screen or graph space. Which space is
// implied by the caller.
type XYPosition struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Add returns p translated by d.
func (p XYPosition) Add(d XYPosition) XYPosition {
	return XYPosition{X: p.X + d.X, Y: p.Y + d.Y}
}

// Sub returns p minus d.
func (p XYPosition) Sub(d XYPosition) XYPosition {
	return XYPosition{X: p.X - d.X, Y: p.Y - d.Y}
}

// Dimensions is a width and height pair. Zero means "not measured yet".
type Dimensions struct {
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// Known reports whether both sides have been measured.
func (d Dimensions) Known() bool {
	return d.Width > 0 && d.Height > 0
}

// Rect is an origin plus a size.
type Rect struct {
	X      float64 `json:"x" yaml:"x"`
	Y      float64 `json:"y" yaml:"y"`
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// Box is a rectangle given by two corners.
type Box struct {
	X  float64
	Y  float64
	X2 float64
	Y2 float64
}

// RectToBox converts an origin/size rectangle into corner form.
func RectToBox(r Rect) Box {
	return Box{X: r.X, Y: r.Y, X2: r.X + r.Width, Y2: r.Y + r.Height}
}

// BoxToRect converts corner form back into origin/size form.
func BoxToRect(b Box) Rect {
	return Rect{X: b.X, Y: b.Y, Width: b.X2 - b.X, Height: b.Y2 - b.Y}
}

// BoundsOfBoxes returns the smallest box containing both inputs.
func BoundsOfBoxes(a, b Box) Box {
	return Box{
		X:  math.Min(a.X, b.X),
		Y:  math.Min(a.Y, b.Y),
		X2: math.Max(a.X2, b.X2),
		Y2: math.Max(a.Y2, b.Y2),
	}
}

// OverlapArea returns the intersection area of two rectangles, or 0 when they
// do not intersect.
func OverlapArea(a, b Rect) float64 {
	xOverlap := math.Max(0, math.Min(a.X+a.Width, b.X+b.Width)-math.Max(a.X, b.X))
	yOverlap := math.Max(0, math.Min(a.Y+a.Height, b.Y+b.Height)-math.Max(a.Y, b.Y))
	return math.Ceil(xOverlap * yOverlap)
}

// ============================================================================
// EXTENTS
// ============================================================================

// CoordinateExtent is a rectangular bound given as [min, max] corners.
type CoordinateExtent [2]XYPosition

// InfiniteExtent places no bound on either axis.
var InfiniteExtent = CoordinateExtent{
	{X: math.Inf(-1), Y: math.Inf(-1)},
	{X: math.Inf(1), Y: math.Inf(1)},
}

// IsInfinite reports whether the extent leaves every axis unbounded.
func (e CoordinateExtent) IsInfinite() bool {
	return math.IsInf(e[0].X, -1) && math.IsInf(e[0].Y, -1) &&
		math.IsInf(e[1].X, 1) && math.IsInf(e[1].Y, 1)
}

// ForSize shrinks the extent so that an element of the given size fits
// entirely inside it when its origin is clamped to the result. If the element
// is larger than the extent on an axis, the max collapses onto the min.
func (e CoordinateExtent) ForSize(d Dimensions) CoordinateExtent {
	out := e
	out[1].X = e[1].X - d.Width
	out[1].Y = e[1].Y - d.Height
	if out[1].X < out[0].X {
		out[1].X = out[0].X
	}
	if out[1].Y < out[0].Y {
		out[1].Y = out[0].Y
	}
	return out
}

// Clamp bounds val to [min, max].
func Clamp(val, min, max float64) float64 {
	return math.Min(math.Max(val, min), max)
}

// ClampPosition bounds a point to an extent.
func ClampPosition(p XYPosition, e CoordinateExtent) XYPosition {
	return XYPosition{
		X: Clamp(p.X, e[0].X, e[1].X),
		Y: Clamp(p.Y, e[0].Y, e[1].Y),
	}
}

// ============================================================================
// TRANSFORMS
// ============================================================================

// Transform is the viewport camera: translate then scale.
type Transform struct {
	X    float64 `json:"x" yaml:"x"`
	Y    float64 `json:"y" yaml:"y"`
	Zoom float64 `json:"zoom" yaml:"zoom"`
}

// Identity is the untransformed camera.
var Identity = Transform{Zoom: 1}

// Viewport is the public form of a Transform.
type Viewport = Transform

// Apply maps a graph-space point into screen space.
func (t Transform) Apply(p XYPosition) XYPosition {
	return XYPosition{X: p.X*t.Zoom + t.X, Y: p.Y*t.Zoom + t.Y}
}

// Invert maps a screen-space point into graph space.
func (t Transform) Invert(p XYPosition) XYPosition {
	return XYPosition{X: (p.X - t.X) / t.Zoom, Y: (p.Y - t.Y) / t.Zoom}
}

// SnapGrid is a grid step on each axis.
type SnapGrid [2]float64

// DefaultSnapGrid matches the editor default.
var DefaultSnapGrid = SnapGrid{15, 15}

// PointToRendererPoint maps a screen point into graph space, optionally
// snapping the result to the grid.
func PointToRendererPoint(p XYPosition, t Transform, snapToGrid bool, grid SnapGrid) XYPosition {
	pos := t.Invert(p)
	if snapToGrid {
		if grid[0] > 0 {
			pos.X = grid[0] * math.Round(pos.X/grid[0])
		}
		if grid[1] > 0 {
			pos.Y = grid[1] * math.Round(pos.Y/grid[1])
		}
	}
	return pos
}

// RendererRect returns the viewport rectangle of the given size in graph
// space.
func RendererRect(width, height float64, t Transform) Rect {
	origin := t.Invert(XYPosition{})
	return Rect{
		X:      origin.X,
		Y:      origin.Y,
		Width:  width / t.Zoom,
		Height: height / t.Zoom,
	}
}

// TransformForBounds returns the camera that centers bounds inside a
// width x height viewport. padding is a fraction of the bounds size, and the
// resulting zoom is clamped to [minZoom, maxZoom].
func TransformForBounds(bounds Rect, width, height, minZoom, maxZoom, padding float64) Transform {
	xZoom := width / (bounds.Width * (1 + padding))
	yZoom := height / (bounds.Height * (1 + padding))
	zoom := Clamp(math.Min(xZoom, yZoom), minZoom, maxZoom)

	centerX := bounds.X + bounds.Width/2
	centerY := bounds.Y + bounds.Height/2

	return Transform{
		X:    width/2 - centerX*zoom,
		Y:    height/2 - centerY*zoom,
		Zoom: zoom,
	}
}
