package panzoom

import (
	"math"
	"sync"
	"time"

	"go.uber.org/zap"

	"flowcanvas/internal/domain/geometry"
)

// TransformFunc receives every transform the behavior settles on.
type TransformFunc func(geometry.Transform)

// Behavior is a headless pan/zoom capability. It keeps the camera inside the
// scale and translate extents the same way a browser zoom behavior does and
// reports each applied transform through the callback.
type Behavior struct {
	mu              sync.Mutex
	transform       geometry.Transform
	width, height   float64
	minZoom         float64
	maxZoom         float64
	translateExtent geometry.CoordinateExtent
	seq             uint64
	pending         *time.Timer

	onTransform TransformFunc
	logger      *zap.Logger
}

// NewBehavior creates a behavior starting at initial.
func NewBehavior(initial geometry.Transform, minZoom, maxZoom float64, onTransform TransformFunc, logger *zap.Logger) *Behavior {
	if logger == nil {
		logger = zap.NewNop()
	}
	if initial.Zoom == 0 {
		initial.Zoom = 1
	}
	return &Behavior{
		transform:       initial,
		minZoom:         minZoom,
		maxZoom:         maxZoom,
		translateExtent: geometry.InfiniteExtent,
		onTransform:     onTransform,
		logger:          logger,
	}
}

// OnTransform replaces the transform callback.
func (b *Behavior) OnTransform(fn TransformFunc) {
	b.mu.Lock()
	b.onTransform = fn
	b.mu.Unlock()
}

// Transform returns the settled camera.
func (b *Behavior) Transform() geometry.Transform {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.transform
}

// Resize implements Resizer.
func (b *Behavior) Resize(width, height float64) {
	b.mu.Lock()
	b.width, b.height = width, height
	b.mu.Unlock()
}

// SetScaleExtent implements PanZoom.
func (b *Behavior) SetScaleExtent(min, max float64) {
	b.mu.Lock()
	b.minZoom, b.maxZoom = min, max
	b.mu.Unlock()
}

// SetTranslateExtent implements PanZoom.
func (b *Behavior) SetTranslateExtent(e geometry.CoordinateExtent) {
	b.mu.Lock()
	b.translateExtent = e
	b.mu.Unlock()
}

// ScaleBy implements PanZoom.
func (b *Behavior) ScaleBy(k float64, duration time.Duration) {
	b.command(func(t geometry.Transform) geometry.Transform {
		return b.scaleAroundCenter(t, t.Zoom*k)
	}, duration)
}

// ScaleTo implements PanZoom.
func (b *Behavior) ScaleTo(k float64, duration time.Duration) {
	b.command(func(t geometry.Transform) geometry.Transform {
		return b.scaleAroundCenter(t, k)
	}, duration)
}

// TransformTo implements PanZoom.
func (b *Behavior) TransformTo(next geometry.Transform, duration time.Duration) {
	b.command(func(geometry.Transform) geometry.Transform {
		next.Zoom = b.clampZoom(next.Zoom)
		return b.constrain(next)
	}, duration)
}

// PanBy translates the camera by a screen-space offset, as a drag on the
// pane would.
func (b *Behavior) PanBy(dx, dy float64) {
	b.command(func(t geometry.Transform) geometry.Transform {
		t.X += dx
		t.Y += dy
		return b.constrain(t)
	}, 0)
}

// Stop cancels a transition in flight.
func (b *Behavior) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.seq++
	if b.pending != nil {
		b.pending.Stop()
		b.pending = nil
	}
}

// command computes the target transform from the current one and applies it
// now or after duration. Each command bumps the sequence so that only the
// latest pending transition lands.
func (b *Behavior) command(next func(geometry.Transform) geometry.Transform, duration time.Duration) {
	b.mu.Lock()
	b.seq++
	seq := b.seq
	if b.pending != nil {
		b.pending.Stop()
		b.pending = nil
	}
	target := next(b.transform)

	if duration <= 0 {
		b.transform = target
		fn := b.onTransform
		b.mu.Unlock()
		if fn != nil {
			fn(target)
		}
		return
	}

	b.logger.Debug("Scheduling viewport transition",
		zap.Duration("duration", duration),
		zap.Float64("zoom", target.Zoom),
	)
	b.pending = time.AfterFunc(duration, func() { b.settle(seq, target) })
	b.mu.Unlock()
}

func (b *Behavior) settle(seq uint64, target geometry.Transform) {
	b.mu.Lock()
	if seq != b.seq {
		b.mu.Unlock()
		return
	}
	b.transform = target
	b.pending = nil
	fn := b.onTransform
	b.mu.Unlock()

	if fn != nil {
		fn(target)
	}
}

// The helpers below run with b.mu held.

func (b *Behavior) clampZoom(k float64) float64 {
	return geometry.Clamp(k, b.minZoom, b.maxZoom)
}

// scaleAroundCenter zooms to k while keeping the graph point under the
// viewport center fixed.
func (b *Behavior) scaleAroundCenter(t geometry.Transform, k float64) geometry.Transform {
	center := geometry.XYPosition{X: b.width / 2, Y: b.height / 2}
	anchor := t.Invert(center)

	k = b.clampZoom(k)
	next := geometry.Transform{
		X:    center.X - anchor.X*k,
		Y:    center.Y - anchor.Y*k,
		Zoom: k,
	}
	return b.constrain(next)
}

// constrain shifts t so the visible area stays inside the translate extent.
// When the visible area is larger than the extent on an axis, the extent is
// centered on that axis instead.
func (b *Behavior) constrain(t geometry.Transform) geometry.Transform {
	e := b.translateExtent
	topLeft := t.Invert(geometry.XYPosition{})
	bottomRight := t.Invert(geometry.XYPosition{X: b.width, Y: b.height})

	dx0 := topLeft.X - e[0].X
	dx1 := bottomRight.X - e[1].X
	dy0 := topLeft.Y - e[0].Y
	dy1 := bottomRight.Y - e[1].Y

	t.X += t.Zoom * shift(dx0, dx1)
	t.Y += t.Zoom * shift(dy0, dy1)
	return t
}

func shift(d0, d1 float64) float64 {
	if d1 > d0 {
		return (d0 + d1) / 2
	}
	if v := math.Min(0, d0); v != 0 {
		return v
	}
	return math.Max(0, d1)
}
