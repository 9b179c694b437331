// Package panzoom defines the pan/zoom capability the viewport engine drives
// and ships a headless implementation of it.
//
// The capability owns camera transitions: a command with a positive duration
// finishes asynchronously, and a newer command always supersedes an older
// one still in flight.
package panzoom

import (
	"time"

	"flowcanvas/internal/domain/geometry"
)

// PanZoom is the camera service attached to a store.
type PanZoom interface {
	// ScaleBy multiplies the current zoom by k around the viewport center.
	ScaleBy(k float64, duration time.Duration)
	// ScaleTo sets the zoom to k around the viewport center.
	ScaleTo(k float64, duration time.Duration)
	// TransformTo moves the camera to t.
	TransformTo(t geometry.Transform, duration time.Duration)
	SetScaleExtent(min, max float64)
	SetTranslateExtent(e geometry.CoordinateExtent)
}

// Resizer is implemented by capabilities that need to know the size of the
// viewport they control.
type Resizer interface {
	Resize(width, height float64)
}
