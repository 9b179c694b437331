package connection

import (
	"flowcanvas/internal/domain/geometry"
)

// Class and attribute names a host uses to mark up connection handles.
const (
	ClassSource = "source"
	ClassTarget = "target"

	AttrNodeID   = "data-nodeid"
	AttrHandleID = "data-handleid"

	// MarkerConnecting is set on the handle under the pointer while a
	// gesture hovers it.
	MarkerConnecting = "flowcanvas__handle-connecting"
	// MarkerValid is set next to MarkerConnecting when the hovered handle
	// would accept the connection.
	MarkerValid = "flowcanvas__handle-valid"
)

// Element is the slice of a host element the gesture needs.
type Element interface {
	HasClass(name string) bool
	AddClass(name string)
	RemoveClass(name string)
	ToggleClass(name string, on bool)
	Attribute(name string) (string, bool)
}

// PointerEvent carries the screen coordinates of one pointer event.
type PointerEvent struct {
	ClientX float64
	ClientY float64
}

// Listener receives the pointer events of one gesture.
type Listener interface {
	Move(ev PointerEvent)
	Release(ev PointerEvent)
}

// Host is the document a canvas lives in.
type Host interface {
	// ElementFromPoint returns the topmost element at a screen coordinate, or
	// nil.
	ElementFromPoint(x, y float64) Element
	// ContainerBounds returns the screen rectangle of the canvas container.
	// ok is false when the container cannot be resolved.
	ContainerBounds() (bounds geometry.Rect, ok bool)
	// Listen attaches l to pointer move and release events until the
	// returned function is called.
	Listen(l Listener) (detach func())
}

func isHandle(el Element) bool {
	return el != nil && (el.HasClass(ClassSource) || el.HasClass(ClassTarget))
}

func clearMarkers(el Element) {
	if el == nil {
		return
	}
	el.RemoveClass(MarkerValid)
	el.RemoveClass(MarkerConnecting)
}
