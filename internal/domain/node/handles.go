package node

import (
	"flowcanvas/internal/domain/geometry"
)

// HandleType is the role of a connection handle.
type HandleType string

const (
	HandleSource HandleType = "source"
	HandleTarget HandleType = "target"
)

// HandlePosition is the side of the node a handle sits on.
type HandlePosition string

const (
	PositionLeft   HandlePosition = "left"
	PositionTop    HandlePosition = "top"
	PositionRight  HandlePosition = "right"
	PositionBottom HandlePosition = "bottom"
)

// HandleElement is a handle's box in node-local, unscaled space.
type HandleElement struct {
	ID       string         `json:"id,omitempty"`
	Position HandlePosition `json:"position"`
	X        float64        `json:"x"`
	Y        float64        `json:"y"`
	Width    float64        `json:"width"`
	Height   float64        `json:"height"`
}

// HandleBounds groups a node's handles by role. A nil slice means the node
// has no handle of that role.
type HandleBounds struct {
	Source []HandleElement `json:"source,omitempty"`
	Target []HandleElement `json:"target,omitempty"`
}

// Measurement is what the host reports for one rendered node element.
type Measurement interface {
	// Dimensions is the unscaled layout size of the node element.
	Dimensions() geometry.Dimensions
	// Bounds is the on-screen box of the node element.
	Bounds() geometry.Rect
	// Handles lists the handle elements rendered inside the node.
	Handles() []HandleMeasurement
}

// HandleMeasurement is the host's view of one rendered handle element.
type HandleMeasurement struct {
	ID         string
	Type       HandleType
	Position   HandlePosition
	Bounds     geometry.Rect       // on-screen
	Dimensions geometry.Dimensions // unscaled
}

// MeasureHandleBounds converts on-screen handle boxes into node-local space
// by removing the node's screen origin and the current zoom.
func MeasureHandleBounds(m Measurement, zoom float64) *HandleBounds {
	if zoom == 0 {
		zoom = 1
	}
	nodeBounds := m.Bounds()

	var hb HandleBounds
	for _, h := range m.Handles() {
		el := HandleElement{
			ID:       h.ID,
			Position: h.Position,
			X:        (h.Bounds.X - nodeBounds.X) / zoom,
			Y:        (h.Bounds.Y - nodeBounds.Y) / zoom,
			Width:    h.Dimensions.Width,
			Height:   h.Dimensions.Height,
		}
		switch h.Type {
		case HandleSource:
			hb.Source = append(hb.Source, el)
		case HandleTarget:
			hb.Target = append(hb.Target, el)
		}
	}
	return &hb
}
