package nav

import "github.com/7mk4a/college-map/pkg/types"

const (
	minScale        = 0.5
	maxScale        = 4.0
	zoomSensitivity = 0.001
)

// Viewport holds the pan/zoom transform for the floor map surface. One
// viewport is shared across floor switches: switching floors keeps the
// current pan and zoom (an explicit Reset is offered, but never automatic).
//
// Zoom is anchored at the coordinate-space origin, not the pointer. That
// matches the shipped behavior; don't "fix" it here.
type Viewport struct {
	Scale   float64
	OffsetX float64
	OffsetY float64

	dragging bool
	lastX    float64
	lastY    float64
}

func NewViewport() *Viewport {
	return &Viewport{Scale: 1}
}

// Zoom applies a wheel delta and returns the new scale, clamped to
// [0.5, 4]. Saturated input in the same direction is a no-op.
func (v *Viewport) Zoom(deltaY float64) float64 {
	s := v.Scale - deltaY*zoomSensitivity
	if s < minScale {
		s = minScale
	}
	if s > maxScale {
		s = maxScale
	}
	v.Scale = s
	return s
}

// BeginDrag starts a pan gesture at the given screen position.
func (v *Viewport) BeginDrag(x, y float64) {
	v.dragging = true
	v.lastX, v.lastY = x, y
}

// Drag continues a pan gesture; no-op unless a drag is held.
func (v *Viewport) Drag(x, y float64) {
	if !v.dragging {
		return
	}
	v.PanBy(x-v.lastX, y-v.lastY)
	v.lastX, v.lastY = x, y
}

// EndDrag releases the pan gesture.
func (v *Viewport) EndDrag() {
	v.dragging = false
}

// Dragging reports whether a pan gesture is held.
func (v *Viewport) Dragging() bool {
	return v.dragging
}

// PanBy accumulates a screen-space offset.
func (v *Viewport) PanBy(dx, dy float64) {
	v.OffsetX += dx
	v.OffsetY += dy
}

// ToScreen maps a floor-image point to screen coordinates.
func (v *Viewport) ToScreen(p types.Vec2) (float64, float64) {
	return p.X*v.Scale + v.OffsetX, p.Y*v.Scale + v.OffsetY
}

// Reset restores the identity transform.
func (v *Viewport) Reset() {
	v.Scale = 1
	v.OffsetX = 0
	v.OffsetY = 0
}
