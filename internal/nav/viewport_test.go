package nav

import (
	"testing"

	"github.com/7mk4a/college-map/pkg/types"
)

func TestZoomClampSaturates(t *testing.T) {
	v := NewViewport()

	// Zoom out far past the lower bound.
	for i := 0; i < 20; i++ {
		v.Zoom(1000)
	}
	if v.Scale != 0.5 {
		t.Fatalf("scale after saturating out = %f, want 0.5", v.Scale)
	}
	if got := v.Zoom(1000); got != 0.5 {
		t.Errorf("further zoom out at the bound = %f, want 0.5", got)
	}

	// Zoom in far past the upper bound.
	for i := 0; i < 20; i++ {
		v.Zoom(-1000)
	}
	if v.Scale != 4 {
		t.Fatalf("scale after saturating in = %f, want 4", v.Scale)
	}
	if got := v.Zoom(-1000); got != 4 {
		t.Errorf("further zoom in at the bound = %f, want 4", got)
	}
}

func TestZoomSensitivity(t *testing.T) {
	v := NewViewport()
	if got := v.Zoom(100); got != 0.9 {
		t.Errorf("Zoom(100) = %f, want 0.9", got)
	}
}

func TestToScreenAppliesScaleThenOffset(t *testing.T) {
	v := NewViewport()
	v.Scale = 2
	v.PanBy(10, -5)

	x, y := v.ToScreen(types.NewVec2(3, 7))
	if x != 16 || y != 9 {
		t.Errorf("ToScreen = (%f, %f), want (16, 9)", x, y)
	}
}

func TestDragAccumulatesOnlyWhileHeld(t *testing.T) {
	v := NewViewport()

	// Moves without a held drag do nothing.
	v.Drag(50, 50)
	if v.OffsetX != 0 || v.OffsetY != 0 {
		t.Fatalf("offset moved without drag: (%f, %f)", v.OffsetX, v.OffsetY)
	}

	v.BeginDrag(10, 10)
	v.Drag(15, 12)
	v.Drag(20, 12)
	v.EndDrag()
	v.Drag(100, 100)

	if v.OffsetX != 10 || v.OffsetY != 2 {
		t.Errorf("offset = (%f, %f), want (10, 2)", v.OffsetX, v.OffsetY)
	}
}

func TestResetIsExplicitOnly(t *testing.T) {
	v := NewViewport()
	v.Zoom(-500)
	v.PanBy(40, 40)

	v.Reset()
	if v.Scale != 1 || v.OffsetX != 0 || v.OffsetY != 0 {
		t.Errorf("after Reset: scale=%f offset=(%f, %f), want identity", v.Scale, v.OffsetX, v.OffsetY)
	}
}
