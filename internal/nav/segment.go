package nav

import (
	"github.com/7mk4a/college-map/pkg/types"
)

// Segment is a maximal run of consecutive same-floor waypoints, the unit of
// drawable polyline. Re-entering a floor after leaving it starts a new
// Segment; runs are never merged across a floor change.
type Segment []types.Waypoint

// SegmentsForFloor splits a route's waypoints into the ordered segments
// lying on the given floor. Empty segments are never emitted. A singleton
// segment is still returned (it carries the start/end marker when a route
// enters or leaves the floor through a vertical transition); whether it is
// drawn as a line is the renderer's call, see Drawable.
func SegmentsForFloor(waypoints []types.Waypoint, floor int) []Segment {
	var segments []Segment
	var current Segment

	for _, wp := range waypoints {
		if wp.Floor == floor {
			current = append(current, wp)
			continue
		}
		if len(current) > 0 {
			segments = append(segments, current)
			current = nil
		}
	}
	if len(current) > 0 {
		segments = append(segments, current)
	}
	return segments
}

// Drawable reports whether the segment carries a drawable edge. Singletons
// have none; they are marker-only.
func (s Segment) Drawable() bool {
	return len(s) >= 2
}

// Length is the sum of Euclidean distances between consecutive points, in
// floor-image pixels. Used to scale the route draw-in animation, nothing
// else depends on it.
func (s Segment) Length() float64 {
	total := 0.0
	for i := 1; i < len(s); i++ {
		total += s[i-1].Position().DistanceTo(s[i].Position())
	}
	return total
}
