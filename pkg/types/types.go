package types

import "math"

type Vec2 struct {
	X float64
	Y float64
}

func NewVec2(x, y float64) Vec2 {
	return Vec2{x, y}
}

func (v1 Vec2) DistanceTo(v2 Vec2) float64 {
	dx := v1.X - v2.X
	dy := v1.Y - v2.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// NodeType classifies a point of interest in the building graph.
type NodeType string

const (
	NodeRoom       NodeType = "room"
	NodeDepartment NodeType = "department"
	NodeCorridor   NodeType = "corridor"
	NodeStairs     NodeType = "stairs"
	NodeElevator   NodeType = "elevator"
)

// Node is a named, floor-located point of interest. Names are unique and
// user-facing.
type Node struct {
	Name  string   `json:"name"`
	X     float64  `json:"x"`
	Y     float64  `json:"y"`
	Floor int      `json:"floor"`
	Type  NodeType `json:"type"`
}

func (n Node) Position() Vec2 {
	return Vec2{n.X, n.Y}
}

// Mode is an opaque routing hint passed through to the route service.
type Mode string

const (
	ModeNormal     Mode = "normal"     // fastest
	ModeStairs     Mode = "stairs"     // favor stairs over the elevator
	ModeWheelchair Mode = "wheelchair" // elevator only, stairs forbidden
)

// Waypoint is one point of a computed route, in the pixel space of the
// floor it lies on. A floor change between consecutive waypoints denotes a
// vertical transition with no drawable in-floor line between them.
type Waypoint struct {
	Name  string  `json:"name"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Floor int     `json:"floor"`
}

func (w Waypoint) Position() Vec2 {
	return Vec2{w.X, w.Y}
}

// Route is the full computed path plus aggregate stats and textual
// directions, exactly as the route service returns it.
type Route struct {
	Waypoints           []Waypoint
	TotalTimeSeconds    float64
	TotalDistanceMeters float64
	Directions          []string
}

// OccupancyStatus is the live status of a room/department destination.
type OccupancyStatus string

const (
	OccupancyOccupied  OccupancyStatus = "Occupied"
	OccupancyAvailable OccupancyStatus = "Available"
	OccupancyUnknown   OccupancyStatus = "unknown"
)

type OccupancyDetails struct {
	Course     string `json:"course"`
	Instructor string `json:"instructor"`
	Time       string `json:"time"` // "HH:MM - HH:MM"
}

type Occupancy struct {
	Status  OccupancyStatus   `json:"status"`
	Details *OccupancyDetails `json:"details,omitempty"`
}

// SearchResult is one schedule entry matched by a free-text search.
type SearchResult struct {
	Course     string `json:"course"`
	Room       string `json:"room"`
	Instructor string `json:"instructor,omitempty"`
	Day        string `json:"day"`
	Start      string `json:"start"`
	End        string `json:"end"`
}
