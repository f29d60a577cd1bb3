package api

import "github.com/7mk4a/college-map/pkg/types"

// PathRequest is the JSON body for POST /api/path.
type PathRequest struct {
	Start string `json:"start"`
	End   string `json:"end"`
	Mode  string `json:"mode"`
}

// PathResponse is the JSON response for a successful path query.
type PathResponse struct {
	Path                []string         `json:"path"`
	PathDetails         []types.Waypoint `json:"path_details"`
	TotalTimeSeconds    float64          `json:"total_time_seconds"`
	TotalDistanceMeters float64          `json:"total_distance_meters"`
	Directions          []string         `json:"directions"`
}

// ErrorResponse is the JSON response for errors.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse is the JSON response for GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}
