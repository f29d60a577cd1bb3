// Package api exposes the campus map collaborator interface over HTTP:
// the node directory, path computation, room occupancy and schedule search.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/7mk4a/college-map/internal/mapdata"
	"github.com/7mk4a/college-map/internal/route"
	"github.com/7mk4a/college-map/internal/schedule"
	"github.com/7mk4a/college-map/pkg/types"
)

// Handlers holds the HTTP handlers and their dependencies.
type Handlers struct {
	graph  *mapdata.Graph
	engine *route.Engine
	store  *schedule.Store
}

func NewHandlers(graph *mapdata.Graph, engine *route.Engine, store *schedule.Store) *Handlers {
	return &Handlers{graph: graph, engine: engine, store: store}
}

// HandleNodes handles GET /api/nodes.
func (h *Handlers) HandleNodes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.graph.Sorted())
}

// HandlePath handles POST /api/path.
func (h *Handlers) HandlePath(w http.ResponseWriter, r *http.Request) {
	var req PathRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4096)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	if req.Start == "" || req.End == "" {
		writeError(w, http.StatusBadRequest, "missing_start_or_end")
		return
	}
	mode := types.Mode(req.Mode)
	if mode == "" {
		mode = types.ModeNormal
	}

	result, err := h.engine.Route(req.Start, req.End, mode)
	if err != nil {
		if errors.Is(err, route.ErrUnknownNode) || errors.Is(err, route.ErrNoPath) {
			writeError(w, http.StatusNotFound, "no_path_found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error")
		return
	}

	writeJSON(w, PathResponse{
		Path:                result.Path,
		PathDetails:         h.engine.Waypoints(result.Path),
		TotalTimeSeconds:    result.TimeSeconds,
		TotalDistanceMeters: result.DistanceMeters,
		Directions:          h.engine.Directions(result.Path),
	})
}

// HandleSchedule handles GET /api/schedule/{room}.
func (h *Handlers) HandleSchedule(w http.ResponseWriter, r *http.Request) {
	room := r.PathValue("room")
	if room == "" {
		writeError(w, http.StatusBadRequest, "missing_room")
		return
	}
	writeJSON(w, h.store.Occupancy(room))
}

// HandleSearch handles GET /api/schedule/search?q=.
func (h *Handlers) HandleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	results := h.store.Search(q)
	if results == nil {
		results = []types.SearchResult{}
	}
	writeJSON(w, results)
}

// HandleHealth handles GET /health.
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, HealthResponse{Status: "ok"})
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Error: code})
}
