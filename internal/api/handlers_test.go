package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/7mk4a/college-map/internal/mapdata"
	"github.com/7mk4a/college-map/internal/route"
	"github.com/7mk4a/college-map/internal/schedule"
	"github.com/7mk4a/college-map/pkg/types"
)

const testMap = `
nodes:
  - name: Gate-1
    x: 0
    y: 0
    floor: 0
    neighbors: [Room-101]
  - name: Room-101
    x: 100
    y: 0
    floor: 0
    type: room
    neighbors: [Gate-1]
  - name: Island
    x: 500
    y: 500
    floor: 0
    neighbors: []
`

const testScheduleData = `
schedule:
  - course: Algorithms
    room: Room-101
    instructor: Dr. Salem
    day: Monday
    start: "10:00"
    end: "11:30"
`

func testRoutes(t *testing.T) http.Handler {
	t.Helper()
	g, err := mapdata.Parse([]byte(testMap))
	if err != nil {
		t.Fatal(err)
	}
	store, err := schedule.Parse([]byte(testScheduleData))
	if err != nil {
		t.Fatal(err)
	}
	store.Now = func() time.Time {
		return time.Date(2025, 3, 10, 10, 30, 0, 0, time.UTC) // Monday
	}
	engine := route.NewEngine(g)
	engine.Now = store.Now
	return Routes(DefaultConfig(""), NewHandlers(g, engine, store))
}

func TestHandleNodes(t *testing.T) {
	w := httptest.NewRecorder()
	testRoutes(t).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/nodes", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var nodes []types.Node
	if err := json.NewDecoder(w.Body).Decode(&nodes); err != nil {
		t.Fatal(err)
	}
	if len(nodes) != 3 || nodes[0].Name != "Gate-1" {
		t.Errorf("nodes = %+v", nodes)
	}
}

func TestHandlePath(t *testing.T) {
	body := strings.NewReader(`{"start":"Gate-1","end":"Room-101","mode":"normal"}`)
	w := httptest.NewRecorder()
	testRoutes(t).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/path", body))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp PathResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Path) != 2 || len(resp.PathDetails) != 2 {
		t.Errorf("path = %v, details = %v", resp.Path, resp.PathDetails)
	}
	if resp.TotalTimeSeconds <= 0 || resp.TotalDistanceMeters <= 0 {
		t.Errorf("stats = (%f, %f)", resp.TotalTimeSeconds, resp.TotalDistanceMeters)
	}
	if len(resp.Directions) == 0 {
		t.Error("directions missing")
	}
}

func TestHandlePathValidation(t *testing.T) {
	cases := []struct {
		name string
		body string
		want int
	}{
		{"missing end", `{"start":"Gate-1"}`, http.StatusBadRequest},
		{"bad json", `{`, http.StatusBadRequest},
		{"unknown node", `{"start":"Gate-1","end":"Nowhere"}`, http.StatusNotFound},
		{"disconnected", `{"start":"Gate-1","end":"Island"}`, http.StatusNotFound},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			testRoutes(t).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/path", strings.NewReader(tt.body)))
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}
}

func TestHandleSchedule(t *testing.T) {
	w := httptest.NewRecorder()
	testRoutes(t).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/schedule/Room-101", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var occ types.Occupancy
	if err := json.NewDecoder(w.Body).Decode(&occ); err != nil {
		t.Fatal(err)
	}
	if occ.Status != types.OccupancyOccupied {
		t.Errorf("status = %s, want Occupied at 10:30 Monday", occ.Status)
	}
}

func TestHandleSearch(t *testing.T) {
	w := httptest.NewRecorder()
	testRoutes(t).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/schedule/search?q=algo", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var results []types.SearchResult
	if err := json.NewDecoder(w.Body).Decode(&results); err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].Room != "Room-101" {
		t.Errorf("results = %+v", results)
	}

	// No matches must still be a JSON array, not null.
	w = httptest.NewRecorder()
	testRoutes(t).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/schedule/search?q=zzz", nil))
	if got := strings.TrimSpace(w.Body.String()); got != "[]" {
		t.Errorf("empty search body = %q, want []", got)
	}
}

func TestHandleHealth(t *testing.T) {
	w := httptest.NewRecorder()
	testRoutes(t).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK {
		t.Errorf("status = %d", w.Code)
	}
}
