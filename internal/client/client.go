// Package client provides the HTTP client for the campus map REST API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/7mk4a/college-map/pkg/types"
)

// Client is an HTTP client for the map service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a new API client. baseURL is the service root, e.g.
// "http://127.0.0.1:5000".
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// BaseURL returns the configured service root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// pathRequest is the JSON body for POST /api/path.
type pathRequest struct {
	Start string `json:"start"`
	End   string `json:"end"`
	Mode  string `json:"mode"`
}

// pathResponse is the JSON response for a successful path query.
type pathResponse struct {
	Path                []string         `json:"path"`
	PathDetails         []types.Waypoint `json:"path_details"`
	TotalTimeSeconds    float64          `json:"total_time_seconds"`
	TotalDistanceMeters float64          `json:"total_distance_meters"`
	Directions          []string         `json:"directions"`
}

// Nodes fetches the node directory.
func (c *Client) Nodes(ctx context.Context) ([]types.Node, error) {
	var nodes []types.Node
	if err := c.getJSON(ctx, "/api/nodes", nil, &nodes); err != nil {
		return nil, fmt.Errorf("fetch nodes: %w", err)
	}
	return nodes, nil
}

// Path requests a route for (start, end, mode).
func (c *Client) Path(ctx context.Context, start, end string, mode types.Mode) (*types.Route, error) {
	body, err := json.Marshal(pathRequest{Start: start, End: end, Mode: string(mode)})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/path", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch path: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch path: unexpected status %d", resp.StatusCode)
	}

	var pr pathResponse
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		return nil, fmt.Errorf("fetch path: decode: %w", err)
	}

	return &types.Route{
		Waypoints:           pr.PathDetails,
		TotalTimeSeconds:    pr.TotalTimeSeconds,
		TotalDistanceMeters: pr.TotalDistanceMeters,
		Directions:          pr.Directions,
	}, nil
}

// RoomSchedule fetches the current occupancy of a room.
func (c *Client) RoomSchedule(ctx context.Context, roomName string) (*types.Occupancy, error) {
	var occ types.Occupancy
	if err := c.getJSON(ctx, "/api/schedule/"+url.PathEscape(roomName), nil, &occ); err != nil {
		return nil, fmt.Errorf("fetch schedule for %s: %w", roomName, err)
	}
	return &occ, nil
}

// SearchSchedule runs a free-text search over the lecture schedule.
func (c *Client) SearchSchedule(ctx context.Context, query string) ([]types.SearchResult, error) {
	var results []types.SearchResult
	q := url.Values{"q": {query}}
	if err := c.getJSON(ctx, "/api/schedule/search", q, &results); err != nil {
		return nil, fmt.Errorf("search schedule: %w", err)
	}
	return results, nil
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out interface{}) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
