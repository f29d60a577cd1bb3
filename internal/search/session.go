// Package search implements the schedule search-as-you-type session.
package search

import (
	"context"

	"github.com/labstack/gommon/log"

	"github.com/7mk4a/college-map/internal/async"
	"github.com/7mk4a/college-map/pkg/types"
)

// Client is the slice of the map service the search session uses.
type Client interface {
	SearchSchedule(ctx context.Context, query string) ([]types.SearchResult, error)
}

// Session is a debounced, race-resistant text search against the lecture
// schedule. Every issued request carries a monotonically increasing epoch;
// a response is applied only if it is still the most recently issued one,
// so an out-of-order late response can never overwrite newer results.
type Session struct {
	Query   string
	Results []types.SearchResult
	Visible bool
	Pending bool

	// OnPick publishes the room of a chosen result into the navigation
	// session. The search session never mutates the controller directly.
	OnPick func(room string)

	epoch  uint64
	client Client
	queue  *async.Queue
}

func NewSession(client Client, queue *async.Queue) *Session {
	return &Session{client: client, queue: queue}
}

// OnQueryChange reacts to the visible query text changing. One character or
// less means "no query": results clear and the panel hides. Anything longer
// issues a fresh search request.
func (s *Session) OnQueryChange(text string) {
	s.Query = text
	s.epoch++ // supersedes any in-flight request either way

	if len(text) <= 1 {
		s.Results = nil
		s.Visible = false
		s.Pending = false
		return
	}

	epoch := s.epoch
	s.Pending = true
	s.Visible = true

	go func() {
		results, err := s.client.SearchSchedule(context.Background(), text)
		s.queue.Post(func() {
			s.apply(epoch, results, err)
		})
	}()
}

func (s *Session) apply(epoch uint64, results []types.SearchResult, err error) {
	if epoch != s.epoch {
		// Superseded request; drop silently.
		return
	}
	s.Pending = false
	if err != nil {
		log.Warnf("schedule search: %v", err)
		return
	}
	s.Results = results
}

// Select picks a result: the destination becomes the result's room and the
// visible query text becomes the course name. Route computation stays a
// separate explicit action.
func (s *Session) Select(result types.SearchResult) {
	s.Query = result.Course
	s.Visible = false
	s.epoch++ // a late response must not reopen the panel's data
	s.Pending = false
	if s.OnPick != nil {
		s.OnPick(result.Room)
	}
}
