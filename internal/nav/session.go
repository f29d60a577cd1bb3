package nav

import (
	"context"
	"time"

	"github.com/labstack/gommon/log"

	"github.com/7mk4a/college-map/internal/async"
	"github.com/7mk4a/college-map/pkg/types"
)

// API is the slice of the map service the navigation session talks to.
// *client.Client satisfies it.
type API interface {
	Nodes(ctx context.Context) ([]types.Node, error)
	Path(ctx context.Context, start, end string, mode types.Mode) (*types.Route, error)
	RoomSchedule(ctx context.Context, roomName string) (*types.Occupancy, error)
}

// Notice is a user-visible status line.
type Notice struct {
	Timestamp time.Time
	Text      string
	IsError   bool
}

const maxNotices = 20

// Session is the navigation session controller. It owns the current
// selection (start, end, mode, floor), the loaded route and its stats, and
// the occupancy of the destination. All fields are mutated only through the
// session's own methods, and only on the game loop: network results come
// back through the dispatch queue.
//
// Repeated Go calls are not ordered against each other; a slow earlier
// request completing late overwrites a newer result. Last response wins.
// The search session handles staleness; this one deliberately does not.
type Session struct {
	Nodes     []types.Node
	Start     string
	End       string
	Mode      types.Mode
	Floor     int
	Route     *types.Route
	Occupancy *types.Occupancy
	Notices   []Notice

	byName map[string]types.Node
	api    API
	queue  *async.Queue
}

func NewSession(api API, queue *async.Queue) *Session {
	return &Session{
		Mode:   types.ModeNormal,
		byName: make(map[string]types.Node),
		api:    api,
		queue:  queue,
	}
}

// LoadDirectory fetches the node directory in the background. The snapshot
// lands on the next frame after the fetch completes.
func (s *Session) LoadDirectory() {
	go func() {
		nodes, err := s.api.Nodes(context.Background())
		s.queue.Post(func() {
			if err != nil {
				log.Errorf("load directory: %v", err)
				s.addNotice("Could not load locations. Please restart.", true)
				return
			}
			s.Nodes = nodes
			s.byName = make(map[string]types.Node, len(nodes))
			for _, n := range nodes {
				s.byName[n.Name] = n
			}
			log.Infof("directory loaded: %d nodes", len(nodes))
		})
	}()
}

// NodeByName looks a node up in the directory snapshot.
func (s *Session) NodeByName(name string) (types.Node, bool) {
	n, ok := s.byName[name]
	return n, ok
}

// SetStart records the start location. No validation happens until Go.
func (s *Session) SetStart(name string) {
	s.Start = name
}

// SetEnd records the destination. No validation happens until Go.
func (s *Session) SetEnd(name string) {
	s.End = name
}

// SetMode records the routing mode.
func (s *Session) SetMode(mode types.Mode) {
	s.Mode = mode
}

// SetFloor switches the displayed floor. The viewport transform is owned by
// the caller and is not touched.
func (s *Session) SetFloor(floor int) {
	s.Floor = floor
}

// Go requests a route for the current selection. A missing or self-targeted
// selection is a no-op, not an error. On success the route and its stats
// are stored, the displayed floor jumps to the start node's floor, and a
// best-effort occupancy lookup is issued when the destination is a room or
// department. On failure a notice is surfaced and prior state is kept.
func (s *Session) Go() {
	if s.Start == "" || s.End == "" || s.Start == s.End {
		return
	}
	if len(s.byName) > 0 {
		if _, ok := s.byName[s.Start]; !ok {
			s.addNotice("Unknown start location: "+s.Start, true)
			return
		}
		if _, ok := s.byName[s.End]; !ok {
			s.addNotice("Unknown destination: "+s.End, true)
			return
		}
	}

	start, end, mode := s.Start, s.End, s.Mode
	go func() {
		route, err := s.api.Path(context.Background(), start, end, mode)
		s.queue.Post(func() {
			s.applyRoute(start, end, route, err)
		})
	}()
}

func (s *Session) applyRoute(start, end string, route *types.Route, err error) {
	if err != nil {
		log.Errorf("path %s -> %s: %v", start, end, err)
		s.addNotice("Could not calculate path. Please try again.", true)
		return
	}

	s.Route = route
	s.Occupancy = nil
	s.addNotice("Route found: "+start+" -> "+end, false)

	// Auto-switch to the floor the route starts on.
	if n, ok := s.byName[start]; ok {
		s.Floor = n.Floor
	}

	// Occupancy only matters for rooms and departments, and only
	// best-effort: a failed lookup downgrades to unknown, never fails the
	// navigation.
	if n, ok := s.byName[end]; ok && (n.Type == types.NodeRoom || n.Type == types.NodeDepartment) {
		go func() {
			occ, occErr := s.api.RoomSchedule(context.Background(), end)
			s.queue.Post(func() {
				if occErr != nil {
					log.Warnf("occupancy %s: %v", end, occErr)
					s.Occupancy = nil
					return
				}
				s.Occupancy = occ
			})
		}()
	}
}

// Reset returns the session to its initial data state: route, stats,
// directions, occupancy, start and end are cleared. Mode and the displayed
// floor stay. Idempotent.
func (s *Session) Reset() {
	s.Route = nil
	s.Occupancy = nil
	s.Start = ""
	s.End = ""
}

func (s *Session) addNotice(text string, isError bool) {
	s.Notices = append(s.Notices, Notice{
		Timestamp: time.Now(),
		Text:      text,
		IsError:   isError,
	})
	if len(s.Notices) > maxNotices {
		s.Notices = s.Notices[len(s.Notices)-maxNotices:]
	}
}
