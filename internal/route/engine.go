// Package route computes timed walking routes over the building graph and
// renders them as turn-by-turn directions. It backs the dev map server; the
// client only ever sees the resulting waypoint sequence.
package route

import (
	"container/heap"
	"errors"
	"math"
	"time"

	"github.com/7mk4a/college-map/internal/mapdata"
	"github.com/7mk4a/college-map/pkg/types"
)

var (
	ErrUnknownNode = errors.New("unknown node")
	ErrNoPath      = errors.New("no path found")
)

// Calibration and timing constants for the campus building.
const (
	metersPerPixel = 67.0 / 857.0
	walkSpeed      = 0.5486 // m/s, average
	maxSpeed       = 1.2    // m/s, heuristic bound

	breakStartHour     = 13
	breakEndHour       = 14
	elevatorBreakDelay = 60 // extra seconds during the break rush

	stairsModeElevatorPenalty = 120 // favor stairs by penalizing the elevator
)

// Inter-floor transition timings, seconds, keyed by the unordered floor pair.
var (
	elevatorTimes = map[[2]int]float64{
		{0, 1}: 18,
		{0, 2}: 25,
		{1, 2}: 15,
	}
	stairsTimes = map[[2]int]float64{
		{0, 1}: 30,
		{0, 2}: 55,
		{1, 2}: 25,
	}
	floorDistances = map[[2]int]float64{
		{0, 1}: 6.2,
		{0, 2}: 11.2,
		{1, 2}: 5.0,
	}
)

func floorPair(a, b int) [2]int {
	if a > b {
		a, b = b, a
	}
	return [2]int{a, b}
}

// Result is a computed route before it is shaped into the wire response.
type Result struct {
	Path           []string
	TimeSeconds    float64
	DistanceMeters float64
}

// Engine routes over one loaded graph. Now is injectable so tests can pin
// the elevator break window.
type Engine struct {
	Graph *mapdata.Graph
	Now   func() time.Time
}

func NewEngine(g *mapdata.Graph) *Engine {
	return &Engine{Graph: g, Now: time.Now}
}

func (e *Engine) pixelDistance(a, b types.Node) float64 {
	return a.Position().DistanceTo(b.Position())
}

func (e *Engine) meters(a, b types.Node) float64 {
	return e.pixelDistance(a, b) * metersPerPixel
}

// edgeCost is the traversal time of one edge in seconds. Stairs are
// impassable in wheelchair mode. The elevator carries the lunch-break
// delay, plus a penalty in stairs mode so routes favor the stairwell.
func (e *Engine) edgeCost(a, b types.Node, mode types.Mode) float64 {
	isStairs := a.Type == types.NodeStairs && b.Type == types.NodeStairs
	isElevator := a.Type == types.NodeElevator && b.Type == types.NodeElevator

	if isStairs {
		if mode == types.ModeWheelchair {
			return math.Inf(1)
		}
		if t, ok := stairsTimes[floorPair(a.Floor, b.Floor)]; ok {
			return t
		}
	}

	if isElevator {
		extra := 0.0
		hour := e.Now().Hour()
		if hour >= breakStartHour && hour < breakEndHour {
			extra += elevatorBreakDelay
		}
		if mode == types.ModeStairs {
			extra += stairsModeElevatorPenalty
		}
		if t, ok := elevatorTimes[floorPair(a.Floor, b.Floor)]; ok {
			return t + extra
		}
	}

	return e.meters(a, b) / walkSpeed
}

func (e *Engine) heuristic(n, goal types.Node) float64 {
	flat := e.meters(n, goal)
	if n.Floor != goal.Floor {
		if vertical, ok := floorDistances[floorPair(n.Floor, goal.Floor)]; ok {
			return math.Hypot(flat, vertical) / maxSpeed
		}
	}
	return flat / maxSpeed
}

// Route runs A* from start to goal for the given mode.
func (e *Engine) Route(start, goal string, mode types.Mode) (*Result, error) {
	startNode, ok := e.Graph.Nodes[start]
	if !ok {
		return nil, ErrUnknownNode
	}
	goalNode, ok := e.Graph.Nodes[goal]
	if !ok {
		return nil, ErrUnknownNode
	}

	gTime := map[string]float64{start: 0}
	gDist := map[string]float64{start: 0}
	cameFrom := map[string]string{}
	closed := map[string]bool{}

	pq := &priorityQueue{}
	heap.Init(pq)
	heap.Push(pq, &pqItem{node: start, f: e.heuristic(startNode, goalNode)})

	for pq.Len() > 0 {
		current := heap.Pop(pq).(*pqItem).node
		if closed[current] {
			continue
		}
		closed[current] = true

		if current == goal {
			return &Result{
				Path:           reconstruct(cameFrom, goal),
				TimeSeconds:    gTime[goal],
				DistanceMeters: gDist[goal],
			}, nil
		}

		currentNode := e.Graph.Nodes[current]
		for _, neighbor := range e.Graph.Neighbors[current] {
			if closed[neighbor] {
				continue
			}
			neighborNode := e.Graph.Nodes[neighbor]
			cost := e.edgeCost(currentNode, neighborNode, mode)
			if math.IsInf(cost, 1) {
				continue
			}

			tentative := gTime[current] + cost
			if best, seen := gTime[neighbor]; seen && tentative >= best {
				continue
			}
			gTime[neighbor] = tentative
			gDist[neighbor] = gDist[current] + e.meters(currentNode, neighborNode)
			cameFrom[neighbor] = current
			heap.Push(pq, &pqItem{node: neighbor, f: tentative + e.heuristic(neighborNode, goalNode)})
		}
	}

	return nil, ErrNoPath
}

// Waypoints shapes a node path into the wire waypoint sequence.
func (e *Engine) Waypoints(path []string) []types.Waypoint {
	wps := make([]types.Waypoint, len(path))
	for i, name := range path {
		n := e.Graph.Nodes[name]
		wps[i] = types.Waypoint{Name: n.Name, X: n.X, Y: n.Y, Floor: n.Floor}
	}
	return wps
}

func reconstruct(cameFrom map[string]string, goal string) []string {
	path := []string{goal}
	for {
		prev, ok := cameFrom[path[len(path)-1]]
		if !ok {
			break
		}
		path = append(path, prev)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

type pqItem struct {
	node string
	f    float64
}

type priorityQueue []*pqItem

func (pq priorityQueue) Len() int            { return len(pq) }
func (pq priorityQueue) Less(i, j int) bool  { return pq[i].f < pq[j].f }
func (pq priorityQueue) Swap(i, j int)       { pq[i], pq[j] = pq[j], pq[i] }
func (pq *priorityQueue) Push(x interface{}) { *pq = append(*pq, x.(*pqItem)) }
func (pq *priorityQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]
	return item
}
