package route

import (
	"fmt"
	"math"

	"github.com/7mk4a/college-map/pkg/types"
)

// Directions renders a node path as human-readable turn-by-turn steps:
// a start line, a step per leg (straight/left/right classified by heading
// change, or the vertical transition), and an arrival line.
func (e *Engine) Directions(path []string) []string {
	if len(path) < 2 {
		return nil
	}

	directions := []string{"Start at " + e.describe(path[0])}
	havePrevAngle := false
	prevAngle := 0.0

	for i := 0; i < len(path)-1; i++ {
		current := e.Graph.Nodes[path[i]]
		next := e.Graph.Nodes[path[i+1]]
		target := e.describe(path[i+1])
		placeAhead := e.nearbyPlace(path[i+1])

		if current.Floor != next.Floor {
			switch {
			case current.Type == types.NodeStairs || next.Type == types.NodeStairs:
				way := "DOWN"
				if next.Floor > current.Floor {
					way = "UP"
				}
				directions = append(directions, fmt.Sprintf("Take the stairs %s to floor %d", way, next.Floor))
			case current.Type == types.NodeElevator || next.Type == types.NodeElevator:
				directions = append(directions, fmt.Sprintf("Take the elevator to floor %d", next.Floor))
			}
			if next.Type != types.NodeStairs && next.Type != types.NodeElevator {
				directions = append(directions, "Exit and head towards "+target)
			}
			havePrevAngle = false
			continue
		}

		angle := math.Atan2(next.Y-current.Y, next.X-current.X) * 180 / math.Pi
		if angle < 0 {
			angle += 360
		}

		if !havePrevAngle {
			if placeAhead != "" {
				directions = append(directions, fmt.Sprintf("Walk forward (you'll pass near %s)", placeAhead))
			} else {
				directions = append(directions, "Walk forward along the corridor")
			}
			prevAngle = angle
			havePrevAngle = true
			continue
		}

		turn := angle - prevAngle
		for turn > 180 {
			turn -= 360
		}
		for turn < -180 {
			turn += 360
		}

		var move string
		switch {
		case turn >= -45 && turn <= 45:
			move = "Continue straight"
		case turn > 45 && turn <= 135:
			move = "Turn RIGHT"
		case turn >= -135 && turn < -45:
			move = "Turn LEFT"
		default:
			move = "Turn AROUND"
		}

		if placeAhead != "" {
			directions = append(directions, move+" towards "+placeAhead)
		} else {
			directions = append(directions, move+" along the corridor")
		}
		prevAngle = angle
	}

	final := e.Graph.Nodes[path[len(path)-1]]
	switch final.Type {
	case types.NodeRoom:
		directions = append(directions, "You have arrived at room "+final.Name)
	case types.NodeDepartment:
		directions = append(directions, "You have arrived at "+final.Name)
	default:
		directions = append(directions, "You have arrived at your destination")
	}
	return directions
}

// describe names rooms and departments; everything else is "the corridor".
func (e *Engine) describe(name string) string {
	switch e.Graph.Nodes[name].Type {
	case types.NodeRoom, types.NodeDepartment:
		return name
	default:
		return "the corridor"
	}
}

// nearbyPlace finds a room or department adjacent to the node, used to
// anchor direction steps to landmarks.
func (e *Engine) nearbyPlace(name string) string {
	for _, neighbor := range e.Graph.Neighbors[name] {
		t := e.Graph.Nodes[neighbor].Type
		if t == types.NodeRoom || t == types.NodeDepartment {
			return neighbor
		}
	}
	return ""
}
