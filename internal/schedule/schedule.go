// Package schedule serves room occupancy and free-text lecture search from
// a YAML schedule file.
package schedule

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/7mk4a/college-map/pkg/types"
)

// Entry is one scheduled lecture.
type Entry struct {
	Course     string `yaml:"course"`
	Room       string `yaml:"room"`
	Instructor string `yaml:"instructor"`
	Group      string `yaml:"group"`
	Day        string `yaml:"day"` // weekday name, e.g. "Monday"
	Start      string `yaml:"start"`
	End        string `yaml:"end"`
}

type scheduleFile struct {
	Schedule []Entry `yaml:"schedule"`
}

// Store answers occupancy and search queries over a loaded schedule. Now is
// injectable for tests.
type Store struct {
	Entries []Entry
	Now     func() time.Time
}

func Load(path string) (*Store, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schedule: %w", err)
	}
	return Parse(raw)
}

func Parse(raw []byte) (*Store, error) {
	var sf scheduleFile
	if err := yaml.Unmarshal(raw, &sf); err != nil {
		return nil, fmt.Errorf("parse schedule: %w", err)
	}
	return &Store{Entries: sf.Schedule, Now: time.Now}, nil
}

// Occupancy reports whether a room is in use right now. A room with no
// matching lecture is Available; malformed entries are skipped.
func (s *Store) Occupancy(roomName string) types.Occupancy {
	now := s.Now()
	today := now.Weekday().String()
	nowMinutes := now.Hour()*60 + now.Minute()

	for _, entry := range s.Entries {
		if !strings.Contains(entry.Room, roomName) || entry.Day != today {
			continue
		}
		start, err := parseMinutes(entry.Start)
		if err != nil {
			continue
		}
		end, err := parseMinutes(entry.End)
		if err != nil {
			continue
		}
		if start <= nowMinutes && nowMinutes <= end {
			return types.Occupancy{
				Status: types.OccupancyOccupied,
				Details: &types.OccupancyDetails{
					Course:     entry.Course,
					Instructor: entry.Instructor,
					Time:       entry.Start + " - " + entry.End,
				},
			}
		}
	}
	return types.Occupancy{Status: types.OccupancyAvailable}
}

// Search matches the query case-insensitively against course, instructor
// and room.
func (s *Store) Search(query string) []types.SearchResult {
	q := strings.ToLower(query)
	var results []types.SearchResult
	for _, entry := range s.Entries {
		if strings.Contains(strings.ToLower(entry.Course), q) ||
			strings.Contains(strings.ToLower(entry.Instructor), q) ||
			strings.Contains(strings.ToLower(entry.Room), q) {
			results = append(results, types.SearchResult{
				Course:     entry.Course,
				Room:       entry.Room,
				Instructor: entry.Instructor,
				Day:        entry.Day,
				Start:      entry.Start,
				End:        entry.End,
			})
		}
	}
	return results
}

func parseMinutes(hhmm string) (int, error) {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}
