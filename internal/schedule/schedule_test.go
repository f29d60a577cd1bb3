package schedule

import (
	"testing"
	"time"

	"github.com/7mk4a/college-map/pkg/types"
)

const testSchedule = `
schedule:
  - course: Algorithms
    room: Room-204
    instructor: Dr. Salem
    day: Monday
    start: "10:00"
    end: "11:30"
  - course: Databases
    room: Room-204
    instructor: Dr. Mona
    day: Monday
    start: "13:00"
    end: "14:30"
  - course: Physics Lab
    room: Lab-3
    instructor: Dr. Salem
    day: Tuesday
    start: "09:00"
    end: "12:00"
  - course: Broken Entry
    room: Room-204
    instructor: Nobody
    day: Monday
    start: "bad"
    end: "worse"
`

// 2025-03-10 is a Monday.
func mondayAt(hour, minute int) func() time.Time {
	return func() time.Time {
		return time.Date(2025, 3, 10, hour, minute, 0, 0, time.UTC)
	}
}

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Parse([]byte(testSchedule))
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestOccupancyDuringLecture(t *testing.T) {
	s := testStore(t)
	s.Now = mondayAt(10, 30)

	occ := s.Occupancy("Room-204")
	if occ.Status != types.OccupancyOccupied {
		t.Fatalf("status = %s, want Occupied", occ.Status)
	}
	if occ.Details == nil || occ.Details.Course != "Algorithms" {
		t.Errorf("details = %+v, want Algorithms", occ.Details)
	}
	if occ.Details.Time != "10:00 - 11:30" {
		t.Errorf("time = %q", occ.Details.Time)
	}
}

func TestOccupancyWindowBoundsAreInclusive(t *testing.T) {
	s := testStore(t)

	s.Now = mondayAt(10, 0)
	if got := s.Occupancy("Room-204").Status; got != types.OccupancyOccupied {
		t.Errorf("at start bound status = %s, want Occupied", got)
	}
	s.Now = mondayAt(11, 30)
	if got := s.Occupancy("Room-204").Status; got != types.OccupancyOccupied {
		t.Errorf("at end bound status = %s, want Occupied", got)
	}
	s.Now = mondayAt(11, 31)
	if got := s.Occupancy("Room-204").Status; got != types.OccupancyAvailable {
		t.Errorf("just past end status = %s, want Available", got)
	}
}

func TestOccupancyWrongDayOrRoomIsAvailable(t *testing.T) {
	s := testStore(t)
	s.Now = mondayAt(10, 30)

	if got := s.Occupancy("Lab-3").Status; got != types.OccupancyAvailable {
		t.Errorf("Lab-3 on Monday = %s, want Available (its lecture is Tuesday)", got)
	}
	if got := s.Occupancy("Room-999").Status; got != types.OccupancyAvailable {
		t.Errorf("unknown room = %s, want Available", got)
	}
}

func TestOccupancySkipsMalformedEntries(t *testing.T) {
	s := testStore(t)
	s.Now = mondayAt(15, 0) // only the broken entry could match now

	if got := s.Occupancy("Room-204").Status; got != types.OccupancyAvailable {
		t.Errorf("status = %s, want Available (malformed entry skipped)", got)
	}
}

func TestSearchMatchesCourseInstructorAndRoom(t *testing.T) {
	s := testStore(t)

	if got := s.Search("algo"); len(got) != 1 || got[0].Course != "Algorithms" {
		t.Errorf("Search(algo) = %+v", got)
	}
	if got := s.Search("salem"); len(got) != 2 {
		t.Errorf("Search(salem) matched %d entries, want 2", len(got))
	}
	if got := s.Search("lab-3"); len(got) != 1 || got[0].Room != "Lab-3" {
		t.Errorf("Search(lab-3) = %+v", got)
	}
	if got := s.Search("zzz"); got != nil {
		t.Errorf("Search(zzz) = %+v, want nil", got)
	}
}
