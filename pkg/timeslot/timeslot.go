// Package timeslot parses and compares the wall-clock time ranges stored on
// reservations (e.g. "08:00 - 12:00" or the legacy "Morning (8AM - 12PM)").
package timeslot

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	// ErrUnparsable is returned when a slot string matches no known format
	ErrUnparsable = errors.New("timeslot: unparsable time slot")

	// ErrInvertedRange is returned when the parsed end is not after the start
	ErrInvertedRange = errors.New("timeslot: end must be after start")
)

var (
	// "08:00 - 12:00", "8:00-12:00"
	reModern = regexp.MustCompile(`(\d{1,2}):(\d{2})\s*-\s*(\d{1,2}):(\d{2})`)

	// legacy "Morning (8AM - 12PM)"
	reLegacy = regexp.MustCompile(`(?i)(\d{1,2})\s*(AM|PM)\s*-\s*(\d{1,2})\s*(AM|PM)`)
)

// TimeRange is a start/end pair within a single day, stored as minutes from
// midnight. Invariant: Start < End.
type TimeRange struct {
	Start int
	End   int
}

// Parse extracts a TimeRange from a slot string. It tries the 24-hour
// "HH:MM - HH:MM" format first, then the legacy "<Period> (H AM - H PM)"
// format. Ranges with end <= start are rejected.
func Parse(slot string) (TimeRange, error) {
	if m := reModern.FindStringSubmatch(slot); m != nil {
		startHour, _ := strconv.Atoi(m[1])
		startMin, _ := strconv.Atoi(m[2])
		endHour, _ := strconv.Atoi(m[3])
		endMin, _ := strconv.Atoi(m[4])

		if startHour <= 23 && startMin <= 59 && endHour <= 23 && endMin <= 59 {
			tr := TimeRange{
				Start: startHour*60 + startMin,
				End:   endHour*60 + endMin,
			}
			if tr.End <= tr.Start {
				return TimeRange{}, fmt.Errorf("%w: %q", ErrInvertedRange, slot)
			}
			return tr, nil
		}
	}

	if m := reLegacy.FindStringSubmatch(slot); m != nil {
		startHour, _ := strconv.Atoi(m[1])
		endHour, _ := strconv.Atoi(m[3])

		startHour = to24Hour(startHour, strings.ToUpper(m[2]))
		endHour = to24Hour(endHour, strings.ToUpper(m[4]))

		tr := TimeRange{
			Start: startHour * 60,
			End:   endHour * 60,
		}
		if tr.End <= tr.Start {
			return TimeRange{}, fmt.Errorf("%w: %q", ErrInvertedRange, slot)
		}
		return tr, nil
	}

	return TimeRange{}, fmt.Errorf("%w: %q", ErrUnparsable, slot)
}

// FromMinutes builds a TimeRange from minutes-from-midnight boundaries.
func FromMinutes(start, end int) (TimeRange, error) {
	if end <= start {
		return TimeRange{}, fmt.Errorf("%w: %d-%d", ErrInvertedRange, start, end)
	}
	return TimeRange{Start: start, End: end}, nil
}

// DurationHours returns the fractional duration of the range in hours.
func (t TimeRange) DurationHours() float64 {
	return float64(t.End-t.Start) / 60.0
}

// DurationMinutes returns the duration of the range in whole minutes.
func (t TimeRange) DurationMinutes() int {
	return t.End - t.Start
}

// Overlaps reports whether two ranges share at least one interior instant.
// Touching boundaries (a.End == b.Start) do not overlap.
func (t TimeRange) Overlaps(other TimeRange) bool {
	return t.Start < other.End && other.Start < t.End
}

// String renders the range back in the canonical "HH:MM - HH:MM" form.
func (t TimeRange) String() string {
	return fmt.Sprintf("%02d:%02d - %02d:%02d", t.Start/60, t.Start%60, t.End/60, t.End%60)
}

// SlotsOverlap compares two slot strings for overlap. When either operand
// cannot be parsed it degrades to exact string equality so that two copies of
// the same unparsable legacy slot still collide. This weakens the overlap
// guarantee for differently-formatted but identical ranges; kept intentionally
// for backward compatibility with rows written before the format migration.
func SlotsOverlap(a, b string) bool {
	ra, errA := Parse(a)
	rb, errB := Parse(b)
	if errA != nil || errB != nil {
		return a == b
	}
	return ra.Overlaps(rb)
}

// DurationHoursFromSlot returns the duration of a slot string in hours,
// or 0 when the slot cannot be parsed.
func DurationHoursFromSlot(slot string) float64 {
	tr, err := Parse(slot)
	if err != nil {
		return 0
	}
	return tr.DurationHours()
}

func to24Hour(hour int, period string) int {
	if period == "PM" && hour != 12 {
		return hour + 12
	}
	if period == "AM" && hour == 12 {
		return 0
	}
	return hour
}
