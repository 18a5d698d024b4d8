package check_conflicts

import (
	"fmt"
	"sort"

	"github.com/m04kA/LGU-ReservationService/internal/domain"
	"github.com/m04kA/LGU-ReservationService/pkg/timeslot"
)

// findAlternatives ищет свободные промежутки дня внутри рабочего окна
// объекта. Одобренные брони не пересекаются между собой, поэтому достаточно
// одного прохода по отсортированным диапазонам. Промежутки короче 30 минут
// отбрасываются. Брони с нечитаемым слотом пропускаются.
func findAlternatives(window timeslot.TimeRange, approved []*domain.Reservation) []Alternative {
	ranges := make([]timeslot.TimeRange, 0, len(approved))
	for _, res := range approved {
		r, err := timeslot.Parse(res.TimeSlot)
		if err != nil {
			continue
		}
		ranges = append(ranges, r)
	}

	sort.Slice(ranges, func(i, j int) bool {
		return ranges[i].Start < ranges[j].Start
	})

	var alternatives []Alternative
	cursor := window.Start

	for _, r := range ranges {
		if cursor < r.Start {
			alternatives = appendGap(alternatives, cursor, minInt(r.Start, window.End))
		}
		if r.End > cursor {
			cursor = r.End
		}
	}

	if cursor < window.End {
		alternatives = appendGap(alternatives, cursor, window.End)
	}

	return alternatives
}

func appendGap(alternatives []Alternative, start, end int) []Alternative {
	if end-start < domain.MinAlternativeGapMinutes {
		return alternatives
	}

	gap := timeslot.TimeRange{Start: start, End: end}
	return append(alternatives, Alternative{
		Slot:           gap.String(),
		Available:      true,
		Recommendation: formatRecommendation(gap),
	})
}

func formatRecommendation(gap timeslot.TimeRange) string {
	hours := gap.DurationMinutes() / 60
	minutes := gap.DurationMinutes() % 60

	switch {
	case hours > 0 && minutes > 0:
		return fmt.Sprintf("Free for %dh %dm", hours, minutes)
	case hours > 0:
		return fmt.Sprintf("Free for %dh", hours)
	default:
		return fmt.Sprintf("Free for %dm", minutes)
	}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
