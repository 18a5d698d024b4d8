package evaluate_auto_approval

import (
	"fmt"

	"github.com/m04kA/LGU-ReservationService/internal/domain"
	"github.com/m04kA/LGU-ReservationService/pkg/ptr"
	"github.com/m04kA/LGU-ReservationService/pkg/timeslot"
)

// conditionInputs снимок данных, по которому проверяются все условия.
// Условия независимы: проверяются все девять, даже если первое уже провалено.
type conditionInputs struct {
	facility          *domain.Facility
	blackout          *domain.BlackoutDate
	user              *domain.User
	hardConflictCount int
	blockingCount     int
	durationHours     float64
	daysAhead         int
	advanceWindowDays int
	expectedAttendees *int
	isCommercial      bool
}

// evaluateConditions проверяет девять условий в фиксированном порядке
func evaluateConditions(in *conditionInputs) []ConditionResult {
	return []ConditionResult{
		condFacilityAutoApprove(in),
		condNoBlackout(in),
		condDurationLimit(in),
		condCapacityThreshold(in),
		condNonCommercial(in),
		condNoConflict(in),
		condCleanHistory(in),
		condUserVerified(in),
		condAdvanceWindow(in),
	}
}

func condFacilityAutoApprove(in *conditionInputs) ConditionResult {
	if in.facility.AutoApprove {
		return pass(CondFacilityAutoApprove, "Facility allows automatic approval.")
	}
	return fail(CondFacilityAutoApprove, "Facility requires manual review for all reservations.")
}

func condNoBlackout(in *conditionInputs) ConditionResult {
	if in.blackout == nil {
		return pass(CondNoBlackout, "Date is not blacked out for this facility.")
	}

	reason := ptr.Deref(in.blackout.Reason, "")
	if reason == "" {
		return fail(CondNoBlackout, "Facility is unavailable on the selected date.")
	}
	return fail(CondNoBlackout, fmt.Sprintf("Facility is unavailable on the selected date: %s.", reason))
}

func condDurationLimit(in *conditionInputs) ConditionResult {
	if !in.facility.HasDurationLimit() {
		return pass(CondDurationLimit, "Facility has no duration limit.")
	}

	limit := *in.facility.MaxDurationHours
	if in.durationHours <= limit {
		return pass(CondDurationLimit, fmt.Sprintf("Duration %.1fh is within the %.1fh limit.", in.durationHours, limit))
	}
	return fail(CondDurationLimit, fmt.Sprintf("Duration %.1fh exceeds the %.1fh limit.", in.durationHours, limit))
}

func condCapacityThreshold(in *conditionInputs) ConditionResult {
	if !in.facility.HasCapacityThreshold() || in.expectedAttendees == nil {
		return pass(CondCapacityThreshold, "No attendee threshold applies.")
	}

	threshold := *in.facility.CapacityThreshold
	if *in.expectedAttendees <= threshold {
		return pass(CondCapacityThreshold, fmt.Sprintf("%d attendees within the threshold of %d.", *in.expectedAttendees, threshold))
	}
	return fail(CondCapacityThreshold, fmt.Sprintf("%d attendees exceed the threshold of %d.", *in.expectedAttendees, threshold))
}

func condNonCommercial(in *conditionInputs) ConditionResult {
	if !in.isCommercial {
		return pass(CondNonCommercial, "Reservation is non-commercial.")
	}
	return fail(CondNonCommercial, "Commercial reservations require manual review.")
}

func condNoConflict(in *conditionInputs) ConditionResult {
	if in.hardConflictCount == 0 {
		return pass(CondNoConflict, "No conflict with approved reservations.")
	}
	return fail(CondNoConflict, fmt.Sprintf("Time slot conflicts with %d approved reservation(s).", in.hardConflictCount))
}

func condCleanHistory(in *conditionInputs) ConditionResult {
	if in.blockingCount == 0 {
		return pass(CondCleanHistory, "No serious violations in the past year.")
	}
	return fail(CondCleanHistory, fmt.Sprintf("%d serious violation(s) recorded in the past year.", in.blockingCount))
}

func condUserVerified(in *conditionInputs) ConditionResult {
	if in.user.Verified || in.user.IsPrivileged() {
		return pass(CondUserVerified, "Account is verified.")
	}
	return fail(CondUserVerified, "Account must be verified before automatic approval.")
}

func condAdvanceWindow(in *conditionInputs) ConditionResult {
	if in.daysAhead < 0 {
		return fail(CondAdvanceWindow, "Reservation date is in the past.")
	}
	if in.daysAhead > in.advanceWindowDays {
		return fail(CondAdvanceWindow, fmt.Sprintf("Reservations can be made at most %d days in advance.", in.advanceWindowDays))
	}
	return pass(CondAdvanceWindow, fmt.Sprintf("Date is within the %d-day booking window.", in.advanceWindowDays))
}

// countHardConflicts считает пересечения слота-кандидата с одобренными бронями
func countHardConflicts(candidate string, approved []*domain.Reservation) int {
	count := 0
	for _, res := range approved {
		if timeslot.SlotsOverlap(candidate, res.TimeSlot) {
			count++
		}
	}
	return count
}

func pass(name, message string) ConditionResult {
	return ConditionResult{Name: name, Passed: true, Message: message}
}

func fail(name, message string) ConditionResult {
	return ConditionResult{Name: name, Passed: false, Message: message}
}
