package check_conflicts

import (
	"fmt"

	"github.com/m04kA/LGU-ReservationService/pkg/timeslot"
)

// validateRequest валидирует входные данные запроса.
// Слот кандидата обязан парситься; деградация до сравнения строк
// допускается только для уже сохраненных броней.
func validateRequest(req *Request) error {
	if req.FacilityID <= 0 {
		return fmt.Errorf("%w: facilityID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.TimeSlot == "" {
		return fmt.Errorf("%w: timeSlot is required", ErrInvalidInput)
	}

	if _, err := timeslot.Parse(req.TimeSlot); err != nil {
		return fmt.Errorf("%w: invalid timeSlot format: %v", ErrInvalidInput, err)
	}

	if req.ExcludeReservationID != nil && *req.ExcludeReservationID <= 0 {
		return fmt.Errorf("%w: excludeReservationID must be positive", ErrInvalidInput)
	}

	return nil
}
