package create_reservation

import (
	"time"

	"github.com/m04kA/LGU-ReservationService/internal/usecase/check_conflicts"
	"github.com/m04kA/LGU-ReservationService/internal/usecase/evaluate_auto_approval"
)

// Request модель запроса на создание брони
type Request struct {
	UserID     int64
	FacilityID int64

	Date     time.Time
	TimeSlot string
	Purpose  string

	ExpectedAttendees *int
	IsCommercial      bool
}

// Response модель ответа с созданной бронью и материалами решения
type Response struct {
	ID         int64
	UserID     int64
	FacilityID int64

	Date     time.Time
	TimeSlot string
	Purpose  string
	Status   string

	AutoApproved bool
	ExpiresAt    *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time

	// Материалы решения для аудита и отображения
	Conflicts  *check_conflicts.Response
	Evaluation *evaluate_auto_approval.Response
}
