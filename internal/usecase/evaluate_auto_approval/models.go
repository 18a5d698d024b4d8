package evaluate_auto_approval

import (
	"time"

	"github.com/m04kA/LGU-ReservationService/internal/integrations/riskadvisor"
)

// Request модель запроса на оценку авто-одобрения
type Request struct {
	UserID     int64
	FacilityID int64

	Date     time.Time
	TimeSlot string

	ExpectedAttendees *int
	IsCommercial      bool

	// Горизонт бронирования в днях; 0 означает значение по умолчанию
	AdvanceWindowDays int

	// ID брони, исключаемой из проверки конфликтов (для редактирования)
	ExcludeReservationID *int64
}

// Имена условий в порядке приоритета отчета о первом сбое
const (
	CondFacilityAutoApprove = "facility_auto_approve"
	CondNoBlackout          = "no_blackout"
	CondDurationLimit       = "duration_limit"
	CondCapacityThreshold   = "capacity_threshold"
	CondNonCommercial       = "non_commercial"
	CondNoConflict          = "no_conflict"
	CondCleanHistory        = "clean_violation_history"
	CondUserVerified        = "user_verified"
	CondAdvanceWindow       = "advance_window"
)

// ConditionResult результат проверки одного условия
type ConditionResult struct {
	Name    string
	Passed  bool
	Message string
}

// Response итог оценки. Conditions сохраняют порядок проверки, чтобы
// вызывающий мог отрисовать полный аудит решения.
type Response struct {
	Eligible    bool
	AutoApprove bool
	Conditions  []ConditionResult
	Reason      string

	// Заполняются только при срабатывании советника
	MLRisk       *riskadvisor.Assessment
	MLOverride   bool // советник отменил авто-одобрение
	MLReinforced bool // советник подтвердил низкий риск
}

// FailedCondition возвращает первое непройденное условие
func (r *Response) FailedCondition() *ConditionResult {
	for i := range r.Conditions {
		if !r.Conditions[i].Passed {
			return &r.Conditions[i]
		}
	}
	return nil
}
