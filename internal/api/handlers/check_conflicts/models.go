package check_conflicts

import (
	"time"

	"github.com/m04kA/LGU-ReservationService/internal/domain"
	checkConflicts "github.com/m04kA/LGU-ReservationService/internal/usecase/check_conflicts"
)

// CheckConflictsRequest HTTP request model
type CheckConflictsRequest struct {
	FacilityID           int64  `json:"facilityId"`
	Date                 string `json:"date"` // "2026-09-15"
	TimeSlot             string `json:"timeSlot"`
	ExpectedAttendees    *int   `json:"expectedAttendees,omitempty"`
	IsCommercial         bool   `json:"isCommercial,omitempty"`
	ExcludeReservationID *int64 `json:"excludeReservationId,omitempty"`
}

// ConflictInfo HTTP model пересечения с существующей бронью
type ConflictInfo struct {
	ReservationID int64  `json:"reservationId"`
	TimeSlot      string `json:"timeSlot"`
	Status        string `json:"status"`
}

// Alternative HTTP model свободного промежутка
type Alternative struct {
	Slot           string `json:"slot"`
	Available      bool   `json:"available"`
	Recommendation string `json:"recommendation"`
}

// CheckConflictsResponse HTTP response model
type CheckConflictsResponse struct {
	HasConflict   bool          `json:"hasConflict"`
	Conflicts     []ConflictInfo `json:"conflicts"`
	SoftConflicts []ConflictInfo `json:"softConflicts"`
	PendingCount  int           `json:"pendingCount"`
	RiskScore     int           `json:"riskScore"`
	Alternatives  []Alternative `json:"alternatives,omitempty"`
	Message       string        `json:"message"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CheckConflictsRequest) ToUseCaseRequest(userID int64) (*checkConflicts.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}

	return &checkConflicts.Request{
		FacilityID:           r.FacilityID,
		Date:                 date,
		TimeSlot:             r.TimeSlot,
		UserID:               userID,
		ExpectedAttendees:    r.ExpectedAttendees,
		IsCommercial:         r.IsCommercial,
		ExcludeReservationID: r.ExcludeReservationID,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *checkConflicts.Response) *CheckConflictsResponse {
	out := &CheckConflictsResponse{
		HasConflict:   resp.HasConflict,
		Conflicts:     make([]ConflictInfo, 0, len(resp.Conflicts)),
		SoftConflicts: make([]ConflictInfo, 0, len(resp.SoftConflicts)),
		PendingCount:  resp.PendingCount,
		RiskScore:     resp.RiskScore,
		Message:       resp.Message,
	}

	for _, c := range resp.Conflicts {
		out.Conflicts = append(out.Conflicts, ConflictInfo(c))
	}
	for _, c := range resp.SoftConflicts {
		out.SoftConflicts = append(out.SoftConflicts, ConflictInfo(c))
	}
	for _, a := range resp.Alternatives {
		out.Alternatives = append(out.Alternatives, Alternative(a))
	}

	return out
}
