package create_reservation

import (
	"time"

	"github.com/m04kA/LGU-ReservationService/internal/domain"
	createReservation "github.com/m04kA/LGU-ReservationService/internal/usecase/create_reservation"
)

// CreateReservationRequest HTTP request model
type CreateReservationRequest struct {
	FacilityID        int64  `json:"facilityId"`
	Date              string `json:"date"` // "2026-09-15"
	TimeSlot          string `json:"timeSlot"`
	Purpose           string `json:"purpose"`
	ExpectedAttendees *int   `json:"expectedAttendees,omitempty"`
	IsCommercial      bool   `json:"isCommercial,omitempty"`
}

// ConditionResult HTTP model результата одного условия авто-одобрения
type ConditionResult struct {
	Name    string `json:"name"`
	Passed  bool   `json:"passed"`
	Message string `json:"message"`
}

// EvaluationSummary HTTP model итога авто-одобрения
type EvaluationSummary struct {
	Eligible    bool              `json:"eligible"`
	AutoApprove bool              `json:"autoApprove"`
	Reason      string            `json:"reason"`
	Conditions  []ConditionResult `json:"conditions,omitempty"`
	MLOverride  bool              `json:"mlOverride,omitempty"`
}

// ReservationResponse HTTP response model
type ReservationResponse struct {
	ID         int64  `json:"id"`
	UserID     int64  `json:"userId"`
	FacilityID int64  `json:"facilityId"`
	Date       string `json:"date"`
	TimeSlot   string `json:"timeSlot"`
	Purpose    string `json:"purpose"`
	Status     string `json:"status"`

	AutoApproved bool    `json:"autoApproved"`
	ExpiresAt    *string `json:"expiresAt,omitempty"` // ISO 8601

	RiskScore  int                `json:"riskScore"`
	Evaluation *EvaluationSummary `json:"evaluation,omitempty"`

	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateReservationRequest) ToUseCaseRequest(userID int64) (*createReservation.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}

	return &createReservation.Request{
		UserID:            userID,
		FacilityID:        r.FacilityID,
		Date:              date,
		TimeSlot:          r.TimeSlot,
		Purpose:           r.Purpose,
		ExpectedAttendees: r.ExpectedAttendees,
		IsCommercial:      r.IsCommercial,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createReservation.Response) *ReservationResponse {
	out := &ReservationResponse{
		ID:           resp.ID,
		UserID:       resp.UserID,
		FacilityID:   resp.FacilityID,
		Date:         resp.Date.Format(domain.DateFormat),
		TimeSlot:     resp.TimeSlot,
		Purpose:      resp.Purpose,
		Status:       resp.Status,
		AutoApproved: resp.AutoApproved,
		CreatedAt:    resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    resp.UpdatedAt.Format(time.RFC3339),
	}

	if resp.ExpiresAt != nil {
		s := resp.ExpiresAt.Format(time.RFC3339)
		out.ExpiresAt = &s
	}

	if resp.Conflicts != nil {
		out.RiskScore = resp.Conflicts.RiskScore
	}

	if resp.Evaluation != nil {
		summary := &EvaluationSummary{
			Eligible:    resp.Evaluation.Eligible,
			AutoApprove: resp.Evaluation.AutoApprove,
			Reason:      resp.Evaluation.Reason,
			MLOverride:  resp.Evaluation.MLOverride,
		}
		for _, c := range resp.Evaluation.Conditions {
			summary.Conditions = append(summary.Conditions, ConditionResult(c))
		}
		out.Evaluation = summary
	}

	return out
}
