package evaluate_auto_approval

import (
	uc "github.com/m04kA/LGU-ReservationService/internal/usecase/evaluate_auto_approval"
)

// EvaluateRequest HTTP request model. Пробная оценка не создает бронь.
type EvaluateRequest struct {
	FacilityID int64  `json:"facilityId"`
	Date       string `json:"date"` // "2026-09-15"
	TimeSlot   string `json:"timeSlot"`

	ExpectedAttendees *int `json:"expectedAttendees,omitempty"`
	IsCommercial      bool `json:"isCommercial"`
}

// ConditionView один пункт аудита решения
type ConditionView struct {
	Name    string `json:"name"`
	Passed  bool   `json:"passed"`
	Message string `json:"message"`
}

// MLRiskView оценка советника, если он был доступен
type MLRiskView struct {
	RiskLevel           string  `json:"riskLevel"`
	RiskProbability     float64 `json:"riskProbability"`
	ConflictProbability float64 `json:"conflictProbability"`
	Confidence          float64 `json:"confidence"`
}

// EvaluateResponse HTTP response model
type EvaluateResponse struct {
	Eligible    bool            `json:"eligible"`
	AutoApprove bool            `json:"autoApprove"`
	Reason      string          `json:"reason"`
	Conditions  []ConditionView `json:"conditions"`

	MLRisk       *MLRiskView `json:"mlRisk,omitempty"`
	MLOverride   bool        `json:"mlOverride"`
	MLReinforced bool        `json:"mlReinforced"`
}

func toResponse(result *uc.Response) *EvaluateResponse {
	resp := &EvaluateResponse{
		Eligible:     result.Eligible,
		AutoApprove:  result.AutoApprove,
		Reason:       result.Reason,
		Conditions:   make([]ConditionView, len(result.Conditions)),
		MLOverride:   result.MLOverride,
		MLReinforced: result.MLReinforced,
	}

	for i, c := range result.Conditions {
		resp.Conditions[i] = ConditionView{
			Name:    c.Name,
			Passed:  c.Passed,
			Message: c.Message,
		}
	}

	if result.MLRisk != nil {
		resp.MLRisk = &MLRiskView{
			RiskLevel:           result.MLRisk.RiskLevel,
			RiskProbability:     result.MLRisk.RiskProbability,
			ConflictProbability: result.MLRisk.ConflictProbability,
			Confidence:          result.MLRisk.Confidence,
		}
	}

	return resp
}
