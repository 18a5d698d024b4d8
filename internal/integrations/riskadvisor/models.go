package riskadvisor

// AssessRequest запрос на оценку брони
type AssessRequest struct {
	UserID            int64  `json:"user_id"`
	FacilityID        int64  `json:"facility_id"`
	ReservationDate   string `json:"reservation_date"`
	TimeSlot          string `json:"time_slot"`
	ExpectedAttendees *int   `json:"expected_attendees,omitempty"`
	IsCommercial      bool   `json:"is_commercial"`
}

// Assessment ответ модели-советника. Поля is_high_risk/is_low_risk заполняет
// сам советник, confidence относится к ним обоим.
type Assessment struct {
	RiskLevel           string  `json:"risk_level"` // low, medium, high
	RiskProbability     float64 `json:"risk_probability"`
	ConflictProbability float64 `json:"conflict_probability"`
	Confidence          float64 `json:"confidence"`
	IsHighRisk          bool    `json:"is_high_risk"`
	IsLowRisk           bool    `json:"is_low_risk"`
}

// ErrorResponse модель ошибки от RiskAdvisor
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
