package decide_reservation

// DecideReservationRequest HTTP request model
type DecideReservationRequest struct {
	Outcome string `json:"outcome"` // approved или denied
	Note    string `json:"note,omitempty"`
}
