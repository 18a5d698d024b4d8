package cancel_reservation

// CancelReservationRequest HTTP request model; тело опционально
type CancelReservationRequest struct {
	Reason *string `json:"reason,omitempty"`
}
