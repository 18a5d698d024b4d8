package decide_reservation

import (
	"context"

	"github.com/m04kA/LGU-ReservationService/internal/service/reservations/models"
)

type ReservationService interface {
	Decide(ctx context.Context, reservationID int64, req *models.DecideRequest) (*models.ReservationResponse, error)
}

type Metrics interface {
	IncReservationDecision(outcome string)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
