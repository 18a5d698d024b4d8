package expire_sweep

import (
	"context"

	uc "github.com/m04kA/LGU-ReservationService/internal/usecase/expire_reservations"
)

type ExpirySweeper interface {
	Execute(ctx context.Context) (*uc.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}
