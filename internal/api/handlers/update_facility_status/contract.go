package update_facility_status

import (
	"context"

	"github.com/m04kA/LGU-ReservationService/internal/integrations/userservice"
	uc "github.com/m04kA/LGU-ReservationService/internal/usecase/run_maintenance_cascade"
)

type CascadeRunner interface {
	Execute(ctx context.Context, req *uc.Request) (*uc.Response, error)
}

type UserServiceClient interface {
	GetUser(ctx context.Context, userID int64) (*userservice.User, error)
}

type Metrics interface {
	AddCascadeTransitions(transition string, n int)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
