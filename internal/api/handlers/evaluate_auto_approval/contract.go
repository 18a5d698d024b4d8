package evaluate_auto_approval

import (
	"context"

	uc "github.com/m04kA/LGU-ReservationService/internal/usecase/evaluate_auto_approval"
)

type AutoApprovalEvaluator interface {
	Execute(ctx context.Context, req *uc.Request) (*uc.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
