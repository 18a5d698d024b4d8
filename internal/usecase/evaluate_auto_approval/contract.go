package evaluate_auto_approval

import (
	"context"
	"time"

	"github.com/m04kA/LGU-ReservationService/internal/domain"
	"github.com/m04kA/LGU-ReservationService/internal/integrations/riskadvisor"
	"github.com/m04kA/LGU-ReservationService/internal/integrations/userservice"
)

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	ListWithFilter(ctx context.Context, filter domain.ReservationFilter) ([]*domain.Reservation, error)
}

// FacilityRepository интерфейс репозитория объектов
type FacilityRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Facility, error)
	GetBlackoutDate(ctx context.Context, facilityID int64, date time.Time) (*domain.BlackoutDate, error)
}

// ViolationRepository интерфейс репозитория нарушений
type ViolationRepository interface {
	CountBlockingSince(ctx context.Context, userID int64, since time.Time) (int, error)
}

// UserServiceClient интерфейс клиента для UserService
type UserServiceClient interface {
	GetUser(ctx context.Context, userID int64) (*userservice.User, error)
}

// RiskAdvisorClient интерфейс клиента модели-советника
type RiskAdvisorClient interface {
	AssessWithGracefulDegradation(ctx context.Context, request *riskadvisor.AssessRequest) (*riskadvisor.Assessment, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
