package check_conflicts

import (
	"context"
	"time"

	"github.com/m04kA/LGU-ReservationService/internal/domain"
	"github.com/m04kA/LGU-ReservationService/internal/integrations/riskadvisor"
)

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	ListWithFilter(ctx context.Context, filter domain.ReservationFilter) ([]*domain.Reservation, error)
	CountApprovedSameWeekdaySlot(ctx context.Context, facilityID int64, weekday int, timeSlot string, since time.Time) (int, error)
	CountPendingSameSlot(ctx context.Context, facilityID int64, date time.Time, timeSlot string) (int, error)
}

// FacilityRepository интерфейс репозитория объектов
type FacilityRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Facility, error)
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
