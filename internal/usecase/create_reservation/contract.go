package create_reservation

import (
	"context"
	"time"

	"github.com/m04kA/LGU-ReservationService/internal/domain"
	"github.com/m04kA/LGU-ReservationService/internal/usecase/check_conflicts"
	"github.com/m04kA/LGU-ReservationService/internal/usecase/evaluate_auto_approval"
)

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	Create(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error)
	ListWithFilter(ctx context.Context, filter domain.ReservationFilter) ([]*domain.Reservation, error)
	AppendHistory(ctx context.Context, reservationID int64, status domain.ReservationStatus, note string) error
}

// FacilityRepository интерфейс репозитория объектов
type FacilityRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Facility, error)
}

// NotificationRepository интерфейс репозитория уведомлений
type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) error
}

// ConflictChecker интерфейс проверки конфликтов слота
type ConflictChecker interface {
	Execute(ctx context.Context, req *check_conflicts.Request) (*check_conflicts.Response, error)
}

// AutoApprovalEvaluator интерфейс оценки авто-одобрения
type AutoApprovalEvaluator interface {
	Execute(ctx context.Context, req *evaluate_auto_approval.Request) (*evaluate_auto_approval.Response, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
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
