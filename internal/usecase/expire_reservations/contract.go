package expire_reservations

import (
	"context"

	"github.com/m04kA/LGU-ReservationService/internal/domain"
)

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	ListExpiryCandidates(ctx context.Context) ([]*domain.Reservation, error)
	DeclineIfStillPending(ctx context.Context, id int64) (bool, error)
	AppendHistory(ctx context.Context, reservationID int64, status domain.ReservationStatus, note string) error
}

// NotificationRepository интерфейс репозитория уведомлений
type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
