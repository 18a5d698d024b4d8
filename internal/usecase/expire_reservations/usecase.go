package expire_reservations

import (
	"context"
	"fmt"

	"github.com/m04kA/LGU-ReservationService/internal/domain"
	"github.com/m04kA/LGU-ReservationService/pkg/ptr"
)

// UseCase use case периодической зачистки просроченных заявок.
// Идемпотентен и безопасен при параллельном запуске: строка меняется
// условным UPDATE, побочные эффекты выполняются только если обновление
// затронуло строку именно в этом прогоне.
type UseCase struct {
	reservationRepo  ReservationRepository
	notificationRepo NotificationRepository
	logger           Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservationRepo ReservationRepository,
	notificationRepo NotificationRepository,
	logger Logger,
) *UseCase {
	return &UseCase{
		reservationRepo:  reservationRepo,
		notificationRepo: notificationRepo,
		logger:           logger,
	}
}

// Execute отклоняет просроченные pending/postponed заявки
func (uc *UseCase) Execute(ctx context.Context) (*Response, error) {
	candidates, err := uc.reservationRepo.ListExpiryCandidates(ctx)
	if err != nil {
		uc.logger.Error("ExpireReservations: failed to list candidates: %v", err)
		return nil, fmt.Errorf("%w: failed to list candidates: %v", ErrInternal, err)
	}

	resp := &Response{}

	for _, res := range candidates {
		declined, err := uc.reservationRepo.DeclineIfStillPending(ctx, res.ID)
		if err != nil {
			uc.logger.Error("ExpireReservations: failed to decline reservation id=%d: %v", res.ID, err)
			resp.Errors = append(resp.Errors, fmt.Sprintf("reservation %d: %v", res.ID, err))
			continue
		}

		// Строку уже забрал параллельный прогон или решение сотрудника
		if !declined {
			resp.Skipped++
			continue
		}

		resp.Declined++

		if err := uc.reservationRepo.AppendHistory(ctx, res.ID, domain.StatusDenied, "auto-declined: request expired"); err != nil {
			uc.logger.Error("ExpireReservations: failed to append history for id=%d: %v", res.ID, err)
			resp.Errors = append(resp.Errors, fmt.Sprintf("reservation %d: history: %v", res.ID, err))
		}

		err = uc.notificationRepo.Create(ctx, &domain.Notification{
			UserID: res.UserID,
			Type:   domain.NotificationBooking,
			Title:  "Reservation request expired",
			Message: fmt.Sprintf("Your request for %s (%s) expired without a decision and was automatically declined.",
				res.ReservationDate.Format(domain.DateFormat), res.TimeSlot),
			Link: ptr.Ptr(fmt.Sprintf("/reservations/%d", res.ID)),
		})
		if err != nil {
			uc.logger.Error("ExpireReservations: failed to create notification for id=%d: %v", res.ID, err)
			resp.Errors = append(resp.Errors, fmt.Sprintf("reservation %d: notification: %v", res.ID, err))
		}
	}

	uc.logger.Info("ExpireReservations: declined=%d, skipped=%d, errors=%d",
		resp.Declined, resp.Skipped, len(resp.Errors))

	return resp, nil
}
