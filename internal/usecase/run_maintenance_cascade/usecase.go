package run_maintenance_cascade

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/LGU-ReservationService/internal/domain"
	facilityRepo "github.com/m04kA/LGU-ReservationService/internal/infra/storage/facility"
)

// UseCase use case смены статуса объекта с каскадом по будущим броням.
// Перевод на обслуживание отменяет или откладывает брони, возвращение в
// строй только уведомляет отложенных владельцев в порядке очереди.
type UseCase struct {
	reservationRepo  ReservationRepository
	facilityRepo     FacilityRepository
	notificationRepo NotificationRepository
	mailClient       MailServiceClient
	txManager        TransactionManager
	timeProvider     TimeProvider
	holdPending      bool
	logger           Logger
}

// NewUseCase создает новый экземпляр use case.
// holdPending переводит pending-заявки в удержание вместо отмены.
func NewUseCase(
	reservationRepo ReservationRepository,
	facilityRepo FacilityRepository,
	notificationRepo NotificationRepository,
	mailClient MailServiceClient,
	txManager TransactionManager,
	holdPending bool,
	logger Logger,
) *UseCase {
	return &UseCase{
		reservationRepo:  reservationRepo,
		facilityRepo:     facilityRepo,
		notificationRepo: notificationRepo,
		mailClient:       mailClient,
		txManager:        txManager,
		timeProvider:     &RealTimeProvider{},
		holdPending:      holdPending,
		logger:           logger,
	}
}

// Execute выполняет смену статуса объекта и соответствующий каскад
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("MaintenanceCascade: facility=%d, newStatus=%s", req.FacilityID, req.NewStatus)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("MaintenanceCascade: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем объект
	facility, err := uc.facilityRepo.GetByID(ctx, req.FacilityID)
	if err != nil {
		if errors.Is(err, facilityRepo.ErrFacilityNotFound) {
			uc.logger.Warn("MaintenanceCascade: facility id=%d not found", req.FacilityID)
			return nil, ErrFacilityNotFound
		}
		uc.logger.Error("MaintenanceCascade: failed to get facility id=%d: %v", req.FacilityID, err)
		return nil, fmt.Errorf("%w: failed to get facility: %v", ErrInternal, err)
	}

	if facility.Status == req.NewStatus {
		return nil, fmt.Errorf("%w: facility is already %s", ErrInvalidTransition, req.NewStatus)
	}

	resp := &Response{
		FacilityID:     facility.ID,
		PreviousStatus: facility.Status,
		NewStatus:      req.NewStatus,
	}

	// 3. Выбираем направление каскада
	switch {
	case req.NewStatus == domain.FacilityMaintenance:
		cascade, err := uc.runMaintenanceCascade(ctx, facility)
		if err != nil {
			return nil, err
		}
		resp.Cascade = cascade

	case facility.Status == domain.FacilityMaintenance && req.NewStatus == domain.FacilityAvailable:
		restore, err := uc.runRestoreNotifications(ctx, facility)
		if err != nil {
			return nil, err
		}
		resp.Restore = restore

	default:
		// Переходы available <-> offline каскада не требуют
		if err := uc.facilityRepo.UpdateStatus(ctx, facility.ID, req.NewStatus); err != nil {
			uc.logger.Error("MaintenanceCascade: failed to update facility status: %v", err)
			return nil, fmt.Errorf("%w: failed to update facility status: %v", ErrInternal, err)
		}
	}

	uc.logger.Info("MaintenanceCascade: facility=%d, %s -> %s done",
		facility.ID, resp.PreviousStatus, resp.NewStatus)

	return resp, nil
}

// runMaintenanceCascade переводит объект на обслуживание и обрабатывает
// каждую будущую бронь. Ошибки отдельных строк копятся в Errors и не
// прерывают пакет; фатальная ошибка транзакции откатывает все изменения.
// Весь дневной набор броней блокируется FOR UPDATE на время пакета, чтобы
// параллельная заявка не получила одобрение посреди каскада.
func (uc *UseCase) runMaintenanceCascade(ctx context.Context, facility *domain.Facility) (*CascadeResult, error) {
	var result *CascadeResult
	var notices []notice

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// Транзакция может быть повторена при конфликте сериализации,
		// счетчики и план уведомлений начинаются заново
		result = &CascadeResult{}
		notices = notices[:0]

		if err := uc.facilityRepo.UpdateStatus(txCtx, facility.ID, domain.FacilityMaintenance); err != nil {
			return fmt.Errorf("failed to update facility status: %w", err)
		}

		reservations, err := uc.reservationRepo.ListWithFilter(txCtx, domain.ReservationFilter{
			FacilityID: facility.ID,
			Statuses:   domain.ActiveStatuses,
			FutureOnly: true,
		})
		if err != nil {
			return fmt.Errorf("failed to list future reservations: %w", err)
		}

		for _, res := range reservations {
			n, err := uc.processReservation(txCtx, facility, res, result)
			if err != nil {
				if isTxFatal(err) {
					return fmt.Errorf("fatal error on reservation id=%d: %w", res.ID, err)
				}
				uc.logger.Error("MaintenanceCascade: reservation id=%d failed: %v", res.ID, err)
				result.Errors = append(result.Errors, fmt.Sprintf("reservation %d: %v", res.ID, err))
				continue
			}
			notices = append(notices, n)
		}

		return nil
	})

	if err != nil {
		uc.logger.Error("MaintenanceCascade: batch rolled back for facility id=%d: %v", facility.ID, err)
		return nil, fmt.Errorf("%w: cascade aborted: %v", ErrInternal, err)
	}

	// Уведомления и письма уходят после коммита: их сбой не отменяет каскад
	// и не засчитывается как ошибка строки, бронь уже переведена
	for _, n := range notices {
		if err := uc.emitNotice(ctx, facility, n); err != nil {
			uc.logger.Error("MaintenanceCascade: reservation id=%d notification failed: %v", n.reservationID, err)
			result.NotificationErrors = append(result.NotificationErrors, fmt.Sprintf("reservation %d: %v", n.reservationID, err))
		}
	}

	uc.logger.Info("MaintenanceCascade: facility=%d, cancelled=%d, onHold=%d, postponed=%d, errors=%d, notifyErrors=%d",
		facility.ID, result.PendingCancelled, result.PendingOnHold, result.ApprovedPostponed, len(result.Errors), len(result.NotificationErrors))

	return result, nil
}

// processReservation переводит одну бронь и пишет запись в историю.
// Возвращает план уведомления для отправки после коммита.
func (uc *UseCase) processReservation(ctx context.Context, facility *domain.Facility, res *domain.Reservation, result *CascadeResult) (notice, error) {
	now := uc.timeProvider.Now()

	switch res.Status {
	case domain.StatusPending:
		if uc.holdPending {
			if err := uc.reservationRepo.MarkPostponed(ctx, res.ID, now); err != nil {
				return notice{}, err
			}
			if err := uc.reservationRepo.AppendHistory(ctx, res.ID, domain.StatusPostponed, "held: facility entered maintenance"); err != nil {
				return notice{}, err
			}
			result.PendingOnHold++
			return newNotice(res, noticeHeld), nil
		}

		if err := uc.reservationRepo.UpdateStatus(ctx, res.ID, domain.StatusCancelled); err != nil {
			return notice{}, err
		}
		if err := uc.reservationRepo.AppendHistory(ctx, res.ID, domain.StatusCancelled, "cancelled: facility entered maintenance"); err != nil {
			return notice{}, err
		}
		result.PendingCancelled++
		return newNotice(res, noticeCancelled), nil

	case domain.StatusApproved:
		if err := uc.reservationRepo.MarkPostponed(ctx, res.ID, now); err != nil {
			return notice{}, err
		}
		if err := uc.reservationRepo.AppendHistory(ctx, res.ID, domain.StatusPostponed, "postponed: facility entered maintenance"); err != nil {
			return notice{}, err
		}
		result.ApprovedPostponed++
		return newNotice(res, noticePostponed), nil

	default:
		return notice{}, fmt.Errorf("unexpected status %s", res.Status)
	}
}

// runRestoreNotifications возвращает объект в строй и уведомляет владельцев
// отложенных броней в порядке postponed_at (кто раньше отложен, тот раньше
// узнает). Статусы броней не меняются и заявки не пересоздаются.
func (uc *UseCase) runRestoreNotifications(ctx context.Context, facility *domain.Facility) (*RestoreResult, error) {
	if err := uc.facilityRepo.UpdateStatus(ctx, facility.ID, domain.FacilityAvailable); err != nil {
		uc.logger.Error("MaintenanceCascade: failed to update facility status: %v", err)
		return nil, fmt.Errorf("%w: failed to update facility status: %v", ErrInternal, err)
	}

	postponed, err := uc.reservationRepo.ListPostponedWithPriority(ctx, facility.ID)
	if err != nil {
		uc.logger.Error("MaintenanceCascade: failed to list postponed reservations: %v", err)
		return nil, fmt.Errorf("%w: failed to list postponed reservations: %v", ErrInternal, err)
	}

	result := &RestoreResult{}
	for _, res := range postponed {
		if err := uc.emitNotice(ctx, facility, newNotice(res, noticeRestored)); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("reservation %d: notification: %v", res.ID, err))
			continue
		}
		result.Notified++
	}

	uc.logger.Info("MaintenanceCascade: facility=%d restored, notified=%d, errors=%d",
		facility.ID, result.Notified, len(result.Errors))

	return result, nil
}

func validateRequest(req *Request) error {
	if req.FacilityID <= 0 {
		return fmt.Errorf("%w: facilityID must be positive", ErrInvalidInput)
	}

	switch req.NewStatus {
	case domain.FacilityAvailable, domain.FacilityMaintenance, domain.FacilityOffline:
		return nil
	default:
		return fmt.Errorf("%w: unknown status %q", ErrInvalidInput, req.NewStatus)
	}
}
