package create_reservation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/LGU-ReservationService/internal/domain"
	facilityRepo "github.com/m04kA/LGU-ReservationService/internal/infra/storage/facility"
	"github.com/m04kA/LGU-ReservationService/internal/usecase/check_conflicts"
	"github.com/m04kA/LGU-ReservationService/internal/usecase/evaluate_auto_approval"
	"github.com/m04kA/LGU-ReservationService/pkg/ptr"
	"github.com/m04kA/LGU-ReservationService/pkg/timeslot"
)

// UseCase use case создания брони.
// Проверка конфликтов повторяется в сериализуемой транзакции с блокировкой
// дневного набора: две параллельные заявки на пересекающиеся слоты не могут
// обе получить approved.
type UseCase struct {
	reservationRepo   ReservationRepository
	facilityRepo      FacilityRepository
	notificationRepo  NotificationRepository
	conflictChecker   ConflictChecker
	evaluator         AutoApprovalEvaluator
	txManager         TransactionManager
	timeProvider      TimeProvider
	advanceWindowDays int
	pendingTTL        time.Duration
	logger            Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservationRepo ReservationRepository,
	facilityRepo FacilityRepository,
	notificationRepo NotificationRepository,
	conflictChecker ConflictChecker,
	evaluator AutoApprovalEvaluator,
	txManager TransactionManager,
	advanceWindowDays int,
	pendingTTLHours int,
	logger Logger,
) *UseCase {
	if advanceWindowDays <= 0 {
		advanceWindowDays = domain.DefaultAdvanceWindowDays
	}
	if pendingTTLHours <= 0 {
		pendingTTLHours = domain.DefaultPendingTTLHours
	}

	return &UseCase{
		reservationRepo:   reservationRepo,
		facilityRepo:      facilityRepo,
		notificationRepo:  notificationRepo,
		conflictChecker:   conflictChecker,
		evaluator:         evaluator,
		txManager:         txManager,
		timeProvider:      &RealTimeProvider{},
		advanceWindowDays: advanceWindowDays,
		pendingTTL:        time.Duration(pendingTTLHours) * time.Hour,
		logger:            logger,
	}
}

// Execute выполняет создание брони
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateReservation: user=%d, facility=%d, date=%s, slot=%s",
		req.UserID, req.FacilityID, req.Date.Format(domain.DateFormat), req.TimeSlot)

	// 1. Валидация входных данных
	if err := uc.validateRequest(req); err != nil {
		uc.logger.Warn("CreateReservation: validation failed: %v", err)
		return nil, err
	}

	// 2. Объект должен существовать и принимать брони
	facility, err := uc.facilityRepo.GetByID(ctx, req.FacilityID)
	if err != nil {
		if errors.Is(err, facilityRepo.ErrFacilityNotFound) {
			uc.logger.Warn("CreateReservation: facility id=%d not found", req.FacilityID)
			return nil, ErrFacilityNotFound
		}
		uc.logger.Error("CreateReservation: failed to get facility id=%d: %v", req.FacilityID, err)
		return nil, fmt.Errorf("%w: failed to get facility: %v", ErrInternal, err)
	}

	if !facility.IsBookable() {
		uc.logger.Warn("CreateReservation: facility id=%d is not bookable, status=%s", facility.ID, facility.Status)
		return nil, ErrFacilityUnavailable
	}

	// 3. Предварительная проверка конфликтов
	conflicts, err := uc.conflictChecker.Execute(ctx, &check_conflicts.Request{
		FacilityID:        req.FacilityID,
		Date:              req.Date,
		TimeSlot:          req.TimeSlot,
		UserID:            req.UserID,
		ExpectedAttendees: req.ExpectedAttendees,
		IsCommercial:      req.IsCommercial,
	})
	if err != nil {
		return nil, uc.mapSubError(err, "conflict check")
	}

	if conflicts.HasConflict {
		uc.logger.Warn("CreateReservation: slot conflict for facility=%d, date=%s, slot=%s",
			req.FacilityID, req.Date.Format(domain.DateFormat), req.TimeSlot)
		return nil, fmt.Errorf("%w: %s", ErrSlotConflict, conflicts.Message)
	}

	// 4. Оценка авто-одобрения
	evaluation, err := uc.evaluator.Execute(ctx, &evaluate_auto_approval.Request{
		UserID:            req.UserID,
		FacilityID:        req.FacilityID,
		Date:              req.Date,
		TimeSlot:          req.TimeSlot,
		ExpectedAttendees: req.ExpectedAttendees,
		IsCommercial:      req.IsCommercial,
		AdvanceWindowDays: uc.advanceWindowDays,
	})
	if err != nil {
		return nil, uc.mapSubError(err, "auto-approval evaluation")
	}

	now := uc.timeProvider.Now()

	reservation := &domain.Reservation{
		UserID:            req.UserID,
		FacilityID:        req.FacilityID,
		ReservationDate:   req.Date,
		TimeSlot:          req.TimeSlot,
		Purpose:           req.Purpose,
		Status:            domain.StatusPending,
		ExpectedAttendees: req.ExpectedAttendees,
		IsCommercial:      req.IsCommercial,
		ExpiresAt:         ptr.Ptr(now.Add(uc.pendingTTL)),
	}

	if evaluation.AutoApprove {
		reservation.Status = domain.StatusApproved
		reservation.AutoApproved = true
		reservation.ExpiresAt = nil
	}

	// 5. Коммит с повторной проверкой: дневной набор броней блокируется
	// FOR UPDATE, пересечение с одобренной бронью отклоняет заявку
	var created *domain.Reservation
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		approved, err := uc.reservationRepo.ListWithFilter(txCtx, domain.ReservationFilter{
			FacilityID: req.FacilityID,
			Date:       &req.Date,
			Statuses:   []domain.ReservationStatus{domain.StatusApproved},
		})
		if err != nil {
			return fmt.Errorf("%w: failed to re-check approved reservations: %v", ErrInternal, err)
		}

		for _, res := range approved {
			if timeslot.SlotsOverlap(req.TimeSlot, res.TimeSlot) {
				return fmt.Errorf("%w: reservation id=%d was approved concurrently", ErrSlotConflict, res.ID)
			}
		}

		created, err = uc.reservationRepo.Create(txCtx, reservation)
		if err != nil {
			return fmt.Errorf("%w: failed to create reservation: %v", ErrInternal, err)
		}

		note := "created"
		if created.AutoApproved {
			note = "auto-approved: " + evaluation.Reason
		}
		if err := uc.reservationRepo.AppendHistory(txCtx, created.ID, created.Status, note); err != nil {
			return fmt.Errorf("%w: failed to append history: %v", ErrInternal, err)
		}

		return nil
	})
	if err != nil {
		uc.logger.Warn("CreateReservation: commit failed for user=%d, facility=%d: %v", req.UserID, req.FacilityID, err)
		return nil, err
	}

	uc.logger.Info("CreateReservation: created reservation id=%d, status=%s, autoApproved=%t",
		created.ID, created.Status, created.AutoApproved)

	// Уведомление вторично: сбой не отменяет созданную бронь
	uc.notifyOwner(ctx, facility, created)

	return &Response{
		ID:           created.ID,
		UserID:       created.UserID,
		FacilityID:   created.FacilityID,
		Date:         created.ReservationDate,
		TimeSlot:     created.TimeSlot,
		Purpose:      created.Purpose,
		Status:       string(created.Status),
		AutoApproved: created.AutoApproved,
		ExpiresAt:    created.ExpiresAt,
		CreatedAt:    created.CreatedAt,
		UpdatedAt:    created.UpdatedAt,
		Conflicts:    conflicts,
		Evaluation:   evaluation,
	}, nil
}

func (uc *UseCase) validateRequest(req *Request) error {
	if req.UserID <= 0 {
		return fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	if req.FacilityID <= 0 {
		return fmt.Errorf("%w: facilityID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	now := uc.timeProvider.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if req.Date.Before(today) {
		return fmt.Errorf("%w: date must not be in the past", ErrInvalidInput)
	}

	if req.TimeSlot == "" {
		return fmt.Errorf("%w: timeSlot is required", ErrInvalidInput)
	}

	if _, err := timeslot.Parse(req.TimeSlot); err != nil {
		return fmt.Errorf("%w: invalid timeSlot format: %v", ErrInvalidInput, err)
	}

	if req.Purpose == "" {
		return fmt.Errorf("%w: purpose is required", ErrInvalidInput)
	}

	if req.ExpectedAttendees != nil && *req.ExpectedAttendees < 0 {
		return fmt.Errorf("%w: expectedAttendees must not be negative", ErrInvalidInput)
	}

	return nil
}

// mapSubError переводит ошибки вложенных проверок в ошибки этого usecase
func (uc *UseCase) mapSubError(err error, step string) error {
	switch {
	case errors.Is(err, check_conflicts.ErrFacilityNotFound),
		errors.Is(err, evaluate_auto_approval.ErrFacilityNotFound):
		return ErrFacilityNotFound
	case errors.Is(err, evaluate_auto_approval.ErrUserNotFound):
		return ErrUserNotFound
	case errors.Is(err, check_conflicts.ErrInvalidInput),
		errors.Is(err, evaluate_auto_approval.ErrInvalidInput):
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	default:
		uc.logger.Error("CreateReservation: %s failed: %v", step, err)
		return fmt.Errorf("%w: %s failed: %v", ErrInternal, step, err)
	}
}

// notifyOwner пишет уведомление о статусе новой заявки
func (uc *UseCase) notifyOwner(ctx context.Context, facility *domain.Facility, res *domain.Reservation) {
	title := "Reservation received"
	message := fmt.Sprintf("Your request for %s on %s (%s) is pending review.",
		facility.Name, res.ReservationDate.Format(domain.DateFormat), res.TimeSlot)

	if res.AutoApproved {
		title = "Reservation approved"
		message = fmt.Sprintf("Your reservation for %s on %s (%s) was approved automatically.",
			facility.Name, res.ReservationDate.Format(domain.DateFormat), res.TimeSlot)
	}

	err := uc.notificationRepo.Create(ctx, &domain.Notification{
		UserID:  res.UserID,
		Type:    domain.NotificationBooking,
		Title:   title,
		Message: message,
		Link:    ptr.Ptr(fmt.Sprintf("/reservations/%d", res.ID)),
	})
	if err != nil {
		uc.logger.Error("CreateReservation: failed to create notification for reservation id=%d: %v", res.ID, err)
	}
}
