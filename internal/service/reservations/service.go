package reservations

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/LGU-ReservationService/internal/domain"
	reservationRepo "github.com/m04kA/LGU-ReservationService/internal/infra/storage/reservation"
	userClient "github.com/m04kA/LGU-ReservationService/internal/integrations/userservice"
	"github.com/m04kA/LGU-ReservationService/internal/service/reservations/models"
	"github.com/m04kA/LGU-ReservationService/pkg/ptr"
	"github.com/m04kA/LGU-ReservationService/pkg/timeslot"
)

// Service сервис для работы с бронями
type Service struct {
	reservationRepo  ReservationRepository
	notificationRepo NotificationRepository
	userClient       UserServiceClient
	txManager        TransactionManager
	logger           Logger
}

// NewService создает новый экземпляр сервиса броней
func NewService(
	reservationRepo ReservationRepository,
	notificationRepo NotificationRepository,
	userClient UserServiceClient,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		reservationRepo:  reservationRepo,
		notificationRepo: notificationRepo,
		userClient:       userClient,
		txManager:        txManager,
		logger:           logger,
	}
}

// GetByID получает бронь по ID
// Пользователь видит только свою бронь, сотрудники и администраторы - любую
func (s *Service) GetByID(ctx context.Context, id int64, userID int64) (*models.ReservationResponse, error) {
	s.logger.Info("GetByID: fetching reservation id=%d for user=%d", id, userID)

	reservation, err := s.reservationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			s.logger.Warn("GetByID: reservation id=%d not found", id)
			return nil, ErrReservationNotFound
		}
		s.logger.Error("GetByID: repository error for reservation id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if err := s.checkUserAccess(ctx, reservation, userID); err != nil {
		s.logger.Warn("GetByID: access denied for user=%d to reservation id=%d", userID, id)
		return nil, err
	}

	s.logger.Info("GetByID: successfully fetched reservation id=%d", id)
	return models.FromDomainReservation(reservation), nil
}

// GetUserReservations получает историю броней пользователя
// Опционально фильтрует по статусу
func (s *Service) GetUserReservations(ctx context.Context, req *models.GetUserReservationsRequest) (*models.ReservationListResponse, error) {
	s.logger.Info("GetUserReservations: fetching reservations for user=%d, status=%v", req.UserID, req.Status)

	var domainStatus *domain.ReservationStatus
	if req.Status != nil {
		status, err := models.ToDomainReservationStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetUserReservations: invalid status=%s for user=%d", *req.Status, req.UserID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	reservations, err := s.reservationRepo.GetByUserID(ctx, req.UserID, domainStatus)
	if err != nil {
		s.logger.Error("GetUserReservations: repository error for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: GetUserReservations - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetUserReservations: successfully fetched %d reservations for user=%d", len(reservations), req.UserID)
	return models.FromDomainReservationList(reservations), nil
}

// Cancel отменяет бронь
// Владелец отменяет свою бронь, сотрудники и администраторы - любую
func (s *Service) Cancel(ctx context.Context, reservationID int64, req *models.CancelReservationRequest) error {
	s.logger.Info("Cancel: cancelling reservation id=%d by user=%d", reservationID, req.UserID)

	reservation, err := s.reservationRepo.GetByID(ctx, reservationID)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			s.logger.Warn("Cancel: reservation id=%d not found", reservationID)
			return ErrReservationNotFound
		}
		s.logger.Error("Cancel: repository error for reservation id=%d: %v", reservationID, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	if err := s.checkUserAccess(ctx, reservation, req.UserID); err != nil {
		s.logger.Warn("Cancel: access denied for user=%d to reservation id=%d", req.UserID, reservationID)
		return err
	}

	if !reservation.CanBeCancelled() {
		s.logger.Warn("Cancel: reservation id=%d cannot be cancelled, status=%s", reservationID, reservation.Status)
		return ErrCannotCancel
	}

	if err := s.reservationRepo.UpdateStatus(ctx, reservationID, domain.StatusCancelled); err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			return ErrReservationNotFound
		}
		s.logger.Error("Cancel: repository error for reservation id=%d: %v", reservationID, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	note := "cancelled by user"
	if req.Reason != nil && *req.Reason != "" {
		note = "cancelled by user: " + *req.Reason
	}
	if err := s.reservationRepo.AppendHistory(ctx, reservationID, domain.StatusCancelled, note); err != nil {
		s.logger.Error("Cancel: failed to append history for reservation id=%d: %v", reservationID, err)
	}

	s.logger.Info("Cancel: successfully cancelled reservation id=%d", reservationID)
	return nil
}

// Decide фиксирует решение сотрудника по pending-заявке.
// Одобрение повторяет проверку конфликтов в сериализуемой транзакции с
// блокировкой дневного набора, как и создание брони.
func (s *Service) Decide(ctx context.Context, reservationID int64, req *models.DecideRequest) (*models.ReservationResponse, error) {
	s.logger.Info("Decide: reservation id=%d, outcome=%s, by user=%d", reservationID, req.Outcome, req.UserID)

	outcome, err := models.ToDecisionOutcome(req.Outcome)
	if err != nil {
		s.logger.Warn("Decide: invalid outcome=%s for reservation id=%d", req.Outcome, reservationID)
		return nil, fmt.Errorf("%w: invalid outcome", ErrInvalidInput)
	}

	if err := s.checkPrivileged(ctx, req.UserID); err != nil {
		s.logger.Warn("Decide: access denied for user=%d", req.UserID)
		return nil, err
	}

	reservation, err := s.reservationRepo.GetByID(ctx, reservationID)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			s.logger.Warn("Decide: reservation id=%d not found", reservationID)
			return nil, ErrReservationNotFound
		}
		s.logger.Error("Decide: repository error for reservation id=%d: %v", reservationID, err)
		return nil, fmt.Errorf("%w: Decide - repository error: %v", ErrInternal, err)
	}

	if reservation.Status != domain.StatusPending && reservation.Status != domain.StatusPostponed {
		s.logger.Warn("Decide: reservation id=%d already decided, status=%s", reservationID, reservation.Status)
		return nil, ErrAlreadyDecided
	}

	note := "decided by staff"
	if req.Note != "" {
		note = "decided by staff: " + req.Note
	}

	if outcome == domain.StatusApproved {
		err = s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
			approved, err := s.reservationRepo.ListWithFilter(txCtx, domain.ReservationFilter{
				FacilityID:           reservation.FacilityID,
				Date:                 &reservation.ReservationDate,
				Statuses:             []domain.ReservationStatus{domain.StatusApproved},
				ExcludeReservationID: &reservation.ID,
			})
			if err != nil {
				return fmt.Errorf("%w: Decide - failed to re-check approved reservations: %v", ErrInternal, err)
			}

			for _, other := range approved {
				if timeslot.SlotsOverlap(reservation.TimeSlot, other.TimeSlot) {
					return fmt.Errorf("%w: reservation id=%d", ErrSlotConflict, other.ID)
				}
			}

			if err := s.reservationRepo.UpdateStatus(txCtx, reservationID, domain.StatusApproved); err != nil {
				return fmt.Errorf("%w: Decide - failed to update status: %v", ErrInternal, err)
			}

			return s.reservationRepo.AppendHistory(txCtx, reservationID, domain.StatusApproved, note)
		})
	} else {
		err = s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
			if err := s.reservationRepo.UpdateStatus(txCtx, reservationID, outcome); err != nil {
				return fmt.Errorf("%w: Decide - failed to update status: %v", ErrInternal, err)
			}
			return s.reservationRepo.AppendHistory(txCtx, reservationID, outcome, note)
		})
	}
	if err != nil {
		s.logger.Warn("Decide: decision failed for reservation id=%d: %v", reservationID, err)
		return nil, err
	}

	s.notifyDecision(ctx, reservation, outcome)

	reservation.Status = outcome
	s.logger.Info("Decide: reservation id=%d set to %s", reservationID, outcome)
	return models.FromDomainReservation(reservation), nil
}

// Вспомогательные методы

// checkUserAccess проверяет, что пользователь владелец брони или сотрудник
func (s *Service) checkUserAccess(ctx context.Context, reservation *domain.Reservation, userID int64) error {
	if reservation.UserID == userID {
		return nil
	}

	if err := s.checkPrivileged(ctx, userID); err != nil {
		return ErrAccessDenied
	}

	return nil
}

// checkPrivileged проверяет, что пользователь является сотрудником или
// администратором
func (s *Service) checkPrivileged(ctx context.Context, userID int64) error {
	user, err := s.userClient.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, userClient.ErrUserNotFound) {
			s.logger.Warn("checkPrivileged: user id=%d not found", userID)
			return ErrUserNotFound
		}
		s.logger.Error("checkPrivileged: failed to get user id=%d: %v", userID, err)
		return fmt.Errorf("%w: checkPrivileged - failed to get user: %v", ErrInternal, err)
	}

	switch user.Role {
	case "staff", "admin", "Staff", "Admin":
		return nil
	}

	s.logger.Warn("checkPrivileged: user=%d role=%s is not privileged", userID, user.Role)
	return ErrAccessDenied
}

// notifyDecision пишет владельцу уведомление о решении по заявке
func (s *Service) notifyDecision(ctx context.Context, reservation *domain.Reservation, outcome domain.ReservationStatus) {
	title := "Reservation approved"
	message := fmt.Sprintf("Your reservation for %s (%s) was approved.",
		reservation.ReservationDate.Format(domain.DateFormat), reservation.TimeSlot)

	if outcome == domain.StatusDenied {
		title = "Reservation denied"
		message = fmt.Sprintf("Your request for %s (%s) was denied.",
			reservation.ReservationDate.Format(domain.DateFormat), reservation.TimeSlot)
	}

	err := s.notificationRepo.Create(ctx, &domain.Notification{
		UserID:  reservation.UserID,
		Type:    domain.NotificationBooking,
		Title:   title,
		Message: message,
		Link:    ptr.Ptr(fmt.Sprintf("/reservations/%d", reservation.ID)),
	})
	if err != nil {
		s.logger.Error("notifyDecision: failed to create notification for reservation id=%d: %v", reservation.ID, err)
	}
}
