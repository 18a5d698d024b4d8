package evaluate_auto_approval

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/LGU-ReservationService/internal/domain"
	facilityRepo "github.com/m04kA/LGU-ReservationService/internal/infra/storage/facility"
	"github.com/m04kA/LGU-ReservationService/internal/integrations/riskadvisor"
	userClient "github.com/m04kA/LGU-ReservationService/internal/integrations/userservice"
	"github.com/m04kA/LGU-ReservationService/pkg/timeslot"
)

const successReason = "All auto-approval conditions are satisfied."

// UseCase use case оценки авто-одобрения заявки.
// Девять условий проверяются независимо, Reason сообщает первый сбой.
type UseCase struct {
	reservationRepo ReservationRepository
	facilityRepo    FacilityRepository
	violationRepo   ViolationRepository
	userClient      UserServiceClient
	advisorClient   RiskAdvisorClient
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservationRepo ReservationRepository,
	facilityRepo FacilityRepository,
	violationRepo ViolationRepository,
	userClient UserServiceClient,
	advisorClient RiskAdvisorClient,
	logger Logger,
) *UseCase {
	return &UseCase{
		reservationRepo: reservationRepo,
		facilityRepo:    facilityRepo,
		violationRepo:   violationRepo,
		userClient:      userClient,
		advisorClient:   advisorClient,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет оценку авто-одобрения
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("EvaluateAutoApproval: user=%d, facility=%d, date=%s, slot=%s",
		req.UserID, req.FacilityID, req.Date.Format(domain.DateFormat), req.TimeSlot)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("EvaluateAutoApproval: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем объект
	facility, err := uc.facilityRepo.GetByID(ctx, req.FacilityID)
	if err != nil {
		if errors.Is(err, facilityRepo.ErrFacilityNotFound) {
			uc.logger.Warn("EvaluateAutoApproval: facility id=%d not found", req.FacilityID)
			return nil, ErrFacilityNotFound
		}
		uc.logger.Error("EvaluateAutoApproval: failed to get facility id=%d: %v", req.FacilityID, err)
		return nil, fmt.Errorf("%w: failed to get facility: %v", ErrInternal, err)
	}

	// Объект на обслуживании или отключен: заявка не проходит без
	// дальнейших проверок
	if !facility.IsBookable() {
		uc.logger.Warn("EvaluateAutoApproval: facility id=%d is not bookable, status=%s", facility.ID, facility.Status)
		return &Response{
			Eligible:    false,
			AutoApprove: false,
			Reason:      "Facility is currently unavailable for booking.",
		}, nil
	}

	// 3. Собираем снимок данных для условий
	inputs, err := uc.gatherInputs(ctx, req, facility)
	if err != nil {
		return nil, err
	}

	// 4. Проверяем все девять условий
	conditions := evaluateConditions(inputs)

	resp := &Response{
		Conditions: conditions,
		Eligible:   true,
	}
	for _, cond := range conditions {
		if !cond.Passed {
			resp.Eligible = false
			break
		}
	}

	resp.AutoApprove = resp.Eligible && facility.AutoApprove

	if failed := resp.FailedCondition(); failed != nil {
		resp.Reason = failed.Message
	} else {
		resp.Reason = successReason
	}

	// 5. Советник может отменить авто-одобрение, но никогда не выдает его
	if resp.Eligible {
		uc.applyAdvisorOverride(ctx, req, resp)
	}

	uc.logger.Info("EvaluateAutoApproval: user=%d, facility=%d, eligible=%t, autoApprove=%t, reason=%q",
		req.UserID, req.FacilityID, resp.Eligible, resp.AutoApprove, resp.Reason)

	return resp, nil
}

// gatherInputs загружает все данные, которые потребляют условия
func (uc *UseCase) gatherInputs(ctx context.Context, req *Request, facility *domain.Facility) (*conditionInputs, error) {
	now := uc.timeProvider.Now()

	blackout, err := uc.facilityRepo.GetBlackoutDate(ctx, req.FacilityID, req.Date)
	if err != nil && !errors.Is(err, facilityRepo.ErrBlackoutNotFound) {
		uc.logger.Error("EvaluateAutoApproval: failed to get blackout date: %v", err)
		return nil, fmt.Errorf("%w: failed to get blackout date: %v", ErrInternal, err)
	}

	approved, err := uc.reservationRepo.ListWithFilter(ctx, domain.ReservationFilter{
		FacilityID:           req.FacilityID,
		Date:                 &req.Date,
		Statuses:             []domain.ReservationStatus{domain.StatusApproved},
		ExcludeReservationID: req.ExcludeReservationID,
	})
	if err != nil {
		uc.logger.Error("EvaluateAutoApproval: failed to list approved reservations: %v", err)
		return nil, fmt.Errorf("%w: failed to list approved reservations: %v", ErrInternal, err)
	}

	blockingCount, err := uc.violationRepo.CountBlockingSince(ctx, req.UserID, now.AddDate(0, 0, -domain.ViolationLookbackDays))
	if err != nil {
		uc.logger.Error("EvaluateAutoApproval: failed to count violations: %v", err)
		return nil, fmt.Errorf("%w: failed to count violations: %v", ErrInternal, err)
	}

	user, err := uc.userClient.GetUser(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, userClient.ErrUserNotFound) {
			uc.logger.Warn("EvaluateAutoApproval: user id=%d not found", req.UserID)
			return nil, ErrUserNotFound
		}
		uc.logger.Error("EvaluateAutoApproval: failed to get user id=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: failed to get user: %v", ErrInternal, err)
	}

	window := req.AdvanceWindowDays
	if window <= 0 {
		window = domain.DefaultAdvanceWindowDays
	}

	return &conditionInputs{
		facility:          facility,
		blackout:          blackout,
		user:              mapUser(user),
		hardConflictCount: countHardConflicts(req.TimeSlot, approved),
		blockingCount:     blockingCount,
		durationHours:     timeslot.DurationHoursFromSlot(req.TimeSlot),
		daysAhead:         daysBetween(now, req.Date),
		advanceWindowDays: window,
		expectedAttendees: req.ExpectedAttendees,
		isCommercial:      req.IsCommercial,
	}, nil
}

// applyAdvisorOverride применяет вердикт советника к уже допущенной заявке.
// Высокий риск с уверенностью выше порога снимает авто-одобрение,
// подтвержденный низкий риск лишь помечается. Eligible не меняется.
func (uc *UseCase) applyAdvisorOverride(ctx context.Context, req *Request, resp *Response) {
	if uc.advisorClient == nil {
		return
	}

	assessment, err := uc.advisorClient.AssessWithGracefulDegradation(ctx, &riskadvisor.AssessRequest{
		UserID:            req.UserID,
		FacilityID:        req.FacilityID,
		ReservationDate:   req.Date.Format(domain.DateFormat),
		TimeSlot:          req.TimeSlot,
		ExpectedAttendees: req.ExpectedAttendees,
		IsCommercial:      req.IsCommercial,
	})
	if err != nil {
		// Уже залогировано клиентом, решение остается по правилам
		return
	}

	resp.MLRisk = assessment

	if assessment.Confidence <= domain.MLOverrideConfidenceMin {
		return
	}

	if assessment.IsHighRisk {
		resp.AutoApprove = false
		resp.MLOverride = true
		resp.Reason = fmt.Sprintf(
			"Risk advisor flagged this request as high risk (confidence %.2f). Manual review required.",
			assessment.Confidence)
		return
	}

	if assessment.IsLowRisk {
		resp.MLReinforced = true
	}
}

func validateRequest(req *Request) error {
	if req.UserID <= 0 {
		return fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	if req.FacilityID <= 0 {
		return fmt.Errorf("%w: facilityID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.TimeSlot == "" {
		return fmt.Errorf("%w: timeSlot is required", ErrInvalidInput)
	}

	if _, err := timeslot.Parse(req.TimeSlot); err != nil {
		return fmt.Errorf("%w: invalid timeSlot format: %v", ErrInvalidInput, err)
	}

	if req.ExpectedAttendees != nil && *req.ExpectedAttendees < 0 {
		return fmt.Errorf("%w: expectedAttendees must not be negative", ErrInvalidInput)
	}

	return nil
}

// mapUser переводит профиль из UserService в доменную модель
func mapUser(u *userClient.User) *domain.User {
	role := domain.RoleResident
	switch strings.ToLower(u.Role) {
	case "staff":
		role = domain.RoleStaff
	case "admin":
		role = domain.RoleAdmin
	}

	return &domain.User{
		ID:       u.ID,
		Name:     u.FullName,
		Email:    u.Email,
		Verified: u.IsVerified,
		Role:     role,
	}
}

// daysBetween считает календарные дни от сегодняшней даты до даты брони
func daysBetween(now, date time.Time) int {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	target := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, now.Location())
	return int(target.Sub(today).Hours() / 24)
}
