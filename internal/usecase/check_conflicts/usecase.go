package check_conflicts

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/LGU-ReservationService/internal/domain"
	facilityRepo "github.com/m04kA/LGU-ReservationService/internal/infra/storage/facility"
	"github.com/m04kA/LGU-ReservationService/pkg/timeslot"
)

// UseCase use case проверки конфликтов слота.
// Только чтение: решение о блокировке заявки принимает вызывающий.
type UseCase struct {
	reservationRepo ReservationRepository
	facilityRepo    FacilityRepository
	advisorClient   RiskAdvisorClient
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservationRepo ReservationRepository,
	facilityRepo FacilityRepository,
	advisorClient RiskAdvisorClient,
	logger Logger,
) *UseCase {
	return &UseCase{
		reservationRepo: reservationRepo,
		facilityRepo:    facilityRepo,
		advisorClient:   advisorClient,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет проверку конфликтов для слота-кандидата
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CheckConflicts: facility=%d, date=%s, slot=%s",
		req.FacilityID, req.Date.Format(domain.DateFormat), req.TimeSlot)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CheckConflicts: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем объект
	facility, err := uc.facilityRepo.GetByID(ctx, req.FacilityID)
	if err != nil {
		if errors.Is(err, facilityRepo.ErrFacilityNotFound) {
			uc.logger.Warn("CheckConflicts: facility id=%d not found", req.FacilityID)
			return nil, ErrFacilityNotFound
		}
		uc.logger.Error("CheckConflicts: failed to get facility id=%d: %v", req.FacilityID, err)
		return nil, fmt.Errorf("%w: failed to get facility: %v", ErrInternal, err)
	}

	// 3. Одобренные брони на дату: пересечение блокирует заявку
	approved, err := uc.reservationRepo.ListWithFilter(ctx, domain.ReservationFilter{
		FacilityID:           req.FacilityID,
		Date:                 &req.Date,
		Statuses:             []domain.ReservationStatus{domain.StatusApproved},
		ExcludeReservationID: req.ExcludeReservationID,
	})
	if err != nil {
		uc.logger.Error("CheckConflicts: failed to list approved reservations: %v", err)
		return nil, fmt.Errorf("%w: failed to list approved reservations: %v", ErrInternal, err)
	}

	conflicts := collectOverlaps(req.TimeSlot, approved)

	// 4. Неистекшие pending брони: пересечение дает только предупреждение
	pending, err := uc.reservationRepo.ListWithFilter(ctx, domain.ReservationFilter{
		FacilityID:           req.FacilityID,
		Date:                 &req.Date,
		Statuses:             []domain.ReservationStatus{domain.StatusPending},
		ExcludeReservationID: req.ExcludeReservationID,
		ExcludeExpired:       true,
	})
	if err != nil {
		uc.logger.Error("CheckConflicts: failed to list pending reservations: %v", err)
		return nil, fmt.Errorf("%w: failed to list pending reservations: %v", ErrInternal, err)
	}

	softConflicts := collectOverlaps(req.TimeSlot, pending)

	// 5. Оценка риска: правила + опциональный советник
	ruleScore, err := uc.computeRuleScore(ctx, req)
	if err != nil {
		uc.logger.Error("CheckConflicts: failed to compute risk score: %v", err)
		return nil, fmt.Errorf("%w: failed to compute risk score: %v", ErrInternal, err)
	}
	riskScore := uc.blendWithAdvisor(ctx, req, ruleScore)

	resp := &Response{
		HasConflict:   len(conflicts) > 0,
		Conflicts:     conflicts,
		SoftConflicts: softConflicts,
		PendingCount:  len(softConflicts),
		RiskScore:     riskScore,
	}

	// 6. Альтернативы ищем только при блокирующем конфликте
	if resp.HasConflict {
		resp.Alternatives = findAlternatives(facility.OperatingWindow(), approved)
	}

	resp.Message = buildMessage(resp)

	uc.logger.Info("CheckConflicts: facility=%d, hard=%d, soft=%d, risk=%d",
		req.FacilityID, len(conflicts), len(softConflicts), riskScore)

	return resp, nil
}

// collectOverlaps отбирает брони, пересекающиеся со слотом-кандидатом.
// Нечитаемые слоты сравниваются точным равенством строк.
func collectOverlaps(candidate string, reservations []*domain.Reservation) []ConflictInfo {
	var result []ConflictInfo
	for _, res := range reservations {
		if timeslot.SlotsOverlap(candidate, res.TimeSlot) {
			result = append(result, ConflictInfo{
				ReservationID: res.ID,
				TimeSlot:      res.TimeSlot,
				Status:        string(res.Status),
			})
		}
	}
	return result
}

// buildMessage выбирает сообщение по приоритету:
// блокирующий конфликт > предупреждение об очереди > высокий спрос > ок
func buildMessage(resp *Response) string {
	switch {
	case resp.HasConflict:
		return "The selected time slot conflicts with an approved reservation."
	case resp.PendingCount > 0:
		return fmt.Sprintf("There are %d pending request(s) overlapping this time slot.", resp.PendingCount)
	case resp.RiskScore > domain.HighRiskNoticeThreshold:
		return "This slot is in high demand. Approval may take longer than usual."
	default:
		return "No conflicts found for the selected time slot."
	}
}
