package check_conflicts

import (
	"context"
	"math"

	"github.com/m04kA/LGU-ReservationService/internal/domain"
	"github.com/m04kA/LGU-ReservationService/internal/integrations/riskadvisor"
)

// computeRuleScore считает балльную оценку спроса по правилам:
// история того же слота в тот же день недели, очередь pending на дату,
// надбавка за праздник. Всегда в диапазоне [0, 100].
func (uc *UseCase) computeRuleScore(ctx context.Context, req *Request) (int, error) {
	now := uc.timeProvider.Now()
	since := now.AddDate(0, -domain.HistoryLookbackMonths, 0)

	historicalCount, err := uc.reservationRepo.CountApprovedSameWeekdaySlot(
		ctx, req.FacilityID, int(req.Date.Weekday()), req.TimeSlot, since)
	if err != nil {
		return 0, err
	}

	pendingCount, err := uc.reservationRepo.CountPendingSameSlot(ctx, req.FacilityID, req.Date, req.TimeSlot)
	if err != nil {
		return 0, err
	}

	historicalRisk := historicalCount * domain.HistoricalRiskPerBooking
	if historicalRisk > domain.HistoricalRiskCap {
		historicalRisk = domain.HistoricalRiskCap
	}

	pendingRisk := pendingCount * domain.PendingRiskPerBooking
	if pendingRisk > domain.PendingRiskCap {
		pendingRisk = domain.PendingRiskCap
	}

	score := historicalRisk + pendingRisk
	if domain.IsHoliday(req.Date) {
		score += domain.HolidayRiskBump
	}

	return clampScore(score), nil
}

// blendWithAdvisor смешивает балльную оценку с вероятностью конфликта от
// советника. Недоступность советника не меняет оценку по правилам.
func (uc *UseCase) blendWithAdvisor(ctx context.Context, req *Request, ruleScore int) int {
	if uc.advisorClient == nil {
		return ruleScore
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
		// Уже залогировано клиентом, решение остается за правилами
		return ruleScore
	}

	blended := float64(ruleScore)*domain.RuleScoreWeight +
		assessment.ConflictProbability*100*domain.AdvisorScoreWeight

	return clampScore(int(math.Round(blended)))
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > domain.RiskScoreMax {
		return domain.RiskScoreMax
	}
	return score
}
