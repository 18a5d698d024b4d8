package check_conflicts

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/LGU-ReservationService/internal/domain"
	facilityRepo "github.com/m04kA/LGU-ReservationService/internal/infra/storage/facility"
	"github.com/m04kA/LGU-ReservationService/internal/integrations/riskadvisor"
)

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type fakeReservationRepo struct {
	approved []*domain.Reservation
	pending  []*domain.Reservation

	historicalCount int
	pendingCount    int
}

func (f *fakeReservationRepo) ListWithFilter(_ context.Context, filter domain.ReservationFilter) ([]*domain.Reservation, error) {
	if len(filter.Statuses) == 1 && filter.Statuses[0] == domain.StatusApproved {
		return f.approved, nil
	}
	return f.pending, nil
}

func (f *fakeReservationRepo) CountApprovedSameWeekdaySlot(_ context.Context, _ int64, _ int, _ string, _ time.Time) (int, error) {
	return f.historicalCount, nil
}

func (f *fakeReservationRepo) CountPendingSameSlot(_ context.Context, _ int64, _ time.Time, _ string) (int, error) {
	return f.pendingCount, nil
}

type fakeFacilityRepo struct {
	facility *domain.Facility
	err      error
}

func (f *fakeFacilityRepo) GetByID(_ context.Context, _ int64) (*domain.Facility, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.facility, nil
}

type fakeAdvisor struct {
	assessment *riskadvisor.Assessment
	err        error
}

func (f *fakeAdvisor) AssessWithGracefulDegradation(_ context.Context, _ *riskadvisor.AssessRequest) (*riskadvisor.Assessment, error) {
	return f.assessment, f.err
}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

func approvedReservation(id int64, slot string) *domain.Reservation {
	return &domain.Reservation{ID: id, TimeSlot: slot, Status: domain.StatusApproved}
}

func pendingReservation(id int64, slot string) *domain.Reservation {
	return &domain.Reservation{ID: id, TimeSlot: slot, Status: domain.StatusPending}
}

func testFacility() *domain.Facility {
	return &domain.Facility{ID: 1, Name: "Covered Court", Status: domain.FacilityAvailable}
}

func newTestUseCase(resRepo *fakeReservationRepo, facRepo *fakeFacilityRepo, advisor RiskAdvisorClient) *UseCase {
	uc := NewUseCase(resRepo, facRepo, advisor, nopLogger{})
	uc.timeProvider = fixedTime{now: time.Date(2026, time.September, 1, 12, 0, 0, 0, time.UTC)}
	return uc
}

func baseRequest(slot string) *Request {
	return &Request{
		FacilityID: 1,
		Date:       time.Date(2026, time.September, 15, 0, 0, 0, 0, time.UTC),
		TimeSlot:   slot,
	}
}

func TestExecute_HardConflictWithAlternatives(t *testing.T) {
	resRepo := &fakeReservationRepo{
		approved: []*domain.Reservation{approvedReservation(42, "10:00 - 12:00")},
	}
	uc := newTestUseCase(resRepo, &fakeFacilityRepo{facility: testFacility()}, nil)

	resp, err := uc.Execute(context.Background(), baseRequest("11:00 - 13:00"))
	require.NoError(t, err)

	assert.True(t, resp.HasConflict)
	require.Len(t, resp.Conflicts, 1)
	assert.Equal(t, int64(42), resp.Conflicts[0].ReservationID)

	// Gaps inside the default 08:00 - 21:00 window around the approved slot
	require.Len(t, resp.Alternatives, 2)
	assert.Equal(t, "08:00 - 10:00", resp.Alternatives[0].Slot)
	assert.Equal(t, "12:00 - 21:00", resp.Alternatives[1].Slot)
	assert.Equal(t, "Free for 2h", resp.Alternatives[0].Recommendation)
	assert.Equal(t, "Free for 9h", resp.Alternatives[1].Recommendation)

	assert.Contains(t, resp.Message, "conflicts with an approved reservation")
}

func TestExecute_TouchingSlotsDoNotConflict(t *testing.T) {
	resRepo := &fakeReservationRepo{
		approved: []*domain.Reservation{approvedReservation(42, "10:00 - 12:00")},
	}
	uc := newTestUseCase(resRepo, &fakeFacilityRepo{facility: testFacility()}, nil)

	resp, err := uc.Execute(context.Background(), baseRequest("12:00 - 13:00"))
	require.NoError(t, err)

	assert.False(t, resp.HasConflict)
	assert.Empty(t, resp.Conflicts)
	assert.Empty(t, resp.Alternatives)
	assert.Equal(t, "No conflicts found for the selected time slot.", resp.Message)
}

func TestExecute_PendingOverlapIsSoftConflict(t *testing.T) {
	resRepo := &fakeReservationRepo{
		pending: []*domain.Reservation{pendingReservation(7, "11:00 - 14:00")},
	}
	uc := newTestUseCase(resRepo, &fakeFacilityRepo{facility: testFacility()}, nil)

	resp, err := uc.Execute(context.Background(), baseRequest("10:00 - 12:00"))
	require.NoError(t, err)

	assert.False(t, resp.HasConflict)
	require.Len(t, resp.SoftConflicts, 1)
	assert.Equal(t, 1, resp.PendingCount)
	assert.Contains(t, resp.Message, "1 pending request(s)")
}

func TestExecute_UnparsableStoredSlotFallsBackToEquality(t *testing.T) {
	resRepo := &fakeReservationRepo{
		approved: []*domain.Reservation{approvedReservation(9, "whole day")},
	}
	uc := newTestUseCase(resRepo, &fakeFacilityRepo{facility: testFacility()}, nil)

	// Candidate parses but the stored slot does not; no equality, no conflict
	resp, err := uc.Execute(context.Background(), baseRequest("10:00 - 12:00"))
	require.NoError(t, err)
	assert.False(t, resp.HasConflict)
}

func TestExecute_RuleScore(t *testing.T) {
	tests := []struct {
		name       string
		historical int
		pending    int
		date       time.Time
		want       int
	}{
		{
			name:       "history and queue",
			historical: 3,
			pending:    1,
			date:       time.Date(2026, time.September, 15, 0, 0, 0, 0, time.UTC),
			want:       45, // 3*10 + 1*15
		},
		{
			name:       "history capped at 60",
			historical: 10,
			pending:    0,
			date:       time.Date(2026, time.September, 15, 0, 0, 0, 0, time.UTC),
			want:       60,
		},
		{
			name:       "queue capped at 30",
			historical: 0,
			pending:    5,
			date:       time.Date(2026, time.September, 15, 0, 0, 0, 0, time.UTC),
			want:       30,
		},
		{
			name:       "holiday bump",
			historical: 2,
			pending:    0,
			date:       time.Date(2026, time.December, 25, 0, 0, 0, 0, time.UTC),
			want:       40, // 2*10 + 20
		},
		{
			name:       "clamped at 100",
			historical: 10,
			pending:    5,
			date:       time.Date(2026, time.December, 25, 0, 0, 0, 0, time.UTC),
			want:       100, // 60 + 30 + 20 -> clamp
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resRepo := &fakeReservationRepo{historicalCount: tt.historical, pendingCount: tt.pending}
			uc := newTestUseCase(resRepo, &fakeFacilityRepo{facility: testFacility()}, nil)

			req := baseRequest("10:00 - 12:00")
			req.Date = tt.date

			resp, err := uc.Execute(context.Background(), req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.RiskScore)
		})
	}
}

func TestExecute_AdvisorBlendsRiskScore(t *testing.T) {
	resRepo := &fakeReservationRepo{historicalCount: 5} // rule score 50
	advisor := &fakeAdvisor{
		assessment: &riskadvisor.Assessment{ConflictProbability: 0.9},
	}
	uc := newTestUseCase(resRepo, &fakeFacilityRepo{facility: testFacility()}, advisor)

	resp, err := uc.Execute(context.Background(), baseRequest("10:00 - 12:00"))
	require.NoError(t, err)

	// 50*0.6 + 90*0.4 = 66
	assert.Equal(t, 66, resp.RiskScore)
}

func TestExecute_AdvisorUnavailableKeepsRuleScore(t *testing.T) {
	resRepo := &fakeReservationRepo{historicalCount: 5}
	advisor := &fakeAdvisor{err: riskadvisor.ErrAdvisorUnavailable}
	uc := newTestUseCase(resRepo, &fakeFacilityRepo{facility: testFacility()}, advisor)

	resp, err := uc.Execute(context.Background(), baseRequest("10:00 - 12:00"))
	require.NoError(t, err)
	assert.Equal(t, 50, resp.RiskScore)
}

func TestExecute_HighDemandNotice(t *testing.T) {
	resRepo := &fakeReservationRepo{historicalCount: 6, pendingCount: 2} // 60 + 30 = 90
	uc := newTestUseCase(resRepo, &fakeFacilityRepo{facility: testFacility()}, nil)

	resp, err := uc.Execute(context.Background(), baseRequest("10:00 - 12:00"))
	require.NoError(t, err)

	assert.False(t, resp.HasConflict)
	assert.Contains(t, resp.Message, "high demand")
}

func TestExecute_FacilityNotFound(t *testing.T) {
	uc := newTestUseCase(&fakeReservationRepo{}, &fakeFacilityRepo{err: facilityRepo.ErrFacilityNotFound}, nil)

	_, err := uc.Execute(context.Background(), baseRequest("10:00 - 12:00"))
	assert.ErrorIs(t, err, ErrFacilityNotFound)
}

func TestExecute_InvalidInput(t *testing.T) {
	uc := newTestUseCase(&fakeReservationRepo{}, &fakeFacilityRepo{facility: testFacility()}, nil)

	t.Run("unparsable candidate slot", func(t *testing.T) {
		_, err := uc.Execute(context.Background(), baseRequest("whole day"))
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("missing facility id", func(t *testing.T) {
		req := baseRequest("10:00 - 12:00")
		req.FacilityID = 0
		_, err := uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("zero date", func(t *testing.T) {
		req := baseRequest("10:00 - 12:00")
		req.Date = time.Time{}
		_, err := uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}
