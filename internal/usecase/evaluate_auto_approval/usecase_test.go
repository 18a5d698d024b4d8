package evaluate_auto_approval

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/LGU-ReservationService/internal/domain"
	facilityRepo "github.com/m04kA/LGU-ReservationService/internal/infra/storage/facility"
	"github.com/m04kA/LGU-ReservationService/internal/integrations/riskadvisor"
	"github.com/m04kA/LGU-ReservationService/internal/integrations/userservice"
	"github.com/m04kA/LGU-ReservationService/pkg/ptr"
)

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type fakeReservationRepo struct {
	approved []*domain.Reservation
}

func (f *fakeReservationRepo) ListWithFilter(_ context.Context, _ domain.ReservationFilter) ([]*domain.Reservation, error) {
	return f.approved, nil
}

type fakeFacilityRepo struct {
	facility    *domain.Facility
	facilityErr error
	blackout    *domain.BlackoutDate
}

func (f *fakeFacilityRepo) GetByID(_ context.Context, _ int64) (*domain.Facility, error) {
	if f.facilityErr != nil {
		return nil, f.facilityErr
	}
	return f.facility, nil
}

func (f *fakeFacilityRepo) GetBlackoutDate(_ context.Context, _ int64, _ time.Time) (*domain.BlackoutDate, error) {
	if f.blackout == nil {
		return nil, facilityRepo.ErrBlackoutNotFound
	}
	return f.blackout, nil
}

type fakeViolationRepo struct {
	count int
}

func (f *fakeViolationRepo) CountBlockingSince(_ context.Context, _ int64, _ time.Time) (int, error) {
	return f.count, nil
}

type fakeUserClient struct {
	user *userservice.User
	err  error
}

func (f *fakeUserClient) GetUser(_ context.Context, _ int64) (*userservice.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.user, nil
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

type fixture struct {
	resRepo       *fakeReservationRepo
	facRepo       *fakeFacilityRepo
	violationRepo *fakeViolationRepo
	userClient    *fakeUserClient
	advisor       RiskAdvisorClient
}

func autoApproveFacility() *domain.Facility {
	return &domain.Facility{
		ID:          1,
		Name:        "Multi-Purpose Hall",
		Status:      domain.FacilityAvailable,
		AutoApprove: true,
	}
}

func verifiedResident() *userservice.User {
	return &userservice.User{ID: 10, FullName: "Maria Santos", Role: "resident", IsVerified: true}
}

func newFixture() *fixture {
	return &fixture{
		resRepo:       &fakeReservationRepo{},
		facRepo:       &fakeFacilityRepo{facility: autoApproveFacility()},
		violationRepo: &fakeViolationRepo{},
		userClient:    &fakeUserClient{user: verifiedResident()},
	}
}

func (f *fixture) build() *UseCase {
	uc := NewUseCase(f.resRepo, f.facRepo, f.violationRepo, f.userClient, f.advisor, nopLogger{})
	uc.timeProvider = fixedTime{now: time.Date(2026, time.September, 1, 10, 0, 0, 0, time.UTC)}
	return uc
}

func baseRequest() *Request {
	return &Request{
		UserID:     10,
		FacilityID: 1,
		Date:       time.Date(2026, time.September, 15, 0, 0, 0, 0, time.UTC),
		TimeSlot:   "10:00 - 12:00",
	}
}

func TestExecute_AllConditionsPass(t *testing.T) {
	uc := newFixture().build()

	resp, err := uc.Execute(context.Background(), baseRequest())
	require.NoError(t, err)

	assert.True(t, resp.Eligible)
	assert.True(t, resp.AutoApprove)
	assert.Equal(t, successReason, resp.Reason)
	assert.Len(t, resp.Conditions, 9)
	for _, cond := range resp.Conditions {
		assert.True(t, cond.Passed, "condition %s should pass", cond.Name)
	}
}

func TestExecute_AutoApproveImpliesEligible(t *testing.T) {
	f := newFixture()
	f.userClient.user.IsVerified = false
	uc := f.build()

	resp, err := uc.Execute(context.Background(), baseRequest())
	require.NoError(t, err)

	assert.False(t, resp.Eligible)
	assert.False(t, resp.AutoApprove)
}

func TestExecute_UnverifiedResident(t *testing.T) {
	f := newFixture()
	f.userClient.user.IsVerified = false
	uc := f.build()

	resp, err := uc.Execute(context.Background(), baseRequest())
	require.NoError(t, err)

	assert.False(t, resp.Eligible)
	assert.Contains(t, resp.Reason, "verified")

	failed := resp.FailedCondition()
	require.NotNil(t, failed)
	assert.Equal(t, CondUserVerified, failed.Name)
}

func TestExecute_UnverifiedStaffStillPasses(t *testing.T) {
	f := newFixture()
	f.userClient.user.Role = "staff"
	f.userClient.user.IsVerified = false
	uc := f.build()

	resp, err := uc.Execute(context.Background(), baseRequest())
	require.NoError(t, err)
	assert.True(t, resp.Eligible)
}

func TestExecute_ManualReviewFacility(t *testing.T) {
	f := newFixture()
	f.facRepo.facility.AutoApprove = false
	uc := f.build()

	resp, err := uc.Execute(context.Background(), baseRequest())
	require.NoError(t, err)

	assert.False(t, resp.Eligible)
	assert.False(t, resp.AutoApprove)

	failed := resp.FailedCondition()
	require.NotNil(t, failed)
	assert.Equal(t, CondFacilityAutoApprove, failed.Name)
}

func TestExecute_BlackoutDate(t *testing.T) {
	f := newFixture()
	f.facRepo.blackout = &domain.BlackoutDate{
		FacilityID: 1,
		Date:       time.Date(2026, time.September, 15, 0, 0, 0, 0, time.UTC),
		Reason:     ptr.Ptr("Town fiesta preparations"),
	}
	uc := f.build()

	resp, err := uc.Execute(context.Background(), baseRequest())
	require.NoError(t, err)

	assert.False(t, resp.Eligible)
	assert.Contains(t, resp.Reason, "Town fiesta preparations")
}

func TestExecute_BlackoutDateWithoutReason(t *testing.T) {
	f := newFixture()
	f.facRepo.blackout = &domain.BlackoutDate{
		FacilityID: 1,
		Date:       time.Date(2026, time.September, 15, 0, 0, 0, 0, time.UTC),
	}
	uc := f.build()

	resp, err := uc.Execute(context.Background(), baseRequest())
	require.NoError(t, err)

	assert.False(t, resp.Eligible)
	assert.Equal(t, "Facility is unavailable on the selected date.", resp.Reason)
}

func TestExecute_DurationLimitExceeded(t *testing.T) {
	f := newFixture()
	f.facRepo.facility.MaxDurationHours = ptr.Ptr(2.0)
	uc := f.build()

	req := baseRequest()
	req.TimeSlot = "10:00 - 14:00" // 4h

	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.False(t, resp.Eligible)
	failed := resp.FailedCondition()
	require.NotNil(t, failed)
	assert.Equal(t, CondDurationLimit, failed.Name)
}

func TestExecute_CapacityThresholdExceeded(t *testing.T) {
	f := newFixture()
	f.facRepo.facility.CapacityThreshold = ptr.Ptr(50)
	uc := f.build()

	req := baseRequest()
	req.ExpectedAttendees = ptr.Ptr(80)

	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.False(t, resp.Eligible)
	failed := resp.FailedCondition()
	require.NotNil(t, failed)
	assert.Equal(t, CondCapacityThreshold, failed.Name)
}

func TestExecute_CommercialRequiresManualReview(t *testing.T) {
	uc := newFixture().build()

	req := baseRequest()
	req.IsCommercial = true

	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.False(t, resp.Eligible)
	assert.Contains(t, resp.Reason, "Commercial")
}

func TestExecute_ConflictWithApproved(t *testing.T) {
	f := newFixture()
	f.resRepo.approved = []*domain.Reservation{
		{ID: 42, TimeSlot: "11:00 - 13:00", Status: domain.StatusApproved},
	}
	uc := f.build()

	resp, err := uc.Execute(context.Background(), baseRequest())
	require.NoError(t, err)

	assert.False(t, resp.Eligible)
	failed := resp.FailedCondition()
	require.NotNil(t, failed)
	assert.Equal(t, CondNoConflict, failed.Name)
}

func TestExecute_ViolationHistoryBlocks(t *testing.T) {
	f := newFixture()
	f.violationRepo.count = 2
	uc := f.build()

	resp, err := uc.Execute(context.Background(), baseRequest())
	require.NoError(t, err)

	assert.False(t, resp.Eligible)
	assert.Contains(t, resp.Reason, "violation")
}

func TestExecute_AdvanceWindow(t *testing.T) {
	t.Run("too far ahead", func(t *testing.T) {
		uc := newFixture().build()

		req := baseRequest()
		req.Date = time.Date(2026, time.December, 1, 0, 0, 0, 0, time.UTC) // 91 days ahead

		resp, err := uc.Execute(context.Background(), req)
		require.NoError(t, err)

		assert.False(t, resp.Eligible)
		failed := resp.FailedCondition()
		require.NotNil(t, failed)
		assert.Equal(t, CondAdvanceWindow, failed.Name)
	})

	t.Run("custom window widens the limit", func(t *testing.T) {
		uc := newFixture().build()

		req := baseRequest()
		req.Date = time.Date(2026, time.December, 1, 0, 0, 0, 0, time.UTC)
		req.AdvanceWindowDays = 120

		resp, err := uc.Execute(context.Background(), req)
		require.NoError(t, err)
		assert.True(t, resp.Eligible)
	})

	t.Run("past date", func(t *testing.T) {
		uc := newFixture().build()

		req := baseRequest()
		req.Date = time.Date(2026, time.August, 20, 0, 0, 0, 0, time.UTC)

		resp, err := uc.Execute(context.Background(), req)
		require.NoError(t, err)

		assert.False(t, resp.Eligible)
		assert.Contains(t, resp.Reason, "past")
	})
}

func TestExecute_FacilityNotBookable(t *testing.T) {
	f := newFixture()
	f.facRepo.facility.Status = domain.FacilityMaintenance
	uc := f.build()

	resp, err := uc.Execute(context.Background(), baseRequest())
	require.NoError(t, err)

	assert.False(t, resp.Eligible)
	assert.False(t, resp.AutoApprove)
	assert.Empty(t, resp.Conditions)
	assert.Contains(t, resp.Reason, "unavailable")
}

func TestExecute_AdvisorOverride(t *testing.T) {
	t.Run("high risk with confidence cancels auto approval", func(t *testing.T) {
		f := newFixture()
		f.advisor = &fakeAdvisor{assessment: &riskadvisor.Assessment{
			RiskLevel:  "high",
			IsHighRisk: true,
			Confidence: 0.85,
		}}
		uc := f.build()

		resp, err := uc.Execute(context.Background(), baseRequest())
		require.NoError(t, err)

		assert.True(t, resp.Eligible)
		assert.False(t, resp.AutoApprove)
		assert.True(t, resp.MLOverride)
		assert.Contains(t, resp.Reason, "high risk")
	})

	t.Run("low confidence is ignored", func(t *testing.T) {
		f := newFixture()
		f.advisor = &fakeAdvisor{assessment: &riskadvisor.Assessment{
			RiskLevel:  "high",
			IsHighRisk: true,
			Confidence: 0.5,
		}}
		uc := f.build()

		resp, err := uc.Execute(context.Background(), baseRequest())
		require.NoError(t, err)

		assert.True(t, resp.AutoApprove)
		assert.False(t, resp.MLOverride)
	})

	t.Run("confident low risk reinforces the decision", func(t *testing.T) {
		f := newFixture()
		f.advisor = &fakeAdvisor{assessment: &riskadvisor.Assessment{
			RiskLevel:  "low",
			IsLowRisk:  true,
			Confidence: 0.9,
		}}
		uc := f.build()

		resp, err := uc.Execute(context.Background(), baseRequest())
		require.NoError(t, err)

		assert.True(t, resp.AutoApprove)
		assert.True(t, resp.MLReinforced)
	})

	t.Run("advisor unavailable keeps rule decision", func(t *testing.T) {
		f := newFixture()
		f.advisor = &fakeAdvisor{err: riskadvisor.ErrAdvisorUnavailable}
		uc := f.build()

		resp, err := uc.Execute(context.Background(), baseRequest())
		require.NoError(t, err)

		assert.True(t, resp.AutoApprove)
		assert.Nil(t, resp.MLRisk)
	})

	t.Run("ineligible request skips the advisor", func(t *testing.T) {
		f := newFixture()
		f.userClient.user.IsVerified = false
		f.advisor = &fakeAdvisor{assessment: &riskadvisor.Assessment{IsLowRisk: true, Confidence: 0.9}}
		uc := f.build()

		resp, err := uc.Execute(context.Background(), baseRequest())
		require.NoError(t, err)

		assert.False(t, resp.Eligible)
		assert.Nil(t, resp.MLRisk)
	})
}

func TestExecute_Errors(t *testing.T) {
	t.Run("facility not found", func(t *testing.T) {
		f := newFixture()
		f.facRepo.facilityErr = facilityRepo.ErrFacilityNotFound
		uc := f.build()

		_, err := uc.Execute(context.Background(), baseRequest())
		assert.ErrorIs(t, err, ErrFacilityNotFound)
	})

	t.Run("user not found", func(t *testing.T) {
		f := newFixture()
		f.userClient.err = userservice.ErrUserNotFound
		uc := f.build()

		_, err := uc.Execute(context.Background(), baseRequest())
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("invalid slot", func(t *testing.T) {
		uc := newFixture().build()

		req := baseRequest()
		req.TimeSlot = "whole day"

		_, err := uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}
