package reservations

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/LGU-ReservationService/internal/domain"
	reservationRepo "github.com/m04kA/LGU-ReservationService/internal/infra/storage/reservation"
	"github.com/m04kA/LGU-ReservationService/internal/integrations/userservice"
	"github.com/m04kA/LGU-ReservationService/internal/service/reservations/models"
	"github.com/m04kA/LGU-ReservationService/pkg/ptr"
)

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type fakeReservationRepo struct {
	reservation *domain.Reservation
	byUser      []*domain.Reservation
	approved    []*domain.Reservation

	statuses map[int64]domain.ReservationStatus
	history  []string
}

func newFakeReservationRepo() *fakeReservationRepo {
	return &fakeReservationRepo{statuses: make(map[int64]domain.ReservationStatus)}
}

func (f *fakeReservationRepo) GetByID(_ context.Context, _ int64) (*domain.Reservation, error) {
	if f.reservation == nil {
		return nil, reservationRepo.ErrReservationNotFound
	}
	return f.reservation, nil
}

func (f *fakeReservationRepo) GetByUserID(_ context.Context, _ int64, _ *domain.ReservationStatus) ([]*domain.Reservation, error) {
	return f.byUser, nil
}

func (f *fakeReservationRepo) ListWithFilter(_ context.Context, _ domain.ReservationFilter) ([]*domain.Reservation, error) {
	return f.approved, nil
}

func (f *fakeReservationRepo) UpdateStatus(_ context.Context, id int64, status domain.ReservationStatus) error {
	f.statuses[id] = status
	return nil
}

func (f *fakeReservationRepo) AppendHistory(_ context.Context, _ int64, _ domain.ReservationStatus, note string) error {
	f.history = append(f.history, note)
	return nil
}

type fakeNotificationRepo struct {
	created []*domain.Notification
}

func (f *fakeNotificationRepo) Create(_ context.Context, n *domain.Notification) error {
	f.created = append(f.created, n)
	return nil
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

type passthroughTxManager struct{}

func (passthroughTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func pendingReservation(id, ownerID int64) *domain.Reservation {
	return &domain.Reservation{
		ID:              id,
		UserID:          ownerID,
		FacilityID:      1,
		ReservationDate: time.Date(2026, time.September, 20, 0, 0, 0, 0, time.UTC),
		TimeSlot:        "10:00 - 12:00",
		Status:          domain.StatusPending,
	}
}

type fixture struct {
	resRepo    *fakeReservationRepo
	notifRepo  *fakeNotificationRepo
	userClient *fakeUserClient
}

func newFixture() *fixture {
	return &fixture{
		resRepo:    newFakeReservationRepo(),
		notifRepo:  &fakeNotificationRepo{},
		userClient: &fakeUserClient{user: &userservice.User{ID: 10, Role: "resident"}},
	}
}

func (f *fixture) build() *Service {
	return NewService(f.resRepo, f.notifRepo, f.userClient, passthroughTxManager{}, nopLogger{})
}

func TestGetByID_OwnerAccess(t *testing.T) {
	f := newFixture()
	f.resRepo.reservation = pendingReservation(1, 10)
	svc := f.build()

	resp, err := svc.GetByID(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.ID)
	assert.Equal(t, "2026-09-20", resp.ReservationDate)
}

func TestGetByID_StrangerDenied(t *testing.T) {
	f := newFixture()
	f.resRepo.reservation = pendingReservation(1, 10)
	svc := f.build()

	_, err := svc.GetByID(context.Background(), 1, 999)
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestGetByID_StaffSeesAnyReservation(t *testing.T) {
	f := newFixture()
	f.resRepo.reservation = pendingReservation(1, 10)
	f.userClient.user = &userservice.User{ID: 77, Role: "staff"}
	svc := f.build()

	resp, err := svc.GetByID(context.Background(), 1, 77)
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.ID)
}

func TestGetByID_NotFound(t *testing.T) {
	svc := newFixture().build()

	_, err := svc.GetByID(context.Background(), 404, 10)
	assert.ErrorIs(t, err, ErrReservationNotFound)
}

func TestGetUserReservations(t *testing.T) {
	f := newFixture()
	f.resRepo.byUser = []*domain.Reservation{pendingReservation(1, 10), pendingReservation(2, 10)}
	svc := f.build()

	resp, err := svc.GetUserReservations(context.Background(), &models.GetUserReservationsRequest{UserID: 10})
	require.NoError(t, err)
	assert.Len(t, resp.Reservations, 2)
}

func TestGetUserReservations_InvalidStatus(t *testing.T) {
	svc := newFixture().build()

	_, err := svc.GetUserReservations(context.Background(), &models.GetUserReservationsRequest{
		UserID: 10,
		Status: ptr.Ptr("archived"),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCancel_OwnerCancelsPending(t *testing.T) {
	f := newFixture()
	f.resRepo.reservation = pendingReservation(1, 10)
	svc := f.build()

	err := svc.Cancel(context.Background(), 1, &models.CancelReservationRequest{
		UserID: 10,
		Reason: ptr.Ptr("schedule changed"),
	})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusCancelled, f.resRepo.statuses[1])
	require.Len(t, f.resRepo.history, 1)
	assert.Contains(t, f.resRepo.history[0], "schedule changed")
}

func TestCancel_DecidedReservationRejected(t *testing.T) {
	f := newFixture()
	res := pendingReservation(1, 10)
	res.Status = domain.StatusDenied
	f.resRepo.reservation = res
	svc := f.build()

	err := svc.Cancel(context.Background(), 1, &models.CancelReservationRequest{UserID: 10})
	assert.ErrorIs(t, err, ErrCannotCancel)
}

func TestDecide_ApproveByStaff(t *testing.T) {
	f := newFixture()
	f.resRepo.reservation = pendingReservation(1, 10)
	f.userClient.user = &userservice.User{ID: 77, Role: "staff"}
	svc := f.build()

	resp, err := svc.Decide(context.Background(), 1, &models.DecideRequest{
		UserID:  77,
		Outcome: "approved",
		Note:    "verified with the barangay office",
	})
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusApproved), resp.Status)
	assert.Equal(t, domain.StatusApproved, f.resRepo.statuses[1])
	require.Len(t, f.resRepo.history, 1)
	assert.Contains(t, f.resRepo.history[0], "verified with the barangay office")

	require.Len(t, f.notifRepo.created, 1)
	assert.Equal(t, "Reservation approved", f.notifRepo.created[0].Title)
}

func TestDecide_ApproveRejectsOnSlotConflict(t *testing.T) {
	f := newFixture()
	f.resRepo.reservation = pendingReservation(1, 10)
	f.resRepo.approved = []*domain.Reservation{
		{ID: 55, TimeSlot: "11:00 - 13:00", Status: domain.StatusApproved},
	}
	f.userClient.user = &userservice.User{ID: 77, Role: "staff"}
	svc := f.build()

	_, err := svc.Decide(context.Background(), 1, &models.DecideRequest{UserID: 77, Outcome: "approved"})
	assert.ErrorIs(t, err, ErrSlotConflict)
	assert.Empty(t, f.resRepo.statuses)
}

func TestDecide_DenyByStaff(t *testing.T) {
	f := newFixture()
	f.resRepo.reservation = pendingReservation(1, 10)
	f.userClient.user = &userservice.User{ID: 77, Role: "staff"}
	svc := f.build()

	resp, err := svc.Decide(context.Background(), 1, &models.DecideRequest{UserID: 77, Outcome: "denied"})
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusDenied), resp.Status)
	require.Len(t, f.notifRepo.created, 1)
	assert.Equal(t, "Reservation denied", f.notifRepo.created[0].Title)
}

func TestDecide_ResidentDenied(t *testing.T) {
	f := newFixture()
	f.resRepo.reservation = pendingReservation(1, 10)
	svc := f.build()

	_, err := svc.Decide(context.Background(), 1, &models.DecideRequest{UserID: 10, Outcome: "approved"})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestDecide_AlreadyDecided(t *testing.T) {
	f := newFixture()
	res := pendingReservation(1, 10)
	res.Status = domain.StatusApproved
	f.resRepo.reservation = res
	f.userClient.user = &userservice.User{ID: 77, Role: "staff"}
	svc := f.build()

	_, err := svc.Decide(context.Background(), 1, &models.DecideRequest{UserID: 77, Outcome: "denied"})
	assert.ErrorIs(t, err, ErrAlreadyDecided)
}

func TestDecide_InvalidOutcome(t *testing.T) {
	f := newFixture()
	f.userClient.user = &userservice.User{ID: 77, Role: "staff"}
	svc := f.build()

	_, err := svc.Decide(context.Background(), 1, &models.DecideRequest{UserID: 77, Outcome: "maybe"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestDecide_PostponedCanBeDecided(t *testing.T) {
	f := newFixture()
	res := pendingReservation(1, 10)
	res.Status = domain.StatusPostponed
	f.resRepo.reservation = res
	f.userClient.user = &userservice.User{ID: 77, Role: "staff"}
	svc := f.build()

	resp, err := svc.Decide(context.Background(), 1, &models.DecideRequest{UserID: 77, Outcome: "approved"})
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusApproved), resp.Status)
}
