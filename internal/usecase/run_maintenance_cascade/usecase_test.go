package run_maintenance_cascade

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/LGU-ReservationService/internal/domain"
	"github.com/m04kA/LGU-ReservationService/internal/integrations/mailservice"
)

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type historyEntry struct {
	reservationID int64
	status        domain.ReservationStatus
	note          string
}

type fakeReservationRepo struct {
	active    []*domain.Reservation
	postponed []*domain.Reservation

	statuses    map[int64]domain.ReservationStatus
	postponedAt map[int64]time.Time
	history     []historyEntry

	failUpdateID int64
}

func newFakeReservationRepo() *fakeReservationRepo {
	return &fakeReservationRepo{
		statuses:    make(map[int64]domain.ReservationStatus),
		postponedAt: make(map[int64]time.Time),
	}
}

func (f *fakeReservationRepo) ListWithFilter(_ context.Context, _ domain.ReservationFilter) ([]*domain.Reservation, error) {
	return f.active, nil
}

func (f *fakeReservationRepo) UpdateStatus(_ context.Context, id int64, status domain.ReservationStatus) error {
	if f.failUpdateID != 0 && id == f.failUpdateID {
		return errors.New("row is locked by another session")
	}
	f.statuses[id] = status
	return nil
}

func (f *fakeReservationRepo) MarkPostponed(_ context.Context, id int64, at time.Time) error {
	f.statuses[id] = domain.StatusPostponed
	f.postponedAt[id] = at
	return nil
}

func (f *fakeReservationRepo) ListPostponedWithPriority(_ context.Context, _ int64) ([]*domain.Reservation, error) {
	return f.postponed, nil
}

func (f *fakeReservationRepo) AppendHistory(_ context.Context, reservationID int64, status domain.ReservationStatus, note string) error {
	f.history = append(f.history, historyEntry{reservationID: reservationID, status: status, note: note})
	return nil
}

type fakeFacilityRepo struct {
	facility *domain.Facility
	err      error

	updatedStatus domain.FacilityStatus
}

func (f *fakeFacilityRepo) GetByID(_ context.Context, _ int64) (*domain.Facility, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.facility, nil
}

func (f *fakeFacilityRepo) UpdateStatus(_ context.Context, _ int64, status domain.FacilityStatus) error {
	f.updatedStatus = status
	return nil
}

type fakeNotificationRepo struct {
	created []*domain.Notification
	err     error
}

func (f *fakeNotificationRepo) Create(_ context.Context, n *domain.Notification) error {
	if f.err != nil {
		return f.err
	}
	f.created = append(f.created, n)
	return nil
}

type fakeMailClient struct {
	sent []*mailservice.SendRequest
}

func (f *fakeMailClient) SendBestEffort(_ context.Context, req *mailservice.SendRequest) {
	f.sent = append(f.sent, req)
}

// fakeTxManager прогоняет замыкание attempts раз, имитируя повтор после
// конфликта сериализации. Засчитывается только последний прогон.
type fakeTxManager struct {
	attempts int
}

func (f *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	attempts := f.attempts
	if attempts <= 0 {
		attempts = 1
	}
	var err error
	for i := 0; i < attempts; i++ {
		err = fn(ctx)
	}
	return err
}

type fixture struct {
	resRepo   *fakeReservationRepo
	facRepo   *fakeFacilityRepo
	notifRepo *fakeNotificationRepo
	mail      *fakeMailClient
	txMgr     *fakeTxManager
}

func newFixture(status domain.FacilityStatus) *fixture {
	return &fixture{
		resRepo: newFakeReservationRepo(),
		facRepo: &fakeFacilityRepo{facility: &domain.Facility{
			ID:     1,
			Name:   "Covered Court",
			Status: status,
		}},
		notifRepo: &fakeNotificationRepo{},
		mail:      &fakeMailClient{},
		txMgr:     &fakeTxManager{},
	}
}

func (f *fixture) build(holdPending bool) *UseCase {
	return NewUseCase(f.resRepo, f.facRepo, f.notifRepo, f.mail, f.txMgr, holdPending, nopLogger{})
}

func futureReservation(id, userID int64, status domain.ReservationStatus) *domain.Reservation {
	return &domain.Reservation{
		ID:              id,
		UserID:          userID,
		FacilityID:      1,
		ReservationDate: time.Date(2026, time.September, 20, 0, 0, 0, 0, time.UTC),
		TimeSlot:        "10:00 - 12:00",
		Status:          status,
	}
}

func TestExecute_MaintenanceCascade(t *testing.T) {
	f := newFixture(domain.FacilityAvailable)
	f.resRepo.active = []*domain.Reservation{
		futureReservation(1, 100, domain.StatusPending),
		futureReservation(2, 200, domain.StatusPending),
		futureReservation(3, 300, domain.StatusApproved),
	}
	uc := f.build(false)

	resp, err := uc.Execute(context.Background(), &Request{FacilityID: 1, NewStatus: domain.FacilityMaintenance})
	require.NoError(t, err)

	require.NotNil(t, resp.Cascade)
	assert.Equal(t, 2, resp.Cascade.PendingCancelled)
	assert.Equal(t, 0, resp.Cascade.PendingOnHold)
	assert.Equal(t, 1, resp.Cascade.ApprovedPostponed)
	assert.Empty(t, resp.Cascade.Errors)

	assert.Equal(t, domain.FacilityMaintenance, f.facRepo.updatedStatus)

	assert.Equal(t, domain.StatusCancelled, f.resRepo.statuses[1])
	assert.Equal(t, domain.StatusCancelled, f.resRepo.statuses[2])
	assert.Equal(t, domain.StatusPostponed, f.resRepo.statuses[3])
	assert.NotZero(t, f.resRepo.postponedAt[3])

	// История на каждую затронутую бронь
	assert.Len(t, f.resRepo.history, 3)

	// Уведомления после коммита: по одному на бронь
	assert.Len(t, f.notifRepo.created, 3)

	// Письмо уходит только по отложенной броне, отмены получают
	// уведомление в портале
	require.Len(t, f.mail.sent, 1)
	assert.Equal(t, mailservice.TemplatePostponed, f.mail.sent[0].Template)
	assert.Equal(t, int64(300), f.mail.sent[0].UserID)
}

func TestExecute_MaintenanceCascadeHoldsPending(t *testing.T) {
	f := newFixture(domain.FacilityAvailable)
	f.resRepo.active = []*domain.Reservation{
		futureReservation(1, 100, domain.StatusPending),
		futureReservation(2, 200, domain.StatusApproved),
	}
	uc := f.build(true)

	resp, err := uc.Execute(context.Background(), &Request{FacilityID: 1, NewStatus: domain.FacilityMaintenance})
	require.NoError(t, err)

	assert.Equal(t, 0, resp.Cascade.PendingCancelled)
	assert.Equal(t, 1, resp.Cascade.PendingOnHold)
	assert.Equal(t, 1, resp.Cascade.ApprovedPostponed)

	assert.Equal(t, domain.StatusPostponed, f.resRepo.statuses[1])

	// Письмо уходит только по отложенной одобренной брони
	require.Len(t, f.mail.sent, 1)
	assert.Equal(t, mailservice.TemplatePostponed, f.mail.sent[0].Template)
}

func TestExecute_MaintenanceCascadeCountsRowErrors(t *testing.T) {
	f := newFixture(domain.FacilityAvailable)
	f.resRepo.active = []*domain.Reservation{
		futureReservation(1, 100, domain.StatusPending),
		futureReservation(2, 200, domain.StatusPending),
		futureReservation(3, 300, domain.StatusApproved),
	}
	f.resRepo.failUpdateID = 2
	uc := f.build(false)

	resp, err := uc.Execute(context.Background(), &Request{FacilityID: 1, NewStatus: domain.FacilityMaintenance})
	require.NoError(t, err)

	assert.Equal(t, 1, resp.Cascade.PendingCancelled)
	assert.Equal(t, 1, resp.Cascade.ApprovedPostponed)
	require.Len(t, resp.Cascade.Errors, 1)
	assert.Contains(t, resp.Cascade.Errors[0], "reservation 2")

	// Инвариант: каждая бронь либо переведена, либо учтена в ошибках
	total := resp.Cascade.PendingCancelled + resp.Cascade.PendingOnHold +
		resp.Cascade.ApprovedPostponed + len(resp.Cascade.Errors)
	assert.Equal(t, len(f.resRepo.active), total)
}

func TestExecute_MaintenanceCascadeNotificationFailuresKeptSeparate(t *testing.T) {
	f := newFixture(domain.FacilityAvailable)
	f.resRepo.active = []*domain.Reservation{
		futureReservation(1, 100, domain.StatusPending),
	}
	f.notifRepo.err = errors.New("notification store is down")
	uc := f.build(false)

	resp, err := uc.Execute(context.Background(), &Request{FacilityID: 1, NewStatus: domain.FacilityMaintenance})
	require.NoError(t, err)

	// Бронь переведена и учтена в счетчике, сбой доставки не попадает в
	// ошибки строк и не ломает инвариант каскада
	assert.Equal(t, 1, resp.Cascade.PendingCancelled)
	assert.Empty(t, resp.Cascade.Errors)
	require.Len(t, resp.Cascade.NotificationErrors, 1)
	assert.Contains(t, resp.Cascade.NotificationErrors[0], "reservation 1")

	total := resp.Cascade.PendingCancelled + resp.Cascade.PendingOnHold +
		resp.Cascade.ApprovedPostponed + len(resp.Cascade.Errors)
	assert.Equal(t, len(f.resRepo.active), total)

	assert.Equal(t, domain.StatusCancelled, f.resRepo.statuses[1])
}

func TestExecute_MaintenanceCascadeRetrySafe(t *testing.T) {
	f := newFixture(domain.FacilityAvailable)
	f.resRepo.active = []*domain.Reservation{
		futureReservation(1, 100, domain.StatusPending),
		futureReservation(2, 200, domain.StatusApproved),
	}
	f.txMgr.attempts = 2
	uc := f.build(false)

	resp, err := uc.Execute(context.Background(), &Request{FacilityID: 1, NewStatus: domain.FacilityMaintenance})
	require.NoError(t, err)

	// Повтор транзакции не задваивает счетчики и уведомления
	assert.Equal(t, 1, resp.Cascade.PendingCancelled)
	assert.Equal(t, 1, resp.Cascade.ApprovedPostponed)
	assert.Len(t, f.notifRepo.created, 2)
}

func TestExecute_RestoreNotifiesInPriorityOrder(t *testing.T) {
	f := newFixture(domain.FacilityMaintenance)
	f.resRepo.postponed = []*domain.Reservation{
		futureReservation(5, 500, domain.StatusPostponed),
		futureReservation(6, 600, domain.StatusPostponed),
	}
	uc := f.build(false)

	resp, err := uc.Execute(context.Background(), &Request{FacilityID: 1, NewStatus: domain.FacilityAvailable})
	require.NoError(t, err)

	require.NotNil(t, resp.Restore)
	assert.Equal(t, 2, resp.Restore.Notified)
	assert.Empty(t, resp.Restore.Errors)

	assert.Equal(t, domain.FacilityAvailable, f.facRepo.updatedStatus)

	// Статусы броней не меняются, владельцы лишь уведомляются
	assert.Empty(t, f.resRepo.statuses)
	assert.Empty(t, f.resRepo.history)

	require.Len(t, f.notifRepo.created, 2)
	assert.Equal(t, int64(500), f.notifRepo.created[0].UserID)
	assert.Equal(t, int64(600), f.notifRepo.created[1].UserID)

	require.Len(t, f.mail.sent, 2)
	assert.Equal(t, mailservice.TemplateAvailabilityRestore, f.mail.sent[0].Template)
}

func TestExecute_RestoreCountsNotificationErrors(t *testing.T) {
	f := newFixture(domain.FacilityMaintenance)
	f.resRepo.postponed = []*domain.Reservation{
		futureReservation(5, 500, domain.StatusPostponed),
	}
	f.notifRepo.err = errors.New("notification store is down")
	uc := f.build(false)

	resp, err := uc.Execute(context.Background(), &Request{FacilityID: 1, NewStatus: domain.FacilityAvailable})
	require.NoError(t, err)

	assert.Equal(t, 0, resp.Restore.Notified)
	require.Len(t, resp.Restore.Errors, 1)
}

func TestExecute_PlainTransitionSkipsCascade(t *testing.T) {
	f := newFixture(domain.FacilityAvailable)
	uc := f.build(false)

	resp, err := uc.Execute(context.Background(), &Request{FacilityID: 1, NewStatus: domain.FacilityOffline})
	require.NoError(t, err)

	assert.Nil(t, resp.Cascade)
	assert.Nil(t, resp.Restore)
	assert.Equal(t, domain.FacilityOffline, f.facRepo.updatedStatus)
}

func TestExecute_SameStatusRejected(t *testing.T) {
	f := newFixture(domain.FacilityMaintenance)
	uc := f.build(false)

	_, err := uc.Execute(context.Background(), &Request{FacilityID: 1, NewStatus: domain.FacilityMaintenance})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestExecute_InvalidStatus(t *testing.T) {
	f := newFixture(domain.FacilityAvailable)
	uc := f.build(false)

	_, err := uc.Execute(context.Background(), &Request{FacilityID: 1, NewStatus: "demolished"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
