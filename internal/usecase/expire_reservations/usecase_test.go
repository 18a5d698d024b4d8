package expire_reservations

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/LGU-ReservationService/internal/domain"
)

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type fakeReservationRepo struct {
	candidates []*domain.Reservation

	alreadyTaken map[int64]bool
	declineErrID int64
	declined     []int64
	history      []int64
}

func (f *fakeReservationRepo) ListExpiryCandidates(_ context.Context) ([]*domain.Reservation, error) {
	return f.candidates, nil
}

func (f *fakeReservationRepo) DeclineIfStillPending(_ context.Context, id int64) (bool, error) {
	if f.declineErrID != 0 && id == f.declineErrID {
		return false, errors.New("connection reset")
	}
	if f.alreadyTaken[id] {
		return false, nil
	}
	f.declined = append(f.declined, id)
	return true, nil
}

func (f *fakeReservationRepo) AppendHistory(_ context.Context, reservationID int64, _ domain.ReservationStatus, _ string) error {
	f.history = append(f.history, reservationID)
	return nil
}

type fakeNotificationRepo struct {
	created []*domain.Notification
}

func (f *fakeNotificationRepo) Create(_ context.Context, n *domain.Notification) error {
	f.created = append(f.created, n)
	return nil
}

func candidate(id, userID int64) *domain.Reservation {
	return &domain.Reservation{
		ID:              id,
		UserID:          userID,
		ReservationDate: time.Date(2026, time.August, 30, 0, 0, 0, 0, time.UTC),
		TimeSlot:        "10:00 - 12:00",
		Status:          domain.StatusPending,
	}
}

func TestExecute_DeclinesExpiredRequests(t *testing.T) {
	resRepo := &fakeReservationRepo{
		candidates: []*domain.Reservation{candidate(1, 100), candidate(2, 200)},
	}
	notifRepo := &fakeNotificationRepo{}
	uc := NewUseCase(resRepo, notifRepo, nopLogger{})

	resp, err := uc.Execute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, resp.Declined)
	assert.Equal(t, 0, resp.Skipped)
	assert.Empty(t, resp.Errors)

	assert.Equal(t, []int64{1, 2}, resRepo.declined)
	assert.Equal(t, []int64{1, 2}, resRepo.history)

	require.Len(t, notifRepo.created, 2)
	assert.Equal(t, "Reservation request expired", notifRepo.created[0].Title)
}

func TestExecute_SkipsRowsTakenByAnotherRun(t *testing.T) {
	resRepo := &fakeReservationRepo{
		candidates:   []*domain.Reservation{candidate(1, 100), candidate(2, 200)},
		alreadyTaken: map[int64]bool{2: true},
	}
	notifRepo := &fakeNotificationRepo{}
	uc := NewUseCase(resRepo, notifRepo, nopLogger{})

	resp, err := uc.Execute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, resp.Declined)
	assert.Equal(t, 1, resp.Skipped)

	// Побочные эффекты только для фактически отклоненной строки
	assert.Len(t, notifRepo.created, 1)
	assert.Equal(t, int64(100), notifRepo.created[0].UserID)
}

func TestExecute_CollectsRowErrors(t *testing.T) {
	resRepo := &fakeReservationRepo{
		candidates:   []*domain.Reservation{candidate(1, 100), candidate(2, 200)},
		declineErrID: 1,
	}
	uc := NewUseCase(resRepo, &fakeNotificationRepo{}, nopLogger{})

	resp, err := uc.Execute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, resp.Declined)
	require.Len(t, resp.Errors, 1)
	assert.Contains(t, resp.Errors[0], "reservation 1")
}

func TestExecute_EmptyBatch(t *testing.T) {
	uc := NewUseCase(&fakeReservationRepo{}, &fakeNotificationRepo{}, nopLogger{})

	resp, err := uc.Execute(context.Background())
	require.NoError(t, err)

	assert.Zero(t, resp.Declined)
	assert.Zero(t, resp.Skipped)
	assert.Empty(t, resp.Errors)
}
