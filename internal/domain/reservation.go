package domain

import (
	"time"

	"github.com/m04kA/LGU-ReservationService/pkg/timeslot"
)

// ReservationStatus represents the status of a facility reservation
type ReservationStatus string

const (
	StatusPending   ReservationStatus = "pending"
	StatusApproved  ReservationStatus = "approved"
	StatusDenied    ReservationStatus = "denied"
	StatusCancelled ReservationStatus = "cancelled"
	StatusPostponed ReservationStatus = "postponed"
)

// Reservation represents a time-boxed request to use a shared facility
type Reservation struct {
	ID         int64
	UserID     int64
	FacilityID int64

	ReservationDate time.Time
	TimeSlot        string // "HH:MM - HH:MM" or legacy "Morning (8AM - 12PM)"
	Purpose         string
	Status          ReservationStatus

	ExpectedAttendees *int
	IsCommercial      bool
	AutoApproved      bool

	// Set when the reservation is displaced by facility maintenance
	PostponedPriority bool
	PostponedAt       *time.Time

	// Pending reservations expire if not decided in time
	ExpiresAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the reservation still occupies or contends for a slot
func (r *Reservation) IsActive() bool {
	return r.Status == StatusPending || r.Status == StatusApproved
}

// CanBeCancelled returns true if the reservation can be cancelled by its owner
func (r *Reservation) CanBeCancelled() bool {
	return r.Status == StatusPending || r.Status == StatusApproved
}

// IsExpired returns true if a pending reservation has outlived its hold
func (r *Reservation) IsExpired(now time.Time) bool {
	return r.ExpiresAt != nil && !r.ExpiresAt.After(now)
}

// Range parses the reservation's time slot. The error mirrors timeslot.Parse;
// callers comparing slots should prefer timeslot.SlotsOverlap, which carries
// the degraded string-equality fallback for unparsable legacy rows.
func (r *Reservation) Range() (timeslot.TimeRange, error) {
	return timeslot.Parse(r.TimeSlot)
}

// ReservationFilter filters reservations for a facility day partition
type ReservationFilter struct {
	FacilityID           int64
	Date                 *time.Time
	Statuses             []ReservationStatus
	ExcludeReservationID *int64
	FutureOnly           bool // date >= today (for cascade batches)
	ExcludeExpired       bool // drop pending rows past expires_at
}

// DecisionOutcomes valid terminal statuses a staff decision may set
var DecisionOutcomes = []ReservationStatus{
	StatusApproved,
	StatusDenied,
}
