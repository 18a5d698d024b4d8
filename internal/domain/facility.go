package domain

import (
	"time"

	"github.com/m04kA/LGU-ReservationService/pkg/timeslot"
)

// FacilityStatus represents the availability status of a facility
type FacilityStatus string

const (
	FacilityAvailable   FacilityStatus = "available"
	FacilityMaintenance FacilityStatus = "maintenance"
	FacilityOffline     FacilityStatus = "offline"
)

// Facility represents a shared public facility residents can reserve
type Facility struct {
	ID          int64
	Name        string
	Description *string
	Location    *string
	Capacity    *int

	Status      FacilityStatus
	AutoApprove bool

	// Auto-approval limits; nil means no limit is configured
	CapacityThreshold *int
	MaxDurationHours  *float64

	// Operating window, minutes from midnight; zero values fall back to defaults
	OperatingOpenMinutes  int
	OperatingCloseMinutes int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// OperatingWindow returns the facility's bookable window for a day,
// defaulting to 08:00-21:00 when no explicit hours are configured.
func (f *Facility) OperatingWindow() timeslot.TimeRange {
	open, closeAt := f.OperatingOpenMinutes, f.OperatingCloseMinutes
	if open == 0 && closeAt == 0 {
		open, closeAt = DefaultOperatingOpenMinutes, DefaultOperatingCloseMinutes
	}
	return timeslot.TimeRange{Start: open, End: closeAt}
}

// IsBookable returns true if new reservations may target this facility
func (f *Facility) IsBookable() bool {
	return f.Status == FacilityAvailable
}

// HasDurationLimit returns true if a maximum reservation duration is configured
func (f *Facility) HasDurationLimit() bool {
	return f.MaxDurationHours != nil
}

// HasCapacityThreshold returns true if an attendee threshold is configured
func (f *Facility) HasCapacityThreshold() bool {
	return f.CapacityThreshold != nil
}

// BlackoutDate is a calendar date on which a facility cannot be booked
type BlackoutDate struct {
	ID         int64
	FacilityID int64
	Date       time.Time
	Reason     *string
}
