package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestIsHoliday_FixedDates(t *testing.T) {
	assert.True(t, IsHoliday(date(2026, time.January, 1)))
	assert.True(t, IsHoliday(date(2026, time.June, 12)))
	assert.True(t, IsHoliday(date(2026, time.September, 8)))
	assert.True(t, IsHoliday(date(2026, time.December, 25)))

	assert.False(t, IsHoliday(date(2026, time.March, 3)))
	assert.False(t, IsHoliday(date(2026, time.July, 15)))
}

func TestIsHoliday_FloatingDates(t *testing.T) {
	// Second Sunday of May 2026 is May 10
	assert.True(t, IsHoliday(date(2026, time.May, 10)))
	assert.False(t, IsHoliday(date(2026, time.May, 3)))

	// Second Sunday of June 2026 is June 14
	assert.True(t, IsHoliday(date(2026, time.June, 14)))

	// Last Monday of August 2026 is August 31
	assert.True(t, IsHoliday(date(2026, time.August, 31)))
	assert.False(t, IsHoliday(date(2026, time.August, 24)))
}

func TestHolidayName(t *testing.T) {
	name, ok := HolidayName(date(2026, time.September, 8))
	assert.True(t, ok)
	assert.Equal(t, "Barangay Culiat Fiesta", name)

	name, ok = HolidayName(date(2026, time.August, 31))
	assert.True(t, ok)
	assert.Equal(t, "National Heroes Day", name)

	_, ok = HolidayName(date(2026, time.October, 7))
	assert.False(t, ok)
}
