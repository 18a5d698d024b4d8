package domain

import "time"

// fixedHolidays national and local holidays on fixed month/day dates
var fixedHolidays = map[[2]int]string{
	{int(time.January), 1}:   "New Year's Day",
	{int(time.February), 11}: "Barangay Culiat Founding Day",
	{int(time.February), 25}: "EDSA People Power Anniversary",
	{int(time.April), 9}:     "Araw ng Kagitingan",
	{int(time.June), 12}:     "Independence Day",
	{int(time.August), 21}:   "Ninoy Aquino Day",
	{int(time.September), 8}: "Barangay Culiat Fiesta",
	{int(time.November), 1}:  "All Saints' Day",
	{int(time.November), 2}:  "All Souls' Day",
	{int(time.November), 30}: "Bonifacio Day",
	{int(time.December), 25}: "Christmas Day",
	{int(time.December), 30}: "Rizal Day",
}

// HolidayName reports whether the date falls on a national or local holiday.
// Covers fixed dates plus the floating rules: Mother's Day (second Sunday of
// May), Father's Day (second Sunday of June) and National Heroes Day (last
// Monday of August).
func HolidayName(date time.Time) (string, bool) {
	if name, ok := fixedHolidays[[2]int{int(date.Month()), date.Day()}]; ok {
		return name, true
	}

	year := date.Year()
	switch {
	case sameDate(date, nthWeekdayOfMonth(year, time.May, time.Sunday, 2)):
		return "Mother's Day", true
	case sameDate(date, nthWeekdayOfMonth(year, time.June, time.Sunday, 2)):
		return "Father's Day", true
	case sameDate(date, lastWeekdayOfMonth(year, time.August, time.Monday)):
		return "National Heroes Day", true
	}

	return "", false
}

// IsHoliday reports whether the date falls on a holiday
func IsHoliday(date time.Time) bool {
	_, ok := HolidayName(date)
	return ok
}

// nthWeekdayOfMonth returns the n-th given weekday of a month (n starts at 1)
func nthWeekdayOfMonth(year int, month time.Month, weekday time.Weekday, n int) time.Time {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	offset := (int(weekday) - int(first.Weekday()) + 7) % 7
	return first.AddDate(0, 0, offset+(n-1)*7)
}

// lastWeekdayOfMonth returns the last given weekday of a month
func lastWeekdayOfMonth(year int, month time.Month, weekday time.Weekday) time.Time {
	last := time.Date(year, month+1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
	offset := (int(last.Weekday()) - int(weekday) + 7) % 7
	return last.AddDate(0, 0, -offset)
}

func sameDate(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
