package timeslot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_ModernFormat(t *testing.T) {
	tests := []struct {
		name  string
		slot  string
		start int
		end   int
	}{
		{name: "padded hours", slot: "08:00 - 12:00", start: 480, end: 720},
		{name: "no spaces", slot: "8:00-12:00", start: 480, end: 720},
		{name: "afternoon", slot: "14:30 - 17:45", start: 870, end: 1065},
		{name: "embedded in label", slot: "Full day 09:00 - 21:00", start: 540, end: 1260},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, err := Parse(tt.slot)
			require.NoError(t, err)
			assert.Equal(t, tt.start, tr.Start)
			assert.Equal(t, tt.end, tr.End)
		})
	}
}

func TestParse_LegacyFormat(t *testing.T) {
	tests := []struct {
		name  string
		slot  string
		start int
		end   int
	}{
		{name: "morning", slot: "Morning (8AM - 12PM)", start: 480, end: 720},
		{name: "afternoon", slot: "Afternoon (1PM - 5PM)", start: 780, end: 1020},
		{name: "midnight start", slot: "Early (12AM - 6AM)", start: 0, end: 360},
		{name: "lowercase periods", slot: "evening (6pm - 9pm)", start: 1080, end: 1260},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, err := Parse(tt.slot)
			require.NoError(t, err)
			assert.Equal(t, tt.start, tr.Start)
			assert.Equal(t, tt.end, tr.End)
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	t.Run("unparsable text", func(t *testing.T) {
		_, err := Parse("whole day")
		assert.ErrorIs(t, err, ErrUnparsable)
	})

	t.Run("empty string", func(t *testing.T) {
		_, err := Parse("")
		assert.ErrorIs(t, err, ErrUnparsable)
	})

	t.Run("inverted range", func(t *testing.T) {
		_, err := Parse("14:00 - 10:00")
		assert.ErrorIs(t, err, ErrInvertedRange)
	})

	t.Run("zero length range", func(t *testing.T) {
		_, err := Parse("10:00 - 10:00")
		assert.ErrorIs(t, err, ErrInvertedRange)
	})
}

func TestTimeRange_Overlaps(t *testing.T) {
	base := TimeRange{Start: 600, End: 720} // 10:00 - 12:00

	tests := []struct {
		name    string
		other   TimeRange
		overlap bool
	}{
		{name: "partial overlap right", other: TimeRange{Start: 660, End: 780}, overlap: true},
		{name: "partial overlap left", other: TimeRange{Start: 540, End: 660}, overlap: true},
		{name: "contained", other: TimeRange{Start: 630, End: 690}, overlap: true},
		{name: "containing", other: TimeRange{Start: 480, End: 780}, overlap: true},
		{name: "identical", other: base, overlap: true},
		{name: "touching end", other: TimeRange{Start: 720, End: 780}, overlap: false},
		{name: "touching start", other: TimeRange{Start: 480, End: 600}, overlap: false},
		{name: "disjoint", other: TimeRange{Start: 780, End: 840}, overlap: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.overlap, base.Overlaps(tt.other))
			// Overlap is symmetric
			assert.Equal(t, tt.overlap, tt.other.Overlaps(base))
		})
	}
}

func TestSlotsOverlap(t *testing.T) {
	t.Run("parsable slots use range overlap", func(t *testing.T) {
		assert.True(t, SlotsOverlap("10:00 - 12:00", "11:00 - 13:00"))
		assert.False(t, SlotsOverlap("10:00 - 12:00", "12:00 - 13:00"))
	})

	t.Run("mixed formats compare as ranges", func(t *testing.T) {
		assert.True(t, SlotsOverlap("Morning (8AM - 12PM)", "11:00 - 13:00"))
	})

	t.Run("unparsable slots fall back to string equality", func(t *testing.T) {
		assert.True(t, SlotsOverlap("whole day", "whole day"))
		assert.False(t, SlotsOverlap("whole day", "another label"))
		assert.False(t, SlotsOverlap("whole day", "10:00 - 12:00"))
	})
}

func TestTimeRange_String(t *testing.T) {
	assert.Equal(t, "08:00 - 12:00", TimeRange{Start: 480, End: 720}.String())
	assert.Equal(t, "09:05 - 21:30", TimeRange{Start: 545, End: 1290}.String())
}

func TestTimeRange_Durations(t *testing.T) {
	tr := TimeRange{Start: 600, End: 750}
	assert.Equal(t, 150, tr.DurationMinutes())
	assert.InDelta(t, 2.5, tr.DurationHours(), 1e-9)
}

func TestDurationHoursFromSlot(t *testing.T) {
	assert.InDelta(t, 2.0, DurationHoursFromSlot("10:00 - 12:00"), 1e-9)
	assert.Zero(t, DurationHoursFromSlot("whole day"))
}

func TestFromMinutes(t *testing.T) {
	tr, err := FromMinutes(480, 720)
	require.NoError(t, err)
	assert.Equal(t, TimeRange{Start: 480, End: 720}, tr)

	_, err = FromMinutes(720, 480)
	assert.ErrorIs(t, err, ErrInvertedRange)
}
