package domain

// Default operating hours (minutes from midnight): 08:00 - 21:00
const (
	DefaultOperatingOpenMinutes  = 8 * 60
	DefaultOperatingCloseMinutes = 21 * 60
)

// Risk scoring weights. The rule score is
// min(60, history*10) + min(30, pending*15) + 20 if holiday, clamped to 100.
const (
	HistoricalRiskPerBooking = 10
	HistoricalRiskCap        = 60
	PendingRiskPerBooking    = 15
	PendingRiskCap           = 30
	HolidayRiskBump          = 20
	RiskScoreMax             = 100

	// Blend weights when the external advisor returns a probability
	RuleScoreWeight    = 0.6
	AdvisorScoreWeight = 0.4

	// Scores above this threshold produce a high-demand notice
	HighRiskNoticeThreshold = 70

	// Lookback window for historical slot demand
	HistoryLookbackMonths = 6
)

// Auto-approval constants
const (
	DefaultAdvanceWindowDays = 60
	ViolationLookbackDays    = 365
	MLOverrideConfidenceMin  = 0.7
	DefaultPendingTTLHours   = 48
)

// Alternative slot finding
const (
	MinAlternativeGapMinutes = 30
)

// Time format constants
const (
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ActiveStatuses statuses that occupy or contend for a slot
var ActiveStatuses = []ReservationStatus{
	StatusPending,
	StatusApproved,
}
