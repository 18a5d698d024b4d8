package domain

import "time"

// ViolationSeverity severity of a recorded user violation
type ViolationSeverity string

const (
	SeverityLow      ViolationSeverity = "low"
	SeverityMedium   ViolationSeverity = "medium"
	SeverityHigh     ViolationSeverity = "high"
	SeverityCritical ViolationSeverity = "critical"
)

// Violation represents a recorded rule violation by a user. The auto-approval
// evaluator only consumes a lookback count of high/critical entries.
type Violation struct {
	ID        int64
	UserID    int64
	Severity  ViolationSeverity
	Details   *string
	CreatedAt time.Time
}

// BlockingSeverities severities that block auto-approval when found within
// the lookback window
var BlockingSeverities = []ViolationSeverity{
	SeverityHigh,
	SeverityCritical,
}
