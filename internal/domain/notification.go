package domain

import "time"

// NotificationType groups notifications in the resident dashboard
type NotificationType string

const (
	NotificationBooking NotificationType = "booking"
	NotificationSystem  NotificationType = "system"
)

// Notification is a dashboard notification emitted by the rule engine;
// delivery/rendering belongs to the portal, this core only records it.
type Notification struct {
	ID        string // uuid, doubles as a dedup key for retried cascades
	UserID    int64
	Type      NotificationType
	Title     string
	Message   string
	Link      *string
	CreatedAt time.Time
}
