package check_conflicts

import "time"

// Request модель запроса на проверку конфликтов слота
type Request struct {
	FacilityID int64     // ID объекта
	Date       time.Time // Дата бронирования (без времени)
	TimeSlot   string    // Слот, например "10:00 - 12:00"

	// UserID владельца заявки, передается советнику; 0 для анонимной проверки
	UserID int64

	// Контекст заявки для оценки риска (опционально)
	ExpectedAttendees *int
	IsCommercial      bool

	// ID брони, исключаемой из проверки (для редактирования)
	ExcludeReservationID *int64
}

// ConflictInfo существующая бронь, пересекающаяся с кандидатом
type ConflictInfo struct {
	ReservationID int64
	TimeSlot      string
	Status        string
}

// Alternative свободный промежуток в расписании дня
type Alternative struct {
	Slot           string // "HH:MM - HH:MM"
	Available      bool
	Recommendation string
}

// Response результат проверки конфликтов.
// HasConflict = true только при пересечении с одобренной бронью.
type Response struct {
	HasConflict   bool
	Conflicts     []ConflictInfo // пересечения с approved
	SoftConflicts []ConflictInfo // пересечения с pending
	PendingCount  int
	RiskScore     int
	Alternatives  []Alternative
	Message       string
}
