package create_reservation

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_reservation: invalid input data")

	// ErrFacilityNotFound возвращается, когда объект не найден
	ErrFacilityNotFound = errors.New("create_reservation: facility not found")

	// ErrFacilityUnavailable возвращается, когда объект на обслуживании или отключен
	ErrFacilityUnavailable = errors.New("create_reservation: facility is not available for booking")

	// ErrUserNotFound возвращается, когда пользователь не найден
	ErrUserNotFound = errors.New("create_reservation: user not found")

	// ErrSlotConflict возвращается при пересечении с одобренной бронью
	ErrSlotConflict = errors.New("create_reservation: time slot conflicts with an approved reservation")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_reservation: internal error")
)
