package run_maintenance_cascade

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("run_maintenance_cascade: invalid input data")

	// ErrFacilityNotFound возвращается, когда объект не найден
	ErrFacilityNotFound = errors.New("run_maintenance_cascade: facility not found")

	// ErrInvalidTransition возвращается при недопустимой смене статуса
	ErrInvalidTransition = errors.New("run_maintenance_cascade: invalid status transition")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("run_maintenance_cascade: internal error")
)
