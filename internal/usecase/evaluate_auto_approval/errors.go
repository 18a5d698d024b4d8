package evaluate_auto_approval

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("evaluate_auto_approval: invalid input data")

	// ErrFacilityNotFound возвращается, когда объект не найден
	ErrFacilityNotFound = errors.New("evaluate_auto_approval: facility not found")

	// ErrUserNotFound возвращается, когда пользователь не найден
	ErrUserNotFound = errors.New("evaluate_auto_approval: user not found")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("evaluate_auto_approval: internal error")
)
