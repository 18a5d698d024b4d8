package riskadvisor

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("riskadvisor client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("riskadvisor client: invalid response")

	// ErrAdvisorUnavailable возвращается при применении graceful degradation
	// Указывает, что советник недоступен и решение принимается только по правилам
	ErrAdvisorUnavailable = errors.New("riskadvisor unavailable: graceful degradation applied")
)
