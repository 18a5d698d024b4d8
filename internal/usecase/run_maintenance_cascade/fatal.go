package run_maintenance_cascade

import (
	"context"
	"database/sql/driver"
	"errors"

	"github.com/lib/pq"
)

// isTxFatal отличает ошибку одной строки от ошибки, после которой
// продолжать транзакцию бессмысленно: обрыв соединения, отмена контекста,
// классы ошибок PostgreSQL уровня соединения/ресурсов/рассинхронизации.
func isTxFatal(err error) bool {
	if errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code.Class() {
		case "08", // connection exceptions
			"25", // invalid transaction state
			"40", // transaction rollback
			"53", // insufficient resources
			"57", // operator intervention
			"58", // system errors
			"XX": // internal errors
			return true
		}
	}

	return false
}
