package run_maintenance_cascade

import "github.com/m04kA/LGU-ReservationService/internal/domain"

// Request модель запроса на смену статуса объекта
type Request struct {
	FacilityID int64
	NewStatus  domain.FacilityStatus
}

// CascadeResult итог каскада при переводе объекта на обслуживание.
// Инвариант: PendingCancelled + PendingOnHold + ApprovedPostponed + len(Errors)
// равно числу будущих pending/approved броней на старте. Сбои доставки
// уведомлений после коммита копятся отдельно в NotificationErrors: строка
// уже переведена и учтена в счетчиках.
type CascadeResult struct {
	PendingCancelled  int
	PendingOnHold     int
	ApprovedPostponed int
	Errors            []string

	NotificationErrors []string
}

// RestoreResult итог рассылки при возвращении объекта в строй
type RestoreResult struct {
	Notified int
	Errors   []string
}

// Response результат смены статуса. Заполняется максимум одно из полей
// Cascade/Restore в зависимости от направления перехода.
type Response struct {
	FacilityID     int64
	PreviousStatus domain.FacilityStatus
	NewStatus      domain.FacilityStatus

	Cascade *CascadeResult
	Restore *RestoreResult
}
