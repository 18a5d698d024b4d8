package update_facility_status

import (
	uc "github.com/m04kA/LGU-ReservationService/internal/usecase/run_maintenance_cascade"
)

// UpdateStatusRequest HTTP request model
type UpdateStatusRequest struct {
	Status string `json:"status"` // available, maintenance, offline
}

// CascadeView итог каскада для ответа
type CascadeView struct {
	PendingCancelled   int      `json:"pendingCancelled"`
	PendingOnHold      int      `json:"pendingOnHold"`
	ApprovedPostponed  int      `json:"approvedPostponed"`
	Errors             []string `json:"errors,omitempty"`
	NotificationErrors []string `json:"notificationErrors,omitempty"`
}

// RestoreView итог рассылки при возвращении объекта в строй
type RestoreView struct {
	Notified int      `json:"notified"`
	Errors   []string `json:"errors,omitempty"`
}

// UpdateStatusResponse HTTP response model
type UpdateStatusResponse struct {
	FacilityID     int64  `json:"facilityId"`
	PreviousStatus string `json:"previousStatus"`
	NewStatus      string `json:"newStatus"`

	Cascade *CascadeView `json:"cascade,omitempty"`
	Restore *RestoreView `json:"restore,omitempty"`
}

func toResponse(result *uc.Response) *UpdateStatusResponse {
	resp := &UpdateStatusResponse{
		FacilityID:     result.FacilityID,
		PreviousStatus: string(result.PreviousStatus),
		NewStatus:      string(result.NewStatus),
	}

	if result.Cascade != nil {
		resp.Cascade = &CascadeView{
			PendingCancelled:   result.Cascade.PendingCancelled,
			PendingOnHold:      result.Cascade.PendingOnHold,
			ApprovedPostponed:  result.Cascade.ApprovedPostponed,
			Errors:             result.Cascade.Errors,
			NotificationErrors: result.Cascade.NotificationErrors,
		}
	}

	if result.Restore != nil {
		resp.Restore = &RestoreView{
			Notified: result.Restore.Notified,
			Errors:   result.Restore.Errors,
		}
	}

	return resp
}
