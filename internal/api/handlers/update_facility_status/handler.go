package update_facility_status

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/LGU-ReservationService/internal/api/handlers"
	"github.com/m04kA/LGU-ReservationService/internal/api/middleware"
	"github.com/m04kA/LGU-ReservationService/internal/domain"
	"github.com/m04kA/LGU-ReservationService/internal/integrations/userservice"
	uc "github.com/m04kA/LGU-ReservationService/internal/usecase/run_maintenance_cascade"
)

const (
	msgInvalidFacilityID  = "invalid facility id"
	msgInvalidRequestBody = "invalid request body"
	msgInvalidStatus      = "status must be available, maintenance or offline"
	msgFacilityNotFound   = "facility not found"
	msgInvalidTransition  = "facility is already in the requested status"
	msgAccessDenied       = "staff role required"
	msgUnauthorized       = "authentication required"
)

type Handler struct {
	cascade    CascadeRunner
	userClient UserServiceClient
	metrics    Metrics
	logger     Logger
}

func NewHandler(cascade CascadeRunner, userClient UserServiceClient, metrics Metrics, logger Logger) *Handler {
	return &Handler{
		cascade:    cascade,
		userClient: userClient,
		metrics:    metrics,
		logger:     logger,
	}
}

// Handle PATCH /api/v1/facilities/{facilityId}/status
//
// Смена статуса объекта. Перевод на обслуживание запускает каскад по
// будущим броням, возвращение в строй - приоритетную рассылку.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, msgUnauthorized)
		return
	}

	facilityID, err := strconv.ParseInt(mux.Vars(r)["facilityId"], 10, 64)
	if err != nil || facilityID <= 0 {
		handlers.RespondBadRequest(w, msgInvalidFacilityID)
		return
	}

	var req UpdateStatusRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /facilities/{id}/status - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	newStatus, ok := parseStatus(req.Status)
	if !ok {
		handlers.RespondBadRequest(w, msgInvalidStatus)
		return
	}

	if err := h.checkPrivileged(r, userID); err != nil {
		switch {
		case errors.Is(err, userservice.ErrUserNotFound):
			h.logger.Warn("PATCH /facilities/{id}/status - User not found: user_id=%d", userID)
			handlers.RespondForbidden(w, msgAccessDenied)

		case errors.Is(err, errAccessDenied):
			h.logger.Warn("PATCH /facilities/{id}/status - Access denied: user_id=%d", userID)
			handlers.RespondForbidden(w, msgAccessDenied)

		default:
			h.logger.Error("PATCH /facilities/{id}/status - User check failed: user_id=%d, error=%v", userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	result, err := h.cascade.Execute(r.Context(), &uc.Request{
		FacilityID: facilityID,
		NewStatus:  newStatus,
	})
	if err != nil {
		switch {
		case errors.Is(err, uc.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidStatus)

		case errors.Is(err, uc.ErrFacilityNotFound):
			h.logger.Warn("PATCH /facilities/{id}/status - Facility not found: facility_id=%d", facilityID)
			handlers.RespondNotFound(w, msgFacilityNotFound)

		case errors.Is(err, uc.ErrInvalidTransition):
			h.logger.Warn("PATCH /facilities/{id}/status - Already in status %s: facility_id=%d", req.Status, facilityID)
			handlers.RespondError(w, http.StatusConflict, msgInvalidTransition)

		default:
			h.logger.Error("PATCH /facilities/{id}/status - Failed: facility_id=%d, error=%v", facilityID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.recordCascadeMetrics(result)

	h.logger.Info("PATCH /facilities/{id}/status - Updated: facility_id=%d, %s -> %s, by user_id=%d",
		facilityID, result.PreviousStatus, result.NewStatus, userID)
	handlers.RespondJSON(w, http.StatusOK, toResponse(result))
}

var errAccessDenied = errors.New("access denied")

func (h *Handler) checkPrivileged(r *http.Request, userID int64) error {
	user, err := h.userClient.GetUser(r.Context(), userID)
	if err != nil {
		return err
	}

	switch user.Role {
	case "staff", "admin", "Staff", "Admin":
		return nil
	default:
		return errAccessDenied
	}
}

func (h *Handler) recordCascadeMetrics(result *uc.Response) {
	if result.Cascade != nil {
		h.metrics.AddCascadeTransitions("pending_cancelled", result.Cascade.PendingCancelled)
		h.metrics.AddCascadeTransitions("pending_on_hold", result.Cascade.PendingOnHold)
		h.metrics.AddCascadeTransitions("approved_postponed", result.Cascade.ApprovedPostponed)
	}
	if result.Restore != nil {
		h.metrics.AddCascadeTransitions("notified", result.Restore.Notified)
	}
}

func parseStatus(status string) (domain.FacilityStatus, bool) {
	switch domain.FacilityStatus(status) {
	case domain.FacilityAvailable, domain.FacilityMaintenance, domain.FacilityOffline:
		return domain.FacilityStatus(status), true
	default:
		return "", false
	}
}
