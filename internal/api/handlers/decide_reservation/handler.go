package decide_reservation

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/LGU-ReservationService/internal/api/handlers"
	"github.com/m04kA/LGU-ReservationService/internal/api/middleware"
	"github.com/m04kA/LGU-ReservationService/internal/service/reservations"
	"github.com/m04kA/LGU-ReservationService/internal/service/reservations/models"
)

const (
	msgInvalidReservationID = "invalid reservation id"
	msgInvalidRequestBody   = "invalid request body"
	msgInvalidOutcome       = "outcome must be approved or denied"
	msgReservationNotFound  = "reservation not found"
	msgUserNotFound         = "user not found"
	msgAccessDenied         = "staff role required"
	msgAlreadyDecided       = "reservation is already decided"
	msgSlotConflict         = "approval would conflict with another approved reservation"
	msgUnauthorized         = "authentication required"
)

type Handler struct {
	service ReservationService
	metrics Metrics
	logger  Logger
}

func NewHandler(service ReservationService, metrics Metrics, logger Logger) *Handler {
	return &Handler{
		service: service,
		metrics: metrics,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/reservations/{reservationId}/decision
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, msgUnauthorized)
		return
	}

	reservationID, err := strconv.ParseInt(mux.Vars(r)["reservationId"], 10, 64)
	if err != nil || reservationID <= 0 {
		handlers.RespondBadRequest(w, msgInvalidReservationID)
		return
	}

	var req DecideReservationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /reservations/{id}/decision - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Decide(r.Context(), reservationID, &models.DecideRequest{
		UserID:  userID,
		Outcome: req.Outcome,
		Note:    req.Note,
	})
	if err != nil {
		switch {
		case errors.Is(err, reservations.ErrInvalidInput):
			h.logger.Warn("PATCH /reservations/{id}/decision - Invalid outcome=%s: reservation_id=%d", req.Outcome, reservationID)
			handlers.RespondBadRequest(w, msgInvalidOutcome)

		case errors.Is(err, reservations.ErrReservationNotFound):
			h.logger.Warn("PATCH /reservations/{id}/decision - Not found: reservation_id=%d", reservationID)
			handlers.RespondNotFound(w, msgReservationNotFound)

		case errors.Is(err, reservations.ErrUserNotFound):
			h.logger.Warn("PATCH /reservations/{id}/decision - User not found: user_id=%d", userID)
			handlers.RespondNotFound(w, msgUserNotFound)

		case errors.Is(err, reservations.ErrAccessDenied):
			h.logger.Warn("PATCH /reservations/{id}/decision - Access denied: user_id=%d", userID)
			handlers.RespondForbidden(w, msgAccessDenied)

		case errors.Is(err, reservations.ErrAlreadyDecided):
			h.logger.Warn("PATCH /reservations/{id}/decision - Already decided: reservation_id=%d", reservationID)
			handlers.RespondError(w, http.StatusConflict, msgAlreadyDecided)

		case errors.Is(err, reservations.ErrSlotConflict):
			h.logger.Warn("PATCH /reservations/{id}/decision - Slot conflict: reservation_id=%d", reservationID)
			handlers.RespondError(w, http.StatusConflict, msgSlotConflict)

		default:
			h.logger.Error("PATCH /reservations/{id}/decision - Failed: reservation_id=%d, error=%v", reservationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.metrics.IncReservationDecision(result.Status)

	h.logger.Info("PATCH /reservations/{id}/decision - Decided: reservation_id=%d, outcome=%s, by user_id=%d",
		reservationID, result.Status, userID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
