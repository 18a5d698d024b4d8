package create_reservation

import (
	"errors"
	"net/http"

	"github.com/m04kA/LGU-ReservationService/internal/api/handlers"
	"github.com/m04kA/LGU-ReservationService/internal/api/middleware"
	createReservation "github.com/m04kA/LGU-ReservationService/internal/usecase/create_reservation"
)

const (
	msgInvalidRequestBody   = "invalid request body"
	msgInvalidDate          = "invalid date format, expected YYYY-MM-DD"
	msgInvalidInput         = "invalid reservation parameters"
	msgFacilityNotFound     = "facility not found"
	msgFacilityUnavailable  = "facility is not available for booking"
	msgUserNotFound         = "user not found"
	msgSlotConflict         = "the selected time slot conflicts with an approved reservation"
	msgUnauthorized         = "authentication required"
)

type Handler struct {
	useCase CreateReservationUseCase
	metrics Metrics
	logger  Logger
}

func NewHandler(useCase CreateReservationUseCase, metrics Metrics, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		metrics: metrics,
		logger:  logger,
	}
}

// Handle POST /api/v1/reservations
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, msgUnauthorized)
		return
	}

	var req CreateReservationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /reservations - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(userID)
	if err != nil {
		h.logger.Warn("POST /reservations - Failed to parse date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createReservation.ErrInvalidInput):
			h.logger.Warn("POST /reservations - Invalid input: user_id=%d, error=%v", userID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, createReservation.ErrFacilityNotFound):
			h.logger.Warn("POST /reservations - Facility not found: facility_id=%d", req.FacilityID)
			handlers.RespondNotFound(w, msgFacilityNotFound)

		case errors.Is(err, createReservation.ErrFacilityUnavailable):
			h.logger.Warn("POST /reservations - Facility unavailable: facility_id=%d", req.FacilityID)
			handlers.RespondError(w, http.StatusConflict, msgFacilityUnavailable)

		case errors.Is(err, createReservation.ErrUserNotFound):
			h.logger.Warn("POST /reservations - User not found: user_id=%d", userID)
			handlers.RespondNotFound(w, msgUserNotFound)

		case errors.Is(err, createReservation.ErrSlotConflict):
			h.logger.Warn("POST /reservations - Slot conflict: user_id=%d, facility_id=%d", userID, req.FacilityID)
			handlers.RespondError(w, http.StatusConflict, msgSlotConflict)

		default:
			h.logger.Error("POST /reservations - Failed: user_id=%d, facility_id=%d, error=%v",
				userID, req.FacilityID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	outcome := "pending"
	if result.AutoApproved {
		outcome = "auto_approved"
	}
	h.metrics.IncReservationDecision(outcome)

	h.logger.Info("POST /reservations - Created: reservation_id=%d, user_id=%d, status=%s",
		result.ID, userID, result.Status)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
