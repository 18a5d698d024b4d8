package evaluate_auto_approval

import (
	"errors"
	"net/http"
	"time"

	"github.com/m04kA/LGU-ReservationService/internal/api/handlers"
	"github.com/m04kA/LGU-ReservationService/internal/api/middleware"
	"github.com/m04kA/LGU-ReservationService/internal/domain"
	uc "github.com/m04kA/LGU-ReservationService/internal/usecase/evaluate_auto_approval"
)

const (
	msgInvalidRequestBody = "invalid request body"
	msgInvalidDate        = "date must be in YYYY-MM-DD format"
	msgInvalidInput       = "invalid evaluation parameters"
	msgFacilityNotFound   = "facility not found"
	msgUserNotFound       = "user not found"
	msgUnauthorized       = "authentication required"
)

type Handler struct {
	evaluator AutoApprovalEvaluator
	logger    Logger
}

func NewHandler(evaluator AutoApprovalEvaluator, logger Logger) *Handler {
	return &Handler{
		evaluator: evaluator,
		logger:    logger,
	}
}

// Handle POST /api/v1/auto-approval/evaluations
//
// Пробный прогон движка авто-одобрения без создания брони.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, msgUnauthorized)
		return
	}

	var req EvaluateRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /auto-approval/evaluations - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	date, err := time.Parse(domain.DateFormat, req.Date)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.evaluator.Execute(r.Context(), &uc.Request{
		UserID:            userID,
		FacilityID:        req.FacilityID,
		Date:              date,
		TimeSlot:          req.TimeSlot,
		ExpectedAttendees: req.ExpectedAttendees,
		IsCommercial:      req.IsCommercial,
	})
	if err != nil {
		switch {
		case errors.Is(err, uc.ErrInvalidInput):
			h.logger.Warn("POST /auto-approval/evaluations - Invalid input: facility_id=%d, slot=%s", req.FacilityID, req.TimeSlot)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, uc.ErrFacilityNotFound):
			h.logger.Warn("POST /auto-approval/evaluations - Facility not found: facility_id=%d", req.FacilityID)
			handlers.RespondNotFound(w, msgFacilityNotFound)

		case errors.Is(err, uc.ErrUserNotFound):
			h.logger.Warn("POST /auto-approval/evaluations - User not found: user_id=%d", userID)
			handlers.RespondNotFound(w, msgUserNotFound)

		default:
			h.logger.Error("POST /auto-approval/evaluations - Failed: facility_id=%d, error=%v", req.FacilityID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /auto-approval/evaluations - Evaluated: facility_id=%d, user_id=%d, auto_approve=%t",
		req.FacilityID, userID, result.AutoApprove)
	handlers.RespondJSON(w, http.StatusOK, toResponse(result))
}
