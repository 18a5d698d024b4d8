package check_conflicts

import (
	"errors"
	"net/http"

	"github.com/m04kA/LGU-ReservationService/internal/api/handlers"
	"github.com/m04kA/LGU-ReservationService/internal/api/middleware"
	checkConflicts "github.com/m04kA/LGU-ReservationService/internal/usecase/check_conflicts"
)

const (
	msgInvalidRequestBody = "invalid request body"
	msgInvalidDate        = "invalid date format, expected YYYY-MM-DD"
	msgInvalidInput       = "invalid conflict check parameters"
	msgFacilityNotFound   = "facility not found"
)

type Handler struct {
	useCase CheckConflictsUseCase
	logger  Logger
}

func NewHandler(useCase CheckConflictsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/conflict-checks
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CheckConflictsRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /conflict-checks - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Эндпоинт публичный, авторизованный пользователь передается советнику
	userID, _ := middleware.UserIDFromContext(r.Context())

	useCaseReq, err := req.ToUseCaseRequest(userID)
	if err != nil {
		h.logger.Warn("POST /conflict-checks - Failed to parse date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, checkConflicts.ErrInvalidInput):
			h.logger.Warn("POST /conflict-checks - Invalid input: facility_id=%d, error=%v", req.FacilityID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, checkConflicts.ErrFacilityNotFound):
			h.logger.Warn("POST /conflict-checks - Facility not found: facility_id=%d", req.FacilityID)
			handlers.RespondNotFound(w, msgFacilityNotFound)

		default:
			h.logger.Error("POST /conflict-checks - Failed: facility_id=%d, error=%v", req.FacilityID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /conflict-checks - Checked: facility_id=%d, has_conflict=%t, risk=%d",
		req.FacilityID, result.HasConflict, result.RiskScore)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
