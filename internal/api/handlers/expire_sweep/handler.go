package expire_sweep

import (
	"net/http"

	"github.com/m04kA/LGU-ReservationService/internal/api/handlers"
)

// SweepResponse HTTP response model
type SweepResponse struct {
	Declined int      `json:"declined"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
}

type Handler struct {
	sweeper ExpirySweeper
	logger  Logger
}

func NewHandler(sweeper ExpirySweeper, logger Logger) *Handler {
	return &Handler{
		sweeper: sweeper,
		logger:  logger,
	}
}

// Handle POST /internal/v1/maintenance/expire-sweep
//
// Служебный эндпоинт: планировщик дергает его по расписанию.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	result, err := h.sweeper.Execute(r.Context())
	if err != nil {
		h.logger.Error("POST /internal/maintenance/expire-sweep - Failed: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /internal/maintenance/expire-sweep - Done: declined=%d, skipped=%d, errors=%d",
		result.Declined, result.Skipped, len(result.Errors))
	handlers.RespondJSON(w, http.StatusOK, &SweepResponse{
		Declined: result.Declined,
		Skipped:  result.Skipped,
		Errors:   result.Errors,
	})
}
