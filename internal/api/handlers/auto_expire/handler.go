package auto_expire

import (
	"net/http"

	"github.com/m04kA/SMC-ParkingService/internal/api/handlers"
)

type Handler struct {
	useCase AutoExpireUseCase
	logger  Logger
}

func NewHandler(useCase AutoExpireUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings/auto-expire
// Внутренний endpoint: тот же проход выполняет фоновый тикер
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	result, err := h.useCase.Execute(r.Context())
	if err != nil {
		h.logger.Error("POST /bookings/auto-expire - Failed to expire bookings: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /bookings/auto-expire - Completed: expired_count=%d", result.ExpiredCount)
	handlers.RespondJSON(w, http.StatusOK, result)
}
