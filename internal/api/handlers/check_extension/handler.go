package check_extension

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ParkingService/internal/api/handlers"
	"github.com/m04kA/SMC-ParkingService/internal/api/middleware"
	checkExtension "github.com/m04kA/SMC-ParkingService/internal/usecase/check_extension"
)

const (
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgNotFound           = "бронирование не найдено"
	msgForbidden          = "доступ запрещен"
	msgNotExtendable      = "бронирование нельзя продлить в текущем статусе"
	msgInvalidInput       = "некорректные данные запроса"
)

// CheckExtensionRequest HTTP request model
type CheckExtensionRequest struct {
	AdditionalHours int `json:"additionalHours"`
}

type Handler struct {
	useCase CheckExtensionUseCase
	logger  Logger
}

func NewHandler(useCase CheckExtensionUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings/{bookingId}/check-extension
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	bookingID, err := strconv.ParseInt(vars["bookingId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /bookings/{id}/check-extension - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	var req CheckExtensionRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings/{id}/check-extension - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings/{id}/check-extension - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &checkExtension.Request{
		BookingID:       bookingID,
		UserID:          userID,
		AdditionalHours: req.AdditionalHours,
	})
	if err != nil {
		switch {
		case errors.Is(err, checkExtension.ErrBookingNotFound):
			h.logger.Warn("POST /bookings/{id}/check-extension - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, checkExtension.ErrAccessDenied):
			h.logger.Warn("POST /bookings/{id}/check-extension - Access denied: booking_id=%d, user_id=%d", bookingID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, checkExtension.ErrNotExtendable):
			handlers.RespondConflict(w, msgNotExtendable)

		case errors.Is(err, checkExtension.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /bookings/{id}/check-extension - Failed to check extension: booking_id=%d, error=%v",
				bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings/{id}/check-extension - Checked successfully: booking_id=%d, can_extend=%v",
		bookingID, result.CanExtendSameSlot)
	handlers.RespondJSON(w, http.StatusOK, result)
}
