package update_booking_status

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ParkingService/internal/api/handlers"
	"github.com/m04kA/SMC-ParkingService/internal/api/middleware"
	"github.com/m04kA/SMC-ParkingService/internal/domain"
	"github.com/m04kA/SMC-ParkingService/internal/service/bookings"
	"github.com/m04kA/SMC-ParkingService/internal/service/bookings/models"
)

const (
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidExitTime    = "некорректный формат времени выезда, ожидается RFC3339"
	msgUnsupportedStatus  = "неподдерживаемый целевой статус"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgNotFound           = "бронирование не найдено"
	msgForbidden          = "доступ запрещен"
	msgCannotCancel       = "бронирование нельзя отменить в текущем статусе"
	msgWindowClosed       = "отмена невозможна менее чем за 5 минут до начала"
	msgInvalidState       = "операция недопустима в текущем статусе бронирования"
	msgPenaltyDue         = "время бронирования истекло, требуется оплата штрафа"
	msgStaleState         = "бронирование изменено параллельным запросом, повторите попытку"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/bookings/{bookingId}/status
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	bookingID, err := strconv.ParseInt(vars["bookingId"], 10, 64)
	if err != nil {
		h.logger.Warn("PUT /bookings/{id}/status - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	var req UpdateStatusRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /bookings/{id}/status - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PUT /bookings/{id}/status - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}
	role, _ := middleware.GetUserRole(r.Context())

	requester := models.Requester{
		UserID: userID,
		Role:   role,
		OrgID:  middleware.GetUserOrgID(r.Context()),
	}

	var result *models.BookingResponse

	switch domain.BookingStatus(req.Status) {
	case domain.StatusCancelled:
		result, err = h.service.Cancel(r.Context(), bookingID, requester)

	case domain.StatusCompleted:
		exitTime, parseErr := req.ParseExitTime()
		if parseErr != nil {
			h.logger.Warn("PUT /bookings/{id}/status - Invalid exit time: %v", parseErr)
			handlers.RespondBadRequest(w, msgInvalidExitTime)
			return
		}
		result, err = h.service.Complete(r.Context(), bookingID, models.CompleteRequest{
			Requester: requester,
			ExitTime:  exitTime,
		})

	case domain.StatusActive:
		result, err = h.service.RecordEntry(r.Context(), bookingID, requester)

	default:
		h.logger.Warn("PUT /bookings/{id}/status - Unsupported target status: %q", req.Status)
		handlers.RespondBadRequest(w, msgUnsupportedStatus)
		return
	}

	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			h.logger.Warn("PUT /bookings/{id}/status - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("PUT /bookings/{id}/status - Access denied: booking_id=%d, user_id=%d", bookingID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, bookings.ErrCannotCancel):
			handlers.RespondConflict(w, msgCannotCancel)

		case errors.Is(err, bookings.ErrCancellationWindowClosed):
			h.logger.Warn("PUT /bookings/{id}/status - Cancellation window closed: booking_id=%d", bookingID)
			handlers.RespondConflict(w, msgWindowClosed)

		case errors.Is(err, bookings.ErrInvalidState):
			handlers.RespondConflict(w, msgInvalidState)

		case errors.Is(err, bookings.ErrPenaltyDue):
			h.logger.Warn("PUT /bookings/{id}/status - Penalty due: booking_id=%d", bookingID)
			handlers.RespondPaymentRequired(w, msgPenaltyDue)

		case errors.Is(err, bookings.ErrStaleState):
			handlers.RespondConflict(w, msgStaleState)

		default:
			h.logger.Error("PUT /bookings/{id}/status - Failed to update status: booking_id=%d, status=%s, error=%v",
				bookingID, req.Status, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /bookings/{id}/status - Status updated successfully: booking_id=%d, status=%s, user_id=%d",
		bookingID, req.Status, userID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
