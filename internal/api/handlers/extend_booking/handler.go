package extend_booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ParkingService/internal/api/handlers"
	"github.com/m04kA/SMC-ParkingService/internal/api/middleware"
	extendBooking "github.com/m04kA/SMC-ParkingService/internal/usecase/extend_booking"
)

const (
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgNotFound           = "бронирование не найдено"
	msgForbidden          = "доступ запрещен"
	msgNotExtendable      = "бронирование нельзя продлить в текущем статусе"
	msgSlotUnavailable    = "слот занят на запрошенное время продления"
	msgStaleState         = "бронирование изменено параллельным запросом, повторите попытку"
	msgPaymentDeclined    = "платеж отклонен, продление отменено"
	msgInvalidInput       = "некорректные данные запроса"
)

// ExtendBookingRequest HTTP request model
type ExtendBookingRequest struct {
	AdditionalHours int    `json:"additionalHours"`
	PaymentMethod   string `json:"paymentMethod"`
}

type Handler struct {
	useCase ExtendBookingUseCase
	logger  Logger
}

func NewHandler(useCase ExtendBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PUT /api/v1/bookings/{bookingId}/extend
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	bookingID, err := strconv.ParseInt(vars["bookingId"], 10, 64)
	if err != nil {
		h.logger.Warn("PUT /bookings/{id}/extend - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	var req ExtendBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /bookings/{id}/extend - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PUT /bookings/{id}/extend - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	paymentMethod := req.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = "card"
	}

	result, err := h.useCase.Execute(r.Context(), &extendBooking.Request{
		BookingID:       bookingID,
		UserID:          userID,
		AdditionalHours: req.AdditionalHours,
		PaymentMethod:   paymentMethod,
	})
	if err != nil {
		switch {
		case errors.Is(err, extendBooking.ErrBookingNotFound):
			h.logger.Warn("PUT /bookings/{id}/extend - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, extendBooking.ErrAccessDenied):
			h.logger.Warn("PUT /bookings/{id}/extend - Access denied: booking_id=%d, user_id=%d", bookingID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, extendBooking.ErrNotExtendable):
			handlers.RespondConflict(w, msgNotExtendable)

		case errors.Is(err, extendBooking.ErrSlotUnavailable):
			h.logger.Warn("PUT /bookings/{id}/extend - Slot unavailable: booking_id=%d", bookingID)
			handlers.RespondConflict(w, msgSlotUnavailable)

		case errors.Is(err, extendBooking.ErrStaleState):
			handlers.RespondConflict(w, msgStaleState)

		case errors.Is(err, extendBooking.ErrPaymentDeclined):
			h.logger.Warn("PUT /bookings/{id}/extend - Payment declined: booking_id=%d", bookingID)
			handlers.RespondPaymentRequired(w, msgPaymentDeclined)

		case errors.Is(err, extendBooking.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("PUT /bookings/{id}/extend - Failed to extend booking: booking_id=%d, error=%v",
				bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /bookings/{id}/extend - Booking extended successfully: booking_id=%d, new_end=%s",
		bookingID, result.NewEndTime)
	handlers.RespondJSON(w, http.StatusOK, result)
}
