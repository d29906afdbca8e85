package pay_penalty

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ParkingService/internal/api/handlers"
	"github.com/m04kA/SMC-ParkingService/internal/api/middleware"
	payPenalty "github.com/m04kA/SMC-ParkingService/internal/usecase/pay_penalty"
)

const (
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidTime        = "некорректный формат времени, ожидается RFC3339"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgNotFound           = "бронирование не найдено"
	msgForbidden          = "доступ запрещен"
	msgNotOverstay        = "по бронированию нет неоплаченного штрафа"
	msgPaymentDeclined    = "платеж отклонен"
	msgStaleState         = "бронирование изменено параллельным запросом, повторите попытку"
	msgInvalidInput       = "некорректные данные запроса"
)

type Handler struct {
	useCase PayPenaltyUseCase
	logger  Logger
}

func NewHandler(useCase PayPenaltyUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings/pay-penalty-and-rebook/{bookingId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	bookingID, err := strconv.ParseInt(vars["bookingId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /bookings/pay-penalty-and-rebook/{id} - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	var req PayPenaltyRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings/pay-penalty-and-rebook/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings/pay-penalty-and-rebook/{id} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(bookingID, userID)
	if err != nil {
		h.logger.Warn("POST /bookings/pay-penalty-and-rebook/{id} - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, payPenalty.ErrBookingNotFound):
			h.logger.Warn("POST /bookings/pay-penalty-and-rebook/{id} - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, payPenalty.ErrAccessDenied):
			h.logger.Warn("POST /bookings/pay-penalty-and-rebook/{id} - Access denied: booking_id=%d, user_id=%d",
				bookingID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, payPenalty.ErrNotOverstay):
			handlers.RespondConflict(w, msgNotOverstay)

		case errors.Is(err, payPenalty.ErrPaymentDeclined):
			h.logger.Warn("POST /bookings/pay-penalty-and-rebook/{id} - Payment declined: booking_id=%d", bookingID)
			handlers.RespondPaymentRequired(w, msgPaymentDeclined)

		case errors.Is(err, payPenalty.ErrStaleState):
			handlers.RespondConflict(w, msgStaleState)

		case errors.Is(err, payPenalty.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /bookings/pay-penalty-and-rebook/{id} - Failed to settle penalty: booking_id=%d, error=%v",
				bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings/pay-penalty-and-rebook/{id} - Penalty settled: booking_id=%d, penalty=%.2f, rebooked=%v",
		bookingID, result.PenaltyAmount, result.Rebooking != nil)
	handlers.RespondJSON(w, http.StatusOK, result)
}
