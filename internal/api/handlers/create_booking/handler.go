package create_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ParkingService/internal/api/handlers"
	"github.com/m04kA/SMC-ParkingService/internal/api/middleware"
	createBooking "github.com/m04kA/SMC-ParkingService/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidTime          = "некорректный формат времени, ожидается RFC3339"
	msgMissingUserID        = "отсутствует ID пользователя"
	msgNoCapacity           = "нет свободных мест на выбранное время"
	msgOrganizationNotFound = "организация не найдена"
	msgInvalidTimeRange     = "время начала должно быть раньше времени окончания"
	msgStartInPast          = "время начала должно быть в будущем"
	msgTooLong              = "превышена максимальная длительность бронирования"
	msgInvalidVehicle       = "некорректный номер транспортного средства"
	msgInvalidRole          = "некорректная роль пользователя"
	msgPaymentDeclined      = "платеж отклонен, бронирование ожидает оплаты"
	msgConcurrentConflict   = "бронирование конфликтует с конкурентной операцией, повторите запрос"
	msgInvalidInput         = "некорректные данные запроса"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Идентификация пользователя из контекста (через middleware Auth)
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}
	role, _ := middleware.GetUserRole(r.Context())
	userOrgID := middleware.GetUserOrgID(r.Context())

	useCaseReq, err := req.ToUseCaseRequest(userID, role, userOrgID)
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrNoCapacity):
			h.logger.Warn("POST /bookings - No capacity: user_id=%d, org_id=%d", userID, req.OrganizationID)
			handlers.RespondConflict(w, msgNoCapacity)

		case errors.Is(err, createBooking.ErrOrganizationNotFound):
			h.logger.Warn("POST /bookings - Organization not found: org_id=%d", req.OrganizationID)
			handlers.RespondNotFound(w, msgOrganizationNotFound)

		case errors.Is(err, createBooking.ErrInvalidTimeRange):
			handlers.RespondBadRequest(w, msgInvalidTimeRange)

		case errors.Is(err, createBooking.ErrStartInPast):
			handlers.RespondBadRequest(w, msgStartInPast)

		case errors.Is(err, createBooking.ErrTooLong):
			handlers.RespondBadRequest(w, msgTooLong)

		case errors.Is(err, createBooking.ErrInvalidVehicleNumber):
			handlers.RespondBadRequest(w, msgInvalidVehicle)

		case errors.Is(err, createBooking.ErrInvalidRole):
			handlers.RespondBadRequest(w, msgInvalidRole)

		case errors.Is(err, createBooking.ErrConcurrentConflict):
			h.logger.Warn("POST /bookings - Concurrent conflict: user_id=%d, org_id=%d", userID, req.OrganizationID)
			handlers.RespondConflict(w, msgConcurrentConflict)

		case errors.Is(err, createBooking.ErrPaymentDeclined):
			h.logger.Warn("POST /bookings - Payment declined: user_id=%d, org_id=%d", userID, req.OrganizationID)
			handlers.RespondPaymentRequired(w, msgPaymentDeclined)

		case errors.Is(err, createBooking.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: user_id=%d, org_id=%d, error=%v",
				userID, req.OrganizationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%d, user_id=%d, org_id=%d",
		result.ID, userID, req.OrganizationID)
	handlers.RespondJSON(w, http.StatusCreated, response)
}
