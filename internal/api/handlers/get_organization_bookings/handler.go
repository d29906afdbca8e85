package get_organization_bookings

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ParkingService/internal/api/handlers"
	"github.com/m04kA/SMC-ParkingService/internal/api/middleware"
	"github.com/m04kA/SMC-ParkingService/internal/service/bookings"
	"github.com/m04kA/SMC-ParkingService/internal/service/bookings/models"
)

const (
	msgInvalidOrganizationID = "некорректный ID организации"
	msgInvalidQuery          = "некорректные параметры фильтра"
	msgMissingUserID         = "отсутствует ID пользователя"
	msgNotFound              = "организация не найдена"
	msgForbidden             = "доступ запрещен"
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

// Handle GET /api/v1/organizations/{organizationId}/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	organizationID, err := strconv.ParseInt(vars["organizationId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /organizations/{id}/bookings - Invalid organization ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidOrganizationID)
		return
	}

	req, err := ParseQuery(organizationID, r.URL.Query())
	if err != nil {
		h.logger.Warn("GET /organizations/{id}/bookings - Invalid query: %v", err)
		handlers.RespondBadRequest(w, msgInvalidQuery)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /organizations/{id}/bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}
	role, _ := middleware.GetUserRole(r.Context())

	requester := models.Requester{
		UserID: userID,
		Role:   role,
		OrgID:  middleware.GetUserOrgID(r.Context()),
	}

	result, err := h.service.GetOrganizationBookings(r.Context(), req, requester)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			h.logger.Warn("GET /organizations/{id}/bookings - Organization not found: org_id=%d", organizationID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("GET /organizations/{id}/bookings - Access denied: org_id=%d, user_id=%d",
				organizationID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, bookings.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidQuery)

		default:
			h.logger.Error("GET /organizations/{id}/bookings - Failed to get bookings: org_id=%d, error=%v",
				organizationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /organizations/{id}/bookings - Bookings retrieved successfully: org_id=%d, count=%d",
		organizationID, result.Total)
	handlers.RespondJSON(w, http.StatusOK, result)
}
