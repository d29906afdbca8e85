package update_organization

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ParkingService/internal/api/handlers"
	"github.com/m04kA/SMC-ParkingService/internal/api/middleware"
	"github.com/m04kA/SMC-ParkingService/internal/domain"
	"github.com/m04kA/SMC-ParkingService/internal/service/organizations"
	"github.com/m04kA/SMC-ParkingService/internal/service/organizations/models"
)

const (
	msgInvalidOrganizationID = "некорректный ID организации"
	msgInvalidRequestBody    = "некорректное тело запроса"
	msgMissingUserID         = "отсутствует ID пользователя"
	msgNotFound              = "организация не найдена"
	msgForbidden             = "доступ запрещен"
	msgInvalidInput          = "некорректные данные запроса"
)

type Handler struct {
	service OrganizationService
	logger  Logger
}

func NewHandler(service OrganizationService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/organizations/{organizationId}
// Обновлять настройки может только сотрудник этой организации
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	organizationID, err := strconv.ParseInt(vars["organizationId"], 10, 64)
	if err != nil {
		h.logger.Warn("PUT /organizations/{id} - Invalid organization ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidOrganizationID)
		return
	}

	var req models.UpdateOrganizationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /organizations/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PUT /organizations/{id} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	// Проверка прав: сотрудник организации из заголовков шлюза
	role, _ := middleware.GetUserRole(r.Context())
	userOrgID := middleware.GetUserOrgID(r.Context())
	if role != domain.RoleOrganizationMember || userOrgID == nil || *userOrgID != organizationID {
		h.logger.Warn("PUT /organizations/{id} - Access denied: org_id=%d, user_id=%d", organizationID, userID)
		handlers.RespondForbidden(w, msgForbidden)
		return
	}

	org, err := h.service.Update(r.Context(), organizationID, req)
	if err != nil {
		switch {
		case errors.Is(err, organizations.ErrOrganizationNotFound):
			h.logger.Warn("PUT /organizations/{id} - Organization not found: org_id=%d", organizationID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, organizations.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("PUT /organizations/{id} - Failed to update organization: org_id=%d, error=%v",
				organizationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /organizations/{id} - Organization updated successfully: org_id=%d, user_id=%d",
		organizationID, userID)
	handlers.RespondJSON(w, http.StatusOK, org)
}
