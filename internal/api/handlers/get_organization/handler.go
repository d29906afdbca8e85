package get_organization

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ParkingService/internal/api/handlers"
	"github.com/m04kA/SMC-ParkingService/internal/service/organizations"
)

const (
	msgInvalidOrganizationID = "некорректный ID организации"
	msgNotFound              = "организация не найдена"
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

// Handle GET /api/v1/organizations/{organizationId}
// Публичный endpoint: аутентификация не требуется
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	organizationID, err := strconv.ParseInt(vars["organizationId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /organizations/{id} - Invalid organization ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidOrganizationID)
		return
	}

	org, err := h.service.GetByID(r.Context(), organizationID)
	if err != nil {
		switch {
		case errors.Is(err, organizations.ErrOrganizationNotFound):
			h.logger.Warn("GET /organizations/{id} - Organization not found: org_id=%d", organizationID)
			handlers.RespondNotFound(w, msgNotFound)

		default:
			h.logger.Error("GET /organizations/{id} - Failed to get organization: org_id=%d, error=%v",
				organizationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /organizations/{id} - Organization retrieved successfully: org_id=%d", organizationID)
	handlers.RespondJSON(w, http.StatusOK, org)
}
