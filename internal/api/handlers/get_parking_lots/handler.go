package get_parking_lots

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ParkingService/internal/api/handlers"
	"github.com/m04kA/SMC-ParkingService/internal/service/inventory"
)

const (
	msgInvalidOrganizationID = "некорректный ID организации"
	msgOrganizationNotFound  = "организация не найдена"
)

type Handler struct {
	inventory SlotInventory
	logger    Logger
}

func NewHandler(inventory SlotInventory, logger Logger) *Handler {
	return &Handler{
		inventory: inventory,
		logger:    logger,
	}
}

// Handle GET /api/v1/organizations/{organizationId}/parking-lots
// Публичный endpoint: аутентификация не требуется
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	organizationID, err := strconv.ParseInt(vars["organizationId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /organizations/{id}/parking-lots - Invalid organization ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidOrganizationID)
		return
	}

	lots, err := h.inventory.AvailableSlots(r.Context(), organizationID, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, inventory.ErrOrganizationNotFound):
			h.logger.Warn("GET /organizations/{id}/parking-lots - Organization not found: org_id=%d", organizationID)
			handlers.RespondNotFound(w, msgOrganizationNotFound)

		default:
			h.logger.Error("GET /organizations/{id}/parking-lots - Failed to get availability: org_id=%d, error=%v",
				organizationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromDomainAvailability(organizationID, lots)

	h.logger.Info("GET /organizations/{id}/parking-lots - Availability retrieved: org_id=%d, total_available=%d",
		organizationID, response.TotalAvailable)
	handlers.RespondJSON(w, http.StatusOK, response)
}
