package update_organization

import (
	"context"

	"github.com/m04kA/SMC-ParkingService/internal/service/organizations/models"
)

type OrganizationService interface {
	Update(ctx context.Context, organizationID int64, req models.UpdateOrganizationRequest) (*models.OrganizationResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
