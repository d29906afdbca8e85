package organizations

import (
	"context"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

// OrganizationRepository интерфейс репозитория организаций
type OrganizationRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Organization, error)
	Update(ctx context.Context, id int64, visitorHourlyRate *float64, parkingRules *string) (*domain.Organization, error)
	GetLotsByOrganization(ctx context.Context, organizationID int64) ([]*domain.ParkingLot, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
