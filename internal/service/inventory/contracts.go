package inventory

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetOverlappingByLot(ctx context.Context, lotID int64, rng domain.TimeRange) ([]*domain.Booking, error)
	CountOccupiedByLot(ctx context.Context, lotID int64, now time.Time) (int, error)
}

// OrganizationRepository интерфейс репозитория организаций
type OrganizationRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Organization, error)
	GetLotsByOrganization(ctx context.Context, organizationID int64) ([]*domain.ParkingLot, error)
	GetLotByID(ctx context.Context, lotID int64) (*domain.ParkingLot, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
