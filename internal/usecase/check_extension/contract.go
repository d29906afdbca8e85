package check_extension

import (
	"context"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
}

// OrganizationRepository интерфейс репозитория организаций
type OrganizationRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Organization, error)
}

// SlotInventory интерфейс инвентаря слотов
type SlotInventory interface {
	SameSlotFree(ctx context.Context, lotID int64, slotNumber int, rng domain.TimeRange, excludeBookingID int64) (bool, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
