package get_parking_lots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

type SlotInventory interface {
	AvailableSlots(ctx context.Context, organizationID int64, now time.Time) ([]domain.LotAvailability, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
