package extend_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	"github.com/m04kA/SMC-ParkingService/internal/integrations/paymentgateway"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	ExtendEnd(ctx context.Context, id int64, prevEnd, newEnd time.Time, newDurationHours int, newAmount float64) error
}

// OrganizationRepository интерфейс репозитория организаций
type OrganizationRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Organization, error)
}

// SlotInventory интерфейс инвентаря слотов
type SlotInventory interface {
	SameSlotFree(ctx context.Context, lotID int64, slotNumber int, rng domain.TimeRange, excludeBookingID int64) (bool, error)
}

// PaymentGatewayClient интерфейс клиента платежного шлюза
type PaymentGatewayClient interface {
	Charge(ctx context.Context, req *paymentgateway.ChargeRequest) (*paymentgateway.ChargeResponse, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
