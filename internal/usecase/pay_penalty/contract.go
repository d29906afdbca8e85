package pay_penalty

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	"github.com/m04kA/SMC-ParkingService/internal/integrations/paymentgateway"
	"github.com/m04kA/SMC-ParkingService/internal/service/inventory"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	SettlePenalty(ctx context.Context, id int64, exitTime time.Time, penalty domain.PenaltyInfo) error
	SetRebookingID(ctx context.Context, id int64, rebookingID int64) error
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	Confirm(ctx context.Context, id int64) error
}

// OrganizationRepository интерфейс репозитория организаций
type OrganizationRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Organization, error)
}

// SlotInventory интерфейс инвентаря слотов
type SlotInventory interface {
	Allocate(ctx context.Context, organizationID int64, rng domain.TimeRange) (*inventory.Allocation, error)
}

// PaymentGatewayClient интерфейс клиента платежного шлюза
type PaymentGatewayClient interface {
	Charge(ctx context.Context, req *paymentgateway.ChargeRequest) (*paymentgateway.ChargeResponse, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
