package bookings

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	"github.com/m04kA/SMC-ParkingService/internal/integrations/qrservice"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByUserID(ctx context.Context, userID int64, status *domain.BookingStatus) ([]*domain.Booking, error)
	GetByOrganizationWithFilter(ctx context.Context, filter domain.OrganizationBookingsFilter) ([]*domain.Booking, error)
	Cancel(ctx context.Context, id int64) error
	Complete(ctx context.Context, id int64, exitTime time.Time) error
	MarkOverstay(ctx context.Context, id int64, penalty domain.PenaltyInfo) error
	RecordEntry(ctx context.Context, id int64, entryTime time.Time) error
}

// OrganizationRepository интерфейс репозитория организаций
type OrganizationRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Organization, error)
}

// QRServiceClient интерфейс клиента QR-сервиса
type QRServiceClient interface {
	GetCodeWithGracefulDegradation(ctx context.Context, bookingID int64) *qrservice.Code
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
