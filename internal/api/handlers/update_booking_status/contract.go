package update_booking_status

import (
	"context"

	"github.com/m04kA/SMC-ParkingService/internal/service/bookings/models"
)

type BookingService interface {
	Cancel(ctx context.Context, bookingID int64, requester models.Requester) (*models.BookingResponse, error)
	Complete(ctx context.Context, bookingID int64, req models.CompleteRequest) (*models.BookingResponse, error)
	RecordEntry(ctx context.Context, bookingID int64, requester models.Requester) (*models.BookingResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
