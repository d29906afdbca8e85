package create_booking

import (
	"time"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

// Request входные данные для создания бронирования
type Request struct {
	OrganizationID int64
	UserID         int64
	UserRole       domain.RequesterRole
	UserOrgID      *int64
	VehicleNumber  string
	VehicleType    string
	StartTime      time.Time
	EndTime        time.Time
	PaymentMethod  string
}

// Response результат создания бронирования
type Response struct {
	ID             int64
	OrganizationID int64
	LotID          int64
	SlotNumber     int
	UserID         int64
	UserRole       string
	VehicleNumber  string
	VehicleType    string
	StartTime      time.Time
	EndTime        time.Time
	DurationHours  int
	Amount         float64
	Status         string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// toResponse преобразует доменную модель в ответ use case
func toResponse(b *domain.Booking) *Response {
	return &Response{
		ID:             b.ID,
		OrganizationID: b.OrganizationID,
		LotID:          b.LotID,
		SlotNumber:     b.SlotNumber,
		UserID:         b.UserID,
		UserRole:       string(b.UserRole),
		VehicleNumber:  b.VehicleNumber,
		VehicleType:    b.VehicleType,
		StartTime:      b.StartTime,
		EndTime:        b.EndTime,
		DurationHours:  b.DurationHours,
		Amount:         b.Amount,
		Status:         string(b.Status),
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
	}
}
