package create_booking

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	createBooking "github.com/m04kA/SMC-ParkingService/internal/usecase/create_booking"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	OrganizationID int64  `json:"organizationId"`
	VehicleNumber  string `json:"vehicleNumber"`
	VehicleType    string `json:"vehicleType"`
	StartTime      string `json:"startTime"` // RFC3339
	EndTime        string `json:"endTime"`   // RFC3339
	PaymentMethod  string `json:"paymentMethod"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID             int64   `json:"id"`
	OrganizationID int64   `json:"organizationId"`
	LotID          int64   `json:"lotId"`
	SlotNumber     int     `json:"slotNumber"`
	UserID         int64   `json:"userId"`
	UserRole       string  `json:"userRole"`
	VehicleNumber  string  `json:"vehicleNumber"`
	VehicleType    string  `json:"vehicleType"`
	StartTime      string  `json:"startTime"`
	EndTime        string  `json:"endTime"`
	DurationHours  int     `json:"durationHours"`
	Amount         float64 `json:"amount"`
	Status         string  `json:"status"`
	CreatedAt      string  `json:"createdAt"`
	UpdatedAt      string  `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(userID int64, role domain.RequesterRole, userOrgID *int64) (*createBooking.Request, error) {
	startTime, err := time.Parse(time.RFC3339, r.StartTime)
	if err != nil {
		return nil, fmt.Errorf("parse startTime: %w", err)
	}

	endTime, err := time.Parse(time.RFC3339, r.EndTime)
	if err != nil {
		return nil, fmt.Errorf("parse endTime: %w", err)
	}

	paymentMethod := r.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = "card"
	}

	return &createBooking.Request{
		OrganizationID: r.OrganizationID,
		UserID:         userID,
		UserRole:       role,
		UserOrgID:      userOrgID,
		VehicleNumber:  r.VehicleNumber,
		VehicleType:    r.VehicleType,
		StartTime:      startTime,
		EndTime:        endTime,
		PaymentMethod:  paymentMethod,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:             resp.ID,
		OrganizationID: resp.OrganizationID,
		LotID:          resp.LotID,
		SlotNumber:     resp.SlotNumber,
		UserID:         resp.UserID,
		UserRole:       resp.UserRole,
		VehicleNumber:  resp.VehicleNumber,
		VehicleType:    resp.VehicleType,
		StartTime:      resp.StartTime.Format(time.RFC3339),
		EndTime:        resp.EndTime.Format(time.RFC3339),
		DurationHours:  resp.DurationHours,
		Amount:         resp.Amount,
		Status:         resp.Status,
		CreatedAt:      resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      resp.UpdatedAt.Format(time.RFC3339),
	}
}
