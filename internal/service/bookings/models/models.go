package models

import (
	"time"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

// Requester идентификация пользователя, выполняющего запрос
// Заполняется из заголовков аутентификации на уровне middleware
type Requester struct {
	UserID int64
	Role   domain.RequesterRole
	OrgID  *int64
}

// IsMemberOf проверяет, является ли пользователь сотрудником организации
func (r Requester) IsMemberOf(organizationID int64) bool {
	return r.Role == domain.RoleOrganizationMember && r.OrgID != nil && *r.OrgID == organizationID
}

// BookingResponse бронирование в ответе API
type BookingResponse struct {
	ID              int64    `json:"id"`
	OrganizationID  int64    `json:"organizationId"`
	LotID           int64    `json:"lotId"`
	SlotNumber      int      `json:"slotNumber"`
	UserID          int64    `json:"userId"`
	UserRole        string   `json:"userRole"`
	VehicleNumber   string   `json:"vehicleNumber"`
	VehicleType     string   `json:"vehicleType"`
	StartTime       string   `json:"startTime"`
	EndTime         string   `json:"endTime"`
	DurationHours   int      `json:"durationHours"`
	Amount          float64  `json:"amount"`
	Status          string   `json:"status"`
	EntryTime       *string  `json:"entryTime,omitempty"`
	ExitTime        *string  `json:"exitTime,omitempty"`
	PenaltyAmount   *float64 `json:"penaltyAmount,omitempty"`
	OverstayMinutes *int     `json:"overstayMinutes,omitempty"`
	RebookingID     *int64   `json:"rebookingId,omitempty"`
	QRCodeURL       *string  `json:"qrCodeUrl,omitempty"`
	CreatedAt       string   `json:"createdAt"`
	UpdatedAt       string   `json:"updatedAt"`
}

// BookingListResponse список бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
	Total    int               `json:"total"`
}

// CompleteRequest параметры завершения бронирования
// ExitTime == nil означает завершение текущим моментом
type CompleteRequest struct {
	Requester Requester
	ExitTime  *time.Time
}

// OrganizationBookingsRequest параметры выборки бронирований организации
type OrganizationBookingsRequest struct {
	OrganizationID  int64
	LotID           *int64
	From            *time.Time
	To              *time.Time
	Status          *domain.BookingStatus
	IncludeInactive bool
}

// ToDomainFilter преобразует параметры запроса в фильтр репозитория
func (r OrganizationBookingsRequest) ToDomainFilter() domain.OrganizationBookingsFilter {
	return domain.OrganizationBookingsFilter{
		OrganizationID:  r.OrganizationID,
		LotID:           r.LotID,
		From:            r.From,
		To:              r.To,
		Status:          r.Status,
		IncludeInactive: r.IncludeInactive,
	}
}

// FromDomainBooking преобразует доменную модель в ответ API
func FromDomainBooking(b *domain.Booking) BookingResponse {
	resp := BookingResponse{
		ID:              b.ID,
		OrganizationID:  b.OrganizationID,
		LotID:           b.LotID,
		SlotNumber:      b.SlotNumber,
		UserID:          b.UserID,
		UserRole:        string(b.UserRole),
		VehicleNumber:   b.VehicleNumber,
		VehicleType:     b.VehicleType,
		StartTime:       b.StartTime.Format(time.RFC3339),
		EndTime:         b.EndTime.Format(time.RFC3339),
		DurationHours:   b.DurationHours,
		Amount:          b.Amount,
		Status:          string(b.Status),
		PenaltyAmount:   b.PenaltyAmount,
		OverstayMinutes: b.OverstayMinutes,
		RebookingID:     b.RebookingID,
		CreatedAt:       b.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       b.UpdatedAt.Format(time.RFC3339),
	}

	if b.EntryTime != nil {
		v := b.EntryTime.Format(time.RFC3339)
		resp.EntryTime = &v
	}
	if b.ExitTime != nil {
		v := b.ExitTime.Format(time.RFC3339)
		resp.ExitTime = &v
	}

	return resp
}

// FromDomainBookings преобразует список доменных моделей в ответ API
func FromDomainBookings(bookings []*domain.Booking) BookingListResponse {
	result := make([]BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		result = append(result, FromDomainBooking(b))
	}
	return BookingListResponse{
		Bookings: result,
		Total:    len(result),
	}
}
