package models

import (
	"time"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

// ParkingLotResponse парковка организации в ответе API
type ParkingLotResponse struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	Description   *string `json:"description,omitempty"`
	TotalSlots    int     `json:"totalSlots"`
	PriorityOrder int     `json:"priorityOrder"`
}

// OrganizationResponse организация в ответе API
type OrganizationResponse struct {
	ID                int64                `json:"id"`
	Name              string               `json:"name"`
	Address           string               `json:"address"`
	OpenTime          string               `json:"openTime"`
	CloseTime         string               `json:"closeTime"`
	VisitorHourlyRate float64              `json:"visitorHourlyRate"`
	ParkingRules      *string              `json:"parkingRules,omitempty"`
	ParkingLots       []ParkingLotResponse `json:"parkingLots"`
	CreatedAt         string               `json:"createdAt"`
	UpdatedAt         string               `json:"updatedAt"`
}

// UpdateOrganizationRequest запрос на обновление настроек организации
// Обновляются только переданные поля
type UpdateOrganizationRequest struct {
	VisitorHourlyRate *float64 `json:"visitorHourlyRate,omitempty"`
	ParkingRules      *string  `json:"parkingRules,omitempty"`
}

// FromDomainOrganization преобразует доменную модель в ответ API
func FromDomainOrganization(org *domain.Organization, lots []*domain.ParkingLot) OrganizationResponse {
	lotResponses := make([]ParkingLotResponse, 0, len(lots))
	for _, lot := range lots {
		lotResponses = append(lotResponses, ParkingLotResponse{
			ID:            lot.ID,
			Name:          lot.Name,
			Description:   lot.Description,
			TotalSlots:    lot.TotalSlots,
			PriorityOrder: lot.PriorityOrder,
		})
	}

	return OrganizationResponse{
		ID:                org.ID,
		Name:              org.Name,
		Address:           org.Address,
		OpenTime:          org.OpenTime,
		CloseTime:         org.CloseTime,
		VisitorHourlyRate: org.VisitorHourlyRate,
		ParkingRules:      org.ParkingRules,
		ParkingLots:       lotResponses,
		CreatedAt:         org.CreatedAt.Format(time.RFC3339),
		UpdatedAt:         org.UpdatedAt.Format(time.RFC3339),
	}
}
