package get_parking_lots

import "github.com/m04kA/SMC-ParkingService/internal/domain"

// LotAvailabilityResponse доступность одной парковки
type LotAvailabilityResponse struct {
	LotID          int64  `json:"lotId"`
	LotName        string `json:"lotName"`
	PriorityOrder  int    `json:"priorityOrder"`
	TotalSlots     int    `json:"totalSlots"`
	AvailableSlots int    `json:"availableSlots"`
	IsFull         bool   `json:"isFull"`
}

// ParkingLotsResponse доступность парковок организации
type ParkingLotsResponse struct {
	OrganizationID int64                     `json:"organizationId"`
	Lots           []LotAvailabilityResponse `json:"lots"`
	TotalAvailable int                       `json:"totalAvailable"`
}

// FromDomainAvailability конвертирует снимок доступности в HTTP response
func FromDomainAvailability(organizationID int64, lots []domain.LotAvailability) *ParkingLotsResponse {
	resp := &ParkingLotsResponse{
		OrganizationID: organizationID,
		Lots:           make([]LotAvailabilityResponse, 0, len(lots)),
	}

	for i := range lots {
		lot := lots[i]
		resp.Lots = append(resp.Lots, LotAvailabilityResponse{
			LotID:          lot.LotID,
			LotName:        lot.LotName,
			PriorityOrder:  lot.PriorityOrder,
			TotalSlots:     lot.TotalSlots,
			AvailableSlots: lot.AvailableSlots,
			IsFull:         lot.IsFull(),
		})
		resp.TotalAvailable += lot.AvailableSlots
	}

	return resp
}
