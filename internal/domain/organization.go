package domain

import "time"

// Organization represents an organization that owns parking lots
type Organization struct {
	ID                int64
	Name              string
	Address           string
	OpenTime          string // "HH:MM"
	CloseTime         string // "HH:MM"
	VisitorHourlyRate float64
	ParkingRules      *string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// ParkingLot represents a physically distinct parking area within an organization
type ParkingLot struct {
	ID             int64
	OrganizationID int64
	Name           string
	Description    *string
	TotalSlots     int
	PriorityOrder  int // lower value is allocated first
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// LotAvailability is the per-lot availability snapshot served to callers
type LotAvailability struct {
	LotID          int64
	LotName        string
	PriorityOrder  int
	TotalSlots     int
	AvailableSlots int
}

// IsFull returns true if the lot has no free slots
func (a *LotAvailability) IsFull() bool {
	return a.AvailableSlots <= 0
}

// OccupancyRate returns the occupancy rate as a percentage (0-100)
func (a *LotAvailability) OccupancyRate() float64 {
	if a.TotalSlots == 0 {
		return 0
	}
	occupied := a.TotalSlots - a.AvailableSlots
	return float64(occupied) / float64(a.TotalSlots) * 100
}
