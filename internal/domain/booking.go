package domain

import "time"

// BookingStatus represents the status of a parking booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusActive    BookingStatus = "active"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
	StatusOverstay  BookingStatus = "overstay"
)

// RequesterRole identifies who is making a booking
type RequesterRole string

const (
	RoleOrganizationMember RequesterRole = "organization_member"
	RoleVisitor            RequesterRole = "visitor"
	RoleWalkIn             RequesterRole = "walk_in"
)

// Booking represents a parking slot reservation
type Booking struct {
	ID             int64
	OrganizationID int64
	LotID          int64
	SlotNumber     int
	UserID         int64
	UserRole       RequesterRole
	UserOrgID      *int64 // home organization of the requester, nil for visitors and walk-ins
	VehicleNumber  string // normalized uppercase
	VehicleType    string
	StartTime      time.Time
	EndTime        time.Time
	DurationHours  int
	Amount         float64
	Status         BookingStatus

	EntryTime *time.Time
	ExitTime  *time.Time

	PenaltyAmount   *float64
	OverstayMinutes *int
	RebookingID     *int64 // booking spawned by a penalty payment, if any

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Range returns the booked time range
func (b *Booking) Range() TimeRange {
	return TimeRange{Start: b.StartTime, End: b.EndTime}
}

// OccupiesSlot returns true if the booking holds its slot for its time range.
// Overstay bookings keep holding the slot until the penalty is settled.
func (b *Booking) OccupiesSlot() bool {
	return b.Status == StatusPending ||
		b.Status == StatusConfirmed ||
		b.Status == StatusActive ||
		b.Status == StatusOverstay
}

// IsTerminal returns true if the booking reached a final state
func (b *Booking) IsTerminal() bool {
	return b.Status == StatusCompleted || b.Status == StatusCancelled
}

// IsActiveAt returns true if the booking is effectively active at the given moment.
// A confirmed booking becomes active once its start time has passed.
func (b *Booking) IsActiveAt(now time.Time) bool {
	if b.Status == StatusActive {
		return true
	}
	return b.Status == StatusConfirmed && !now.Before(b.StartTime)
}

// CanBeCancelledAt returns true if the booking may still be cancelled at the
// given moment: strictly more than CancellationWindow before the start time
func (b *Booking) CanBeCancelledAt(now time.Time) bool {
	if b.Status != StatusPending && b.Status != StatusConfirmed {
		return false
	}
	return now.Before(b.StartTime.Add(-CancellationWindow))
}

// CanBeExtended returns true if the booking is in a state that allows extension
func (b *Booking) CanBeExtended() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed || b.Status == StatusActive
}

// IsOverdueAt returns true if the booking is active and its end time has passed
func (b *Booking) IsOverdueAt(now time.Time) bool {
	return b.IsActiveAt(now) && now.After(b.EndTime)
}

// OrganizationBookingsFilter фильтр для получения бронирований организации
type OrganizationBookingsFilter struct {
	OrganizationID  int64          // Обязательный параметр
	LotID           *int64         // Фильтр по парковке (опционально)
	From            *time.Time     // Начало периода (опционально)
	To              *time.Time     // Конец периода (опционально)
	Status          *BookingStatus // Фильтр по статусу (опционально)
	IncludeInactive bool           // Включать ли завершённые и отменённые бронирования
}
