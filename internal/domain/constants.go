package domain

import "time"

// Business rule constants
const (
	// CancellationWindow минимальный запас до начала бронирования, при котором
	// ещё разрешена отмена. Отмена строго раньше, чем start - CancellationWindow.
	CancellationWindow = 5 * time.Minute

	// PenaltyRateMultiplier множитель к visitor-тарифу организации при просрочке
	PenaltyRateMultiplier = 2

	// MaxBookingDurationHours верхняя граница длительности одного бронирования
	MaxBookingDurationHours = 24 * 7

	MaxVehicleTypeLength = 50
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// OccupyingStatuses список статусов, при которых бронирование удерживает слот
// Используется при подсчёте занятости и поиске свободного слота
var OccupyingStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
	StatusActive,
	StatusOverstay,
}

// TerminalStatuses список финальных статусов
var TerminalStatuses = []BookingStatus{
	StatusCompleted,
	StatusCancelled,
}

// ValidStatuses все допустимые статусы бронирования
var ValidStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
	StatusActive,
	StatusCompleted,
	StatusCancelled,
	StatusOverstay,
}

// ValidRoles все допустимые роли инициатора бронирования
var ValidRoles = []RequesterRole{
	RoleOrganizationMember,
	RoleVisitor,
	RoleWalkIn,
}

// IsValidStatus проверяет, что статус входит в список допустимых
func IsValidStatus(s BookingStatus) bool {
	for _, v := range ValidStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// IsValidRole проверяет, что роль входит в список допустимых
func IsValidRole(r RequesterRole) bool {
	for _, v := range ValidRoles {
		if v == r {
			return true
		}
	}
	return false
}
