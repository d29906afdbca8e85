package check_extension

import "time"

// Request входные данные для проверки возможности продления
type Request struct {
	BookingID       int64
	UserID          int64
	AdditionalHours int
}

// Response результат проверки продления
// CanExtendSameSlot == false означает, что слот занят следующим
// бронированием и продление на месте невозможно
type Response struct {
	BookingID         int64     `json:"bookingId"`
	CanExtendSameSlot bool      `json:"canExtendSameSlot"`
	CurrentEndTime    time.Time `json:"currentEndTime"`
	NewEndTime        time.Time `json:"newEndTime"`
	AdditionalAmount  float64   `json:"additionalAmount"`
}
