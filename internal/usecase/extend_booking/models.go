package extend_booking

import "time"

// Request входные данные для продления бронирования
type Request struct {
	BookingID       int64
	UserID          int64
	AdditionalHours int
	PaymentMethod   string
}

// Response результат продления бронирования
type Response struct {
	BookingID        int64     `json:"bookingId"`
	LotID            int64     `json:"lotId"`
	SlotNumber       int       `json:"slotNumber"`
	NewEndTime       time.Time `json:"newEndTime"`
	DurationHours    int       `json:"durationHours"`
	Amount           float64   `json:"amount"`
	AdditionalAmount float64   `json:"additionalAmount"`
	Status           string    `json:"status"`
}
