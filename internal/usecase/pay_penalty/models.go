package pay_penalty

import "time"

// Request входные данные для оплаты штрафа
// NewStartTime/NewEndTime заданы вместе, если пользователь хочет сразу
// забронировать слот заново после оплаты штрафа
type Request struct {
	BookingID     int64
	UserID        int64
	PaymentMethod string
	NewStartTime  *time.Time
	NewEndTime    *time.Time
}

// Rebooking новое бронирование, созданное после оплаты штрафа
type Rebooking struct {
	BookingID  int64     `json:"bookingId"`
	LotID      int64     `json:"lotId"`
	SlotNumber int       `json:"slotNumber"`
	StartTime  time.Time `json:"startTime"`
	EndTime    time.Time `json:"endTime"`
	Amount     float64   `json:"amount"`
	Status     string    `json:"status"`
}

// Response результат оплаты штрафа
// Rebooking == nil при отсутствии запроса на повторное бронирование;
// RebookingError заполняется, когда штраф оплачен, но повторное
// бронирование не удалось
type Response struct {
	BookingID       int64      `json:"bookingId"`
	PenaltyAmount   float64    `json:"penaltyAmount"`
	OverstayMinutes int        `json:"overstayMinutes"`
	ExitTime        time.Time  `json:"exitTime"`
	Status          string     `json:"status"`
	Rebooking       *Rebooking `json:"rebooking,omitempty"`
	RebookingError  *string    `json:"rebookingError,omitempty"`
}
