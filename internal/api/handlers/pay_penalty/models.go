package pay_penalty

import (
	"fmt"
	"time"

	payPenalty "github.com/m04kA/SMC-ParkingService/internal/usecase/pay_penalty"
)

// PayPenaltyRequest HTTP request model
// NewStartTime/NewEndTime заданы вместе, если после оплаты штрафа
// нужно сразу создать новое бронирование
type PayPenaltyRequest struct {
	PaymentMethod string  `json:"paymentMethod"`
	NewStartTime  *string `json:"newStartTime,omitempty"` // RFC3339
	NewEndTime    *string `json:"newEndTime,omitempty"`   // RFC3339
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *PayPenaltyRequest) ToUseCaseRequest(bookingID, userID int64) (*payPenalty.Request, error) {
	paymentMethod := r.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = "card"
	}

	req := &payPenalty.Request{
		BookingID:     bookingID,
		UserID:        userID,
		PaymentMethod: paymentMethod,
	}

	if r.NewStartTime != nil {
		t, err := time.Parse(time.RFC3339, *r.NewStartTime)
		if err != nil {
			return nil, fmt.Errorf("parse newStartTime: %w", err)
		}
		req.NewStartTime = &t
	}
	if r.NewEndTime != nil {
		t, err := time.Parse(time.RFC3339, *r.NewEndTime)
		if err != nil {
			return nil, fmt.Errorf("parse newEndTime: %w", err)
		}
		req.NewEndTime = &t
	}

	return req, nil
}
