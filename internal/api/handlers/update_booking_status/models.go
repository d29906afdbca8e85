package update_booking_status

import (
	"fmt"
	"time"
)

// UpdateStatusRequest HTTP request model
// Поддерживаемые целевые статусы: cancelled, completed, active
// ExitTime учитывается только при завершении
type UpdateStatusRequest struct {
	Status   string  `json:"status"`
	ExitTime *string `json:"exitTime,omitempty"` // RFC3339
}

// ParseExitTime разбирает время выезда, если оно передано
func (r *UpdateStatusRequest) ParseExitTime() (*time.Time, error) {
	if r.ExitTime == nil {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, *r.ExitTime)
	if err != nil {
		return nil, fmt.Errorf("parse exitTime: %w", err)
	}
	return &t, nil
}
