package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PenaltyInfo describes the computed overstay charge for a booking
type PenaltyInfo struct {
	OverstayMinutes int
	OverstayHours   int // ceiling of OverstayMinutes / 60
	Amount          float64
}

// ComputePenalty returns the overstay duration and penalty amount for a booking
// that has passed endTime without completion. The penalty rate is fixed at
// PenaltyRateMultiplier times the organization's visitor hourly rate regardless
// of requester role. Returns a zero PenaltyInfo when now <= endTime.
func ComputePenalty(endTime time.Time, visitorHourlyRate float64, now time.Time) PenaltyInfo {
	if !now.After(endTime) {
		return PenaltyInfo{}
	}

	overdue := now.Sub(endTime)
	minutes := int(overdue / time.Minute)
	if overdue%time.Minute > 0 {
		minutes++
	}

	hours := minutes / 60
	if minutes%60 > 0 {
		hours++
	}

	amount := decimal.NewFromFloat(visitorHourlyRate).
		Mul(decimal.NewFromInt(PenaltyRateMultiplier)).
		Mul(decimal.NewFromInt(int64(hours)))

	return PenaltyInfo{
		OverstayMinutes: minutes,
		OverstayHours:   hours,
		Amount:          amount.InexactFloat64(),
	}
}
