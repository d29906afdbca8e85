package inventory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

func hourRange(startHour, endHour int) domain.TimeRange {
	day := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)
	return domain.TimeRange{
		Start: day.Add(time.Duration(startHour) * time.Hour),
		End:   day.Add(time.Duration(endHour) * time.Hour),
	}
}

func occupying(id int64, slot int, startHour, endHour int) *domain.Booking {
	r := hourRange(startHour, endHour)
	return &domain.Booking{
		ID:         id,
		SlotNumber: slot,
		StartTime:  r.Start,
		EndTime:    r.End,
		Status:     domain.StatusConfirmed,
	}
}

func TestLowestFreeSlot_EmptyLot(t *testing.T) {
	// GIVEN: a lot with 3 slots and no bookings
	// WHEN: picking a slot for a new booking
	// THEN: the lowest slot number is chosen

	slot := lowestFreeSlot(3, nil, hourRange(10, 12))

	assert.Equal(t, 1, slot)
}

func TestLowestFreeSlot_SkipsTakenSlots(t *testing.T) {
	// GIVEN: slots 1 and 2 taken for an overlapping range
	// WHEN: picking a slot
	// THEN: slot 3 is chosen

	overlapping := []*domain.Booking{
		occupying(1, 1, 10, 12),
		occupying(2, 2, 11, 13),
	}

	slot := lowestFreeSlot(3, overlapping, hourRange(10, 12))

	assert.Equal(t, 3, slot)
}

func TestLowestFreeSlot_FullLot(t *testing.T) {
	overlapping := []*domain.Booking{
		occupying(1, 1, 10, 12),
		occupying(2, 2, 10, 12),
	}

	slot := lowestFreeSlot(2, overlapping, hourRange(10, 12))

	assert.Equal(t, 0, slot)
}

func TestLowestFreeSlot_BackToBackBookingDoesNotBlock(t *testing.T) {
	// GIVEN: slot 1 booked for [10:00, 12:00)
	// WHEN: picking a slot for [12:00, 14:00)
	// THEN: slot 1 is free, ranges are half-open

	overlapping := []*domain.Booking{occupying(1, 1, 10, 12)}

	slot := lowestFreeSlot(2, overlapping, hourRange(12, 14))

	assert.Equal(t, 1, slot)
}

func TestLowestFreeSlot_IgnoresReleasedBookings(t *testing.T) {
	// Завершенные и отмененные бронирования слот не удерживают
	released := occupying(1, 1, 10, 12)
	released.Status = domain.StatusCancelled

	slot := lowestFreeSlot(1, []*domain.Booking{released}, hourRange(10, 12))

	assert.Equal(t, 1, slot)
}

func TestLowestFreeSlot_OverstayHoldsSlot(t *testing.T) {
	// GIVEN: slot 1 held by an overstay booking
	// WHEN: picking a slot for an overlapping range
	// THEN: the overstay booking still blocks the slot

	overstay := occupying(1, 1, 10, 12)
	overstay.Status = domain.StatusOverstay

	slot := lowestFreeSlot(1, []*domain.Booking{overstay}, hourRange(11, 13))

	assert.Equal(t, 0, slot)
}

func TestSlotTaken_ExcludesOwnBooking(t *testing.T) {
	// GIVEN: slot 1 taken only by booking 5
	// WHEN: checking availability for extending booking 5 itself
	// THEN: the slot is considered free

	overlapping := []*domain.Booking{occupying(5, 1, 10, 12)}

	assert.False(t, slotTaken(1, overlapping, hourRange(12, 14), 5))
	assert.True(t, slotTaken(1, overlapping, hourRange(11, 13), 99))
}

func TestSlotTaken_OtherSlotDoesNotBlock(t *testing.T) {
	overlapping := []*domain.Booking{occupying(1, 2, 10, 12)}

	assert.False(t, slotTaken(1, overlapping, hourRange(10, 12), 0))
}
