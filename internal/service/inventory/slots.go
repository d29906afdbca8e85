package inventory

import "github.com/m04kA/SMC-ParkingService/internal/domain"

// lowestFreeSlot возвращает наименьший свободный номер слота (1..totalSlots)
// с учетом бронирований, пересекающихся с запрошенным диапазоном
// Возвращает 0, если свободных слотов нет
func lowestFreeSlot(totalSlots int, overlapping []*domain.Booking, rng domain.TimeRange) int {
	taken := make(map[int]bool, len(overlapping))

	for _, b := range overlapping {
		// Запрос уже отфильтрован по статусу и диапазону, но при вызове
		// с более широкой выборкой пересечение проверяется повторно
		if !b.OccupiesSlot() {
			continue
		}
		if !b.Range().Overlaps(rng) {
			continue
		}
		taken[b.SlotNumber] = true
	}

	for slot := 1; slot <= totalSlots; slot++ {
		if !taken[slot] {
			return slot
		}
	}

	return 0
}

// slotTaken проверяет, занят ли конкретный слот на диапазон
// Бронирование excludeBookingID игнорируется (проверка продления собственного слота)
func slotTaken(slotNumber int, overlapping []*domain.Booking, rng domain.TimeRange, excludeBookingID int64) bool {
	for _, b := range overlapping {
		if b.ID == excludeBookingID {
			continue
		}
		if b.SlotNumber != slotNumber {
			continue
		}
		if !b.OccupiesSlot() {
			continue
		}
		if b.Range().Overlaps(rng) {
			return true
		}
	}
	return false
}
