package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	orgRepo "github.com/m04kA/SMC-ParkingService/internal/infra/storage/organization"
)

// Service инвентарь слотов: отвечает на вопросы "сколько мест свободно сейчас"
// и "какой слот занять под бронирование"
type Service struct {
	bookingRepo BookingRepository
	orgRepo     OrganizationRepository
	logger      Logger
}

// NewService создает новый экземпляр инвентаря слотов
func NewService(
	bookingRepo BookingRepository,
	orgRepo OrganizationRepository,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		orgRepo:     orgRepo,
		logger:      logger,
	}
}

// Allocation результат выделения слота
type Allocation struct {
	LotID      int64
	SlotNumber int
}

// AvailableSlots возвращает доступность по каждой парковке организации на момент now
// Парковки отсортированы в порядке выделения (priority_order ASC, id ASC)
// Для организации без парковок возвращает пустой список
func (s *Service) AvailableSlots(ctx context.Context, organizationID int64, now time.Time) ([]domain.LotAvailability, error) {
	lots, err := s.lotsForOrganization(ctx, organizationID)
	if err != nil {
		return nil, err
	}

	result := make([]domain.LotAvailability, 0, len(lots))

	for _, lot := range lots {
		occupied, err := s.bookingRepo.CountOccupiedByLot(ctx, lot.ID, now)
		if err != nil {
			s.logger.Error("AvailableSlots: failed to count occupied slots for lot=%d: %v", lot.ID, err)
			return nil, fmt.Errorf("%w: AvailableSlots - count occupied: %v", ErrInternal, err)
		}

		available := lot.TotalSlots - occupied
		if available < 0 {
			available = 0
		}

		result = append(result, domain.LotAvailability{
			LotID:          lot.ID,
			LotName:        lot.Name,
			PriorityOrder:  lot.PriorityOrder,
			TotalSlots:     lot.TotalSlots,
			AvailableSlots: available,
		})
	}

	return result, nil
}

// TotalAvailable возвращает суммарное количество свободных слотов организации
func (s *Service) TotalAvailable(ctx context.Context, organizationID int64, now time.Time) (int, error) {
	lots, err := s.AvailableSlots(ctx, organizationID, now)
	if err != nil {
		return 0, err
	}

	total := 0
	for _, lot := range lots {
		total += lot.AvailableSlots
	}
	return total, nil
}

// Allocate подбирает слот под бронирование на диапазон [rng.Start, rng.End)
// Парковки просматриваются в порядке приоритета; в первой парковке со свободной
// емкостью на весь диапазон выбирается наименьший свободный номер слота.
// Должен вызываться внутри сериализуемой транзакции: выборка пересекающихся
// бронирований блокирует строки (FOR UPDATE), что сериализует конкурентные
// попытки занять последний слот.
func (s *Service) Allocate(ctx context.Context, organizationID int64, rng domain.TimeRange) (*Allocation, error) {
	lots, err := s.lotsForOrganization(ctx, organizationID)
	if err != nil {
		return nil, err
	}

	for _, lot := range lots {
		overlapping, err := s.bookingRepo.GetOverlappingByLot(ctx, lot.ID, rng)
		if err != nil {
			s.logger.Error("Allocate: failed to get overlapping bookings for lot=%d: %v", lot.ID, err)
			return nil, fmt.Errorf("%w: Allocate - get overlapping bookings: %v", ErrInternal, err)
		}

		slot := lowestFreeSlot(lot.TotalSlots, overlapping, rng)
		if slot == 0 {
			continue
		}

		s.logger.Info("Allocate: org=%d assigned lot=%d slot=%d for [%s, %s)",
			organizationID, lot.ID, slot,
			rng.Start.Format(time.RFC3339), rng.End.Format(time.RFC3339))

		return &Allocation{LotID: lot.ID, SlotNumber: slot}, nil
	}

	s.logger.Warn("Allocate: no capacity for org=%d in [%s, %s)",
		organizationID, rng.Start.Format(time.RFC3339), rng.End.Format(time.RFC3339))
	return nil, ErrNoCapacity
}

// SameSlotFree проверяет, свободен ли конкретный слот парковки на диапазон
// Собственное бронирование excludeBookingID не учитывается
func (s *Service) SameSlotFree(ctx context.Context, lotID int64, slotNumber int, rng domain.TimeRange, excludeBookingID int64) (bool, error) {
	overlapping, err := s.bookingRepo.GetOverlappingByLot(ctx, lotID, rng)
	if err != nil {
		s.logger.Error("SameSlotFree: failed to get overlapping bookings for lot=%d: %v", lotID, err)
		return false, fmt.Errorf("%w: SameSlotFree - get overlapping bookings: %v", ErrInternal, err)
	}

	return !slotTaken(slotNumber, overlapping, rng, excludeBookingID), nil
}

// lotsForOrganization получает парковки организации, проверяя её существование
func (s *Service) lotsForOrganization(ctx context.Context, organizationID int64) ([]*domain.ParkingLot, error) {
	if _, err := s.orgRepo.GetByID(ctx, organizationID); err != nil {
		if errors.Is(err, orgRepo.ErrOrganizationNotFound) {
			return nil, ErrOrganizationNotFound
		}
		return nil, fmt.Errorf("%w: lotsForOrganization - get organization: %v", ErrInternal, err)
	}

	lots, err := s.orgRepo.GetLotsByOrganization(ctx, organizationID)
	if err != nil {
		return nil, fmt.Errorf("%w: lotsForOrganization - get lots: %v", ErrInternal, err)
	}

	return lots, nil
}
