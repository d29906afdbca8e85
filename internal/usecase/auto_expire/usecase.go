package auto_expire

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-ParkingService/internal/infra/storage/booking"
)

// UseCase use case для перевода просроченных бронирований в overstay
// Запускается фоновым тикером и доступен как внутренний endpoint.
// Операция идемпотентна: повторный запуск не находит уже переведенных
// бронирований, а гонка с ручным завершением разрешается условным
// обновлением по статусу
type UseCase struct {
	bookingRepo  BookingRepository
	orgRepo      OrganizationRepository
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	orgRepo OrganizationRepository,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		orgRepo:      orgRepo,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Response результат прохода по просроченным бронированиям
type Response struct {
	ExpiredCount int     `json:"expiredCount"`
	BookingIDs   []int64 `json:"bookingIds"`
}

// Execute находит бронирования с истекшим временем окончания
// и переводит их в overstay с начислением штрафа
// Бронирования в статусе pending не затрагиваются: неоплаченное
// бронирование не считается просроченной парковкой
func (uc *UseCase) Execute(ctx context.Context) (*Response, error) {
	now := uc.timeProvider.Now()

	result := &Response{BookingIDs: []int64{}}

	// Тарифы организаций в рамках одного прохода не меняются
	rates := make(map[int64]float64)

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		expired, err := uc.bookingRepo.GetExpired(txCtx, now)
		if err != nil {
			uc.logger.Error("AutoExpire: failed to get expired bookings: %v", err)
			return fmt.Errorf("%w: failed to get expired bookings: %v", ErrInternal, err)
		}

		for _, booking := range expired {
			rate, ok := rates[booking.OrganizationID]
			if !ok {
				org, err := uc.orgRepo.GetByID(txCtx, booking.OrganizationID)
				if err != nil {
					uc.logger.Error("AutoExpire: failed to get organization=%d: %v", booking.OrganizationID, err)
					return fmt.Errorf("%w: failed to get organization: %v", ErrInternal, err)
				}
				rate = org.VisitorHourlyRate
				rates[booking.OrganizationID] = rate
			}

			penalty := domain.ComputePenalty(booking.EndTime, rate, now)

			if err := uc.bookingRepo.MarkOverstay(txCtx, booking.ID, penalty); err != nil {
				// Бронирование успели завершить или отменить между выборкой
				// и обновлением: пропускаем
				if errors.Is(err, bookingRepo.ErrStaleState) {
					uc.logger.Warn("AutoExpire: booking=%d changed concurrently, skipping", booking.ID)
					continue
				}
				uc.logger.Error("AutoExpire: failed to mark booking=%d as overstay: %v", booking.ID, err)
				return fmt.Errorf("%w: failed to mark overstay: %v", ErrInternal, err)
			}

			uc.logger.Info("AutoExpire: booking=%d moved to overstay, overstay=%d min, penalty=%.2f",
				booking.ID, penalty.OverstayMinutes, penalty.Amount)

			result.ExpiredCount++
			result.BookingIDs = append(result.BookingIDs, booking.ID)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	if result.ExpiredCount > 0 {
		uc.logger.Info("AutoExpire: moved %d bookings to overstay", result.ExpiredCount)
	}

	return result, nil
}
