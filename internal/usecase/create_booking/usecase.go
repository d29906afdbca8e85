package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	orgRepo "github.com/m04kA/SMC-ParkingService/internal/infra/storage/organization"
	"github.com/m04kA/SMC-ParkingService/internal/integrations/paymentgateway"
	"github.com/m04kA/SMC-ParkingService/internal/service/inventory"
	"github.com/m04kA/SMC-ParkingService/pkg/dbmetrics"
)

// UseCase use case для создания бронирования
type UseCase struct {
	bookingRepo   BookingRepository
	orgRepo       OrganizationRepository
	slotInventory SlotInventory
	gateway       PaymentGatewayClient
	txManager     TransactionManager
	timeProvider  TimeProvider
	logger        Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	orgRepo OrganizationRepository,
	slotInventory SlotInventory,
	gateway PaymentGatewayClient,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:   bookingRepo,
		orgRepo:       orgRepo,
		slotInventory: slotInventory,
		gateway:       gateway,
		txManager:     txManager,
		timeProvider:  &RealTimeProvider{},
		logger:        logger,
	}
}

// Execute выполняет use case создания бронирования
// Подбор слота и вставка выполняются в сериализуемой транзакции,
// чтобы два конкурентных запроса не заняли один слот.
// Оплата выполняется после коммита: при отказе шлюза бронирование
// остается в статусе pending и удерживает слот на свой диапазон
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: user=%d, org=%d, range=[%s, %s)",
		req.UserID, req.OrganizationID,
		req.StartTime.Format(time.RFC3339), req.EndTime.Format(time.RFC3339))

	now := uc.timeProvider.Now()

	// 1. Валидация входных данных
	if err := validateRequest(req, now); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем организацию для расчета стоимости
	org, err := uc.orgRepo.GetByID(ctx, req.OrganizationID)
	if err != nil {
		if errors.Is(err, orgRepo.ErrOrganizationNotFound) {
			uc.logger.Warn("CreateBooking: organization id=%d not found", req.OrganizationID)
			return nil, ErrOrganizationNotFound
		}
		uc.logger.Error("CreateBooking: failed to get organization id=%d: %v", req.OrganizationID, err)
		return nil, fmt.Errorf("%w: failed to get organization: %v", ErrInternal, err)
	}

	// 3. Считаем длительность и стоимость
	// Сотрудник своей организации паркуется бесплатно, остальные платят
	// visitor-тариф за каждый начатый час
	rng := domain.TimeRange{Start: req.StartTime, End: req.EndTime}
	durationHours := rng.DurationHours()
	amount := domain.ComputeAmount(durationHours, org, req.UserRole, req.UserOrgID)

	var result *domain.Booking

	// 4. Подбираем слот и создаем бронирование в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		allocation, err := uc.slotInventory.Allocate(txCtx, req.OrganizationID, rng)
		if err != nil {
			if errors.Is(err, inventory.ErrNoCapacity) {
				uc.logger.Warn("CreateBooking: no capacity for org=%d", req.OrganizationID)
				return ErrNoCapacity
			}
			if errors.Is(err, inventory.ErrOrganizationNotFound) {
				return ErrOrganizationNotFound
			}
			uc.logger.Error("CreateBooking: failed to allocate slot: %v", err)
			return fmt.Errorf("%w: failed to allocate slot: %v", ErrInternal, err)
		}

		booking := &domain.Booking{
			OrganizationID: req.OrganizationID,
			LotID:          allocation.LotID,
			SlotNumber:     allocation.SlotNumber,
			UserID:         req.UserID,
			UserRole:       req.UserRole,
			UserOrgID:      req.UserOrgID,
			VehicleNumber:  req.VehicleNumber,
			VehicleType:    req.VehicleType,
			StartTime:      req.StartTime,
			EndTime:        req.EndTime,
			DurationHours:  durationHours,
			Amount:         amount,
			Status:         domain.StatusPending,
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		// Вставка при пустом диапазоне не блокирует строк, поэтому гонка
		// двух создающих транзакций проявляется SSI-конфликтом на коммите
		if errors.Is(err, dbmetrics.ErrSerializationConflict) {
			uc.logger.Warn("CreateBooking: serialization conflict for org=%d: %v", req.OrganizationID, err)
			return nil, ErrConcurrentConflict
		}
		return nil, err
	}

	uc.logger.Info("CreateBooking: created booking id=%d, lot=%d, slot=%d, amount=%.2f",
		result.ID, result.LotID, result.SlotNumber, result.Amount)

	// 5. Оплата и подтверждение
	if amount > 0 {
		chargeReq := &paymentgateway.ChargeRequest{
			IdempotencyKey: fmt.Sprintf("booking-%d-create", result.ID),
			Amount:         amount,
			Method:         req.PaymentMethod,
			Description:    fmt.Sprintf("Parking booking #%d", result.ID),
		}

		if _, err := uc.gateway.Charge(ctx, chargeReq); err != nil {
			if errors.Is(err, paymentgateway.ErrPaymentDeclined) {
				uc.logger.Warn("CreateBooking: payment declined for booking id=%d", result.ID)
				return nil, ErrPaymentDeclined
			}
			uc.logger.Error("CreateBooking: payment failed for booking id=%d: %v", result.ID, err)
			return nil, fmt.Errorf("%w: payment failed: %v", ErrInternal, err)
		}
	}

	if err := uc.bookingRepo.Confirm(ctx, result.ID); err != nil {
		uc.logger.Error("CreateBooking: failed to confirm booking id=%d: %v", result.ID, err)
		return nil, fmt.Errorf("%w: failed to confirm booking: %v", ErrInternal, err)
	}

	confirmed, err := uc.bookingRepo.GetByID(ctx, result.ID)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to reload booking id=%d: %v", result.ID, err)
		return nil, fmt.Errorf("%w: failed to reload booking: %v", ErrInternal, err)
	}

	uc.logger.Info("CreateBooking: successfully confirmed booking id=%d", confirmed.ID)

	return toResponse(confirmed), nil
}
