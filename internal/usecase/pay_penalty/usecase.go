package pay_penalty

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-ParkingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-ParkingService/internal/integrations/paymentgateway"
	"github.com/m04kA/SMC-ParkingService/internal/service/inventory"
	"github.com/m04kA/SMC-ParkingService/pkg/ptr"
)

// UseCase use case для оплаты штрафа за просрочку с опциональным
// повторным бронированием
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

// Execute оплачивает штраф за просрочку и завершает бронирование
// Штраф пересчитывается на момент оплаты: пока машина стоит на слоте,
// просрочка продолжает накапливаться.
// Если запрошено повторное бронирование, оно создается после оплаты
// штрафа; неудача повторного бронирования не отменяет оплату
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("PayPenalty: booking=%d, user=%d", req.BookingID, req.UserID)

	if (req.NewStartTime == nil) != (req.NewEndTime == nil) {
		return nil, fmt.Errorf("%w: new_start_time and new_end_time must be set together", ErrInvalidInput)
	}

	booking, err := uc.bookingRepo.GetByID(ctx, req.BookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return nil, ErrBookingNotFound
		}
		uc.logger.Error("PayPenalty: failed to get booking=%d: %v", req.BookingID, err)
		return nil, fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
	}

	if booking.UserID != req.UserID {
		uc.logger.Warn("PayPenalty: access denied for user=%d to booking=%d", req.UserID, req.BookingID)
		return nil, ErrAccessDenied
	}

	if booking.Status != domain.StatusOverstay {
		uc.logger.Warn("PayPenalty: booking=%d in status=%s, no penalty to settle", req.BookingID, booking.Status)
		return nil, fmt.Errorf("%w: status %s", ErrNotOverstay, booking.Status)
	}

	org, err := uc.orgRepo.GetByID(ctx, booking.OrganizationID)
	if err != nil {
		uc.logger.Error("PayPenalty: failed to get organization=%d: %v", booking.OrganizationID, err)
		return nil, fmt.Errorf("%w: failed to get organization: %v", ErrInternal, err)
	}

	now := uc.timeProvider.Now()
	penalty := domain.ComputePenalty(booking.EndTime, org.VisitorHourlyRate, now)

	// 1. Списываем штраф
	chargeReq := &paymentgateway.ChargeRequest{
		IdempotencyKey: fmt.Sprintf("booking-%d-penalty", booking.ID),
		Amount:         penalty.Amount,
		Method:         req.PaymentMethod,
		Description:    fmt.Sprintf("Parking booking #%d overstay penalty", booking.ID),
	}

	if _, err := uc.gateway.Charge(ctx, chargeReq); err != nil {
		if errors.Is(err, paymentgateway.ErrPaymentDeclined) {
			uc.logger.Warn("PayPenalty: payment declined for booking id=%d", booking.ID)
			return nil, ErrPaymentDeclined
		}
		uc.logger.Error("PayPenalty: payment failed for booking id=%d: %v", booking.ID, err)
		return nil, fmt.Errorf("%w: payment failed: %v", ErrInternal, err)
	}

	// 2. Закрываем бронирование и освобождаем слот
	if err := uc.bookingRepo.SettlePenalty(ctx, booking.ID, now, penalty); err != nil {
		if errors.Is(err, bookingRepo.ErrStaleState) {
			return nil, ErrStaleState
		}
		uc.logger.Error("PayPenalty: failed to settle penalty for booking=%d: %v", booking.ID, err)
		return nil, fmt.Errorf("%w: failed to settle penalty: %v", ErrInternal, err)
	}

	uc.logger.Info("PayPenalty: booking id=%d settled, overstay=%d min, penalty=%.2f",
		booking.ID, penalty.OverstayMinutes, penalty.Amount)

	resp := &Response{
		BookingID:       booking.ID,
		PenaltyAmount:   penalty.Amount,
		OverstayMinutes: penalty.OverstayMinutes,
		ExitTime:        now,
		Status:          string(domain.StatusCompleted),
	}

	// 3. Повторное бронирование, если запрошено
	if req.NewStartTime != nil {
		rebooking, err := uc.rebook(ctx, booking, org, *req.NewStartTime, *req.NewEndTime, req.PaymentMethod, now)
		if err != nil {
			uc.logger.Warn("PayPenalty: rebooking failed for booking id=%d: %v", booking.ID, err)
			resp.RebookingError = ptr.Ptr(err.Error())
			return resp, nil
		}
		resp.Rebooking = rebooking
	}

	return resp, nil
}

// rebook создает новое бронирование для того же пользователя и
// транспортного средства после оплаты штрафа
func (uc *UseCase) rebook(ctx context.Context, prev *domain.Booking, org *domain.Organization, start, end time.Time, paymentMethod string, now time.Time) (*Rebooking, error) {
	rng := domain.TimeRange{Start: start, End: end}
	if !rng.IsValid() {
		return nil, fmt.Errorf("%w: new start time must be before new end time", ErrInvalidInput)
	}
	if now.After(start) {
		return nil, fmt.Errorf("%w: new start time must not be in the past", ErrInvalidInput)
	}

	durationHours := rng.DurationHours()
	if durationHours > domain.MaxBookingDurationHours {
		return nil, fmt.Errorf("%w: booking duration exceeds %d hours", ErrInvalidInput, domain.MaxBookingDurationHours)
	}

	amount := domain.ComputeAmount(durationHours, org, prev.UserRole, prev.UserOrgID)

	var created *domain.Booking

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		allocation, err := uc.slotInventory.Allocate(txCtx, prev.OrganizationID, rng)
		if err != nil {
			if errors.Is(err, inventory.ErrNoCapacity) {
				return errors.New("no free slots for requested time range")
			}
			uc.logger.Error("PayPenalty: failed to allocate slot for rebooking: %v", err)
			return fmt.Errorf("%w: failed to allocate slot: %v", ErrInternal, err)
		}

		booking := &domain.Booking{
			OrganizationID: prev.OrganizationID,
			LotID:          allocation.LotID,
			SlotNumber:     allocation.SlotNumber,
			UserID:         prev.UserID,
			UserRole:       prev.UserRole,
			UserOrgID:      prev.UserOrgID,
			VehicleNumber:  prev.VehicleNumber,
			VehicleType:    prev.VehicleType,
			StartTime:      start,
			EndTime:        end,
			DurationHours:  durationHours,
			Amount:         amount,
			Status:         domain.StatusPending,
		}

		created, err = uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			uc.logger.Error("PayPenalty: failed to create rebooking: %v", err)
			return fmt.Errorf("%w: failed to create rebooking: %v", ErrInternal, err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	if amount > 0 {
		chargeReq := &paymentgateway.ChargeRequest{
			IdempotencyKey: fmt.Sprintf("booking-%d-create", created.ID),
			Amount:         amount,
			Method:         paymentMethod,
			Description:    fmt.Sprintf("Parking booking #%d", created.ID),
		}

		if _, err := uc.gateway.Charge(ctx, chargeReq); err != nil {
			if errors.Is(err, paymentgateway.ErrPaymentDeclined) {
				return nil, errors.New("rebooking payment declined, new booking is pending")
			}
			return nil, fmt.Errorf("%w: rebooking payment failed: %v", ErrInternal, err)
		}
	}

	if err := uc.bookingRepo.Confirm(ctx, created.ID); err != nil {
		uc.logger.Error("PayPenalty: failed to confirm rebooking id=%d: %v", created.ID, err)
		return nil, fmt.Errorf("%w: failed to confirm rebooking: %v", ErrInternal, err)
	}

	if err := uc.bookingRepo.SetRebookingID(ctx, prev.ID, created.ID); err != nil {
		// Связь не критична для оплаты и нового бронирования
		uc.logger.Warn("PayPenalty: failed to link rebooking id=%d to booking id=%d: %v", created.ID, prev.ID, err)
	}

	uc.logger.Info("PayPenalty: rebooking id=%d created for booking id=%d", created.ID, prev.ID)

	return &Rebooking{
		BookingID:  created.ID,
		LotID:      created.LotID,
		SlotNumber: created.SlotNumber,
		StartTime:  created.StartTime,
		EndTime:    created.EndTime,
		Amount:     amount,
		Status:     string(domain.StatusConfirmed),
	}, nil
}
