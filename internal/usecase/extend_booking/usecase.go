package extend_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-ParkingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-ParkingService/internal/integrations/paymentgateway"
	"github.com/m04kA/SMC-ParkingService/pkg/dbmetrics"
)

// UseCase use case для продления бронирования на том же слоте
type UseCase struct {
	bookingRepo   BookingRepository
	orgRepo       OrganizationRepository
	slotInventory SlotInventory
	gateway       PaymentGatewayClient
	txManager     TransactionManager
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
		logger:        logger,
	}
}

// Execute продлевает бронирование на указанное число часов без смены слота
// Проверка занятости слота и сдвиг времени окончания выполняются в одной
// сериализуемой транзакции: конкурентное бронирование того же слота либо
// завершится раньше и приведет к ErrSlotUnavailable, либо будет ждать
// блокировку и не пересечется с продленным диапазоном.
// Доплата списывается после коммита; при отказе шлюза продление
// откатывается компенсирующим обновлением
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ExtendBooking: booking=%d, additional_hours=%d", req.BookingID, req.AdditionalHours)

	if req.AdditionalHours <= 0 {
		return nil, fmt.Errorf("%w: additional_hours must be positive", ErrInvalidInput)
	}

	var (
		extended         *domain.Booking
		prevEnd          time.Time
		prevDuration     int
		prevAmount       float64
		additionalAmount float64
	)

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// Чтение внутри транзакции блокирует строку бронирования (FOR UPDATE)
		booking, err := uc.bookingRepo.GetByID(txCtx, req.BookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			uc.logger.Error("ExtendBooking: failed to get booking=%d: %v", req.BookingID, err)
			return fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
		}

		if booking.UserID != req.UserID {
			uc.logger.Warn("ExtendBooking: access denied for user=%d to booking=%d", req.UserID, req.BookingID)
			return ErrAccessDenied
		}

		if !booking.CanBeExtended() {
			uc.logger.Warn("ExtendBooking: booking=%d in status=%s cannot be extended", req.BookingID, booking.Status)
			return fmt.Errorf("%w: status %s", ErrNotExtendable, booking.Status)
		}

		newDuration := booking.DurationHours + req.AdditionalHours
		if newDuration > domain.MaxBookingDurationHours {
			return fmt.Errorf("%w: total duration exceeds maximum", ErrInvalidInput)
		}

		newEnd := booking.EndTime.Add(time.Duration(req.AdditionalHours) * time.Hour)
		extensionRange := domain.TimeRange{Start: booking.EndTime, End: newEnd}

		free, err := uc.slotInventory.SameSlotFree(txCtx, booking.LotID, booking.SlotNumber, extensionRange, booking.ID)
		if err != nil {
			uc.logger.Error("ExtendBooking: failed to check slot availability: %v", err)
			return fmt.Errorf("%w: failed to check slot availability: %v", ErrInternal, err)
		}
		if !free {
			uc.logger.Warn("ExtendBooking: slot lot=%d number=%d taken for [%s, %s)",
				booking.LotID, booking.SlotNumber,
				extensionRange.Start.Format(time.RFC3339), extensionRange.End.Format(time.RFC3339))
			return ErrSlotUnavailable
		}

		org, err := uc.orgRepo.GetByID(txCtx, booking.OrganizationID)
		if err != nil {
			uc.logger.Error("ExtendBooking: failed to get organization=%d: %v", booking.OrganizationID, err)
			return fmt.Errorf("%w: failed to get organization: %v", ErrInternal, err)
		}

		additionalAmount = domain.ComputeAmount(req.AdditionalHours, org, booking.UserRole, booking.UserOrgID)
		newAmount := booking.Amount + additionalAmount

		prevEnd = booking.EndTime
		prevDuration = booking.DurationHours
		prevAmount = booking.Amount

		if err := uc.bookingRepo.ExtendEnd(txCtx, booking.ID, booking.EndTime, newEnd, newDuration, newAmount); err != nil {
			if errors.Is(err, bookingRepo.ErrStaleState) {
				return ErrStaleState
			}
			uc.logger.Error("ExtendBooking: failed to extend booking=%d: %v", booking.ID, err)
			return fmt.Errorf("%w: failed to extend booking: %v", ErrInternal, err)
		}

		booking.EndTime = newEnd
		booking.DurationHours = newDuration
		booking.Amount = newAmount
		extended = booking
		return nil
	})

	if err != nil {
		if errors.Is(err, dbmetrics.ErrSerializationConflict) {
			uc.logger.Warn("ExtendBooking: serialization conflict for booking=%d: %v", req.BookingID, err)
			return nil, ErrStaleState
		}
		return nil, err
	}

	if additionalAmount > 0 {
		chargeReq := &paymentgateway.ChargeRequest{
			IdempotencyKey: fmt.Sprintf("booking-%d-extend-%d", extended.ID, extended.EndTime.Unix()),
			Amount:         additionalAmount,
			Method:         req.PaymentMethod,
			Description:    fmt.Sprintf("Parking booking #%d extension", extended.ID),
		}

		if _, err := uc.gateway.Charge(ctx, chargeReq); err != nil {
			uc.logger.Warn("ExtendBooking: payment failed for booking id=%d, reverting extension: %v", extended.ID, err)
			uc.revert(ctx, extended, prevEnd, prevDuration, prevAmount)

			if errors.Is(err, paymentgateway.ErrPaymentDeclined) {
				return nil, ErrPaymentDeclined
			}
			return nil, fmt.Errorf("%w: payment failed: %v", ErrInternal, err)
		}
	}

	uc.logger.Info("ExtendBooking: booking id=%d extended to %s, additional_amount=%.2f",
		extended.ID, extended.EndTime.Format(time.RFC3339), additionalAmount)

	return &Response{
		BookingID:        extended.ID,
		LotID:            extended.LotID,
		SlotNumber:       extended.SlotNumber,
		NewEndTime:       extended.EndTime,
		DurationHours:    extended.DurationHours,
		Amount:           extended.Amount,
		AdditionalAmount: additionalAmount,
		Status:           string(extended.Status),
	}, nil
}

// revert возвращает бронирование к исходному времени окончания
// после неудачной оплаты продления
func (uc *UseCase) revert(ctx context.Context, booking *domain.Booking, prevEnd time.Time, prevDuration int, prevAmount float64) {
	err := uc.bookingRepo.ExtendEnd(ctx, booking.ID, booking.EndTime, prevEnd, prevDuration, prevAmount)
	if err != nil {
		// Откат не удался: бронирование осталось продленным без оплаты,
		// требуется ручное вмешательство
		uc.logger.Error("ExtendBooking: failed to revert extension for booking id=%d: %v", booking.ID, err)
	}
}
