package check_extension

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-ParkingService/internal/infra/storage/booking"
)

// UseCase use case для проверки возможности продления бронирования
// Операция только читает данные: фактическое продление выполняет
// отдельный use case в сериализуемой транзакции
type UseCase struct {
	bookingRepo   BookingRepository
	orgRepo       OrganizationRepository
	slotInventory SlotInventory
	logger        Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	orgRepo OrganizationRepository,
	slotInventory SlotInventory,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:   bookingRepo,
		orgRepo:       orgRepo,
		slotInventory: slotInventory,
		logger:        logger,
	}
}

// Execute проверяет, можно ли продлить бронирование на указанное число часов
// без смены слота, и считает доплату
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CheckExtension: booking=%d, additional_hours=%d", req.BookingID, req.AdditionalHours)

	if req.AdditionalHours <= 0 {
		return nil, fmt.Errorf("%w: additional_hours must be positive", ErrInvalidInput)
	}

	booking, err := uc.bookingRepo.GetByID(ctx, req.BookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return nil, ErrBookingNotFound
		}
		uc.logger.Error("CheckExtension: failed to get booking=%d: %v", req.BookingID, err)
		return nil, fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
	}

	if booking.UserID != req.UserID {
		uc.logger.Warn("CheckExtension: access denied for user=%d to booking=%d", req.UserID, req.BookingID)
		return nil, ErrAccessDenied
	}

	if !booking.CanBeExtended() {
		uc.logger.Warn("CheckExtension: booking=%d in status=%s cannot be extended", req.BookingID, booking.Status)
		return nil, fmt.Errorf("%w: status %s", ErrNotExtendable, booking.Status)
	}

	if booking.DurationHours+req.AdditionalHours > domain.MaxBookingDurationHours {
		return nil, fmt.Errorf("%w: total duration exceeds maximum", ErrInvalidInput)
	}

	newEnd := booking.EndTime.Add(time.Duration(req.AdditionalHours) * time.Hour)
	extensionRange := domain.TimeRange{Start: booking.EndTime, End: newEnd}

	free, err := uc.slotInventory.SameSlotFree(ctx, booking.LotID, booking.SlotNumber, extensionRange, booking.ID)
	if err != nil {
		uc.logger.Error("CheckExtension: failed to check slot availability: %v", err)
		return nil, fmt.Errorf("%w: failed to check slot availability: %v", ErrInternal, err)
	}

	org, err := uc.orgRepo.GetByID(ctx, booking.OrganizationID)
	if err != nil {
		uc.logger.Error("CheckExtension: failed to get organization=%d: %v", booking.OrganizationID, err)
		return nil, fmt.Errorf("%w: failed to get organization: %v", ErrInternal, err)
	}

	additionalAmount := domain.ComputeAmount(req.AdditionalHours, org, booking.UserRole, booking.UserOrgID)

	uc.logger.Info("CheckExtension: booking=%d, same_slot_free=%v, additional_amount=%.2f",
		req.BookingID, free, additionalAmount)

	return &Response{
		BookingID:         booking.ID,
		CanExtendSameSlot: free,
		CurrentEndTime:    booking.EndTime,
		NewEndTime:        newEnd,
		AdditionalAmount:  additionalAmount,
	}, nil
}
