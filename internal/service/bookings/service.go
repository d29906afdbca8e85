package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-ParkingService/internal/infra/storage/booking"
	orgRepo "github.com/m04kA/SMC-ParkingService/internal/infra/storage/organization"
	"github.com/m04kA/SMC-ParkingService/internal/service/bookings/models"
)

// Service сервис жизненного цикла бронирований: чтение, отмена,
// завершение и фиксация въезда
type Service struct {
	repo         BookingRepository
	orgRepo      OrganizationRepository
	qrClient     QRServiceClient
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	repo BookingRepository,
	orgRepo OrganizationRepository,
	qrClient QRServiceClient,
	timeProvider TimeProvider,
	logger Logger,
) *Service {
	return &Service{
		repo:         repo,
		orgRepo:      orgRepo,
		qrClient:     qrClient,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// GetByID возвращает бронирование по ID
// Доступ: владелец бронирования или сотрудник организации, которой
// принадлежит парковка. Для подтвержденных и активных бронирований
// в ответ добавляется ссылка на QR-код (с деградацией при недоступности сервиса)
func (s *Service) GetByID(ctx context.Context, bookingID int64, requester models.Requester) (*models.BookingResponse, error) {
	booking, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if err := s.checkAccess(booking, requester); err != nil {
		return nil, err
	}

	resp := models.FromDomainBooking(booking)

	if booking.Status == domain.StatusConfirmed || booking.Status == domain.StatusActive {
		if code := s.qrClient.GetCodeWithGracefulDegradation(ctx, booking.ID); code != nil {
			resp.QRCodeURL = &code.ImageURL
		}
	}

	return &resp, nil
}

// GetUserBookings возвращает бронирования пользователя,
// опционально отфильтрованные по статусу
// Доступ: сам пользователь
func (s *Service) GetUserBookings(ctx context.Context, userID int64, status *domain.BookingStatus, requester models.Requester) (*models.BookingListResponse, error) {
	if requester.UserID != userID {
		s.logger.Warn("GetUserBookings: access denied for user=%d to bookings of user=%d", requester.UserID, userID)
		return nil, ErrAccessDenied
	}

	if status != nil && !domain.IsValidStatus(*status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, *status)
	}

	bookings, err := s.repo.GetByUserID(ctx, userID, status)
	if err != nil {
		s.logger.Error("GetUserBookings: failed to get bookings for user=%d: %v", userID, err)
		return nil, fmt.Errorf("%w: GetUserBookings: %v", ErrInternal, err)
	}

	resp := models.FromDomainBookings(bookings)
	return &resp, nil
}

// GetOrganizationBookings возвращает бронирования на парковках организации
// Доступ: сотрудник этой организации
func (s *Service) GetOrganizationBookings(ctx context.Context, req models.OrganizationBookingsRequest, requester models.Requester) (*models.BookingListResponse, error) {
	if !requester.IsMemberOf(req.OrganizationID) {
		s.logger.Warn("GetOrganizationBookings: access denied for user=%d to org=%d", requester.UserID, req.OrganizationID)
		return nil, ErrAccessDenied
	}

	if req.Status != nil && !domain.IsValidStatus(*req.Status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, *req.Status)
	}
	if req.From != nil && req.To != nil && !req.From.Before(*req.To) {
		return nil, fmt.Errorf("%w: from must be before to", ErrInvalidInput)
	}

	if _, err := s.orgRepo.GetByID(ctx, req.OrganizationID); err != nil {
		if errors.Is(err, orgRepo.ErrOrganizationNotFound) {
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetOrganizationBookings: failed to get organization=%d: %v", req.OrganizationID, err)
		return nil, fmt.Errorf("%w: GetOrganizationBookings - get organization: %v", ErrInternal, err)
	}

	bookings, err := s.repo.GetByOrganizationWithFilter(ctx, req.ToDomainFilter())
	if err != nil {
		s.logger.Error("GetOrganizationBookings: failed to get bookings for org=%d: %v", req.OrganizationID, err)
		return nil, fmt.Errorf("%w: GetOrganizationBookings: %v", ErrInternal, err)
	}

	resp := models.FromDomainBookings(bookings)
	return &resp, nil
}

// Cancel отменяет бронирование
// Разрешено только владельцу, только для статусов pending/confirmed
// и строго раньше, чем за 5 минут до начала бронирования
func (s *Service) Cancel(ctx context.Context, bookingID int64, requester models.Requester) (*models.BookingResponse, error) {
	booking, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.UserID != requester.UserID {
		s.logger.Warn("Cancel: access denied for user=%d to booking=%d", requester.UserID, bookingID)
		return nil, ErrAccessDenied
	}

	now := s.timeProvider.Now()

	if booking.Status != domain.StatusPending && booking.Status != domain.StatusConfirmed {
		s.logger.Warn("Cancel: booking=%d in status=%s cannot be cancelled", bookingID, booking.Status)
		return nil, fmt.Errorf("%w: status %s", ErrCannotCancel, booking.Status)
	}

	if !booking.CanBeCancelledAt(now) {
		s.logger.Warn("Cancel: cancellation window closed for booking=%d (start=%s, now=%s)",
			bookingID, booking.StartTime, now)
		return nil, ErrCancellationWindowClosed
	}

	s.logger.Info("Cancel: cancelling booking id=%d by user=%d", bookingID, requester.UserID)

	if err := s.repo.Cancel(ctx, bookingID); err != nil {
		if errors.Is(err, bookingRepo.ErrStaleState) {
			return nil, ErrStaleState
		}
		s.logger.Error("Cancel: failed to cancel booking=%d: %v", bookingID, err)
		return nil, fmt.Errorf("%w: Cancel: %v", ErrInternal, err)
	}

	return s.refreshed(ctx, bookingID)
}

// Complete завершает бронирование с фиксацией времени выезда
// Если выезд позже окончания бронирования, бронирование переводится
// в overstay с начислением штрафа и возвращается ErrPenaltyDue:
// слот остается занятым до оплаты штрафа
func (s *Service) Complete(ctx context.Context, bookingID int64, req models.CompleteRequest) (*models.BookingResponse, error) {
	booking, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if err := s.checkAccess(booking, req.Requester); err != nil {
		return nil, err
	}

	now := s.timeProvider.Now()

	if !booking.IsActiveAt(now) {
		s.logger.Warn("Complete: booking=%d in status=%s is not active at %s", bookingID, booking.Status, now)
		return nil, fmt.Errorf("%w: status %s", ErrInvalidState, booking.Status)
	}

	exitTime := now
	if req.ExitTime != nil {
		exitTime = *req.ExitTime
	}

	if exitTime.After(booking.EndTime) {
		org, err := s.orgRepo.GetByID(ctx, booking.OrganizationID)
		if err != nil {
			s.logger.Error("Complete: failed to get organization=%d: %v", booking.OrganizationID, err)
			return nil, fmt.Errorf("%w: Complete - get organization: %v", ErrInternal, err)
		}

		penalty := domain.ComputePenalty(booking.EndTime, org.VisitorHourlyRate, exitTime)

		s.logger.Warn("Complete: booking=%d overdue by %d min, penalty=%.2f",
			bookingID, penalty.OverstayMinutes, penalty.Amount)

		if err := s.repo.MarkOverstay(ctx, bookingID, penalty); err != nil {
			if errors.Is(err, bookingRepo.ErrStaleState) {
				return nil, ErrStaleState
			}
			s.logger.Error("Complete: failed to mark booking=%d as overstay: %v", bookingID, err)
			return nil, fmt.Errorf("%w: Complete - mark overstay: %v", ErrInternal, err)
		}

		return nil, ErrPenaltyDue
	}

	s.logger.Info("Complete: completing booking id=%d, exit_time=%s", bookingID, exitTime)

	if err := s.repo.Complete(ctx, bookingID, exitTime); err != nil {
		if errors.Is(err, bookingRepo.ErrStaleState) {
			return nil, ErrStaleState
		}
		s.logger.Error("Complete: failed to complete booking=%d: %v", bookingID, err)
		return nil, fmt.Errorf("%w: Complete: %v", ErrInternal, err)
	}

	return s.refreshed(ctx, bookingID)
}

// RecordEntry фиксирует въезд на парковку: confirmed -> active
// Разрешено владельцу и сотрудникам организации (сканирование QR на шлагбауме)
func (s *Service) RecordEntry(ctx context.Context, bookingID int64, requester models.Requester) (*models.BookingResponse, error) {
	booking, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if err := s.checkAccess(booking, requester); err != nil {
		return nil, err
	}

	now := s.timeProvider.Now()

	if booking.Status != domain.StatusConfirmed {
		s.logger.Warn("RecordEntry: booking=%d in status=%s, entry not allowed", bookingID, booking.Status)
		return nil, fmt.Errorf("%w: status %s", ErrInvalidState, booking.Status)
	}
	if now.After(booking.EndTime) {
		s.logger.Warn("RecordEntry: booking=%d already ended at %s", bookingID, booking.EndTime)
		return nil, fmt.Errorf("%w: booking time range is over", ErrInvalidState)
	}

	s.logger.Info("RecordEntry: recording entry for booking id=%d at %s", bookingID, now)

	if err := s.repo.RecordEntry(ctx, bookingID, now); err != nil {
		if errors.Is(err, bookingRepo.ErrStaleState) {
			return nil, ErrStaleState
		}
		s.logger.Error("RecordEntry: failed to record entry for booking=%d: %v", bookingID, err)
		return nil, fmt.Errorf("%w: RecordEntry: %v", ErrInternal, err)
	}

	return s.refreshed(ctx, bookingID)
}

// getBooking получает бронирование с маппингом ошибки отсутствия
func (s *Service) getBooking(ctx context.Context, bookingID int64) (*domain.Booking, error) {
	booking, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return nil, ErrBookingNotFound
		}
		s.logger.Error("getBooking: failed to get booking=%d: %v", bookingID, err)
		return nil, fmt.Errorf("%w: get booking: %v", ErrInternal, err)
	}
	return booking, nil
}

// checkAccess проверяет право доступа к бронированию:
// владелец или сотрудник организации парковки
func (s *Service) checkAccess(booking *domain.Booking, requester models.Requester) error {
	if booking.UserID == requester.UserID {
		return nil
	}
	if requester.IsMemberOf(booking.OrganizationID) {
		return nil
	}
	s.logger.Warn("checkAccess: access denied for user=%d to booking=%d", requester.UserID, booking.ID)
	return ErrAccessDenied
}

// refreshed перечитывает бронирование после изменения для ответа API
func (s *Service) refreshed(ctx context.Context, bookingID int64) (*models.BookingResponse, error) {
	booking, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	resp := models.FromDomainBooking(booking)
	return &resp, nil
}
