package bookings

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-ParkingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-ParkingService/internal/integrations/qrservice"
	"github.com/m04kA/SMC-ParkingService/internal/service/bookings/models"
	"github.com/m04kA/SMC-ParkingService/pkg/ptr"
)

// =============================================================================
// TEST FAKES
// =============================================================================

type fakeLogger struct{}

func (l *fakeLogger) Info(format string, v ...interface{})  {}
func (l *fakeLogger) Warn(format string, v ...interface{})  {}
func (l *fakeLogger) Error(format string, v ...interface{}) {}

type fakeBookingRepo struct {
	booking   *domain.Booking
	getErr    error
	cancelled []int64
	completed map[int64]time.Time
	overstays map[int64]domain.PenaltyInfo
	entries   map[int64]time.Time
}

func newFakeBookingRepo(b *domain.Booking) *fakeBookingRepo {
	return &fakeBookingRepo{
		booking:   b,
		completed: make(map[int64]time.Time),
		overstays: make(map[int64]domain.PenaltyInfo),
		entries:   make(map[int64]time.Time),
	}
}

func (r *fakeBookingRepo) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	b := *r.booking
	return &b, nil
}

func (r *fakeBookingRepo) GetByUserID(ctx context.Context, userID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	return []*domain.Booking{r.booking}, nil
}

func (r *fakeBookingRepo) GetByOrganizationWithFilter(ctx context.Context, filter domain.OrganizationBookingsFilter) ([]*domain.Booking, error) {
	return []*domain.Booking{r.booking}, nil
}

func (r *fakeBookingRepo) Cancel(ctx context.Context, id int64) error {
	r.cancelled = append(r.cancelled, id)
	r.booking.Status = domain.StatusCancelled
	return nil
}

func (r *fakeBookingRepo) Complete(ctx context.Context, id int64, exitTime time.Time) error {
	r.completed[id] = exitTime
	r.booking.Status = domain.StatusCompleted
	return nil
}

func (r *fakeBookingRepo) MarkOverstay(ctx context.Context, id int64, penalty domain.PenaltyInfo) error {
	r.overstays[id] = penalty
	r.booking.Status = domain.StatusOverstay
	return nil
}

func (r *fakeBookingRepo) RecordEntry(ctx context.Context, id int64, entryTime time.Time) error {
	r.entries[id] = entryTime
	r.booking.Status = domain.StatusActive
	return nil
}

type fakeOrgRepo struct {
	org *domain.Organization
}

func (r *fakeOrgRepo) GetByID(ctx context.Context, id int64) (*domain.Organization, error) {
	return r.org, nil
}

type fakeQRClient struct {
	code *qrservice.Code
}

func (c *fakeQRClient) GetCodeWithGracefulDegradation(ctx context.Context, bookingID int64) *qrservice.Code {
	return c.code
}

type fixedTime struct{ now time.Time }

func (p fixedTime) Now() time.Time { return p.now }

// =============================================================================
// TEST SETUP
// =============================================================================

var serviceNow = time.Date(2026, time.March, 10, 10, 0, 0, 0, time.UTC)

func confirmedBooking() *domain.Booking {
	return &domain.Booking{
		ID:             1,
		OrganizationID: 42,
		LotID:          10,
		SlotNumber:     3,
		UserID:         100,
		UserRole:       domain.RoleVisitor,
		VehicleNumber:  "KA01AB1234",
		StartTime:      serviceNow.Add(time.Hour),
		EndTime:        serviceNow.Add(3 * time.Hour),
		DurationHours:  2,
		Amount:         100,
		Status:         domain.StatusConfirmed,
	}
}

func owner() models.Requester {
	return models.Requester{UserID: 100, Role: domain.RoleVisitor}
}

func orgMember(orgID int64) models.Requester {
	return models.Requester{UserID: 500, Role: domain.RoleOrganizationMember, OrgID: &orgID}
}

func newTestService(repo *fakeBookingRepo, qr *fakeQRClient, now time.Time) *Service {
	org := &domain.Organization{ID: 42, Name: "Tech Park", VisitorHourlyRate: 50}
	return NewService(repo, &fakeOrgRepo{org: org}, qr, fixedTime{now: now}, &fakeLogger{})
}

// =============================================================================
// TESTS
// =============================================================================

func TestGetByID_OwnerWithQRCode(t *testing.T) {
	// GIVEN: a confirmed booking and a reachable QR service
	// WHEN: the owner requests the booking
	// THEN: the response carries the QR code link

	repo := newFakeBookingRepo(confirmedBooking())
	qr := &fakeQRClient{code: &qrservice.Code{BookingID: 1, ImageURL: "http://qr/1.png"}}
	svc := newTestService(repo, qr, serviceNow)

	resp, err := svc.GetByID(context.Background(), 1, owner())

	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.ID)
	require.NotNil(t, resp.QRCodeURL)
	assert.Equal(t, "http://qr/1.png", *resp.QRCodeURL)
}

func TestGetByID_QRServiceDown_GracefulDegradation(t *testing.T) {
	// Недоступность QR-сервиса не ломает чтение бронирования
	repo := newFakeBookingRepo(confirmedBooking())
	svc := newTestService(repo, &fakeQRClient{code: nil}, serviceNow)

	resp, err := svc.GetByID(context.Background(), 1, owner())

	require.NoError(t, err)
	assert.Nil(t, resp.QRCodeURL)
}

func TestGetByID_Access(t *testing.T) {
	repo := newFakeBookingRepo(confirmedBooking())
	svc := newTestService(repo, &fakeQRClient{}, serviceNow)

	t.Run("organization member of the parking org", func(t *testing.T) {
		_, err := svc.GetByID(context.Background(), 1, orgMember(42))
		assert.NoError(t, err)
	})

	t.Run("member of another organization", func(t *testing.T) {
		_, err := svc.GetByID(context.Background(), 1, orgMember(7))
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("unrelated visitor", func(t *testing.T) {
		_, err := svc.GetByID(context.Background(), 1, models.Requester{UserID: 999, Role: domain.RoleVisitor})
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("booking not found", func(t *testing.T) {
		missing := newFakeBookingRepo(nil)
		missing.getErr = bookingRepo.ErrBookingNotFound
		svc := newTestService(missing, &fakeQRClient{}, serviceNow)

		_, err := svc.GetByID(context.Background(), 1, owner())
		assert.ErrorIs(t, err, ErrBookingNotFound)
	})
}

func TestGetUserBookings_OnlyOwnList(t *testing.T) {
	repo := newFakeBookingRepo(confirmedBooking())
	svc := newTestService(repo, &fakeQRClient{}, serviceNow)

	resp, err := svc.GetUserBookings(context.Background(), 100, nil, owner())
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Total)

	_, err = svc.GetUserBookings(context.Background(), 100, nil, models.Requester{UserID: 999})
	assert.ErrorIs(t, err, ErrAccessDenied)

	bad := domain.BookingStatus("parked")
	_, err = svc.GetUserBookings(context.Background(), 100, &bad, owner())
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCancel_WithinWindow(t *testing.T) {
	// GIVEN: a confirmed booking starting in an hour
	// WHEN: the owner cancels it
	// THEN: the booking is cancelled

	repo := newFakeBookingRepo(confirmedBooking())
	svc := newTestService(repo, &fakeQRClient{}, serviceNow)

	resp, err := svc.Cancel(context.Background(), 1, owner())

	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCancelled), resp.Status)
	assert.Equal(t, []int64{1}, repo.cancelled)
}

func TestCancel_WindowClosed(t *testing.T) {
	// GIVEN: a booking starting in 3 minutes
	// WHEN: the owner tries to cancel
	// THEN: the cancellation window is closed

	b := confirmedBooking()
	b.StartTime = serviceNow.Add(3 * time.Minute)
	b.EndTime = b.StartTime.Add(2 * time.Hour)
	repo := newFakeBookingRepo(b)
	svc := newTestService(repo, &fakeQRClient{}, serviceNow)

	_, err := svc.Cancel(context.Background(), 1, owner())

	assert.ErrorIs(t, err, ErrCancellationWindowClosed)
	assert.Empty(t, repo.cancelled)
}

func TestCancel_Guards(t *testing.T) {
	t.Run("active booking cannot be cancelled", func(t *testing.T) {
		b := confirmedBooking()
		b.Status = domain.StatusActive
		svc := newTestService(newFakeBookingRepo(b), &fakeQRClient{}, serviceNow)

		_, err := svc.Cancel(context.Background(), 1, owner())
		assert.ErrorIs(t, err, ErrCannotCancel)
	})

	t.Run("only the owner can cancel", func(t *testing.T) {
		// Сотрудник организации видит бронирование, но отменить не может
		svc := newTestService(newFakeBookingRepo(confirmedBooking()), &fakeQRClient{}, serviceNow)

		_, err := svc.Cancel(context.Background(), 1, orgMember(42))
		assert.ErrorIs(t, err, ErrAccessDenied)
	})
}

func TestComplete_OnTime(t *testing.T) {
	// GIVEN: an active booking ending at 13:00
	// WHEN: completing at 12:00
	// THEN: the booking is completed with the given exit time

	b := confirmedBooking()
	b.Status = domain.StatusActive
	b.StartTime = serviceNow.Add(-time.Hour)
	b.EndTime = serviceNow.Add(3 * time.Hour)
	repo := newFakeBookingRepo(b)

	exit := serviceNow.Add(2 * time.Hour)
	svc := newTestService(repo, &fakeQRClient{}, exit)

	resp, err := svc.Complete(context.Background(), 1, models.CompleteRequest{Requester: owner()})

	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCompleted), resp.Status)
	assert.Equal(t, exit, repo.completed[1])
}

func TestComplete_Overdue_MovesToOverstay(t *testing.T) {
	// GIVEN: an active booking that ended 30 minutes ago at rate 50
	// WHEN: completing it now
	// THEN: the booking moves to overstay with a 100 penalty and the
	// caller is told a penalty is due

	b := confirmedBooking()
	b.Status = domain.StatusActive
	b.StartTime = serviceNow.Add(-3 * time.Hour)
	b.EndTime = serviceNow.Add(-30 * time.Minute)
	repo := newFakeBookingRepo(b)
	svc := newTestService(repo, &fakeQRClient{}, serviceNow)

	resp, err := svc.Complete(context.Background(), 1, models.CompleteRequest{Requester: owner()})

	assert.ErrorIs(t, err, ErrPenaltyDue)
	assert.Nil(t, resp)

	penalty := repo.overstays[1]
	assert.Equal(t, 30, penalty.OverstayMinutes)
	assert.Equal(t, 100.0, penalty.Amount)
	assert.Empty(t, repo.completed, "overdue booking is not completed directly")
}

func TestComplete_DerivedActive_ConfirmedAfterStart(t *testing.T) {
	// Подтвержденное бронирование с прошедшим стартом можно завершить
	// без явной фиксации въезда
	b := confirmedBooking()
	b.StartTime = serviceNow.Add(-time.Hour)
	b.EndTime = serviceNow.Add(time.Hour)
	repo := newFakeBookingRepo(b)
	svc := newTestService(repo, &fakeQRClient{}, serviceNow)

	resp, err := svc.Complete(context.Background(), 1, models.CompleteRequest{Requester: owner()})

	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCompleted), resp.Status)
}

func TestComplete_NotActive(t *testing.T) {
	svc := newTestService(newFakeBookingRepo(confirmedBooking()), &fakeQRClient{}, serviceNow)

	// Бронирование подтверждено, но старт еще не наступил
	_, err := svc.Complete(context.Background(), 1, models.CompleteRequest{Requester: owner()})

	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestComplete_ExplicitExitTime(t *testing.T) {
	b := confirmedBooking()
	b.Status = domain.StatusActive
	b.StartTime = serviceNow.Add(-2 * time.Hour)
	b.EndTime = serviceNow.Add(time.Hour)
	repo := newFakeBookingRepo(b)
	svc := newTestService(repo, &fakeQRClient{}, serviceNow)

	exit := serviceNow.Add(-10 * time.Minute)
	_, err := svc.Complete(context.Background(), 1, models.CompleteRequest{
		Requester: owner(),
		ExitTime:  ptr.Ptr(exit),
	})

	require.NoError(t, err)
	assert.Equal(t, exit, repo.completed[1])
}

func TestRecordEntry(t *testing.T) {
	t.Run("confirmed booking becomes active", func(t *testing.T) {
		b := confirmedBooking()
		b.StartTime = serviceNow.Add(-5 * time.Minute)
		b.EndTime = serviceNow.Add(2 * time.Hour)
		repo := newFakeBookingRepo(b)
		svc := newTestService(repo, &fakeQRClient{}, serviceNow)

		resp, err := svc.RecordEntry(context.Background(), 1, owner())

		require.NoError(t, err)
		assert.Equal(t, string(domain.StatusActive), resp.Status)
		assert.Equal(t, serviceNow, repo.entries[1])
	})

	t.Run("organization member scans the QR at the gate", func(t *testing.T) {
		repo := newFakeBookingRepo(confirmedBooking())
		svc := newTestService(repo, &fakeQRClient{}, serviceNow)

		_, err := svc.RecordEntry(context.Background(), 1, orgMember(42))
		assert.NoError(t, err)
	})

	t.Run("entry after the booking ended", func(t *testing.T) {
		b := confirmedBooking()
		b.StartTime = serviceNow.Add(-3 * time.Hour)
		b.EndTime = serviceNow.Add(-time.Hour)
		svc := newTestService(newFakeBookingRepo(b), &fakeQRClient{}, serviceNow)

		_, err := svc.RecordEntry(context.Background(), 1, owner())
		assert.ErrorIs(t, err, ErrInvalidState)
	})

	t.Run("entry for an already active booking", func(t *testing.T) {
		b := confirmedBooking()
		b.Status = domain.StatusActive
		svc := newTestService(newFakeBookingRepo(b), &fakeQRClient{}, serviceNow)

		_, err := svc.RecordEntry(context.Background(), 1, owner())
		assert.ErrorIs(t, err, ErrInvalidState)
	})
}
