package check_extension

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-ParkingService/internal/infra/storage/booking"
)

// =============================================================================
// TEST FAKES
// =============================================================================

type fakeLogger struct{}

func (l *fakeLogger) Info(format string, v ...interface{})  {}
func (l *fakeLogger) Warn(format string, v ...interface{})  {}
func (l *fakeLogger) Error(format string, v ...interface{}) {}

type fakeBookingRepo struct {
	booking *domain.Booking
	err     error
}

func (r *fakeBookingRepo) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	if r.err != nil {
		return nil, r.err
	}
	b := *r.booking
	return &b, nil
}

type fakeOrgRepo struct {
	org *domain.Organization
}

func (r *fakeOrgRepo) GetByID(ctx context.Context, id int64) (*domain.Organization, error) {
	return r.org, nil
}

type fakeInventory struct {
	free     bool
	checked  []domain.TimeRange
	excluded []int64
}

func (i *fakeInventory) SameSlotFree(ctx context.Context, lotID int64, slotNumber int, rng domain.TimeRange, excludeBookingID int64) (bool, error) {
	i.checked = append(i.checked, rng)
	i.excluded = append(i.excluded, excludeBookingID)
	return i.free, nil
}

// =============================================================================
// TEST SETUP
// =============================================================================

func activeBooking() *domain.Booking {
	start := time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)
	return &domain.Booking{
		ID:             1,
		OrganizationID: 42,
		LotID:          10,
		SlotNumber:     3,
		UserID:         100,
		UserRole:       domain.RoleVisitor,
		StartTime:      start,
		EndTime:        start.Add(2 * time.Hour),
		DurationHours:  2,
		Amount:         100,
		Status:         domain.StatusActive,
	}
}

func newTestUseCase(repo *fakeBookingRepo, inv *fakeInventory) *UseCase {
	org := &domain.Organization{ID: 42, Name: "Tech Park", VisitorHourlyRate: 50}
	return NewUseCase(repo, &fakeOrgRepo{org: org}, inv, &fakeLogger{})
}

// =============================================================================
// TESTS
// =============================================================================

func TestCheckExtension_SlotFree(t *testing.T) {
	// GIVEN: an active 2-hour booking at rate 50 and a free slot
	// WHEN: checking a 2-hour extension
	// THEN: the extension is possible with an additional amount of 100

	inv := &fakeInventory{free: true}
	uc := newTestUseCase(&fakeBookingRepo{booking: activeBooking()}, inv)

	resp, err := uc.Execute(context.Background(), &Request{BookingID: 1, UserID: 100, AdditionalHours: 2})

	require.NoError(t, err)
	assert.True(t, resp.CanExtendSameSlot)
	assert.Equal(t, activeBooking().EndTime, resp.CurrentEndTime)
	assert.Equal(t, activeBooking().EndTime.Add(2*time.Hour), resp.NewEndTime)
	assert.Equal(t, 100.0, resp.AdditionalAmount)

	// Проверяется только диапазон продления, само бронирование исключено
	require.Len(t, inv.checked, 1)
	assert.Equal(t, activeBooking().EndTime, inv.checked[0].Start)
	assert.Equal(t, []int64{1}, inv.excluded)
}

func TestCheckExtension_SlotTaken(t *testing.T) {
	// GIVEN: the slot is taken by the next booking
	// WHEN: checking the extension
	// THEN: the response says the slot is unavailable, without an error

	uc := newTestUseCase(&fakeBookingRepo{booking: activeBooking()}, &fakeInventory{free: false})

	resp, err := uc.Execute(context.Background(), &Request{BookingID: 1, UserID: 100, AdditionalHours: 1})

	require.NoError(t, err)
	assert.False(t, resp.CanExtendSameSlot)
	assert.Equal(t, 50.0, resp.AdditionalAmount)
}

func TestCheckExtension_MemberAtHomeOrg_FreeExtension(t *testing.T) {
	b := activeBooking()
	b.UserRole = domain.RoleOrganizationMember
	orgID := int64(42)
	b.UserOrgID = &orgID

	uc := newTestUseCase(&fakeBookingRepo{booking: b}, &fakeInventory{free: true})

	resp, err := uc.Execute(context.Background(), &Request{BookingID: 1, UserID: 100, AdditionalHours: 3})

	require.NoError(t, err)
	assert.Equal(t, 0.0, resp.AdditionalAmount)
}

func TestCheckExtension_Guards(t *testing.T) {
	t.Run("booking not found", func(t *testing.T) {
		uc := newTestUseCase(&fakeBookingRepo{err: bookingRepo.ErrBookingNotFound}, &fakeInventory{free: true})

		_, err := uc.Execute(context.Background(), &Request{BookingID: 1, UserID: 100, AdditionalHours: 1})

		assert.ErrorIs(t, err, ErrBookingNotFound)
	})

	t.Run("not the owner", func(t *testing.T) {
		uc := newTestUseCase(&fakeBookingRepo{booking: activeBooking()}, &fakeInventory{free: true})

		_, err := uc.Execute(context.Background(), &Request{BookingID: 1, UserID: 999, AdditionalHours: 1})

		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("cancelled booking is not extendable", func(t *testing.T) {
		b := activeBooking()
		b.Status = domain.StatusCancelled
		uc := newTestUseCase(&fakeBookingRepo{booking: b}, &fakeInventory{free: true})

		_, err := uc.Execute(context.Background(), &Request{BookingID: 1, UserID: 100, AdditionalHours: 1})

		assert.ErrorIs(t, err, ErrNotExtendable)
	})

	t.Run("non-positive hours", func(t *testing.T) {
		uc := newTestUseCase(&fakeBookingRepo{booking: activeBooking()}, &fakeInventory{free: true})

		_, err := uc.Execute(context.Background(), &Request{BookingID: 1, UserID: 100, AdditionalHours: 0})

		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("total duration over the maximum", func(t *testing.T) {
		uc := newTestUseCase(&fakeBookingRepo{booking: activeBooking()}, &fakeInventory{free: true})

		_, err := uc.Execute(context.Background(), &Request{
			BookingID:       1,
			UserID:          100,
			AdditionalHours: domain.MaxBookingDurationHours,
		})

		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}
