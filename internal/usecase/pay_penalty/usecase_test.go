package pay_penalty

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	"github.com/m04kA/SMC-ParkingService/internal/integrations/paymentgateway"
	"github.com/m04kA/SMC-ParkingService/internal/service/inventory"
	"github.com/m04kA/SMC-ParkingService/pkg/ptr"
)

// =============================================================================
// TEST FAKES
// =============================================================================

type fakeLogger struct{}

func (l *fakeLogger) Info(format string, v ...interface{})  {}
func (l *fakeLogger) Warn(format string, v ...interface{})  {}
func (l *fakeLogger) Error(format string, v ...interface{}) {}

type settleCall struct {
	exitTime time.Time
	penalty  domain.PenaltyInfo
}

type fakeBookingRepo struct {
	booking     *domain.Booking
	nextID      int64
	created     []*domain.Booking
	settled     map[int64]settleCall
	confirmed   []int64
	rebookLinks map[int64]int64
}

func newFakeBookingRepo(b *domain.Booking) *fakeBookingRepo {
	return &fakeBookingRepo{
		booking:     b,
		nextID:      b.ID + 1,
		settled:     make(map[int64]settleCall),
		rebookLinks: make(map[int64]int64),
	}
}

func (r *fakeBookingRepo) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	b := *r.booking
	return &b, nil
}

func (r *fakeBookingRepo) SettlePenalty(ctx context.Context, id int64, exitTime time.Time, penalty domain.PenaltyInfo) error {
	r.settled[id] = settleCall{exitTime: exitTime, penalty: penalty}
	return nil
}

func (r *fakeBookingRepo) SetRebookingID(ctx context.Context, id int64, rebookingID int64) error {
	r.rebookLinks[id] = rebookingID
	return nil
}

func (r *fakeBookingRepo) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	created := *booking
	created.ID = r.nextID
	r.nextID++
	r.created = append(r.created, &created)
	return &created, nil
}

func (r *fakeBookingRepo) Confirm(ctx context.Context, id int64) error {
	r.confirmed = append(r.confirmed, id)
	return nil
}

type fakeOrgRepo struct {
	org *domain.Organization
}

func (r *fakeOrgRepo) GetByID(ctx context.Context, id int64) (*domain.Organization, error) {
	return r.org, nil
}

type fakeInventory struct {
	allocation *inventory.Allocation
	err        error
}

func (i *fakeInventory) Allocate(ctx context.Context, organizationID int64, rng domain.TimeRange) (*inventory.Allocation, error) {
	if i.err != nil {
		return nil, i.err
	}
	return i.allocation, nil
}

type fakeGateway struct {
	requests   []*paymentgateway.ChargeRequest
	declineKey string
}

func (g *fakeGateway) Charge(ctx context.Context, req *paymentgateway.ChargeRequest) (*paymentgateway.ChargeResponse, error) {
	g.requests = append(g.requests, req)
	if g.declineKey != "" && req.IdempotencyKey == g.declineKey {
		return nil, paymentgateway.ErrPaymentDeclined
	}
	return &paymentgateway.ChargeResponse{TransactionID: "tx-1", Status: "succeeded"}, nil
}

type fakeTxManager struct{}

func (m *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixedTime struct{ now time.Time }

func (p fixedTime) Now() time.Time { return p.now }

// =============================================================================
// TEST SETUP
// =============================================================================

var settleTime = time.Date(2026, time.March, 10, 12, 30, 0, 0, time.UTC)

// overstayBooking вернулось бы из auto-expire: время окончания 12:00,
// на момент оплаты просрочка 30 минут
func overstayBooking() *domain.Booking {
	end := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	return &domain.Booking{
		ID:             1,
		OrganizationID: 42,
		LotID:          10,
		SlotNumber:     3,
		UserID:         100,
		UserRole:       domain.RoleVisitor,
		VehicleNumber:  "KA01AB1234",
		VehicleType:    "sedan",
		StartTime:      end.Add(-2 * time.Hour),
		EndTime:        end,
		DurationHours:  2,
		Amount:         100,
		Status:         domain.StatusOverstay,
	}
}

func newTestUseCase(repo *fakeBookingRepo, inv *fakeInventory, gw *fakeGateway) *UseCase {
	org := &domain.Organization{ID: 42, Name: "Tech Park", VisitorHourlyRate: 50}
	uc := NewUseCase(repo, &fakeOrgRepo{org: org}, inv, gw, &fakeTxManager{}, &fakeLogger{})
	uc.timeProvider = fixedTime{now: settleTime}
	return uc
}

// =============================================================================
// TESTS
// =============================================================================

func TestPayPenalty_SettleOnly(t *testing.T) {
	// GIVEN: an overstay booking overdue by 30 minutes at rate 50
	// WHEN: paying the penalty without rebooking
	// THEN: 100 is charged and the booking is settled at the payment time

	repo := newFakeBookingRepo(overstayBooking())
	gw := &fakeGateway{}
	uc := newTestUseCase(repo, &fakeInventory{}, gw)

	resp, err := uc.Execute(context.Background(), &Request{BookingID: 1, UserID: 100, PaymentMethod: "card"})

	require.NoError(t, err)
	assert.Equal(t, 100.0, resp.PenaltyAmount)
	assert.Equal(t, 30, resp.OverstayMinutes)
	assert.Equal(t, settleTime, resp.ExitTime)
	assert.Equal(t, string(domain.StatusCompleted), resp.Status)
	assert.Nil(t, resp.Rebooking)
	assert.Nil(t, resp.RebookingError)

	require.Len(t, gw.requests, 1)
	assert.Equal(t, "booking-1-penalty", gw.requests[0].IdempotencyKey)
	assert.Equal(t, 100.0, gw.requests[0].Amount)

	settle, ok := repo.settled[1]
	require.True(t, ok)
	assert.Equal(t, settleTime, settle.exitTime)
	assert.Equal(t, 100.0, settle.penalty.Amount)
}

func TestPayPenalty_SettleAndRebook(t *testing.T) {
	// GIVEN: an overstay booking and a free slot for the new range
	// WHEN: paying the penalty with a rebooking request
	// THEN: the penalty is settled and a new confirmed booking is created

	repo := newFakeBookingRepo(overstayBooking())
	gw := &fakeGateway{}
	uc := newTestUseCase(repo, &fakeInventory{allocation: &inventory.Allocation{LotID: 10, SlotNumber: 5}}, gw)

	newStart := settleTime.Add(time.Hour)
	newEnd := newStart.Add(2 * time.Hour)

	resp, err := uc.Execute(context.Background(), &Request{
		BookingID:     1,
		UserID:        100,
		PaymentMethod: "card",
		NewStartTime:  &newStart,
		NewEndTime:    &newEnd,
	})

	require.NoError(t, err)
	require.NotNil(t, resp.Rebooking)
	assert.Equal(t, int64(2), resp.Rebooking.BookingID)
	assert.Equal(t, 5, resp.Rebooking.SlotNumber)
	assert.Equal(t, 100.0, resp.Rebooking.Amount)
	assert.Equal(t, string(domain.StatusConfirmed), resp.Rebooking.Status)

	// Штраф и оплата нового бронирования: два отдельных списания
	require.Len(t, gw.requests, 2)
	assert.Equal(t, "booking-1-penalty", gw.requests[0].IdempotencyKey)
	assert.Equal(t, "booking-2-create", gw.requests[1].IdempotencyKey)

	require.Len(t, repo.created, 1)
	assert.Equal(t, "KA01AB1234", repo.created[0].VehicleNumber)
	assert.Equal(t, []int64{2}, repo.confirmed)
	assert.Equal(t, int64(2), repo.rebookLinks[1])
}

func TestPayPenalty_RebookNoCapacity_PenaltyStillSettled(t *testing.T) {
	// GIVEN: no free slots for the requested rebooking range
	// WHEN: paying the penalty with a rebooking request
	// THEN: the penalty is settled, the response reports the rebooking failure

	repo := newFakeBookingRepo(overstayBooking())
	uc := newTestUseCase(repo, &fakeInventory{err: inventory.ErrNoCapacity}, &fakeGateway{})

	newStart := settleTime.Add(time.Hour)
	newEnd := newStart.Add(time.Hour)

	resp, err := uc.Execute(context.Background(), &Request{
		BookingID:     1,
		UserID:        100,
		PaymentMethod: "card",
		NewStartTime:  &newStart,
		NewEndTime:    &newEnd,
	})

	require.NoError(t, err)
	assert.Nil(t, resp.Rebooking)
	require.NotNil(t, resp.RebookingError)
	assert.Contains(t, *resp.RebookingError, "no free slots")

	_, settled := repo.settled[1]
	assert.True(t, settled, "penalty settlement must survive a failed rebooking")
}

func TestPayPenalty_RebookPaymentDeclined_PenaltyStillSettled(t *testing.T) {
	repo := newFakeBookingRepo(overstayBooking())
	gw := &fakeGateway{declineKey: "booking-2-create"}
	uc := newTestUseCase(repo, &fakeInventory{allocation: &inventory.Allocation{LotID: 10, SlotNumber: 5}}, gw)

	newStart := settleTime.Add(time.Hour)
	newEnd := newStart.Add(time.Hour)

	resp, err := uc.Execute(context.Background(), &Request{
		BookingID:     1,
		UserID:        100,
		PaymentMethod: "card",
		NewStartTime:  &newStart,
		NewEndTime:    &newEnd,
	})

	require.NoError(t, err)
	assert.Nil(t, resp.Rebooking)
	require.NotNil(t, resp.RebookingError)
	assert.Empty(t, repo.confirmed, "declined rebooking stays pending")

	_, settled := repo.settled[1]
	assert.True(t, settled)
}

func TestPayPenalty_PenaltyChargeDeclined(t *testing.T) {
	repo := newFakeBookingRepo(overstayBooking())
	gw := &fakeGateway{declineKey: "booking-1-penalty"}
	uc := newTestUseCase(repo, &fakeInventory{}, gw)

	_, err := uc.Execute(context.Background(), &Request{BookingID: 1, UserID: 100, PaymentMethod: "card"})

	assert.ErrorIs(t, err, ErrPaymentDeclined)
	assert.Empty(t, repo.settled, "booking stays in overstay until the penalty is paid")
}

func TestPayPenalty_Guards(t *testing.T) {
	t.Run("not the owner", func(t *testing.T) {
		uc := newTestUseCase(newFakeBookingRepo(overstayBooking()), &fakeInventory{}, &fakeGateway{})

		_, err := uc.Execute(context.Background(), &Request{BookingID: 1, UserID: 999})

		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("booking not in overstay", func(t *testing.T) {
		b := overstayBooking()
		b.Status = domain.StatusActive
		uc := newTestUseCase(newFakeBookingRepo(b), &fakeInventory{}, &fakeGateway{})

		_, err := uc.Execute(context.Background(), &Request{BookingID: 1, UserID: 100})

		assert.ErrorIs(t, err, ErrNotOverstay)
	})

	t.Run("rebooking times must be set together", func(t *testing.T) {
		uc := newTestUseCase(newFakeBookingRepo(overstayBooking()), &fakeInventory{}, &fakeGateway{})

		_, err := uc.Execute(context.Background(), &Request{
			BookingID:    1,
			UserID:       100,
			NewStartTime: ptr.Ptr(settleTime.Add(time.Hour)),
		})

		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("rebooking over the maximum duration reported as rebooking error", func(t *testing.T) {
		repo := newFakeBookingRepo(overstayBooking())
		uc := newTestUseCase(repo, &fakeInventory{allocation: &inventory.Allocation{LotID: 10, SlotNumber: 5}}, &fakeGateway{})

		newStart := settleTime.Add(time.Hour)
		newEnd := newStart.Add((domain.MaxBookingDurationHours + 1) * time.Hour)

		resp, err := uc.Execute(context.Background(), &Request{
			BookingID:     1,
			UserID:        100,
			PaymentMethod: "card",
			NewStartTime:  &newStart,
			NewEndTime:    &newEnd,
		})

		require.NoError(t, err)
		assert.Nil(t, resp.Rebooking)
		require.NotNil(t, resp.RebookingError)
		assert.Empty(t, repo.created, "no booking row for an over-limit range")

		_, settled := repo.settled[1]
		assert.True(t, settled)
	})

	t.Run("rebooking start in the past reported as rebooking error", func(t *testing.T) {
		repo := newFakeBookingRepo(overstayBooking())
		uc := newTestUseCase(repo, &fakeInventory{}, &fakeGateway{})

		resp, err := uc.Execute(context.Background(), &Request{
			BookingID:     1,
			UserID:        100,
			PaymentMethod: "card",
			NewStartTime:  ptr.Ptr(settleTime.Add(-time.Hour)),
			NewEndTime:    ptr.Ptr(settleTime.Add(time.Hour)),
		})

		require.NoError(t, err)
		require.NotNil(t, resp.RebookingError)
		_, settled := repo.settled[1]
		assert.True(t, settled)
	})
}
