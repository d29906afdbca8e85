package create_booking

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	orgRepo "github.com/m04kA/SMC-ParkingService/internal/infra/storage/organization"
	"github.com/m04kA/SMC-ParkingService/internal/integrations/paymentgateway"
	"github.com/m04kA/SMC-ParkingService/internal/service/inventory"
	"github.com/m04kA/SMC-ParkingService/pkg/dbmetrics"
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
	bookings  map[int64]*domain.Booking
	nextID    int64
	confirmed []int64
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: make(map[int64]*domain.Booking), nextID: 1}
}

func (r *fakeBookingRepo) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	created := *booking
	created.ID = r.nextID
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt
	r.nextID++
	r.bookings[created.ID] = &created
	return &created, nil
}

func (r *fakeBookingRepo) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	b := *r.bookings[id]
	return &b, nil
}

func (r *fakeBookingRepo) Confirm(ctx context.Context, id int64) error {
	r.confirmed = append(r.confirmed, id)
	r.bookings[id].Status = domain.StatusConfirmed
	return nil
}

type fakeOrgRepo struct {
	org *domain.Organization
	err error
}

func (r *fakeOrgRepo) GetByID(ctx context.Context, id int64) (*domain.Organization, error) {
	if r.err != nil {
		return nil, r.err
	}
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
	requests []*paymentgateway.ChargeRequest
	err      error
}

func (g *fakeGateway) Charge(ctx context.Context, req *paymentgateway.ChargeRequest) (*paymentgateway.ChargeResponse, error) {
	g.requests = append(g.requests, req)
	if g.err != nil {
		return nil, g.err
	}
	return &paymentgateway.ChargeResponse{TransactionID: "tx-1", Status: "succeeded"}, nil
}

type fakeTxManager struct{}

func (m *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// conflictTxManager имитирует неразрешившийся конфликт сериализации
type conflictTxManager struct{}

func (m *conflictTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fmt.Errorf("%w: commit aborted", dbmetrics.ErrSerializationConflict)
}

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestUseCase(repo *fakeBookingRepo, orgs *fakeOrgRepo, inv *fakeInventory, gw *fakeGateway) *UseCase {
	return NewUseCase(repo, orgs, inv, gw, &fakeTxManager{}, &fakeLogger{})
}

func futureRange(hours int) (time.Time, time.Time) {
	start := time.Now().Add(24 * time.Hour).Truncate(time.Hour)
	return start, start.Add(time.Duration(hours) * time.Hour)
}

func validRequest() *Request {
	start, end := futureRange(2)
	return &Request{
		OrganizationID: 42,
		UserID:         100,
		UserRole:       domain.RoleVisitor,
		VehicleNumber:  "ka 01 ab 1234",
		VehicleType:    "sedan",
		StartTime:      start,
		EndTime:        end,
		PaymentMethod:  "card",
	}
}

func org42(rate float64) *domain.Organization {
	return &domain.Organization{ID: 42, Name: "Tech Park", VisitorHourlyRate: rate}
}

// =============================================================================
// TESTS
// =============================================================================

func TestCreateBooking_Visitor_ChargedAndConfirmed(t *testing.T) {
	// GIVEN: a visitor booking 2 hours at rate 50
	// WHEN: creating the booking
	// THEN: the booking is charged 100 via the gateway and confirmed

	repo := newFakeBookingRepo()
	gw := &fakeGateway{}
	uc := newTestUseCase(repo, &fakeOrgRepo{org: org42(50)},
		&fakeInventory{allocation: &inventory.Allocation{LotID: 10, SlotNumber: 1}}, gw)

	resp, err := uc.Execute(context.Background(), validRequest())

	require.NoError(t, err)
	assert.Equal(t, 100.0, resp.Amount)
	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
	assert.Equal(t, int64(10), resp.LotID)
	assert.Equal(t, 1, resp.SlotNumber)
	assert.Equal(t, "KA01AB1234", resp.VehicleNumber)

	require.Len(t, gw.requests, 1)
	assert.Equal(t, "booking-1-create", gw.requests[0].IdempotencyKey)
	assert.Equal(t, 100.0, gw.requests[0].Amount)
}

func TestCreateBooking_MemberAtHomeOrg_FreeWithoutCharge(t *testing.T) {
	// GIVEN: an organization member booking at their own organization
	// WHEN: creating the booking
	// THEN: amount is zero, the gateway is not called, booking is confirmed

	repo := newFakeBookingRepo()
	gw := &fakeGateway{}
	uc := newTestUseCase(repo, &fakeOrgRepo{org: org42(50)},
		&fakeInventory{allocation: &inventory.Allocation{LotID: 10, SlotNumber: 2}}, gw)

	req := validRequest()
	req.UserRole = domain.RoleOrganizationMember
	req.UserOrgID = ptr.Ptr(int64(42))

	resp, err := uc.Execute(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, 0.0, resp.Amount)
	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
	assert.Empty(t, gw.requests, "free bookings must not hit the payment gateway")
}

func TestCreateBooking_NoCapacity(t *testing.T) {
	repo := newFakeBookingRepo()
	uc := newTestUseCase(repo, &fakeOrgRepo{org: org42(50)},
		&fakeInventory{err: inventory.ErrNoCapacity}, &fakeGateway{})

	_, err := uc.Execute(context.Background(), validRequest())

	assert.ErrorIs(t, err, ErrNoCapacity)
	assert.Empty(t, repo.bookings, "no booking row on allocation failure")
}

func TestCreateBooking_SerializationConflict(t *testing.T) {
	// GIVEN: two concurrent creates raced for the same range and the
	// transaction lost even after the retry
	// WHEN: creating the booking
	// THEN: the caller gets a conflict, not an internal error

	gw := &fakeGateway{}
	uc := NewUseCase(newFakeBookingRepo(), &fakeOrgRepo{org: org42(50)},
		&fakeInventory{allocation: &inventory.Allocation{LotID: 10, SlotNumber: 1}},
		gw, &conflictTxManager{}, &fakeLogger{})

	_, err := uc.Execute(context.Background(), validRequest())

	assert.ErrorIs(t, err, ErrConcurrentConflict)
	assert.Empty(t, gw.requests, "no charge for a booking that was never committed")
}

func TestCreateBooking_OrganizationNotFound(t *testing.T) {
	uc := newTestUseCase(newFakeBookingRepo(), &fakeOrgRepo{err: orgRepo.ErrOrganizationNotFound},
		&fakeInventory{}, &fakeGateway{})

	_, err := uc.Execute(context.Background(), validRequest())

	assert.ErrorIs(t, err, ErrOrganizationNotFound)
}

func TestCreateBooking_PaymentDeclined_StaysPending(t *testing.T) {
	// GIVEN: a payment gateway that declines the charge
	// WHEN: creating a paid booking
	// THEN: ErrPaymentDeclined is returned and the booking stays pending

	repo := newFakeBookingRepo()
	gw := &fakeGateway{err: paymentgateway.ErrPaymentDeclined}
	uc := newTestUseCase(repo, &fakeOrgRepo{org: org42(50)},
		&fakeInventory{allocation: &inventory.Allocation{LotID: 10, SlotNumber: 1}}, gw)

	_, err := uc.Execute(context.Background(), validRequest())

	assert.ErrorIs(t, err, ErrPaymentDeclined)
	require.Len(t, repo.bookings, 1)
	assert.Equal(t, domain.StatusPending, repo.bookings[1].Status)
	assert.Empty(t, repo.confirmed)
}

func TestCreateBooking_Validation(t *testing.T) {
	uc := newTestUseCase(newFakeBookingRepo(), &fakeOrgRepo{org: org42(50)},
		&fakeInventory{allocation: &inventory.Allocation{LotID: 10, SlotNumber: 1}}, &fakeGateway{})

	t.Run("invalid vehicle number", func(t *testing.T) {
		req := validRequest()
		req.VehicleNumber = "not-a-plate"
		_, err := uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidVehicleNumber)
	})

	t.Run("start in the past", func(t *testing.T) {
		req := validRequest()
		req.StartTime = time.Now().Add(-time.Hour)
		req.EndTime = time.Now().Add(time.Hour)
		_, err := uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrStartInPast)
	})

	t.Run("end before start", func(t *testing.T) {
		req := validRequest()
		req.StartTime, req.EndTime = req.EndTime, req.StartTime
		_, err := uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidTimeRange)
	})

	t.Run("member without home organization", func(t *testing.T) {
		req := validRequest()
		req.UserRole = domain.RoleOrganizationMember
		req.UserOrgID = nil
		_, err := uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("unknown role", func(t *testing.T) {
		req := validRequest()
		req.UserRole = domain.RequesterRole("admin")
		_, err := uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidRole)
	})
}
