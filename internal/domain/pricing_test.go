package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	"github.com/m04kA/SMC-ParkingService/pkg/ptr"
)

func testOrg(rate float64) *domain.Organization {
	return &domain.Organization{
		ID:                42,
		Name:              "Tech Park",
		Address:           "MG Road 1",
		OpenTime:          "08:00",
		CloseTime:         "22:00",
		VisitorHourlyRate: rate,
	}
}

func TestComputeAmount_MemberAtHomeOrg_Free(t *testing.T) {
	// GIVEN: an organization member parking at their own organization
	// WHEN: computing the booking amount
	// THEN: parking is free

	org := testOrg(50)

	amount := domain.ComputeAmount(2, org, domain.RoleOrganizationMember, ptr.Ptr(int64(42)))

	assert.Equal(t, 0.0, amount)
}

func TestComputeAmount_MemberAtForeignOrg_PaysVisitorRate(t *testing.T) {
	// GIVEN: an organization member parking at another organization
	// WHEN: computing the booking amount
	// THEN: the visitor rate applies

	org := testOrg(50)

	amount := domain.ComputeAmount(2, org, domain.RoleOrganizationMember, ptr.Ptr(int64(7)))

	assert.Equal(t, 100.0, amount)
}

func TestComputeAmount_Visitor_PaysPerStartedHour(t *testing.T) {
	// GIVEN: a visitor booking 2 hours at rate 50
	// WHEN: computing the booking amount
	// THEN: amount is 2 * 50 = 100

	org := testOrg(50)

	amount := domain.ComputeAmount(2, org, domain.RoleVisitor, nil)

	assert.Equal(t, 100.0, amount)
}

func TestComputeAmount_WalkIn_PaysVisitorRate(t *testing.T) {
	org := testOrg(30)

	amount := domain.ComputeAmount(3, org, domain.RoleWalkIn, nil)

	assert.Equal(t, 90.0, amount)
}

func TestComputePenalty_NotOverdue_Zero(t *testing.T) {
	// GIVEN: a booking whose end time has not passed yet
	// WHEN: computing the penalty
	// THEN: penalty is zero

	end := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

	penalty := domain.ComputePenalty(end, 50, end)

	assert.Equal(t, 0, penalty.OverstayMinutes)
	assert.Equal(t, 0.0, penalty.Amount)
}

func TestComputePenalty_OverdueWithinHour_OneHourCharged(t *testing.T) {
	// GIVEN: a booking overdue by 30 minutes at visitor rate 50
	// WHEN: computing the penalty
	// THEN: one started hour is charged at double rate: 1 * 2 * 50 = 100

	end := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	now := end.Add(30 * time.Minute)

	penalty := domain.ComputePenalty(end, 50, now)

	assert.Equal(t, 30, penalty.OverstayMinutes)
	assert.Equal(t, 1, penalty.OverstayHours)
	assert.Equal(t, 100.0, penalty.Amount)
}

func TestComputePenalty_OverdueJustPastHour_TwoHoursCharged(t *testing.T) {
	// GIVEN: a booking overdue by 61 minutes at visitor rate 50
	// WHEN: computing the penalty
	// THEN: two started hours are charged: 2 * 2 * 50 = 200

	end := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	now := end.Add(61 * time.Minute)

	penalty := domain.ComputePenalty(end, 50, now)

	assert.Equal(t, 61, penalty.OverstayMinutes)
	assert.Equal(t, 2, penalty.OverstayHours)
	assert.Equal(t, 200.0, penalty.Amount)
}

func TestComputePenalty_PartialMinuteRoundsUp(t *testing.T) {
	end := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	now := end.Add(90 * time.Second)

	penalty := domain.ComputePenalty(end, 50, now)

	assert.Equal(t, 2, penalty.OverstayMinutes)
	assert.Equal(t, 1, penalty.OverstayHours)
}
