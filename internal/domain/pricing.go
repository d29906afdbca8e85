package domain

import "github.com/shopspring/decimal"

// ComputeAmount returns the charge for a booking of the given duration.
// Members parking at their own organization park for free; everyone else
// pays durationHours times the organization's visitor hourly rate.
// Deterministic, no side effects.
func ComputeAmount(durationHours int, org *Organization, role RequesterRole, requesterOrgID *int64) float64 {
	if IsHomeOrgMember(org.ID, role, requesterOrgID) {
		return 0
	}
	amount := decimal.NewFromFloat(org.VisitorHourlyRate).
		Mul(decimal.NewFromInt(int64(durationHours)))
	return amount.InexactFloat64()
}

// IsHomeOrgMember returns true if the requester is an organization member
// booking at their own organization
func IsHomeOrgMember(orgID int64, role RequesterRole, requesterOrgID *int64) bool {
	return role == RoleOrganizationMember && requesterOrgID != nil && *requesterOrgID == orgID
}
