package create_booking

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

// validateRequest проверяет входные данные запроса
// Номер транспортного средства нормализуется на месте
func validateRequest(req *Request, now time.Time) error {
	if req.OrganizationID <= 0 {
		return fmt.Errorf("%w: organization_id is required", ErrInvalidInput)
	}
	if req.UserID <= 0 {
		return fmt.Errorf("%w: user_id is required", ErrInvalidInput)
	}

	if !domain.IsValidRole(req.UserRole) {
		return fmt.Errorf("%w: %q", ErrInvalidRole, req.UserRole)
	}
	if req.UserRole == domain.RoleOrganizationMember && req.UserOrgID == nil {
		return fmt.Errorf("%w: organization member must have home organization", ErrInvalidInput)
	}

	req.VehicleNumber = domain.NormalizeVehicleNumber(req.VehicleNumber)
	if !domain.IsValidVehicleNumber(req.VehicleNumber) {
		return fmt.Errorf("%w: %q", ErrInvalidVehicleNumber, req.VehicleNumber)
	}

	if len(req.VehicleType) > domain.MaxVehicleTypeLength {
		return fmt.Errorf("%w: vehicle_type too long", ErrInvalidInput)
	}

	rng := domain.TimeRange{Start: req.StartTime, End: req.EndTime}
	if !rng.IsValid() {
		return ErrInvalidTimeRange
	}
	if !now.Before(req.StartTime) {
		return ErrStartInPast
	}
	if rng.DurationHours() > domain.MaxBookingDurationHours {
		return ErrTooLong
	}

	return nil
}
