package get_organization_bookings

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	"github.com/m04kA/SMC-ParkingService/internal/service/bookings/models"
)

// ParseQuery разбирает query параметры фильтра бронирований организации
// Поддерживаются: lotId, from, to (RFC3339), status, includeInactive
func ParseQuery(organizationID int64, query url.Values) (models.OrganizationBookingsRequest, error) {
	req := models.OrganizationBookingsRequest{OrganizationID: organizationID}

	if lotIDStr := query.Get("lotId"); lotIDStr != "" {
		lotID, err := strconv.ParseInt(lotIDStr, 10, 64)
		if err != nil {
			return req, fmt.Errorf("parse lotId: %w", err)
		}
		req.LotID = &lotID
	}

	if fromStr := query.Get("from"); fromStr != "" {
		from, err := time.Parse(time.RFC3339, fromStr)
		if err != nil {
			return req, fmt.Errorf("parse from: %w", err)
		}
		req.From = &from
	}

	if toStr := query.Get("to"); toStr != "" {
		to, err := time.Parse(time.RFC3339, toStr)
		if err != nil {
			return req, fmt.Errorf("parse to: %w", err)
		}
		req.To = &to
	}

	if statusStr := query.Get("status"); statusStr != "" {
		status := domain.BookingStatus(statusStr)
		req.Status = &status
	}

	if includeStr := query.Get("includeInactive"); includeStr != "" {
		include, err := strconv.ParseBool(includeStr)
		if err != nil {
			return req, fmt.Errorf("parse includeInactive: %w", err)
		}
		req.IncludeInactive = include
	}

	return req, nil
}
