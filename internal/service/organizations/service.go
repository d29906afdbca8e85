package organizations

import (
	"context"
	"errors"
	"fmt"

	orgRepo "github.com/m04kA/SMC-ParkingService/internal/infra/storage/organization"
	"github.com/m04kA/SMC-ParkingService/internal/service/organizations/models"
)

// Service сервис настроек организаций: карточка организации
// и управление тарифом и правилами парковки
type Service struct {
	repo   OrganizationRepository
	logger Logger
}

// NewService создает новый экземпляр сервиса организаций
func NewService(repo OrganizationRepository, logger Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// GetByID возвращает организацию с её парковками
func (s *Service) GetByID(ctx context.Context, organizationID int64) (*models.OrganizationResponse, error) {
	org, err := s.repo.GetByID(ctx, organizationID)
	if err != nil {
		if errors.Is(err, orgRepo.ErrOrganizationNotFound) {
			return nil, ErrOrganizationNotFound
		}
		s.logger.Error("GetByID: failed to get organization=%d: %v", organizationID, err)
		return nil, fmt.Errorf("%w: GetByID: %v", ErrInternal, err)
	}

	lots, err := s.repo.GetLotsByOrganization(ctx, organizationID)
	if err != nil {
		s.logger.Error("GetByID: failed to get lots for organization=%d: %v", organizationID, err)
		return nil, fmt.Errorf("%w: GetByID - get lots: %v", ErrInternal, err)
	}

	resp := models.FromDomainOrganization(org, lots)
	return &resp, nil
}

// Update обновляет тариф и правила парковки организации
// Обновляются только переданные поля
func (s *Service) Update(ctx context.Context, organizationID int64, req models.UpdateOrganizationRequest) (*models.OrganizationResponse, error) {
	if req.VisitorHourlyRate == nil && req.ParkingRules == nil {
		return nil, fmt.Errorf("%w: nothing to update", ErrInvalidInput)
	}
	if req.VisitorHourlyRate != nil && *req.VisitorHourlyRate < 0 {
		return nil, fmt.Errorf("%w: visitor_hourly_rate must be non-negative", ErrInvalidInput)
	}

	s.logger.Info("Update: updating organization=%d", organizationID)

	org, err := s.repo.Update(ctx, organizationID, req.VisitorHourlyRate, req.ParkingRules)
	if err != nil {
		if errors.Is(err, orgRepo.ErrOrganizationNotFound) {
			return nil, ErrOrganizationNotFound
		}
		s.logger.Error("Update: failed to update organization=%d: %v", organizationID, err)
		return nil, fmt.Errorf("%w: Update: %v", ErrInternal, err)
	}

	lots, err := s.repo.GetLotsByOrganization(ctx, organizationID)
	if err != nil {
		s.logger.Error("Update: failed to get lots for organization=%d: %v", organizationID, err)
		return nil, fmt.Errorf("%w: Update - get lots: %v", ErrInternal, err)
	}

	resp := models.FromDomainOrganization(org, lots)
	return &resp, nil
}
