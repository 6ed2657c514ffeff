package services

import (
	"context"

	"github.com/ridewave/ridewave_rental_service/internal/core/domain"
	"github.com/ridewave/ridewave_rental_service/internal/core/ports"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type AccessoryService struct {
	accessoryRepo ports.AccessoryRepository
	logger        ports.LoggerPort
	validate      *validator.Validate
}

func NewAccessoryService(
	accessoryRepo ports.AccessoryRepository,
	logger ports.LoggerPort,
	validate *validator.Validate,
) *AccessoryService {
	return &AccessoryService{
		accessoryRepo: accessoryRepo,
		logger:        logger,
		validate:      validate,
	}
}

func (s *AccessoryService) ListAccessories(ctx context.Context) ([]*domain.Accessory, error) {
	accessories, err := s.accessoryRepo.ListAccessories(ctx)
	if err != nil {
		s.logger.Error("Failed to list accessories", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, err
	}
	return accessories, nil
}

func (s *AccessoryService) GetAccessoryByID(ctx context.Context, accessoryID string) (*domain.Accessory, error) {
	accessoryUUID, err := uuid.Parse(accessoryID)
	if err != nil {
		return nil, domain.NewError(domain.KindValidationFailed, "invalid accessory ID")
	}
	return s.accessoryRepo.GetAccessoryByID(ctx, accessoryUUID)
}

func (s *AccessoryService) CreateAccessory(ctx context.Context, accessory *domain.Accessory) (*domain.Accessory, error) {
	if err := s.validate.Struct(accessory); err != nil {
		s.logger.Error("Accessory validation failed", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, domain.WrapError(domain.KindValidationFailed, err, "invalid accessory")
	}

	if accessory.AccessoryID == uuid.Nil {
		accessory.AccessoryID = uuid.New()
	}

	created, err := s.accessoryRepo.CreateAccessory(ctx, accessory)
	if err != nil {
		s.logger.Error("Failed to create accessory", map[string]interface{}{
			"error": err.Error(),
			"name":  accessory.Name,
		})
		return nil, err
	}

	s.logger.Info("Accessory created", map[string]interface{}{
		"accessory_id": created.AccessoryID,
	})

	return created, nil
}
