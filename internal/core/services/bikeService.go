package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ridewave/ridewave_rental_service/internal/core/domain"
	"github.com/ridewave/ridewave_rental_service/internal/core/ports"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type BikeService struct {
	bikeRepo ports.BikeRepository
	logger   ports.LoggerPort
	validate *validator.Validate
	cache    ports.CachePort
}

func NewBikeService(
	bikeRepo ports.BikeRepository,
	logger ports.LoggerPort,
	validate *validator.Validate,
	cache ports.CachePort,
) *BikeService {
	return &BikeService{
		bikeRepo: bikeRepo,
		logger:   logger,
		validate: validate,
		cache:    cache,
	}
}

func (s *BikeService) CreateBike(ctx context.Context, bike *domain.Bike) (*domain.Bike, error) {
	if err := s.validate.Struct(bike); err != nil {
		s.logger.Error("Bike validation failed", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, domain.WrapError(domain.KindValidationFailed, err, "invalid bike")
	}

	if bike.BikeID == uuid.Nil {
		bike.BikeID = uuid.New()
	}
	bike.IsAvailable = true

	createdBike, err := s.bikeRepo.CreateBike(ctx, bike)
	if err != nil {
		s.logger.Error("Failed to create bike", map[string]interface{}{
			"error": err.Error(),
			"name":  bike.Name,
		})
		return nil, err
	}

	s.logger.Info("Bike created successfully", map[string]interface{}{
		"bike_id": createdBike.BikeID,
		"type":    createdBike.Type,
	})

	return createdBike, nil
}

func (s *BikeService) GetBikeByID(ctx context.Context, bikeID string) (*domain.Bike, error) {
	bikeUUID, err := uuid.Parse(bikeID)
	if err != nil {
		s.logger.Error("Invalid UUID format", map[string]interface{}{
			"bike_id": bikeID,
			"error":   err.Error(),
		})
		return nil, domain.NewError(domain.KindValidationFailed, "invalid bike ID")
	}

	cacheKey := fmt.Sprintf("bike:%s", bikeID)
	cachedData, err := s.cache.Get(cacheKey)
	if err == nil {
		var cachedBike domain.Bike
		if err := json.Unmarshal(cachedData, &cachedBike); err == nil {
			return &cachedBike, nil
		}
	}

	bike, err := s.bikeRepo.GetBikeByID(ctx, bikeUUID)
	if err != nil {
		s.logger.Error("Failed to get bike", map[string]interface{}{
			"error":   err.Error(),
			"bike_id": bikeID,
		})
		return nil, err
	}

	bikeData, err := json.Marshal(bike)
	if err != nil {
		s.logger.Warn("Failed to marshal bike for cache", map[string]interface{}{
			"error":   err.Error(),
			"bike_id": bikeID,
		})
	} else {
		if err := s.cache.Set(cacheKey, bikeData, 15*time.Minute); err != nil {
			s.logger.Warn("Failed to cache bike", map[string]interface{}{
				"error":   err.Error(),
				"bike_id": bikeID,
			})
		}
	}

	return bike, nil
}

func (s *BikeService) ListBikes(ctx context.Context, onlyAvailable bool) ([]*domain.Bike, error) {
	bikes, err := s.bikeRepo.ListBikes(ctx, onlyAvailable)
	if err != nil {
		s.logger.Error("Failed to list bikes", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, err
	}
	return bikes, nil
}

func (s *BikeService) CountBikes(ctx context.Context) (int, error) {
	return s.bikeRepo.CountBikes(ctx)
}

func (s *BikeService) UpdateBike(ctx context.Context, bike *domain.Bike) (*domain.Bike, error) {
	updatedBike, err := s.bikeRepo.UpdateBike(ctx, bike)
	if err != nil {
		s.logger.Error("Failed to update bike", map[string]interface{}{
			"error":   err.Error(),
			"bike_id": bike.BikeID,
		})
		return nil, err
	}

	cacheKey := fmt.Sprintf("bike:%s", bike.BikeID.String())
	if err := s.cache.Delete(cacheKey); err != nil {
		s.logger.Warn("Failed to invalidate bike cache", map[string]interface{}{
			"error":   err.Error(),
			"bike_id": bike.BikeID.String(),
		})
	}

	s.logger.Info("Bike updated successfully", map[string]interface{}{
		"bike_id": bike.BikeID,
	})

	return updatedBike, nil
}

func (s *BikeService) DeleteBike(ctx context.Context, bikeID string) error {
	bikeUUID, err := uuid.Parse(bikeID)
	if err != nil {
		s.logger.Error("Invalid UUID format", map[string]interface{}{
			"bike_id": bikeID,
			"error":   err.Error(),
		})
		return domain.NewError(domain.KindValidationFailed, "invalid bike ID")
	}

	err = s.bikeRepo.DeleteBike(ctx, bikeUUID)
	if err != nil {
		s.logger.Error("Failed to delete bike", map[string]interface{}{
			"error":   err.Error(),
			"bike_id": bikeID,
		})
		return err
	}

	cacheKey := fmt.Sprintf("bike:%s", bikeID)
	if err := s.cache.Delete(cacheKey); err != nil {
		s.logger.Warn("Failed to invalidate bike cache", map[string]interface{}{
			"error":   err.Error(),
			"bike_id": bikeID,
		})
	}

	s.logger.Info("Bike deleted successfully", map[string]interface{}{
		"bike_id": bikeID,
	})

	return nil
}
