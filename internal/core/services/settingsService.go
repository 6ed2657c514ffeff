package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/ridewave/ridewave_rental_service/internal/core/domain"
	"github.com/ridewave/ridewave_rental_service/internal/core/ports"
)

// SettingsService resolves runtime-configurable booking parameters.
// Every numeric knob the booking engine reads goes through Get so admins
// can change it without a redeploy.
type SettingsService struct {
	settingsRepo ports.SettingsRepository
	logger       ports.LoggerPort
	cache        ports.CachePort
}

func NewSettingsService(
	settingsRepo ports.SettingsRepository,
	logger ports.LoggerPort,
	cache ports.CachePort,
) *SettingsService {
	return &SettingsService{
		settingsRepo: settingsRepo,
		logger:       logger,
		cache:        cache,
	}
}

func (s *SettingsService) Get(ctx context.Context, key, defaultValue string) string {
	cacheKey := fmt.Sprintf("setting:%s", key)
	if cached, err := s.cache.Get(cacheKey); err == nil {
		return string(cached)
	}

	setting, err := s.settingsRepo.GetSetting(ctx, key)
	if err != nil {
		if !domain.IsKind(err, domain.KindNotFound) {
			s.logger.Warn("Failed to read setting, using default", map[string]interface{}{
				"error": err.Error(),
				"key":   key,
			})
		}
		return defaultValue
	}

	if err := s.cache.Set(cacheKey, []byte(setting.Value), time.Minute); err != nil {
		s.logger.Warn("Failed to cache setting", map[string]interface{}{
			"error": err.Error(),
			"key":   key,
		})
	}

	return setting.Value
}

func (s *SettingsService) GetFloat(ctx context.Context, key string, defaultValue float64) float64 {
	raw := s.Get(ctx, key, "")
	if raw == "" {
		return defaultValue
	}
	val, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		s.logger.Warn("Setting is not numeric, using default", map[string]interface{}{
			"key":   key,
			"value": raw,
		})
		return defaultValue
	}
	return val
}

func (s *SettingsService) GetInt(ctx context.Context, key string, defaultValue int) int {
	raw := s.Get(ctx, key, "")
	if raw == "" {
		return defaultValue
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		s.logger.Warn("Setting is not numeric, using default", map[string]interface{}{
			"key":   key,
			"value": raw,
		})
		return defaultValue
	}
	return val
}

func (s *SettingsService) Set(ctx context.Context, key, value, description string) (*domain.Setting, error) {
	if key == "" || value == "" {
		return nil, domain.NewError(domain.KindValidationFailed, "setting key and value are required")
	}

	setting, err := s.settingsRepo.UpsertSetting(ctx, &domain.Setting{
		Key:         key,
		Value:       value,
		Description: description,
	})
	if err != nil {
		s.logger.Error("Failed to upsert setting", map[string]interface{}{
			"error": err.Error(),
			"key":   key,
		})
		return nil, err
	}

	cacheKey := fmt.Sprintf("setting:%s", key)
	if err := s.cache.Delete(cacheKey); err != nil {
		s.logger.Warn("Failed to invalidate setting cache", map[string]interface{}{
			"error": err.Error(),
			"key":   key,
		})
	}

	s.logger.Info("Setting updated", map[string]interface{}{
		"key":   key,
		"value": value,
	})

	return setting, nil
}

func (s *SettingsService) List(ctx context.Context) ([]*domain.Setting, error) {
	settings, err := s.settingsRepo.ListSettings(ctx)
	if err != nil {
		s.logger.Error("Failed to list settings", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, err
	}
	return settings, nil
}
