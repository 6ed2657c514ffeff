package ports

import (
	"context"

	"github.com/ridewave/ridewave_rental_service/internal/core/domain"
)

type SettingsRepository interface {
	GetSetting(ctx context.Context, key string) (*domain.Setting, error)
	UpsertSetting(ctx context.Context, setting *domain.Setting) (*domain.Setting, error)
	ListSettings(ctx context.Context) ([]*domain.Setting, error)
}

type SettingsService interface {
	Get(ctx context.Context, key, defaultValue string) string
	GetFloat(ctx context.Context, key string, defaultValue float64) float64
	GetInt(ctx context.Context, key string, defaultValue int) int
	Set(ctx context.Context, key, value, description string) (*domain.Setting, error)
	List(ctx context.Context) ([]*domain.Setting, error)
}
