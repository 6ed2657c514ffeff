package ports

import (
	"context"

	"github.com/ridewave/ridewave_rental_service/internal/core/domain"

	"github.com/google/uuid"
)

type AccessoryRepository interface {
	GetAccessoryByID(ctx context.Context, accessoryID uuid.UUID) (*domain.Accessory, error)
	GetAccessoriesByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Accessory, error)
	ListAccessories(ctx context.Context) ([]*domain.Accessory, error)
	CreateAccessory(ctx context.Context, accessory *domain.Accessory) (*domain.Accessory, error)
}
