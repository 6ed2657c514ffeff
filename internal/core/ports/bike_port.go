package ports

import (
	"context"

	"github.com/ridewave/ridewave_rental_service/internal/core/domain"

	"github.com/google/uuid"
)

type BikeRepository interface {
	CreateBike(ctx context.Context, bike *domain.Bike) (*domain.Bike, error)
	GetBikeByID(ctx context.Context, bikeID uuid.UUID) (*domain.Bike, error)
	ListBikes(ctx context.Context, onlyAvailable bool) ([]*domain.Bike, error)
	UpdateBike(ctx context.Context, bike *domain.Bike) (*domain.Bike, error)
	DeleteBike(ctx context.Context, bikeID uuid.UUID) error
	CountBikes(ctx context.Context) (int, error)
}

type BikeService interface {
	CreateBike(ctx context.Context, bike *domain.Bike) (*domain.Bike, error)
	GetBikeByID(ctx context.Context, bikeID string) (*domain.Bike, error)
	ListBikes(ctx context.Context, onlyAvailable bool) ([]*domain.Bike, error)
	UpdateBike(ctx context.Context, bike *domain.Bike) (*domain.Bike, error)
	DeleteBike(ctx context.Context, bikeID string) error
}
