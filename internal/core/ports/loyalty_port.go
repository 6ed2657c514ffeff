package ports

import (
	"context"
	"database/sql"

	"github.com/ridewave/ridewave_rental_service/internal/core/domain"

	"github.com/google/uuid"
)

type LoyaltyRepository interface {
	ListTiers(ctx context.Context) ([]domain.LoyaltyTier, error)
	GetTierByID(ctx context.Context, tierID uuid.UUID) (*domain.LoyaltyTier, error)
	GetUserLoyalty(ctx context.Context, userID uuid.UUID) (*domain.UserLoyalty, error)
	GetUserLoyaltyForUpdate(ctx context.Context, tx *sql.Tx, userID uuid.UUID) (*domain.UserLoyalty, error)
	UpsertUserLoyalty(ctx context.Context, tx *sql.Tx, loyalty *domain.UserLoyalty) error
}

type LoyaltyService interface {
	CurrentTier(ctx context.Context, userID uuid.UUID) (*domain.LoyaltyTier, int, error)
	AddPoints(ctx context.Context, tx *sql.Tx, userID uuid.UUID, amount int) (*domain.UserLoyalty, error)
}
