package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/ridewave/ridewave_rental_service/internal/core/domain"
	"github.com/ridewave/ridewave_rental_service/internal/core/ports"

	"github.com/google/uuid"
)

// LoyaltyService is the points ledger. A user's tier is always the
// highest tier whose min_points threshold the accumulated total meets;
// it is re-evaluated after every points change and never decreases while
// points only grow.
type LoyaltyService struct {
	loyaltyRepo ports.LoyaltyRepository
	logger      ports.LoggerPort
}

func NewLoyaltyService(loyaltyRepo ports.LoyaltyRepository, logger ports.LoggerPort) *LoyaltyService {
	return &LoyaltyService{
		loyaltyRepo: loyaltyRepo,
		logger:      logger,
	}
}

// CurrentTier returns the user's tier and point total. Users without a
// ledger row are reported on the zero-point tier with 0 points.
func (s *LoyaltyService) CurrentTier(ctx context.Context, userID uuid.UUID) (*domain.LoyaltyTier, int, error) {
	tiers, err := s.loyaltyRepo.ListTiers(ctx)
	if err != nil {
		s.logger.Error("Failed to list loyalty tiers", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, 0, err
	}

	loyalty, err := s.loyaltyRepo.GetUserLoyalty(ctx, userID)
	if err != nil {
		if domain.IsKind(err, domain.KindNotFound) {
			base := domain.HighestQualifyingTier(tiers, 0)
			if base == nil {
				return nil, 0, domain.NewError(domain.KindPersistence, "no loyalty tier with zero threshold configured")
			}
			return base, 0, nil
		}
		s.logger.Error("Failed to get user loyalty", map[string]interface{}{
			"error":   err.Error(),
			"user_id": userID,
		})
		return nil, 0, err
	}

	tier := domain.HighestQualifyingTier(tiers, loyalty.Points)
	if tier == nil {
		return nil, 0, domain.NewError(domain.KindPersistence, "no loyalty tier with zero threshold configured")
	}
	return tier, loyalty.Points, nil
}

// AddPoints accumulates points inside the caller's transaction and
// re-evaluates the tier. A missing ledger row is seeded at the
// zero-point tier before the points are added.
func (s *LoyaltyService) AddPoints(ctx context.Context, tx *sql.Tx, userID uuid.UUID, amount int) (*domain.UserLoyalty, error) {
	tiers, err := s.loyaltyRepo.ListTiers(ctx)
	if err != nil {
		return nil, err
	}

	loyalty, err := s.loyaltyRepo.GetUserLoyaltyForUpdate(ctx, tx, userID)
	if err != nil {
		if !domain.IsKind(err, domain.KindNotFound) {
			return nil, err
		}
		base := domain.HighestQualifyingTier(tiers, 0)
		if base == nil {
			return nil, domain.NewError(domain.KindPersistence, "no loyalty tier with zero threshold configured")
		}
		loyalty = &domain.UserLoyalty{
			LoyaltyID: uuid.New(),
			UserID:    userID,
			Points:    0,
			TierID:    base.TierID,
		}
	}

	loyalty.Points += amount
	if tier := domain.HighestQualifyingTier(tiers, loyalty.Points); tier != nil {
		loyalty.TierID = tier.TierID
	}
	loyalty.UpdatedAt = time.Now().UTC()

	if err := s.loyaltyRepo.UpsertUserLoyalty(ctx, tx, loyalty); err != nil {
		s.logger.Error("Failed to upsert user loyalty", map[string]interface{}{
			"error":   err.Error(),
			"user_id": userID,
		})
		return nil, err
	}

	s.logger.Info("Loyalty points added", map[string]interface{}{
		"user_id": userID,
		"added":   amount,
		"total":   loyalty.Points,
	})

	return loyalty, nil
}
