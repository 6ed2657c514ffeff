package domain

import (
	"time"

	"github.com/google/uuid"
)

type LoyaltyTier struct {
	TierID             uuid.UUID `json:"tier_id"`
	Name               string    `json:"name" validate:"required,max=50"`
	MinPoints          int       `json:"min_points" validate:"min=0"`
	DiscountPercentage float64   `json:"discount_percentage" validate:"min=0,max=100"`
}

type UserLoyalty struct {
	LoyaltyID uuid.UUID `json:"loyalty_id"`
	UserID    uuid.UUID `json:"user_id"`
	Points    int       `json:"points"`
	TierID    uuid.UUID `json:"tier_id"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HighestQualifyingTier выбирает самый высокий тир, порог которого не превышает points.
// Tiers must be sorted by MinPoints ascending with the lowest at 0.
func HighestQualifyingTier(tiers []LoyaltyTier, points int) *LoyaltyTier {
	var current *LoyaltyTier
	for i := range tiers {
		if tiers[i].MinPoints <= points {
			current = &tiers[i]
		}
	}
	return current
}
