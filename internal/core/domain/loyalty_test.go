package domain

import (
	"testing"

	"github.com/google/uuid"
)

func testTiers() []LoyaltyTier {
	return []LoyaltyTier{
		{TierID: uuid.New(), Name: "Bronze", MinPoints: 0, DiscountPercentage: 0},
		{TierID: uuid.New(), Name: "Silver", MinPoints: 1000, DiscountPercentage: 5},
		{TierID: uuid.New(), Name: "Gold", MinPoints: 5000, DiscountPercentage: 10},
		{TierID: uuid.New(), Name: "Platinum", MinPoints: 10000, DiscountPercentage: 15},
	}
}

func TestHighestQualifyingTier(t *testing.T) {
	tiers := testTiers()

	tests := []struct {
		points int
		want   string
	}{
		{0, "Bronze"},
		{999, "Bronze"},
		{1000, "Silver"},
		{4999, "Silver"},
		{5000, "Gold"},
		{10000, "Platinum"},
		{250000, "Platinum"},
	}

	for _, tt := range tests {
		tier := HighestQualifyingTier(tiers, tt.points)
		if tier == nil {
			t.Fatalf("points=%d: got nil tier", tt.points)
		}
		if tier.Name != tt.want {
			t.Errorf("points=%d: tier = %s, want %s", tt.points, tier.Name, tt.want)
		}
	}
}

func TestHighestQualifyingTierNoZeroThreshold(t *testing.T) {
	tiers := []LoyaltyTier{{TierID: uuid.New(), Name: "Silver", MinPoints: 1000}}

	if tier := HighestQualifyingTier(tiers, 500); tier != nil {
		t.Errorf("expected nil tier below every threshold, got %s", tier.Name)
	}
}

func TestHighestQualifyingTierMonotonic(t *testing.T) {
	tiers := testTiers()

	prev := -1
	for points := 0; points <= 12000; points += 500 {
		tier := HighestQualifyingTier(tiers, points)
		if tier == nil {
			t.Fatalf("points=%d: got nil tier", points)
		}
		if tier.MinPoints < prev {
			t.Fatalf("tier threshold decreased while points grew: %d after %d", tier.MinPoints, prev)
		}
		prev = tier.MinPoints
	}
}
