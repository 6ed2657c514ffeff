package services

import (
	"context"
	"database/sql"
	"testing"

	"github.com/ridewave/ridewave_rental_service/internal/core/domain"

	"github.com/google/uuid"
)

type fakeLoyaltyRepo struct {
	tiers   []domain.LoyaltyTier
	records map[uuid.UUID]*domain.UserLoyalty
}

func newFakeLoyaltyRepo() *fakeLoyaltyRepo {
	return &fakeLoyaltyRepo{
		tiers: []domain.LoyaltyTier{
			{TierID: uuid.New(), Name: "Bronze", MinPoints: 0, DiscountPercentage: 0},
			{TierID: uuid.New(), Name: "Silver", MinPoints: 1000, DiscountPercentage: 5},
			{TierID: uuid.New(), Name: "Gold", MinPoints: 5000, DiscountPercentage: 10},
		},
		records: make(map[uuid.UUID]*domain.UserLoyalty),
	}
}

func (f *fakeLoyaltyRepo) ListTiers(_ context.Context) ([]domain.LoyaltyTier, error) {
	return f.tiers, nil
}

func (f *fakeLoyaltyRepo) GetTierByID(_ context.Context, tierID uuid.UUID) (*domain.LoyaltyTier, error) {
	for i := range f.tiers {
		if f.tiers[i].TierID == tierID {
			return &f.tiers[i], nil
		}
	}
	return nil, domain.NewError(domain.KindNotFound, "loyalty tier not found")
}

func (f *fakeLoyaltyRepo) GetUserLoyalty(_ context.Context, userID uuid.UUID) (*domain.UserLoyalty, error) {
	record, ok := f.records[userID]
	if !ok {
		return nil, domain.NewError(domain.KindNotFound, "loyalty record not found")
	}
	return record, nil
}

func (f *fakeLoyaltyRepo) GetUserLoyaltyForUpdate(ctx context.Context, _ *sql.Tx, userID uuid.UUID) (*domain.UserLoyalty, error) {
	return f.GetUserLoyalty(ctx, userID)
}

func (f *fakeLoyaltyRepo) UpsertUserLoyalty(_ context.Context, _ *sql.Tx, loyalty *domain.UserLoyalty) error {
	f.records[loyalty.UserID] = loyalty
	return nil
}

func (f *fakeLoyaltyRepo) tierName(tierID uuid.UUID) string {
	for _, tier := range f.tiers {
		if tier.TierID == tierID {
			return tier.Name
		}
	}
	return ""
}

func TestCurrentTierWithoutLedgerRow(t *testing.T) {
	repo := newFakeLoyaltyRepo()
	service := NewLoyaltyService(repo, nopLogger{})

	tier, points, err := service.CurrentTier(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("CurrentTier: %v", err)
	}
	if points != 0 {
		t.Errorf("points = %d, want 0", points)
	}
	if tier.Name != "Bronze" {
		t.Errorf("tier = %s, want Bronze", tier.Name)
	}
}

func TestAddPointsSeedsLedger(t *testing.T) {
	repo := newFakeLoyaltyRepo()
	service := NewLoyaltyService(repo, nopLogger{})
	userID := uuid.New()

	loyalty, err := service.AddPoints(context.Background(), nil, userID, 150)
	if err != nil {
		t.Fatalf("AddPoints: %v", err)
	}
	if loyalty.Points != 150 {
		t.Errorf("points = %d, want 150", loyalty.Points)
	}
	if repo.tierName(loyalty.TierID) != "Bronze" {
		t.Errorf("tier = %s, want Bronze", repo.tierName(loyalty.TierID))
	}
}

func TestAddPointsUpgradesTier(t *testing.T) {
	repo := newFakeLoyaltyRepo()
	service := NewLoyaltyService(repo, nopLogger{})
	userID := uuid.New()

	if _, err := service.AddPoints(context.Background(), nil, userID, 800); err != nil {
		t.Fatalf("AddPoints: %v", err)
	}
	loyalty, err := service.AddPoints(context.Background(), nil, userID, 300)
	if err != nil {
		t.Fatalf("AddPoints: %v", err)
	}

	if loyalty.Points != 1100 {
		t.Errorf("points = %d, want 1100", loyalty.Points)
	}
	if repo.tierName(loyalty.TierID) != "Silver" {
		t.Errorf("tier = %s, want Silver", repo.tierName(loyalty.TierID))
	}
}

func TestAddPointsKeepsTierBelowThreshold(t *testing.T) {
	repo := newFakeLoyaltyRepo()
	service := NewLoyaltyService(repo, nopLogger{})
	userID := uuid.New()

	loyalty, err := service.AddPoints(context.Background(), nil, userID, 999)
	if err != nil {
		t.Fatalf("AddPoints: %v", err)
	}
	if repo.tierName(loyalty.TierID) != "Bronze" {
		t.Errorf("tier = %s, want Bronze at 999 points", repo.tierName(loyalty.TierID))
	}
}
