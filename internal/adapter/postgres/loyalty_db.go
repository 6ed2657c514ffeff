package postgres

import (
	"context"
	"database/sql"

	"github.com/ridewave/ridewave_rental_service/internal/core/domain"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type LoyaltyRepository struct {
	db *sql.DB
}

func NewLoyaltyRepository(db *sql.DB) *LoyaltyRepository {
	return &LoyaltyRepository{
		db,
	}
}

func (r *LoyaltyRepository) ListTiers(ctx context.Context) ([]domain.LoyaltyTier, error) {
	query := `SELECT tier_id, name, min_points, discount_percentage
		FROM loyalty_tiers ORDER BY min_points`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, domain.WrapError(domain.KindPersistence, err, "failed to list loyalty tiers")
	}
	defer rows.Close()

	var tiers []domain.LoyaltyTier
	for rows.Next() {
		var tier domain.LoyaltyTier
		if err := rows.Scan(&tier.TierID, &tier.Name, &tier.MinPoints, &tier.DiscountPercentage); err != nil {
			return nil, domain.WrapError(domain.KindPersistence, err, "failed to scan loyalty tier")
		}
		tiers = append(tiers, tier)
	}
	if err = rows.Err(); err != nil {
		return nil, domain.WrapError(domain.KindPersistence, err, "failed to list loyalty tiers")
	}
	return tiers, nil
}

func (r *LoyaltyRepository) GetTierByID(ctx context.Context, tierID uuid.UUID) (*domain.LoyaltyTier, error) {
	query := `SELECT tier_id, name, min_points, discount_percentage
		FROM loyalty_tiers WHERE tier_id = $1`

	tier := &domain.LoyaltyTier{}
	err := r.db.QueryRowContext(ctx, query, tierID).Scan(
		&tier.TierID,
		&tier.Name,
		&tier.MinPoints,
		&tier.DiscountPercentage,
	)
	if err == sql.ErrNoRows {
		return nil, domain.NewError(domain.KindNotFound, "loyalty tier not found")
	}
	if err != nil {
		return nil, domain.WrapError(domain.KindPersistence, err, "failed to get loyalty tier")
	}
	return tier, nil
}

func scanUserLoyalty(row interface{ Scan(...interface{}) error }) (*domain.UserLoyalty, error) {
	loyalty := &domain.UserLoyalty{}
	err := row.Scan(
		&loyalty.LoyaltyID,
		&loyalty.UserID,
		&loyalty.Points,
		&loyalty.TierID,
		&loyalty.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return loyalty, nil
}

func (r *LoyaltyRepository) GetUserLoyalty(ctx context.Context, userID uuid.UUID) (*domain.UserLoyalty, error) {
	query := `SELECT loyalty_id, user_id, points, tier_id, updated_at
		FROM user_loyalty WHERE user_id = $1`

	loyalty, err := scanUserLoyalty(r.db.QueryRowContext(ctx, query, userID))
	if err == sql.ErrNoRows {
		return nil, domain.NewError(domain.KindNotFound, "loyalty record not found")
	}
	if err != nil {
		return nil, domain.WrapError(domain.KindPersistence, err, "failed to get loyalty record")
	}
	return loyalty, nil
}

func (r *LoyaltyRepository) GetUserLoyaltyForUpdate(ctx context.Context, tx *sql.Tx, userID uuid.UUID) (*domain.UserLoyalty, error) {
	query := `SELECT loyalty_id, user_id, points, tier_id, updated_at
		FROM user_loyalty WHERE user_id = $1 FOR UPDATE`

	loyalty, err := scanUserLoyalty(tx.QueryRowContext(ctx, query, userID))
	if err == sql.ErrNoRows {
		return nil, domain.NewError(domain.KindNotFound, "loyalty record not found")
	}
	if err != nil {
		return nil, domain.WrapError(domain.KindPersistence, err, "failed to lock loyalty record")
	}
	return loyalty, nil
}

func (r *LoyaltyRepository) UpsertUserLoyalty(ctx context.Context, tx *sql.Tx, loyalty *domain.UserLoyalty) error {
	query := `INSERT INTO user_loyalty (loyalty_id, user_id, points, tier_id)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE
		SET points = EXCLUDED.points, tier_id = EXCLUDED.tier_id, updated_at = CURRENT_TIMESTAMP`

	_, err := tx.ExecContext(ctx, query, loyalty.LoyaltyID, loyalty.UserID, loyalty.Points, loyalty.TierID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return domain.NewError(domain.KindNotFound, "user or tier does not exist")
		}
		return domain.WrapError(domain.KindPersistence, err, "failed to upsert loyalty record")
	}
	return nil
}
