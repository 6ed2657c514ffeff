package postgres

import (
	"context"
	"database/sql"

	"github.com/ridewave/ridewave_rental_service/internal/core/domain"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type AccessoryRepository struct {
	db *sql.DB
}

func NewAccessoryRepository(db *sql.DB) *AccessoryRepository {
	return &AccessoryRepository{
		db,
	}
}

const accessoryColumns = `accessory_id, name, description, price_per_day, image, created_at, updated_at`

func scanAccessory(row interface{ Scan(...interface{}) error }) (*domain.Accessory, error) {
	acc := &domain.Accessory{}
	err := row.Scan(
		&acc.AccessoryID,
		&acc.Name,
		&acc.Description,
		&acc.PricePerDay,
		&acc.Image,
		&acc.CreatedAt,
		&acc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return acc, nil
}

func (r *AccessoryRepository) GetAccessoryByID(ctx context.Context, accessoryID uuid.UUID) (*domain.Accessory, error) {
	query := `SELECT ` + accessoryColumns + ` FROM accessories WHERE accessory_id = $1`

	acc, err := scanAccessory(r.db.QueryRowContext(ctx, query, accessoryID))
	if err == sql.ErrNoRows {
		return nil, domain.NewError(domain.KindNotFound, "accessory not found")
	}
	if err != nil {
		return nil, domain.WrapError(domain.KindPersistence, err, "failed to get accessory")
	}
	return acc, nil
}

func (r *AccessoryRepository) GetAccessoriesByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Accessory, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `SELECT ` + accessoryColumns + ` FROM accessories WHERE accessory_id = ANY($1)`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, domain.WrapError(domain.KindPersistence, err, "failed to get accessories")
	}
	defer rows.Close()

	var accessories []*domain.Accessory
	for rows.Next() {
		acc, err := scanAccessory(rows)
		if err != nil {
			return nil, domain.WrapError(domain.KindPersistence, err, "failed to scan accessory")
		}
		accessories = append(accessories, acc)
	}
	if err = rows.Err(); err != nil {
		return nil, domain.WrapError(domain.KindPersistence, err, "failed to get accessories")
	}
	return accessories, nil
}

func (r *AccessoryRepository) ListAccessories(ctx context.Context) ([]*domain.Accessory, error) {
	query := `SELECT ` + accessoryColumns + ` FROM accessories ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, domain.WrapError(domain.KindPersistence, err, "failed to list accessories")
	}
	defer rows.Close()

	var accessories []*domain.Accessory
	for rows.Next() {
		acc, err := scanAccessory(rows)
		if err != nil {
			return nil, domain.WrapError(domain.KindPersistence, err, "failed to scan accessory")
		}
		accessories = append(accessories, acc)
	}
	if err = rows.Err(); err != nil {
		return nil, domain.WrapError(domain.KindPersistence, err, "failed to list accessories")
	}
	return accessories, nil
}

func (r *AccessoryRepository) CreateAccessory(ctx context.Context, accessory *domain.Accessory) (*domain.Accessory, error) {
	query := `INSERT INTO accessories (accessory_id, name, description, price_per_day, image)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING accessory_id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		accessory.AccessoryID, accessory.Name, accessory.Description,
		accessory.PricePerDay, accessory.Image,
	).Scan(
		&accessory.AccessoryID,
		&accessory.CreatedAt,
		&accessory.UpdatedAt,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23502" {
			return nil, domain.NewError(domain.KindValidationFailed, "required field is missing")
		}
		return nil, domain.WrapError(domain.KindPersistence, err, "failed to create accessory")
	}
	return accessory, nil
}
