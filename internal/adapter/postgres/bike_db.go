package postgres

import (
	"context"
	"database/sql"

	"github.com/ridewave/ridewave_rental_service/internal/core/domain"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type BikeRepository struct {
	db *sql.DB
}

func NewBikeRepository(db *sql.DB) *BikeRepository {
	return &BikeRepository{
		db,
	}
}

const bikeColumns = `bike_id, name, description, price_per_km, image, engine, power, mileage, type, gallery_images, is_available, min_kms, created_at, updated_at`

func scanBike(row interface{ Scan(...interface{}) error }) (*domain.Bike, error) {
	bike := &domain.Bike{}
	err := row.Scan(
		&bike.BikeID,
		&bike.Name,
		&bike.Description,
		&bike.PricePerKm,
		&bike.Image,
		&bike.Engine,
		&bike.Power,
		&bike.Mileage,
		&bike.Type,
		&bike.GalleryImages,
		&bike.IsAvailable,
		&bike.MinKms,
		&bike.CreatedAt,
		&bike.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return bike, nil
}

func (r *BikeRepository) CreateBike(ctx context.Context, bike *domain.Bike) (*domain.Bike, error) {
	query := `INSERT INTO bikes (bike_id, name, description, price_per_km, image, engine, power, mileage, type, gallery_images, is_available, min_kms)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	RETURNING bike_id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		bike.BikeID, bike.Name, bike.Description, bike.PricePerKm, bike.Image,
		bike.Engine, bike.Power, bike.Mileage, bike.Type, bike.GalleryImages,
		bike.IsAvailable, bike.MinKms,
	).Scan(
		&bike.BikeID,
		&bike.CreatedAt,
		&bike.UpdatedAt,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Code {
			case "23502":
				return nil, domain.NewError(domain.KindValidationFailed, "required field is missing")
			case "23505":
				return nil, domain.NewError(domain.KindValidationFailed, "bike already exists")
			}
		}
		return nil, domain.WrapError(domain.KindPersistence, err, "failed to create bike")
	}
	return bike, nil
}

func (r *BikeRepository) GetBikeByID(ctx context.Context, bikeID uuid.UUID) (*domain.Bike, error) {
	query := `SELECT ` + bikeColumns + ` FROM bikes WHERE bike_id = $1`

	bike, err := scanBike(r.db.QueryRowContext(ctx, query, bikeID))
	if err == sql.ErrNoRows {
		return nil, domain.NewError(domain.KindNotFound, "bike not found")
	}
	if err != nil {
		return nil, domain.WrapError(domain.KindPersistence, err, "failed to get bike")
	}
	return bike, nil
}

func (r *BikeRepository) ListBikes(ctx context.Context, onlyAvailable bool) ([]*domain.Bike, error) {
	query := `SELECT ` + bikeColumns + ` FROM bikes ORDER BY name`
	if onlyAvailable {
		query = `SELECT ` + bikeColumns + ` FROM bikes WHERE is_available = TRUE ORDER BY name`
	}

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, domain.WrapError(domain.KindPersistence, err, "failed to list bikes")
	}
	defer rows.Close()

	var bikes []*domain.Bike
	for rows.Next() {
		bike, err := scanBike(rows)
		if err != nil {
			return nil, domain.WrapError(domain.KindPersistence, err, "failed to scan bike")
		}
		bikes = append(bikes, bike)
	}
	if err = rows.Err(); err != nil {
		return nil, domain.WrapError(domain.KindPersistence, err, "failed to list bikes")
	}
	return bikes, nil
}

func (r *BikeRepository) UpdateBike(ctx context.Context, bike *domain.Bike) (*domain.Bike, error) {
	query := `UPDATE bikes
		SET
			name = COALESCE(NULLIF($1, ''), name),
			description = COALESCE(NULLIF($2, ''), description),
			price_per_km = COALESCE(NULLIF($3, 0.0), price_per_km),
			type = COALESCE(NULLIF($4, ''), type),
			min_kms = COALESCE(NULLIF($5, 0), min_kms),
			is_available = $6,
			updated_at = CURRENT_TIMESTAMP
		WHERE bike_id = $7
		RETURNING ` + bikeColumns

	updated, err := scanBike(r.db.QueryRowContext(ctx, query,
		bike.Name,
		bike.Description,
		bike.PricePerKm,
		string(bike.Type),
		bike.MinKms,
		bike.IsAvailable,
		bike.BikeID,
	))
	if err == sql.ErrNoRows {
		return nil, domain.NewError(domain.KindNotFound, "bike not found")
	}
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23502" {
			return nil, domain.NewError(domain.KindValidationFailed, "required field is missing")
		}
		return nil, domain.WrapError(domain.KindPersistence, err, "failed to update bike")
	}
	return updated, nil
}

func (r *BikeRepository) DeleteBike(ctx context.Context, bikeID uuid.UUID) error {
	query := `DELETE FROM bikes WHERE bike_id = $1`

	result, err := r.db.ExecContext(ctx, query, bikeID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return domain.NewError(domain.KindValidationFailed, "bike has rides and cannot be deleted")
		}
		return domain.WrapError(domain.KindPersistence, err, "failed to delete bike")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return domain.WrapError(domain.KindPersistence, err, "failed to delete bike")
	}
	if rowsAffected == 0 {
		return domain.NewError(domain.KindNotFound, "bike not found")
	}
	return nil
}

func (r *BikeRepository) CountBikes(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM bikes`).Scan(&count); err != nil {
		return 0, domain.WrapError(domain.KindPersistence, err, "failed to count bikes")
	}
	return count, nil
}
