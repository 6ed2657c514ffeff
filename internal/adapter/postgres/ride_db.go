package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/ridewave/ridewave_rental_service/internal/core/domain"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type RideRepository struct {
	db *sql.DB
}

func NewRideRepository(db *sql.DB) *RideRepository {
	return &RideRepository{
		db,
	}
}

func (r *RideRepository) BeginTx(ctx context.Context) (*sql.Tx, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, domain.WrapError(domain.KindPersistence, err, "failed to begin transaction")
	}
	return tx, nil
}

const rideColumns = `ride_id, user_id, driver_id, bike_id, pickup_location, dropoff_location,
	pickup_date, dropoff_date, estimated_kms, insurance_type, protection_plan,
	training_requested, license_number, riding_experience, total_price, security_deposit,
	loyalty_points_earned, applied_discount, refund_amount, status, created_at, updated_at`

func scanRide(row interface{ Scan(...interface{}) error }) (*domain.Ride, error) {
	ride := &domain.Ride{}
	var driverID uuid.NullUUID
	var protectionPlan sql.NullString
	var refundAmount sql.NullFloat64

	err := row.Scan(
		&ride.RideID,
		&ride.UserID,
		&driverID,
		&ride.BikeID,
		&ride.PickupLocation,
		&ride.DropoffLocation,
		&ride.PickupDate,
		&ride.DropoffDate,
		&ride.EstimatedKms,
		&ride.InsuranceType,
		&protectionPlan,
		&ride.TrainingRequested,
		&ride.LicenseNumber,
		&ride.RidingExperience,
		&ride.TotalPrice,
		&ride.SecurityDeposit,
		&ride.LoyaltyPointsEarned,
		&ride.AppliedDiscount,
		&refundAmount,
		&ride.Status,
		&ride.CreatedAt,
		&ride.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if driverID.Valid {
		ride.DriverID = &driverID.UUID
	}
	if protectionPlan.Valid {
		ride.ProtectionPlan = domain.ProtectionPlan(protectionPlan.String)
	}
	if refundAmount.Valid {
		ride.RefundAmount = &refundAmount.Float64
	}
	return ride, nil
}

func (r *RideRepository) GetBikeForUpdate(ctx context.Context, tx *sql.Tx, bikeID uuid.UUID) (*domain.Bike, error) {
	query := `SELECT ` + bikeColumns + ` FROM bikes WHERE bike_id = $1 FOR UPDATE`

	bike, err := scanBike(tx.QueryRowContext(ctx, query, bikeID))
	if err == sql.ErrNoRows {
		return nil, domain.NewError(domain.KindNotFound, "bike not found")
	}
	if err != nil {
		return nil, domain.WrapError(domain.KindPersistence, err, "failed to lock bike")
	}
	return bike, nil
}

// HasOverlappingRide runs the inclusive-bounds overlap test against every
// non-cancelled ride of the bike. Must be called under the bike row lock
// so the check and the insert are one atomic unit.
func (r *RideRepository) HasOverlappingRide(ctx context.Context, tx *sql.Tx, bikeID uuid.UUID, pickup, dropoff time.Time) (bool, error) {
	query := `SELECT EXISTS (
		SELECT 1 FROM rides
		WHERE bike_id = $1
		  AND status != 'cancelled'
		  AND pickup_date <= $3
		  AND dropoff_date >= $2
	)`

	var exists bool
	if err := tx.QueryRowContext(ctx, query, bikeID, pickup, dropoff).Scan(&exists); err != nil {
		return false, domain.WrapError(domain.KindPersistence, err, "failed to check ride overlap")
	}
	return exists, nil
}

func (r *RideRepository) InsertRide(ctx context.Context, tx *sql.Tx, ride *domain.Ride) (*domain.Ride, error) {
	query := `INSERT INTO rides (
		ride_id, user_id, bike_id, pickup_location, dropoff_location,
		pickup_date, dropoff_date, estimated_kms, insurance_type, protection_plan,
		training_requested, license_number, riding_experience, total_price,
		security_deposit, loyalty_points_earned, applied_discount, status
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	RETURNING ride_id, created_at, updated_at`

	var protectionPlan sql.NullString
	if ride.ProtectionPlan != "" {
		protectionPlan = sql.NullString{String: string(ride.ProtectionPlan), Valid: true}
	}

	err := tx.QueryRowContext(ctx, query,
		ride.RideID, ride.UserID, ride.BikeID, ride.PickupLocation, ride.DropoffLocation,
		ride.PickupDate, ride.DropoffDate, ride.EstimatedKms, ride.InsuranceType, protectionPlan,
		ride.TrainingRequested, ride.LicenseNumber, ride.RidingExperience, ride.TotalPrice,
		ride.SecurityDeposit, ride.LoyaltyPointsEarned, ride.AppliedDiscount, ride.Status,
	).Scan(
		&ride.RideID,
		&ride.CreatedAt,
		&ride.UpdatedAt,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Code {
			case "23502":
				return nil, domain.NewError(domain.KindValidationFailed, "required field is missing")
			case "23503":
				return nil, domain.NewError(domain.KindNotFound, "referenced bike or user does not exist")
			}
		}
		return nil, domain.WrapError(domain.KindPersistence, err, "failed to insert ride")
	}
	return ride, nil
}

func (r *RideRepository) InsertRideAccessories(ctx context.Context, tx *sql.Tx, rideID uuid.UUID, accessoryIDs []uuid.UUID) error {
	if len(accessoryIDs) == 0 {
		return nil
	}

	query := `INSERT INTO ride_accessories (ride_id, accessory_id) VALUES ($1, $2)`
	for _, accessoryID := range accessoryIDs {
		if _, err := tx.ExecContext(ctx, query, rideID, accessoryID); err != nil {
			if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
				return domain.NewError(domain.KindNotFound, "accessory does not exist")
			}
			return domain.WrapError(domain.KindPersistence, err, "failed to attach accessory")
		}
	}
	return nil
}

func (r *RideRepository) SetBikeAvailability(ctx context.Context, tx *sql.Tx, bikeID uuid.UUID, available bool) error {
	query := `UPDATE bikes SET is_available = $2, updated_at = CURRENT_TIMESTAMP WHERE bike_id = $1`

	result, err := tx.ExecContext(ctx, query, bikeID, available)
	if err != nil {
		return domain.WrapError(domain.KindPersistence, err, "failed to update bike availability")
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return domain.WrapError(domain.KindPersistence, err, "failed to update bike availability")
	}
	if rowsAffected == 0 {
		return domain.NewError(domain.KindNotFound, "bike not found")
	}
	return nil
}

func (r *RideRepository) GetRideByID(ctx context.Context, rideID uuid.UUID) (*domain.Ride, error) {
	query := `SELECT ` + rideColumns + ` FROM rides WHERE ride_id = $1`

	ride, err := scanRide(r.db.QueryRowContext(ctx, query, rideID))
	if err == sql.ErrNoRows {
		return nil, domain.NewError(domain.KindNotFound, "ride not found")
	}
	if err != nil {
		return nil, domain.WrapError(domain.KindPersistence, err, "failed to get ride")
	}

	accessories, err := r.getRideAccessories(ctx, rideID)
	if err != nil {
		return nil, err
	}
	ride.Accessories = accessories

	return ride, nil
}

func (r *RideRepository) getRideAccessories(ctx context.Context, rideID uuid.UUID) ([]*domain.Accessory, error) {
	query := `SELECT a.accessory_id, a.name, a.description, a.price_per_day, a.image, a.created_at, a.updated_at
		FROM accessories a
		JOIN ride_accessories ra ON ra.accessory_id = a.accessory_id
		WHERE ra.ride_id = $1
		ORDER BY a.name`

	rows, err := r.db.QueryContext(ctx, query, rideID)
	if err != nil {
		return nil, domain.WrapError(domain.KindPersistence, err, "failed to get ride accessories")
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
		return nil, domain.WrapError(domain.KindPersistence, err, "failed to get ride accessories")
	}
	return accessories, nil
}

func (r *RideRepository) GetRideForUpdate(ctx context.Context, tx *sql.Tx, rideID uuid.UUID) (*domain.Ride, error) {
	query := `SELECT ` + rideColumns + ` FROM rides WHERE ride_id = $1 FOR UPDATE`

	ride, err := scanRide(tx.QueryRowContext(ctx, query, rideID))
	if err == sql.ErrNoRows {
		return nil, domain.NewError(domain.KindNotFound, "ride not found")
	}
	if err != nil {
		return nil, domain.WrapError(domain.KindPersistence, err, "failed to lock ride")
	}
	return ride, nil
}

func (r *RideRepository) listRides(ctx context.Context, query string, args ...interface{}) ([]*domain.Ride, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, domain.WrapError(domain.KindPersistence, err, "failed to list rides")
	}
	defer rows.Close()

	var rides []*domain.Ride
	for rows.Next() {
		ride, err := scanRide(rows)
		if err != nil {
			return nil, domain.WrapError(domain.KindPersistence, err, "failed to scan ride")
		}
		rides = append(rides, ride)
	}
	if err = rows.Err(); err != nil {
		return nil, domain.WrapError(domain.KindPersistence, err, "failed to list rides")
	}
	return rides, nil
}

func (r *RideRepository) GetRidesByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Ride, error) {
	query := `SELECT ` + rideColumns + ` FROM rides WHERE user_id = $1 ORDER BY pickup_date DESC`
	return r.listRides(ctx, query, userID)
}

func (r *RideRepository) GetRidesByStatus(ctx context.Context, status domain.RideStatus) ([]*domain.Ride, error) {
	query := `SELECT ` + rideColumns + ` FROM rides WHERE status = $1 ORDER BY pickup_date`
	return r.listRides(ctx, query, status)
}

func (r *RideRepository) ListRides(ctx context.Context) ([]*domain.Ride, error) {
	query := `SELECT ` + rideColumns + ` FROM rides ORDER BY pickup_date DESC`
	return r.listRides(ctx, query)
}

// AcceptRide claims a pending ride for the driver. The status guard in
// the WHERE clause makes the claim race-safe: the second caller sees
// zero rows affected.
func (r *RideRepository) AcceptRide(ctx context.Context, rideID, driverID uuid.UUID) (bool, error) {
	query := `UPDATE rides
		SET status = 'accepted', driver_id = $2, updated_at = CURRENT_TIMESTAMP
		WHERE ride_id = $1 AND status = 'pending'`

	result, err := r.db.ExecContext(ctx, query, rideID, driverID)
	if err != nil {
		return false, domain.WrapError(domain.KindPersistence, err, "failed to accept ride")
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, domain.WrapError(domain.KindPersistence, err, "failed to accept ride")
	}
	return rowsAffected > 0, nil
}

func (r *RideRepository) MarkCancelled(ctx context.Context, tx *sql.Tx, rideID uuid.UUID, refundAmount float64) error {
	query := `UPDATE rides
		SET status = 'cancelled', refund_amount = $2, updated_at = CURRENT_TIMESTAMP
		WHERE ride_id = $1`

	result, err := tx.ExecContext(ctx, query, rideID, refundAmount)
	if err != nil {
		return domain.WrapError(domain.KindPersistence, err, "failed to cancel ride")
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return domain.WrapError(domain.KindPersistence, err, "failed to cancel ride")
	}
	if rowsAffected == 0 {
		return domain.NewError(domain.KindNotFound, "ride not found")
	}
	return nil
}

func (r *RideRepository) MarkCompleted(ctx context.Context, rideID uuid.UUID) (bool, error) {
	query := `UPDATE rides
		SET status = 'completed', updated_at = CURRENT_TIMESTAMP
		WHERE ride_id = $1 AND status = 'accepted'`

	result, err := r.db.ExecContext(ctx, query, rideID)
	if err != nil {
		return false, domain.WrapError(domain.KindPersistence, err, "failed to complete ride")
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, domain.WrapError(domain.KindPersistence, err, "failed to complete ride")
	}
	return rowsAffected > 0, nil
}

func (r *RideRepository) SumRevenue(ctx context.Context) (float64, error) {
	var revenue float64
	query := `SELECT COALESCE(SUM(total_price), 0) FROM rides WHERE status = 'completed'`
	if err := r.db.QueryRowContext(ctx, query).Scan(&revenue); err != nil {
		return 0, domain.WrapError(domain.KindPersistence, err, "failed to sum revenue")
	}
	return revenue, nil
}

func (r *RideRepository) CountRidesByStatus(ctx context.Context, status domain.RideStatus) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM rides WHERE status = $1`
	if err := r.db.QueryRowContext(ctx, query, status).Scan(&count); err != nil {
		return 0, domain.WrapError(domain.KindPersistence, err, "failed to count rides")
	}
	return count, nil
}
