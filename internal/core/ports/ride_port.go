package ports

import (
	"context"
	"database/sql"
	"time"

	"github.com/ridewave/ridewave_rental_service/internal/core/domain"

	"github.com/google/uuid"
)

// RideRepository exposes the transactional surface the booking engine
// needs: creating a ride, flipping availability and updating loyalty must
// commit or roll back as one unit, and the overlap re-check runs under
// the bike row lock taken inside the same transaction.
type RideRepository interface {
	BeginTx(ctx context.Context) (*sql.Tx, error)

	GetBikeForUpdate(ctx context.Context, tx *sql.Tx, bikeID uuid.UUID) (*domain.Bike, error)
	HasOverlappingRide(ctx context.Context, tx *sql.Tx, bikeID uuid.UUID, pickup, dropoff time.Time) (bool, error)
	InsertRide(ctx context.Context, tx *sql.Tx, ride *domain.Ride) (*domain.Ride, error)
	InsertRideAccessories(ctx context.Context, tx *sql.Tx, rideID uuid.UUID, accessoryIDs []uuid.UUID) error
	SetBikeAvailability(ctx context.Context, tx *sql.Tx, bikeID uuid.UUID, available bool) error

	GetRideByID(ctx context.Context, rideID uuid.UUID) (*domain.Ride, error)
	GetRideForUpdate(ctx context.Context, tx *sql.Tx, rideID uuid.UUID) (*domain.Ride, error)
	GetRidesByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Ride, error)
	GetRidesByStatus(ctx context.Context, status domain.RideStatus) ([]*domain.Ride, error)
	ListRides(ctx context.Context) ([]*domain.Ride, error)

	AcceptRide(ctx context.Context, rideID, driverID uuid.UUID) (bool, error)
	MarkCancelled(ctx context.Context, tx *sql.Tx, rideID uuid.UUID, refundAmount float64) error
	MarkCompleted(ctx context.Context, rideID uuid.UUID) (bool, error)

	SumRevenue(ctx context.Context) (float64, error)
	CountRidesByStatus(ctx context.Context, status domain.RideStatus) (int, error)
}

type BookingService interface {
	Quote(ctx context.Context, req domain.RideRequest) (*domain.Quote, error)
	CreateRide(ctx context.Context, req domain.RideRequest) (*domain.Ride, int, error)
	AcceptRide(ctx context.Context, rideID uuid.UUID, actor *domain.TokenPayload) (*domain.Ride, error)
	CancelRide(ctx context.Context, rideID uuid.UUID, actor *domain.TokenPayload) (*domain.Ride, error)
	CompleteRide(ctx context.Context, rideID uuid.UUID, actor *domain.TokenPayload) (*domain.Ride, error)
	GetRideByID(ctx context.Context, rideID string) (*domain.Ride, error)
	GetRidesByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Ride, error)
	GetPendingRides(ctx context.Context) ([]*domain.Ride, error)
	GetCompletedRides(ctx context.Context) ([]*domain.Ride, error)
	ListRides(ctx context.Context) ([]*domain.Ride, error)
}
