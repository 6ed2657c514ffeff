package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/ridewave/ridewave_rental_service/internal/core/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
)

func newRideRepoWithMock(t *testing.T) (*RideRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	return NewRideRepository(db), mock, func() { db.Close() }
}

func rideRowColumns() []string {
	return []string{
		"ride_id", "user_id", "driver_id", "bike_id", "pickup_location", "dropoff_location",
		"pickup_date", "dropoff_date", "estimated_kms", "insurance_type", "protection_plan",
		"training_requested", "license_number", "riding_experience", "total_price", "security_deposit",
		"loyalty_points_earned", "applied_discount", "refund_amount", "status", "created_at", "updated_at",
	}
}

func addRideRow(rows *sqlmock.Rows, rideID uuid.UUID, status string, pickup, dropoff time.Time) *sqlmock.Rows {
	now := time.Now()
	return rows.AddRow(
		rideID.String(), uuid.New().String(), nil, uuid.New().String(),
		"Moscow, Tverskaya 1", "Moscow, Arbat 10",
		pickup, dropoff, 150, "basic", nil,
		false, "77AB123456", 4, 1575.0, 30000.0,
		150, 0.0, nil, status, now, now,
	)
}

func TestListRidesReturnsEveryRide(t *testing.T) {
	repo, mock, closeFunc := newRideRepoWithMock(t)
	defer closeFunc()

	pickup := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	dropoff := time.Date(2024, 6, 5, 10, 0, 0, 0, time.UTC)
	first := uuid.New()
	second := uuid.New()

	rows := sqlmock.NewRows(rideRowColumns())
	addRideRow(rows, first, "pending", pickup, dropoff)
	addRideRow(rows, second, "completed", pickup.AddDate(0, 0, 7), dropoff.AddDate(0, 0, 7))

	mock.ExpectQuery(`FROM rides ORDER BY pickup_date DESC`).WillReturnRows(rows)

	rides, err := repo.ListRides(context.Background())
	if err != nil {
		t.Fatalf("ListRides: %v", err)
	}
	if len(rides) != 2 {
		t.Fatalf("got %d rides, want 2", len(rides))
	}
	if rides[0].RideID != first || rides[1].RideID != second {
		t.Error("rides returned out of query order")
	}
	if rides[1].Status != domain.RideStatusCompleted {
		t.Errorf("second ride status = %v, want completed", rides[1].Status)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

// Границы включительные: бронь, заканчивающаяся в день начала новой,
// тоже конфликт.
func TestHasOverlappingRideInclusiveBounds(t *testing.T) {
	repo, mock, closeFunc := newRideRepoWithMock(t)
	defer closeFunc()

	bikeID := uuid.New()
	// существующая бронь 1–5 июня, запрос 5–7 июня
	pickup := time.Date(2024, 6, 5, 0, 0, 0, 0, time.UTC)
	dropoff := time.Date(2024, 6, 7, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(`(?s)SELECT EXISTS.*bike_id = \$1.*status != 'cancelled'.*pickup_date <= \$3.*dropoff_date >= \$2`).
		WithArgs(bikeID, pickup, dropoff).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	tx, err := repo.BeginTx(context.Background())
	if err != nil {
		t.Fatalf("BeginTx: %v", err)
	}

	conflict, err := repo.HasOverlappingRide(context.Background(), tx, bikeID, pickup, dropoff)
	if err != nil {
		t.Fatalf("HasOverlappingRide: %v", err)
	}
	if !conflict {
		t.Error("touching date ranges must conflict")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestHasOverlappingRideNoConflict(t *testing.T) {
	repo, mock, closeFunc := newRideRepoWithMock(t)
	defer closeFunc()

	bikeID := uuid.New()
	pickup := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	dropoff := time.Date(2024, 7, 3, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(`(?s)SELECT EXISTS.*pickup_date <= \$3.*dropoff_date >= \$2`).
		WithArgs(bikeID, pickup, dropoff).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	tx, err := repo.BeginTx(context.Background())
	if err != nil {
		t.Fatalf("BeginTx: %v", err)
	}

	conflict, err := repo.HasOverlappingRide(context.Background(), tx, bikeID, pickup, dropoff)
	if err != nil {
		t.Fatalf("HasOverlappingRide: %v", err)
	}
	if conflict {
		t.Error("disjoint date ranges must not conflict")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
