package services

import (
	"context"
	"database/sql"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/ridewave/ridewave_rental_service/internal/core/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type nopLogger struct{}

func (nopLogger) Debug(string, map[string]interface{}) {}
func (nopLogger) Info(string, map[string]interface{})  {}
func (nopLogger) Warn(string, map[string]interface{})  {}
func (nopLogger) Error(string, map[string]interface{}) {}

type fakeBikeRepo struct {
	bikes map[uuid.UUID]*domain.Bike
}

func (f *fakeBikeRepo) CreateBike(_ context.Context, bike *domain.Bike) (*domain.Bike, error) {
	f.bikes[bike.BikeID] = bike
	return bike, nil
}

func (f *fakeBikeRepo) GetBikeByID(_ context.Context, bikeID uuid.UUID) (*domain.Bike, error) {
	bike, ok := f.bikes[bikeID]
	if !ok {
		return nil, domain.NewError(domain.KindNotFound, "bike not found")
	}
	copied := *bike
	return &copied, nil
}

func (f *fakeBikeRepo) ListBikes(_ context.Context, onlyAvailable bool) ([]*domain.Bike, error) {
	var bikes []*domain.Bike
	for _, bike := range f.bikes {
		if !onlyAvailable || bike.IsAvailable {
			bikes = append(bikes, bike)
		}
	}
	return bikes, nil
}

func (f *fakeBikeRepo) UpdateBike(_ context.Context, bike *domain.Bike) (*domain.Bike, error) {
	f.bikes[bike.BikeID] = bike
	return bike, nil
}

func (f *fakeBikeRepo) DeleteBike(_ context.Context, bikeID uuid.UUID) error {
	delete(f.bikes, bikeID)
	return nil
}

func (f *fakeBikeRepo) CountBikes(_ context.Context) (int, error) {
	return len(f.bikes), nil
}

type fakeAccessoryRepo struct {
	accessories map[uuid.UUID]*domain.Accessory
}

func (f *fakeAccessoryRepo) GetAccessoryByID(_ context.Context, id uuid.UUID) (*domain.Accessory, error) {
	acc, ok := f.accessories[id]
	if !ok {
		return nil, domain.NewError(domain.KindNotFound, "accessory not found")
	}
	return acc, nil
}

func (f *fakeAccessoryRepo) GetAccessoriesByIDs(_ context.Context, ids []uuid.UUID) ([]*domain.Accessory, error) {
	var found []*domain.Accessory
	for _, id := range ids {
		if acc, ok := f.accessories[id]; ok {
			found = append(found, acc)
		}
	}
	return found, nil
}

func (f *fakeAccessoryRepo) ListAccessories(_ context.Context) ([]*domain.Accessory, error) {
	var accessories []*domain.Accessory
	for _, acc := range f.accessories {
		accessories = append(accessories, acc)
	}
	return accessories, nil
}

func (f *fakeAccessoryRepo) CreateAccessory(_ context.Context, acc *domain.Accessory) (*domain.Accessory, error) {
	f.accessories[acc.AccessoryID] = acc
	return acc, nil
}

// fakeRideRepo records mutations so tests can assert what the booking
// transaction touched. BeginTx hands out real transactions from sqlmock.
type fakeRideRepo struct {
	db *sql.DB

	bikes        map[uuid.UUID]*domain.Bike
	rides        map[uuid.UUID]*domain.Ride
	overlap      bool
	acceptResult bool

	insertedRides       []*domain.Ride
	insertedAccessories map[uuid.UUID][]uuid.UUID
	availabilityCalls   []bool
	cancelledRides      map[uuid.UUID]float64
	completedRides      []uuid.UUID
}

func newFakeRideRepo(db *sql.DB) *fakeRideRepo {
	return &fakeRideRepo{
		db:                  db,
		bikes:               make(map[uuid.UUID]*domain.Bike),
		rides:               make(map[uuid.UUID]*domain.Ride),
		acceptResult:        true,
		insertedAccessories: make(map[uuid.UUID][]uuid.UUID),
		cancelledRides:      make(map[uuid.UUID]float64),
	}
}

func (f *fakeRideRepo) BeginTx(ctx context.Context) (*sql.Tx, error) {
	return f.db.BeginTx(ctx, nil)
}

func (f *fakeRideRepo) GetBikeForUpdate(_ context.Context, _ *sql.Tx, bikeID uuid.UUID) (*domain.Bike, error) {
	bike, ok := f.bikes[bikeID]
	if !ok {
		return nil, domain.NewError(domain.KindNotFound, "bike not found")
	}
	return bike, nil
}

func (f *fakeRideRepo) HasOverlappingRide(_ context.Context, _ *sql.Tx, _ uuid.UUID, _, _ time.Time) (bool, error) {
	return f.overlap, nil
}

func (f *fakeRideRepo) InsertRide(_ context.Context, _ *sql.Tx, ride *domain.Ride) (*domain.Ride, error) {
	f.insertedRides = append(f.insertedRides, ride)
	f.rides[ride.RideID] = ride
	return ride, nil
}

func (f *fakeRideRepo) InsertRideAccessories(_ context.Context, _ *sql.Tx, rideID uuid.UUID, ids []uuid.UUID) error {
	f.insertedAccessories[rideID] = ids
	return nil
}

func (f *fakeRideRepo) SetBikeAvailability(_ context.Context, _ *sql.Tx, bikeID uuid.UUID, available bool) error {
	f.availabilityCalls = append(f.availabilityCalls, available)
	if bike, ok := f.bikes[bikeID]; ok {
		bike.IsAvailable = available
	}
	return nil
}

func (f *fakeRideRepo) GetRideByID(_ context.Context, rideID uuid.UUID) (*domain.Ride, error) {
	ride, ok := f.rides[rideID]
	if !ok {
		return nil, domain.NewError(domain.KindNotFound, "ride not found")
	}
	return ride, nil
}

func (f *fakeRideRepo) GetRideForUpdate(_ context.Context, _ *sql.Tx, rideID uuid.UUID) (*domain.Ride, error) {
	ride, ok := f.rides[rideID]
	if !ok {
		return nil, domain.NewError(domain.KindNotFound, "ride not found")
	}
	copied := *ride
	return &copied, nil
}

func (f *fakeRideRepo) GetRidesByUserID(_ context.Context, userID uuid.UUID) ([]*domain.Ride, error) {
	var rides []*domain.Ride
	for _, ride := range f.rides {
		if ride.UserID == userID {
			rides = append(rides, ride)
		}
	}
	return rides, nil
}

func (f *fakeRideRepo) GetRidesByStatus(_ context.Context, status domain.RideStatus) ([]*domain.Ride, error) {
	var rides []*domain.Ride
	for _, ride := range f.rides {
		if ride.Status == status {
			rides = append(rides, ride)
		}
	}
	return rides, nil
}

func (f *fakeRideRepo) ListRides(_ context.Context) ([]*domain.Ride, error) {
	var rides []*domain.Ride
	for _, ride := range f.rides {
		rides = append(rides, ride)
	}
	return rides, nil
}

func (f *fakeRideRepo) AcceptRide(_ context.Context, rideID, driverID uuid.UUID) (bool, error) {
	if !f.acceptResult {
		return false, nil
	}
	ride, ok := f.rides[rideID]
	if !ok {
		return false, nil
	}
	ride.Status = domain.RideStatusAccepted
	ride.DriverID = &driverID
	return true, nil
}

func (f *fakeRideRepo) MarkCancelled(_ context.Context, _ *sql.Tx, rideID uuid.UUID, refund float64) error {
	f.cancelledRides[rideID] = refund
	if ride, ok := f.rides[rideID]; ok {
		ride.Status = domain.RideStatusCancelled
		ride.RefundAmount = &refund
		ride.UpdatedAt = time.Now()
	}
	return nil
}

func (f *fakeRideRepo) MarkCompleted(_ context.Context, rideID uuid.UUID) (bool, error) {
	ride, ok := f.rides[rideID]
	if !ok || ride.Status != domain.RideStatusAccepted {
		return false, nil
	}
	ride.Status = domain.RideStatusCompleted
	f.completedRides = append(f.completedRides, rideID)
	return true, nil
}

func (f *fakeRideRepo) SumRevenue(_ context.Context) (float64, error) {
	var total float64
	for _, ride := range f.rides {
		if ride.Status == domain.RideStatusCompleted {
			total += ride.TotalPrice
		}
	}
	return total, nil
}

func (f *fakeRideRepo) CountRidesByStatus(_ context.Context, status domain.RideStatus) (int, error) {
	count := 0
	for _, ride := range f.rides {
		if ride.Status == status {
			count++
		}
	}
	return count, nil
}

// fakeLoyalty serves a fixed tier and records added points.
type fakeLoyalty struct {
	tier        domain.LoyaltyTier
	points      int
	addedPoints []int
}

func (f *fakeLoyalty) CurrentTier(_ context.Context, _ uuid.UUID) (*domain.LoyaltyTier, int, error) {
	tier := f.tier
	return &tier, f.points, nil
}

func (f *fakeLoyalty) AddPoints(_ context.Context, _ *sql.Tx, _ uuid.UUID, amount int) (*domain.UserLoyalty, error) {
	f.addedPoints = append(f.addedPoints, amount)
	f.points += amount
	return &domain.UserLoyalty{Points: f.points, TierID: f.tier.TierID}, nil
}

// fakeSettings serves stored values and falls back to the caller default.
type fakeSettings struct {
	values map[string]string
}

func (f *fakeSettings) Get(_ context.Context, key, defaultValue string) string {
	if v, ok := f.values[key]; ok {
		return v
	}
	return defaultValue
}

func (f *fakeSettings) GetFloat(_ context.Context, key string, defaultValue float64) float64 {
	if v, ok := f.values[key]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func (f *fakeSettings) GetInt(_ context.Context, key string, defaultValue int) int {
	if v, ok := f.values[key]; ok {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func (f *fakeSettings) Set(_ context.Context, key, value, _ string) (*domain.Setting, error) {
	f.values[key] = value
	return &domain.Setting{Key: key, Value: value}, nil
}

func (f *fakeSettings) List(_ context.Context) ([]*domain.Setting, error) {
	var settings []*domain.Setting
	for k, v := range f.values {
		settings = append(settings, &domain.Setting{Key: k, Value: v})
	}
	return settings, nil
}

type bookingFixture struct {
	service   *BookingService
	rideRepo  *fakeRideRepo
	bikeRepo  *fakeBikeRepo
	accRepo   *fakeAccessoryRepo
	loyalty   *fakeLoyalty
	settings  *fakeSettings
	mock      sqlmock.Sqlmock
	bike      *domain.Bike
	userID    uuid.UUID
	closeFunc func()
}

func newBookingFixture(t *testing.T) *bookingFixture {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}

	bike := &domain.Bike{
		BikeID:      uuid.New(),
		Name:        "Yamaha MT-07",
		PricePerKm:  15,
		Type:        domain.Naked,
		IsAvailable: true,
		MinKms:      100,
	}

	bikeRepo := &fakeBikeRepo{bikes: map[uuid.UUID]*domain.Bike{bike.BikeID: bike}}
	accRepo := &fakeAccessoryRepo{accessories: make(map[uuid.UUID]*domain.Accessory)}
	rideRepo := newFakeRideRepo(db)
	rideRepo.bikes[bike.BikeID] = bike

	loyalty := &fakeLoyalty{tier: domain.LoyaltyTier{TierID: uuid.New(), Name: "Bronze", MinPoints: 0, DiscountPercentage: 0}}
	settings := &fakeSettings{values: make(map[string]string)}

	service := NewBookingService(rideRepo, bikeRepo, accRepo, loyalty, settings, nopLogger{}, validator.New())

	return &bookingFixture{
		service:   service,
		rideRepo:  rideRepo,
		bikeRepo:  bikeRepo,
		accRepo:   accRepo,
		loyalty:   loyalty,
		settings:  settings,
		mock:      mock,
		bike:      bike,
		userID:    uuid.New(),
		closeFunc: func() { db.Close() },
	}
}

func (fx *bookingFixture) request() domain.RideRequest {
	return domain.RideRequest{
		UserID:           fx.userID,
		BikeID:           fx.bike.BikeID,
		PickupLocation:   "Moscow, Tverskaya 1",
		DropoffLocation:  "Moscow, Arbat 10",
		PickupDate:       time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
		DropoffDate:      time.Date(2025, 6, 5, 10, 0, 0, 0, time.UTC),
		EstimatedKms:     100,
		InsuranceType:    domain.InsuranceBasic,
		LicenseNumber:    "77AB123456",
		RidingExperience: 4,
	}
}

func TestQuotePricing(t *testing.T) {
	fx := newBookingFixture(t)
	defer fx.closeFunc()

	quote, err := fx.service.Quote(context.Background(), fx.request())
	if err != nil {
		t.Fatalf("Quote: %v", err)
	}

	if quote.BasePrice != 1500 {
		t.Errorf("base price = %v, want 1500", quote.BasePrice)
	}
	if quote.InsuranceCost != 75 {
		t.Errorf("insurance cost = %v, want 75", quote.InsuranceCost)
	}
	if quote.Subtotal != 1575 {
		t.Errorf("subtotal = %v, want 1575", quote.Subtotal)
	}
	if quote.TotalPrice != 1575 {
		t.Errorf("total price = %v, want 1575", quote.TotalPrice)
	}
	if quote.SecurityDeposit != 30000 {
		t.Errorf("security deposit = %v, want 30000", quote.SecurityDeposit)
	}
	if quote.LoyaltyPoints != 150 {
		t.Errorf("loyalty points = %v, want 150", quote.LoyaltyPoints)
	}
}

func TestQuoteAppliesTierDiscount(t *testing.T) {
	fx := newBookingFixture(t)
	defer fx.closeFunc()

	fx.loyalty.tier = domain.LoyaltyTier{TierID: uuid.New(), Name: "Gold", MinPoints: 5000, DiscountPercentage: 10}

	quote, err := fx.service.Quote(context.Background(), fx.request())
	if err != nil {
		t.Fatalf("Quote: %v", err)
	}

	if quote.DiscountAmount != 157.5 {
		t.Errorf("discount amount = %v, want 157.5", quote.DiscountAmount)
	}
	if quote.TotalPrice != 1417.5 {
		t.Errorf("total price = %v, want 1417.5", quote.TotalPrice)
	}
}

func TestQuoteAddsExtras(t *testing.T) {
	fx := newBookingFixture(t)
	defer fx.closeFunc()

	helmet := &domain.Accessory{AccessoryID: uuid.New(), Name: "Helmet", PricePerDay: 300}
	fx.accRepo.accessories[helmet.AccessoryID] = helmet

	req := fx.request()
	req.InsuranceType = domain.InsurancePremium
	req.ProtectionPlan = domain.ProtectionBasic
	req.TrainingRequested = true
	req.AccessoryIDs = []uuid.UUID{helmet.AccessoryID}

	quote, err := fx.service.Quote(context.Background(), req)
	if err != nil {
		t.Fatalf("Quote: %v", err)
	}

	// 1500 base + 150 premium insurance + 45 protection + 300*5 days + 2000 training
	if quote.InsuranceCost != 150 {
		t.Errorf("insurance cost = %v, want 150", quote.InsuranceCost)
	}
	if quote.ProtectionCost != 45 {
		t.Errorf("protection cost = %v, want 45", quote.ProtectionCost)
	}
	if quote.AccessoriesCost != 1500 {
		t.Errorf("accessories cost = %v, want 1500", quote.AccessoriesCost)
	}
	if quote.TrainingCost != 2000 {
		t.Errorf("training cost = %v, want 2000", quote.TrainingCost)
	}
	if quote.Subtotal != 5195 {
		t.Errorf("subtotal = %v, want 5195", quote.Subtotal)
	}
}

func TestCreateRideRejectsBelowMinKms(t *testing.T) {
	fx := newBookingFixture(t)
	defer fx.closeFunc()

	req := fx.request()
	req.EstimatedKms = 50

	_, _, err := fx.service.CreateRide(context.Background(), req)
	if err == nil {
		t.Fatal("expected error for distance below minimum")
	}
	if !domain.IsKind(err, domain.KindValidationFailed) {
		t.Errorf("error kind = %v, want validation_failed", domain.KindOf(err))
	}
	if !strings.Contains(err.Error(), "100") {
		t.Errorf("error should name the threshold, got %q", err.Error())
	}
	if len(fx.rideRepo.insertedRides) != 0 {
		t.Error("no ride should be inserted on a rejected request")
	}
	if len(fx.loyalty.addedPoints) != 0 {
		t.Error("no points should be added on a rejected request")
	}
}

func TestCreateRideRejectsInexperiencedOnSport(t *testing.T) {
	fx := newBookingFixture(t)
	defer fx.closeFunc()

	fx.bike.Type = domain.Sport

	req := fx.request()
	req.RidingExperience = 2

	_, _, err := fx.service.CreateRide(context.Background(), req)
	if err == nil {
		t.Fatal("expected error for insufficient experience")
	}
	if !domain.IsKind(err, domain.KindValidationFailed) {
		t.Errorf("error kind = %v, want validation_failed", domain.KindOf(err))
	}
}

func TestCreateRideCommitsBookingAtomically(t *testing.T) {
	fx := newBookingFixture(t)
	defer fx.closeFunc()

	fx.mock.ExpectBegin()
	fx.mock.ExpectCommit()

	ride, points, err := fx.service.CreateRide(context.Background(), fx.request())
	if err != nil {
		t.Fatalf("CreateRide: %v", err)
	}

	if ride.Status != domain.RideStatusPending {
		t.Errorf("ride status = %v, want pending", ride.Status)
	}
	if ride.TotalPrice != 1575 {
		t.Errorf("total price = %v, want 1575", ride.TotalPrice)
	}
	if points != 150 {
		t.Errorf("points total = %v, want 150", points)
	}
	if len(fx.rideRepo.availabilityCalls) != 1 || fx.rideRepo.availabilityCalls[0] != false {
		t.Errorf("bike availability should be flipped to false, got %v", fx.rideRepo.availabilityCalls)
	}
	if len(fx.loyalty.addedPoints) != 1 || fx.loyalty.addedPoints[0] != 150 {
		t.Errorf("added points = %v, want [150]", fx.loyalty.addedPoints)
	}
	if err := fx.mock.ExpectationsWereMet(); err != nil {
		t.Errorf("transaction expectations: %v", err)
	}
}

func TestCreateRideRejectsOverlap(t *testing.T) {
	fx := newBookingFixture(t)
	defer fx.closeFunc()

	fx.rideRepo.overlap = true
	fx.mock.ExpectBegin()
	fx.mock.ExpectRollback()

	_, _, err := fx.service.CreateRide(context.Background(), fx.request())
	if err == nil {
		t.Fatal("expected error for overlapping reservation")
	}
	if !domain.IsKind(err, domain.KindValidationFailed) {
		t.Errorf("error kind = %v, want validation_failed", domain.KindOf(err))
	}
	if len(fx.rideRepo.insertedRides) != 0 {
		t.Error("no ride should be inserted when dates overlap")
	}
	if err := fx.mock.ExpectationsWereMet(); err != nil {
		t.Errorf("transaction expectations: %v", err)
	}
}

func TestCreateRideRejectsUnavailableBikeUnderLock(t *testing.T) {
	fx := newBookingFixture(t)
	defer fx.closeFunc()

	// доступен при первой проверке, занят под блокировкой
	locked := *fx.bike
	locked.IsAvailable = false
	fx.rideRepo.bikes[fx.bike.BikeID] = &locked

	fx.mock.ExpectBegin()
	fx.mock.ExpectRollback()

	_, _, err := fx.service.CreateRide(context.Background(), fx.request())
	if err == nil {
		t.Fatal("expected error for unavailable bike")
	}
	if len(fx.rideRepo.insertedRides) != 0 {
		t.Error("no ride should be inserted for an unavailable bike")
	}
}

func seedRide(fx *bookingFixture, status domain.RideStatus) *domain.Ride {
	ride := &domain.Ride{
		RideID:     uuid.New(),
		UserID:     fx.userID,
		BikeID:     fx.bike.BikeID,
		TotalPrice: 1575,
		Status:     status,
	}
	fx.rideRepo.rides[ride.RideID] = ride
	return ride
}

func TestAcceptRideRequiresDriver(t *testing.T) {
	fx := newBookingFixture(t)
	defer fx.closeFunc()

	ride := seedRide(fx, domain.RideStatusPending)
	actor := &domain.TokenPayload{UserID: uuid.New(), Role: domain.AppUser}

	_, err := fx.service.AcceptRide(context.Background(), ride.RideID, actor)
	if !domain.IsKind(err, domain.KindPermissionDenied) {
		t.Errorf("error kind = %v, want permission_denied", domain.KindOf(err))
	}
}

func TestAcceptRideClaimsPendingRide(t *testing.T) {
	fx := newBookingFixture(t)
	defer fx.closeFunc()

	ride := seedRide(fx, domain.RideStatusPending)
	driver := &domain.TokenPayload{UserID: uuid.New(), Role: domain.Driver}

	accepted, err := fx.service.AcceptRide(context.Background(), ride.RideID, driver)
	if err != nil {
		t.Fatalf("AcceptRide: %v", err)
	}
	if accepted.Status != domain.RideStatusAccepted {
		t.Errorf("ride status = %v, want accepted", accepted.Status)
	}
	if accepted.DriverID == nil || *accepted.DriverID != driver.UserID {
		t.Errorf("driver id not recorded on the ride")
	}

	// вторая попытка уже не pending
	other := &domain.TokenPayload{UserID: uuid.New(), Role: domain.Driver}
	if _, err := fx.service.AcceptRide(context.Background(), ride.RideID, other); err == nil {
		t.Error("second claim should fail")
	}
}

func TestCancelRideRefundsWithFee(t *testing.T) {
	fx := newBookingFixture(t)
	defer fx.closeFunc()

	ride := seedRide(fx, domain.RideStatusPending)
	fx.bike.IsAvailable = false

	fx.mock.ExpectBegin()
	fx.mock.ExpectCommit()

	actor := &domain.TokenPayload{UserID: fx.userID, Role: domain.AppUser}
	cancelled, err := fx.service.CancelRide(context.Background(), ride.RideID, actor)
	if err != nil {
		t.Fatalf("CancelRide: %v", err)
	}

	if cancelled.Status != domain.RideStatusCancelled {
		t.Errorf("ride status = %v, want cancelled", cancelled.Status)
	}
	// комиссия 20% по умолчанию
	if cancelled.RefundAmount == nil || *cancelled.RefundAmount != 1260 {
		t.Errorf("refund = %v, want 1260", cancelled.RefundAmount)
	}
	if !fx.rideRepo.bikes[fx.bike.BikeID].IsAvailable {
		t.Error("bike should be released on cancellation")
	}
}

func TestCancelRideReturnsStoredRide(t *testing.T) {
	fx := newBookingFixture(t)
	defer fx.closeFunc()

	ride := seedRide(fx, domain.RideStatusPending)
	ride.UpdatedAt = time.Now().Add(-time.Hour)

	fx.mock.ExpectBegin()
	fx.mock.ExpectCommit()

	actor := &domain.TokenPayload{UserID: fx.userID, Role: domain.AppUser}
	cancelled, err := fx.service.CancelRide(context.Background(), ride.RideID, actor)
	if err != nil {
		t.Fatalf("CancelRide: %v", err)
	}

	// ответ должен отражать строку после коммита, а не снимок до обновления
	stored := fx.rideRepo.rides[ride.RideID]
	if !cancelled.UpdatedAt.Equal(stored.UpdatedAt) {
		t.Errorf("updated_at = %v, want stored %v", cancelled.UpdatedAt, stored.UpdatedAt)
	}
	if !cancelled.UpdatedAt.After(time.Now().Add(-time.Minute)) {
		t.Error("updated_at should advance on cancellation")
	}
}

func TestCancelRideUsesConfiguredFee(t *testing.T) {
	fx := newBookingFixture(t)
	defer fx.closeFunc()

	fx.settings.values[domain.SettingCancellationFee] = "50"
	ride := seedRide(fx, domain.RideStatusPending)

	fx.mock.ExpectBegin()
	fx.mock.ExpectCommit()

	actor := &domain.TokenPayload{UserID: fx.userID, Role: domain.AppUser}
	cancelled, err := fx.service.CancelRide(context.Background(), ride.RideID, actor)
	if err != nil {
		t.Fatalf("CancelRide: %v", err)
	}
	if cancelled.RefundAmount == nil || *cancelled.RefundAmount != 787.5 {
		t.Errorf("refund = %v, want 787.5", cancelled.RefundAmount)
	}
}

func TestCancelRideDeniedForStranger(t *testing.T) {
	fx := newBookingFixture(t)
	defer fx.closeFunc()

	ride := seedRide(fx, domain.RideStatusPending)

	fx.mock.ExpectBegin()
	fx.mock.ExpectRollback()

	stranger := &domain.TokenPayload{UserID: uuid.New(), Role: domain.AppUser}
	_, err := fx.service.CancelRide(context.Background(), ride.RideID, stranger)
	if !domain.IsKind(err, domain.KindPermissionDenied) {
		t.Errorf("error kind = %v, want permission_denied", domain.KindOf(err))
	}
}

func TestCancelRideRejectsTerminal(t *testing.T) {
	fx := newBookingFixture(t)
	defer fx.closeFunc()

	ride := seedRide(fx, domain.RideStatusCompleted)

	fx.mock.ExpectBegin()
	fx.mock.ExpectRollback()

	actor := &domain.TokenPayload{UserID: fx.userID, Role: domain.Admin}
	_, err := fx.service.CancelRide(context.Background(), ride.RideID, actor)
	if !domain.IsKind(err, domain.KindAlreadyTerminal) {
		t.Errorf("error kind = %v, want already_terminal", domain.KindOf(err))
	}
}

func TestCompleteRideAdminOnly(t *testing.T) {
	fx := newBookingFixture(t)
	defer fx.closeFunc()

	ride := seedRide(fx, domain.RideStatusAccepted)

	user := &domain.TokenPayload{UserID: fx.userID, Role: domain.AppUser}
	if _, err := fx.service.CompleteRide(context.Background(), ride.RideID, user); !domain.IsKind(err, domain.KindPermissionDenied) {
		t.Errorf("error kind = %v, want permission_denied", domain.KindOf(err))
	}

	admin := &domain.TokenPayload{UserID: uuid.New(), Role: domain.Admin}
	completed, err := fx.service.CompleteRide(context.Background(), ride.RideID, admin)
	if err != nil {
		t.Fatalf("CompleteRide: %v", err)
	}
	if completed.Status != domain.RideStatusCompleted {
		t.Errorf("ride status = %v, want completed", completed.Status)
	}
}

func TestCompleteRideRequiresAccepted(t *testing.T) {
	fx := newBookingFixture(t)
	defer fx.closeFunc()

	ride := seedRide(fx, domain.RideStatusPending)

	admin := &domain.TokenPayload{UserID: uuid.New(), Role: domain.Admin}
	_, err := fx.service.CompleteRide(context.Background(), ride.RideID, admin)
	if !domain.IsKind(err, domain.KindValidationFailed) {
		t.Errorf("error kind = %v, want validation_failed", domain.KindOf(err))
	}
}
