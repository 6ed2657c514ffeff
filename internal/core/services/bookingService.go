package services

import (
	"context"
	"math"

	"github.com/ridewave/ridewave_rental_service/internal/core/domain"
	"github.com/ridewave/ridewave_rental_service/internal/core/ports"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// BookingService is the booking engine: it validates a reservation
// request, prices it, and commits ride + availability + loyalty as one
// transaction. The overlap check is re-evaluated under the bike row lock
// so two concurrent bookings for the same bike cannot both succeed.
type BookingService struct {
	rideRepo      ports.RideRepository
	bikeRepo      ports.BikeRepository
	accessoryRepo ports.AccessoryRepository
	loyalty       ports.LoyaltyService
	settings      ports.SettingsService
	logger        ports.LoggerPort
	validate      *validator.Validate
}

func NewBookingService(
	rideRepo ports.RideRepository,
	bikeRepo ports.BikeRepository,
	accessoryRepo ports.AccessoryRepository,
	loyalty ports.LoyaltyService,
	settings ports.SettingsService,
	logger ports.LoggerPort,
	validate *validator.Validate,
) *BookingService {
	return &BookingService{
		rideRepo:      rideRepo,
		bikeRepo:      bikeRepo,
		accessoryRepo: accessoryRepo,
		loyalty:       loyalty,
		settings:      settings,
		logger:        logger,
		validate:      validate,
	}
}

// validateRequest applies the booking rules in order, failing fast with
// the violated rule and its threshold in the error.
func (s *BookingService) validateRequest(bike *domain.Bike, req domain.RideRequest) error {
	if !bike.IsAvailable {
		return domain.NewError(domain.KindValidationFailed, "bike %q is not available", bike.Name)
	}
	if req.EstimatedKms < bike.MinKms {
		return domain.NewError(domain.KindValidationFailed,
			"minimum booking distance is %d kilometers", bike.MinKms)
	}
	if minExp := bike.Type.MinExperienceYears(); req.RidingExperience < minExp {
		return domain.NewError(domain.KindValidationFailed,
			"minimum %d years of riding experience required for %s bikes", minExp, bike.Type)
	}
	if !req.DropoffDate.After(req.PickupDate) {
		return domain.NewError(domain.KindValidationFailed, "dropoff date must be after pickup date")
	}
	return nil
}

// buildQuote computes the price breakdown for an already validated request.
func (s *BookingService) buildQuote(ctx context.Context, bike *domain.Bike, req domain.RideRequest, accessories []*domain.Accessory) *domain.Quote {
	duration := req.DurationDays()

	q := &domain.Quote{}
	q.BasePrice = bike.PricePerKm * float64(req.EstimatedKms)
	q.InsuranceCost = q.BasePrice * req.InsuranceType.Rate()
	q.ProtectionCost = q.BasePrice * req.ProtectionPlan.Rate()
	for _, acc := range accessories {
		q.AccessoriesCost += acc.PricePerDay * float64(duration)
	}
	if req.TrainingRequested {
		q.TrainingCost = domain.TrainingFee
	}
	q.Subtotal = q.BasePrice + q.InsuranceCost + q.ProtectionCost + q.AccessoriesCost + q.TrainingCost

	tier, _, err := s.loyalty.CurrentTier(ctx, req.UserID)
	if err != nil {
		s.logger.Warn("Failed to resolve loyalty tier, pricing without discount", map[string]interface{}{
			"error":   err.Error(),
			"user_id": req.UserID,
		})
	} else if tier != nil {
		q.DiscountPercentage = tier.DiscountPercentage
	}
	q.DiscountAmount = q.Subtotal * q.DiscountPercentage / 100
	q.TotalPrice = q.Subtotal - q.DiscountAmount

	q.SecurityDeposit = s.settings.GetFloat(ctx, domain.SettingSecurityDeposit, bike.Type.DefaultDeposit())

	pointsPer100 := s.settings.GetInt(ctx, domain.SettingPointsPer100, domain.DefaultPointsPer100)
	q.LoyaltyPoints = int(math.Floor(q.TotalPrice/100)) * pointsPer100

	return q
}

// Quote validates and prices a request without any side effects.
func (s *BookingService) Quote(ctx context.Context, req domain.RideRequest) (*domain.Quote, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, domain.WrapError(domain.KindValidationFailed, err, "invalid booking request")
	}

	bike, err := s.bikeRepo.GetBikeByID(ctx, req.BikeID)
	if err != nil {
		return nil, err
	}
	if err := s.validateRequest(bike, req); err != nil {
		return nil, err
	}

	accessories, err := s.fetchAccessories(ctx, req.AccessoryIDs)
	if err != nil {
		return nil, err
	}

	return s.buildQuote(ctx, bike, req, accessories), nil
}

func (s *BookingService) fetchAccessories(ctx context.Context, ids []uuid.UUID) ([]*domain.Accessory, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	accessories, err := s.accessoryRepo.GetAccessoriesByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(accessories) != len(ids) {
		return nil, domain.NewError(domain.KindNotFound, "one or more accessories do not exist")
	}
	return accessories, nil
}

// CreateRide runs the full booking: validate, price, then commit the
// ride, the availability flip and the loyalty update atomically. Returns
// the persisted ride and the requester's updated point total.
func (s *BookingService) CreateRide(ctx context.Context, req domain.RideRequest) (*domain.Ride, int, error) {
	if err := s.validate.Struct(req); err != nil {
		s.logger.Warn("Invalid booking request", map[string]interface{}{
			"error":   err.Error(),
			"user_id": req.UserID,
		})
		return nil, 0, domain.WrapError(domain.KindValidationFailed, err, "invalid booking request")
	}

	bike, err := s.bikeRepo.GetBikeByID(ctx, req.BikeID)
	if err != nil {
		return nil, 0, err
	}
	if err := s.validateRequest(bike, req); err != nil {
		s.logger.Warn("Booking request rejected", map[string]interface{}{
			"reason":  err.Error(),
			"bike_id": req.BikeID,
			"user_id": req.UserID,
		})
		return nil, 0, err
	}

	accessories, err := s.fetchAccessories(ctx, req.AccessoryIDs)
	if err != nil {
		return nil, 0, err
	}

	quote := s.buildQuote(ctx, bike, req, accessories)

	tx, err := s.rideRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error("Failed to begin transaction", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, 0, domain.WrapError(domain.KindPersistence, err, "failed to begin transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	// перепроверяем доступность и пересечения уже под блокировкой строки
	lockedBike, err := s.rideRepo.GetBikeForUpdate(ctx, tx, req.BikeID)
	if err != nil {
		return nil, 0, err
	}
	if !lockedBike.IsAvailable {
		err = domain.NewError(domain.KindValidationFailed, "bike %q is not available", lockedBike.Name)
		return nil, 0, err
	}

	overlap, err := s.rideRepo.HasOverlappingRide(ctx, tx, req.BikeID, req.PickupDate, req.DropoffDate)
	if err != nil {
		return nil, 0, err
	}
	if overlap {
		err = domain.NewError(domain.KindValidationFailed,
			"bike is already reserved between %s and %s",
			req.PickupDate.Format("2006-01-02"), req.DropoffDate.Format("2006-01-02"))
		return nil, 0, err
	}

	ride := &domain.Ride{
		RideID:              uuid.New(),
		UserID:              req.UserID,
		BikeID:              req.BikeID,
		PickupLocation:      req.PickupLocation,
		DropoffLocation:     req.DropoffLocation,
		PickupDate:          req.PickupDate,
		DropoffDate:         req.DropoffDate,
		EstimatedKms:        req.EstimatedKms,
		InsuranceType:       req.InsuranceType,
		ProtectionPlan:      req.ProtectionPlan,
		TrainingRequested:   req.TrainingRequested,
		LicenseNumber:       req.LicenseNumber,
		RidingExperience:    req.RidingExperience,
		Accessories:         accessories,
		TotalPrice:          quote.TotalPrice,
		SecurityDeposit:     quote.SecurityDeposit,
		LoyaltyPointsEarned: quote.LoyaltyPoints,
		AppliedDiscount:     quote.DiscountAmount,
		Status:              domain.RideStatusPending,
	}

	createdRide, err := s.rideRepo.InsertRide(ctx, tx, ride)
	if err != nil {
		s.logger.Error("Failed to insert ride", map[string]interface{}{
			"error":   err.Error(),
			"bike_id": req.BikeID,
		})
		return nil, 0, err
	}

	if err = s.rideRepo.InsertRideAccessories(ctx, tx, createdRide.RideID, req.AccessoryIDs); err != nil {
		return nil, 0, err
	}

	if err = s.rideRepo.SetBikeAvailability(ctx, tx, req.BikeID, false); err != nil {
		return nil, 0, err
	}

	loyalty, err := s.loyalty.AddPoints(ctx, tx, req.UserID, quote.LoyaltyPoints)
	if err != nil {
		return nil, 0, err
	}

	if err = tx.Commit(); err != nil {
		s.logger.Error("Failed to commit booking transaction", map[string]interface{}{
			"error":   err.Error(),
			"ride_id": createdRide.RideID,
		})
		return nil, 0, domain.WrapError(domain.KindPersistence, err, "failed to commit booking")
	}

	s.logger.Info("Ride booked successfully", map[string]interface{}{
		"ride_id":       createdRide.RideID,
		"bike_id":       req.BikeID,
		"user_id":       req.UserID,
		"total_price":   quote.TotalPrice,
		"points_earned": quote.LoyaltyPoints,
	})

	return createdRide, loyalty.Points, nil
}

// AcceptRide transitions a pending ride to accepted, assigning the
// driver. Only actors with driver capability may claim rides.
func (s *BookingService) AcceptRide(ctx context.Context, rideID uuid.UUID, actor *domain.TokenPayload) (*domain.Ride, error) {
	if actor.Role != domain.Driver && actor.Role != domain.Admin {
		return nil, domain.NewError(domain.KindPermissionDenied, "driver capability required to accept rides")
	}

	ride, err := s.rideRepo.GetRideByID(ctx, rideID)
	if err != nil {
		return nil, err
	}
	if ride.Status.IsTerminal() {
		return nil, domain.NewError(domain.KindAlreadyTerminal, "ride is already %s", ride.Status)
	}
	if ride.Status != domain.RideStatusPending {
		return nil, domain.NewError(domain.KindValidationFailed, "ride is not pending (status %s)", ride.Status)
	}

	accepted, err := s.rideRepo.AcceptRide(ctx, rideID, actor.UserID)
	if err != nil {
		s.logger.Error("Failed to accept ride", map[string]interface{}{
			"error":   err.Error(),
			"ride_id": rideID,
		})
		return nil, err
	}
	if !accepted {
		// кто-то успел раньше
		return nil, domain.NewError(domain.KindValidationFailed, "ride is no longer pending")
	}

	s.logger.Info("Ride accepted", map[string]interface{}{
		"ride_id":   rideID,
		"driver_id": actor.UserID,
	})

	return s.rideRepo.GetRideByID(ctx, rideID)
}

// CancelRide transitions a pending or accepted ride to cancelled,
// computes the refund with the configured cancellation fee and releases
// the bike. Allowed to the requester and to admins.
func (s *BookingService) CancelRide(ctx context.Context, rideID uuid.UUID, actor *domain.TokenPayload) (*domain.Ride, error) {
	tx, err := s.rideRepo.BeginTx(ctx)
	if err != nil {
		return nil, domain.WrapError(domain.KindPersistence, err, "failed to begin transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	ride, err := s.rideRepo.GetRideForUpdate(ctx, tx, rideID)
	if err != nil {
		return nil, err
	}

	if actor.Role != domain.Admin && ride.UserID != actor.UserID {
		err = domain.NewError(domain.KindPermissionDenied, "only the requester or an admin can cancel a ride")
		return nil, err
	}
	if ride.Status.IsTerminal() {
		err = domain.NewError(domain.KindAlreadyTerminal, "ride is already %s", ride.Status)
		return nil, err
	}

	fee := s.settings.GetFloat(ctx, domain.SettingCancellationFee, domain.DefaultCancellationFee)
	refund := ride.TotalPrice * (1 - fee/100)

	if err = s.rideRepo.MarkCancelled(ctx, tx, rideID, refund); err != nil {
		return nil, err
	}
	if err = s.rideRepo.SetBikeAvailability(ctx, tx, ride.BikeID, true); err != nil {
		return nil, err
	}
	if err = tx.Commit(); err != nil {
		return nil, domain.WrapError(domain.KindPersistence, err, "failed to commit cancellation")
	}

	s.logger.Info("Ride cancelled", map[string]interface{}{
		"ride_id":       rideID,
		"refund_amount": refund,
		"cancelled_by":  actor.UserID,
	})

	return s.rideRepo.GetRideByID(ctx, rideID)
}

// CompleteRide closes an accepted ride at the end of the rental period.
// Back-office operation; the bike stays unavailable until released by an
// admin through the catalog.
func (s *BookingService) CompleteRide(ctx context.Context, rideID uuid.UUID, actor *domain.TokenPayload) (*domain.Ride, error) {
	if actor.Role != domain.Admin {
		return nil, domain.NewError(domain.KindPermissionDenied, "admin privileges required")
	}

	ride, err := s.rideRepo.GetRideByID(ctx, rideID)
	if err != nil {
		return nil, err
	}
	if ride.Status.IsTerminal() {
		return nil, domain.NewError(domain.KindAlreadyTerminal, "ride is already %s", ride.Status)
	}
	if ride.Status != domain.RideStatusAccepted {
		return nil, domain.NewError(domain.KindValidationFailed, "only accepted rides can be completed (status %s)", ride.Status)
	}

	completed, err := s.rideRepo.MarkCompleted(ctx, rideID)
	if err != nil {
		return nil, err
	}
	if !completed {
		return nil, domain.NewError(domain.KindValidationFailed, "ride is no longer accepted")
	}

	s.logger.Info("Ride completed", map[string]interface{}{
		"ride_id": rideID,
	})

	return s.rideRepo.GetRideByID(ctx, rideID)
}

func (s *BookingService) GetRideByID(ctx context.Context, rideID string) (*domain.Ride, error) {
	rideUUID, err := uuid.Parse(rideID)
	if err != nil {
		return nil, domain.NewError(domain.KindValidationFailed, "invalid ride ID")
	}
	return s.rideRepo.GetRideByID(ctx, rideUUID)
}

func (s *BookingService) GetRidesByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Ride, error) {
	return s.rideRepo.GetRidesByUserID(ctx, userID)
}

func (s *BookingService) GetPendingRides(ctx context.Context) ([]*domain.Ride, error) {
	return s.rideRepo.GetRidesByStatus(ctx, domain.RideStatusPending)
}

func (s *BookingService) GetCompletedRides(ctx context.Context) ([]*domain.Ride, error) {
	return s.rideRepo.GetRidesByStatus(ctx, domain.RideStatusCompleted)
}

func (s *BookingService) ListRides(ctx context.Context) ([]*domain.Ride, error) {
	return s.rideRepo.ListRides(ctx)
}

func (s *BookingService) CountRidesByStatus(ctx context.Context, status domain.RideStatus) (int, error) {
	return s.rideRepo.CountRidesByStatus(ctx, status)
}

// TotalRevenue sums the total price of completed rides.
func (s *BookingService) TotalRevenue(ctx context.Context) (float64, error) {
	return s.rideRepo.SumRevenue(ctx)
}
