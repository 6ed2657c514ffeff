package http

import (
	"net/http"
	"time"

	"github.com/ridewave/ridewave_rental_service/internal/core/domain"
	"github.com/ridewave/ridewave_rental_service/internal/core/ports"
	"github.com/ridewave/ridewave_rental_service/internal/core/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BookingHandler struct {
	bookingService *services.BookingService
	logger         ports.LoggerPort
	metrics        ports.MetricsPort
}

func NewBookingHandler(
	bookingService *services.BookingService,
	logger ports.LoggerPort,
	metrics ports.MetricsPort,
) *BookingHandler {
	return &BookingHandler{
		bookingService: bookingService,
		logger:         logger,
		metrics:        metrics,
	}
}

type BookingRequest struct {
	BikeID            uuid.UUID   `json:"bike_id" binding:"required"`
	PickupLocation    string      `json:"pickup_location" binding:"required" example:"Moscow, Tverskaya 1"`
	DropoffLocation   string      `json:"dropoff_location" binding:"required" example:"Moscow, Arbat 10"`
	PickupDate        time.Time   `json:"pickup_date" binding:"required" example:"2025-06-01T10:00:00Z"`
	DropoffDate       time.Time   `json:"dropoff_date" binding:"required" example:"2025-06-05T10:00:00Z"`
	EstimatedKms      int         `json:"estimated_kms" binding:"required,min=1" example:"250"`
	InsuranceType     string      `json:"insurance_type" binding:"required" example:"basic"`
	ProtectionPlan    string      `json:"protection_plan,omitempty" example:"premium"`
	TrainingRequested bool        `json:"training_requested,omitempty"`
	LicenseNumber     string      `json:"license_number" binding:"required" example:"77AB123456"`
	RidingExperience  int         `json:"riding_experience" binding:"min=0" example:"4"`
	AccessoryIDs      []uuid.UUID `json:"accessory_ids,omitempty"`
}

type AccessoryInfo struct {
	AccessoryID uuid.UUID `json:"accessory_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	PricePerDay float64   `json:"price_per_day"`
	Image       string    `json:"image,omitempty"`
}

type RideInfo struct {
	RideID              uuid.UUID       `json:"ride_id"`
	UserID              uuid.UUID       `json:"user_id"`
	DriverID            *uuid.UUID      `json:"driver_id,omitempty"`
	BikeID              uuid.UUID       `json:"bike_id"`
	PickupLocation      string          `json:"pickup_location"`
	DropoffLocation     string          `json:"dropoff_location"`
	PickupDate          time.Time       `json:"pickup_date"`
	DropoffDate         time.Time       `json:"dropoff_date"`
	EstimatedKms        int             `json:"estimated_kms"`
	InsuranceType       string          `json:"insurance_type"`
	ProtectionPlan      string          `json:"protection_plan,omitempty"`
	TrainingRequested   bool            `json:"training_requested"`
	Accessories         []AccessoryInfo `json:"accessories,omitempty"`
	TotalPrice          float64         `json:"total_price"`
	SecurityDeposit     float64         `json:"security_deposit"`
	LoyaltyPointsEarned int             `json:"loyalty_points_earned"`
	AppliedDiscount     float64         `json:"applied_discount"`
	RefundAmount        *float64        `json:"refund_amount,omitempty"`
	Status              string          `json:"status"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

type CreateRideResponse struct {
	Ride          RideInfo `json:"ride"`
	LoyaltyPoints int      `json:"loyalty_points"`
}

type ListRidesResponse struct {
	Rides []RideInfo `json:"rides"`
	Count int        `json:"count"`
}

func toRideInfo(ride *domain.Ride) RideInfo {
	accessories := make([]AccessoryInfo, len(ride.Accessories))
	for i, acc := range ride.Accessories {
		accessories[i] = AccessoryInfo{
			AccessoryID: acc.AccessoryID,
			Name:        acc.Name,
			Description: acc.Description,
			PricePerDay: acc.PricePerDay,
			Image:       acc.Image,
		}
	}

	return RideInfo{
		RideID:              ride.RideID,
		UserID:              ride.UserID,
		DriverID:            ride.DriverID,
		BikeID:              ride.BikeID,
		PickupLocation:      ride.PickupLocation,
		DropoffLocation:     ride.DropoffLocation,
		PickupDate:          ride.PickupDate,
		DropoffDate:         ride.DropoffDate,
		EstimatedKms:        ride.EstimatedKms,
		InsuranceType:       string(ride.InsuranceType),
		ProtectionPlan:      string(ride.ProtectionPlan),
		TrainingRequested:   ride.TrainingRequested,
		Accessories:         accessories,
		TotalPrice:          ride.TotalPrice,
		SecurityDeposit:     ride.SecurityDeposit,
		LoyaltyPointsEarned: ride.LoyaltyPointsEarned,
		AppliedDiscount:     ride.AppliedDiscount,
		RefundAmount:        ride.RefundAmount,
		Status:              string(ride.Status),
		CreatedAt:           ride.CreatedAt,
		UpdatedAt:           ride.UpdatedAt,
	}
}

func (r BookingRequest) toDomain(userID uuid.UUID) domain.RideRequest {
	return domain.RideRequest{
		UserID:            userID,
		BikeID:            r.BikeID,
		PickupLocation:    r.PickupLocation,
		DropoffLocation:   r.DropoffLocation,
		PickupDate:        r.PickupDate,
		DropoffDate:       r.DropoffDate,
		EstimatedKms:      r.EstimatedKms,
		InsuranceType:     domain.InsuranceType(r.InsuranceType),
		ProtectionPlan:    domain.ProtectionPlan(r.ProtectionPlan),
		TrainingRequested: r.TrainingRequested,
		LicenseNumber:     r.LicenseNumber,
		RidingExperience:  r.RidingExperience,
		AccessoryIDs:      r.AccessoryIDs,
	}
}

// @Summary Рассчитать стоимость
// @Description Расчет стоимости аренды без создания брони
// @Tags rides
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body BookingRequest true "Параметры аренды"
// @Success 200 {object} domain.Quote "Расчет стоимости"
// @Failure 400 {object} errorResponse "Неверный запрос"
// @Failure 401 {object} errorResponse "Не авторизован"
// @Failure 404 {object} errorResponse "Байк не найден"
// @Router /rides/quote [post]
func (h *BookingHandler) QuoteRide(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	payload, exists := getAuthPayload(c, authorizationPayloadKey)
	if !exists {
		newErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Failed JSON parse in quote ride", map[string]interface{}{
			"error": err.Error(),
		})
		newErrorResponse(c, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	quote, err := h.bookingService.Quote(c.Request.Context(), req.toDomain(payload.UserID))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, quote)
}

// @Summary Забронировать байк
// @Description Создание брони: проверка доступности, расчет цены, начисление баллов
// @Tags rides
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body BookingRequest true "Параметры аренды"
// @Success 201 {object} CreateRideResponse "Бронь создана"
// @Failure 400 {object} errorResponse "Неверный запрос"
// @Failure 401 {object} errorResponse "Не авторизован"
// @Failure 404 {object} errorResponse "Байк не найден"
// @Router /rides [post]
func (h *BookingHandler) CreateRide(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	payload, exists := getAuthPayload(c, authorizationPayloadKey)
	if !exists {
		h.logger.Warn("Unauthorized access attempt to CreateRide", map[string]interface{}{
			"ip": c.ClientIP(),
		})
		newErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Failed JSON parse in create ride", map[string]interface{}{
			"error": err.Error(),
		})
		newErrorResponse(c, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	ride, points, err := h.bookingService.CreateRide(c.Request.Context(), req.toDomain(payload.UserID))
	if err != nil {
		h.logger.Error("Failed to create ride", map[string]interface{}{
			"error":   err.Error(),
			"user_id": payload.UserID,
			"bike_id": req.BikeID,
		})
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, CreateRideResponse{
		Ride:          toRideInfo(ride),
		LoyaltyPoints: points,
	})
}

// @Summary Мои брони
// @Description Список броней авторизованного пользователя
// @Tags rides
// @Security BearerAuth
// @Accept json
// @Produce json
// @Success 200 {object} ListRidesResponse "Список броней"
// @Failure 401 {object} errorResponse "Не авторизован"
// @Failure 500 {object} errorResponse "Внутренняя ошибка сервера"
// @Router /rides/my [get]
func (h *BookingHandler) GetMyRides(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	payload, exists := getAuthPayload(c, authorizationPayloadKey)
	if !exists {
		newErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	rides, err := h.bookingService.GetRidesByUserID(c.Request.Context(), payload.UserID)
	if err != nil {
		h.logger.Error("Failed to get rides", map[string]interface{}{
			"error":   err.Error(),
			"user_id": payload.UserID,
		})
		newErrorResponse(c, http.StatusInternalServerError, "Failed to get rides")
		return
	}

	rideInfos := make([]RideInfo, len(rides))
	for i, ride := range rides {
		rideInfos[i] = toRideInfo(ride)
	}

	c.JSON(http.StatusOK, ListRidesResponse{
		Rides: rideInfos,
		Count: len(rideInfos),
	})
}

// @Summary Получить бронь
// @Description Детали брони; доступна владельцу, водителю и админу
// @Tags rides
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "ID брони"
// @Success 200 {object} RideInfo "Бронь найдена"
// @Failure 401 {object} errorResponse "Не авторизован"
// @Failure 403 {object} errorResponse "Доступ запрещен"
// @Failure 404 {object} errorResponse "Бронь не найдена"
// @Router /rides/{id} [get]
func (h *BookingHandler) GetRide(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	rideID := c.Param("id")

	payload, exists := getAuthPayload(c, authorizationPayloadKey)
	if !exists {
		newErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	ride, err := h.bookingService.GetRideByID(c.Request.Context(), rideID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	if payload.Role == domain.AppUser && payload.UserID != ride.UserID {
		h.logger.Warn("Access denied to ride", map[string]interface{}{
			"requester_id": payload.UserID.String(),
			"ride_owner":   ride.UserID.String(),
			"ride_id":      rideID,
		})
		newErrorResponse(c, http.StatusForbidden, "Access denied")
		return
	}

	c.JSON(http.StatusOK, toRideInfo(ride))
}

// @Summary Отменить бронь
// @Description Отмена брони с возвратом за вычетом комиссии; байк освобождается
// @Tags rides
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "ID брони"
// @Success 200 {object} RideInfo "Бронь отменена"
// @Failure 401 {object} errorResponse "Не авторизован"
// @Failure 403 {object} errorResponse "Доступ запрещен"
// @Failure 404 {object} errorResponse "Бронь не найдена"
// @Failure 409 {object} errorResponse "Бронь уже завершена"
// @Router /rides/{id}/cancel [post]
func (h *BookingHandler) CancelRide(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	rideID := c.Param("id")

	payload, exists := getAuthPayload(c, authorizationPayloadKey)
	if !exists {
		newErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	parsedID, err := uuid.Parse(rideID)
	if err != nil {
		newErrorResponse(c, http.StatusBadRequest, "Invalid ride ID")
		return
	}

	ride, err := h.bookingService.CancelRide(c.Request.Context(), parsedID, payload)
	if err != nil {
		h.logger.Error("Failed to cancel ride", map[string]interface{}{
			"error":   err.Error(),
			"ride_id": rideID,
		})
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toRideInfo(ride))
}

// @Summary Ожидающие брони
// @Description Список броней в статусе pending (для водителей)
// @Tags driver
// @Security BearerAuth
// @Accept json
// @Produce json
// @Success 200 {object} ListRidesResponse "Список броней"
// @Failure 401 {object} errorResponse "Не авторизован"
// @Failure 403 {object} errorResponse "Доступ запрещен"
// @Router /driver/rides/pending [get]
func (h *BookingHandler) GetPendingRides(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	rides, err := h.bookingService.GetPendingRides(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to get pending rides", map[string]interface{}{
			"error": err.Error(),
		})
		newErrorResponse(c, http.StatusInternalServerError, "Failed to get pending rides")
		return
	}

	rideInfos := make([]RideInfo, len(rides))
	for i, ride := range rides {
		rideInfos[i] = toRideInfo(ride)
	}

	c.JSON(http.StatusOK, ListRidesResponse{
		Rides: rideInfos,
		Count: len(rideInfos),
	})
}

// @Summary Принять бронь
// @Description Водитель принимает ожидающую бронь
// @Tags driver
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "ID брони"
// @Success 200 {object} RideInfo "Бронь принята"
// @Failure 400 {object} errorResponse "Бронь уже не в статусе pending"
// @Failure 401 {object} errorResponse "Не авторизован"
// @Failure 403 {object} errorResponse "Доступ запрещен"
// @Failure 404 {object} errorResponse "Бронь не найдена"
// @Router /driver/rides/{id}/accept [post]
func (h *BookingHandler) AcceptRide(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	rideID := c.Param("id")

	payload, exists := getAuthPayload(c, authorizationPayloadKey)
	if !exists {
		newErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	parsedID, err := uuid.Parse(rideID)
	if err != nil {
		newErrorResponse(c, http.StatusBadRequest, "Invalid ride ID")
		return
	}

	ride, err := h.bookingService.AcceptRide(c.Request.Context(), parsedID, payload)
	if err != nil {
		h.logger.Error("Failed to accept ride", map[string]interface{}{
			"error":     err.Error(),
			"ride_id":   rideID,
			"driver_id": payload.UserID,
		})
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toRideInfo(ride))
}
