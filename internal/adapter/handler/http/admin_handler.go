package http

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/ridewave/ridewave_rental_service/internal/core/domain"
	"github.com/ridewave/ridewave_rental_service/internal/core/ports"
	"github.com/ridewave/ridewave_rental_service/internal/core/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AdminHandler struct {
	bookingService  *services.BookingService
	bikeService     *services.BikeService
	userService     *services.UserService
	settingsService *services.SettingsService
	logger          ports.LoggerPort
	metrics         ports.MetricsPort
}

func NewAdminHandler(
	bookingService *services.BookingService,
	bikeService *services.BikeService,
	userService *services.UserService,
	settingsService *services.SettingsService,
	logger ports.LoggerPort,
	metrics ports.MetricsPort,
) *AdminHandler {
	return &AdminHandler{
		bookingService:  bookingService,
		bikeService:     bikeService,
		userService:     userService,
		settingsService: settingsService,
		logger:          logger,
		metrics:         metrics,
	}
}

type DashboardResponse struct {
	TotalBikes      int     `json:"total_bikes"`
	TotalUsers      int     `json:"total_users"`
	PendingRides    int     `json:"pending_rides"`
	AcceptedRides   int     `json:"accepted_rides"`
	CompletedRides  int     `json:"completed_rides"`
	CancelledRides  int     `json:"cancelled_rides"`
	TotalRevenue    float64 `json:"total_revenue"`
}

type SettingRequest struct {
	Value       string `json:"value" binding:"required" example:"150"`
	Description string `json:"description,omitempty" example:"Минимальная дистанция в км"`
}

type ListUsersResponse struct {
	Users []UserResponse `json:"users"`
	Count int            `json:"count"`
}

type DeleteUserResponse struct {
	Message string `json:"message"`
}

// @Summary Статистика
// @Description Сводные показатели для панели администратора
// @Tags admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Success 200 {object} DashboardResponse "Статистика"
// @Failure 401 {object} errorResponse "Не авторизован"
// @Failure 500 {object} errorResponse "Внутренняя ошибка сервера"
// @Router /admin/dashboard [get]
func (h *AdminHandler) Dashboard(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	ctx := c.Request.Context()
	resp := DashboardResponse{}
	var err error

	if resp.TotalBikes, err = h.bikeService.CountBikes(ctx); err != nil {
		h.logger.Error("Failed to count bikes", map[string]interface{}{"error": err.Error()})
		newErrorResponse(c, http.StatusInternalServerError, "Failed to build dashboard")
		return
	}
	if resp.TotalUsers, err = h.userService.CountUsers(ctx); err != nil {
		h.logger.Error("Failed to count users", map[string]interface{}{"error": err.Error()})
		newErrorResponse(c, http.StatusInternalServerError, "Failed to build dashboard")
		return
	}

	counts := map[domain.RideStatus]*int{
		domain.RideStatusPending:   &resp.PendingRides,
		domain.RideStatusAccepted:  &resp.AcceptedRides,
		domain.RideStatusCompleted: &resp.CompletedRides,
		domain.RideStatusCancelled: &resp.CancelledRides,
	}
	for status, dst := range counts {
		if *dst, err = h.bookingService.CountRidesByStatus(ctx, status); err != nil {
			h.logger.Error("Failed to count rides", map[string]interface{}{
				"error":  err.Error(),
				"status": status,
			})
			newErrorResponse(c, http.StatusInternalServerError, "Failed to build dashboard")
			return
		}
	}

	if resp.TotalRevenue, err = h.bookingService.TotalRevenue(ctx); err != nil {
		h.logger.Error("Failed to sum revenue", map[string]interface{}{"error": err.Error()})
		newErrorResponse(c, http.StatusInternalServerError, "Failed to build dashboard")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Все брони
// @Description Список всех броней сервиса
// @Tags admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Success 200 {object} ListRidesResponse "Список броней"
// @Failure 401 {object} errorResponse "Не авторизован"
// @Failure 500 {object} errorResponse "Внутренняя ошибка сервера"
// @Router /admin/rides [get]
func (h *AdminHandler) ListRides(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	rides, err := h.bookingService.ListRides(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list rides", map[string]interface{}{"error": err.Error()})
		newErrorResponse(c, http.StatusInternalServerError, "Failed to list rides")
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

// @Summary Завершить бронь
// @Description Перевод принятой брони в completed
// @Tags admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "ID брони"
// @Success 200 {object} RideInfo "Бронь завершена"
// @Failure 400 {object} errorResponse "Бронь не в статусе accepted"
// @Failure 401 {object} errorResponse "Не авторизован"
// @Failure 404 {object} errorResponse "Бронь не найдена"
// @Failure 409 {object} errorResponse "Бронь уже завершена"
// @Router /admin/rides/{id}/complete [post]
func (h *AdminHandler) CompleteRide(c *gin.Context) {
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

	ride, err := h.bookingService.CompleteRide(c.Request.Context(), parsedID, payload)
	if err != nil {
		h.logger.Error("Failed to complete ride", map[string]interface{}{
			"error":   err.Error(),
			"ride_id": rideID,
		})
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toRideInfo(ride))
}

// @Summary Пользователи
// @Description Список всех пользователей
// @Tags admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Success 200 {object} ListUsersResponse "Список пользователей"
// @Failure 401 {object} errorResponse "Не авторизован"
// @Failure 500 {object} errorResponse "Внутренняя ошибка сервера"
// @Router /admin/users [get]
func (h *AdminHandler) ListUsers(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	users, err := h.userService.ListUsers(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list users", map[string]interface{}{"error": err.Error()})
		newErrorResponse(c, http.StatusInternalServerError, "Failed to list users")
		return
	}

	infos := make([]UserResponse, len(users))
	for i, user := range users {
		infos[i] = toUserResponse(user)
	}

	c.JSON(http.StatusOK, ListUsersResponse{
		Users: infos,
		Count: len(infos),
	})
}

// @Summary Удалить пользователя
// @Description Удаление пользователя вместе с его бронями и баллами
// @Tags admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "ID пользователя"
// @Success 200 {object} DeleteUserResponse "Пользователь удален"
// @Failure 401 {object} errorResponse "Не авторизован"
// @Failure 404 {object} errorResponse "Пользователь не найден"
// @Router /admin/users/{id} [delete]
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	userID := c.Param("id")

	if err := h.userService.DeleteUser(c.Request.Context(), userID); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, DeleteUserResponse{
		Message: "User deleted successfully",
	})
}

// @Summary Настройки
// @Description Список всех настроек сервиса
// @Tags admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Success 200 {array} domain.Setting "Настройки"
// @Failure 401 {object} errorResponse "Не авторизован"
// @Failure 500 {object} errorResponse "Внутренняя ошибка сервера"
// @Router /admin/settings [get]
func (h *AdminHandler) ListSettings(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	settings, err := h.settingsService.List(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list settings", map[string]interface{}{"error": err.Error()})
		newErrorResponse(c, http.StatusInternalServerError, "Failed to list settings")
		return
	}

	c.JSON(http.StatusOK, settings)
}

// @Summary Изменить настройку
// @Description Создание или обновление настройки по ключу
// @Tags admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param key path string true "Ключ настройки" example:"min_distance"
// @Param request body SettingRequest true "Новое значение"
// @Success 200 {object} domain.Setting "Настройка сохранена"
// @Failure 400 {object} errorResponse "Неверный запрос"
// @Failure 401 {object} errorResponse "Не авторизован"
// @Router /admin/settings/{key} [put]
func (h *AdminHandler) UpdateSetting(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	key := c.Param("key")

	var req SettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Failed JSON parse in update setting", map[string]interface{}{
			"error": err.Error(),
		})
		newErrorResponse(c, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	setting, err := h.settingsService.Set(c.Request.Context(), key, req.Value, req.Description)
	if err != nil {
		h.logger.Error("Failed to update setting", map[string]interface{}{
			"error": err.Error(),
			"key":   key,
		})
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, setting)
}

func writeCSV(c *gin.Context, filename string, header []string, rows [][]string) error {
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	w := csv.NewWriter(c.Writer)
	if err := w.Write(header); err != nil {
		return err
	}
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

// @Summary Экспорт броней
// @Description Выгрузка всех броней в CSV
// @Tags admin
// @Security BearerAuth
// @Produce text/csv
// @Success 200 {string} string "CSV файл"
// @Failure 401 {object} errorResponse "Не авторизован"
// @Failure 500 {object} errorResponse "Внутренняя ошибка сервера"
// @Router /admin/export/bookings [get]
func (h *AdminHandler) ExportBookings(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	rides, err := h.bookingService.ListRides(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to export rides", map[string]interface{}{"error": err.Error()})
		newErrorResponse(c, http.StatusInternalServerError, "Failed to export rides")
		return
	}

	header := []string{
		"ride_id", "user_id", "bike_id", "pickup_date", "dropoff_date",
		"estimated_kms", "insurance_type", "total_price", "security_deposit",
		"loyalty_points_earned", "status", "created_at",
	}
	rows := make([][]string, len(rides))
	for i, ride := range rides {
		rows[i] = []string{
			ride.RideID.String(),
			ride.UserID.String(),
			ride.BikeID.String(),
			ride.PickupDate.Format("2006-01-02"),
			ride.DropoffDate.Format("2006-01-02"),
			strconv.Itoa(ride.EstimatedKms),
			string(ride.InsuranceType),
			strconv.FormatFloat(ride.TotalPrice, 'f', 2, 64),
			strconv.FormatFloat(ride.SecurityDeposit, 'f', 2, 64),
			strconv.Itoa(ride.LoyaltyPointsEarned),
			string(ride.Status),
			ride.CreatedAt.Format(time.RFC3339),
		}
	}

	if err := writeCSV(c, "bookings.csv", header, rows); err != nil {
		h.logger.Error("Failed to write bookings CSV", map[string]interface{}{"error": err.Error()})
	}
}

// @Summary Экспорт пользователей
// @Description Выгрузка всех пользователей в CSV
// @Tags admin
// @Security BearerAuth
// @Produce text/csv
// @Success 200 {string} string "CSV файл"
// @Failure 401 {object} errorResponse "Не авторизован"
// @Failure 500 {object} errorResponse "Внутренняя ошибка сервера"
// @Router /admin/export/users [get]
func (h *AdminHandler) ExportUsers(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	users, err := h.userService.ListUsers(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to export users", map[string]interface{}{"error": err.Error()})
		newErrorResponse(c, http.StatusInternalServerError, "Failed to export users")
		return
	}

	header := []string{"user_id", "username", "email", "phone", "is_driver", "is_admin", "created_at"}
	rows := make([][]string, len(users))
	for i, user := range users {
		rows[i] = []string{
			user.UserID.String(),
			user.Username,
			user.Email,
			user.Phone,
			strconv.FormatBool(user.IsDriver),
			strconv.FormatBool(user.IsAdmin),
			user.CreatedAt.Format(time.RFC3339),
		}
	}

	if err := writeCSV(c, "users.csv", header, rows); err != nil {
		h.logger.Error("Failed to write users CSV", map[string]interface{}{"error": err.Error()})
	}
}

// @Summary Экспорт выручки
// @Description Выгрузка выручки по завершённым поездкам в CSV
// @Tags admin
// @Security BearerAuth
// @Produce text/csv
// @Success 200 {string} string "CSV файл"
// @Failure 401 {object} errorResponse "Не авторизован"
// @Failure 500 {object} errorResponse "Внутренняя ошибка сервера"
// @Router /admin/export/revenue [get]
func (h *AdminHandler) ExportRevenue(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	rides, err := h.bookingService.GetCompletedRides(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to export revenue", map[string]interface{}{"error": err.Error()})
		newErrorResponse(c, http.StatusInternalServerError, "Failed to export revenue")
		return
	}

	var total float64
	header := []string{"ride_id", "user_id", "bike_id", "dropoff_date", "total_price", "loyalty_points_earned"}
	rows := make([][]string, 0, len(rides)+1)
	for _, ride := range rides {
		total += ride.TotalPrice
		rows = append(rows, []string{
			ride.RideID.String(),
			ride.UserID.String(),
			ride.BikeID.String(),
			ride.DropoffDate.Format("2006-01-02"),
			strconv.FormatFloat(ride.TotalPrice, 'f', 2, 64),
			strconv.Itoa(ride.LoyaltyPointsEarned),
		})
	}
	rows = append(rows, []string{"total", "", "", "", strconv.FormatFloat(total, 'f', 2, 64), ""})

	if err := writeCSV(c, "revenue.csv", header, rows); err != nil {
		h.logger.Error("Failed to write revenue CSV", map[string]interface{}{"error": err.Error()})
	}
}
