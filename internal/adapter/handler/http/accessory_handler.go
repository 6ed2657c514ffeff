package http

import (
	"net/http"
	"time"

	"github.com/ridewave/ridewave_rental_service/internal/core/domain"
	"github.com/ridewave/ridewave_rental_service/internal/core/ports"
	"github.com/ridewave/ridewave_rental_service/internal/core/services"

	"github.com/gin-gonic/gin"
)

type AccessoryHandler struct {
	accessoryService *services.AccessoryService
	logger           ports.LoggerPort
	metrics          ports.MetricsPort
}

func NewAccessoryHandler(
	accessoryService *services.AccessoryService,
	logger ports.LoggerPort,
	metrics ports.MetricsPort,
) *AccessoryHandler {
	return &AccessoryHandler{
		accessoryService: accessoryService,
		logger:           logger,
		metrics:          metrics,
	}
}

type AccessoryRequest struct {
	Name        string  `json:"name" binding:"required" example:"Шлем AGV K6"`
	Description string  `json:"description,omitempty" example:"Интеграл, размер M"`
	PricePerDay float64 `json:"price_per_day" binding:"required,gt=0" example:"300"`
	Image       string  `json:"image,omitempty"`
}

type ListAccessoriesResponse struct {
	Accessories []AccessoryInfo `json:"accessories"`
	Count       int             `json:"count"`
}

func toAccessoryInfo(acc *domain.Accessory) AccessoryInfo {
	return AccessoryInfo{
		AccessoryID: acc.AccessoryID,
		Name:        acc.Name,
		Description: acc.Description,
		PricePerDay: acc.PricePerDay,
		Image:       acc.Image,
	}
}

// @Summary Список аксессуаров
// @Description Каталог аксессуаров для аренды
// @Tags accessories
// @Accept json
// @Produce json
// @Success 200 {object} ListAccessoriesResponse "Список аксессуаров"
// @Failure 500 {object} errorResponse "Внутренняя ошибка сервера"
// @Router /accessories [get]
func (h *AccessoryHandler) ListAccessories(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	accessories, err := h.accessoryService.ListAccessories(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list accessories", map[string]interface{}{
			"error": err.Error(),
		})
		newErrorResponse(c, http.StatusInternalServerError, "Failed to list accessories")
		return
	}

	infos := make([]AccessoryInfo, len(accessories))
	for i, acc := range accessories {
		infos[i] = toAccessoryInfo(acc)
	}

	c.JSON(http.StatusOK, ListAccessoriesResponse{
		Accessories: infos,
		Count:       len(infos),
	})
}

// @Summary Получить аксессуар
// @Description Карточка аксессуара по ID
// @Tags accessories
// @Accept json
// @Produce json
// @Param id path string true "ID аксессуара"
// @Success 200 {object} AccessoryInfo "Аксессуар найден"
// @Failure 404 {object} errorResponse "Аксессуар не найден"
// @Router /accessories/{id} [get]
func (h *AccessoryHandler) GetAccessory(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	accessoryID := c.Param("id")

	accessory, err := h.accessoryService.GetAccessoryByID(c.Request.Context(), accessoryID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toAccessoryInfo(accessory))
}

// @Summary Добавить аксессуар
// @Description Добавление аксессуара в каталог (только админ)
// @Tags admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body AccessoryRequest true "Данные аксессуара"
// @Success 201 {object} AccessoryInfo "Аксессуар создан"
// @Failure 400 {object} errorResponse "Неверный запрос"
// @Failure 401 {object} errorResponse "Не авторизован"
// @Failure 403 {object} errorResponse "Доступ запрещен"
// @Router /admin/accessories [post]
func (h *AccessoryHandler) CreateAccessory(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	var req AccessoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Failed JSON parse in create accessory", map[string]interface{}{
			"error": err.Error(),
		})
		newErrorResponse(c, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	accessory := &domain.Accessory{
		Name:        req.Name,
		Description: req.Description,
		PricePerDay: req.PricePerDay,
		Image:       req.Image,
	}

	created, err := h.accessoryService.CreateAccessory(c.Request.Context(), accessory)
	if err != nil {
		h.logger.Error("Failed to create accessory", map[string]interface{}{
			"error": err.Error(),
			"name":  req.Name,
		})
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toAccessoryInfo(created))
}
