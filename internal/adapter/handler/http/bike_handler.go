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

type BikeHandler struct {
	bikeService *services.BikeService
	logger      ports.LoggerPort
	metrics     ports.MetricsPort
}

func NewBikeHandler(
	bikeService *services.BikeService,
	logger ports.LoggerPort,
	metrics ports.MetricsPort,
) *BikeHandler {
	return &BikeHandler{
		bikeService: bikeService,
		logger:      logger,
		metrics:     metrics,
	}
}

type BikeRequest struct {
	Name          string   `json:"name" binding:"required" example:"Kawasaki Ninja ZX-10R"`
	Description   string   `json:"description" example:"Трековый спортбайк"`
	PricePerKm    float64  `json:"price_per_km" binding:"required,gt=0" example:"15"`
	Image         string   `json:"image" example:"https://cdn.example.com/ninja.jpg"`
	Engine        string   `json:"engine,omitempty" example:"998cc"`
	Power         string   `json:"power,omitempty" example:"203 hp"`
	Mileage       string   `json:"mileage,omitempty" example:"15 km/l"`
	Type          string   `json:"type" binding:"required" example:"Sport"`
	GalleryImages []string `json:"gallery_images,omitempty"`
	MinKms        int      `json:"min_kms" binding:"required,min=1" example:"100"`
}

type UpdateBikeRequest struct {
	Name          *string  `json:"name,omitempty"`
	Description   *string  `json:"description,omitempty"`
	PricePerKm    *float64 `json:"price_per_km,omitempty"`
	Image         *string  `json:"image,omitempty"`
	Engine        *string  `json:"engine,omitempty"`
	Power         *string  `json:"power,omitempty"`
	Mileage       *string  `json:"mileage,omitempty"`
	Type          *string  `json:"type,omitempty"`
	GalleryImages []string `json:"gallery_images,omitempty"`
	IsAvailable   *bool    `json:"is_available,omitempty"`
	MinKms        *int     `json:"min_kms,omitempty"`
}

type BikeInfo struct {
	BikeID        uuid.UUID `json:"bike_id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	PricePerKm    float64   `json:"price_per_km"`
	Image         string    `json:"image"`
	Engine        string    `json:"engine,omitempty"`
	Power         string    `json:"power,omitempty"`
	Mileage       string    `json:"mileage,omitempty"`
	Type          string    `json:"type"`
	GalleryImages []string  `json:"gallery_images,omitempty"`
	IsAvailable   bool      `json:"is_available"`
	MinKms        int       `json:"min_kms"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type ListBikesResponse struct {
	Bikes []BikeInfo `json:"bikes"`
	Count int        `json:"count"`
}

type DeleteBikeResponse struct {
	Message string `json:"message"`
}

func toBikeInfo(bike *domain.Bike) BikeInfo {
	return BikeInfo{
		BikeID:        bike.BikeID,
		Name:          bike.Name,
		Description:   bike.Description,
		PricePerKm:    bike.PricePerKm,
		Image:         bike.Image,
		Engine:        bike.Engine,
		Power:         bike.Power,
		Mileage:       bike.Mileage,
		Type:          string(bike.Type),
		GalleryImages: bike.GalleryImages,
		IsAvailable:   bike.IsAvailable,
		MinKms:        bike.MinKms,
		CreatedAt:     bike.CreatedAt,
		UpdatedAt:     bike.UpdatedAt,
	}
}

// @Summary Каталог байков
// @Description Список байков, по умолчанию весь каталог; ?available=true только свободные
// @Tags bikes
// @Accept json
// @Produce json
// @Param available query bool false "Только доступные"
// @Success 200 {object} ListBikesResponse "Список байков"
// @Failure 500 {object} errorResponse "Внутренняя ошибка сервера"
// @Router /bikes [get]
func (h *BikeHandler) ListBikes(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	onlyAvailable := c.Query("available") == "true"

	bikes, err := h.bikeService.ListBikes(c.Request.Context(), onlyAvailable)
	if err != nil {
		h.logger.Error("Failed to list bikes", map[string]interface{}{
			"error": err.Error(),
		})
		newErrorResponse(c, http.StatusInternalServerError, "Failed to list bikes")
		return
	}

	bikeInfos := make([]BikeInfo, len(bikes))
	for i, bike := range bikes {
		bikeInfos[i] = toBikeInfo(bike)
	}

	c.JSON(http.StatusOK, ListBikesResponse{
		Bikes: bikeInfos,
		Count: len(bikeInfos),
	})
}

// @Summary Получить байк
// @Description Карточка байка по ID
// @Tags bikes
// @Accept json
// @Produce json
// @Param id path string true "ID байка" example:"3fa85f64-5717-4562-b3fc-2c963f66afa6"
// @Success 200 {object} BikeInfo "Байк найден"
// @Failure 404 {object} errorResponse "Байк не найден"
// @Router /bikes/{id} [get]
func (h *BikeHandler) GetBike(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	bikeID := c.Param("id")

	bike, err := h.bikeService.GetBikeByID(c.Request.Context(), bikeID)
	if err != nil {
		h.logger.Error("Failed to get bike", map[string]interface{}{
			"error":   err.Error(),
			"bike_id": bikeID,
		})
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toBikeInfo(bike))
}

// @Summary Добавить байк
// @Description Добавление байка в каталог (только админ)
// @Tags admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body BikeRequest true "Данные байка"
// @Success 201 {object} BikeInfo "Байк создан"
// @Failure 400 {object} errorResponse "Неверный запрос"
// @Failure 401 {object} errorResponse "Не авторизован"
// @Failure 403 {object} errorResponse "Доступ запрещен"
// @Router /admin/bikes [post]
func (h *BikeHandler) CreateBike(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	var req BikeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Failed JSON parse in create bike", map[string]interface{}{
			"error": err.Error(),
		})
		newErrorResponse(c, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	bike := &domain.Bike{
		Name:          req.Name,
		Description:   req.Description,
		PricePerKm:    req.PricePerKm,
		Image:         req.Image,
		Engine:        req.Engine,
		Power:         req.Power,
		Mileage:       req.Mileage,
		Type:          domain.BikeType(req.Type),
		GalleryImages: req.GalleryImages,
		MinKms:        req.MinKms,
	}

	createdBike, err := h.bikeService.CreateBike(c.Request.Context(), bike)
	if err != nil {
		h.logger.Error("Failed to create bike", map[string]interface{}{
			"error": err.Error(),
			"name":  req.Name,
		})
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toBikeInfo(createdBike))
}

// @Summary Обновить байк
// @Description Обновление данных байка (только админ)
// @Tags admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "ID байка"
// @Param request body UpdateBikeRequest true "Данные для обновления"
// @Success 200 {object} BikeInfo "Байк обновлен"
// @Failure 400 {object} errorResponse "Неверный запрос"
// @Failure 401 {object} errorResponse "Не авторизован"
// @Failure 404 {object} errorResponse "Байк не найден"
// @Router /admin/bikes/{id} [put]
func (h *BikeHandler) UpdateBike(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	bikeID := c.Param("id")

	var req UpdateBikeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Failed JSON parse in update bike", map[string]interface{}{
			"error": err.Error(),
		})
		newErrorResponse(c, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	existingBike, err := h.bikeService.GetBikeByID(c.Request.Context(), bikeID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	bike := existingBike
	if req.Name != nil {
		bike.Name = *req.Name
	}
	if req.Description != nil {
		bike.Description = *req.Description
	}
	if req.PricePerKm != nil {
		bike.PricePerKm = *req.PricePerKm
	}
	if req.Image != nil {
		bike.Image = *req.Image
	}
	if req.Engine != nil {
		bike.Engine = *req.Engine
	}
	if req.Power != nil {
		bike.Power = *req.Power
	}
	if req.Mileage != nil {
		bike.Mileage = *req.Mileage
	}
	if req.Type != nil {
		bike.Type = domain.BikeType(*req.Type)
	}
	if req.GalleryImages != nil {
		bike.GalleryImages = req.GalleryImages
	}
	if req.IsAvailable != nil {
		bike.IsAvailable = *req.IsAvailable
	}
	if req.MinKms != nil {
		bike.MinKms = *req.MinKms
	}

	updatedBike, err := h.bikeService.UpdateBike(c.Request.Context(), bike)
	if err != nil {
		h.logger.Error("Failed to update bike", map[string]interface{}{
			"error":   err.Error(),
			"bike_id": bikeID,
		})
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toBikeInfo(updatedBike))
}

// @Summary Удалить байк
// @Description Удаление байка из каталога (только админ)
// @Tags admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "ID байка"
// @Success 200 {object} DeleteBikeResponse "Байк удален"
// @Failure 400 {object} errorResponse "Байк используется"
// @Failure 401 {object} errorResponse "Не авторизован"
// @Failure 404 {object} errorResponse "Байк не найден"
// @Router /admin/bikes/{id} [delete]
func (h *BikeHandler) DeleteBike(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	bikeID := c.Param("id")

	if err := h.bikeService.DeleteBike(c.Request.Context(), bikeID); err != nil {
		h.logger.Error("Failed to delete bike", map[string]interface{}{
			"error":   err.Error(),
			"bike_id": bikeID,
		})
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, DeleteBikeResponse{
		Message: "Bike deleted successfully",
	})
}
