package http

import (
	"net/http"
	"time"

	"github.com/ridewave/ridewave_rental_service/internal/core/ports"
	"github.com/ridewave/ridewave_rental_service/internal/core/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type LoyaltyHandler struct {
	loyaltyService *services.LoyaltyService
	logger         ports.LoggerPort
	metrics        ports.MetricsPort
}

func NewLoyaltyHandler(
	loyaltyService *services.LoyaltyService,
	logger ports.LoggerPort,
	metrics ports.MetricsPort,
) *LoyaltyHandler {
	return &LoyaltyHandler{
		loyaltyService: loyaltyService,
		logger:         logger,
		metrics:        metrics,
	}
}

type LoyaltyStatusResponse struct {
	UserID             uuid.UUID `json:"user_id"`
	Points             int       `json:"points"`
	TierID             uuid.UUID `json:"tier_id"`
	TierName           string    `json:"tier_name"`
	DiscountPercentage float64   `json:"discount_percentage"`
}

// @Summary Мой статус лояльности
// @Description Текущие баллы и тир авторизованного пользователя
// @Tags loyalty
// @Security BearerAuth
// @Accept json
// @Produce json
// @Success 200 {object} LoyaltyStatusResponse "Статус лояльности"
// @Failure 401 {object} errorResponse "Не авторизован"
// @Failure 500 {object} errorResponse "Внутренняя ошибка сервера"
// @Router /loyalty/me [get]
func (h *LoyaltyHandler) GetMyLoyalty(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	payload, exists := getAuthPayload(c, authorizationPayloadKey)
	if !exists {
		newErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	tier, points, err := h.loyaltyService.CurrentTier(c.Request.Context(), payload.UserID)
	if err != nil {
		h.logger.Error("Failed to get loyalty status", map[string]interface{}{
			"error":   err.Error(),
			"user_id": payload.UserID,
		})
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, LoyaltyStatusResponse{
		UserID:             payload.UserID,
		Points:             points,
		TierID:             tier.TierID,
		TierName:           tier.Name,
		DiscountPercentage: tier.DiscountPercentage,
	})
}
