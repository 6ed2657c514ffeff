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

type AuthHandler struct {
	userService  *services.UserService
	tokenService ports.TokenService
	logger       ports.LoggerPort
	metrics      ports.MetricsPort
}

func NewAuthHandler(
	userService *services.UserService,
	tokenService ports.TokenService,
	logger ports.LoggerPort,
	metrics ports.MetricsPort,
) *AuthHandler {
	return &AuthHandler{
		userService:  userService,
		tokenService: tokenService,
		logger:       logger,
		metrics:      metrics,
	}
}

type RegisterRequest struct {
	Username string `json:"username" binding:"required" example:"rider42"`
	Email    string `json:"email" binding:"required,email" example:"rider42@example.com"`
	Password string `json:"password" binding:"required,min=8" example:"secret-pass"`
	Phone    string `json:"phone,omitempty" example:"+79001234567"`
	IsDriver bool   `json:"is_driver,omitempty"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required" example:"rider42"`
	Password string `json:"password" binding:"required" example:"secret-pass"`
}

type UserResponse struct {
	UserID    uuid.UUID `json:"user_id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	IsDriver  bool      `json:"is_driver"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

func toUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		UserID:    user.UserID,
		Username:  user.Username,
		Email:     user.Email,
		Phone:     user.Phone,
		IsDriver:  user.IsDriver,
		IsAdmin:   user.IsAdmin,
		CreatedAt: user.CreatedAt,
	}
}

// @Summary Регистрация
// @Description Создание нового пользователя и выдача токена
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Данные пользователя"
// @Success 201 {object} AuthResponse "Пользователь создан"
// @Failure 400 {object} errorResponse "Неверный запрос"
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Failed JSON parse in register", map[string]interface{}{
			"error": err.Error(),
		})
		newErrorResponse(c, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	user := &domain.User{
		Username: req.Username,
		Email:    req.Email,
		Phone:    req.Phone,
		IsDriver: req.IsDriver,
	}

	createdUser, err := h.userService.Register(c.Request.Context(), user, req.Password)
	if err != nil {
		h.logger.Error("Failed to register user", map[string]interface{}{
			"error":    err.Error(),
			"username": req.Username,
		})
		handleServiceError(c, err)
		return
	}

	token, err := h.tokenService.IssueToken(createdUser)
	if err != nil {
		newErrorResponse(c, http.StatusInternalServerError, "Failed to issue token")
		return
	}

	h.logger.Info("User registered", map[string]interface{}{
		"user_id":  createdUser.UserID,
		"username": createdUser.Username,
	})

	c.JSON(http.StatusCreated, AuthResponse{
		Token: token,
		User:  toUserResponse(createdUser),
	})
}

// @Summary Вход
// @Description Аутентификация по логину и паролю
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Учетные данные"
// @Success 200 {object} AuthResponse "Успешный вход"
// @Failure 400 {object} errorResponse "Неверный запрос"
// @Failure 403 {object} errorResponse "Неверные учетные данные"
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Failed JSON parse in login", map[string]interface{}{
			"error": err.Error(),
		})
		newErrorResponse(c, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	user, err := h.userService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.logger.Warn("Failed login attempt", map[string]interface{}{
			"username": req.Username,
			"ip":       c.ClientIP(),
		})
		handleServiceError(c, err)
		return
	}

	token, err := h.tokenService.IssueToken(user)
	if err != nil {
		newErrorResponse(c, http.StatusInternalServerError, "Failed to issue token")
		return
	}

	c.JSON(http.StatusOK, AuthResponse{
		Token: token,
		User:  toUserResponse(user),
	})
}
