package http

import (
	"errors"
	"time"

	"github.com/ridewave/ridewave_rental_service/internal/core/domain"
	"github.com/ridewave/ridewave_rental_service/internal/core/ports"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type JWTTokenService struct {
	secretKey []byte
	duration  time.Duration
	logger    ports.LoggerPort
}

func NewJWTTokenService(secretKey, duration string, logger ports.LoggerPort) *JWTTokenService {
	tokenDuration, err := time.ParseDuration(duration)
	if err != nil {
		tokenDuration = 24 * time.Hour // дефолт если ошибка
	}
	return &JWTTokenService{
		secretKey: []byte(secretKey),
		duration:  tokenDuration,
		logger:    logger,
	}
}

func (j *JWTTokenService) IssueToken(user *domain.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"id":      uuid.New().String(),
		"user_id": user.UserID.String(),
		"role":    string(user.Role()),
		"iat":     now.Unix(),
		"exp":     now.Add(j.duration).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(j.secretKey)
	if err != nil {
		j.logger.Error("Failed to sign jwt", map[string]interface{}{
			"error":  err.Error(),
			"method": "IssueToken",
		})
		return "", err
	}
	return signed, nil
}

// проверка жвт
func (j *JWTTokenService) VerifyToken(token string) (*domain.TokenPayload, error) {
	parsedToken, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
		return j.secretKey, nil
	})
	if err != nil {
		j.logger.Error("Failed to parse jwt", map[string]interface{}{
			"error":  err.Error(),
			"method": "VerifyToken",
		})
		return nil, err
	}

	claims, ok := parsedToken.Claims.(jwt.MapClaims)
	if !ok {
		j.logger.Error("Failed claims from token", map[string]interface{}{
			"method": "VerifyToken",
		})
		return nil, errors.New("failed to verify")
	}

	idStr, ok := claims["id"].(string)
	if !ok {
		return nil, errors.New("invalid id convert")
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, errors.New("invalid parse id")
	}

	userIDStr, ok := claims["user_id"].(string)
	if !ok {
		return nil, errors.New("invalid user_id claims")
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, errors.New("invalid parse user_id")
	}

	roleClaimed, ok := claims["role"].(string)
	if !ok {
		return nil, errors.New("invalid role")
	}

	role := domain.UserRole(roleClaimed)
	if role != domain.Admin && role != domain.Driver && role != domain.AppUser {
		j.logger.Warn("Invalid role in token", map[string]interface{}{
			"role":   roleClaimed,
			"method": "VerifyToken",
		})
		return nil, errors.New("invalid role value")
	}

	payload := &domain.TokenPayload{
		ID:     id,
		UserID: userID,
		Role:   role,
	}

	return payload, nil
}
