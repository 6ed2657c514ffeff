package ports

import "github.com/ridewave/ridewave_rental_service/internal/core/domain"

type TokenService interface {
	IssueToken(user *domain.User) (string, error)
	VerifyToken(token string) (*domain.TokenPayload, error)
}
