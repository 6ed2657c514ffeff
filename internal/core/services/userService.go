package services

import (
	"context"

	"github.com/ridewave/ridewave_rental_service/internal/core/domain"
	"github.com/ridewave/ridewave_rental_service/internal/core/ports"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	userRepo ports.UserRepository
	logger   ports.LoggerPort
	validate *validator.Validate
}

func NewUserService(userRepo ports.UserRepository, logger ports.LoggerPort, validate *validator.Validate) *UserService {
	return &UserService{
		userRepo: userRepo,
		logger:   logger,
		validate: validate,
	}
}

func (s *UserService) Register(ctx context.Context, user *domain.User, password string) (*domain.User, error) {
	if err := s.validate.Struct(user); err != nil {
		s.logger.Error("User validation failed", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, domain.WrapError(domain.KindValidationFailed, err, "invalid user")
	}
	if len(password) < 8 {
		return nil, domain.NewError(domain.KindValidationFailed, "password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, domain.WrapError(domain.KindPersistence, err, "failed to hash password")
	}

	user.UserID = uuid.New()
	user.PasswordHash = string(hash)
	user.IsAdmin = false // админов назначаем только вручную

	createdUser, err := s.userRepo.CreateUser(ctx, user)
	if err != nil {
		s.logger.Error("Failed to create user", map[string]interface{}{
			"error":    err.Error(),
			"username": user.Username,
		})
		return nil, err
	}

	s.logger.Info("User registered", map[string]interface{}{
		"user_id":  createdUser.UserID,
		"username": createdUser.Username,
	})

	return createdUser, nil
}

func (s *UserService) Login(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		if domain.IsKind(err, domain.KindNotFound) {
			return nil, domain.NewError(domain.KindPermissionDenied, "invalid username or password")
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logger.Warn("Failed login attempt", map[string]interface{}{
			"username": username,
		})
		return nil, domain.NewError(domain.KindPermissionDenied, "invalid username or password")
	}

	return user, nil
}

func (s *UserService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, domain.NewError(domain.KindValidationFailed, "invalid user ID")
	}
	return s.userRepo.GetUserByID(ctx, userUUID)
}

func (s *UserService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.userRepo.ListUsers(ctx)
}

func (s *UserService) CountUsers(ctx context.Context) (int, error) {
	return s.userRepo.CountUsers(ctx)
}

// DeleteUser removes the account together with its rides and loyalty
// ledger (cascaded in the store).
func (s *UserService) DeleteUser(ctx context.Context, userID string) error {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.NewError(domain.KindValidationFailed, "invalid user ID")
	}

	if err := s.userRepo.DeleteUser(ctx, userUUID); err != nil {
		s.logger.Error("Failed to delete user", map[string]interface{}{
			"error":   err.Error(),
			"user_id": userID,
		})
		return err
	}

	s.logger.Info("User deleted", map[string]interface{}{
		"user_id": userID,
	})

	return nil
}
