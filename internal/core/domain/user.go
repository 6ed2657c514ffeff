package domain

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	UserID       uuid.UUID `json:"user_id"`
	Username     string    `json:"username" validate:"required,max=80"`
	Email        string    `json:"email" validate:"required,email,max=120"`
	PasswordHash string    `json:"-"`
	Phone        string    `json:"phone,omitempty" validate:"max=20"`
	IsDriver     bool      `json:"is_driver"`
	IsAdmin      bool      `json:"is_admin"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (u *User) Role() UserRole {
	switch {
	case u.IsAdmin:
		return Admin
	case u.IsDriver:
		return Driver
	default:
		return AppUser
	}
}
