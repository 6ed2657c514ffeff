package domain

import (
	"time"

	"github.com/google/uuid"
)

type Accessory struct {
	AccessoryID uuid.UUID `json:"accessory_id"`
	Name        string    `json:"name" validate:"required,max=100"`
	Description string    `json:"description,omitempty"`
	PricePerDay float64   `json:"price_per_day" validate:"required,gt=0"`
	Image       string    `json:"image,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
