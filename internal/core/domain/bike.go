package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type BikeType string

const (
	Sport    BikeType = "Sport"
	Electric BikeType = "Electric"
	Cruiser  BikeType = "Cruiser"
	Naked    BikeType = "Naked"
	Touring  BikeType = "Touring"
)

// MinExperienceYears — минимальный стаж вождения для типа байка
func (t BikeType) MinExperienceYears() int {
	if t == Sport || t == Electric {
		return 3
	}
	return 1
}

// DefaultDeposit is the category fallback used when the
// security_deposit setting is not configured.
func (t BikeType) DefaultDeposit() float64 {
	if t == Sport || t == Electric {
		return 50000
	}
	return 30000
}

type Bike struct {
	BikeID        uuid.UUID      `json:"bike_id"`
	Name          string         `json:"name" validate:"required,max=100"`
	Description   string         `json:"description"`
	PricePerKm    float64        `json:"price_per_km" validate:"required,gt=0"`
	Image         string         `json:"image"`
	Engine        string         `json:"engine,omitempty"`
	Power         string         `json:"power,omitempty"`
	Mileage       string         `json:"mileage,omitempty"`
	Type          BikeType       `json:"type" validate:"required"`
	GalleryImages pq.StringArray `json:"gallery_images,omitempty"`
	IsAvailable   bool           `json:"is_available"`
	MinKms        int            `json:"min_kms" validate:"required,min=1"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}
