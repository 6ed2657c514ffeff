package domain

import (
	"time"

	"github.com/google/uuid"
)

type RideStatus string

const (
	RideStatusPending   RideStatus = "pending"
	RideStatusAccepted  RideStatus = "accepted"
	RideStatusCompleted RideStatus = "completed"
	RideStatusCancelled RideStatus = "cancelled"
)

func (s RideStatus) IsTerminal() bool {
	return s == RideStatusCompleted || s == RideStatusCancelled
}

type InsuranceType string

const (
	InsuranceBasic         InsuranceType = "basic"
	InsurancePremium       InsuranceType = "premium"
	InsuranceComprehensive InsuranceType = "comprehensive"
)

// Rate — доля от базовой цены; неизвестный тип страхуется как basic.
func (i InsuranceType) Rate() float64 {
	switch i {
	case InsurancePremium:
		return 0.10
	case InsuranceComprehensive:
		return 0.15
	default:
		return 0.05
	}
}

type ProtectionPlan string

const (
	ProtectionBasic    ProtectionPlan = "basic"
	ProtectionPremium  ProtectionPlan = "premium"
	ProtectionComplete ProtectionPlan = "complete"
)

func (p ProtectionPlan) Rate() float64 {
	switch p {
	case ProtectionBasic:
		return 0.03
	case ProtectionPremium:
		return 0.07
	case ProtectionComplete:
		return 0.12
	default:
		return 0
	}
}

// TrainingFee — фиксированная плата за инструктаж
const TrainingFee = 2000.0

type Ride struct {
	RideID              uuid.UUID      `json:"ride_id"`
	UserID              uuid.UUID      `json:"user_id"`
	DriverID            *uuid.UUID     `json:"driver_id,omitempty"`
	BikeID              uuid.UUID      `json:"bike_id"`
	PickupLocation      string         `json:"pickup_location"`
	DropoffLocation     string         `json:"dropoff_location"`
	PickupDate          time.Time      `json:"pickup_date"`
	DropoffDate         time.Time      `json:"dropoff_date"`
	EstimatedKms        int            `json:"estimated_kms"`
	InsuranceType       InsuranceType  `json:"insurance_type"`
	ProtectionPlan      ProtectionPlan `json:"protection_plan,omitempty"`
	TrainingRequested   bool           `json:"training_requested"`
	LicenseNumber       string         `json:"license_number"`
	RidingExperience    int            `json:"riding_experience"`
	Accessories         []*Accessory   `json:"accessories,omitempty"`
	TotalPrice          float64        `json:"total_price"`
	SecurityDeposit     float64        `json:"security_deposit"`
	LoyaltyPointsEarned int            `json:"loyalty_points_earned"`
	AppliedDiscount     float64        `json:"applied_discount"`
	RefundAmount        *float64       `json:"refund_amount,omitempty"`
	Status              RideStatus     `json:"status"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
}

// RideRequest is the typed booking input; it is validated at the HTTP
// boundary so the engine never branches on missing fields.
type RideRequest struct {
	UserID            uuid.UUID      `json:"user_id" validate:"required"`
	BikeID            uuid.UUID      `json:"bike_id" validate:"required"`
	PickupLocation    string         `json:"pickup_location" validate:"required,max=200"`
	DropoffLocation   string         `json:"dropoff_location" validate:"required,max=200"`
	PickupDate        time.Time      `json:"pickup_date" validate:"required"`
	DropoffDate       time.Time      `json:"dropoff_date" validate:"required"`
	EstimatedKms      int            `json:"estimated_kms" validate:"required,min=1"`
	InsuranceType     InsuranceType  `json:"insurance_type" validate:"required"`
	ProtectionPlan    ProtectionPlan `json:"protection_plan,omitempty"`
	TrainingRequested bool           `json:"training_requested"`
	LicenseNumber     string         `json:"license_number" validate:"required,max=50"`
	RidingExperience  int            `json:"riding_experience" validate:"min=0"`
	AccessoryIDs      []uuid.UUID    `json:"accessory_ids,omitempty"`
}

// DurationDays — аренда считается включительно: день возврата оплачивается.
func (r RideRequest) DurationDays() int {
	return int(r.DropoffDate.Sub(r.PickupDate).Hours()/24) + 1
}

// Quote is the price breakdown computed by the booking engine before a
// ride is persisted.
type Quote struct {
	BasePrice          float64 `json:"base_price"`
	InsuranceCost      float64 `json:"insurance_cost"`
	ProtectionCost     float64 `json:"protection_cost"`
	AccessoriesCost    float64 `json:"accessories_cost"`
	TrainingCost       float64 `json:"training_cost"`
	Subtotal           float64 `json:"subtotal"`
	DiscountPercentage float64 `json:"discount_percentage"`
	DiscountAmount     float64 `json:"discount_amount"`
	TotalPrice         float64 `json:"total_price"`
	SecurityDeposit    float64 `json:"security_deposit"`
	LoyaltyPoints      int     `json:"loyalty_points"`
}
