package domain

import "time"

// Setting keys read by the booking engine. Defaults apply when the row
// is absent.
const (
	SettingMinDistance     = "min_distance"     // default "100"
	SettingSecurityDeposit = "security_deposit" // default: per bike type
	SettingPointsPer100    = "points_per_100"   // default "10"
	SettingCancellationFee = "cancellation_fee" // default "20"
)

const (
	DefaultPointsPer100    = 10
	DefaultCancellationFee = 20.0
)

type Setting struct {
	Key         string    `json:"key" validate:"required,max=50"`
	Value       string    `json:"value" validate:"required,max=200"`
	Description string    `json:"description,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}
