package domain

import (
	"testing"
	"time"
)

func TestDurationDaysInclusive(t *testing.T) {
	req := RideRequest{
		PickupDate:  time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
		DropoffDate: time.Date(2025, 6, 5, 10, 0, 0, 0, time.UTC),
	}
	if got := req.DurationDays(); got != 5 {
		t.Errorf("DurationDays = %d, want 5", got)
	}

	sameDayish := RideRequest{
		PickupDate:  time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
		DropoffDate: time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC),
	}
	if got := sameDayish.DurationDays(); got != 1 {
		t.Errorf("DurationDays same day = %d, want 1", got)
	}
}

func TestInsuranceRates(t *testing.T) {
	tests := []struct {
		insurance InsuranceType
		want      float64
	}{
		{InsuranceBasic, 0.05},
		{InsurancePremium, 0.10},
		{InsuranceComprehensive, 0.15},
		{InsuranceType("unknown"), 0.05},
	}
	for _, tt := range tests {
		if got := tt.insurance.Rate(); got != tt.want {
			t.Errorf("%s rate = %v, want %v", tt.insurance, got, tt.want)
		}
	}
}

func TestProtectionRates(t *testing.T) {
	tests := []struct {
		plan ProtectionPlan
		want float64
	}{
		{ProtectionBasic, 0.03},
		{ProtectionPremium, 0.07},
		{ProtectionComplete, 0.12},
		{ProtectionPlan(""), 0},
	}
	for _, tt := range tests {
		if got := tt.plan.Rate(); got != tt.want {
			t.Errorf("%q rate = %v, want %v", tt.plan, got, tt.want)
		}
	}
}

func TestMinExperienceYears(t *testing.T) {
	if got := Sport.MinExperienceYears(); got != 3 {
		t.Errorf("Sport = %d, want 3", got)
	}
	if got := Electric.MinExperienceYears(); got != 3 {
		t.Errorf("Electric = %d, want 3", got)
	}
	if got := Cruiser.MinExperienceYears(); got != 1 {
		t.Errorf("Cruiser = %d, want 1", got)
	}
}

func TestRideStatusTerminal(t *testing.T) {
	if RideStatusPending.IsTerminal() || RideStatusAccepted.IsTerminal() {
		t.Error("pending and accepted must not be terminal")
	}
	if !RideStatusCompleted.IsTerminal() || !RideStatusCancelled.IsTerminal() {
		t.Error("completed and cancelled must be terminal")
	}
}
