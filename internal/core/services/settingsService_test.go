package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ridewave/ridewave_rental_service/internal/core/domain"
)

type fakeSettingsRepo struct {
	settings map[string]*domain.Setting
}

func (f *fakeSettingsRepo) GetSetting(_ context.Context, key string) (*domain.Setting, error) {
	setting, ok := f.settings[key]
	if !ok {
		return nil, domain.NewError(domain.KindNotFound, "setting not found")
	}
	return setting, nil
}

func (f *fakeSettingsRepo) UpsertSetting(_ context.Context, setting *domain.Setting) (*domain.Setting, error) {
	f.settings[setting.Key] = setting
	return setting, nil
}

func (f *fakeSettingsRepo) ListSettings(_ context.Context) ([]*domain.Setting, error) {
	var settings []*domain.Setting
	for _, s := range f.settings {
		settings = append(settings, s)
	}
	return settings, nil
}

// nopCache misses every read so tests always hit the repository.
type nopCache struct{}

func (nopCache) Get(string) ([]byte, error)              { return nil, errors.New("cache miss") }
func (nopCache) Set(string, []byte, time.Duration) error { return nil }
func (nopCache) Delete(string) error                     { return nil }

func newSettingsFixture(values map[string]string) *SettingsService {
	repo := &fakeSettingsRepo{settings: make(map[string]*domain.Setting)}
	for k, v := range values {
		repo.settings[k] = &domain.Setting{Key: k, Value: v}
	}
	return NewSettingsService(repo, nopLogger{}, nopCache{})
}

func TestSettingsDefaults(t *testing.T) {
	service := newSettingsFixture(nil)
	ctx := context.Background()

	if got := service.GetInt(ctx, domain.SettingMinDistance, 100); got != 100 {
		t.Errorf("min_distance default = %d, want 100", got)
	}
	if got := service.GetFloat(ctx, domain.SettingCancellationFee, domain.DefaultCancellationFee); got != 20 {
		t.Errorf("cancellation_fee default = %v, want 20", got)
	}
	if got := service.GetInt(ctx, domain.SettingPointsPer100, domain.DefaultPointsPer100); got != 10 {
		t.Errorf("points_per_100 default = %d, want 10", got)
	}
}

func TestSettingsStoredValueWins(t *testing.T) {
	service := newSettingsFixture(map[string]string{
		domain.SettingMinDistance:     "250",
		domain.SettingCancellationFee: "35.5",
	})
	ctx := context.Background()

	if got := service.GetInt(ctx, domain.SettingMinDistance, 100); got != 250 {
		t.Errorf("min_distance = %d, want 250", got)
	}
	if got := service.GetFloat(ctx, domain.SettingCancellationFee, 20); got != 35.5 {
		t.Errorf("cancellation_fee = %v, want 35.5", got)
	}
}

func TestSettingsNonNumericFallsBack(t *testing.T) {
	service := newSettingsFixture(map[string]string{
		domain.SettingMinDistance: "not-a-number",
	})
	ctx := context.Background()

	if got := service.GetInt(ctx, domain.SettingMinDistance, 100); got != 100 {
		t.Errorf("min_distance with garbage value = %d, want default 100", got)
	}
}

func TestSettingsSetValidation(t *testing.T) {
	service := newSettingsFixture(nil)

	if _, err := service.Set(context.Background(), "", "10", ""); !domain.IsKind(err, domain.KindValidationFailed) {
		t.Errorf("empty key: error kind = %v, want validation_failed", domain.KindOf(err))
	}

	setting, err := service.Set(context.Background(), domain.SettingMinDistance, "150", "minimum kms")
	if err != nil {
		t.Fatalf("Set: %v", err)
	}
	if setting.Value != "150" {
		t.Errorf("value = %s, want 150", setting.Value)
	}
	if got := service.GetInt(context.Background(), domain.SettingMinDistance, 100); got != 150 {
		t.Errorf("stored value = %d, want 150", got)
	}
}
