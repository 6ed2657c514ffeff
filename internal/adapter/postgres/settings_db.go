package postgres

import (
	"context"
	"database/sql"

	"github.com/ridewave/ridewave_rental_service/internal/core/domain"
)

type SettingsRepository struct {
	db *sql.DB
}

func NewSettingsRepository(db *sql.DB) *SettingsRepository {
	return &SettingsRepository{
		db,
	}
}

func (r *SettingsRepository) GetSetting(ctx context.Context, key string) (*domain.Setting, error) {
	query := `SELECT key, value, COALESCE(description, ''), updated_at FROM settings WHERE key = $1`

	setting := &domain.Setting{}
	err := r.db.QueryRowContext(ctx, query, key).Scan(
		&setting.Key,
		&setting.Value,
		&setting.Description,
		&setting.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, domain.NewError(domain.KindNotFound, "setting not found")
	}
	if err != nil {
		return nil, domain.WrapError(domain.KindPersistence, err, "failed to get setting")
	}
	return setting, nil
}

func (r *SettingsRepository) UpsertSetting(ctx context.Context, setting *domain.Setting) (*domain.Setting, error) {
	query := `INSERT INTO settings (key, value, description)
		VALUES ($1, $2, NULLIF($3, ''))
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value,
		    description = COALESCE(EXCLUDED.description, settings.description),
		    updated_at = CURRENT_TIMESTAMP
		RETURNING key, value, COALESCE(description, ''), updated_at`

	err := r.db.QueryRowContext(ctx, query, setting.Key, setting.Value, setting.Description).Scan(
		&setting.Key,
		&setting.Value,
		&setting.Description,
		&setting.UpdatedAt,
	)
	if err != nil {
		return nil, domain.WrapError(domain.KindPersistence, err, "failed to upsert setting")
	}
	return setting, nil
}

func (r *SettingsRepository) ListSettings(ctx context.Context) ([]*domain.Setting, error) {
	query := `SELECT key, value, COALESCE(description, ''), updated_at FROM settings ORDER BY key`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, domain.WrapError(domain.KindPersistence, err, "failed to list settings")
	}
	defer rows.Close()

	var settings []*domain.Setting
	for rows.Next() {
		setting := &domain.Setting{}
		if err := rows.Scan(&setting.Key, &setting.Value, &setting.Description, &setting.UpdatedAt); err != nil {
			return nil, domain.WrapError(domain.KindPersistence, err, "failed to scan setting")
		}
		settings = append(settings, setting)
	}
	if err = rows.Err(); err != nil {
		return nil, domain.WrapError(domain.KindPersistence, err, "failed to list settings")
	}
	return settings, nil
}
