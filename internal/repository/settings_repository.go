package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mlmarketplace/storefront/internal/domain"
	"github.com/mlmarketplace/storefront/internal/port"
)

type settingsRepository struct {
	pool *pgxpool.Pool
}

func NewSettings(pool *pgxpool.Pool) (port.SettingsRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is nil")
	}
	return &settingsRepository{pool: pool}, nil
}

func (r *settingsRepository) GetAll(ctx context.Context) (domain.DisplaySettings, error) {
	rows, err := r.pool.Query(ctx, `SELECT field, enabled FROM display_settings`)
	if err != nil {
		return nil, fmt.Errorf("pool.Query: %w", err)
	}
	defer rows.Close()

	settings := domain.DisplaySettings{}
	for rows.Next() {
		var (
			field   string
			enabled bool
		)
		if err := rows.Scan(&field, &enabled); err != nil {
			return nil, fmt.Errorf("rows.Scan: %w", err)
		}
		settings[field] = enabled
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows.Err: %w", err)
	}
	return settings, nil
}

func (r *settingsRepository) Update(ctx context.Context, settings domain.DisplaySettings) error {
	if len(settings) == 0 {
		return fmt.Errorf("settings is empty")
	}

	_, err := withTx(ctx, r.pool, func(tx pgx.Tx) (struct{}, error) {
		for field, enabled := range settings {
			_, err := tx.Exec(ctx, `
				INSERT INTO display_settings (field, enabled)
				VALUES ($1, $2)
				ON CONFLICT (field) DO UPDATE SET enabled = EXCLUDED.enabled`,
				field, enabled)
			if err != nil {
				return struct{}{}, fmt.Errorf("tx.Exec field[%s]: %w", field, err)
			}
		}
		return struct{}{}, nil
	})
	return err
}
