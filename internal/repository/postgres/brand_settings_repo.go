// internal/repository/postgres/brand_settings_repo.go
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"leadflow-service/internal/domain/brand"
	xerrors "leadflow-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BrandSettingsRepository struct {
	db *pgxpool.Pool
}

func NewBrandSettingsRepository(db *pgxpool.Pool) *BrandSettingsRepository {
	return &BrandSettingsRepository{db: db}
}

// Get returns the settings row for one scope, or ErrNotFound.
func (r *BrandSettingsRepository) Get(ctx context.Context, tenantScope string) (*brand.BrandSettings, error) {
	query := `
		SELECT id, tenant_scope, primary_color, accent_color, background_color,
		       status_colors, logo_data_url, dashboard_title, updated_at
		FROM brand_settings
		WHERE tenant_scope = $1
	`

	var b brand.BrandSettings
	var statusColorsJSON []byte

	err := r.db.QueryRow(ctx, query, tenantScope).Scan(
		&b.ID, &b.TenantScope, &b.PrimaryColor, &b.AccentColor, &b.BackgroundColor,
		&statusColorsJSON, &b.LogoDataURL, &b.DashboardTitle, &b.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get brand settings for scope %q: %w", tenantScope, err)
	}

	if len(statusColorsJSON) > 0 {
		if err := json.Unmarshal(statusColorsJSON, &b.StatusColors); err != nil {
			return nil, fmt.Errorf("failed to unmarshal status colors: %w", err)
		}
	}

	return &b, nil
}

// Upsert writes the one settings row for the scope. The unique key on
// tenant_scope is what prevents two near-simultaneous writes from producing
// two "latest" rows.
func (r *BrandSettingsRepository) Upsert(ctx context.Context, b *brand.BrandSettings) error {
	var statusColorsJSON []byte
	var err error
	if b.StatusColors != nil {
		statusColorsJSON, err = json.Marshal(b.StatusColors)
		if err != nil {
			return fmt.Errorf("failed to marshal status colors: %w", err)
		}
	}

	query := `
		INSERT INTO brand_settings (
			tenant_scope, primary_color, accent_color, background_color,
			status_colors, logo_data_url, dashboard_title
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (tenant_scope) DO UPDATE SET
			primary_color    = EXCLUDED.primary_color,
			accent_color     = EXCLUDED.accent_color,
			background_color = EXCLUDED.background_color,
			status_colors    = EXCLUDED.status_colors,
			logo_data_url    = EXCLUDED.logo_data_url,
			dashboard_title  = EXCLUDED.dashboard_title,
			updated_at       = now()
		RETURNING id, updated_at
	`

	err = r.db.QueryRow(
		ctx, query,
		b.TenantScope, b.PrimaryColor, b.AccentColor, b.BackgroundColor,
		statusColorsJSON, b.LogoDataURL, b.DashboardTitle,
	).Scan(&b.ID, &b.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to upsert brand settings for scope %q: %w", b.TenantScope, err)
	}

	return nil
}
