// internal/domain/brand/entity.go
package brand

import "time"

// BrandSettings holds one instance's dashboard theming. Exactly one row
// exists per scope: writes upsert by scope key instead of appending
// timestamped rows and scanning for the latest.
type BrandSettings struct {
	ID          int64  `json:"id" db:"id"`
	TenantScope string `json:"tenant_scope,omitempty" db:"tenant_scope"` // "" = global defaults

	PrimaryColor    string `json:"primary_color,omitempty" db:"primary_color"`
	AccentColor     string `json:"accent_color,omitempty" db:"accent_color"`
	BackgroundColor string `json:"background_color,omitempty" db:"background_color"`

	// StatusColors maps a pipeline status label to its board color.
	StatusColors map[string]string `json:"status_colors,omitempty" db:"status_colors"`

	LogoDataURL    string `json:"logo_data_url,omitempty" db:"logo_data_url"`
	DashboardTitle string `json:"dashboard_title,omitempty" db:"dashboard_title"`

	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type UpdateBrandRequest struct {
	PrimaryColor    string            `json:"primary_color" binding:"max=32"`
	AccentColor     string            `json:"accent_color" binding:"max=32"`
	BackgroundColor string            `json:"background_color" binding:"max=32"`
	StatusColors    map[string]string `json:"status_colors"`
	LogoDataURL     string            `json:"logo_data_url"`
	DashboardTitle  string            `json:"dashboard_title" binding:"max=120"`
}
