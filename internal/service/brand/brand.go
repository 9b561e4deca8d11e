// internal/service/brand/brand.go
package brand

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"leadflow-service/internal/domain/brand"
	"leadflow-service/internal/domain/scope"
	xerrors "leadflow-service/internal/pkg/errors"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const cacheTTL = 5 * time.Minute

// Store persists one settings row per scope.
type Store interface {
	Get(ctx context.Context, tenantScope string) (*brand.BrandSettings, error)
	Upsert(ctx context.Context, b *brand.BrandSettings) error
}

// Cache is the read-through cache in front of the settings store.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

var ErrCacheMiss = errors.New("cache miss")

// redisCache adapts a redis client to the Cache interface.
type redisCache struct {
	client *redis.Client
}

func NewRedisCache(client *redis.Client) Cache {
	return &redisCache{client: client}
}

func (c *redisCache) Get(ctx context.Context, key string) (string, error) {
	v, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrCacheMiss
	}
	return v, err
}

func (c *redisCache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	return c.client.Set(ctx, key, value, ttl).Err()
}

func (c *redisCache) Del(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}

type Config struct {
	// MaxLogoBytes caps the logo data URL; oversize payloads are rejected
	// before any write.
	MaxLogoBytes int
}

func DefaultConfig() Config {
	return Config{MaxLogoBytes: 512 * 1024}
}

type BrandService struct {
	store  Store
	cache  Cache
	cfg    Config
	logger *zap.Logger
}

func NewBrandService(store Store, cache Cache, cfg Config, logger *zap.Logger) *BrandService {
	if cfg.MaxLogoBytes <= 0 {
		cfg.MaxLogoBytes = DefaultConfig().MaxLogoBytes
	}
	return &BrandService{store: store, cache: cache, cfg: cfg, logger: logger}
}

// GetBrand returns the settings for a scope, falling back to the global
// defaults when the instance has none of its own. Customer records never get
// this fallback; it applies to theming only.
func (s *BrandService) GetBrand(ctx context.Context, sc scope.Scope) (*brand.BrandSettings, error) {
	key := cacheKey(sc)

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, key); err == nil {
			var b brand.BrandSettings
			if err := json.Unmarshal([]byte(cached), &b); err == nil {
				return &b, nil
			}
			// A corrupt entry is replaced on the next successful read.
			_ = s.cache.Del(ctx, key)
		}
	}

	b, err := s.store.Get(ctx, sc.TenantID())
	if errors.Is(err, xerrors.ErrNotFound) && !sc.IsGlobal() {
		b, err = s.store.Get(ctx, "")
	}
	if errors.Is(err, xerrors.ErrNotFound) {
		b = defaultSettings()
		err = nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load brand settings for scope %s: %w", sc, err)
	}

	if s.cache != nil {
		if data, merr := json.Marshal(b); merr == nil {
			if cerr := s.cache.Set(ctx, key, string(data), cacheTTL); cerr != nil {
				s.logger.Warn("failed to cache brand settings", zap.Error(cerr))
			}
		}
	}

	return b, nil
}

// UpdateBrand upserts the settings row for the scope and invalidates its
// cache entry.
func (s *BrandService) UpdateBrand(ctx context.Context, sc scope.Scope, req *brand.UpdateBrandRequest) (*brand.BrandSettings, error) {
	if len(req.LogoDataURL) > s.cfg.MaxLogoBytes {
		return nil, fmt.Errorf("logo exceeds %d bytes: %w", s.cfg.MaxLogoBytes, xerrors.ErrPayloadTooLarge)
	}

	b := &brand.BrandSettings{
		TenantScope:     sc.TenantID(),
		PrimaryColor:    req.PrimaryColor,
		AccentColor:     req.AccentColor,
		BackgroundColor: req.BackgroundColor,
		StatusColors:    req.StatusColors,
		LogoDataURL:     req.LogoDataURL,
		DashboardTitle:  req.DashboardTitle,
	}

	if err := s.store.Upsert(ctx, b); err != nil {
		return nil, fmt.Errorf("failed to save brand settings for scope %s: %w", sc, err)
	}

	if s.cache != nil {
		if err := s.cache.Del(ctx, cacheKey(sc)); err != nil {
			s.logger.Warn("failed to invalidate brand cache", zap.Error(err))
		}
	}

	s.logger.Info("brand settings updated", zap.String("scope", sc.String()))

	return b, nil
}

func cacheKey(sc scope.Scope) string {
	if sc.IsGlobal() {
		return "brand:global"
	}
	return "brand:" + sc.TenantID()
}

func defaultSettings() *brand.BrandSettings {
	return &brand.BrandSettings{
		PrimaryColor:    "#1f2937",
		AccentColor:     "#3b82f6",
		BackgroundColor: "#f9fafb",
		DashboardTitle:  "Lead Pipeline",
		StatusColors: map[string]string{
			"Pending":    "#9ca3af",
			"Scheduled":  "#f59e0b",
			"Completed":  "#10b981",
			"Registered": "#2563eb",
		},
	}
}
