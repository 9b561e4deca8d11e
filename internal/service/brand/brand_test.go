package brand_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	domain "leadflow-service/internal/domain/brand"
	"leadflow-service/internal/domain/scope"
	xerrors "leadflow-service/internal/pkg/errors"
	service "leadflow-service/internal/service/brand"
)

type fakeBrandStore struct {
	mu   sync.Mutex
	rows map[string]*domain.BrandSettings
}

func newFakeBrandStore() *fakeBrandStore {
	return &fakeBrandStore{rows: make(map[string]*domain.BrandSettings)}
}

func (f *fakeBrandStore) Get(ctx context.Context, tenantScope string) (*domain.BrandSettings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.rows[tenantScope]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (f *fakeBrandStore) Upsert(ctx context.Context, b *domain.BrandSettings) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *b
	f.rows[b.TenantScope] = &cp
	return nil
}

type fakeCache struct {
	mu   sync.Mutex
	data map[string]string
	sets int
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string]string)}
}

func (f *fakeCache) Get(ctx context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[key]
	if !ok {
		return "", service.ErrCacheMiss
	}
	return v, nil
}

func (f *fakeCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = value
	f.sets++
	return nil
}

func (f *fakeCache) Del(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.data, key)
	return nil
}

func TestGetBrand_FallsBackTenantToGlobal(t *testing.T) {
	store := newFakeBrandStore()
	require.NoError(t, store.Upsert(context.Background(), &domain.BrandSettings{
		TenantScope:  "",
		PrimaryColor: "#000000",
	}))

	svc := service.NewBrandService(store, nil, service.DefaultConfig(), zap.NewNop())

	b, err := svc.GetBrand(context.Background(), scope.Tenant("acme"))
	require.NoError(t, err)
	assert.Equal(t, "#000000", b.PrimaryColor)
}

func TestGetBrand_DefaultsWhenNothingStored(t *testing.T) {
	svc := service.NewBrandService(newFakeBrandStore(), nil, service.DefaultConfig(), zap.NewNop())

	b, err := svc.GetBrand(context.Background(), scope.Tenant("acme"))
	require.NoError(t, err)
	assert.NotEmpty(t, b.PrimaryColor)
	assert.NotEmpty(t, b.StatusColors)
}

func TestGetBrand_CachesReads(t *testing.T) {
	store := newFakeBrandStore()
	require.NoError(t, store.Upsert(context.Background(), &domain.BrandSettings{
		TenantScope:  "acme",
		PrimaryColor: "#111111",
	}))
	cache := newFakeCache()
	svc := service.NewBrandService(store, cache, service.DefaultConfig(), zap.NewNop())

	_, err := svc.GetBrand(context.Background(), scope.Tenant("acme"))
	require.NoError(t, err)
	assert.Equal(t, 1, cache.sets)

	// Second read is served from cache even if the store row changes
	// underneath.
	store.rows["acme"].PrimaryColor = "#222222"
	b, err := svc.GetBrand(context.Background(), scope.Tenant("acme"))
	require.NoError(t, err)
	assert.Equal(t, "#111111", b.PrimaryColor)
}

func TestUpdateBrand_InvalidatesCache(t *testing.T) {
	store := newFakeBrandStore()
	cache := newFakeCache()
	svc := service.NewBrandService(store, cache, service.DefaultConfig(), zap.NewNop())
	ctx := context.Background()

	_, err := svc.GetBrand(ctx, scope.Tenant("acme"))
	require.NoError(t, err)

	_, err = svc.UpdateBrand(ctx, scope.Tenant("acme"), &domain.UpdateBrandRequest{PrimaryColor: "#333333"})
	require.NoError(t, err)

	b, err := svc.GetBrand(ctx, scope.Tenant("acme"))
	require.NoError(t, err)
	assert.Equal(t, "#333333", b.PrimaryColor)
}

func TestUpdateBrand_RejectsOversizedLogo(t *testing.T) {
	svc := service.NewBrandService(newFakeBrandStore(), nil, service.Config{MaxLogoBytes: 10}, zap.NewNop())

	_, err := svc.UpdateBrand(context.Background(), scope.Tenant("acme"), &domain.UpdateBrandRequest{
		LogoDataURL: "data:image/png;base64,AAAAAAAAAAAAAAAA",
	})
	assert.ErrorIs(t, err, xerrors.ErrPayloadTooLarge)
}
