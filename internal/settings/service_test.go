package settings

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/estoque-erp/estoque-erp/internal/shared"
)

type mockRepository struct {
	setting *Setting
	gets    int
}

func (m *mockRepository) Get(ctx context.Context) (*Setting, error) {
	m.gets++
	if m.setting == nil {
		return nil, shared.ErrNotFound
	}
	copied := *m.setting
	return &copied, nil
}

func (m *mockRepository) Update(ctx context.Context, s *Setting) error {
	if m.setting == nil {
		return shared.ErrNotFound
	}
	copied := *s
	m.setting = &copied
	return nil
}

func seededRepository() *mockRepository {
	return &mockRepository{setting: &Setting{
		ID:                uuid.New(),
		LowStockThreshold: 10,
		CompanyName:       "Estoque",
		BirthdayDiscount:  decimal.NewFromInt(5),
		JarDiscount:       decimal.NewFromInt(2),
	}}
}

func testClient(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestGetCachesSecondRead(t *testing.T) {
	repo := seededRepository()
	svc := NewService(repo, testClient(t), 5*time.Minute)

	first, err := svc.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Estoque", first.CompanyName)
	assert.Equal(t, 1, repo.gets)

	second, err := svc.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, repo.gets, "second read must come from the cache")
}

func TestUpdateInvalidatesCache(t *testing.T) {
	repo := seededRepository()
	svc := NewService(repo, testClient(t), 5*time.Minute)

	_, err := svc.Get(context.Background())
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), UpdateSettingRequest{
		LowStockThreshold: 25,
		CompanyName:       "Estoque Velas",
	})
	require.NoError(t, err)
	assert.Equal(t, 25, updated.LowStockThreshold)

	// The stale cached copy is gone, so the next read sees the new value.
	fresh, err := svc.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 25, fresh.LowStockThreshold)
	assert.Equal(t, "Estoque Velas", fresh.CompanyName)
}

func TestGetWithoutCacheClient(t *testing.T) {
	repo := seededRepository()
	svc := NewService(repo, nil, 5*time.Minute)

	_, err := svc.Get(context.Background())
	require.NoError(t, err)
	_, err = svc.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, repo.gets)
}

func TestLowStockThreshold(t *testing.T) {
	repo := seededRepository()
	repo.setting.LowStockThreshold = 7
	svc := NewService(repo, testClient(t), 5*time.Minute)

	threshold, err := svc.LowStockThreshold(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, threshold)
}

func TestLowStockThresholdDefaultsWhenUnseeded(t *testing.T) {
	svc := NewService(&mockRepository{}, testClient(t), 5*time.Minute)

	threshold, err := svc.LowStockThreshold(context.Background())
	require.NoError(t, err)
	assert.Equal(t, defaultLowStockThreshold, threshold)
}
