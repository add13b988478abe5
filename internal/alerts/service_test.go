// README: Alert service tests with a stub driver source.
package alerts

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleetops/internal/modules/driver"
)

type stubDrivers struct {
	calls int
	out   []*driver.Driver
	err   error
}

func (s *stubDrivers) ExpiringLicenses(ctx context.Context, withinDays int) ([]*driver.Driver, error) {
	s.calls++
	return s.out, s.err
}

func TestExpiringLicensesWithoutRedis(t *testing.T) {
	stub := &stubDrivers{out: []*driver.Driver{
		{ID: "d1", FullName: "A", LicenseExpiryDate: time.Now()},
	}}
	svc := NewService(stub, nil, time.Minute)

	out, err := svc.ExpiringLicenses(context.Background(), 30)
	require.NoError(t, err)
	assert.Len(t, out, 1)
	assert.Equal(t, 1, stub.calls)

	// No cache: every call hits the source.
	_, err = svc.ExpiringLicenses(context.Background(), 30)
	require.NoError(t, err)
	assert.Equal(t, 2, stub.calls)
}

func TestInvalidateWithoutRedisIsNoop(t *testing.T) {
	svc := NewService(&stubDrivers{}, nil, time.Minute)
	svc.Invalidate(context.Background())
}

func TestSourceErrorPropagates(t *testing.T) {
	stub := &stubDrivers{err: assert.AnError}
	svc := NewService(stub, nil, time.Minute)

	_, err := svc.ExpiringLicenses(context.Background(), 30)
	assert.ErrorIs(t, err, assert.AnError)
}

func setupRedis(t *testing.T) *redis.Client {
	t.Helper()
	addr := os.Getenv("FLEET_REDIS_ADDR")
	if addr == "" {
		t.Skip("FLEET_REDIS_ADDR not set; skipping redis-backed tests")
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		t.Fatalf("redis ping: %v", err)
	}
	t.Cleanup(func() { rdb.Close() })
	return rdb
}

func TestExpiringLicensesCachedInRedis(t *testing.T) {
	rdb := setupRedis(t)
	ctx := context.Background()

	stub := &stubDrivers{out: []*driver.Driver{
		{ID: "d_cached", FullName: "Cache Me", LicenseExpiryDate: time.Now()},
	}}
	svc := NewService(stub, rdb, time.Minute)
	// Bump to a fresh generation so earlier runs cannot serve stale data.
	svc.Invalidate(ctx)

	first, err := svc.ExpiringLicenses(ctx, 30)
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, 1, stub.calls)

	// Within the TTL the second call is served from the cache.
	second, err := svc.ExpiringLicenses(ctx, 30)
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, first[0].ID, second[0].ID)
	assert.Equal(t, 1, stub.calls)

	// Invalidation bumps the generation, forcing a re-query.
	svc.Invalidate(ctx)
	_, err = svc.ExpiringLicenses(ctx, 30)
	require.NoError(t, err)
	assert.Equal(t, 2, stub.calls)
}

func TestExpiringLicensesCacheKeyedByWindow(t *testing.T) {
	rdb := setupRedis(t)
	ctx := context.Background()

	stub := &stubDrivers{out: []*driver.Driver{
		{ID: "d_window", FullName: "Window", LicenseExpiryDate: time.Now()},
	}}
	svc := NewService(stub, rdb, time.Minute)
	svc.Invalidate(ctx)

	_, err := svc.ExpiringLicenses(ctx, 30)
	require.NoError(t, err)
	assert.Equal(t, 1, stub.calls)

	// A different day window is a different cache entry.
	_, err = svc.ExpiringLicenses(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, 2, stub.calls)
}
