// README: Safety alert queries, cached in Redis.
package alerts

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"fleetops/internal/modules/driver"
)

const (
	cacheKeyPrefix = "alerts:licenses:%d:%d"
	generationKey  = "alerts:licenses:gen"
)

type DriverSource interface {
	ExpiringLicenses(ctx context.Context, withinDays int) ([]*driver.Driver, error)
}

// Service caches the expiring-license query. Entries carry a
// generation number; driver mutations bump the generation instead of
// chasing individual keys.
type Service struct {
	drivers DriverSource
	redis   *redis.Client
	ttl     time.Duration
}

func NewService(drivers DriverSource, rdb *redis.Client, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &Service{drivers: drivers, redis: rdb, ttl: ttl}
}

func (s *Service) ExpiringLicenses(ctx context.Context, withinDays int) ([]*driver.Driver, error) {
	if s.redis == nil {
		return s.drivers.ExpiringLicenses(ctx, withinDays)
	}
	gen, _ := s.redis.Get(ctx, generationKey).Int64()
	key := fmt.Sprintf(cacheKeyPrefix, gen, withinDays)

	if raw, err := s.redis.Get(ctx, key).Bytes(); err == nil {
		var cached []*driver.Driver
		if json.Unmarshal(raw, &cached) == nil {
			return cached, nil
		}
	}

	out, err := s.drivers.ExpiringLicenses(ctx, withinDays)
	if err != nil {
		return nil, err
	}
	if raw, err := json.Marshal(out); err == nil {
		// Cache failures are not worth surfacing; the query is cheap.
		_ = s.redis.Set(ctx, key, raw, s.ttl).Err()
	}
	return out, nil
}

// Invalidate drops all cached alert entries.
func (s *Service) Invalidate(ctx context.Context) {
	if s.redis == nil {
		return
	}
	_ = s.redis.Incr(ctx, generationKey).Err()
}
