package redisstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"chatshare-be/internal/repository/contract"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "chatshare:guest:"

// incrPairScript bumps both counters in one round trip. ARGV[1] is the TTL in
// seconds, 0 keeps the keys forever.
var incrPairScript = redis.NewScript(`
local ttl = tonumber(ARGV[1])
for i, key in ipairs(KEYS) do
  local c = redis.call("INCR", key)
  if c == 1 and ttl > 0 then
    redis.call("EXPIRE", key, ttl)
  end
end
return 1
`)

type GuestCounterStore struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewGuestCounterStore(rdb *redis.Client, ttl time.Duration) contract.GuestCounterStore {
	return &GuestCounterStore{redis: rdb, ttl: ttl}
}

func GuestKey(guestId uuid.UUID) string { return keyPrefix + "id:" + guestId.String() }
func IPKey(ip string) string            { return keyPrefix + "ip:" + ip }

func (s *GuestCounterStore) Counts(ctx context.Context, guestId uuid.UUID, ip string) (int64, int64, error) {
	values, err := s.redis.MGet(ctx, GuestKey(guestId), IPKey(ip)).Result()
	if err != nil {
		return 0, 0, fmt.Errorf("guest counters mget: %w", err)
	}

	counts := make([]int64, 2)
	for i, v := range values {
		if v == nil {
			continue
		}
		var n int64
		if _, err := fmt.Sscan(fmt.Sprint(v), &n); err != nil {
			return 0, 0, fmt.Errorf("guest counter %d: %w", i, err)
		}
		counts[i] = n
	}
	return counts[0], counts[1], nil
}

func (s *GuestCounterStore) Increment(ctx context.Context, guestId uuid.UUID, ip string) error {
	// EXPIRE takes whole seconds; round up so a short TTL still expires.
	ttl := int64((s.ttl + time.Second - 1) / time.Second)
	err := incrPairScript.Run(ctx, s.redis, []string{GuestKey(guestId), IPKey(ip)}, ttl).Err()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("guest counters incr: %w", err)
	}
	return nil
}
