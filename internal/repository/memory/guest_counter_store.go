package memory

import (
	"context"
	"sync"
	"time"

	"chatshare-be/internal/repository/contract"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// GuestCounterStore keeps guest counters in process memory. Counters are lost
// on restart, so it only suits single instance development setups.
type GuestCounterStore struct {
	mu    sync.Mutex
	cache *cache.Cache
	ttl   time.Duration
}

// NewGuestCounterStore keeps counters for ttl, or forever when ttl is zero.
func NewGuestCounterStore(ttl time.Duration) contract.GuestCounterStore {
	expiration := cache.NoExpiration
	if ttl > 0 {
		expiration = ttl
	}
	return &GuestCounterStore{
		cache: cache.New(expiration, 10*time.Minute),
		ttl:   expiration,
	}
}

func guestKey(guestId uuid.UUID) string { return "id:" + guestId.String() }
func ipKey(ip string) string            { return "ip:" + ip }

func (s *GuestCounterStore) Counts(ctx context.Context, guestId uuid.UUID, ip string) (int64, int64, error) {
	return s.get(guestKey(guestId)), s.get(ipKey(ip)), nil
}

func (s *GuestCounterStore) Increment(ctx context.Context, guestId uuid.UUID, ip string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, key := range []string{guestKey(guestId), ipKey(ip)} {
		if _, found := s.cache.Get(key); !found {
			s.cache.Set(key, int64(1), s.ttl)
			continue
		}
		if _, err := s.cache.IncrementInt64(key, 1); err != nil {
			return err
		}
	}
	return nil
}

func (s *GuestCounterStore) get(key string) int64 {
	if x, found := s.cache.Get(key); found {
		return x.(int64)
	}
	return 0
}
