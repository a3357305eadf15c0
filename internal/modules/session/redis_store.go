// README: Session store backed by Redis string keys with TTL and a Lua compare-and-swap.
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	seqKeyFmt       = "session:%s:seq"
	committedKeyFmt = "session:%s:committed"
	itineraryKeyFmt = "session:%s:itinerary"
	identityKeyFmt  = "session:%s:identity"
	// DefaultTTL bounds how long an idle session's state is kept.
	DefaultTTL = 7 * 24 * time.Hour
)

// saveIfNewer writes the payload only when ARGV[1] beats the committed
// sequence. KEYS: committed, itinerary. ARGV: seq, payload, ttl seconds.
var saveIfNewer = redis.NewScript(`
local cur = tonumber(redis.call('GET', KEYS[1]) or '0')
if cur >= tonumber(ARGV[1]) then
  return 0
end
redis.call('SET', KEYS[1], ARGV[1], 'EX', ARGV[3])
redis.call('SET', KEYS[2], ARGV[2], 'EX', ARGV[3])
return 1
`)

type RedisStore struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewRedisStore(redis *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{redis: redis, ttl: ttl}
}

func (s *RedisStore) NextSeq(ctx context.Context, id string) (uint64, error) {
	key := fmt.Sprintf(seqKeyFmt, id)
	pipe := s.redis.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return uint64(incr.Val()), nil
}

func (s *RedisStore) SaveItinerary(ctx context.Context, id string, seq uint64, payload []byte) (bool, error) {
	keys := []string{fmt.Sprintf(committedKeyFmt, id), fmt.Sprintf(itineraryKeyFmt, id)}
	n, err := saveIfNewer.Run(ctx, s.redis, keys, seq, payload, int64(s.ttl/time.Second)).Int()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (s *RedisStore) LoadItinerary(ctx context.Context, id string) ([]byte, bool, error) {
	b, err := s.redis.Get(ctx, fmt.Sprintf(itineraryKeyFmt, id)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

func (s *RedisStore) SetIdentity(ctx context.Context, id, email string) error {
	return s.redis.Set(ctx, fmt.Sprintf(identityKeyFmt, id), email, s.ttl).Err()
}

func (s *RedisStore) Identity(ctx context.Context, id string) (string, bool, error) {
	v, err := s.redis.Get(ctx, fmt.Sprintf(identityKeyFmt, id)).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (s *RedisStore) ClearIdentity(ctx context.Context, id string) error {
	return s.redis.Del(ctx, fmt.Sprintf(identityKeyFmt, id)).Err()
}
