package otc

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/samber/oops"
)

const keyPrefix = "otc:"

// compare-and-delete so a code is consumed at most once across instances
var consumeScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisStore shares codes between service instances. Expiry is Redis TTL.
type RedisStore struct {
	rdb redis.UniversalClient
}

func NewRedisStore(rdb redis.UniversalClient) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func redisKey(key string) string { return keyPrefix + key }

func (s *RedisStore) Set(ctx context.Context, key, code string, ttl time.Duration) error {
	if err := s.rdb.Set(ctx, redisKey(key), code, ttl).Err(); err != nil {
		return oops.In("otc_store").With("op", "set").Wrap(err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	code, err := s.rdb.Get(ctx, redisKey(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, oops.In("otc_store").With("op", "get").Wrap(err)
	}
	return code, true, nil
}

func (s *RedisStore) Consume(ctx context.Context, key, code string) (bool, error) {
	n, err := consumeScript.Run(ctx, s.rdb, []string{redisKey(key)}, code).Int()
	if err != nil {
		return false, oops.In("otc_store").With("op", "consume").Wrap(err)
	}
	return n == 1, nil
}

func (s *RedisStore) Invalidate(ctx context.Context, key string) error {
	if err := s.rdb.Del(ctx, redisKey(key)).Err(); err != nil {
		return oops.In("otc_store").With("op", "invalidate").Wrap(err)
	}
	return nil
}

var _ Store = (*RedisStore)(nil)
