package queue

import (
	"context"
	"time"

	"github.com/redis/rueidis"
)

type RedisIntentGuard struct {
	client rueidis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisIntentGuard(client rueidis.Client, keyPrefix string, ttl time.Duration) *RedisIntentGuard {
	return &RedisIntentGuard{
		client: client,
		prefix: keyPrefix,
		ttl:    ttl,
	}
}

// Claim stores the key with SET NX EX; a nil reply means another delivery got there first.
func (r *RedisIntentGuard) Claim(ctx context.Context, key string) (bool, error) {
	seconds := int64(r.ttl / time.Second)
	if seconds < 1 {
		seconds = 1
	}

	cmd := r.client.B().Set().Key(r.prefix + key).Value("1").Nx().ExSeconds(seconds).Build()
	if err := r.client.Do(ctx, cmd).Error(); err != nil {
		if rueidis.IsRedisNil(err) {
			return false, nil
		}
		return false, err
	}

	return true, nil
}
