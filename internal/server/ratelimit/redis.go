package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/bloodbay/internal/server/config"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "ratelimit:"

// incrWindow increments the counter and arms the window TTL in one step.
// A key found without a TTL is re-armed, so a counter can never outlive
// its window.
var incrWindow = redis.NewScript(`
local n = redis.call("INCR", KEYS[1])
if redis.call("PTTL", KEYS[1]) < 0 then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return n
`)

// RedisLimiter counts requests per key in fixed windows stored in Redis,
// so several server instances share one budget.
type RedisLimiter struct {
	client *redis.Client
	n      int64
	window time.Duration
}

func NewRedisLimiter(client *redis.Client, n int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{client: client, n: int64(n), window: window}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	count, err := incrWindow.Run(ctx, l.client, []string{keyPrefix + key}, l.window.Milliseconds()).Int64()
	if err != nil {
		return false, err
	}
	return count <= l.n, nil
}

// NewRedisClient connects to cfg.RedisAddr and checks the connection.
func NewRedisClient(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}
