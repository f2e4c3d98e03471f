package repo

import (
	"context"

	"github.com/go-redis/redis/v8"
)

// Redis backs the login/register rate limiter only; the user table itself
// never leaves process memory.
type Redis struct{ C *redis.Client }

func NewRedis(addr string) *Redis {
	return &Redis{C: redis.NewClient(&redis.Options{Addr: addr})}
}

func (r *Redis) Ping(ctx context.Context) error { return r.C.Ping(ctx).Err() }
func (r *Redis) Close() error                   { return r.C.Close() }
