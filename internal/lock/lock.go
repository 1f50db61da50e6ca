package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"physicsclass-be/internal/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var (
	ErrLocked        = errors.New("resource is locked")
	ErrFailedAcquire = errors.New("failed to acquire lock")
)

const (
	DefaultKeyPrefix = "lock:"

	// releaseScriptBody deletes the key only while it still holds our token.
	releaseScriptBody = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`
)

// Locker hands out short-lived exclusive locks keyed by an arbitrary string.
type Locker interface {
	// Acquire returns ErrLocked when someone else holds key.
	Acquire(ctx context.Context, key string, ttl time.Duration) (release func(), err error)
}

// client is the subset of *redis.Client the locker needs.
type client interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
}

type redisLocker struct {
	rdb client
}

func NewRedisLocker(rdb client) Locker {
	return &redisLocker{rdb: rdb}
}

func (l *redisLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (func(), error) {
	lockKey := DefaultKeyPrefix + key
	token := uuid.NewString()

	ok, err := l.rdb.SetNX(ctx, lockKey, token, ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedAcquire, err)
	}
	if !ok {
		return nil, ErrLocked
	}

	release := func() {
		// The caller's ctx may already be cancelled by the time we release.
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		if err := l.rdb.Eval(ctx, releaseScriptBody, []string{lockKey}, token).Err(); err != nil {
			logger.L().Warn("failed to release lock",
				zap.String("key", lockKey),
				zap.Error(err),
			)
		}
	}
	return release, nil
}

type noopLocker struct{}

// NewNoopLocker is used when no Redis is configured; every Acquire succeeds.
func NewNoopLocker() Locker {
	return noopLocker{}
}

func (noopLocker) Acquire(context.Context, string, time.Duration) (func(), error) {
	return func() {}, nil
}
