package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/johnquangdev/coachlink/pkg/config"
)

// ErrLockHeld is returned when another holder owns the lock.
var ErrLockHeld = errors.New("lock held by another owner")

// Locker is a TTL mutex shared by every process using the same backend.
type Locker interface {
	// TryLock acquires key for ttl. The returned release func is safe to
	// call once the work is done; it never releases a lock taken over by
	// someone else after expiry.
	TryLock(ctx context.Context, key string, ttl time.Duration) (release func(), err error)
}

var (
	_ Locker = (*MemoryLocker)(nil)
	_ Locker = (*RedisLocker)(nil)
)

// MemoryLocker locks within a single process.
type MemoryLocker struct {
	store *MemoryStore
}

// NewMemoryLocker creates a locker on top of store
func NewMemoryLocker(store *MemoryStore) *MemoryLocker {
	return &MemoryLocker{store: store}
}

// TryLock implements Locker
func (l *MemoryLocker) TryLock(_ context.Context, key string, ttl time.Duration) (func(), error) {
	token := uuid.NewString()
	if !l.store.SetNX(key, token, ttl) {
		return nil, ErrLockHeld
	}
	return func() { l.store.CompareAndDelete(key, token) }, nil
}

// releaseScript deletes the key only if it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker locks across replicas with SET NX PX.
type RedisLocker struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisLocker connects to Redis and verifies the connection
func NewRedisLocker(cfg *config.Config, logger *zap.Logger) (*RedisLocker, error) {
	c := redis.NewClient(&redis.Options{
		Addr:     cfg.GetRedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := c.Ping(ctx).Err(); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("redis: ping: %w", err)
	}
	return &RedisLocker{client: c, logger: logger}, nil
}

// NewRedisLockerFromClient wraps an existing client
func NewRedisLockerFromClient(client *redis.Client, logger *zap.Logger) *RedisLocker {
	return &RedisLocker{client: client, logger: logger}
}

// TryLock implements Locker
func (l *RedisLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (func(), error) {
	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("redis: setnx %s: %w", key, err)
	}
	if !ok {
		return nil, ErrLockHeld
	}
	return func() {
		releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := releaseScript.Run(releaseCtx, l.client, []string{key}, token).Err(); err != nil && l.logger != nil {
			l.logger.Warn("failed to release redis lock", zap.String("key", key), zap.Error(err))
		}
	}, nil
}

// Close closes the Redis connection
func (l *RedisLocker) Close() error {
	return l.client.Close()
}
