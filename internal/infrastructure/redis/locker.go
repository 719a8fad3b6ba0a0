package redis

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/bsm/redislock"
	goredis "github.com/redis/go-redis/v9"

	"github.com/ledgerline/inventory-core/pkg/logging"
)

const (
	// DefaultLockTTL bounds how long a crashed holder can block other writers
	DefaultLockTTL = 30 * time.Second
	retryInterval  = 50 * time.Millisecond
)

// Config holds the Redis connection settings
type Config struct {
	Addr     string
	Password string
	DB       int
	LockTTL  time.Duration
}

// ConfigFromEnv reads REDIS_ADDR and REDIS_PASSWORD
func ConfigFromEnv() *Config {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	return &Config{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
		LockTTL:  DefaultLockTTL,
	}
}

// NewClient connects to Redis and pings it
func NewClient(ctx context.Context, config *Config) (*goredis.Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     config.Addr,
		Password: config.Password,
		DB:       config.DB,
		PoolSize: 100,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to ping redis at %s: %w", config.Addr, err)
	}
	return rdb, nil
}

// Locker serializes stock writers across processes with a Redis lock.
// A held lock is refreshed at half its TTL until released.
type Locker struct {
	client *redislock.Client
	ttl    time.Duration
	logger *logging.Logger
}

// NewLocker creates a locker over rdb
func NewLocker(rdb goredis.UniversalClient, ttl time.Duration, logger *logging.Logger) *Locker {
	if ttl <= 0 {
		ttl = DefaultLockTTL
	}
	return &Locker{
		client: redislock.New(rdb),
		ttl:    ttl,
		logger: logger.WithComponent("redis-locker"),
	}
}

// Lock blocks until key is held or ctx is done
func (l *Locker) Lock(ctx context.Context, key string) (func(), error) {
	opts := &redislock.Options{RetryStrategy: redislock.LinearBackoff(retryInterval)}

	for {
		lock, err := l.client.Obtain(ctx, key, l.ttl, opts)
		if err == nil {
			return l.hold(key, lock), nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if !errors.Is(err, redislock.ErrNotObtained) {
			return nil, fmt.Errorf("failed to obtain lock %s: %w", key, err)
		}
	}
}

// hold keeps lock alive until the returned release func runs
func (l *Locker) hold(key string, lock *redislock.Lock) func() {
	stop := make(chan struct{})
	done := make(chan struct{})

	go func() {
		defer close(done)
		ticker := time.NewTicker(l.ttl / 2)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				if err := lock.Refresh(context.Background(), l.ttl, nil); err != nil {
					l.logger.Warn("Failed to refresh lock", "key", key, "error", err)
					return
				}
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			close(stop)
			<-done
			if err := lock.Release(context.Background()); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
				l.logger.Warn("Failed to release lock", "key", key, "error", err)
			}
		})
	}
}
