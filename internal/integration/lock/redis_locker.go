// Package lock provides budget-locker implementations: a Redis-backed
// distributed lock for deployments with multiple writers, and a noop for
// single-process use where optimistic versioning alone suffices.
package lock

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"

	"github.com/finance-tracker/consistency/internal/application/adapter"
	domainerror "github.com/finance-tracker/consistency/internal/domain/error"
)

// defaultLockTTL bounds how long a reconciliation may hold a budget lock
// before it is considered abandoned.
const defaultLockTTL = 30 * time.Second

// RedisLocker implements adapter.BudgetLocker with redislock.
type RedisLocker struct {
	client *redislock.Client
	ttl    time.Duration
}

// NewRedisLocker creates a new Redis-backed budget locker. A zero ttl falls
// back to defaultLockTTL.
func NewRedisLocker(client *redis.Client, ttl time.Duration) *RedisLocker {
	if ttl <= 0 {
		ttl = defaultLockTTL
	}
	return &RedisLocker{
		client: redislock.New(client),
		ttl:    ttl,
	}
}

// Lock acquires the per-budget lock and returns its release function.
func (l *RedisLocker) Lock(ctx context.Context, budgetID string) (func(), error) {
	lock, err := l.client.Obtain(ctx, fmt.Sprintf("budget-lock:%s", budgetID), l.ttl, nil)
	if err == redislock.ErrNotObtained {
		return nil, domainerror.ErrBudgetLockNotObtained
	}
	if err != nil {
		return nil, err
	}

	release := func() {
		if err := lock.Release(context.Background()); err != nil {
			slog.Warn("Failed to release budget lock", "budgetID", budgetID, "error", err)
		}
	}
	return release, nil
}

// NoopLocker implements adapter.BudgetLocker without any locking.
type NoopLocker struct{}

// NewNoopLocker creates a locker that always succeeds immediately.
func NewNoopLocker() *NoopLocker {
	return &NoopLocker{}
}

// Lock returns a no-op release function.
func (l *NoopLocker) Lock(_ context.Context, _ string) (func(), error) {
	return func() {}, nil
}

var (
	_ adapter.BudgetLocker = (*RedisLocker)(nil)
	_ adapter.BudgetLocker = (*NoopLocker)(nil)
)
