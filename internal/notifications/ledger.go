package notifications

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Ledger records which confirmations have been sent. Claim holds a key for
// lease and returns false when it is already held. Commit keeps a claimed key
// for the full dedupe ttl once the confirmation went out. A claim that is
// never committed lapses after its lease, so a crashed worker cannot block
// redelivery.
type Ledger interface {
	Claim(ctx context.Context, key string, lease time.Duration) (bool, error)
	Commit(ctx context.Context, key string) error
	Release(ctx context.Context, key string) error
}

const ledgerPrefix = "mentorbook:notifications:"

type RedisLedger struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisLedger(rdb *redis.Client, ttl time.Duration) *RedisLedger {
	return &RedisLedger{rdb: rdb, ttl: ttl}
}

func (l *RedisLedger) Claim(ctx context.Context, key string, lease time.Duration) (bool, error) {
	ok, err := l.rdb.SetNX(ctx, ledgerPrefix+key, "pending", lease).Result()
	if err != nil {
		return false, fmt.Errorf("failed to claim %s: %w", key, err)
	}
	return ok, nil
}

func (l *RedisLedger) Commit(ctx context.Context, key string) error {
	sentAt := time.Now().UTC().Format(time.RFC3339)
	if err := l.rdb.Set(ctx, ledgerPrefix+key, sentAt, l.ttl).Err(); err != nil {
		return fmt.Errorf("failed to commit %s: %w", key, err)
	}
	return nil
}

func (l *RedisLedger) Release(ctx context.Context, key string) error {
	if err := l.rdb.Del(ctx, ledgerPrefix+key).Err(); err != nil {
		return fmt.Errorf("failed to release %s: %w", key, err)
	}
	return nil
}

// MemoryLedger is a process-local Ledger for single-worker deployments and tests.
type MemoryLedger struct {
	mu      sync.Mutex
	ttl     time.Duration
	claimed map[string]time.Time
}

func NewMemoryLedger(ttl time.Duration) *MemoryLedger {
	return &MemoryLedger{
		ttl:     ttl,
		claimed: make(map[string]time.Time),
	}
}

func (l *MemoryLedger) Claim(_ context.Context, key string, lease time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if expires, ok := l.claimed[key]; ok && now.Before(expires) {
		return false, nil
	}
	l.claimed[key] = now.Add(lease)
	return true, nil
}

func (l *MemoryLedger) Commit(_ context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.claimed[key] = time.Now().Add(l.ttl)
	return nil
}

func (l *MemoryLedger) Release(_ context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.claimed, key)
	return nil
}
