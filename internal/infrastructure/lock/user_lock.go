package lock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const retryInterval = 100 * time.Millisecond

// UserLocker serializes balance-changing operations of a single user.
// The returned release function must be called exactly once.
type UserLocker interface {
	LockUser(ctx context.Context, userID string) (release func(), err error)
}

func userLockKey(userID string) string {
	return fmt.Sprintf("duckwheel:lock:user:%s", userID)
}

// RedisUserLocker holds the per-user lock in Redis so that several server
// instances can share one database.
type RedisUserLocker struct {
	client     *redis.Client
	ttl        time.Duration
	maxRetries int
}

func NewRedisUserLocker(client *redis.Client, ttl time.Duration, maxRetries int) *RedisUserLocker {
	return &RedisUserLocker{client: client, ttl: ttl, maxRetries: maxRetries}
}

func (l *RedisUserLocker) LockUser(ctx context.Context, userID string) (func(), error) {
	dl := NewDistributedLock(l.client, userLockKey(userID), uuid.NewString(), l.ttl)
	if err := dl.Lock(ctx, retryInterval, l.maxRetries); err != nil {
		return nil, fmt.Errorf("lock user %s: %w", userID, err)
	}
	return func() {
		// The request context may already be cancelled here.
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if err := dl.Unlock(ctx); err != nil {
			logrus.WithError(err).WithField("user_id", userID).Warn("release user lock")
		}
	}, nil
}

// LocalUserLocker is an in-process UserLocker for single-instance deployments.
// A user's slot lives only while someone holds or waits for it.
type LocalUserLocker struct {
	mu    sync.Mutex
	slots map[string]*localSlot
}

type localSlot struct {
	ch   chan struct{}
	refs int
}

func NewLocalUserLocker() *LocalUserLocker {
	return &LocalUserLocker{slots: make(map[string]*localSlot)}
}

func (l *LocalUserLocker) acquireSlot(userID string) *localSlot {
	l.mu.Lock()
	defer l.mu.Unlock()
	s, ok := l.slots[userID]
	if !ok {
		s = &localSlot{ch: make(chan struct{}, 1)}
		l.slots[userID] = s
	}
	s.refs++
	return s
}

func (l *LocalUserLocker) releaseSlot(userID string, s *localSlot) {
	l.mu.Lock()
	defer l.mu.Unlock()
	s.refs--
	if s.refs == 0 {
		delete(l.slots, userID)
	}
}

func (l *LocalUserLocker) LockUser(ctx context.Context, userID string) (func(), error) {
	s := l.acquireSlot(userID)
	select {
	case s.ch <- struct{}{}:
	case <-ctx.Done():
		l.releaseSlot(userID, s)
		return nil, fmt.Errorf("lock user %s: %w", userID, ctx.Err())
	}
	var once sync.Once
	return func() {
		once.Do(func() {
			<-s.ch
			l.releaseSlot(userID, s)
		})
	}, nil
}
