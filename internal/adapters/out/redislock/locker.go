// Package redislock is a ResourceLocker shared by every replica of the
// service. Each key is a Redis string set with SETNX and a TTL; the value is
// a per-acquisition owner token so a holder never deletes a lock it lost to
// expiry.
package redislock

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	DefaultTTL          = 30 * time.Second
	DefaultPollInterval = 25 * time.Millisecond

	keyPrefix = "dispatch:lock:"
)

// store is the part of Redis the locker needs.
type store interface {
	SetNX(ctx context.Context, key, owner string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key, owner string) error
}

// Locker acquires keys in sorted order, polling until each one is free.
type Locker struct {
	store store
	ttl   time.Duration
	poll  time.Duration
}

type Option func(*Locker)

func WithTTL(ttl time.Duration) Option {
	return func(l *Locker) {
		if ttl > 0 {
			l.ttl = ttl
		}
	}
}

func WithPollInterval(d time.Duration) Option {
	return func(l *Locker) {
		if d > 0 {
			l.poll = d
		}
	}
}

// New returns a locker over a go-redis client.
func New(client redis.UniversalClient, opts ...Option) (*Locker, error) {
	if client == nil {
		return nil, errors.New("redis client required for lock")
	}
	return newLocker(&clientStore{client: client}, opts...), nil
}

func newLocker(s store, opts ...Option) *Locker {
	l := &Locker{store: s, ttl: DefaultTTL, poll: DefaultPollInterval}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Lock blocks until every key is held or ctx is done. On failure the keys
// already taken are released before returning.
func (l *Locker) Lock(ctx context.Context, keys ...string) (func(), error) {
	keys = slices.Compact(slices.Sorted(slices.Values(keys)))
	owner := uuid.NewString()

	held := make([]string, 0, len(keys))
	release := func() {
		// Release must succeed even when the caller's context is done.
		rctx, cancel := context.WithTimeout(context.Background(), l.ttl)
		defer cancel()
		for i := len(held) - 1; i >= 0; i-- {
			_ = l.store.Release(rctx, keyPrefix+held[i], owner)
		}
		held = held[:0]
	}

	for _, key := range keys {
		if err := l.acquire(ctx, keyPrefix+key, owner); err != nil {
			release()
			return nil, err
		}
		held = append(held, key)
	}

	var once sync.Once
	return func() { once.Do(release) }, nil
}

func (l *Locker) acquire(ctx context.Context, key, owner string) error {
	ticker := time.NewTicker(l.poll)
	defer ticker.Stop()

	for {
		ok, err := l.store.SetNX(ctx, key, owner, l.ttl)
		if err != nil {
			return fmt.Errorf("setnx %s: %w", key, err)
		}
		if ok {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// releaseScript deletes the key only while it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type clientStore struct {
	client redis.UniversalClient
}

func (s *clientStore) SetNX(ctx context.Context, key, owner string, ttl time.Duration) (bool, error) {
	return s.client.SetNX(ctx, key, owner, ttl).Result()
}

func (s *clientStore) Release(ctx context.Context, key, owner string) error {
	err := releaseScript.Run(ctx, s.client, []string{key}, owner).Err()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	return err
}
