// Package keylock provides an in-process lock keyed by arbitrary strings.
//
// Several keys are acquired in sorted order so two callers asking for
// overlapping key sets never deadlock each other.
package keylock

import (
	"context"
	"slices"
	"sync"
)

// Locker hands out mutually exclusive locks per key.
// The zero value is not usable; call New.
type Locker struct {
	mu    sync.Mutex
	locks map[string]*entry
}

type entry struct {
	sem  chan struct{}
	refs int
}

func New() *Locker {
	return &Locker{locks: make(map[string]*entry)}
}

// Lock blocks until every key is held or ctx is done. The returned function
// releases all keys; it is safe to call more than once.
func (l *Locker) Lock(ctx context.Context, keys ...string) (func(), error) {
	keys = normalize(keys)

	held := make([]string, 0, len(keys))
	release := func() {
		for i := len(held) - 1; i >= 0; i-- {
			l.unlock(held[i])
		}
		held = held[:0]
	}

	for _, key := range keys {
		e := l.acquireEntry(key)
		select {
		case e.sem <- struct{}{}:
			held = append(held, key)
		case <-ctx.Done():
			l.releaseEntry(key)
			release()
			return nil, ctx.Err()
		}
	}

	var once sync.Once
	return func() { once.Do(release) }, nil
}

func (l *Locker) acquireEntry(key string) *entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.locks[key]
	if !ok {
		e = &entry{sem: make(chan struct{}, 1)}
		l.locks[key] = e
	}
	e.refs++
	return e
}

func (l *Locker) unlock(key string) {
	l.mu.Lock()
	e := l.locks[key]
	l.mu.Unlock()

	<-e.sem
	l.releaseEntry(key)
}

func (l *Locker) releaseEntry(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e := l.locks[key]
	e.refs--
	if e.refs == 0 {
		delete(l.locks, key)
	}
}

func normalize(keys []string) []string {
	out := slices.Clone(keys)
	slices.Sort(out)
	return slices.Compact(out)
}
