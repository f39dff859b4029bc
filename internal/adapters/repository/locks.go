package repository

import (
	"sync"

	"github.com/okian/areacheck/pkg/metrics"
)

// keyedMutex hands out one mutex per key. Entries are reference counted and
// dropped once no goroutine holds or waits for them, so the map only grows
// with the number of sessions in flight.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyLock
	pool  sync.Pool
}

type keyLock struct {
	mu   sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{
		locks: make(map[string]*keyLock),
		pool: sync.Pool{
			New: func() any { return &keyLock{} },
		},
	}
}

// Lock blocks until key is held and returns the matching unlock function.
func (k *keyedMutex) Lock(key string) (unlock func()) {
	k.mu.Lock()
	l, ok := k.locks[key]
	if !ok {
		l = k.pool.Get().(*keyLock)
		k.locks[key] = l
	}
	l.refs++
	live := len(k.locks)
	k.mu.Unlock()
	metrics.UpdateHistoryLocks(live)

	l.mu.Lock()
	return func() {
		l.mu.Unlock()

		k.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(k.locks, key)
			k.pool.Put(l)
		}
		live := len(k.locks)
		k.mu.Unlock()
		metrics.UpdateHistoryLocks(live)
	}
}

// Len returns the number of keys currently held or awaited.
func (k *keyedMutex) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.locks)
}
