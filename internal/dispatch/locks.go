package dispatch

import (
	"fmt"
	"sync"
)

// EntityLocks tracks which entities have a mutating command outstanding.
// The guard is a try-lock: a second command for the same key is refused
// immediately instead of queueing, which is what prevents double-delete
// and double status-flip from rapid repeated intent. Commands against
// different keys never block each other.
type EntityLocks struct {
	mu       sync.Mutex
	inFlight map[string]struct{}
}

// NewEntityLocks returns an EntityLocks with nothing in flight.
func NewEntityLocks() *EntityLocks {
	return &EntityLocks{inFlight: make(map[string]struct{})}
}

// TryAcquire marks key as having a command in flight. It reports false
// without blocking when the key is already held.
func (l *EntityLocks) TryAcquire(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, held := l.inFlight[key]; held {
		return false
	}
	l.inFlight[key] = struct{}{}
	return true
}

// Release clears the in-flight mark for key. Releasing a key that is not
// held is a no-op, so it is safe to call from deferred cleanup.
func (l *EntityLocks) Release(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.inFlight, key)
}

// Held reports whether key currently has a command in flight.
func (l *EntityLocks) Held(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, held := l.inFlight[key]
	return held
}

// ProductKey namespaces a product id so product and order locks can share
// one keyspace without colliding.
func ProductKey(id int64) string { return fmt.Sprintf("product/%d", id) }

// OrderKey namespaces an order id.
func OrderKey(id string) string { return "order/" + id }
