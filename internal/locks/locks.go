// Package locks provides per-key in-flight mutexes, used to serialize
// store-mutating operations for a single tenant resource.
package locks

import (
	"fmt"
	"sync"
)

// Keyed hands out one mutex per key. Mutexes are never evicted; the key
// cardinality is bounded by tenants x resource kinds.
type Keyed struct {
	locks sync.Map // key -> *sync.Mutex
}

// NewKeyed creates an empty lock set.
func NewKeyed() *Keyed {
	return &Keyed{}
}

// Acquire locks the mutex for key and returns the unlock func.
func (k *Keyed) Acquire(key string) func() {
	lockAny, _ := k.locks.LoadOrStore(key, &sync.Mutex{})
	mu := lockAny.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// ResourceKey builds the canonical lock key for a tenant resource.
func ResourceKey(tenantID, resource string) string {
	return fmt.Sprintf("%s/%s", tenantID, resource)
}
