// Package invalidation keeps a version counter per catalog resource. A page
// showing a resource remembers the version it rendered and refetches once
// the version moves on.
package invalidation

import (
	"sync"
)

type Tracker struct {
	mu       sync.RWMutex
	versions map[string]uint64
}

// Bump marks the resource as changed and returns its new version.
func (t *Tracker) Bump(key string) uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.versions[key]++

	return t.versions[key]
}

// Version returns the current version of the resource, zero if it never
// changed.
func (t *Tracker) Version(key string) uint64 {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.versions[key]
}

func New() *Tracker {
	return &Tracker{
		versions: map[string]uint64{},
	}
}
