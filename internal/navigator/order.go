package navigator

import (
	"slices"
	"sync"
)

// MemoryOrder is an in-process SnippetOrder keyed by project ref
type MemoryOrder struct {
	mu     sync.RWMutex
	orders map[string][]string
}

func NewMemoryOrder() *MemoryOrder {
	return &MemoryOrder{orders: make(map[string][]string)}
}

// Order returns the snippet IDs of a project in display order
func (o *MemoryOrder) Order(projectRef string) []string {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return slices.Clone(o.orders[projectRef])
}

// Replace sets the full ordering of a project
func (o *MemoryOrder) Replace(projectRef string, ids []string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.orders[projectRef] = slices.Clone(ids)
}

// Remove drops ids from a project's ordering. Unknown IDs are ignored.
func (o *MemoryOrder) Remove(projectRef string, ids []string) {
	if len(ids) == 0 {
		return
	}
	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	o.orders[projectRef] = slices.DeleteFunc(o.orders[projectRef], func(id string) bool {
		return drop[id]
	})
}
