package pipeline

import "sync"

// Registry maps instance ids to contexts. Nodes never look a context up
// through it; they hold their own reference.
type Registry struct {
	mu   sync.RWMutex
	next int32
	byID map[int32]*Context
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byID: make(map[int32]*Context)}
}

// Register assigns c a new instance id and returns it.
func (r *Registry) Register(c *Context) int32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.next++
	c.instanceID = r.next
	r.byID[r.next] = c
	return r.next
}

// Get returns the context registered under id.
func (r *Registry) Get(id int32) (*Context, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.byID[id]
	return c, ok
}

// Remove drops id from the registry.
func (r *Registry) Remove(id int32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byID, id)
}

// Len returns the number of registered contexts.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}
