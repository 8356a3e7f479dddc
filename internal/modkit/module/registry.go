package module

import (
	"slices"
	"sync"
)

// Registry keeps the port bundles of the modules mounted in one process
type Registry struct {
	mu  sync.RWMutex
	reg map[string]any
}

// NewRegistry returns an empty registry
func NewRegistry() *Registry { return &Registry{reg: map[string]any{}} }

// Add records m's ports under its name, modules without ports are skipped
func (r *Registry) Add(mods ...Module) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range mods {
		if m == nil || m.Ports() == nil {
			continue
		}
		r.reg[m.Name()] = m.Ports()
	}
}

// Names lists registered module names, sorted
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.reg))
	for k := range r.reg {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

// Lookup finds a T among the ports registered under name
func Lookup[T any](r *Registry, name string) (T, bool) {
	r.mu.RLock()
	p, ok := r.reg[name]
	r.mu.RUnlock()
	if !ok {
		var zero T
		return zero, false
	}
	return portIn[T](p)
}
