// Package registry provides the in-memory user registry: the single piece
// of shared mutable state on the relay, exposed only through atomic
// try-claim and release operations.
package registry

import "sync"

// Memory is a process-local port.Registry. The mutex makes claims atomic
// even if the relay is ever driven from more than one goroutine; on the
// default single message-handling path it is uncontended.
type Memory struct {
	mu    sync.Mutex
	names map[string]int
	order []string
}

func NewMemory() *Memory {
	return &Memory{names: make(map[string]int)}
}

func (r *Memory) TryClaim(name string) (bool, error) {
	if name == "" {
		return false, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.names[name]; taken {
		return false, nil
	}
	r.names[name] = len(r.order)
	r.order = append(r.order, name)
	return true, nil
}

func (r *Memory) Release(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, ok := r.names[name]
	if !ok {
		return nil
	}
	delete(r.names, name)
	r.order = append(r.order[:i], r.order[i+1:]...)
	for j := i; j < len(r.order); j++ {
		r.names[r.order[j]] = j
	}
	return nil
}

func (r *Memory) List() ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	users := make([]string, len(r.order))
	copy(users, r.order)
	return users, nil
}
