// Package bus provides the in-process broadcast bus used when the relay
// runs standalone (no NATS configured) and by tests. Delivery is
// synchronous, so per-publisher ordering is trivially preserved.
package bus

import (
	"sync"

	"github.com/bhavjitChauhan/liveboard/internal/port"
)

type Memory struct {
	mu       sync.RWMutex
	handlers map[string][]func(port.Envelope)
	closed   bool
}

func NewMemory() *Memory {
	return &Memory{handlers: make(map[string][]func(port.Envelope))}
}

func (b *Memory) Publish(env port.Envelope) error {
	b.mu.RLock()
	if b.closed {
		b.mu.RUnlock()
		return nil
	}
	handlers := b.handlers[env.Topic]
	b.mu.RUnlock()

	for _, handle := range handlers {
		handle(env)
	}
	return nil
}

func (b *Memory) Subscribe(topic string, handler func(port.Envelope)) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[topic] = append(b.handlers[topic], handler)
	return nil
}

func (b *Memory) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	b.handlers = make(map[string][]func(port.Envelope))
}
