// Package nats carries audience fan-out over NATS subjects so multiple
// relay instances can serve one board. Each audience topic maps to one
// subject; NATS preserves per-publisher order on a subject, which keeps
// the per-sender ordering guarantee intact across instances.
package nats

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/nats-io/nats.go"

	"github.com/bhavjitChauhan/liveboard/internal/port"
)

type Bus struct {
	conn *nats.Conn
	mu   sync.Mutex
	subs []*nats.Subscription
}

func NewBus(url string) (*Bus, error) {
	nc, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return &Bus{conn: nc}, nil
}

func (b *Bus) Publish(env port.Envelope) error {
	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("failed to serialize envelope: %w", err)
	}
	return b.conn.Publish(env.Topic, data)
}

func (b *Bus) Subscribe(topic string, handler func(port.Envelope)) error {
	sub, err := b.conn.Subscribe(topic, func(msg *nats.Msg) {
		var env port.Envelope
		if err := json.Unmarshal(msg.Data, &env); err != nil {
			return // skip undecodable envelopes
		}
		handler(env)
	})
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", topic, err)
	}

	b.mu.Lock()
	b.subs = append(b.subs, sub)
	b.mu.Unlock()
	return nil
}

func (b *Bus) Close() {
	b.mu.Lock()
	for _, sub := range b.subs {
		_ = sub.Unsubscribe()
	}
	b.subs = nil
	b.mu.Unlock()

	b.conn.Close()
}
