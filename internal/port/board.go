package port

// Registry is the process-wide set of claimed display names. Claims are
// atomic with respect to each other so no two sessions can race for the
// same name, and List preserves claim order.
type Registry interface {
	// TryClaim adds name to the registry and reports whether it was free.
	TryClaim(name string) (bool, error)
	// Release removes name from the registry. Releasing a name that is
	// not present is a no-op.
	Release(name string) error
	// List returns the currently claimed names in claim order.
	List() ([]string, error)
}

// Envelope is the unit carried by a Bus: a canonical wire frame addressed
// to one audience, optionally excluding a single session from delivery.
type Envelope struct {
	Topic   string `json:"topic"`
	Exclude string `json:"exclude,omitempty"`
	Data    []byte `json:"data"`
}

// Bus fans envelopes out to audience subscribers. Delivery is best effort:
// no acknowledgment, no retry, no replay.
type Bus interface {
	Publish(env Envelope) error
	Subscribe(topic string, handler func(Envelope)) error
	Close()
}

// Peer is one live connection as seen by the relay policy.
type Peer interface {
	// ID is the opaque session identity assigned at connect time.
	ID() string
	// Username returns the bound display name, or "" while anonymous.
	Username() string
	SetUsername(name string)
	// Send enqueues a frame for the peer. A full buffer or closed
	// connection loses the frame silently.
	Send(data []byte)
}
