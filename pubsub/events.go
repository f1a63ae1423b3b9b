package pubsub

// Geometry carries the keyboard frame delivered with a will-show
// notification. Heights are in the host's vertical units (terminal rows for
// the demo).
type Geometry struct {
	// Height is the keyboard's on-screen height.
	Height int
}

// KeyboardEvent is the payload for keyboard notifications. A will-show
// event without geometry is malformed; consumers must treat it as a no-op
// rather than guessing a height.
type KeyboardEvent struct {
	// Geometry is nil when the publisher omitted the keyboard frame.
	Geometry *Geometry
}

// KeyboardBroker is the broker type shared by the chat screen and its host.
type KeyboardBroker = Broker[KeyboardEvent]

// NewKeyboardBroker creates a broker sized for keyboard traffic.
func NewKeyboardBroker() *KeyboardBroker {
	return NewBroker[KeyboardEvent](8)
}
