// Package pubsub provides the in-process notification broker that stands in
// for a platform notification center. Hosts publish keyboard geometry
// notifications to it; the chat screen subscribes for the lifetime of one
// screen and unsubscribes on teardown via context cancellation.
package pubsub

import (
	"context"
	"sync"
)

// Notification names the kind of event being published.
type Notification string

const (
	// WillShowNotification announces that the keyboard (or any
	// bottom-anchored host overlay) is about to appear.
	WillShowNotification Notification = "keyboard-will-show"
	// WillHideNotification announces that the keyboard is about to
	// disappear.
	WillHideNotification Notification = "keyboard-will-hide"
)

// Event is a typed notification with a payload.
type Event[T any] struct {
	Name    Notification
	Payload T
}

// Broker fans notifications out to subscribers. It is generic over the
// payload type T.
type Broker[T any] struct {
	mu          sync.RWMutex
	subscribers map[chan Event[T]]struct{}
	bufferSize  int
}

// NewBroker creates a broker with the given per-subscriber buffer size.
func NewBroker[T any](bufferSize int) *Broker[T] {
	if bufferSize < 1 {
		bufferSize = 16
	}
	return &Broker[T]{
		subscribers: make(map[chan Event[T]]struct{}),
		bufferSize:  bufferSize,
	}
}

// Subscribe registers a new subscription channel. The channel receives
// events until ctx is cancelled, at which point it is removed and closed.
// Tying the subscription to a context is what keeps a torn-down screen from
// being called back after the fact.
func (b *Broker[T]) Subscribe(ctx context.Context) <-chan Event[T] {
	ch := make(chan Event[T], b.bufferSize)

	b.mu.Lock()
	b.subscribers[ch] = struct{}{}
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.unsubscribe(ch)
	}()

	return ch
}

func (b *Broker[T]) unsubscribe(ch chan Event[T]) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.subscribers[ch]; ok {
		delete(b.subscribers, ch)
		close(ch)
	}
}

// Publish sends an event to all subscribers without blocking. A subscriber
// whose buffer is full misses the event.
func (b *Broker[T]) Publish(event Event[T]) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for ch := range b.subscribers {
		select {
		case ch <- event:
		default:
		}
	}
}

// SubscriberCount returns the current number of subscribers.
func (b *Broker[T]) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}
