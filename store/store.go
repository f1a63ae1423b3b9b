// Package store holds the ordered message sequence backing a chat screen.
// The store is append-only: messages are never edited, removed, or
// reordered once added, and their identity is their position.
package store

import (
	"fmt"
	"sync"
)

// Message is a single chat message. DateString is optional; when empty no
// date line is rendered under the bubble.
type Message struct {
	Text       string
	IsSender   bool
	DateString string
}

// Store is an ordered, append-only collection of messages. Insertion order
// is display order, oldest first.
type Store struct {
	messages []Message
	mu       sync.RWMutex
}

// New creates an empty message store.
func New() *Store {
	return &Store{
		messages: make([]Message, 0, 32),
	}
}

// Append adds a message to the end of the store and returns its index.
// No validation happens here; callers decide what is worth storing.
func (s *Store) Append(msg Message) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, msg)
	return len(s.messages) - 1
}

// Count returns the number of stored messages.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.messages)
}

// Get returns the message at index i. An out-of-range index is a programmer
// error and panics.
func (s *Store) Get(i int) Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i < 0 || i >= len(s.messages) {
		panic(fmt.Sprintf("store: index %d out of range [0, %d)", i, len(s.messages)))
	}
	return s.messages[i]
}

// Last returns the most recent message and true, or a zero message and
// false when the store is empty.
func (s *Store) Last() (Message, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.messages) == 0 {
		return Message{}, false
	}
	return s.messages[len(s.messages)-1], true
}

// All returns a copy of all messages (for iteration).
func (s *Store) All() []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]Message, len(s.messages))
	copy(result, s.messages)
	return result
}
