// Package events fans domain events out to live subscribers.
package events

import (
	"sync"
	"time"
)

// Event types published by the request layer.
const (
	SurvivorRegistered = "survivor.registered"
	SurvivorMoved      = "survivor.moved"
	SurvivorDeleted    = "survivor.deleted"
	InfectionReported  = "infection.reported"
	TradeSettled       = "trade.settled"
)

// Event is a single notification.
type Event struct {
	Type       string    `json:"type"`
	SurvivorID string    `json:"survivor_id,omitempty"`
	At         time.Time `json:"at"`
	Data       any       `json:"data,omitempty"`
}

// Hub delivers events to subscribers. Publish never blocks: a subscriber
// whose buffer is full misses the event.
type Hub struct {
	mu     sync.Mutex
	nextID uint64
	subs   map[uint64]chan Event
	closed bool
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[uint64]chan Event)}
}

// Subscribe registers a subscriber with the given buffer size. The returned
// cancel func unsubscribes and closes the channel; it is safe to call twice.
func (h *Hub) Subscribe(buffer int) (<-chan Event, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan Event, buffer)

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		close(ch)
		return ch, func() {}
	}
	id := h.nextID
	h.nextID++
	h.subs[id] = ch

	return ch, func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if c, ok := h.subs[id]; ok {
			delete(h.subs, id)
			close(c)
		}
	}
}

// Publish delivers e to every subscriber that has room for it and returns
// how many received it. A zero At is set to the current time.
func (h *Hub) Publish(e Event) int {
	if e.At.IsZero() {
		e.At = time.Now().UTC()
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	delivered := 0
	for _, ch := range h.subs {
		select {
		case ch <- e:
			delivered++
		default:
		}
	}
	return delivered
}

// Subscribers returns the number of active subscribers.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Close disconnects all subscribers. Later subscriptions get a closed channel.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for id, ch := range h.subs {
		delete(h.subs, id)
		close(ch)
	}
}
