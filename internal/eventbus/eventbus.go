// Package eventbus implements the in-process publish/subscribe bus the app
// uses to decouple plan computation from metrics recording and publishing.
package eventbus

import "sync"

// Event is an arbitrary value passed on the bus.
type Event any

// Bus is a fan-out publish/subscribe bus. Delivery is non-blocking: a
// subscriber that stops draining loses events rather than stalling the
// publisher.
type Bus struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]chan Event
	closed bool
}

// New creates an empty Bus.
func New() *Bus {
	return &Bus{subs: make(map[int]chan Event)}
}

// Subscription is one subscriber's event stream. Receive from C; Cancel
// when done.
type Subscription struct {
	C <-chan Event

	id  int
	bus *Bus
}

// Subscribe registers a subscriber. On a closed bus the returned channel is
// already closed.
func (b *Bus) Subscribe() *Subscription {
	ch := make(chan Event, 16)
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(ch)
		return &Subscription{C: ch, id: -1, bus: b}
	}
	id := b.nextID
	b.nextID++
	b.subs[id] = ch
	return &Subscription{C: ch, id: id, bus: b}
}

// Publish sends the event to every subscriber. Full subscriber buffers are
// skipped.
func (b *Bus) Publish(e Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	for _, ch := range b.subs {
		select {
		case ch <- e:
		default:
		}
	}
}

// Cancel removes the subscription and closes its channel. Cancel is safe to
// call more than once and after Close.
func (s *Subscription) Cancel() {
	b := s.bus
	b.mu.Lock()
	defer b.mu.Unlock()
	ch, ok := b.subs[s.id]
	if !ok {
		return
	}
	delete(b.subs, s.id)
	if !b.closed {
		close(ch)
	}
}

// Close closes every subscriber channel and drops later publishes.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subs {
		close(ch)
		delete(b.subs, id)
	}
}
