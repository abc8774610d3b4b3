package social

import "sync"

// Handler receives the new value of a toggled field.
type Handler func(value bool)

// Bus relays field changes to every rendered instance of the same entity
// within the current screen. It holds no state of its own; the cache is the
// source of truth and the bus is purely a notification relay.
type Bus struct {
	mu     sync.Mutex
	subs   map[topic][]subscription
	nextID int64
}

type topic struct {
	ref   Ref
	field Field
}

type subscription struct {
	id int64
	fn Handler
}

// NewBus returns a bus with no subscribers.
func NewBus() *Bus {
	return &Bus{subs: make(map[topic][]subscription)}
}

// Subscribe registers fn for changes to (ref, field) and returns a cancel
// function. Delivery order follows subscription order.
func (b *Bus) Subscribe(ref Ref, field Field, fn Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	id := b.nextID
	key := topic{ref: ref, field: field}
	b.subs[key] = append(b.subs[key], subscription{id: id, fn: fn})
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		list := b.subs[key]
		for i, sub := range list {
			if sub.id == id {
				b.subs[key] = append(list[:i:i], list[i+1:]...)
				break
			}
		}
		if len(b.subs[key]) == 0 {
			delete(b.subs, key)
		}
	}
}

// Publish delivers value synchronously to every subscriber of (ref, field),
// in subscription order. Publishing with zero subscribers is a no-op.
func (b *Bus) Publish(ref Ref, field Field, value bool) {
	b.mu.Lock()
	list := b.subs[topic{ref: ref, field: field}]
	snapshot := make([]subscription, len(list))
	copy(snapshot, list)
	b.mu.Unlock()

	for _, sub := range snapshot {
		sub.fn(value)
	}
}

// SubscriberCount reports how many handlers are registered for (ref, field).
func (b *Bus) SubscriberCount(ref Ref, field Field) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs[topic{ref: ref, field: field}])
}
