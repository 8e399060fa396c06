// Package bus is the in-process broadcast channel connecting the session and
// cart services to independently-mounted consumers (navbar, cart page, other
// handlers). Subscribers are invoked synchronously, in subscription order,
// each time a value is published.
package bus

import "sync"

// SessionEvent is broadcast whenever the session transitions. Token carries
// the new credential, or nil after logout/expiry.
type SessionEvent struct {
	Token *string
}

type sessionSub struct {
	id int64
	fn func(SessionEvent)
}

type countSub struct {
	id int64
	fn func(int)
}

// Bus fans out session events and cart count updates.
type Bus struct {
	mu          sync.Mutex
	nextID      int64
	sessionSubs []sessionSub
	countSubs   []countSub
	lastCount   int
}

// New creates an empty bus.
func New() *Bus {
	return &Bus{}
}

// Subscription is a handle for one registered subscriber.
type Subscription struct {
	cancel func()
	once   sync.Once
}

// Close unregisters the subscriber. Safe to call more than once.
func (s *Subscription) Close() {
	s.once.Do(s.cancel)
}

// SubscribeSession registers fn for session transitions.
func (b *Bus) SubscribeSession(fn func(SessionEvent)) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	id := b.nextID
	b.sessionSubs = append(b.sessionSubs, sessionSub{id: id, fn: fn})
	return &Subscription{cancel: func() { b.removeSession(id) }}
}

// SubscribeCartCount registers fn for cart count updates.
func (b *Bus) SubscribeCartCount(fn func(int)) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	id := b.nextID
	b.countSubs = append(b.countSubs, countSub{id: id, fn: fn})
	return &Subscription{cancel: func() { b.removeCount(id) }}
}

// PublishSession notifies all session subscribers of a transition.
func (b *Bus) PublishSession(ev SessionEvent) {
	b.mu.Lock()
	subs := make([]sessionSub, len(b.sessionSubs))
	copy(subs, b.sessionSubs)
	b.mu.Unlock()

	for _, s := range subs {
		s.fn(ev)
	}
}

// PublishCartCount pushes a new cart count to all count subscribers and
// records it as the current value.
func (b *Bus) PublishCartCount(count int) {
	b.mu.Lock()
	b.lastCount = count
	subs := make([]countSub, len(b.countSubs))
	copy(subs, b.countSubs)
	b.mu.Unlock()

	for _, s := range subs {
		s.fn(count)
	}
}

// CartCount returns the most recently published count.
func (b *Bus) CartCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastCount
}

func (b *Bus) removeSession(id int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, s := range b.sessionSubs {
		if s.id == id {
			b.sessionSubs = append(b.sessionSubs[:i], b.sessionSubs[i+1:]...)
			return
		}
	}
}

func (b *Bus) removeCount(id int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, s := range b.countSubs {
		if s.id == id {
			b.countSubs = append(b.countSubs[:i], b.countSubs[i+1:]...)
			return
		}
	}
}
