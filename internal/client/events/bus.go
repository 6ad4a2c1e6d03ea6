// Package events implements the process-wide publish/subscribe channel that
// carries auth lifecycle events between the session components and the UI.
//
// Dispatch is synchronous: Publish invokes the current listeners in
// registration order on the caller's goroutine. There is no event history;
// late subscribers miss past events.
package events

import (
	"sync"

	"github.com/google/uuid"
)

// Name identifies a lifecycle event.
type Name string

const (
	Authenticated      Name = "authenticated"
	Hide               Name = "hide"
	AuthorizationError Name = "authorization_error"
	UnrecoverableError Name = "unrecoverable_error"
	Logout             Name = "logout"
	UserDataLoaded     Name = "user_data_loaded"
)

// Event is a named occurrence with an optional payload. Payload types are
// owned by the publishing component.
type Event struct {
	Name Name
	Data any
}

// Handler receives a published event.
type Handler func(Event)

type subscription struct {
	id   uuid.UUID
	once bool
	fn   Handler
}

// Bus is a fan-out pub/sub channel. The zero value is not usable; use New.
type Bus struct {
	mu   sync.Mutex
	subs map[Name][]*subscription
}

func New() *Bus {
	return &Bus{subs: make(map[Name][]*subscription)}
}

// Subscribe registers fn for events with the given name and returns an
// unsubscribe function. Unsubscribing twice is harmless.
func (b *Bus) Subscribe(name Name, fn Handler) func() {
	return b.add(name, fn, false)
}

// SubscribeOnce registers fn for a single delivery; the subscription removes
// itself before fn runs, so it fires at most once even under concurrent
// publishes. The returned function cancels an unfired subscription.
func (b *Bus) SubscribeOnce(name Name, fn Handler) func() {
	return b.add(name, fn, true)
}

func (b *Bus) add(name Name, fn Handler, once bool) func() {
	s := &subscription{id: uuid.New(), once: once, fn: fn}

	b.mu.Lock()
	b.subs[name] = append(b.subs[name], s)
	b.mu.Unlock()

	return func() { b.remove(name, s.id) }
}

func (b *Bus) remove(name Name, id uuid.UUID) {
	b.mu.Lock()
	defer b.mu.Unlock()

	list := b.subs[name]
	for i, s := range list {
		if s.id == id {
			b.subs[name] = append(list[:i], list[i+1:]...)
			return
		}
	}
}

// Publish delivers e to every listener registered at the moment of the call,
// in registration order. One-shot listeners are detached before delivery.
func (b *Bus) Publish(e Event) {
	b.mu.Lock()
	list := b.subs[e.Name]
	fire := make([]*subscription, len(list))
	copy(fire, list)

	remaining := list[:0:0]
	for _, s := range list {
		if !s.once {
			remaining = append(remaining, s)
		}
	}
	b.subs[e.Name] = remaining
	b.mu.Unlock()

	for _, s := range fire {
		s.fn(e)
	}
}
