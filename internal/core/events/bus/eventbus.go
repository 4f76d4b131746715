package bus

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

type simpleEvent struct {
	id      string
	typeStr string
	source  string
	ts      time.Time
	data    any
}

func (e simpleEvent) ID() string           { return e.id }
func (e simpleEvent) Type() string         { return e.typeStr }
func (e simpleEvent) Source() string       { return e.source }
func (e simpleEvent) Timestamp() time.Time { return e.ts }
func (e simpleEvent) Data() any            { return e.data }

// NewEvent creates an Event stamped with a fresh id and the current time.
func NewEvent(typ, src string, data any) Event {
	return simpleEvent{id: uuid.NewString(), typeStr: typ, source: src, ts: time.Now(), data: data}
}

type subscription struct {
	id        string
	eventType string
	handler   EventHandler
	active    atomic.Bool
	cancel    func()
}

func (s *subscription) ID() string        { return s.id }
func (s *subscription) EventType() string { return s.eventType }
func (s *subscription) IsActive() bool    { return s.active.Load() }
func (s *subscription) Cancel() error {
	if s.active.CompareAndSwap(true, false) && s.cancel != nil {
		s.cancel()
	}
	return nil
}

type inMemoryBus struct {
	mu sync.RWMutex
	// eventType -> subscriptions in registration order
	handlers map[string][]*subscription

	published atomic.Uint64
	delivered atomic.Uint64
	failures  atomic.Uint64
}

// New creates a new EventBus instance.
func New() EventBus {
	return &inMemoryBus{handlers: make(map[string][]*subscription)}
}

func (b *inMemoryBus) Publish(event Event) error {
	b.mu.RLock()
	typed := b.handlers[event.Type()]
	wild := b.handlers[Wildcard]
	subs := make([]*subscription, 0, len(typed)+len(wild))
	subs = append(subs, typed...)
	subs = append(subs, wild...)
	b.mu.RUnlock()

	b.published.Add(1)

	var all error
	for _, s := range subs {
		if !s.active.Load() {
			continue
		}
		b.delivered.Add(1)
		if err := s.handler(event); err != nil {
			all = errors.Join(all, err)
		}
	}
	if all != nil {
		b.failures.Add(1)
	}
	return all
}

func (b *inMemoryBus) Subscribe(eventType string, handler EventHandler) (Subscription, error) {
	if handler == nil {
		return nil, errors.New("bus: nil handler")
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	s := &subscription{id: uuid.NewString(), eventType: eventType, handler: handler}
	s.active.Store(true)
	s.cancel = func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		list := b.handlers[eventType]
		for i, existing := range list {
			if existing == s {
				b.handlers[eventType] = append(list[:i:i], list[i+1:]...)
				break
			}
		}
	}
	b.handlers[eventType] = append(b.handlers[eventType], s)
	return s, nil
}

func (b *inMemoryBus) Unsubscribe(sub Subscription) error {
	if sub == nil {
		return nil
	}
	return sub.Cancel()
}

func (b *inMemoryBus) GetMetrics() EventBusMetrics {
	b.mu.RLock()
	var active uint64
	for _, list := range b.handlers {
		active += uint64(len(list))
	}
	b.mu.RUnlock()
	return EventBusMetrics{
		Published:         b.published.Load(),
		DeliveredHandlers: b.delivered.Load(),
		Errors:            b.failures.Load(),
		SubscribersActive: active,
	}
}
