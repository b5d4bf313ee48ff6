package event_bus

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

type EventType string

// Event carries one of the payloads from events.go in Data.
type Event struct {
	Type EventType
	At   time.Time
	Data any
	ctx  context.Context
}

func NewEvent(ctx context.Context, eventType EventType, data any) Event {
	if ctx == nil {
		ctx = context.Background()
	}
	return Event{Type: eventType, At: time.Now(), Data: data, ctx: ctx}
}

func (e Event) Context() context.Context {
	if e.ctx == nil {
		return context.Background()
	}
	return e.ctx
}

// EventT is an Event whose payload has already been asserted to T.
type EventT[T any] struct {
	Event
	Data T
}

// EventBus delivers events synchronously in subscription order.
type EventBus struct {
	mu       sync.RWMutex
	handlers map[EventType][]func(Event) error
}

func NewEventBus() *EventBus {
	return &EventBus{handlers: map[EventType][]func(Event) error{}}
}

func (b *EventBus) Subscribe(eventType EventType, h func(Event) error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventType] = append(b.handlers[eventType], h)
}

// SubscribeTyped skips events whose payload is not a T.
func SubscribeTyped[T any](b *EventBus, eventType EventType, h func(EventT[T]) error) {
	b.Subscribe(eventType, func(e Event) error {
		data, ok := e.Data.(T)
		if !ok {
			log.Debugf("skipping %s event with payload %T", eventType, e.Data)
			return nil
		}
		return h(EventT[T]{Event: e, Data: data})
	})
}

// Publish returns once every handler ran or the event context ended.
// Handler failures, panics included, are joined into the returned error.
func (b *EventBus) Publish(e Event) error {
	b.mu.RLock()
	handlers := b.handlers[e.Type]
	b.mu.RUnlock()

	var errs []error
	for _, h := range handlers {
		if err := e.Context().Err(); err != nil {
			errs = append(errs, fmt.Errorf("event %s not delivered: %w", e.Type, err))
			break
		}
		if err := call(h, e); err != nil {
			log.Errorf("handler for event %s failed: %v", e.Type, err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func call(h func(Event) error, e Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler for event %s panicked: %v", e.Type, r)
		}
	}()
	return h(e)
}
