// Package messaging implements the in-process event bus for College Match Hub.
// Mark mutations and catalog writes publish domain events here; subscribers
// (GPA recompute, cache invalidation) react without coupling the write path
// to them.
package messaging

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/unihub/college-match-hub/internal/domain/shared"
	"github.com/unihub/college-match-hub/pkg/logger"
)

// ErrEventBusClosed is returned when subscribing to a closed bus.
var ErrEventBusClosed = errors.New("messaging: event bus is closed")

// HandlerTimeout bounds how long a single handler may run.
const HandlerTimeout = 30 * time.Second

// EventBus is a simple in-memory publish/subscribe bus. Suitable for
// single-instance deployments and testing. Publication is asynchronous:
// Publish never blocks the write path on handler work.
type EventBus struct {
	mu       sync.RWMutex
	handlers map[shared.EventType][]shared.EventHandler
	log      *logger.Logger
	closed   bool
	wg       sync.WaitGroup
}

// NewEventBus creates a new in-memory event bus.
func NewEventBus(log *logger.Logger) *EventBus {
	if log == nil {
		log = logger.Default()
	}
	return &EventBus{
		handlers: make(map[shared.EventType][]shared.EventHandler),
		log:      log.With(logger.Component("eventbus")),
	}
}

// Subscribe registers a handler for a specific event type.
func (b *EventBus) Subscribe(eventType shared.EventType, handler shared.EventHandler) error {
	if handler == nil {
		return errors.New("messaging: handler cannot be nil")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return ErrEventBusClosed
	}

	b.handlers[eventType] = append(b.handlers[eventType], handler)
	return nil
}

// Publish dispatches an event to all subscribed handlers asynchronously.
// Handler errors are logged, never propagated to the publisher: the write
// that produced the event has already committed.
func (b *EventBus) Publish(ctx context.Context, event shared.Event) {
	if event == nil {
		return
	}

	b.mu.RLock()
	if b.closed {
		b.mu.RUnlock()
		return
	}
	handlers := append([]shared.EventHandler(nil), b.handlers[event.EventType()]...)
	b.mu.RUnlock()

	for _, handler := range handlers {
		h := handler
		b.wg.Add(1)
		go func() {
			defer b.wg.Done()

			// Detach from the request context: the HTTP request may finish
			// before the handler does.
			hctx, cancel := context.WithTimeout(context.Background(), HandlerTimeout)
			defer cancel()

			if err := h(hctx, event); err != nil {
				b.log.Error("event handler failed",
					logger.String("event_type", string(event.EventType())),
					logger.String("aggregate_id", event.AggregateID()),
					logger.Err(err),
				)
			}
		}()
	}
}

// Close stops accepting subscriptions and waits for in-flight handlers,
// bounded by the context.
func (b *EventBus) Close(ctx context.Context) error {
	b.mu.Lock()
	b.closed = true
	b.mu.Unlock()

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
