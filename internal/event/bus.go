// Package event delivers domain events pulled from aggregates after they are
// persisted.
package event

import (
	"context"
	"fmt"
	"sync"

	"github.com/nikolayk812/cart-checkout/internal/domain"
	"github.com/nikolayk812/cart-checkout/internal/port"
	"go.uber.org/zap"
)

// Handler reacts to one event. Returning an error stops the dispatch.
type Handler func(ctx context.Context, e domain.Event) error

// Bus is an in-process synchronous dispatcher. Handlers run in subscription
// order, events in the order they were dispatched.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	all      []Handler
	logger   *zap.Logger
}

func NewBus(logger *zap.Logger) *Bus {
	return &Bus{
		handlers: make(map[string][]Handler),
		logger:   logger,
	}
}

// Subscribe registers h for events named name, e.g. domain.EventCartCreated.
func (b *Bus) Subscribe(name string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[name] = append(b.handlers[name], h)
}

// SubscribeAll registers h for every event.
func (b *Bus) SubscribeAll(h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.all = append(b.all, h)
}

func (b *Bus) Dispatch(ctx context.Context, events ...domain.Event) error {
	for _, e := range events {
		handlers := b.handlersFor(e.EventName())

		b.logger.Debug("dispatching event",
			zap.String("event_name", e.EventName()),
			zap.String("aggregate_id", e.AggregateID()),
			zap.Int("handlers", len(handlers)))

		for _, h := range handlers {
			if err := h(ctx, e); err != nil {
				b.logger.Error("event handler failed",
					zap.String("event_name", e.EventName()),
					zap.String("aggregate_id", e.AggregateID()),
					zap.Error(err))
				return fmt.Errorf("handle %s: %w", e.EventName(), err)
			}
		}
	}

	return nil
}

func (b *Bus) handlersFor(name string) []Handler {
	b.mu.RLock()
	defer b.mu.RUnlock()

	handlers := make([]Handler, 0, len(b.all)+len(b.handlers[name]))
	handlers = append(handlers, b.handlers[name]...)
	handlers = append(handlers, b.all...)
	return handlers
}

var _ port.EventDispatcher = (*Bus)(nil)
