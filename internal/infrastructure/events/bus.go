package events

import (
	"context"
	"sync"
	"time"

	"github.com/LavaJover/shvark-partner-service/internal/domain"
	"go.uber.org/zap"
)

// AllTopics subscribes a handler to every topic.
const AllTopics = "*"

// Bus is an in-process typed observer. Handlers run synchronously in
// subscription order; a failing handler is logged and does not stop the rest.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]domain.EventHandler
	logger   *zap.Logger
	now      func() time.Time
}

func NewBus(logger *zap.Logger) *Bus {
	return &Bus{
		handlers: make(map[string][]domain.EventHandler),
		logger:   logger,
		now:      time.Now,
	}
}

func (b *Bus) Subscribe(topic string, handler domain.EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[topic] = append(b.handlers[topic], handler)
}

func (b *Bus) Publish(ctx context.Context, event domain.Event) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = b.now()
	}

	b.mu.RLock()
	handlers := make([]domain.EventHandler, 0, len(b.handlers[event.Topic])+len(b.handlers[AllTopics]))
	handlers = append(handlers, b.handlers[event.Topic]...)
	handlers = append(handlers, b.handlers[AllTopics]...)
	b.mu.RUnlock()

	for _, handle := range handlers {
		if err := handle(ctx, event); err != nil {
			b.logger.Error("event handler failed",
				zap.String("topic", event.Topic),
				zap.String("key", event.Key),
				zap.Error(err),
			)
		}
	}
}
