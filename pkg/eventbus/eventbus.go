package eventbus

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Event is anything that can be published on the bus.
type Event interface {
	Name() string
}

type Listener func(ctx context.Context, event Event) error

type Bus struct {
	listeners map[string][]Listener
	mu        sync.RWMutex
	logger    *zap.Logger
}

func New(logger *zap.Logger) *Bus {
	return &Bus{
		listeners: make(map[string][]Listener),
		logger:    logger,
	}
}

func (b *Bus) Subscribe(eventName string, listener Listener) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners[eventName] = append(b.listeners[eventName], listener)
}

// Publish delivers the event to every subscriber asynchronously. Listener
// failures are logged, never propagated back to the workflow.
func (b *Bus) Publish(ctx context.Context, event Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	eventName := event.Name()
	if listeners, ok := b.listeners[eventName]; ok {
		for _, listener := range listeners {
			go func(l Listener) {
				ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
				defer cancel()

				if err := l(ctxWithTimeout, event); err != nil {
					b.logger.Error("event listener failed",
						zap.String("event", eventName),
						zap.Error(err),
					)
				}
			}(listener)
		}
	}
}
