package events

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
)

// EventHandler handles a published event.
type EventHandler func(context.Context, Event) error

// Dispatcher interface allows event publication/subscription.
type Dispatcher interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType EventType, handler EventHandler)
	Close()
}

// asyncDispatcher hands events to a single worker goroutine through a
// buffered queue. Publish never blocks the caller: a full queue drops the
// event. Delivery is at-most-once, best-effort.
type asyncDispatcher struct {
	mu        sync.RWMutex
	listeners map[EventType][]EventHandler
	queue     chan Event
	done      chan struct{}
	closeOnce sync.Once
	logger    *zap.Logger
}

// ErrQueueFull is returned when the dispatch queue cannot accept an event.
var ErrQueueFull = errors.New("event queue full")

// NewAsyncDispatcher creates a dispatcher with the given queue size and
// starts its worker.
func NewAsyncDispatcher(queueSize int, logger *zap.Logger) Dispatcher {
	if queueSize <= 0 {
		queueSize = 64
	}
	d := &asyncDispatcher{
		listeners: make(map[EventType][]EventHandler),
		queue:     make(chan Event, queueSize),
		done:      make(chan struct{}),
		logger:    logger,
	}
	go d.run()
	return d
}

// Publish enqueues the event and returns immediately.
func (d *asyncDispatcher) Publish(ctx context.Context, event Event) error {
	select {
	case d.queue <- event:
		return nil
	default:
		d.logger.Warn("event dropped, queue full",
			zap.String("event_type", string(event.Type)),
			zap.String("event_id", event.ID))
		return ErrQueueFull
	}
}

// Subscribe registers a handler for the given event type.
func (d *asyncDispatcher) Subscribe(eventType EventType, handler EventHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.listeners[eventType] = append(d.listeners[eventType], handler)
}

// Close stops intake and drains events already queued.
func (d *asyncDispatcher) Close() {
	d.closeOnce.Do(func() {
		close(d.queue)
		<-d.done
	})
}

func (d *asyncDispatcher) run() {
	defer close(d.done)
	for event := range d.queue {
		d.dispatch(event)
	}
}

func (d *asyncDispatcher) dispatch(event Event) {
	d.mu.RLock()
	handlers := append([]EventHandler{}, d.listeners[event.Type]...)
	d.mu.RUnlock()

	for _, handler := range handlers {
		if err := handler(context.Background(), event); err != nil {
			d.logger.Warn("event handler failed",
				zap.String("event_type", string(event.Type)),
				zap.String("event_id", event.ID),
				zap.Error(err))
		}
	}
}
