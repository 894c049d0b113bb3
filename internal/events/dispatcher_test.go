package events

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestAsyncDispatcher_DeliversToSubscribers(t *testing.T) {
	d := NewAsyncDispatcher(8, zap.NewNop())
	defer d.Close()

	var mu sync.Mutex
	received := make([]Event, 0)
	done := make(chan struct{}, 3)

	d.Subscribe(EventCustomerCreated, func(_ context.Context, event Event) error {
		mu.Lock()
		received = append(received, event)
		mu.Unlock()
		done <- struct{}{}
		return nil
	})

	for i := 0; i < 3; i++ {
		if err := d.Publish(context.Background(), Event{ID: "evt", Type: EventCustomerCreated}); err != nil {
			t.Fatalf("publish failed: %v", err)
		}
	}

	for i := 0; i < 3; i++ {
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for event delivery")
		}
	}

	mu.Lock()
	defer mu.Unlock()
	if len(received) != 3 {
		t.Fatalf("expected 3 events, got %d", len(received))
	}
}

func TestAsyncDispatcher_PublishDoesNotBlockWhenQueueFull(t *testing.T) {
	d := NewAsyncDispatcher(1, zap.NewNop())

	gate := make(chan struct{})
	d.Subscribe(EventCustomerCreated, func(_ context.Context, _ Event) error {
		<-gate
		return nil
	})

	// fill the worker and the queue, then expect a drop
	var sawFull bool
	for i := 0; i < 10; i++ {
		if err := d.Publish(context.Background(), Event{Type: EventCustomerCreated}); errors.Is(err, ErrQueueFull) {
			sawFull = true
			break
		}
	}
	if !sawFull {
		t.Fatal("expected ErrQueueFull once the queue saturated")
	}

	close(gate)
	d.Close()
}

func TestAsyncDispatcher_CloseDrainsQueue(t *testing.T) {
	d := NewAsyncDispatcher(8, zap.NewNop())

	var mu sync.Mutex
	var handled int
	d.Subscribe(EventCustomerCreated, func(_ context.Context, _ Event) error {
		mu.Lock()
		handled++
		mu.Unlock()
		return nil
	})

	var published int
	for i := 0; i < 5; i++ {
		if err := d.Publish(context.Background(), Event{Type: EventCustomerCreated}); err == nil {
			published++
		}
	}

	d.Close()

	mu.Lock()
	defer mu.Unlock()
	if handled != published {
		t.Fatalf("expected %d handled after close, got %d", published, handled)
	}
}

func TestAsyncDispatcher_HandlerErrorDoesNotStopDelivery(t *testing.T) {
	d := NewAsyncDispatcher(8, zap.NewNop())

	done := make(chan struct{}, 1)
	d.Subscribe(EventCustomerCreated, func(_ context.Context, _ Event) error {
		return errors.New("handler failure")
	})
	d.Subscribe(EventCustomerCreated, func(_ context.Context, _ Event) error {
		done <- struct{}{}
		return nil
	})

	if err := d.Publish(context.Background(), Event{Type: EventCustomerCreated}); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("expected second handler to run despite first handler error")
	}
	d.Close()
}
