package event

import (
	"context"
	"errors"
)

// Listener consumes events from a publisher on a background goroutine and
// hands them to a callback.
type Listener[T any] struct {
	publisher *Publisher[T]
	handler   func(*Event[T])
	ctx       context.Context
	cancel    context.CancelFunc
}

// NewListener creates a listener; call Start to begin consuming.
func NewListener[T any](publisher *Publisher[T], handler func(*Event[T])) *Listener[T] {
	ctx, cancel := context.WithCancel(context.Background())
	return &Listener[T]{
		publisher: publisher,
		handler:   handler,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Stop terminates the consume loop.
func (l *Listener[T]) Stop() {
	l.cancel()
}

// Start launches the consume loop.
func (l *Listener[T]) Start() {
	go func() {
		for {
			event, err := l.publisher.Consume(l.ctx)
			if err != nil {
				if errors.Is(err, context.Canceled) {
					return
				}
				continue
			}
			if event != nil {
				l.handler(event)
			}
		}
	}()
}
