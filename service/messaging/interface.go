package messaging

import (
	"context"
)

// Queue is an abstract message queue for any payload type. The engine uses
// it to deliver party lifecycle events to interested collaborators.
type Queue[T any] interface {
	// Publish adds a new message with the payload to the queue.
	Publish(ctx context.Context, t *T) error

	// Consume retrieves a single message, blocking until one is available
	// or the context is cancelled.
	Consume(ctx context.Context) (Message[T], error)
}

// Message is a single item retrieved from a queue.
type Message[T any] interface {
	// T returns the payload of this message.
	T() *T

	// Ack acknowledges successful processing of this message.
	Ack() error

	// Nack reports a processing failure; the queue may redeliver.
	Nack(err error) error
}
