package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"lfg/service/messaging"
)

// Config controls redelivery behaviour of the in-memory queue.
type Config struct {
	MaxRedeliveries int
	RedeliveryDelay time.Duration
	DeadLetter      bool
	Buffer          int
}

// DefaultConfig returns the standard in-memory queue configuration.
func DefaultConfig() Config {
	return Config{
		MaxRedeliveries: 3,
		RedeliveryDelay: 100 * time.Millisecond,
		DeadLetter:      true,
		Buffer:          100,
	}
}

// Message is a single in-flight item of an in-memory queue.
type Message[T any] struct {
	id         string
	payload    T
	queue      *Queue[T]
	deliveries int
	createdAt  time.Time

	mu   sync.Mutex
	done bool
}

// T returns the message payload.
func (m *Message[T]) T() *T {
	return &m.payload
}

// Ack marks the message as processed. Acking twice is an error.
func (m *Message[T]) Ack() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.done {
		return fmt.Errorf("message %v already settled", m.id)
	}
	m.done = true
	return nil
}

// Nack reports a processing failure. The message is redelivered after the
// configured delay until the redelivery budget is exhausted; after that it
// lands on the dead-letter list when dead lettering is enabled.
func (m *Message[T]) Nack(err error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.done {
		return fmt.Errorf("message %v already settled", m.id)
	}
	m.done = true
	m.deliveries++

	if m.deliveries <= m.queue.config.MaxRedeliveries {
		go func() {
			time.Sleep(m.queue.config.RedeliveryDelay)
			m.queue.items <- &Message[T]{
				id:         m.id,
				payload:    m.payload,
				queue:      m.queue,
				deliveries: m.deliveries,
				createdAt:  time.Now(),
			}
		}()
		return nil
	}
	if m.queue.config.DeadLetter {
		m.queue.deadMu.Lock()
		m.queue.dead = append(m.queue.dead, m)
		m.queue.deadMu.Unlock()
	}
	return nil
}

// Queue is a channel-backed messaging.Queue implementation.
type Queue[T any] struct {
	items  chan *Message[T]
	config Config

	deadMu sync.Mutex
	dead   []*Message[T]
}

// NewQueue creates an in-memory queue.
func NewQueue[T any](config Config) *Queue[T] {
	if config.Buffer <= 0 {
		config.Buffer = DefaultConfig().Buffer
	}
	return &Queue[T]{
		items:  make(chan *Message[T], config.Buffer),
		config: config,
	}
}

// Publish enqueues the payload, blocking when the buffer is full.
func (q *Queue[T]) Publish(ctx context.Context, t *T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := &Message[T]{
		id:        uuid.New().String(),
		payload:   *t,
		queue:     q,
		createdAt: time.Now(),
	}
	select {
	case q.items <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Consume retrieves a single message, blocking until one arrives or the
// context is cancelled.
func (q *Queue[T]) Consume(ctx context.Context) (messaging.Message[T], error) {
	select {
	case msg := <-q.items:
		return msg, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Size returns the number of buffered messages.
func (q *Queue[T]) Size() int {
	return len(q.items)
}

// DeadLetterSize returns the number of dead-lettered messages.
func (q *Queue[T]) DeadLetterSize() int {
	q.deadMu.Lock()
	defer q.deadMu.Unlock()
	return len(q.dead)
}

var _ messaging.Queue[any] = (*Queue[any])(nil)
