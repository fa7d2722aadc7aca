package event

import (
	"reflect"
	"sync"

	"lfg/service/messaging/memory"
)

// Service manages typed publishers and listeners backed by in-memory
// queues, one queue per payload type plus a catch-all untyped queue.
type Service struct {
	publisher       *Publisher[any]
	listener        *Listener[any]
	typedPublishers map[reflect.Type]any
	typedListeners  map[reflect.Type]any
	mux             *sync.RWMutex
	newQueueConfig  func(name string) memory.Config
}

// New creates an event service.
func New(opts ...Option) *Service {
	ret := &Service{
		typedPublishers: make(map[reflect.Type]any),
		typedListeners:  make(map[reflect.Type]any),
		mux:             &sync.RWMutex{},
	}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.newQueueConfig == nil {
		ret.newQueueConfig = func(string) memory.Config { return memory.DefaultConfig() }
	}
	ret.publisher = NewPublisher[any](QueueOf[Event[any]](ret, "any"))
	return ret
}

// SetListener installs a catch-all handler observing events of every type.
func (s *Service) SetListener(handler func(*Event[any])) {
	if s.listener != nil {
		s.listener.Stop()
	}
	s.listener = NewListener[any](s.publisher, handler)
	s.listener.Start()
}

// QueueOf returns a fresh memory queue for the named payload.
func QueueOf[T any](s *Service, name string) *memory.Queue[T] {
	return memory.NewQueue[T](s.newQueueConfig(name))
}

func keyOf[T any]() reflect.Type {
	var t T
	rType := reflect.TypeOf(t)
	if rType != nil && rType.Kind() == reflect.Ptr {
		rType = rType.Elem()
	}
	return rType
}

// PublisherOf returns the shared publisher for the payload type, creating
// it on first use.
func PublisherOf[T any](s *Service) *Publisher[T] {
	key := keyOf[T]()
	s.mux.RLock()
	ret, ok := s.typedPublishers[key]
	s.mux.RUnlock()
	if ok {
		return ret.(*Publisher[T])
	}
	publisher := NewPublisher[T](QueueOf[Event[T]](s, key.String()))
	publisher.anyQueue = s.publisher.queue
	s.mux.Lock()
	s.typedPublishers[key] = publisher
	s.mux.Unlock()
	return publisher
}

// SetListenerOf installs a handler for events of a single payload type,
// replacing any previous listener for that type.
func SetListenerOf[T any](s *Service, handler func(*Event[T])) {
	key := keyOf[T]()
	s.mux.RLock()
	prev, ok := s.typedListeners[key]
	s.mux.RUnlock()
	if ok {
		prev.(*Listener[T]).Stop()
	}
	listener := NewListener[T](PublisherOf[T](s), handler)
	s.mux.Lock()
	s.typedListeners[key] = listener
	s.mux.Unlock()
	listener.Start()
}
