package event

import (
	"lfg/service/messaging/memory"
)

type Option func(s *Service)

// WithQueueConfig sets the per-queue configuration factory; name is the
// payload type the queue will carry.
func WithQueueConfig(newConfig func(name string) memory.Config) Option {
	return func(s *Service) {
		s.newQueueConfig = newConfig
	}
}
