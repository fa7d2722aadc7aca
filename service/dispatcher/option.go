package dispatcher

import (
	"time"

	"github.com/rs/zerolog"

	"lfg/model/party"
	"lfg/service/event"
)

// Option customises the dispatcher.
type Option func(*Service)

// WithConfig sets the full configuration.
func WithConfig(config Config) Option {
	return func(s *Service) {
		s.config = config
	}
}

// WithInstances sets the number of instance slots.
func WithInstances(count int) Option {
	return func(s *Service) {
		s.config.Instances = count
	}
}

// WithTaskDurationRange bounds the simulated task length.
func WithTaskDurationRange(min, max time.Duration) Option {
	return func(s *Service) {
		s.config.MinTaskDuration = min
		s.config.MaxTaskDuration = max
	}
}

// WithIdleDelay sets the pause after a completed party.
func WithIdleDelay(d time.Duration) Option {
	return func(s *Service) {
		s.config.IdleDelay = d
	}
}

// WithRetryDelay sets the pause after an empty seek.
func WithRetryDelay(d time.Duration) Option {
	return func(s *Service) {
		s.config.RetryDelay = d
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithPublisher sets the party event publisher.
func WithPublisher(publisher *event.Publisher[party.Party]) Option {
	return func(s *Service) {
		s.publisher = publisher
	}
}
