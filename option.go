package lfg

import (
	"time"

	"github.com/rs/zerolog"

	"lfg/service/event"
)

// Option customises the Service.
type Option func(s *Service)

// WithConfig replaces the whole configuration.
func WithConfig(config *Config) Option {
	return func(s *Service) {
		if config != nil {
			s.config = config
		}
	}
}

// WithInstances sets the size of the instance pool.
func WithInstances(count int) Option {
	return func(s *Service) {
		s.config.Pool.Instances = count
	}
}

// WithTaskDurationRange bounds the simulated task length.
func WithTaskDurationRange(min, max time.Duration) Option {
	return func(s *Service) {
		s.config.Pool.MinTaskDuration = min
		s.config.Pool.MaxTaskDuration = max
	}
}

// WithSeekTimeout bounds a single group-seeking wait.
func WithSeekTimeout(timeout time.Duration) Option {
	return func(s *Service) {
		s.config.Match.SeekTimeout = timeout
	}
}

// WithLogger sets the structured logger shared by all sub-services.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithEventService sets the event service carrying party notifications.
func WithEventService(service *event.Service) Option {
	return func(s *Service) {
		s.eventService = service
	}
}

// WithTracing enables OpenTelemetry tracing with the stdout exporter. If
// outputFile is empty spans are written to os.Stdout.
func WithTracing(outputFile string) Option {
	return func(s *Service) {
		s.tracing = true
		s.tracingOutput = outputFile
	}
}
