package matcher

import "time"

// Option customises the match engine.
type Option func(*Service)

// WithConfig sets the full configuration.
func WithConfig(config Config) Option {
	return func(s *Service) {
		s.config = config
	}
}

// WithSeekTimeout bounds a single group-seeking wait.
func WithSeekTimeout(timeout time.Duration) Option {
	return func(s *Service) {
		s.config.SeekTimeout = timeout
	}
}
