package lfg

import (
	"github.com/rs/zerolog"

	"lfg/model/party"
	"lfg/service/dispatcher"
	"lfg/service/event"
	"lfg/service/matcher"
	"lfg/tracing"
)

// Service is the high-level facade wiring the match engine, the instance
// dispatcher and the event service together.
type Service struct {
	config        *Config
	logger        zerolog.Logger
	eventService  *event.Service
	runtime       *Runtime
	tracing       bool
	tracingOutput string
}

// New creates a fully wired service. Configuration errors are surfaced
// here, before any goroutine starts.
func New(options ...Option) (*Service, error) {
	s := &Service{
		config: DefaultConfig(),
		logger: zerolog.Nop(),
	}
	for _, option := range options {
		option(s)
	}
	if err := s.config.Validate(); err != nil {
		return nil, err
	}
	if s.tracing {
		if err := tracing.Init("lfg", Version, s.tracingOutput); err != nil {
			return nil, err
		}
	}
	if s.eventService == nil {
		s.eventService = event.New()
	}

	engine, err := matcher.New(s.config.Pool.Instances, matcher.WithConfig(s.config.Match))
	if err != nil {
		return nil, err
	}
	pool, err := dispatcher.New(engine,
		dispatcher.WithConfig(s.config.Pool),
		dispatcher.WithLogger(s.logger),
		dispatcher.WithPublisher(event.PublisherOf[party.Party](s.eventService)),
	)
	if err != nil {
		return nil, err
	}
	s.runtime = &Runtime{
		matcher:    engine,
		dispatcher: pool,
		events:     s.eventService,
		logger:     s.logger,
	}
	return s, nil
}

// Runtime returns the runtime facade.
func (s *Service) Runtime() *Runtime {
	return s.runtime
}

// Events returns the event service.
func (s *Service) Events() *event.Service {
	return s.eventService
}
