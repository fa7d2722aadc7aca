package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"lfg/model/party"
	"lfg/progress"
	"lfg/service/event"
	"lfg/service/matcher"
)

// Config represents dispatcher service configuration.
type Config struct {
	// Instances is the number of concurrent execution slots.
	Instances int

	// MinTaskDuration and MaxTaskDuration bound the simulated task length;
	// each party draws a uniform duration from the closed range.
	MinTaskDuration time.Duration
	MaxTaskDuration time.Duration

	// IdleDelay is the pause after a completed party before the next seek.
	IdleDelay time.Duration

	// RetryDelay is the longer pause after a seek that produced no party,
	// yielding contention to the other instances.
	RetryDelay time.Duration
}

// DefaultConfig returns the default dispatcher configuration.
func DefaultConfig() Config {
	return Config{
		Instances:       3,
		MinTaskDuration: time.Second,
		MaxTaskDuration: 3 * time.Second,
		IdleDelay:       100 * time.Millisecond,
		RetryDelay:      250 * time.Millisecond,
	}
}

// Validate returns an error describing invalid settings or nil.
func (c *Config) Validate() error {
	if c.Instances <= 0 {
		return fmt.Errorf("dispatcher.instances must be > 0")
	}
	if c.MinTaskDuration < 0 {
		return fmt.Errorf("dispatcher.minTaskDuration must be >= 0")
	}
	if c.MaxTaskDuration < c.MinTaskDuration {
		return fmt.Errorf("dispatcher.maxTaskDuration must be >= minTaskDuration")
	}
	if c.IdleDelay <= 0 {
		return fmt.Errorf("dispatcher.idleDelay must be > 0")
	}
	if c.RetryDelay <= 0 {
		return fmt.Errorf("dispatcher.retryDelay must be > 0")
	}
	return nil
}

// Service drives the instance pool: one worker goroutine per instance,
// each repeatedly seeking a party from the match engine, simulating the
// task and reporting completion.
type Service struct {
	config    Config
	matcher   *matcher.Service
	logger    zerolog.Logger
	publisher *event.Publisher[party.Party]

	workers      []*worker
	workerWg     sync.WaitGroup
	shutdownCh   chan struct{}
	shutdownOnce sync.Once
}

type worker struct {
	id       int
	service  *Service
	ctx      context.Context
	cancelFn context.CancelFunc
	rnd      *rand.Rand
}

// New creates a dispatcher over the given match engine.
func New(engine *matcher.Service, options ...Option) (*Service, error) {
	s := &Service{
		config:     DefaultConfig(),
		matcher:    engine,
		logger:     zerolog.Nop(),
		shutdownCh: make(chan struct{}),
	}
	for _, opt := range options {
		opt(s)
	}
	if s.matcher == nil {
		return nil, fmt.Errorf("match engine is required")
	}
	if err := s.config.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Start spawns one worker goroutine per instance slot.
func (s *Service) Start(ctx context.Context) error {
	for i := 1; i <= s.config.Instances; i++ {
		workerCtx, cancel := context.WithCancel(ctx)
		w := &worker{
			id:       i,
			service:  s,
			ctx:      workerCtx,
			cancelFn: cancel,
			rnd:      rand.New(rand.NewSource(time.Now().UnixNano() + int64(i))),
		}
		s.workers = append(s.workers, w)
		s.workerWg.Add(1)
		go w.run()
	}
	return nil
}

// run is the scheduler loop of a single instance: seek, simulate, report,
// idle, repeat. It exits only between parties, never mid-task.
func (w *worker) run() {
	defer w.service.workerWg.Done()
	logger := w.service.logger.With().Int("instance", w.id).Logger()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-w.service.shutdownCh:
			return
		default:
		}

		p, err := w.service.matcher.TryFormGroup(w.ctx, w.id)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			logger.Warn().Err(err).Msg("seek failed")
			if !w.pause(w.service.config.RetryDelay) {
				return
			}
			continue
		}
		if p == nil {
			// transient contention, not an error
			if !w.service.matcher.Running() {
				return
			}
			if !w.pause(w.service.config.RetryDelay) {
				return
			}
			continue
		}

		logger.Info().Str("party", p.ID).Msg("party formed")
		progress.UpdateCtx(w.ctx, progress.Delta{PartiesFormed: 1, ActorsMatched: party.Size})
		w.publish(event.TypePartyFormed, p, 0)

		elapsed := w.runTask()
		if err := w.service.matcher.CompleteGroup(w.id, elapsed); err != nil {
			logger.Error().Err(err).Msg("failed to report completion")
		}
		logger.Info().Str("party", p.ID).Dur("elapsed", elapsed).Msg("party completed")
		progress.UpdateCtx(w.ctx, progress.Delta{PartiesCompleted: 1})
		w.publish(event.TypePartyCompleted, p, elapsed)

		if !w.pause(w.service.config.IdleDelay) {
			return
		}
	}
}

// runTask simulates the party's task for a uniformly drawn duration. The
// sleep is deliberately non-interruptible: shutdown lets in-flight tasks
// run to completion.
func (w *worker) runTask() time.Duration {
	cfg := w.service.config
	d := cfg.MinTaskDuration
	if span := cfg.MaxTaskDuration - cfg.MinTaskDuration; span > 0 {
		d += time.Duration(w.rnd.Int63n(int64(span) + 1))
	}
	time.Sleep(d)
	return d
}

// pause sleeps for d, returning false when the worker should exit instead
// of seeking again.
func (w *worker) pause(d time.Duration) bool {
	select {
	case <-time.After(d):
		return true
	case <-w.ctx.Done():
		return false
	case <-w.service.shutdownCh:
		return false
	}
}

// publish emits a best-effort party notification. The publish is bounded
// so a full queue with no consumer never stalls the scheduler loop.
func (w *worker) publish(eventType string, p *party.Party, elapsed time.Duration) {
	if w.service.publisher == nil {
		return
	}
	evt := event.NewEvent(&event.Context{
		PartyID:    p.ID,
		InstanceID: w.id,
		EventType:  eventType,
		ElapsedMs:  int(elapsed.Milliseconds()),
	}, *p)
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	if err := w.service.publisher.Publish(ctx, evt); err != nil && !errors.Is(err, context.Canceled) {
		w.service.logger.Debug().Err(err).Msg("failed to publish party event")
	}
}

// Shutdown stops all workers and waits for them to exit. Shut the match
// engine down first so blocked seeks wake promptly; workers finish their
// in-flight tasks before exiting.
func (s *Service) Shutdown() {
	s.shutdownOnce.Do(func() {
		close(s.shutdownCh)
	})
	for _, w := range s.workers {
		w.cancelFn()
	}
	s.workerWg.Wait()
}
