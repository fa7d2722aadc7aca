package matcher

import (
	"context"
	"fmt"
	"sync"
	"time"

	"lfg/model/instance"
	"lfg/model/party"
)

// Config represents matcher service configuration.
type Config struct {
	// SeekTimeout bounds how long a single TryFormGroup call may wait for
	// queue state to change before giving up and letting the caller retry.
	SeekTimeout time.Duration
}

// DefaultConfig returns the default matcher configuration.
func DefaultConfig() Config {
	return Config{
		SeekTimeout: 250 * time.Millisecond,
	}
}

// Validate returns an error describing invalid settings or nil.
func (c *Config) Validate() error {
	if c.SeekTimeout <= 0 {
		return fmt.Errorf("matcher.seekTimeout must be > 0")
	}
	return nil
}

// Service is the match engine. It owns the three role queues, the instance
// records and all shared counters behind a single mutex; instance workers
// and external callers coordinate exclusively through its methods.
type Service struct {
	config Config

	mu   sync.Mutex
	wake chan struct{}

	tanks   roleQueue
	healers roleQueue
	damage  roleQueue

	// nextToken stamps submitted actors so FIFO order per role is
	// structurally observable.
	nextToken uint64

	instances    []*instance.Instance
	totalParties int
	seeking      int
	running      bool
}

// New creates a match engine with the given number of instance slots.
func New(instanceCount int, options ...Option) (*Service, error) {
	s := &Service{
		config:  DefaultConfig(),
		wake:    make(chan struct{}),
		running: true,
	}
	for _, opt := range options {
		opt(s)
	}
	if instanceCount <= 0 {
		return nil, fmt.Errorf("instance count must be > 0, got %d", instanceCount)
	}
	if err := s.config.Validate(); err != nil {
		return nil, err
	}
	s.instances = make([]*instance.Instance, instanceCount)
	for i := range s.instances {
		s.instances[i] = instance.New(i + 1)
	}
	return s, nil
}

// InstanceCount returns the size of the instance pool.
func (s *Service) InstanceCount() int {
	return len(s.instances)
}

// Submit appends the demanded actor counts to the role queues and wakes
// every worker blocked in TryFormGroup.
func (s *Service) Submit(ctx context.Context, demand party.Demand) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := demand.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return fmt.Errorf("match engine is shut down")
	}
	s.enqueueLocked(&s.tanks, demand.Tanks)
	s.enqueueLocked(&s.healers, demand.Healers)
	s.enqueueLocked(&s.damage, demand.Damage)
	s.broadcastLocked()
	return nil
}

// TryFormGroup attempts to cut a party for the given instance. The call
// registers the instance as seeking, waits up to the configured seek
// timeout for the admission predicate to hold - woken early by Submit,
// CompleteGroup or Shutdown - and extracts one tank, one healer and three
// damage tokens in a single critical section on success.
//
// A nil party with a nil error means no group could be formed within the
// window (or the engine stopped); the caller is expected to re-poll.
func (s *Service) TryFormGroup(ctx context.Context, instanceID int) (*party.Party, error) {
	inst, err := s.instanceByID(instanceID)
	if err != nil {
		return nil, err
	}

	timer := time.NewTimer(s.config.SeekTimeout)
	defer timer.Stop()

	s.mu.Lock()
	s.seeking++
	for {
		if !s.running {
			s.seeking--
			s.mu.Unlock()
			return nil, nil
		}
		// The seeking clause keeps a solitary worker from treating its own
		// registration as a wake-up in a degenerate race with late joiners.
		if s.canForm() && s.seeking >= 1 {
			if inst.Status == instance.StatusActive {
				s.seeking--
				s.mu.Unlock()
				return nil, fmt.Errorf("instance %d already runs a party", instanceID)
			}
			s.extract()
			inst.Status = instance.StatusActive
			inst.PartiesServed++
			s.totalParties++
			s.seeking--
			s.mu.Unlock()
			return party.New(instanceID), nil
		}

		wake := s.wake
		s.mu.Unlock()
		select {
		case <-wake:
		case <-timer.C:
			s.mu.Lock()
			s.seeking--
			s.mu.Unlock()
			return nil, nil
		case <-ctx.Done():
			s.mu.Lock()
			s.seeking--
			s.mu.Unlock()
			return nil, ctx.Err()
		}
		s.mu.Lock()
	}
}

// CompleteGroup records that the instance finished its party after the
// given elapsed duration, returns the slot to idle and wakes all waiters.
func (s *Service) CompleteGroup(instanceID int, elapsed time.Duration) error {
	inst, err := s.instanceByID(instanceID)
	if err != nil {
		return err
	}
	if elapsed < 0 {
		return fmt.Errorf("elapsed duration must be >= 0, got %v", elapsed)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if inst.Status != instance.StatusActive {
		return fmt.Errorf("instance %d has no party to complete", instanceID)
	}
	inst.Status = instance.StatusIdle
	inst.TotalTimeServed += elapsed
	s.broadcastLocked()
	return nil
}

// Shutdown stops the engine: no further groups form and every blocked
// TryFormGroup call wakes and returns empty-handed. In-flight parties are
// not interrupted; workers report them via CompleteGroup as usual. The
// call is idempotent.
func (s *Service) Shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	s.running = false
	s.broadcastLocked()
}

// Running reports whether the engine still accepts and forms groups.
func (s *Service) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// CanForm reports whether the admission predicate currently holds.
func (s *Service) CanForm() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.canForm()
}

// Snapshot is a consistent, lock-protected view of all engine counters.
type Snapshot struct {
	Tanks              int                `json:"tanks"`
	Healers            int                `json:"healers"`
	Damage             int                `json:"damage"`
	Instances          []instance.Metrics `json:"instances"`
	TotalPartiesFormed int                `json:"totalPartiesFormed"`
	WorkersSeeking     int                `json:"workersSeeking"`
	Running            bool               `json:"running"`
}

// ActiveInstances returns how many instances currently run a party.
func (sn Snapshot) ActiveInstances() int {
	active := 0
	for _, m := range sn.Instances {
		if m.Status == instance.StatusActive {
			active++
		}
	}
	return active
}

// QueuedActors returns the total number of waiting actors across roles.
func (sn Snapshot) QueuedActors() int {
	return sn.Tanks + sn.Healers + sn.Damage
}

// Snapshot captures all counters under the engine lock. It never mutates
// state and is safe to call concurrently with all engine activity.
func (s *Service) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	metrics := make([]instance.Metrics, len(s.instances))
	for i, inst := range s.instances {
		metrics[i] = inst.Metrics()
	}
	return Snapshot{
		Tanks:              s.tanks.size(),
		Healers:            s.healers.size(),
		Damage:             s.damage.size(),
		Instances:          metrics,
		TotalPartiesFormed: s.totalParties,
		WorkersSeeking:     s.seeking,
		Running:            s.running,
	}
}

func (s *Service) instanceByID(id int) (*instance.Instance, error) {
	if id < 1 || id > len(s.instances) {
		return nil, fmt.Errorf("instance id %d out of range 1..%d", id, len(s.instances))
	}
	return s.instances[id-1], nil
}

// enqueueLocked stamps and appends n tokens. Callers must hold s.mu.
func (s *Service) enqueueLocked(q *roleQueue, n int) {
	for i := 0; i < n; i++ {
		s.nextToken++
		q.push(s.nextToken)
	}
}

// broadcastLocked wakes every waiter by closing the current wake channel
// and installing a fresh one. Callers must hold s.mu.
func (s *Service) broadcastLocked() {
	close(s.wake)
	s.wake = make(chan struct{})
}
