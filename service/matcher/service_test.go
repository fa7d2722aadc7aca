package matcher

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lfg/model/instance"
	"lfg/model/party"
)

func TestNewValidation(t *testing.T) {
	_, err := New(0)
	assert.Error(t, err)

	_, err = New(-3)
	assert.Error(t, err)

	_, err = New(2, WithSeekTimeout(0))
	assert.Error(t, err)

	s, err := New(2)
	require.NoError(t, err)
	assert.Equal(t, 2, s.InstanceCount())
	assert.True(t, s.Running())
}

func TestSubmitAndSnapshot(t *testing.T) {
	s, err := New(2)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, s.Submit(ctx, party.Demand{Tanks: 2, Healers: 1, Damage: 4}))

	snapshot := s.Snapshot()
	assert.Equal(t, 2, snapshot.Tanks)
	assert.Equal(t, 1, snapshot.Healers)
	assert.Equal(t, 4, snapshot.Damage)
	assert.Equal(t, 7, snapshot.QueuedActors())
	assert.Equal(t, 0, snapshot.TotalPartiesFormed)
	assert.Equal(t, 0, snapshot.WorkersSeeking)
	assert.Len(t, snapshot.Instances, 2)
	assert.Equal(t, 0, snapshot.ActiveInstances())

	assert.Error(t, s.Submit(ctx, party.Demand{Tanks: -1}))
}

func TestTryFormGroupExtractsAtomically(t *testing.T) {
	s, err := New(2, WithSeekTimeout(50*time.Millisecond))
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, s.Submit(ctx, party.Demand{Tanks: 1, Healers: 1, Damage: 3}))

	p, err := s.TryFormGroup(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, 1, p.InstanceID)
	assert.NotEmpty(t, p.ID)

	snapshot := s.Snapshot()
	assert.Equal(t, 0, snapshot.QueuedActors())
	assert.Equal(t, 1, snapshot.TotalPartiesFormed)
	assert.Equal(t, instance.StatusActive, snapshot.Instances[0].Status)
	assert.Equal(t, 1, snapshot.Instances[0].PartiesServed)
	assert.Equal(t, instance.StatusIdle, snapshot.Instances[1].Status)
	assert.Equal(t, 0, snapshot.WorkersSeeking)

	// no actors left - the other instance comes back empty-handed
	p2, err := s.TryFormGroup(ctx, 2)
	require.NoError(t, err)
	assert.Nil(t, p2)

	// an instance cannot run two parties at once
	require.NoError(t, s.Submit(ctx, party.Demand{Tanks: 1, Healers: 1, Damage: 3}))
	_, err = s.TryFormGroup(ctx, 1)
	assert.Error(t, err)

	// out-of-range ids are a contract violation
	_, err = s.TryFormGroup(ctx, 0)
	assert.Error(t, err)
	_, err = s.TryFormGroup(ctx, 3)
	assert.Error(t, err)
}

func TestCompleteGroup(t *testing.T) {
	s, err := New(1, WithSeekTimeout(50*time.Millisecond))
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, s.Submit(ctx, party.Demand{Tanks: 1, Healers: 1, Damage: 3}))
	p, err := s.TryFormGroup(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, p)

	assert.Error(t, s.CompleteGroup(1, -time.Second))
	assert.NoError(t, s.CompleteGroup(1, 42*time.Millisecond))

	snapshot := s.Snapshot()
	assert.Equal(t, instance.StatusIdle, snapshot.Instances[0].Status)
	assert.Equal(t, 42*time.Millisecond, snapshot.Instances[0].TotalTimeServed)

	// completing an idle instance is an error
	assert.Error(t, s.CompleteGroup(1, time.Millisecond))
	assert.Error(t, s.CompleteGroup(9, time.Millisecond))
}

// Stocking the queues with exactly k parties' worth of actors and letting
// many instances race must form exactly k parties, never more, never
// fewer, with nothing left behind.
func TestAtomicExtractionUnderStress(t *testing.T) {
	const workers = 8
	const parties = 20

	s, err := New(workers, WithSeekTimeout(200*time.Millisecond))
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, s.Submit(ctx, party.Demand{
		Tanks:   parties * party.TanksPerParty,
		Healers: parties * party.HealersPerParty,
		Damage:  parties * party.DamagePerParty,
	}))

	var formed int64
	var wg sync.WaitGroup
	wg.Add(workers)
	for id := 1; id <= workers; id++ {
		go func(id int) {
			defer wg.Done()
			for {
				p, err := s.TryFormGroup(ctx, id)
				if err != nil {
					t.Errorf("instance %d: %v", id, err)
					return
				}
				if p == nil {
					// queues can no longer yield a party
					return
				}
				atomic.AddInt64(&formed, 1)
				if err := s.CompleteGroup(id, time.Millisecond); err != nil {
					t.Errorf("instance %d: %v", id, err)
					return
				}
			}
		}(id)
	}
	wg.Wait()

	assert.Equal(t, int64(parties), atomic.LoadInt64(&formed))

	snapshot := s.Snapshot()
	assert.Equal(t, parties, snapshot.TotalPartiesFormed)
	assert.Equal(t, 0, snapshot.QueuedActors())
	assert.Equal(t, 0, snapshot.WorkersSeeking)
	assert.Equal(t, 0, snapshot.ActiveInstances())

	// conservation: the engine total equals the sum over instances
	served := 0
	for _, m := range snapshot.Instances {
		served += m.PartiesServed
	}
	assert.Equal(t, snapshot.TotalPartiesFormed, served)
}

func TestZeroTanksNeverForms(t *testing.T) {
	s, err := New(3, WithSeekTimeout(50*time.Millisecond))
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, s.Submit(ctx, party.Demand{Tanks: 0, Healers: 5, Damage: 10}))

	for id := 1; id <= 3; id++ {
		p, err := s.TryFormGroup(ctx, id)
		require.NoError(t, err)
		assert.Nil(t, p)
	}

	snapshot := s.Snapshot()
	assert.Equal(t, 0, snapshot.TotalPartiesFormed)
	assert.Equal(t, 5, snapshot.Healers)
	assert.Equal(t, 10, snapshot.Damage)
	assert.False(t, CanForm(snapshot.Tanks, snapshot.Healers, snapshot.Damage))
}

func TestFIFOPerRole(t *testing.T) {
	s, err := New(1, WithSeekTimeout(50*time.Millisecond))
	require.NoError(t, err)

	ctx := context.Background()
	// tokens are stamped in submission order: tanks 1-2, healers 3-4,
	// damage 5-10
	require.NoError(t, s.Submit(ctx, party.Demand{Tanks: 2, Healers: 2, Damage: 6}))

	p, err := s.TryFormGroup(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, p)

	s.mu.Lock()
	defer s.mu.Unlock()
	assert.Equal(t, []uint64{2}, s.tanks.tokens)
	assert.Equal(t, []uint64{4}, s.healers.tokens)
	assert.Equal(t, []uint64{8, 9, 10}, s.damage.tokens)
}

func TestWorkersSeekingCounter(t *testing.T) {
	s, err := New(2, WithSeekTimeout(300*time.Millisecond))
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		defer close(done)
		p, err := s.TryFormGroup(context.Background(), 1)
		assert.NoError(t, err)
		assert.Nil(t, p)
	}()

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, s.Snapshot().WorkersSeeking)

	<-done
	assert.Equal(t, 0, s.Snapshot().WorkersSeeking)
}

func TestShutdownWakesSeekers(t *testing.T) {
	s, err := New(1, WithSeekTimeout(10*time.Second))
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		defer close(done)
		p, err := s.TryFormGroup(context.Background(), 1)
		assert.NoError(t, err)
		assert.Nil(t, p)
	}()

	time.Sleep(50 * time.Millisecond)
	s.Shutdown()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("seeker did not wake after shutdown")
	}

	assert.False(t, s.Running())
	assert.Error(t, s.Submit(context.Background(), party.Demand{Tanks: 1}))

	// idempotent
	s.Shutdown()
	assert.False(t, s.Running())
}

func TestTryFormGroupContextCancellation(t *testing.T) {
	s, err := New(1, WithSeekTimeout(10*time.Second))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(30 * time.Millisecond)
		cancel()
	}()

	_, err = s.TryFormGroup(ctx, 1)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, s.Snapshot().WorkersSeeking)
}
