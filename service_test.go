package lfg_test

import (
	"context"
	"embed"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "github.com/viant/afs/embed"

	"lfg"
	"lfg/model/party"
	"lfg/progress"
)

//go:embed testdata/*
var embedFS embed.FS

func TestServiceValidation(t *testing.T) {
	_, err := lfg.New(lfg.WithInstances(-1))
	assert.Error(t, err)

	_, err = lfg.New(lfg.WithTaskDurationRange(time.Second, time.Millisecond))
	assert.Error(t, err)

	_, err = lfg.New(lfg.WithSeekTimeout(0))
	assert.Error(t, err)
}

func TestServiceEndToEnd(t *testing.T) {
	srv, err := lfg.New(
		lfg.WithInstances(2),
		lfg.WithTaskDurationRange(20*time.Millisecond, 40*time.Millisecond),
		lfg.WithSeekTimeout(100*time.Millisecond),
	)
	require.NoError(t, err)

	rt := srv.Runtime()
	ctx, tracker := progress.WithNewTracker(context.Background(), "e2e", nil)
	require.NoError(t, rt.Start(ctx))

	require.NoError(t, rt.Submit(ctx, party.Demand{Tanks: 2, Healers: 2, Damage: 6}))

	drainCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	require.NoError(t, rt.WaitForDrain(drainCtx))

	snapshot := rt.Snapshot()
	assert.Equal(t, 2, snapshot.TotalPartiesFormed)
	assert.Equal(t, 0, snapshot.ActiveInstances())
	assert.Equal(t, 0, snapshot.QueuedActors())

	served := 0
	for _, m := range snapshot.Instances {
		served += m.PartiesServed
	}
	assert.Equal(t, snapshot.TotalPartiesFormed, served)

	// workers report completion just after the engine releases the slot
	assert.Eventually(t, func() bool {
		p := tracker.Snapshot()
		return p.PartiesCompleted == 2
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, 10, tracker.Snapshot().ActorsQueued)
	assert.Equal(t, 2*party.Size, tracker.Snapshot().ActorsMatched)

	require.NoError(t, rt.Shutdown(ctx))
	assert.Error(t, rt.Submit(ctx, party.Demand{Tanks: 1}))
}

func TestWaitForDrainWithUnformableQueue(t *testing.T) {
	srv, err := lfg.New(
		lfg.WithInstances(3),
		lfg.WithTaskDurationRange(10*time.Millisecond, 10*time.Millisecond),
		lfg.WithSeekTimeout(50*time.Millisecond),
	)
	require.NoError(t, err)

	rt := srv.Runtime()
	ctx := context.Background()
	require.NoError(t, rt.Start(ctx))
	defer func() { _ = rt.Shutdown(ctx) }()

	// without a single tank no group can ever form
	require.NoError(t, rt.Submit(ctx, party.Demand{Tanks: 0, Healers: 5, Damage: 10}))

	started := time.Now()
	drainCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	require.NoError(t, rt.WaitForDrain(drainCtx))
	assert.Less(t, time.Since(started), 500*time.Millisecond)

	snapshot := rt.Snapshot()
	assert.Equal(t, 0, snapshot.TotalPartiesFormed)
	assert.Equal(t, 5, snapshot.Healers)
	assert.Equal(t, 10, snapshot.Damage)
}

func TestLoadConfig(t *testing.T) {
	ctx := context.Background()
	config, err := lfg.LoadConfig(ctx, "embed:///testdata/config.yaml", &embedFS)
	require.NoError(t, err)

	assert.Equal(t, 4, config.Pool.Instances)
	assert.Equal(t, 15*time.Millisecond, config.Pool.MinTaskDuration)
	assert.Equal(t, 30*time.Millisecond, config.Pool.MaxTaskDuration)
	assert.Equal(t, 5*time.Millisecond, config.Pool.IdleDelay)
	assert.Equal(t, 10*time.Millisecond, config.Pool.RetryDelay)
	assert.Equal(t, 80*time.Millisecond, config.Match.SeekTimeout)

	srv, err := lfg.New(lfg.WithConfig(config))
	require.NoError(t, err)
	assert.NotNil(t, srv.Runtime())

	_, err = lfg.LoadConfig(ctx, "embed:///testdata/missing.yaml", &embedFS)
	assert.Error(t, err)
}
