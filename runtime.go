package lfg

import (
	"context"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"lfg/model/party"
	"lfg/progress"
	"lfg/service/dispatcher"
	"lfg/service/event"
	"lfg/service/matcher"
	"lfg/tracing"
)

// drainPollInterval is how often WaitForDrain re-reads the engine state.
const drainPollInterval = 25 * time.Millisecond

// Runtime represents a running matchmaking engine.
type Runtime struct {
	matcher    *matcher.Service
	dispatcher *dispatcher.Service
	events     *event.Service
	logger     zerolog.Logger
}

// Start spawns the instance workers. The supplied context is the parent of
// every worker; a progress tracker embedded in it (see package progress)
// receives counter updates from the workers.
func (r *Runtime) Start(ctx context.Context) error {
	return r.dispatcher.Start(ctx)
}

// Submit pushes a batch of actors onto the role queues and wakes all
// seeking instances. Counts must be non-negative.
func (r *Runtime) Submit(ctx context.Context, demand party.Demand) (err error) {
	ctx, span := tracing.StartSpan(ctx, "lfg.Submit", "PRODUCER")
	defer func() { tracing.EndSpan(span, err) }()
	span.WithAttributes(map[string]string{
		"demand.tanks":   strconv.Itoa(demand.Tanks),
		"demand.healers": strconv.Itoa(demand.Healers),
		"demand.damage":  strconv.Itoa(demand.Damage),
	})

	if err = r.matcher.Submit(ctx, demand); err != nil {
		return err
	}
	progress.UpdateCtx(ctx, progress.Delta{ActorsQueued: demand.Total()})
	r.logger.Info().
		Int("tanks", demand.Tanks).
		Int("healers", demand.Healers).
		Int("damage", demand.Damage).
		Msg("actors queued")
	return nil
}

// Snapshot returns a consistent view of queues, instances and counters.
func (r *Runtime) Snapshot() matcher.Snapshot {
	return r.matcher.Snapshot()
}

// WaitForDrain blocks until no instance is active and no further group can
// be formed from the queued actors, or until the context is cancelled.
// Both conditions come from a single snapshot, so a group cannot slip in
// between the two checks.
func (r *Runtime) WaitForDrain(ctx context.Context) error {
	ticker := time.NewTicker(drainPollInterval)
	defer ticker.Stop()
	for {
		snapshot := r.matcher.Snapshot()
		if snapshot.ActiveInstances() == 0 &&
			!matcher.CanForm(snapshot.Tanks, snapshot.Healers, snapshot.Damage) {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// OnPartyEvent registers a handler for party lifecycle events (formed and
// completed), replacing any previously registered one.
func (r *Runtime) OnPartyEvent(handler func(*event.Event[party.Party])) {
	event.SetListenerOf(r.events, handler)
}

// Shutdown stops group formation and waits for every worker to exit.
// In-flight simulated tasks run to completion; no worker is interrupted
// mid-task.
func (r *Runtime) Shutdown(context.Context) error {
	r.matcher.Shutdown()
	r.dispatcher.Shutdown()
	return nil
}
