// Package progress provides a lightweight tracker that keeps aggregated
// matchmaking counters (actors queued, parties formed, parties completed)
// for a single run. The tracker travels in the context, so every component
// receiving the context can update the counters without a global registry.
package progress

import (
	"context"
	"sync"
	"time"
)

// Delta is an incremental counter change emitted by the runtime or the
// dispatcher workers. Fields are signed so callers can also decrement.
type Delta struct {
	ActorsQueued     int
	ActorsMatched    int
	PartiesFormed    int
	PartiesCompleted int
}

// Progress keeps aggregated counters for one matchmaking run. It is safe
// for concurrent use.
type Progress struct {
	// Identification, informative only.
	RunID     string
	StartedAt time.Time

	ActorsQueued     int
	ActorsMatched    int
	PartiesFormed    int
	PartiesCompleted int

	sync.Mutex
	onChange func(Progress)
}

// Update applies the delta. A registered onChange callback receives a value
// copy outside the critical section so slow observers never block workers.
func (p *Progress) Update(d Delta) {
	if p == nil {
		return
	}
	p.Lock()
	p.ActorsQueued += d.ActorsQueued
	p.ActorsMatched += d.ActorsMatched
	p.PartiesFormed += d.PartiesFormed
	p.PartiesCompleted += d.PartiesCompleted

	snapshot := *p
	cb := p.onChange
	p.Unlock()

	if cb != nil {
		cb(snapshot)
	}
}

// Snapshot returns a value copy for read-only inspection.
func (p *Progress) Snapshot() Progress {
	if p == nil {
		return Progress{}
	}
	p.Lock()
	defer p.Unlock()
	return *p
}

// OnChange registers a callback invoked after every Update. Passing nil
// disables it; only one callback is active at a time.
func (p *Progress) OnChange(cb func(Progress)) {
	if p == nil {
		return
	}
	p.Lock()
	p.onChange = cb
	p.Unlock()
}

type trackerKeyT struct{}

var trackerKey trackerKeyT

// WithNewTracker creates a tracker, embeds it in a derived context and
// returns both.
func WithNewTracker(ctx context.Context, runID string, onChange func(Progress)) (context.Context, *Progress) {
	if ctx == nil {
		ctx = context.Background()
	}
	tr := &Progress{
		RunID:     runID,
		StartedAt: time.Now(),
		onChange:  onChange,
	}
	return context.WithValue(ctx, trackerKey, tr), tr
}

// FromContext extracts the tracker from ctx, if any.
func FromContext(ctx context.Context) (*Progress, bool) {
	if ctx == nil {
		return nil, false
	}
	tr, ok := ctx.Value(trackerKey).(*Progress)
	return tr, ok
}

// UpdateCtx applies the delta to the tracker carried by ctx, if any.
func UpdateCtx(ctx context.Context, d Delta) {
	if tr, ok := FromContext(ctx); ok {
		tr.Update(d)
	}
}
