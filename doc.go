// Package lfg provides a concurrent group-matchmaking engine.
//
// Actors of three roles (tank, healer, damage) wait in per-role FIFO
// queues. A fixed pool of instances races to cut parties of one tank, one
// healer and three damage actors; each formed party is dispatched to the
// winning instance, which simulates a task of random duration before
// seeking again. The engine comes with pluggable service layers:
//
//   - matcher    – role queues, group formation and shared counters
//   - dispatcher – the instance pool and its scheduler loops
//   - event      – typed party lifecycle notifications
//
// End-users typically interact with the engine via the high-level Service
// facade exposed by the root package:
//
//	srv, _ := lfg.New(lfg.WithInstances(4))
//	rt := srv.Runtime()
//	_ = rt.Start(ctx)
//	_ = rt.Submit(ctx, party.Demand{Tanks: 1, Healers: 1, Damage: 3})
//	_ = rt.WaitForDrain(ctx)
//	_ = rt.Shutdown(ctx)
//
// For more details see the individual sub-packages.
package lfg
