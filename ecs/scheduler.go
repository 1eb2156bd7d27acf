package ecs

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// SystemStats accumulates timing information for one registered system
// across every frame it has run.
type SystemStats struct {
	Name          string
	CallCount     uint64
	TotalDuration time.Duration
	LastDuration  time.Duration
}

// SchedulerStats is a point-in-time snapshot of a Scheduler's per-system
// timing, in registration order.
type SchedulerStats struct {
	FrameCount uint64
	Systems    []SystemStats
}

// Scheduler runs registered systems against a World in strict registration
// order, once per frame. Ordering is never inferred from declared access
// sets; a system that must run after another is registered after it.
type Scheduler struct {
	descriptors []systemDescriptor
	stats       []SystemStats
	frameCount  uint64
}

// NewScheduler creates an empty Scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

func (s *Scheduler) register(d systemDescriptor) {
	s.descriptors = append(s.descriptors, d)
	s.stats = append(s.stats, SystemStats{Name: d.name})
}

// NextFrame advances w's clock by dt and increments both the scheduler's
// and the tracker's frame counters. No system execution happens here and
// none of it mutates the frame counter, so callers can freely call
// NextFrame any number of times relative to RunSystems/RunSystemsTracked.
func (s *Scheduler) NextFrame(w *World, dt time.Duration) {
	w.clock.Tick(dt)
	w.tracker.NextFrame()
	s.frameCount++
}

// RunSystems invokes every registered system once, in registration order,
// with tracking disabled: no snapshot or diff hook runs, regardless of
// whether the World's tracker is enabled.
func (s *Scheduler) RunSystems(w *World) {
	for i, d := range s.descriptors {
		start := time.Now()
		d.run(w)
		elapsed := time.Since(start)
		s.recordStats(w, i, d, elapsed)
	}
}

// RunSystemsTracked invokes every registered system once, in registration
// order. For each system, every mutable type in its access set is
// snapshotted beforehand and diffed afterward; the tracker itself decides
// whether that actually records anything, so this is safe to call even
// with tracking disabled — it then behaves exactly like RunSystems save
// for the no-op tracker calls.
func (s *Scheduler) RunSystemsTracked(w *World) {
	for i, d := range s.descriptors {
		mutableTypes := d.mutableTypes()
		entities := w.Entities()

		w.tracker.snapshot(w, entities, mutableTypes)

		start := time.Now()
		d.run(w)
		elapsed := time.Since(start)

		w.tracker.diff(w, d.name, entities, mutableTypes)
		s.recordStats(w, i, d, elapsed)
	}
}

func (s *Scheduler) recordStats(w *World, i int, d systemDescriptor, elapsed time.Duration) {
	st := &s.stats[i]
	st.CallCount++
	st.TotalDuration += elapsed
	st.LastDuration = elapsed

	if ce := w.logger.Check(zap.DebugLevel, "system executed"); ce != nil {
		ce.Write(
			zap.String("system", d.name),
			zap.Duration("duration", elapsed),
			zap.Uint64("frame", s.frameCount),
		)
	}
}

// Run calls NextFrame followed by RunSystemsTracked every interval until
// ctx is canceled. The delta time passed to each frame is the requested
// interval, not measured wall-clock drift, so behavior stays reproducible
// under test.
func (s *Scheduler) Run(ctx context.Context, w *World, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.NextFrame(w, interval)
			s.RunSystemsTracked(w)
		}
	}
}

// Stats returns a snapshot of accumulated per-system timing in
// registration order.
func (s *Scheduler) Stats() SchedulerStats {
	out := make([]SystemStats, len(s.stats))
	copy(out, s.stats)
	return SchedulerStats{
		FrameCount: s.frameCount,
		Systems:    out,
	}
}
