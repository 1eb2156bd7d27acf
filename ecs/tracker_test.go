package ecs_test

import (
	"reflect"
	"testing"
	"time"

	"github.com/pulseecs/pulseecs/ecs"
)

// S3 — Tracked diff.
func TestTrackedDiffRecordsChangedFields(t *testing.T) {
	w := ecs.NewWorld()
	w.Tracker().Enable()

	s := ecs.NewScheduler()
	s.NextFrame(w, time.Second) // -> frame 1

	e0 := w.CreateEntity()
	ecs.AddComponent(w, e0, Velocity{DX: 1.0, DY: 1.0})

	ecs.RegisterSingle[struct {
		V ecs.Mut[Velocity]
	}](s, "damp", func(it *ecs.QueryIterator[struct {
		V ecs.Mut[Velocity]
	}]) {
		for _, row := range it.All() {
			v := row.V.Get()
			v.DX *= 0.9
			v.DY *= 0.9
		}
	})

	s.RunSystemsTracked(w)

	history := w.Tracker().History()
	if len(history) != 1 {
		t.Fatalf("expected exactly one FrameRecord, got %d", len(history))
	}

	record := history[0]
	if record.FrameNumber != 1 {
		t.Errorf("expected frame_number 1, got %d", record.FrameNumber)
	}
	if record.SystemName != "damp" {
		t.Errorf("expected system_name damp, got %s", record.SystemName)
	}
	if len(record.ComponentDiffs) != 1 {
		t.Fatalf("expected one ComponentDiff, got %d", len(record.ComponentDiffs))
	}

	cd := record.ComponentDiffs[0]
	if cd.Entity != e0 {
		t.Errorf("expected diff for e0, got %v", cd.Entity)
	}
	if len(cd.Changes) != 2 {
		t.Fatalf("expected two changed fields, got %d: %+v", len(cd.Changes), cd.Changes)
	}
	if cd.Changes[0].PropertyName != "DX" || cd.Changes[0].NewValue != "0.9" {
		t.Errorf("unexpected first change: %+v", cd.Changes[0])
	}
	if cd.Changes[1].PropertyName != "DY" || cd.Changes[1].NewValue != "0.9" {
		t.Errorf("unexpected second change: %+v", cd.Changes[1])
	}
}

func TestUntrackedRunMatchesTrackedWithTrackingDisabled(t *testing.T) {
	// Invariant 6: with tracking disabled, RunSystems and RunSystemsTracked
	// behave identically aside from the (absent, either way) history.
	newWorld := func() (*ecs.World, *ecs.Scheduler, ecs.Entity) {
		w := ecs.NewWorld()
		e := w.CreateEntity()
		ecs.AddComponent(w, e, Velocity{DX: 2, DY: 2})
		s := ecs.NewScheduler()
		ecs.RegisterSingle[struct {
			V ecs.Mut[Velocity]
		}](s, "halve", func(it *ecs.QueryIterator[struct {
			V ecs.Mut[Velocity]
		}]) {
			for _, row := range it.All() {
				v := row.V.Get()
				v.DX *= 0.5
				v.DY *= 0.5
			}
		})
		return w, s, e
	}

	wa, sa, ea := newWorld()
	sa.RunSystems(wa)

	wb, sb, eb := newWorld()
	sb.RunSystemsTracked(wb)

	gotA, _ := ecs.GetComponent[Velocity](wa, ea)
	gotB, _ := ecs.GetComponent[Velocity](wb, eb)
	if gotA != gotB {
		t.Fatalf("expected identical results, got %+v vs %+v", gotA, gotB)
	}
	if len(wb.Tracker().History()) != 0 {
		t.Fatalf("expected no history while tracking disabled")
	}
}

func TestTrackedDiffMarksRemovedEntity(t *testing.T) {
	w := ecs.NewWorld()
	w.Tracker().Enable()
	e := w.CreateEntity()
	ecs.AddComponent(w, e, Velocity{DX: 1, DY: 1})

	s := ecs.NewScheduler()
	s.NextFrame(w, time.Second)
	ecs.RegisterImperative(s, "despawn", func(w *ecs.World) {
		w.DestroyEntity(e)
	}, reflect.TypeFor[Velocity]())
	s.RunSystemsTracked(w)

	history := w.Tracker().History()
	if len(history) != 1 {
		t.Fatalf("expected exactly one FrameRecord, got %d", len(history))
	}
	changes := history[0].ComponentDiffs
	if len(changes) != 1 {
		t.Fatalf("expected one ComponentDiff, got %+v", changes)
	}
	if changes[0].Entity != e || len(changes[0].Changes) != 1 || changes[0].Changes[0].NewValue != "removed" {
		t.Fatalf("expected a removed marker for e, got %+v", changes[0])
	}
}

type panickingDiffComponent struct {
	value int
}

func (c panickingDiffComponent) Diff(other any) []ecs.PropertyDiff {
	panic("boom")
}

func TestTrackedDiffMarksFailedDiff(t *testing.T) {
	w := ecs.NewWorld()
	w.Tracker().Enable()
	e := w.CreateEntity()
	ecs.AddComponent(w, e, panickingDiffComponent{value: 1})

	s := ecs.NewScheduler()
	s.NextFrame(w, time.Second)
	ecs.RegisterSingle[struct {
		C ecs.Mut[panickingDiffComponent]
	}](s, "mutate", func(it *ecs.QueryIterator[struct {
		C ecs.Mut[panickingDiffComponent]
	}]) {
		for _, row := range it.All() {
			row.C.Get().value = 2
		}
	})
	s.RunSystemsTracked(w)

	history := w.Tracker().History()
	if len(history) != 1 {
		t.Fatalf("expected exactly one FrameRecord, got %d", len(history))
	}
	changes := history[0].ComponentDiffs
	if len(changes) != 1 || changes[0].Changes[0].NewValue != "diff failed" {
		t.Fatalf("expected a diff failed marker, got %+v", changes)
	}
}

func TestClearHistory(t *testing.T) {
	w := ecs.NewWorld()
	w.Tracker().Enable()
	e := w.CreateEntity()
	ecs.AddComponent(w, e, Velocity{DX: 1, DY: 1})

	s := ecs.NewScheduler()
	s.NextFrame(w, time.Second)
	ecs.RegisterSingle[struct {
		V ecs.Mut[Velocity]
	}](s, "nudge", func(it *ecs.QueryIterator[struct {
		V ecs.Mut[Velocity]
	}]) {
		for _, row := range it.All() {
			row.V.Get().DX += 1
		}
	})
	s.RunSystemsTracked(w)

	if len(w.Tracker().History()) == 0 {
		t.Fatalf("expected history to be populated before clearing")
	}
	w.Tracker().ClearHistory()
	if len(w.Tracker().History()) != 0 {
		t.Fatalf("expected history to be empty after ClearHistory")
	}
}
