package ecs

import (
	"fmt"
	"reflect"
	"strings"
)

// ComponentDiff records the property-level changes a single system made to
// a single entity's component during one frame.
type ComponentDiff struct {
	Entity        Entity
	ComponentType string
	Changes       []PropertyDiff
}

// FrameRecord is the complete set of component diffs a system produced in
// one frame. Frames with no diffs are never recorded, mirroring the Rust
// original's record_diffs, which only appends when component_diffs is
// non-empty.
type FrameRecord struct {
	FrameNumber    uint64
	SystemName     string
	ComponentDiffs []ComponentDiff
}

type trackerKey struct {
	entity Entity
	typ    reflect.Type
}

// Tracker is an opt-in recorder of per-frame component mutations. Disabled
// trackers do no work beyond the enabled check: snapshot and diff are safe
// to call unconditionally from the scheduler's hot path.
type Tracker struct {
	enabled     bool
	frameNumber uint64
	history     []FrameRecord
	snapshots   map[trackerKey]any
}

// NewTracker creates a disabled Tracker with an empty history.
func NewTracker() *Tracker {
	return &Tracker{
		snapshots: make(map[trackerKey]any),
	}
}

// Enable turns on diff recording.
func (t *Tracker) Enable() { t.enabled = true }

// Disable turns off diff recording. Existing history is left intact.
func (t *Tracker) Disable() { t.enabled = false }

// Enabled reports whether the tracker is currently recording.
func (t *Tracker) Enabled() bool { return t.enabled }

// NextFrame advances the tracker's own frame counter. The scheduler calls
// this once per scheduler frame, independent of the World's Clock.
func (t *Tracker) NextFrame() { t.frameNumber++ }

// FrameNumber returns the tracker's current frame counter.
func (t *Tracker) FrameNumber() uint64 { return t.frameNumber }

// snapshot takes a pre-execution copy of every (entity, type) pair in
// entities x mutableTypes so diff can later compare against post-execution
// state. It is a no-op when the tracker is disabled.
func (t *Tracker) snapshot(w *World, entities []Entity, mutableTypes []reflect.Type) {
	if !t.enabled {
		return
	}
	for k := range t.snapshots {
		delete(t.snapshots, k)
	}
	for _, e := range entities {
		for _, typ := range mutableTypes {
			if v, ok := w.cloneComponent(e, typ); ok {
				t.snapshots[trackerKey{e, typ}] = v
			}
		}
	}
}

// diff compares the current state of every snapshotted (entity, type) pair
// against its pre-execution snapshot and, if anything changed, appends a
// FrameRecord for systemName. An entity that lost the component between
// snapshot and diff is recorded with a "removed" marker rather than
// silently dropped. A single entity's failing diff (panic inside a
// user-supplied Differ, for instance) is isolated with recover so it cannot
// take down the rest of the frame; that entity is recorded with a
// "diff failed" marker instead.
func (t *Tracker) diff(w *World, systemName string, entities []Entity, mutableTypes []reflect.Type) {
	if !t.enabled {
		return
	}

	var componentDiffs []ComponentDiff
	for _, e := range entities {
		for _, typ := range mutableTypes {
			oldV, hadSnapshot := t.snapshots[trackerKey{e, typ}]
			if !hadSnapshot {
				continue
			}
			newV, ok := w.cloneComponent(e, typ)
			if !ok {
				componentDiffs = append(componentDiffs, ComponentDiff{
					Entity:        e,
					ComponentType: typ.String(),
					Changes:       []PropertyDiff{{PropertyName: "", NewValue: "removed"}},
				})
				continue
			}
			if cd := safeDiffOne(e, typ, oldV, newV); cd != nil {
				componentDiffs = append(componentDiffs, *cd)
			}
		}
	}

	if len(componentDiffs) == 0 {
		return
	}
	t.history = append(t.history, FrameRecord{
		FrameNumber:    t.frameNumber,
		SystemName:     systemName,
		ComponentDiffs: componentDiffs,
	})
}

func safeDiffOne(e Entity, typ reflect.Type, oldV, newV any) (result *ComponentDiff) {
	defer func() {
		if recover() != nil {
			result = &ComponentDiff{
				Entity:        e,
				ComponentType: typ.String(),
				Changes:       []PropertyDiff{{PropertyName: "", NewValue: "diff failed"}},
			}
		}
	}()
	changes := diffValues(oldV, newV)
	if len(changes) == 0 {
		return nil
	}
	return &ComponentDiff{
		Entity:        e,
		ComponentType: typ.String(),
		Changes:       changes,
	}
}

// History returns the recorded frame diffs in chronological order.
func (t *Tracker) History() []FrameRecord {
	out := make([]FrameRecord, len(t.history))
	copy(out, t.history)
	return out
}

// ClearHistory discards all recorded frame diffs without affecting the
// enabled flag or frame counter.
func (t *Tracker) ClearHistory() {
	t.history = nil
}

// FormatHistory renders the recorded history as a human-readable report,
// one block per frame record.
func (t *Tracker) FormatHistory() string {
	var b strings.Builder
	for _, record := range t.history {
		fmt.Fprintf(&b, "Frame %d: System %q\n", record.FrameNumber, record.SystemName)
		for _, cd := range record.ComponentDiffs {
			fmt.Fprintf(&b, "  Entity %d: %s changed\n", cd.Entity, cd.ComponentType)
			for _, change := range cd.Changes {
				fmt.Fprintf(&b, "    %s -> %s\n", change.PropertyName, change.NewValue)
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
