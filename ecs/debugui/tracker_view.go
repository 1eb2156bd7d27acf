package debugui

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/pulseecs/pulseecs/ecs"
)

// TrackerView renders the diff tracker's frame history as a scrollable
// log, newest frame first, plus a toggle and clear button for the
// tracker's enabled state.
type TrackerView struct{}

// NewTrackerView creates a TrackerView.
func NewTrackerView() *TrackerView {
	return &TrackerView{}
}

// Render draws the tracker history window.
func (tv *TrackerView) Render(w *ecs.World) {
	if !imgui.BeginV("Diff Tracker", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}
	defer imgui.End()

	tracker := w.Tracker()
	enabled := tracker.Enabled()
	if imgui.Checkbox("Tracking enabled", &enabled) {
		if enabled {
			tracker.Enable()
		} else {
			tracker.Disable()
		}
	}
	imgui.SameLine()
	if imgui.Button("Clear history") {
		tracker.ClearHistory()
	}

	imgui.Separator()

	history := tracker.History()
	for i := len(history) - 1; i >= 0; i-- {
		record := history[i]
		label := fmt.Sprintf("Frame %d: %s (%d entities)", record.FrameNumber, record.SystemName, len(record.ComponentDiffs))
		if !imgui.TreeNodeStr(label) {
			continue
		}
		for _, cd := range record.ComponentDiffs {
			imgui.Text(fmt.Sprintf("Entity %d: %s", cd.Entity, cd.ComponentType))
			for _, change := range cd.Changes {
				imgui.BulletText(fmt.Sprintf("%s -> %s", change.PropertyName, change.NewValue))
			}
		}
		imgui.TreePop()
	}
}
