// Package debugui provides a read-only Dear ImGui inspector for a
// pulseecs World: an entity/pool browser and a viewer over the diff
// tracker's frame history. Unlike a live field editor, nothing rendered
// here writes back into the world — it exists to make a running
// simulation observable, not to puppet it.
package debugui

import (
	"fmt"

	"github.com/pulseecs/pulseecs/ecs"
)

// Panel is one inspector window. RegisterAll wires every Panel in this
// package into a system so a single RunSystems call each frame renders
// the whole inspector.
type Panel interface {
	Render(w *ecs.World)
}

// RegisterAll registers one imperative system per panel with s, so the
// inspector renders once per scheduler frame alongside simulation
// systems. Panels never declare mutable access: they only read.
func RegisterAll(s *ecs.Scheduler, panels ...Panel) {
	for _, p := range panels {
		p := p
		ecs.RegisterImperative(s, panelName(p), func(w *ecs.World) {
			p.Render(w)
		})
	}
}

func panelName(p Panel) string {
	return fmt.Sprintf("debugui:%T", p)
}
