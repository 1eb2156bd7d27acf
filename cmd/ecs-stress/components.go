package main

import (
	"math/rand"

	"github.com/pulseecs/pulseecs/ecs"
)

type Position struct {
	X, Y, Z float64
}

type Velocity struct {
	DX, DY, DZ float64
}

type Health struct {
	Current, Max int
}

type AIState struct {
	Target int
	Timer  float64
}

type Tag struct {
	Label string
}

// SpawnRandomEntity creates one entity and attaches a random subset of the
// stress test's component set, weighted toward Position/Velocity so the
// movement system always has work to do.
func SpawnRandomEntity(w *ecs.World, rng *rand.Rand) ecs.Entity {
	e := w.CreateEntity()
	ecs.AddComponent(w, e, Position{X: rng.Float64() * 100, Y: rng.Float64() * 100})
	ecs.AddComponent(w, e, Velocity{DX: rng.Float64() - 0.5, DY: rng.Float64() - 0.5})

	if rng.Float64() < 0.6 {
		ecs.AddComponent(w, e, Health{Current: 100, Max: 100})
	}
	if rng.Float64() < 0.3 {
		ecs.AddComponent(w, e, AIState{Target: -1})
	}
	if rng.Float64() < 0.2 {
		ecs.AddComponent(w, e, Tag{Label: "stress"})
	}
	return e
}

// RegisterStressSystems wires up the systems the stress loop drives every
// frame: a movement integrator, an AI timer tick, and a periodic health
// regen pass.
func RegisterStressSystems(s *ecs.Scheduler) {
	ecs.RegisterSingle[struct {
		Pos ecs.Mut[Position]
		*Velocity
	}](s, "integrate-motion", func(it *ecs.QueryIterator[struct {
		Pos ecs.Mut[Position]
		*Velocity
	}]) {
		for _, row := range it.All() {
			p := row.Pos.Get()
			p.X += row.Velocity.DX
			p.Y += row.Velocity.DY
			p.Z += row.Velocity.DZ
		}
	})

	ecs.RegisterSingle[struct {
		AI ecs.Mut[AIState]
	}](s, "tick-ai", func(it *ecs.QueryIterator[struct {
		AI ecs.Mut[AIState]
	}]) {
		for _, row := range it.All() {
			row.AI.Get().Timer += 1
		}
	})

	ecs.RegisterSingle[struct {
		HP ecs.Mut[Health]
	}](s, "regen-health", func(it *ecs.QueryIterator[struct {
		HP ecs.Mut[Health]
	}]) {
		for _, row := range it.All() {
			hp := row.HP.Get()
			if hp.Current < hp.Max {
				hp.Current++
			}
		}
	})
}
