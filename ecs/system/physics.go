package system

import (
	"github.com/milk9111/beastmind/component"
	"github.com/milk9111/beastmind/ecs"
	"github.com/milk9111/beastmind/physics"
)

// PhysicsSystem steps the shared space by the tick length.
type PhysicsSystem struct {
	space *physics.Space
	clock component.Clock
}

func NewPhysicsSystem(space *physics.Space, clock component.Clock) *PhysicsSystem {
	return &PhysicsSystem{space: space, clock: clock}
}

func (ps *PhysicsSystem) Space() *physics.Space {
	if ps == nil {
		return nil
	}
	return ps.space
}

func (ps *PhysicsSystem) Update(w *ecs.World) {
	if ps == nil || ps.space == nil {
		return
	}
	ps.space.Step(ps.clock.DeltaTime())
}
