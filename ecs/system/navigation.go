package system

import (
	"github.com/milk9111/beastmind/component"
	"github.com/milk9111/beastmind/ecs"
	ecscomp "github.com/milk9111/beastmind/ecs/component"
)

// NavigationSystem resolves pending paths and steers the nav agents. Agents
// with a body only set its velocity; the physics step moves them.
type NavigationSystem struct {
	clock component.Clock
}

func NewNavigationSystem(clock component.Clock) *NavigationSystem {
	return &NavigationSystem{clock: clock}
}

func (s *NavigationSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	dt := s.clock.DeltaTime()
	ecs.ForEach(w, ecscomp.CreatureComponent.Kind(), func(e ecs.Entity, c *ecscomp.Creature) {
		c.Nav.Update(dt)
	})
}
