package system

import (
	"github.com/milk9111/beastmind/component"
	"github.com/milk9111/beastmind/ecs"
	ecscomp "github.com/milk9111/beastmind/ecs/component"
)

// CreatureAISystem advances every creature machine once per tick and then
// steps its animator.
type CreatureAISystem struct {
	clock component.Clock
}

func NewCreatureAISystem(clock component.Clock) *CreatureAISystem {
	return &CreatureAISystem{clock: clock}
}

func (s *CreatureAISystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	dt := s.clock.DeltaTime()
	ecs.ForEach(w, ecscomp.CreatureComponent.Kind(), func(e ecs.Entity, c *ecscomp.Creature) {
		c.Brain.Advance()
		if c.Animator != nil {
			c.Animator.Step(dt)
		}
	})
}
