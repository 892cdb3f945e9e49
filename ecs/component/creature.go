package component

import (
	"github.com/milk9111/beastmind/anim"
	"github.com/milk9111/beastmind/creature"
	"github.com/milk9111/beastmind/nav"
	"github.com/milk9111/beastmind/physics"
)

// Creature is an AI-driven animal and its collaborators.
type Creature struct {
	Brain    *creature.Creature
	Nav      *nav.Agent
	Body     *physics.AgentBody
	Animator *anim.Animator
	// Following is set while the player is the creature's target.
	Following bool
}

var CreatureComponent = NewComponent[Creature]()
