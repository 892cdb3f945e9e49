package component

import (
	"github.com/milk9111/beastmind/anim"
	"github.com/milk9111/beastmind/physics"
	"github.com/milk9111/beastmind/player"
)

type Player struct {
	Brain     *player.Player
	Character *physics.Character
	Animator  *anim.Animator
}

var PlayerComponent = NewComponent[Player]()
