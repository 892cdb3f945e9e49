package system

import (
	"github.com/milk9111/beastmind/common"
	"github.com/milk9111/beastmind/component"
	"github.com/milk9111/beastmind/ecs"
	ecscomp "github.com/milk9111/beastmind/ecs/component"
)

// PlayerControllerSystem turns raw input into input-action events for the
// player machine, advances it and steps its animator.
type PlayerControllerSystem struct {
	clock component.Clock
	prev  map[ecs.Entity]ecscomp.Input
}

func NewPlayerControllerSystem(clock component.Clock) *PlayerControllerSystem {
	return &PlayerControllerSystem{
		clock: clock,
		prev:  make(map[ecs.Entity]ecscomp.Input),
	}
}

func (s *PlayerControllerSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	ecs.ForEach2(w, ecscomp.PlayerComponent.Kind(), ecscomp.InputComponent.Kind(), func(e ecs.Entity, p *ecscomp.Player, in *ecscomp.Input) {
		prev := s.prev[e]
		if phase, ok := movePhase(prev.Move, in.Move); ok {
			value := in.Move
			if phase == component.InputCanceled {
				value = prev.Move
			}
			p.Brain.OnMove(component.MoveEvent{Phase: phase, Value: value})
		}
		if phase, ok := buttonPhase(prev.Run, in.Run); ok {
			p.Brain.OnRun(component.ButtonEvent{Phase: phase, Pressed: in.Run})
		}
		if phase, ok := buttonPhase(prev.Jump, in.Jump); ok {
			p.Brain.OnJump(component.ButtonEvent{Phase: phase, Pressed: in.Jump})
		}
		s.prev[e] = *in

		p.Brain.Advance()
		if p.Animator != nil {
			p.Animator.Step(s.clock.DeltaTime())
		}
	})
}

// movePhase reports the action phase for a change of the movement vector.
// An unchanged vector raises no event.
func movePhase(prev, cur common.Vec2) (component.InputPhase, bool) {
	switch {
	case prev == cur:
		return 0, false
	case cur.IsZero():
		return component.InputCanceled, true
	case prev.IsZero():
		return component.InputStarted, true
	default:
		return component.InputPerformed, true
	}
}

func buttonPhase(prev, cur bool) (component.InputPhase, bool) {
	switch {
	case prev == cur:
		return 0, false
	case cur:
		return component.InputStarted, true
	default:
		return component.InputCanceled, true
	}
}
