package player

import (
	"math"

	"github.com/milk9111/beastmind/fsm"
)

type groundedState struct{}

func (groundedState) Enter(p *Player) {
	p.movement.Y = p.gravity
	// The applied speed restarts at the ground hold value as well.
	p.applied.Y = p.gravity
	switch {
	case !p.movementPressed && !p.runPressed:
		p.machine.SetSubState(Grounded, Idle)
	case p.movementPressed && !p.runPressed:
		p.machine.SetSubState(Grounded, Walk)
	default:
		p.machine.SetSubState(Grounded, Run)
	}
}

func (s groundedState) Update(p *Player) { s.CheckTransitions(p) }

func (groundedState) Exit(p *Player) {}

func (groundedState) CheckTransitions(p *Player) {
	if p.jumpPressed {
		p.machine.Switch(Grounded, Jump)
		return
	}
	if !p.controller.IsGrounded() {
		p.machine.Switch(Grounded, Fall)
	}
}

type idleState struct{}

func (idleState) Enter(p *Player) { p.currentSpeed = 0 }

func (s idleState) Update(p *Player) { s.CheckTransitions(p) }

func (idleState) Exit(p *Player) {}

func (idleState) CheckTransitions(p *Player) {
	switch {
	case p.movementPressed && p.runPressed:
		p.machine.Switch(Idle, Run)
	case p.movementPressed:
		p.machine.Switch(Idle, Walk)
	}
}

type walkState struct{}

func (walkState) Enter(p *Player) {
	p.anim.SetBool(p.params.walking, true)
	p.currentSpeed = p.stats.WalkSpeed
}

func (s walkState) Update(p *Player) { s.CheckTransitions(p) }

func (walkState) Exit(p *Player) {
	p.anim.SetBool(p.params.walking, false)
}

func (walkState) CheckTransitions(p *Player) {
	switch {
	case !p.movementPressed:
		p.machine.Switch(Walk, Idle)
	case p.runPressed:
		p.machine.Switch(Walk, Run)
	}
}

type runState struct{}

func (runState) Enter(p *Player) {
	p.anim.SetBool(p.params.running, true)
	p.currentSpeed = p.stats.RunSpeed
}

func (s runState) Update(p *Player) { s.CheckTransitions(p) }

func (runState) Exit(p *Player) {
	p.anim.SetBool(p.params.running, false)
}

func (runState) CheckTransitions(p *Player) {
	switch {
	case !p.movementPressed:
		p.machine.Switch(Run, Idle)
	case !p.runPressed:
		p.machine.Switch(Run, Walk)
	}
}

type jumpState struct{}

func (jumpState) Enter(p *Player) {
	p.isJumping = true
	p.movement.Y = p.initialJumpVelocity
	p.applied.Y = p.initialJumpVelocity
	p.anim.SetTrigger(p.params.jump)
}

func (s jumpState) Update(p *Player) {
	if p.fastFalling() {
		p.integrateGravity(p.stats.FallMultiplier, jumpTerminalVelocity)
	} else {
		p.integrateGravity(1, math.Inf(-1))
	}
	s.CheckTransitions(p)
}

func (jumpState) Exit(p *Player) { p.isJumping = false }

func (jumpState) CheckTransitions(p *Player) {
	if p.controller.IsGrounded() {
		p.machine.Switch(Jump, Grounded)
	}
}

// fastFalling reports whether the jump has passed its apex, or with
// HoldJump, whether jump was released early.
func (p *Player) fastFalling() bool {
	if p.stats.HoldJump {
		return p.movement.Y <= 0 || !p.jumpPressed
	}
	return p.movement.Y <= 0
}

type fallState struct{}

func (fallState) Enter(p *Player) { p.anim.SetBool(p.params.falling, true) }

func (s fallState) Update(p *Player) {
	p.integrateGravity(1, fallTerminalVelocity)
	s.CheckTransitions(p)
}

func (fallState) Exit(p *Player) { p.anim.SetBool(p.params.falling, false) }

func (fallState) CheckTransitions(p *Player) {
	if p.controller.IsGrounded() {
		p.machine.Switch(Fall, Grounded)
	}
}

var (
	_ fsm.State[*Player] = groundedState{}
	_ fsm.State[*Player] = idleState{}
	_ fsm.State[*Player] = walkState{}
	_ fsm.State[*Player] = runState{}
	_ fsm.State[*Player] = jumpState{}
	_ fsm.State[*Player] = fallState{}
)
