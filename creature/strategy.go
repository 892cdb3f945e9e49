package creature

import (
	"fmt"

	"go.uber.org/zap"
)

// MovementStrategy drives the nav agent while Patrol or Chase is active.
type MovementStrategy interface {
	// StartMovement configures the agent on state entry.
	StartMovement(c *Creature)
	// Move runs once per tick.
	Move(c *Creature)
}

// IdleStrategy runs once per tick while Idle is active.
type IdleStrategy interface {
	Idling(c *Creature)
}

// NewMovementStrategy builds the strategy for kind.
func NewMovementStrategy(kind MovementKind) (MovementStrategy, error) {
	switch kind {
	case MoveGallop:
		return Gallop{}, nil
	case MoveChase:
		return Pursue{}, nil
	}
	return nil, fmt.Errorf("%w: unknown movement strategy %q", ErrInvalidData, kind)
}

// NewIdleStrategy builds the strategy for kind. script is only read for
// IdleScripted.
func NewIdleStrategy(kind IdleKind, script []byte, log *zap.Logger) (IdleStrategy, error) {
	switch kind {
	case IdleGraze:
		return Graze{}, nil
	case IdleStill:
		return Still{}, nil
	case IdleScripted:
		return NewScripted(script, log)
	}
	return nil, fmt.Errorf("%w: unknown idle strategy %q", ErrInvalidData, kind)
}

// Gallop wanders to random points on the navmesh.
type Gallop struct{}

func (Gallop) StartMovement(c *Creature) {
	d := c.data
	speed := d.PatrolSpeed
	if d.Gallop.Enabled {
		speed = d.Gallop.Speed
	}
	c.agent.SetSpeed(speed)
	c.agent.SetAcceleration(d.Acceleration)
	c.agent.SetUpdateRotation(false)
	c.agent.SetStopped(false)
	c.agent.SetDestination(c.RandomPatrolPoint())
}

func (Gallop) Move(c *Creature) {
	d := c.data
	c.dampFloat(c.params.Vert, 1, 0.1)

	vel := c.agent.Velocity()
	if vel.SqrMagnitude() > movingSqrSpeed {
		rot := d.RotationSpeed
		if d.Gallop.Enabled {
			rot = d.Gallop.RotationSpeed
		}
		c.turnTowards(vel, rot)
	}
}

// Pursue follows the current target.
type Pursue struct{}

func (Pursue) StartMovement(c *Creature) {
	d := c.data
	c.agent.SetSpeed(d.ChaseSpeed)
	c.agent.SetAcceleration(d.Acceleration)
	c.agent.SetStoppingDistance(d.StoppingDistance)
	c.agent.SetUpdateRotation(false)
	c.agent.SetAutoBraking(true)
	c.agent.SetStopped(false)
}

func (Pursue) Move(c *Creature) {
	if c.target == nil {
		return
	}
	d := c.data
	goal := c.target.Position()
	c.agent.SetDestination(goal)

	vel := c.agent.Velocity()
	moving := vel.SqrMagnitude() > movingSqrSpeed
	if moving {
		c.turnTowards(vel, d.RotationSpeed)
	} else {
		c.turnTowards(goal.Sub(c.transform.Position()), d.RotationSpeed*0.5)
	}

	vert, state := 0.0, 0.0
	if moving {
		vert = 1
		if top := c.agent.Speed(); top > 0 {
			state = vel.Magnitude() / top
		}
	}
	v := c.dampFloat(c.params.Vert, vert, d.AnimDampTime)
	s := c.dampFloat(c.params.State, state, d.AnimDampTime)
	if !moving {
		if v < 0.01 {
			c.setFloat(c.params.Vert, 0)
		}
		if s < 0.01 {
			c.setFloat(c.params.State, 0)
		}
	}
}

// Graze plays the creature's idle animation through the timed ramp whenever
// the cooldown allows.
type Graze struct{}

func (Graze) Idling(c *Creature) {
	d := c.data
	c.TriggerStateTransition(RampRequest{
		Target:   d.AnimationParameterTargetValue,
		Duration: d.TimeToReachTargetValue,
		Param:    c.params.State,
		Cooldown: d.CooldownTime,
		Loops:    d.TimesToLoopAnimation,
	})
}

// Still holds the creature in its neutral pose.
type Still struct{}

func (Still) Idling(c *Creature) {
	c.setFloat(c.params.State, 0)
	c.setFloat(c.params.Vert, 0)
}
