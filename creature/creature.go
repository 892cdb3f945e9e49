// Package creature is the AI of a navmesh-driven animal: an Idle/Patrol/Chase
// machine that delegates movement and idling to per-creature strategies.
package creature

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/google/uuid"
	"github.com/milk9111/beastmind/common"
	"github.com/milk9111/beastmind/component"
	"github.com/milk9111/beastmind/fsm"
	"go.uber.org/zap"
)

const (
	Idle fsm.Kind = iota
	Patrol
	Chase
)

const (
	// patrolSampleTolerance is how far from a random point the navmesh is
	// searched for a reachable one.
	patrolSampleTolerance = 2.0
	// movingSqrSpeed is the squared speed below which an agent counts as
	// stopped.
	movingSqrSpeed = 0.1
)

var ErrMissingCollaborator = errors.New("creature: missing collaborator")

// ScriptLoader returns the source of a named idle script.
type ScriptLoader func(name string) ([]byte, error)

// Config wires a creature to its collaborators.
type Config struct {
	// ID defaults to a random uuid.
	ID        string
	Data      *Data
	Agent     component.NavAgent
	Mesh      component.NavMesh
	Transform component.Transform
	Clock     component.Clock
	// Animator may be nil; parameter writes are then dropped and the timed
	// ramp never starts.
	Animator component.Animator
	// Scripts is required when Data selects the scripted idle strategy.
	Scripts ScriptLoader
	Rand    *rand.Rand
	Logger  *zap.Logger
	// OnTransition is called after each state switch.
	OnTransition func(from, to fsm.Kind)
}

// animParams are the resolved animator handles a creature writes.
type animParams struct {
	Vert  component.ParamID
	State component.ParamID
}

// Creature is the shared context of one creature's states and strategies.
type Creature struct {
	id        string
	data      *Data
	agent     component.NavAgent
	mesh      component.NavMesh
	transform component.Transform
	clock     component.Clock
	anim      component.Animator
	hasAnim   bool
	params    animParams
	scripts   ScriptLoader
	rng       *rand.Rand
	log       *zap.Logger

	idle     IdleStrategy
	patrol   MovementStrategy
	chase    MovementStrategy
	movement MovementStrategy

	target component.Target
	ramp   *Ramp

	machine *fsm.Machine[*Creature]
}

// New validates cfg, applies the agent tunables and enters Idle.
func New(cfg Config) (*Creature, error) {
	switch {
	case cfg.Data == nil:
		return nil, fmt.Errorf("%w: data", ErrMissingCollaborator)
	case cfg.Agent == nil:
		return nil, fmt.Errorf("%w: nav agent", ErrMissingCollaborator)
	case cfg.Mesh == nil:
		return nil, fmt.Errorf("%w: nav mesh", ErrMissingCollaborator)
	case cfg.Transform == nil:
		return nil, fmt.Errorf("%w: transform", ErrMissingCollaborator)
	case cfg.Clock == nil:
		return nil, fmt.Errorf("%w: clock", ErrMissingCollaborator)
	}
	if err := cfg.Data.Validate(); err != nil {
		return nil, err
	}

	c := &Creature{
		id:        cfg.ID,
		data:      cfg.Data,
		agent:     cfg.Agent,
		mesh:      cfg.Mesh,
		transform: cfg.Transform,
		clock:     cfg.Clock,
		anim:      cfg.Animator,
		hasAnim:   cfg.Animator != nil,
		scripts:   cfg.Scripts,
		rng:       cfg.Rand,
		log:       cfg.Logger,
	}
	if c.id == "" {
		c.id = uuid.NewString()
	}
	if c.rng == nil {
		c.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if c.log == nil {
		c.log = zap.NewNop()
	}
	c.log = c.log.With(zap.String("creature", c.id), zap.String("kind", c.data.Name))
	if !c.hasAnim {
		c.anim = nopAnimator{}
	}
	c.params = animParams{
		Vert:  c.anim.ParamID(c.data.Params.Vert),
		State: c.anim.ParamID(c.data.Params.State),
	}
	c.ramp = NewRamp(c.anim, c.rampFinished)

	if err := c.buildStrategies(c.data); err != nil {
		return nil, err
	}

	f, err := fsm.NewFactory(
		fsm.Root(Idle, "idle", func() fsm.State[*Creature] { return &idleState{} }),
		fsm.Root(Patrol, "patrol", func() fsm.State[*Creature] { return &patrolState{} }),
		fsm.Root(Chase, "chase", func() fsm.State[*Creature] { return &chaseState{} }),
	)
	if err != nil {
		return nil, fmt.Errorf("creature: build states: %w", err)
	}
	opts := []fsm.Option{fsm.WithLogger(c.log), fsm.WithName("creature")}
	if cfg.OnTransition != nil {
		opts = append(opts, fsm.WithTransitionHook(cfg.OnTransition))
	}
	c.machine = fsm.New(c, f, opts...)

	c.agent.SetStoppingDistance(c.data.StoppingDistance)
	c.agent.SetAcceleration(c.data.Acceleration)
	c.machine.Start(Idle)
	return c, nil
}

func (c *Creature) buildStrategies(d *Data) error {
	var script []byte
	if d.IdleStrategy == IdleScripted {
		if c.scripts == nil {
			return fmt.Errorf("%w: script loader for %s", ErrMissingCollaborator, d.IdleScript)
		}
		src, err := c.scripts(d.IdleScript)
		if err != nil {
			return fmt.Errorf("creature: load idle script %s: %w", d.IdleScript, err)
		}
		script = src
	}
	idle, err := NewIdleStrategy(d.IdleStrategy, script, c.log)
	if err != nil {
		return err
	}
	patrol, err := NewMovementStrategy(d.PatrolStrategy)
	if err != nil {
		return err
	}
	chase, err := NewMovementStrategy(d.ChaseStrategy)
	if err != nil {
		return err
	}
	c.idle, c.patrol, c.chase = idle, patrol, chase
	return nil
}

// Advance runs one tick of the machine and then one frame of the timed ramp.
func (c *Creature) Advance() {
	c.machine.Advance()
	c.ramp.Step(c.clock.DeltaTime(), c.clock.Now())
}

func (c *Creature) OnTargetAcquired(t component.Target) {
	c.target = t
	c.log.Debug("creature: target acquired")
}

func (c *Creature) OnTargetLost() {
	c.target = nil
	c.log.Debug("creature: target lost")
}

func (c *Creature) HasTarget() bool { return c.target != nil }

func (c *Creature) IsBusy() bool { return c.ramp.Busy() }

func (c *Creature) CurrentState() fsm.Kind { return c.machine.Current() }

func (c *Creature) StateName() string { return c.machine.Name(c.machine.Current()) }

// KindName names one of the creature's state kinds.
func (c *Creature) KindName(k fsm.Kind) string { return c.machine.Name(k) }

func (c *Creature) ID() string { return c.id }

func (c *Creature) Data() *Data { return c.data }

// TriggerStateTransition starts the timed ramp. Requests made while busy,
// during the cooldown, or without an animator are ignored.
func (c *Creature) TriggerStateTransition(req RampRequest) {
	now := c.clock.Now()
	if !c.hasAnim || c.ramp.Busy() || now < c.ramp.NextAllowed() {
		return
	}
	c.ramp.Start(req, now)
	c.log.Debug("creature: ramp started", zap.Float64("target", req.Target), zap.Float64("duration", req.Duration))
}

func (c *Creature) rampFinished(req RampRequest, canceled bool) {
	c.log.Debug("creature: ramp finished",
		zap.Bool("canceled", canceled),
		zap.Float64("next_allowed", c.ramp.NextAllowed()))
}

// RandomPatrolPoint picks a reachable point within the patrol radius. When
// the navmesh has nothing near the sample the creature's own position is
// returned.
func (c *Creature) RandomPatrolPoint() common.Vec3 {
	pos := c.transform.Position()
	p := pos.Add(randomInUnitSphere(c.rng).Scale(c.data.PatrolRadius))
	if hit, ok := c.mesh.SamplePosition(p, patrolSampleTolerance); ok {
		return hit
	}
	return pos
}

func randomInUnitSphere(r *rand.Rand) common.Vec3 {
	for {
		v := common.Vec3{X: r.Float64()*2 - 1, Y: r.Float64()*2 - 1, Z: r.Float64()*2 - 1}
		if v.SqrMagnitude() <= 1 {
			return v
		}
	}
}

// SetData swaps the tunables between ticks. Strategies are rebuilt; an
// active movement strategy is replaced by its new counterpart without
// re-running StartMovement.
func (c *Creature) SetData(d *Data) error {
	if err := d.Validate(); err != nil {
		return err
	}
	if err := c.buildStrategies(d); err != nil {
		return err
	}
	c.data = d
	c.params = animParams{
		Vert:  c.anim.ParamID(d.Params.Vert),
		State: c.anim.ParamID(d.Params.State),
	}
	c.agent.SetStoppingDistance(d.StoppingDistance)
	c.agent.SetAcceleration(d.Acceleration)
	switch c.machine.Current() {
	case Patrol:
		c.movement = c.patrol
	case Chase:
		c.movement = c.chase
	}
	c.log.Info("creature: data reloaded")
	return nil
}

// Close cancels the timed ramp and exits the active state.
func (c *Creature) Close() {
	c.ramp.Cancel(c.clock.Now())
	c.machine.Stop()
}

// Debug is what an overlay draws for a creature.
type Debug struct {
	ID           string
	Kind         string
	State        string
	Busy         bool
	Ramp         RampPhase
	Position     common.Vec3
	Destination  common.Vec3
	HasPath      bool
	PatrolRadius float64
	Target       *common.Vec3
}

func (c *Creature) Debug() Debug {
	d := Debug{
		ID:           c.id,
		Kind:         c.data.Name,
		State:        c.StateName(),
		Busy:         c.ramp.Busy(),
		Ramp:         c.ramp.Phase(),
		Position:     c.transform.Position(),
		Destination:  c.agent.Destination(),
		HasPath:      c.agent.HasPath(),
		PatrolRadius: c.data.PatrolRadius,
	}
	if c.target != nil {
		p := c.target.Position()
		d.Target = &p
	}
	return d
}

func (c *Creature) setFloat(id component.ParamID, v float64) { c.anim.SetFloat(id, v) }

// dampFloat moves a float parameter toward target and returns the written
// value.
func (c *Creature) dampFloat(id component.ParamID, target, dampTime float64) float64 {
	v := common.Damp(c.anim.Float(id), target, dampTime, c.clock.DeltaTime())
	c.anim.SetFloat(id, v)
	return v
}

// turnTowards rotates the heading toward dir by speed*dt of the remaining
// arc.
func (c *Creature) turnTowards(dir common.Vec3, speed float64) {
	dir = dir.Flat()
	if dir.IsZero() {
		return
	}
	t := c.clock.DeltaTime() * speed
	c.transform.SetYaw(common.LerpAngle(c.transform.Yaw(), common.Yaw(dir), t))
}

type nopAnimator struct{}

func (nopAnimator) ParamID(string) component.ParamID    { return component.InvalidParam }
func (nopAnimator) SetFloat(component.ParamID, float64) {}
func (nopAnimator) Float(component.ParamID) float64     { return 0 }
func (nopAnimator) SetBool(component.ParamID, bool)     {}
func (nopAnimator) SetTrigger(component.ParamID)        {}
func (nopAnimator) ClipLength() float64                 { return 0 }
