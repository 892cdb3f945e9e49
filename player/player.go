// Package player is the character locomotion machine: a Grounded super-state
// with Idle/Walk/Run children plus Jump and Fall.
package player

import (
	"errors"
	"fmt"

	"github.com/milk9111/beastmind/common"
	"github.com/milk9111/beastmind/component"
	"github.com/milk9111/beastmind/fsm"
	"go.uber.org/zap"
)

const (
	Grounded fsm.Kind = iota
	Jump
	Fall
	Idle
	Walk
	Run
)

const (
	jumpTerminalVelocity = -10.0
	fallTerminalVelocity = -20.0
)

var ErrMissingCollaborator = errors.New("player: missing collaborator")

type Config struct {
	Stats      *Stats
	Controller component.CharacterController
	Transform  component.Transform
	Clock      component.Clock
	// Animator may be nil.
	Animator     component.Animator
	Logger       *zap.Logger
	OnTransition func(from, to fsm.Kind)
}

type animParams struct {
	walking component.ParamID
	running component.ParamID
	jump    component.ParamID
	falling component.ParamID
}

// Player is the shared context of the locomotion states.
type Player struct {
	stats      *Stats
	controller component.CharacterController
	transform  component.Transform
	clock      component.Clock
	anim       component.Animator
	params     animParams
	log        *zap.Logger

	input           common.Vec2
	movement        common.Vec3
	applied         common.Vec3
	movementPressed bool
	runPressed      bool
	jumpPressed     bool
	isJumping       bool
	currentSpeed    float64

	gravity             float64
	initialJumpVelocity float64

	machine *fsm.Machine[*Player]
}

func New(cfg Config) (*Player, error) {
	switch {
	case cfg.Stats == nil:
		return nil, fmt.Errorf("%w: stats", ErrMissingCollaborator)
	case cfg.Controller == nil:
		return nil, fmt.Errorf("%w: character controller", ErrMissingCollaborator)
	case cfg.Transform == nil:
		return nil, fmt.Errorf("%w: transform", ErrMissingCollaborator)
	case cfg.Clock == nil:
		return nil, fmt.Errorf("%w: clock", ErrMissingCollaborator)
	}
	if err := cfg.Stats.Validate(); err != nil {
		return nil, err
	}

	p := &Player{
		stats:      cfg.Stats,
		controller: cfg.Controller,
		transform:  cfg.Transform,
		clock:      cfg.Clock,
		anim:       cfg.Animator,
		log:        cfg.Logger,
	}
	if p.log == nil {
		p.log = zap.NewNop()
	}
	if p.anim == nil {
		p.anim = nopAnimator{}
	}
	p.resolveParams()
	p.gravity, p.initialJumpVelocity = JumpKinematics(p.stats.MaxJumpHeight, p.stats.MaxJumpTime)

	f, err := fsm.NewFactory(
		fsm.Root(Grounded, "grounded", func() fsm.State[*Player] { return &groundedState{} }),
		fsm.Root(Jump, "jump", func() fsm.State[*Player] { return &jumpState{} }),
		fsm.Root(Fall, "fall", func() fsm.State[*Player] { return &fallState{} }),
		fsm.Sub(Idle, Grounded, "idle", func() fsm.State[*Player] { return &idleState{} }),
		fsm.Sub(Walk, Grounded, "walk", func() fsm.State[*Player] { return &walkState{} }),
		fsm.Sub(Run, Grounded, "run", func() fsm.State[*Player] { return &runState{} }),
	)
	if err != nil {
		return nil, fmt.Errorf("player: build states: %w", err)
	}
	opts := []fsm.Option{fsm.WithLogger(p.log), fsm.WithName("player")}
	if cfg.OnTransition != nil {
		opts = append(opts, fsm.WithTransitionHook(cfg.OnTransition))
	}
	p.machine = fsm.New(p, f, opts...)
	p.machine.Start(Grounded)
	return p, nil
}

func (p *Player) resolveParams() {
	n := p.stats.Params
	p.params = animParams{
		walking: p.anim.ParamID(n.Walking),
		running: p.anim.ParamID(n.Running),
		jump:    p.anim.ParamID(n.Jump),
		falling: p.anim.ParamID(n.Falling),
	}
}

// Advance turns toward the movement direction, runs the machine, and moves
// the controller by the applied velocity.
func (p *Player) Advance() {
	dt := p.clock.DeltaTime()
	p.handleRotation(dt)
	p.machine.Advance()

	p.applied.X = p.movement.X * p.currentSpeed
	p.applied.Z = p.movement.Z * p.currentSpeed
	p.controller.Move(p.applied.Scale(dt))
}

func (p *Player) handleRotation(dt float64) {
	if !p.movementPressed {
		return
	}
	dir := common.Vec3{X: p.movement.X, Z: p.movement.Z}
	if dir.IsZero() {
		return
	}
	p.transform.SetYaw(common.LerpAngle(p.transform.Yaw(), common.Yaw(dir), p.stats.RotationFactorPerFrame*dt))
}

// OnMove maps the 2D input onto the ground plane. Vertical velocity is kept.
func (p *Player) OnMove(e component.MoveEvent) {
	v := e.Vector()
	p.input = v
	p.movementPressed = v.X != 0 || v.Y != 0
	p.movement.X = v.X
	p.movement.Z = v.Y
}

func (p *Player) OnRun(e component.ButtonEvent) { p.runPressed = e.IsPressed() }

func (p *Player) OnJump(e component.ButtonEvent) { p.jumpPressed = e.IsPressed() }

// SetStats swaps the tunables and recomputes the jump kinematics.
func (p *Player) SetStats(s *Stats) error {
	if err := s.Validate(); err != nil {
		return err
	}
	p.stats = s
	p.resolveParams()
	p.gravity, p.initialJumpVelocity = JumpKinematics(s.MaxJumpHeight, s.MaxJumpTime)
	p.log.Info("player: stats reloaded")
	return nil
}

func (p *Player) Close() { p.machine.Stop() }

func (p *Player) CurrentState() fsm.Kind { return p.machine.Current() }

func (p *Player) SubState() fsm.Kind { return p.machine.SubState(Grounded) }

// KindName names one of the player's state kinds.
func (p *Player) KindName(k fsm.Kind) string { return p.machine.Name(k) }

// StateName is the active branch, e.g. "grounded/walk".
func (p *Player) StateName() string {
	name := ""
	for i, k := range p.machine.Path() {
		if i > 0 {
			name += "/"
		}
		name += p.machine.Name(k)
	}
	return name
}

func (p *Player) Gravity() float64             { return p.gravity }
func (p *Player) InitialJumpVelocity() float64 { return p.initialJumpVelocity }
func (p *Player) Stats() *Stats                { return p.stats }
func (p *Player) Movement() common.Vec3        { return p.movement }
func (p *Player) Applied() common.Vec3         { return p.applied }
func (p *Player) CurrentSpeed() float64        { return p.currentSpeed }
func (p *Player) IsJumping() bool              { return p.isJumping }
func (p *Player) Position() common.Vec3        { return p.transform.Position() }

// integrateGravity advances the vertical velocity by gravity*multiplier and
// applies the average of the old and new values, floored at minY.
func (p *Player) integrateGravity(multiplier, minY float64) {
	prev := p.movement.Y
	p.movement.Y = prev + p.gravity*multiplier*p.clock.DeltaTime()
	p.applied.Y = max((prev+p.movement.Y)*0.5, minY)
}

type nopAnimator struct{}

func (nopAnimator) ParamID(string) component.ParamID    { return component.InvalidParam }
func (nopAnimator) SetFloat(component.ParamID, float64) {}
func (nopAnimator) Float(component.ParamID) float64     { return 0 }
func (nopAnimator) SetBool(component.ParamID, bool)     {}
func (nopAnimator) SetTrigger(component.ParamID)        {}
func (nopAnimator) ClipLength() float64                 { return 0 }
