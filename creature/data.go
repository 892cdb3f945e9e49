package creature

import (
	"errors"
	"fmt"
)

// IdleKind selects the idle strategy of a creature.
type IdleKind string

const (
	IdleGraze    IdleKind = "graze"
	IdleStill    IdleKind = "still"
	IdleScripted IdleKind = "scripted"
)

// MovementKind selects a movement strategy.
type MovementKind string

const (
	MoveGallop MovementKind = "gallop"
	MoveChase  MovementKind = "chase"
)

var ErrInvalidData = errors.New("creature: invalid data")

// GallopOverride lets a creature's patrol gait ignore the shared speeds.
type GallopOverride struct {
	Enabled       bool    `yaml:"enabled"`
	Speed         float64 `yaml:"speed"`
	RotationSpeed float64 `yaml:"rotation_speed"`
}

// ParamNames maps the symbolic animation parameters to animator names.
type ParamNames struct {
	Vert  string `yaml:"vert"`
	State string `yaml:"state"`
}

// Data is the immutable tunable bundle shared by the states and strategies
// of one creature type.
type Data struct {
	Name string `yaml:"name"`

	IdleStrategy   IdleKind     `yaml:"idle_strategy"`
	PatrolStrategy MovementKind `yaml:"patrol_strategy"`
	ChaseStrategy  MovementKind `yaml:"chase_strategy"`
	IdleScript     string       `yaml:"idle_script"`

	IdleDuration float64 `yaml:"idle_duration"`

	AnimationParameterTargetValue float64 `yaml:"animation_parameter_target_value"`
	TimeToReachTargetValue        float64 `yaml:"time_to_reach_target_value"`
	CooldownTime                  float64 `yaml:"cooldown_time"`
	TimesToLoopAnimation          int     `yaml:"times_to_loop_animation"`

	PatrolSpeed  float64 `yaml:"patrol_speed"`
	ChaseSpeed   float64 `yaml:"chase_speed"`
	Acceleration float64 `yaml:"acceleration"`
	PatrolRadius float64 `yaml:"patrol_radius"`

	StoppingDistance  float64 `yaml:"stopping_distance"`
	InteractionRadius float64 `yaml:"interaction_radius"`

	RotationSpeed float64 `yaml:"rotation_speed"`
	AnimDampTime  float64 `yaml:"anim_damp_time"`

	Gallop GallopOverride `yaml:"gallop"`
	Params ParamNames     `yaml:"params"`
}

// DefaultData returns the stock horse tunables.
func DefaultData() Data {
	return Data{
		Name:                          "horse",
		IdleStrategy:                  IdleGraze,
		PatrolStrategy:                MoveGallop,
		ChaseStrategy:                 MoveChase,
		IdleDuration:                  10,
		AnimationParameterTargetValue: 1,
		TimeToReachTargetValue:        1.25,
		CooldownTime:                  17.5,
		TimesToLoopAnimation:          2,
		PatrolSpeed:                   2,
		ChaseSpeed:                    5,
		Acceleration:                  15,
		PatrolRadius:                  10,
		StoppingDistance:              3,
		InteractionRadius:             3,
		RotationSpeed:                 7,
		AnimDampTime:                  0.1,
		Gallop:                        GallopOverride{Speed: 4, RotationSpeed: 7},
		Params:                        ParamNames{Vert: "Vert", State: "State"},
	}
}

// Validate rejects bundles no creature could run with.
func (d *Data) Validate() error {
	if d == nil {
		return fmt.Errorf("%w: nil", ErrInvalidData)
	}
	switch d.IdleStrategy {
	case IdleGraze, IdleStill:
	case IdleScripted:
		if d.IdleScript == "" {
			return fmt.Errorf("%w: %s: scripted idle without idle_script", ErrInvalidData, d.Name)
		}
	default:
		return fmt.Errorf("%w: %s: unknown idle strategy %q", ErrInvalidData, d.Name, d.IdleStrategy)
	}
	for _, k := range []MovementKind{d.PatrolStrategy, d.ChaseStrategy} {
		if k != MoveGallop && k != MoveChase {
			return fmt.Errorf("%w: %s: unknown movement strategy %q", ErrInvalidData, d.Name, k)
		}
	}
	if d.IdleDuration < 0 || d.PatrolRadius < 0 || d.StoppingDistance < 0 {
		return fmt.Errorf("%w: %s: negative duration or distance", ErrInvalidData, d.Name)
	}
	if d.Params.Vert == "" || d.Params.State == "" {
		return fmt.Errorf("%w: %s: animation parameter names missing", ErrInvalidData, d.Name)
	}
	return nil
}
