package player

import (
	"errors"
	"fmt"
)

var ErrInvalidStats = errors.New("player: invalid stats")

// ParamNames maps the player's animation parameters to animator names.
type ParamNames struct {
	Walking string `yaml:"walking"`
	Running string `yaml:"running"`
	Jump    string `yaml:"jump"`
	Falling string `yaml:"falling"`
}

// Stats are the player's locomotion tunables.
type Stats struct {
	Name string `yaml:"name"`

	WalkSpeed              float64 `yaml:"walk_speed"`
	RunSpeed               float64 `yaml:"run_speed"`
	RotationFactorPerFrame float64 `yaml:"rotation_factor_per_frame"`

	MaxJumpHeight float64 `yaml:"max_jump_height"`
	MaxJumpTime   float64 `yaml:"max_jump_time"`
	// HoldJump enables variable-height jumps: releasing jump early starts the
	// fast fall.
	HoldJump       bool    `yaml:"hold_jump"`
	FallMultiplier float64 `yaml:"fall_multiplier"`

	// LeashFactor scales a creature's interaction radius into the distance
	// at which it stops following the player.
	LeashFactor float64 `yaml:"leash_factor"`

	Params ParamNames `yaml:"params"`
}

func DefaultStats() Stats {
	return Stats{
		Name:                   "player",
		WalkSpeed:              4,
		RunSpeed:               8,
		RotationFactorPerFrame: 15,
		MaxJumpHeight:          2,
		MaxJumpTime:            0.7,
		FallMultiplier:         2,
		LeashFactor:            4,
		Params: ParamNames{
			Walking: "IsWalking",
			Running: "IsRunning",
			Jump:    "IsJumping",
			Falling: "IsFalling",
		},
	}
}

func (s *Stats) Validate() error {
	if s == nil {
		return fmt.Errorf("%w: nil", ErrInvalidStats)
	}
	if s.MaxJumpTime <= 0 {
		return fmt.Errorf("%w: max_jump_time must be positive, got %v", ErrInvalidStats, s.MaxJumpTime)
	}
	if s.MaxJumpHeight < 0 || s.WalkSpeed < 0 || s.RunSpeed < 0 {
		return fmt.Errorf("%w: negative speed or height", ErrInvalidStats)
	}
	if s.FallMultiplier < 1 {
		return fmt.Errorf("%w: fall_multiplier below 1", ErrInvalidStats)
	}
	return nil
}

// JumpKinematics returns the gravity and launch velocity that reach height
// h at the apex after half of maxTime.
func JumpKinematics(h, maxTime float64) (gravity, v0 float64) {
	apex := maxTime / 2
	gravity = -2 * h / (apex * apex)
	v0 = 2 * h / apex
	return gravity, v0
}
