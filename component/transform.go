package component

import "github.com/milk9111/beastmind/common"

// Transform is the agent's world pose. Orientation is a heading around the
// up axis.
type Transform interface {
	Position() common.Vec3
	Yaw() float64
	SetYaw(yaw float64)
}

// Target is something a creature can follow. The creature only borrows it
// and never controls its lifetime.
type Target interface {
	Position() common.Vec3
}

// CharacterController moves the player and reports ground contact.
type CharacterController interface {
	IsGrounded() bool
	Move(delta common.Vec3)
}
