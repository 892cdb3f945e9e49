package physics

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/beastmind/common"
	"github.com/milk9111/beastmind/component"
)

// Character is a kinematic player body. Horizontal moves are resolved by the
// space on its next Step; height is integrated here against the flat
// walkable surface.
type Character struct {
	space *Space
	body  *cp.Body
	shape *cp.Shape

	y        float64
	yaw      float64
	grounded bool
	pending  common.Vec3
	contacts int
}

var (
	_ component.CharacterController = (*Character)(nil)
	_ component.Transform           = (*Character)(nil)
)

// IsGrounded reports whether the last Move ended on the surface.
func (c *Character) IsGrounded() bool { return c.grounded }

// Move queues a horizontal displacement and applies the vertical part now.
func (c *Character) Move(delta common.Vec3) {
	c.pending.X += delta.X
	c.pending.Z += delta.Z
	c.y += delta.Y
	floor := c.space.surfaceY
	if c.y <= floor {
		c.y = floor
		c.grounded = true
	} else {
		c.grounded = false
	}
}

func (c *Character) Position() common.Vec3 {
	if c.body == nil {
		return common.Vec3{}
	}
	p := c.body.Position()
	return common.Vec3{X: p.X, Y: c.y, Z: p.Y}
}

func (c *Character) Yaw() float64       { return c.yaw }
func (c *Character) SetYaw(yaw float64) { c.yaw = yaw }

// Teleport places the character, for spawns and respawns.
func (c *Character) Teleport(p common.Vec3) {
	if c.body == nil {
		return
	}
	c.body.SetPosition(cp.Vector{X: p.X, Y: p.Z})
	c.body.SetVelocityVector(cp.Vector{})
	c.pending = common.Vec3{}
	c.y = p.Y
	c.grounded = c.y <= c.space.surfaceY
}

// Contacts is the number of agents currently touching the character.
func (c *Character) Contacts() int { return c.contacts }

// Height is the character's elevation above the walkable surface.
func (c *Character) Height() float64 { return c.y - c.space.surfaceY }
