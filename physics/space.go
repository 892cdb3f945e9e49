// Package physics wraps a Chipmunk space for the top-down ground plane.
// World X/Z map to Chipmunk X/Y; height is tracked outside the space.
package physics

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/beastmind/common"
	"go.uber.org/zap"
)

const (
	collisionTypeObstacle cp.CollisionType = iota + 1
	collisionTypeAgent
	collisionTypePlayer
)

// ObstacleGrid is the blocked-cell view a space builds static walls from.
type ObstacleGrid interface {
	Width() int
	Depth() int
	CellSize() float64
	Origin() common.Vec3
	Blocked(x, z int) bool
}

// Space owns the Chipmunk space, its static walls and the dynamic bodies.
type Space struct {
	space    *cp.Space
	surfaceY float64
	log      *zap.Logger

	agents     []*AgentBody
	characters []*Character
	shapeOwner map[*cp.Shape]*Character
	agentOwner map[*cp.Shape]*AgentBody
}

// NewSpace creates an empty space with no gravity; agents are driven by
// velocity.
func NewSpace(log *zap.Logger) *Space {
	if log == nil {
		log = zap.NewNop()
	}
	space := cp.NewSpace()
	space.Iterations = 10
	space.SetGravity(cp.Vector{})

	s := &Space{
		space:      space,
		log:        log,
		shapeOwner: make(map[*cp.Shape]*Character),
		agentOwner: make(map[*cp.Shape]*AgentBody),
	}
	s.setupHandlers()
	s.setupWallHandler()
	return s
}

// Space returns the underlying Chipmunk space.
func (s *Space) Space() *cp.Space {
	if s == nil {
		return nil
	}
	return s.space
}

func (s *Space) SurfaceY() float64 { return s.surfaceY }

// AddObstacles adds a static box per horizontal run of blocked cells and
// takes the walkable surface height from the grid origin.
func (s *Space) AddObstacles(g ObstacleGrid) int {
	origin := g.Origin()
	cell := g.CellSize()
	s.surfaceY = origin.Y
	shapes := 0
	for z := 0; z < g.Depth(); z++ {
		for x := 0; x < g.Width(); {
			if !g.Blocked(x, z) {
				x++
				continue
			}
			start := x
			for x < g.Width() && g.Blocked(x, z) {
				x++
			}
			bb := cp.BB{
				L: origin.X + float64(start)*cell,
				B: origin.Z + float64(z)*cell,
				R: origin.X + float64(x)*cell,
				T: origin.Z + float64(z+1)*cell,
			}
			shape := cp.NewBox2(s.space.StaticBody, bb, 0)
			shape.SetFriction(0.8)
			shape.SetCollisionType(collisionTypeObstacle)
			s.space.AddShape(shape)
			shapes++
		}
	}
	s.log.Debug("physics: obstacles added", zap.Int("shapes", shapes))
	return shapes
}

// AddAgentBody adds a circular body for a nav agent.
func (s *Space) AddAgentBody(pos common.Vec3, radius float64) *AgentBody {
	body, shape := s.newCircle(pos, radius, collisionTypeAgent)
	b := &AgentBody{space: s, body: body, shape: shape, y: pos.Y}
	s.agents = append(s.agents, b)
	s.agentOwner[shape] = b
	return b
}

// NewCharacter adds a player capsule seen from above.
func (s *Space) NewCharacter(pos common.Vec3, radius float64) *Character {
	body, shape := s.newCircle(pos, radius, collisionTypePlayer)
	c := &Character{space: s, body: body, shape: shape, y: pos.Y}
	c.grounded = c.y <= s.surfaceY
	s.characters = append(s.characters, c)
	s.shapeOwner[shape] = c
	return c
}

func (s *Space) newCircle(pos common.Vec3, radius float64, ct cp.CollisionType) (*cp.Body, *cp.Shape) {
	mass := 1.0
	body := cp.NewBody(mass, math.Inf(1))
	body.SetPosition(cp.Vector{X: pos.X, Y: pos.Z})
	shape := cp.NewCircle(body, radius, cp.Vector{})
	shape.SetFriction(0)
	shape.SetCollisionType(ct)
	s.space.AddBody(body)
	s.space.AddShape(shape)
	return body, shape
}

// Remove takes an agent body out of the space.
func (s *Space) Remove(b *AgentBody) {
	if b == nil || b.body == nil {
		return
	}
	s.space.RemoveShape(b.shape)
	s.space.RemoveBody(b.body)
	delete(s.agentOwner, b.shape)
	for i, a := range s.agents {
		if a == b {
			s.agents = append(s.agents[:i], s.agents[i+1:]...)
			break
		}
	}
	b.body, b.shape = nil, nil
}

// RemoveCharacter takes a player body out of the space.
func (s *Space) RemoveCharacter(c *Character) {
	if c == nil || c.body == nil {
		return
	}
	s.space.RemoveShape(c.shape)
	s.space.RemoveBody(c.body)
	delete(s.shapeOwner, c.shape)
	for i, o := range s.characters {
		if o == c {
			s.characters = append(s.characters[:i], s.characters[i+1:]...)
			break
		}
	}
	c.body, c.shape = nil, nil
}

// Step converts queued character moves into velocities, advances the space
// and stops the characters again so they only move when asked to. Agent
// velocities lose their into-wall part against the walls touched last step,
// since nav agents set a fresh velocity every tick.
func (s *Space) Step(dt float64) {
	if dt <= 0 {
		return
	}
	for _, b := range s.agents {
		b.clipAgainstWalls()
	}
	for _, c := range s.characters {
		c.body.SetVelocity(c.pending.X/dt, c.pending.Z/dt)
		c.pending = common.Vec3{}
	}
	s.space.Step(dt)
	for _, c := range s.characters {
		c.body.SetVelocityVector(cp.Vector{})
	}
}

func (s *Space) setupHandlers() {
	handler := s.space.NewCollisionHandler(collisionTypePlayer, collisionTypeAgent)
	handler.UserData = s
	handler.BeginFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		world, ok := userData.(*Space)
		if !ok {
			return true
		}
		a, b := arb.Shapes()
		if c := world.characterOf(a, b); c != nil {
			c.contacts++
			world.log.Debug("physics: player touched agent", zap.Int("contacts", c.contacts))
		}
		return true
	}
	handler.SeparateFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) {
		world, ok := userData.(*Space)
		if !ok {
			return
		}
		a, b := arb.Shapes()
		if c := world.characterOf(a, b); c != nil && c.contacts > 0 {
			c.contacts--
		}
	}
}

func (s *Space) setupWallHandler() {
	handler := s.space.NewCollisionHandler(collisionTypeAgent, collisionTypeObstacle)
	handler.UserData = s
	handler.PreSolveFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		world, ok := userData.(*Space)
		if !ok {
			return true
		}
		a, _ := arb.Shapes()
		if b, ok := world.agentOwner[a]; ok {
			// Normal points from the agent into the wall.
			b.walls = append(b.walls, arb.Normal())
		}
		return true
	}
}

func (s *Space) characterOf(a, b *cp.Shape) *Character {
	if c, ok := s.shapeOwner[a]; ok {
		return c
	}
	return s.shapeOwner[b]
}

// AgentBody is a nav agent's presence in the space. It satisfies nav.Body.
type AgentBody struct {
	space *Space
	body  *cp.Body
	shape *cp.Shape
	y     float64
	walls []cp.Vector
}

func (b *AgentBody) clipAgainstWalls() {
	if b.body == nil || len(b.walls) == 0 {
		b.walls = b.walls[:0]
		return
	}
	v := b.body.Velocity()
	for _, n := range b.walls {
		if d := v.Dot(n); d > 0 {
			v = v.Sub(n.Mult(d))
		}
	}
	b.body.SetVelocityVector(v)
	b.walls = b.walls[:0]
}

// Touching reports whether the body touched a wall during the last step.
func (b *AgentBody) Touching() bool { return len(b.walls) > 0 }

func (b *AgentBody) Position() common.Vec3 {
	if b.body == nil {
		return common.Vec3{}
	}
	p := b.body.Position()
	return common.Vec3{X: p.X, Y: b.y, Z: p.Y}
}

func (b *AgentBody) SetVelocity(v common.Vec3) {
	if b.body != nil {
		b.body.SetVelocity(v.X, v.Z)
	}
}

func (b *AgentBody) Velocity() common.Vec3 {
	if b.body == nil {
		return common.Vec3{}
	}
	v := b.body.Velocity()
	return common.Vec3{X: v.X, Z: v.Y}
}

// Body exposes the Chipmunk body.
func (b *AgentBody) Body() *cp.Body { return b.body }
