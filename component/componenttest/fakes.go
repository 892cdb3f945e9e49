// Package componenttest provides scriptable collaborators for state machine
// tests.
package componenttest

import (
	"github.com/milk9111/beastmind/common"
	"github.com/milk9111/beastmind/component"
)

// Agent is a NavAgent whose path progress is set directly by tests.
type Agent struct {
	Pos       common.Vec3
	Vel       common.Vec3
	Dest      common.Vec3
	Pending   bool
	Path      bool
	Remaining float64
	OffMesh   bool

	MaxSpeed       float64
	Accel          float64
	Stopping       float64
	UpdateRotation bool
	AutoBraking    bool
	Stopped        bool

	Destinations []common.Vec3
	Resets       int
}

func NewAgent() *Agent {
	return &Agent{UpdateRotation: true}
}

func (a *Agent) Position() common.Vec3 { return a.Pos }
func (a *Agent) Velocity() common.Vec3 { return a.Vel }

func (a *Agent) SetDestination(target common.Vec3) bool {
	a.Dest = target
	a.Path = true
	a.Destinations = append(a.Destinations, target)
	return true
}

func (a *Agent) Destination() common.Vec3 { return a.Dest }

func (a *Agent) ResetPath() {
	a.Path = false
	a.Pending = false
	a.Resets++
}

func (a *Agent) PathPending() bool          { return a.Pending }
func (a *Agent) HasPath() bool              { return a.Path }
func (a *Agent) RemainingDistance() float64 { return a.Remaining }
func (a *Agent) OnNavMesh() bool            { return !a.OffMesh }

func (a *Agent) Speed() float64                 { return a.MaxSpeed }
func (a *Agent) SetSpeed(speed float64)         { a.MaxSpeed = speed }
func (a *Agent) SetAcceleration(accel float64)  { a.Accel = accel }
func (a *Agent) StoppingDistance() float64      { return a.Stopping }
func (a *Agent) SetStoppingDistance(d float64)  { a.Stopping = d }
func (a *Agent) SetUpdateRotation(enabled bool) { a.UpdateRotation = enabled }
func (a *Agent) SetAutoBraking(enabled bool)    { a.AutoBraking = enabled }
func (a *Agent) SetStopped(stopped bool)        { a.Stopped = stopped }

// Mesh answers SamplePosition with a fixed result.
type Mesh struct {
	Hit     common.Vec3
	Found   bool
	Queries []common.Vec3
	Radius  []float64
}

func (m *Mesh) SamplePosition(p common.Vec3, maxDistance float64) (common.Vec3, bool) {
	m.Queries = append(m.Queries, p)
	m.Radius = append(m.Radius, maxDistance)
	if !m.Found {
		return common.Vec3{}, false
	}
	return m.Hit, true
}

// Animator records parameter writes by name.
type Animator struct {
	ids      map[string]component.ParamID
	names    []string
	Floats   map[string]float64
	Bools    map[string]bool
	Triggers map[string]int
	Clip     float64
	Writes   []string
}

func NewAnimator(params ...string) *Animator {
	a := &Animator{
		ids:      map[string]component.ParamID{},
		Floats:   map[string]float64{},
		Bools:    map[string]bool{},
		Triggers: map[string]int{},
	}
	for _, p := range params {
		a.ids[p] = component.ParamID(len(a.names))
		a.names = append(a.names, p)
	}
	return a
}

func (a *Animator) ParamID(name string) component.ParamID {
	if id, ok := a.ids[name]; ok {
		return id
	}
	return component.InvalidParam
}

func (a *Animator) name(id component.ParamID) (string, bool) {
	if id < 0 || int(id) >= len(a.names) {
		return "", false
	}
	return a.names[id], true
}

func (a *Animator) SetFloat(id component.ParamID, v float64) {
	if n, ok := a.name(id); ok {
		a.Floats[n] = v
		a.Writes = append(a.Writes, n)
	}
}

func (a *Animator) Float(id component.ParamID) float64 {
	n, _ := a.name(id)
	return a.Floats[n]
}

func (a *Animator) SetBool(id component.ParamID, v bool) {
	if n, ok := a.name(id); ok {
		a.Bools[n] = v
	}
}

func (a *Animator) SetTrigger(id component.ParamID) {
	if n, ok := a.name(id); ok {
		a.Triggers[n]++
	}
}

func (a *Animator) ClipLength() float64 { return a.Clip }

// Transform is a settable pose.
type Transform struct {
	Pos     common.Vec3
	Heading float64
}

func (t *Transform) Position() common.Vec3 { return t.Pos }
func (t *Transform) Yaw() float64          { return t.Heading }
func (t *Transform) SetYaw(yaw float64)    { t.Heading = yaw }

// Point is a stationary follow target.
type Point common.Vec3

func (p Point) Position() common.Vec3 { return common.Vec3(p) }

// Controller is a CharacterController with a scripted ground flag.
type Controller struct {
	Grounded bool
	Moves    []common.Vec3
}

func (c *Controller) IsGrounded() bool { return c.Grounded }

func (c *Controller) Move(delta common.Vec3) {
	c.Moves = append(c.Moves, delta)
}
