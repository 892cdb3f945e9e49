package nav

import (
	"math"

	"github.com/milk9111/beastmind/common"
	"github.com/milk9111/beastmind/component"
)

const (
	// waypointRadius is how close an agent gets to an intermediate waypoint
	// before aiming at the next one.
	waypointRadius = 0.3
	// destinationSnap is the search radius used to project a requested
	// destination onto the grid.
	destinationSnap = 2.0
)

// Body is what moves an agent when it is simulated by a physics space. The
// agent writes the desired velocity and reads the resulting position back.
type Body interface {
	Position() common.Vec3
	SetVelocity(v common.Vec3)
}

// Agent follows paths on a Grid. It implements component.NavAgent. A path
// requested with SetDestination is computed on the next Update, so
// PathPending stays true for one tick.
type Agent struct {
	grid *Grid
	body Body

	pos common.Vec3
	vel common.Vec3
	yaw float64

	dest    common.Vec3
	path    []common.Vec3
	pending bool

	speed          float64
	accel          float64
	stopping       float64
	updateRotation bool
	autoBraking    bool
	stopped        bool
}

var (
	_ component.NavAgent  = (*Agent)(nil)
	_ component.Transform = (*Agent)(nil)
)

// NewAgent places an agent at pos on grid.
func NewAgent(grid *Grid, pos common.Vec3) *Agent {
	return &Agent{
		grid:           grid,
		pos:            pos,
		speed:          3.5,
		accel:          8,
		updateRotation: true,
		autoBraking:    true,
	}
}

// AttachBody hands movement to a physics body.
func (a *Agent) AttachBody(b Body) { a.body = b }

func (a *Agent) Position() common.Vec3 {
	if a.body != nil {
		return a.body.Position()
	}
	return a.pos
}

func (a *Agent) Velocity() common.Vec3 { return a.vel }

// Yaw is the agent's heading. The agent turns itself toward its velocity
// only while rotation updates are enabled; otherwise the owner steers it
// with SetYaw.
func (a *Agent) Yaw() float64 { return a.yaw }

func (a *Agent) SetYaw(yaw float64) { a.yaw = yaw }

// SetDestination projects target onto the grid and requests a path to it.
func (a *Agent) SetDestination(target common.Vec3) bool {
	p, ok := a.grid.SamplePosition(target, destinationSnap)
	if !ok {
		return false
	}
	a.dest = p
	a.pending = true
	return true
}

func (a *Agent) Destination() common.Vec3 { return a.dest }

func (a *Agent) ResetPath() {
	a.path = nil
	a.pending = false
}

func (a *Agent) PathPending() bool { return a.pending }
func (a *Agent) HasPath() bool     { return !a.pending && len(a.path) > 0 }

// RemainingDistance is the length of the rest of the path. It is infinite
// while a path is pending and 0 without one.
func (a *Agent) RemainingDistance() float64 {
	if a.pending {
		return math.Inf(1)
	}
	if len(a.path) == 0 {
		return 0
	}
	prev := a.Position().Flat()
	d := 0.0
	for _, w := range a.path {
		d += common.Distance(prev, w.Flat())
		prev = w.Flat()
	}
	return d
}

func (a *Agent) OnNavMesh() bool { return a.grid.Walkable(a.Position()) }

func (a *Agent) Speed() float64                 { return a.speed }
func (a *Agent) SetSpeed(speed float64)         { a.speed = math.Max(speed, 0) }
func (a *Agent) SetAcceleration(accel float64)  { a.accel = math.Max(accel, 0) }
func (a *Agent) StoppingDistance() float64      { return a.stopping }
func (a *Agent) SetStoppingDistance(d float64)  { a.stopping = math.Max(d, 0) }
func (a *Agent) SetUpdateRotation(enabled bool) { a.updateRotation = enabled }
func (a *Agent) SetAutoBraking(enabled bool)    { a.autoBraking = enabled }
func (a *Agent) SetStopped(stopped bool)        { a.stopped = stopped }

// Path returns the remaining waypoints.
func (a *Agent) Path() []common.Vec3 { return a.path }

// Update resolves a pending path, steers along the path and moves the agent
// (or its body) by one step.
func (a *Agent) Update(dt float64) {
	if dt <= 0 {
		return
	}
	if a.pending {
		a.pending = false
		if path, ok := a.grid.FindPath(a.Position(), a.dest); ok {
			a.path = path
		} else {
			a.path = nil
		}
	}

	desired := common.Vec3{}
	if !a.stopped && len(a.path) > 0 {
		pos := a.Position().Flat()
		for len(a.path) > 1 && common.Distance(pos, a.path[0].Flat()) < waypointRadius {
			a.path = a.path[1:]
		}
		remaining := a.RemainingDistance()
		if remaining > a.stopping {
			target := a.speed
			if a.autoBraking && a.accel > 0 {
				target = math.Min(target, math.Sqrt(2*a.accel*(remaining-a.stopping)))
			}
			desired = a.path[0].Flat().Sub(pos).Normalized().Scale(target)
		}
	}
	a.vel = moveTowards(a.vel, desired, a.accel*dt)

	if a.body != nil {
		a.body.SetVelocity(a.vel)
	} else {
		a.pos = a.pos.Add(a.vel.Scale(dt))
	}
	if a.updateRotation && a.vel.SqrMagnitude() > 1e-6 {
		a.yaw = common.Yaw(a.vel)
	}
}

// moveTowards changes v toward target by at most maxDelta.
func moveTowards(v, target common.Vec3, maxDelta float64) common.Vec3 {
	diff := target.Sub(v)
	d := diff.Magnitude()
	if d <= maxDelta || d == 0 {
		return target
	}
	return v.Add(diff.Scale(maxDelta / d))
}
