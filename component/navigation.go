package component

import "github.com/milk9111/beastmind/common"

// NavAgent is the pathfinding and movement executor behind a creature. The
// HFSM configures it on state entry and reads path progress back from it.
type NavAgent interface {
	Position() common.Vec3
	Velocity() common.Vec3

	SetDestination(target common.Vec3) bool
	Destination() common.Vec3
	ResetPath()
	PathPending() bool
	HasPath() bool
	RemainingDistance() float64
	OnNavMesh() bool

	Speed() float64
	SetSpeed(speed float64)
	SetAcceleration(accel float64)
	StoppingDistance() float64
	SetStoppingDistance(d float64)
	SetUpdateRotation(enabled bool)
	SetAutoBraking(enabled bool)
	SetStopped(stopped bool)
}

// NavMesh answers "nearest navigable point" queries.
type NavMesh interface {
	// SamplePosition returns the navigable point closest to p within
	// maxDistance, or false when none exists.
	SamplePosition(p common.Vec3, maxDistance float64) (common.Vec3, bool)
}
