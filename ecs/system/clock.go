package system

import (
	"github.com/milk9111/beastmind/component"
	"github.com/milk9111/beastmind/ecs"
)

// ClockSystem starts each tick by advancing the shared clock a fixed step.
type ClockSystem struct {
	clock *component.StepClock
	dt    float64
}

func NewClockSystem(clock *component.StepClock, dt float64) *ClockSystem {
	return &ClockSystem{clock: clock, dt: dt}
}

func (s *ClockSystem) Update(w *ecs.World) {
	s.clock.Tick(s.dt)
}
