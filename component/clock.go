package component

// Clock is the per-frame time source.
type Clock interface {
	// DeltaTime is the elapsed time of the current frame in seconds.
	DeltaTime() float64
	// Now is the time since start in seconds.
	Now() float64
}

// StepClock is a Clock advanced explicitly by the frame driver.
type StepClock struct {
	dt  float64
	now float64
}

func NewStepClock() *StepClock {
	return &StepClock{}
}

// Tick starts a new frame of length dt.
func (c *StepClock) Tick(dt float64) {
	if c == nil {
		return
	}
	if dt < 0 {
		dt = 0
	}
	c.dt = dt
	c.now += dt
}

func (c *StepClock) DeltaTime() float64 {
	if c == nil {
		return 0
	}
	return c.dt
}

func (c *StepClock) Now() float64 {
	if c == nil {
		return 0
	}
	return c.now
}
