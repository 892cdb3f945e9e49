package creature

import (
	"github.com/milk9111/beastmind/common"
	"github.com/milk9111/beastmind/component"
)

// RampPhase is the progress of a Ramp.
type RampPhase int

const (
	RampIdle RampPhase = iota
	RampUp
	RampHold
	RampDown
)

func (p RampPhase) String() string {
	switch p {
	case RampIdle:
		return "idle"
	case RampUp:
		return "ramp_up"
	case RampHold:
		return "hold"
	case RampDown:
		return "ramp_down"
	}
	return "unknown"
}

// RampRequest describes one ramp-hold-ramp of an animation float.
type RampRequest struct {
	Target   float64
	Duration float64
	Param    component.ParamID
	Cooldown float64
	// Loops is how many clip lengths the hold lasts.
	Loops int
}

// Ramp drives a parameter from 0 to Target, holds it for the current clip
// length times Loops, and brings it back to 0, one frame per Step. While it
// runs the owner is busy. Completion and cancellation share one cleanup that
// clears busy and sets the next allowed start time.
type Ramp struct {
	anim     component.Animator
	onFinish func(req RampRequest, canceled bool)

	req         RampRequest
	phase       RampPhase
	elapsed     float64
	hold        float64
	sampled     bool
	busy        bool
	nextAllowed float64
}

// NewRamp creates an idle ramp writing to anim. onFinish may be nil.
func NewRamp(anim component.Animator, onFinish func(req RampRequest, canceled bool)) *Ramp {
	return &Ramp{anim: anim, onFinish: onFinish}
}

func (r *Ramp) Busy() bool           { return r.busy }
func (r *Ramp) Phase() RampPhase     { return r.phase }
func (r *Ramp) Active() bool         { return r.phase != RampIdle }
func (r *Ramp) NextAllowed() float64 { return r.nextAllowed }

// Start begins req, cancelling (and cleaning up) any ramp already running.
func (r *Ramp) Start(req RampRequest, now float64) {
	if r.Active() {
		r.Cancel(now)
	}
	r.req = req
	r.phase = RampUp
	r.elapsed = 0
	r.hold = 0
	r.sampled = false
	r.busy = true
}

// Cancel stops a running ramp and runs its cleanup. The parameter keeps
// whatever value it had reached.
func (r *Ramp) Cancel(now float64) {
	if !r.Active() {
		return
	}
	r.finish(now, true)
}

// Step advances the ramp by one frame.
func (r *Ramp) Step(dt, now float64) {
	for {
		switch r.phase {
		case RampIdle:
			return
		case RampUp:
			if !r.lerp(0, r.req.Target, dt) {
				return
			}
			r.phase = RampHold
			r.sampled = false
			return
		case RampHold:
			if !r.sampled {
				// the clip length is read one frame after the ramp up so the
				// animator has switched to the clip the parameter selects.
				r.sampled = true
				r.hold = r.anim.ClipLength() * float64(r.req.Loops)
			} else {
				r.hold -= dt
			}
			if r.hold > 0 {
				return
			}
			r.phase = RampDown
			r.elapsed = 0
		case RampDown:
			if !r.lerp(r.req.Target, 0, dt) {
				return
			}
			r.finish(now, false)
			return
		}
	}
}

// lerp performs one frame of an interpolation and reports whether it was
// already complete, in which case the end value is written.
func (r *Ramp) lerp(from, to, dt float64) bool {
	if r.elapsed < r.req.Duration {
		r.elapsed += dt
		r.anim.SetFloat(r.req.Param, common.LerpClamped(from, to, r.elapsed/r.req.Duration))
		return false
	}
	r.anim.SetFloat(r.req.Param, to)
	r.elapsed = 0
	return true
}

func (r *Ramp) finish(now float64, canceled bool) {
	req := r.req
	r.nextAllowed = now + req.Cooldown
	r.busy = false
	r.phase = RampIdle
	r.elapsed = 0
	r.hold = 0
	r.sampled = false
	if r.onFinish != nil {
		r.onFinish(req, canceled)
	}
}
