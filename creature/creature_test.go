package creature

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/milk9111/beastmind/common"
	"github.com/milk9111/beastmind/component"
	"github.com/milk9111/beastmind/component/componenttest"
	"github.com/milk9111/beastmind/fsm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rig struct {
	data  *Data
	agent *componenttest.Agent
	mesh  *componenttest.Mesh
	anim  *componenttest.Animator
	tf    *componenttest.Transform
	clock *component.StepClock
	c     *Creature
	trans [][2]fsm.Kind
}

func newRig(t *testing.T, mutate func(*Data)) *rig {
	t.Helper()
	d := DefaultData()
	if mutate != nil {
		mutate(&d)
	}
	r := &rig{
		data:  &d,
		agent: componenttest.NewAgent(),
		mesh:  &componenttest.Mesh{Found: true, Hit: common.Vec3{X: 5, Z: 5}},
		anim:  componenttest.NewAnimator("Vert", "State"),
		tf:    &componenttest.Transform{},
		clock: component.NewStepClock(),
	}
	c, err := New(Config{
		ID:        "test",
		Data:      r.data,
		Agent:     r.agent,
		Mesh:      r.mesh,
		Transform: r.tf,
		Clock:     r.clock,
		Animator:  r.anim,
		Rand:      rand.New(rand.NewPCG(1, 2)),
		OnTransition: func(from, to fsm.Kind) {
			r.trans = append(r.trans, [2]fsm.Kind{from, to})
		},
	})
	require.NoError(t, err)
	r.c = c
	return r
}

func (r *rig) tick(dt float64) {
	r.clock.Tick(dt)
	r.c.Advance()
}

func still(d *Data) { d.IdleStrategy = IdleStill }

func TestNewAppliesAgentTunables(t *testing.T) {
	r := newRig(t, nil)
	assert.Equal(t, Idle, r.c.CurrentState())
	assert.Equal(t, "idle", r.c.StateName())
	assert.Equal(t, 3.0, r.agent.Stopping)
	assert.Equal(t, 15.0, r.agent.Accel)
	assert.Equal(t, "test", r.c.ID())
}

func TestNewRejectsMissingCollaborators(t *testing.T) {
	d := DefaultData()
	full := Config{
		Data:      &d,
		Agent:     componenttest.NewAgent(),
		Mesh:      &componenttest.Mesh{},
		Transform: &componenttest.Transform{},
		Clock:     component.NewStepClock(),
	}
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"data", func(c *Config) { c.Data = nil }},
		{"agent", func(c *Config) { c.Agent = nil }},
		{"mesh", func(c *Config) { c.Mesh = nil }},
		{"transform", func(c *Config) { c.Transform = nil }},
		{"clock", func(c *Config) { c.Clock = nil }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := full
			tc.mutate(&cfg)
			_, err := New(cfg)
			assert.ErrorIs(t, err, ErrMissingCollaborator)
		})
	}

	t.Run("bad_strategy", func(t *testing.T) {
		bad := DefaultData()
		bad.PatrolStrategy = "teleport"
		cfg := full
		cfg.Data = &bad
		_, err := New(cfg)
		assert.ErrorIs(t, err, ErrInvalidData)
	})

	t.Run("no_animator", func(t *testing.T) {
		c, err := New(full)
		require.NoError(t, err)
		assert.Equal(t, Idle, c.CurrentState())
	})
}

func TestIdleToPatrolBoundaryInclusive(t *testing.T) {
	r := newRig(t, func(d *Data) {
		still(d)
		d.IdleDuration = 1
	})
	for i := 0; i < 3; i++ {
		r.tick(0.25)
		require.Equal(t, Idle, r.c.CurrentState(), "tick %d", i)
	}
	r.tick(0.25)
	assert.Equal(t, Patrol, r.c.CurrentState(), "elapsed == idle duration switches")
	assert.Equal(t, [][2]fsm.Kind{{Idle, Patrol}}, r.trans)
}

func TestBusyBlocksIdleTimeout(t *testing.T) {
	r := newRig(t, func(d *Data) {
		d.IdleDuration = 0.5
		d.TimeToReachTargetValue = 0.5
		d.TimesToLoopAnimation = 1
		d.CooldownTime = 5
	})
	r.anim.Clip = 1

	for i := 1; i <= 10; i++ {
		r.tick(0.25)
		require.Equal(t, Idle, r.c.CurrentState(), "tick %d", i)
		if i < 10 {
			require.True(t, r.c.IsBusy(), "tick %d", i)
		}
	}
	assert.False(t, r.c.IsBusy())

	r.tick(0.25)
	assert.Equal(t, Patrol, r.c.CurrentState())
}

func TestIdleTargetCheckOrder(t *testing.T) {
	t.Run("target_before_timeout", func(t *testing.T) {
		r := newRig(t, func(d *Data) { still(d); d.IdleDuration = 1 })
		r.c.OnTargetAcquired(componenttest.Point{X: 1})
		r.tick(0.5)
		assert.Equal(t, Chase, r.c.CurrentState())
	})
	t.Run("timeout_wins", func(t *testing.T) {
		r := newRig(t, func(d *Data) { still(d); d.IdleDuration = 0.5 })
		r.c.OnTargetAcquired(componenttest.Point{X: 1})
		r.tick(0.5)
		assert.Equal(t, Patrol, r.c.CurrentState())
	})
	t.Run("busy_lets_target_through", func(t *testing.T) {
		r := newRig(t, func(d *Data) { d.IdleDuration = 0 })
		r.anim.Clip = 1
		r.c.OnTargetAcquired(componenttest.Point{X: 1})
		r.tick(0.1)
		assert.Equal(t, Chase, r.c.CurrentState())
	})
}

// enterPatrol drives a fresh rig into Patrol.
func enterPatrol(t *testing.T) *rig {
	t.Helper()
	r := newRig(t, func(d *Data) { still(d); d.IdleDuration = 0 })
	r.tick(0.1)
	require.Equal(t, Patrol, r.c.CurrentState())
	return r
}

func TestPatrolEnterStartsGallop(t *testing.T) {
	r := enterPatrol(t)
	assert.Equal(t, 2.0, r.agent.MaxSpeed)
	assert.False(t, r.agent.UpdateRotation)
	assert.Equal(t, []common.Vec3{{X: 5, Z: 5}}, r.agent.Destinations)
	assert.Equal(t, []float64{2}, r.mesh.Radius)
}

func TestGallopOverrideSpeed(t *testing.T) {
	r := newRig(t, func(d *Data) {
		still(d)
		d.IdleDuration = 0
		d.Gallop.Enabled = true
	})
	r.tick(0.1)
	assert.Equal(t, 4.0, r.agent.MaxSpeed)
}

func TestPatrolTransitions(t *testing.T) {
	boundary := common.Vec3{X: 0.1, Z: 0.3}
	require.Equal(t, 0.1, boundary.SqrMagnitude())

	cases := []struct {
		name      string
		pending   bool
		path      bool
		remaining float64
		vel       common.Vec3
		target    bool
		want      fsm.Kind
	}{
		{"pending", true, false, 0, common.Vec3{}, false, Patrol},
		{"pending_ignores_target", true, true, 10, common.Vec3{}, true, Patrol},
		{"arrived_still_moving", false, true, 1, common.Vec3{X: 0.5}, false, Patrol},
		{"arrived_slow", false, true, 3, common.Vec3{X: 0.3}, false, Idle},
		{"arrived_at_speed_threshold", false, true, 0, boundary, false, Patrol},
		{"path_lost", false, false, 10, common.Vec3{}, false, Idle},
		{"en_route", false, true, 10, common.Vec3{X: 2}, false, Patrol},
		{"en_route_target", false, true, 10, common.Vec3{X: 2}, true, Chase},
		{"arrived_beats_target", false, true, 0, common.Vec3{}, true, Idle},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := enterPatrol(t)
			r.agent.Pending = tc.pending
			r.agent.Path = tc.path
			r.agent.Remaining = tc.remaining
			r.agent.Vel = tc.vel
			if tc.target {
				r.c.OnTargetAcquired(componenttest.Point{X: 3})
			}
			r.tick(0.1)
			assert.Equal(t, tc.want, r.c.CurrentState())
		})
	}
}

func TestPatrolExitRestoresAgent(t *testing.T) {
	r := enterPatrol(t)
	r.anim.Floats["Vert"] = 0.7
	r.agent.Path = false
	resets := r.agent.Resets

	r.tick(0.1)
	require.Equal(t, Idle, r.c.CurrentState())
	assert.True(t, r.agent.UpdateRotation)
	assert.Equal(t, resets+1, r.agent.Resets)
	assert.Equal(t, 0.0, r.anim.Floats["Vert"])
}

func TestRandomPatrolPoint(t *testing.T) {
	r := newRig(t, nil)
	r.tf.Pos = common.Vec3{X: 100, Y: 1, Z: -50}

	for i := 0; i < 20; i++ {
		assert.Equal(t, common.Vec3{X: 5, Z: 5}, r.c.RandomPatrolPoint())
	}
	for _, q := range r.mesh.Queries {
		assert.LessOrEqual(t, common.Distance(q, r.tf.Pos), 10.0+1e-9)
	}

	r.mesh.Found = false
	assert.Equal(t, r.tf.Pos, r.c.RandomPatrolPoint(), "no navmesh hit falls back to the current position")
}

// enterChase drives a fresh rig into Chase with a target at +X.
func enterChase(t *testing.T) *rig {
	t.Helper()
	r := newRig(t, func(d *Data) { still(d); d.IdleDuration = 100 })
	r.c.OnTargetAcquired(componenttest.Point{X: 10})
	r.tick(0.1)
	require.Equal(t, Chase, r.c.CurrentState())
	return r
}

func TestChaseEnterConfiguresAgent(t *testing.T) {
	r := enterChase(t)
	assert.Equal(t, 5.0, r.agent.MaxSpeed)
	assert.Equal(t, 15.0, r.agent.Accel)
	assert.Equal(t, 3.0, r.agent.Stopping)
	assert.True(t, r.agent.AutoBraking)
	assert.False(t, r.agent.UpdateRotation)
}

func TestChaseFollowsTarget(t *testing.T) {
	r := enterChase(t)
	r.agent.Vel = common.Vec3{X: 5}
	r.tick(0.1)

	assert.Equal(t, common.Vec3{X: 10}, r.agent.Dest)
	want := 1 - math.Exp(-1)
	assert.InDelta(t, want, r.anim.Floats["Vert"], 1e-9)
	assert.InDelta(t, want, r.anim.Floats["State"], 1e-9, "speed ratio 5/5 damped")
	assert.InDelta(t, math.Pi/2*0.7, r.tf.Heading, 1e-9)
}

func TestChaseFacesTargetAtHalfSpeedWhenStationary(t *testing.T) {
	r := enterChase(t)
	r.tick(0.1)
	assert.InDelta(t, math.Pi/2*0.35, r.tf.Heading, 1e-9)
}

func TestChaseSnapsSmallParams(t *testing.T) {
	cases := []struct {
		name string
		pre  float64
		want float64
	}{
		{"snaps", 0.02, 0},
		{"keeps", 1, math.Exp(-1)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := enterChase(t)
			r.anim.Floats["Vert"] = tc.pre
			r.anim.Floats["State"] = tc.pre
			r.tick(0.1)
			assert.InDelta(t, tc.want, r.anim.Floats["Vert"], 1e-9)
			assert.InDelta(t, tc.want, r.anim.Floats["State"], 1e-9)
			if tc.want == 0 {
				assert.Equal(t, 0.0, r.anim.Floats["Vert"])
			}
		})
	}
}

func TestChaseToIdleOnTargetLost(t *testing.T) {
	r := enterChase(t)
	resets := r.agent.Resets
	r.c.OnTargetLost()
	dests := len(r.agent.Destinations)

	r.tick(0.1)
	assert.Equal(t, Idle, r.c.CurrentState())
	assert.Equal(t, resets+1, r.agent.Resets)
	assert.Len(t, r.agent.Destinations, dests, "no movement without a target")
}

func TestStillIdleZeroesParams(t *testing.T) {
	r := newRig(t, still)
	r.anim.Floats["Vert"] = 0.4
	r.anim.Floats["State"] = 0.9
	r.tick(0.1)
	assert.Equal(t, 0.0, r.anim.Floats["Vert"])
	assert.Equal(t, 0.0, r.anim.Floats["State"])
}

func TestTriggerGate(t *testing.T) {
	req := RampRequest{Target: 1, Duration: 0, Cooldown: 10, Loops: 0}

	t.Run("no_animator", func(t *testing.T) {
		d := DefaultData()
		c, err := New(Config{
			Data:      &d,
			Agent:     componenttest.NewAgent(),
			Mesh:      &componenttest.Mesh{},
			Transform: &componenttest.Transform{},
			Clock:     component.NewStepClock(),
		})
		require.NoError(t, err)
		c.TriggerStateTransition(req)
		assert.False(t, c.IsBusy())
	})

	t.Run("cooldown", func(t *testing.T) {
		r := newRig(t, still)
		r.c.TriggerStateTransition(req)
		require.True(t, r.c.IsBusy())
		r.tick(0.1)
		r.tick(0.1)
		require.False(t, r.c.IsBusy())

		r.c.TriggerStateTransition(req)
		assert.False(t, r.c.IsBusy(), "cooldown not elapsed")

		for r.clock.Now() < 10.3 {
			r.tick(0.5)
		}
		r.c.TriggerStateTransition(req)
		assert.True(t, r.c.IsBusy())
	})

	t.Run("busy", func(t *testing.T) {
		r := newRig(t, still)
		r.c.TriggerStateTransition(RampRequest{Target: 1, Duration: 5, Cooldown: 1})
		r.tick(0.1)
		r.c.TriggerStateTransition(req)
		r.tick(0.1)
		assert.Equal(t, RampUp, r.c.Debug().Ramp, "second request ignored")
	})
}

func TestCloseCancelsRampAndExits(t *testing.T) {
	r := enterPatrol(t)
	r.c.TriggerStateTransition(RampRequest{Target: 1, Duration: 5, Cooldown: 2})
	require.True(t, r.c.IsBusy())

	r.c.Close()
	assert.False(t, r.c.IsBusy())
	assert.Equal(t, fsm.NoKind, r.c.CurrentState())
	assert.True(t, r.agent.UpdateRotation, "patrol exit ran")
}

func TestSetData(t *testing.T) {
	r := enterPatrol(t)
	next := DefaultData()
	next.IdleStrategy = IdleStill
	next.PatrolRadius = 42
	require.NoError(t, r.c.SetData(&next))
	assert.Equal(t, 42.0, r.c.Debug().PatrolRadius)
	assert.Same(t, &next, r.c.Data())

	bad := DefaultData()
	bad.IdleStrategy = "dance"
	assert.ErrorIs(t, r.c.SetData(&bad), ErrInvalidData)
	assert.Same(t, &next, r.c.Data())
}

func TestDebug(t *testing.T) {
	r := enterChase(t)
	d := r.c.Debug()
	assert.Equal(t, "chase", d.State)
	assert.Equal(t, "horse", d.Kind)
	require.NotNil(t, d.Target)
	assert.Equal(t, common.Vec3{X: 10}, *d.Target)
}
