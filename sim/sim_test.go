package sim

import (
	"testing"

	"github.com/milk9111/beastmind/common"
	"github.com/milk9111/beastmind/config"
	"github.com/milk9111/beastmind/ecs"
	ecscomp "github.com/milk9111/beastmind/ecs/component"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("", nil)
	require.NoError(t, err)
	cfg.World.Width, cfg.World.Depth = 24, 24
	cfg.Herd = []config.HerdConfig{{Prefab: "horse", Count: 2}, {Prefab: "fox", Count: 1}}
	return cfg
}

func TestNewSpawnsHerdAndPlayer(t *testing.T) {
	s, err := New(testConfig(t), Options{})
	require.NoError(t, err)
	defer s.Close()

	assert.Len(t, s.Creatures(), 3)
	require.NotNil(t, s.Player())
	assert.Equal(t, "grounded/idle", s.Player().Brain.StateName())
	for _, c := range s.Creatures() {
		assert.Equal(t, "idle", c.Debug.State)
		assert.True(t, s.Grid().Walkable(c.Debug.Position), "spawned on the walkable surface")
	}
}

func TestTickAdvancesClock(t *testing.T) {
	s, err := New(testConfig(t), Options{})
	require.NoError(t, err)
	defer s.Close()

	for i := 0; i < 60; i++ {
		s.Tick()
	}
	assert.Equal(t, 60, s.Ticks())
	assert.InDelta(t, 1.0, s.Now(), 1e-9)
}

func TestSameSeedSameTimeline(t *testing.T) {
	run := func() []string {
		s, err := New(testConfig(t), Options{})
		require.NoError(t, err)
		defer s.Close()
		var timeline []string
		for i := 0; i < 900; i++ {
			for _, evt := range s.Tick() {
				if tr, ok := evt.Data.(ecs.TransitionEvent); ok {
					timeline = append(timeline, evt.Entity.String()+":"+tr.From+">"+tr.To)
				}
			}
		}
		return timeline
	}
	first := run()
	assert.NotEmpty(t, first)
	assert.Equal(t, first, run())
}

func TestInputReachesPlayer(t *testing.T) {
	cfg := testConfig(t)
	cfg.Herd = nil
	cfg.World.ObstacleThreshold = 2
	in := ecscomp.Input{Move: common.Vec2{Y: 1}}
	s, err := New(cfg, Options{Input: func() ecscomp.Input { return in }})
	require.NoError(t, err)
	defer s.Close()

	start := s.Player().Character.Position()
	for i := 0; i < 30; i++ {
		s.Tick()
	}
	assert.Equal(t, "grounded/walk", s.Player().Brain.StateName())
	assert.Greater(t, s.Player().Character.Position().Z, start.Z)
}

func TestCloseStopsMachines(t *testing.T) {
	s, err := New(testConfig(t), Options{})
	require.NoError(t, err)
	s.Close()
	assert.Empty(t, ecs.Entities(s.World()))
}
