package entity

import (
	"math/rand/v2"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/beastmind/common"
	"github.com/milk9111/beastmind/component"
	"github.com/milk9111/beastmind/creature"
	"github.com/milk9111/beastmind/ecs"
	ecscomp "github.com/milk9111/beastmind/ecs/component"
	"github.com/milk9111/beastmind/nav"
	"github.com/milk9111/beastmind/physics"
	"github.com/milk9111/beastmind/player"
	"github.com/milk9111/beastmind/prefabs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEnv(t *testing.T) Env {
	t.Helper()
	grid, err := nav.NewGrid(nav.GridConfig{
		Width: 10, Depth: 10, CellSize: 1,
		Origin:            common.Vec3{X: -5, Z: -5},
		Seed:              1,
		NoiseFrequency:    0.1,
		NoiseOctaves:      1,
		ObstacleThreshold: 2,
	})
	require.NoError(t, err)
	return Env{
		Grid:  grid,
		Space: physics.NewSpace(nil),
		Clock: component.NewStepClock(),
		Rand:  rand.New(rand.NewPCG(1, 2)),
	}
}

func bodyCount(s *physics.Space) int {
	n := 0
	s.Space().EachBody(func(*cp.Body) { n++ })
	return n
}

func TestFailedSpawnLeavesNothingBehind(t *testing.T) {
	cases := []struct {
		name  string
		spawn func(t *testing.T, w *ecs.World, env Env) error
		want  error
	}{
		{"creature", func(t *testing.T, w *ecs.World, env Env) error {
			spec, err := prefabs.LoadCreature("dog")
			require.NoError(t, err)
			spec.Creature.PatrolRadius = -1
			_, err = NewCreatureFromPrefab(w, env, "dog", spec, common.Vec3{})
			return err
		}, creature.ErrInvalidData},
		{"player", func(t *testing.T, w *ecs.World, env Env) error {
			spec, err := prefabs.LoadPlayer("player")
			require.NoError(t, err)
			spec.Player.MaxJumpTime = 0
			_, err = NewPlayerFromPrefab(w, env, "player", spec, common.Vec3{})
			return err
		}, player.ErrInvalidStats},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			env := newEnv(t)
			w := ecs.NewWorld()
			bodies := bodyCount(env.Space)

			err := tc.spawn(t, w, env)
			assert.ErrorIs(t, err, tc.want)
			assert.Empty(t, ecs.Entities(w))
			assert.Equal(t, bodies, bodyCount(env.Space))
		})
	}
}

func TestDespawnFreesBodies(t *testing.T) {
	env := newEnv(t)
	w := ecs.NewWorld()
	bodies := bodyCount(env.Space)

	dog, err := NewCreature(w, env, "dog", common.Vec3{X: 2})
	require.NoError(t, err)
	pl, err := NewPlayer(w, env, "player", common.Vec3{})
	require.NoError(t, err)
	require.Equal(t, bodies+2, bodyCount(env.Space))

	p, ok := ecs.Get(w, pl, ecscomp.PlayerComponent.Kind())
	require.True(t, ok)

	assert.True(t, Despawn(w, env, dog))
	assert.True(t, Despawn(w, env, pl))
	assert.False(t, Despawn(w, env, dog), "stale handle")
	assert.Empty(t, ecs.Entities(w))
	assert.Equal(t, bodies, bodyCount(env.Space))
	assert.Equal(t, common.Vec3{}, p.Character.Position())
}
