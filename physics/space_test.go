package physics

import (
	"testing"

	"github.com/milk9111/beastmind/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type wallGrid struct {
	w, d    int
	blocked map[[2]int]bool
}

func (g wallGrid) Width() int          { return g.w }
func (g wallGrid) Depth() int          { return g.d }
func (g wallGrid) CellSize() float64   { return 1 }
func (g wallGrid) Origin() common.Vec3 { return common.Vec3{} }
func (g wallGrid) Blocked(x, z int) bool {
	return g.blocked[[2]int{x, z}]
}

func TestAddObstaclesMergesRuns(t *testing.T) {
	s := NewSpace(nil)
	g := wallGrid{w: 6, d: 2, blocked: map[[2]int]bool{
		{1, 0}: true, {2, 0}: true, {3, 0}: true,
		{5, 0}: true,
		{0, 1}: true,
	}}
	assert.Equal(t, 3, s.AddObstacles(g))
}

func TestAgentBodyFollowsVelocity(t *testing.T) {
	s := NewSpace(nil)
	b := s.AddAgentBody(common.Vec3{X: 1, Y: 0, Z: 1}, 0.4)
	b.SetVelocity(common.Vec3{X: 2, Z: -1})
	for i := 0; i < 10; i++ {
		s.Step(0.1)
	}
	p := b.Position()
	assert.InDelta(t, 3, p.X, 1e-6)
	assert.InDelta(t, 0, p.Z, 1e-6)

	s.Remove(b)
	assert.Equal(t, common.Vec3{}, b.Position())
	s.Step(0.1)
}

func TestWallStopsAgent(t *testing.T) {
	cases := []struct {
		name  string
		vel   common.Vec3
		wantX float64
	}{
		{"head_on", common.Vec3{Z: 3}, 4.5},
		{"glancing", common.Vec3{X: 1, Z: 3}, 6.5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			// One merged wall along X covering z in [5, 6].
			s := NewSpace(nil)
			g := wallGrid{w: 12, d: 10, blocked: map[[2]int]bool{}}
			for x := 0; x < 12; x++ {
				g.blocked[[2]int{x, 5}] = true
			}
			require.Equal(t, 1, s.AddObstacles(g))
			b := s.AddAgentBody(common.Vec3{X: 4.5, Z: 2.5}, 0.4)

			// The agent keeps asking for the same velocity, as a nav agent does.
			for i := 0; i < 120; i++ {
				b.SetVelocity(tc.vel)
				s.Step(1.0 / 60)
			}
			p := b.Position()
			assert.True(t, b.Touching())
			assert.Less(t, p.Z, 4.8, "settles against the wall face at 4.6")
			assert.Greater(t, p.Z, 4.4)
			assert.InDelta(t, tc.wantX, p.X, 0.1, "motion along the wall is kept")

			for i := 0; i < 600; i++ {
				b.SetVelocity(common.Vec3{Z: 3})
				s.Step(1.0 / 60)
			}
			assert.Less(t, b.Position().Z, 4.8, "no creep into the wall")
		})
	}
}

func TestCharacterGrounding(t *testing.T) {
	s := NewSpace(nil)
	c := s.NewCharacter(common.Vec3{X: 1, Y: 0, Z: 1}, 0.5)
	require.True(t, c.IsGrounded())

	c.Move(common.Vec3{Y: 1})
	assert.False(t, c.IsGrounded())
	assert.Equal(t, 1.0, c.Height())

	c.Move(common.Vec3{Y: -3})
	assert.True(t, c.IsGrounded())
	assert.Equal(t, 0.0, c.Position().Y)

	c.Teleport(common.Vec3{X: 4, Y: 2, Z: 4})
	assert.False(t, c.IsGrounded())
	assert.Equal(t, common.Vec3{X: 4, Y: 2, Z: 4}, c.Position())
}

func TestCharacterMoveAppliedOnStep(t *testing.T) {
	s := NewSpace(nil)
	c := s.NewCharacter(common.Vec3{}, 0.5)
	c.Move(common.Vec3{X: 0.5, Z: 0.25})
	assert.Equal(t, common.Vec3{}, c.Position(), "horizontal moves wait for the step")

	s.Step(0.1)
	p := c.Position()
	assert.InDelta(t, 0.5, p.X, 1e-6)
	assert.InDelta(t, 0.25, p.Z, 1e-6)

	s.Step(0.1)
	assert.InDelta(t, 0.5, c.Position().X, 1e-6, "no drift without a move")
}

func TestCharacterCountsAgentContacts(t *testing.T) {
	s := NewSpace(nil)
	c := s.NewCharacter(common.Vec3{}, 0.5)
	b := s.AddAgentBody(common.Vec3{X: 0.7}, 0.4)

	s.Step(1.0 / 60)
	assert.Equal(t, 1, c.Contacts())

	s.Remove(b)
	s.Step(1.0 / 60)
	assert.Equal(t, 0, c.Contacts())
}
