package prefabs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/milk9111/beastmind/anim"
	"github.com/milk9111/beastmind/creature"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// useDir points the on-disk lookup at dir for the duration of a test.
func useDir(t *testing.T, dir string) {
	t.Helper()
	prev := Dir
	Dir = dir
	t.Cleanup(func() { Dir = prev })
}

func TestCleanPaths(t *testing.T) {
	cases := []struct {
		in, prefab, script string
	}{
		{"horse", "horse.yaml", "scripts/horse.tengo"},
		{"horse.yaml", "horse.yaml", "scripts/horse.yaml"},
		{"prefabs/dog.yaml", "dog.yaml", "scripts/dog.yaml"},
		{"scripts/fox_idle.tengo", "scripts/fox_idle.tengo", "scripts/fox_idle.tengo"},
		{"prefabs/scripts/fox_idle.tengo", "scripts/fox_idle.tengo", "scripts/fox_idle.tengo"},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.prefab, cleanPrefabPath(tc.in))
			assert.Equal(t, tc.script, cleanScriptPath(tc.in))
		})
	}
}

func TestLoadEmbeddedCreatures(t *testing.T) {
	useDir(t, t.TempDir())
	cases := []struct {
		name string
		idle creature.IdleKind
	}{
		{"horse", creature.IdleGraze},
		{"tiger", creature.IdleGraze},
		{"dog", creature.IdleStill},
		{"fox", creature.IdleScripted},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := LoadCreature(tc.name)
			require.NoError(t, err)
			assert.Equal(t, tc.name, p.Creature.Name)
			assert.Equal(t, tc.idle, p.Creature.IdleStrategy)
			assert.Greater(t, p.Body.Radius, 0.0)

			_, err = anim.New(p.Animation)
			assert.NoError(t, err)
		})
	}
}

func TestHorseMatchesDefaults(t *testing.T) {
	useDir(t, t.TempDir())
	p, err := LoadCreature("horse")
	require.NoError(t, err)
	want := creature.DefaultData()
	assert.Equal(t, want, p.Creature)
}

func TestMissingFieldsKeepDefaults(t *testing.T) {
	useDir(t, t.TempDir())
	p, err := LoadCreature("dog")
	require.NoError(t, err)
	def := creature.DefaultData()
	assert.Equal(t, def.AnimDampTime, p.Creature.AnimDampTime)
	assert.Equal(t, def.Params, p.Creature.Params)
	assert.Equal(t, 1.5, p.Creature.StoppingDistance)
}

func TestFoxScriptCompiles(t *testing.T) {
	useDir(t, t.TempDir())
	p, err := LoadCreature("fox")
	require.NoError(t, err)
	src, err := LoadScript(p.Creature.IdleScript)
	require.NoError(t, err)
	_, err = creature.NewScripted(src, nil)
	assert.NoError(t, err)
}

func TestLoadPlayer(t *testing.T) {
	useDir(t, t.TempDir())
	p, err := LoadPlayer("player")
	require.NoError(t, err)
	assert.True(t, p.Player.HoldJump)
	assert.Equal(t, 8.0, p.Player.RunSpeed)
	assert.Equal(t, 0.4, p.Body.Radius)
}

func TestDiskCopyShadowsEmbedded(t *testing.T) {
	dir := t.TempDir()
	useDir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "horse.yaml"), []byte(`
creature:
  name: pony
  patrol_radius: 4
animation:
  clips:
    - name: idle
      length: 1
`), 0o644))

	p, err := LoadCreature("horse")
	require.NoError(t, err)
	assert.Equal(t, "pony", p.Creature.Name)
	assert.Equal(t, 4.0, p.Creature.PatrolRadius)
	assert.Equal(t, creature.DefaultData().ChaseSpeed, p.Creature.ChaseSpeed)

	_, ok := ModTime("horse")
	assert.True(t, ok)
	_, ok = ModTime("tiger")
	assert.False(t, ok)
}

func TestLoadCreatureErrors(t *testing.T) {
	dir := t.TempDir()
	useDir(t, dir)
	write := func(name, body string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	write("broken.yaml", "creature: [")
	write("negative.yaml", "creature:\n  patrol_radius: -1\n")
	write("bodyless.yaml", "body:\n  radius: 0\n")

	cases := []struct {
		name    string
		invalid bool
	}{
		{"missing", false},
		{"broken", false},
		{"negative", true},
		{"bodyless", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadCreature(tc.name)
			require.Error(t, err)
			if tc.invalid {
				assert.ErrorIs(t, err, creature.ErrInvalidData)
			}
		})
	}
}

func TestLoadSpecGeneric(t *testing.T) {
	useDir(t, t.TempDir())
	spec, err := LoadSpec[CreaturePrefab]("tiger.yaml")
	require.NoError(t, err)
	assert.True(t, spec.Creature.Gallop.Enabled)
	assert.Equal(t, 4.5, spec.Creature.Gallop.Speed)
}

func TestWatcherReportsEdits(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "horse.yaml"), []byte("creature: {}"), 0o644))

	select {
	case c := <-w.Events:
		assert.Equal(t, ChangeSpec, c.Kind)
		assert.Equal(t, "horse.yaml", c.Name)
	case <-time.After(2 * time.Second):
		t.Fatal("no change reported")
	}
}

func TestClassify(t *testing.T) {
	c, ok := classify("/a/b/fox_idle.tengo")
	require.True(t, ok)
	assert.Equal(t, ChangeScript, c.Kind)
	assert.Equal(t, "fox_idle.tengo", c.Name)

	_, ok = classify("/a/b/readme.md")
	assert.False(t, ok)
}
