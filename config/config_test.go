package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, 60, cfg.Sandbox.TPS)
	assert.Equal(t, uint64(1), cfg.Sandbox.Seed)
	assert.Equal(t, 64, cfg.World.Width)
	assert.Equal(t, 0.72, cfg.World.ObstacleThreshold)
	assert.Equal(t, "player", cfg.Player.Prefab)
	require.Len(t, cfg.Herd, 4)
	assert.Equal(t, HerdConfig{Prefab: "horse", Count: 3}, cfg.Herd[0])
	assert.InDelta(t, 1.0/60, cfg.TickSeconds(), 1e-12)
}

func TestLoadFileAndFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sandbox.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
sandbox:
  tps: 30
  seed: 7
world:
  cell_size: 0.5
herd:
  - prefab: dog
    count: 5
log:
  level: debug
`), 0o644))

	fs := Flags("test")
	require.NoError(t, fs.Parse([]string{"--config", path, "--seed", "42", "--watch"}))

	cfg, err := Load("", fs)
	require.NoError(t, err)
	assert.Equal(t, 30, cfg.Sandbox.TPS, "file overrides default")
	assert.Equal(t, uint64(42), cfg.Sandbox.Seed, "flag overrides file")
	assert.Equal(t, 0.5, cfg.World.CellSize)
	assert.Equal(t, []HerdConfig{{Prefab: "dog", Count: 5}}, cfg.Herd)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Prefabs.Watch)
}

func TestLoadRejectsInvalid(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"zero_tps", "sandbox:\n  tps: 0\n"},
		{"bad_cell", "world:\n  cell_size: 0\n"},
		{"herd_without_prefab", "herd:\n  - count: 2\n"},
		{"bad_level", "log:\n  level: loud\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "c.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tc.body), 0o644))
			_, err := Load(path, nil)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	assert.Error(t, err)
}

func TestLogger(t *testing.T) {
	cfg, err := Load("", nil)
	require.NoError(t, err)
	log, err := cfg.Logger()
	require.NoError(t, err)
	assert.NotNil(t, log)
}
