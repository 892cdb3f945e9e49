// Package config loads the sandbox configuration with viper. Values come
// from defaults, then an optional YAML file, then command-line flags.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var ErrInvalidConfig = errors.New("config: invalid")

type Config struct {
	Sandbox SandboxConfig `mapstructure:"sandbox"`
	World   WorldConfig   `mapstructure:"world"`
	Herd    []HerdConfig  `mapstructure:"herd"`
	Player  PlayerConfig  `mapstructure:"player"`
	Log     LogConfig     `mapstructure:"log"`
	Prefabs PrefabsConfig `mapstructure:"prefabs"`
}

type SandboxConfig struct {
	TPS    int    `mapstructure:"tps"`
	Seed   uint64 `mapstructure:"seed"`
	Width  int    `mapstructure:"width"`
	Height int    `mapstructure:"height"`
	// Ticks is how long the headless simulation runs.
	Ticks int `mapstructure:"ticks"`
}

type WorldConfig struct {
	Width             int     `mapstructure:"width"`
	Depth             int     `mapstructure:"depth"`
	CellSize          float64 `mapstructure:"cell_size"`
	NoiseFrequency    float64 `mapstructure:"noise_frequency"`
	ObstacleThreshold float64 `mapstructure:"obstacle_threshold"`
}

// HerdConfig spawns Count creatures of one prefab.
type HerdConfig struct {
	Prefab string `mapstructure:"prefab"`
	Count  int    `mapstructure:"count"`
}

type PlayerConfig struct {
	Prefab string `mapstructure:"prefab"`
}

type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

type PrefabsConfig struct {
	Watch bool   `mapstructure:"watch"`
	Dir   string `mapstructure:"dir"`
}

// Flags returns the command-line flags Load understands.
func Flags(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.StringP("config", "c", "", "path to a YAML config file")
	fs.Int("tps", 60, "simulation ticks per second")
	fs.Uint64("seed", 1, "world and creature random seed")
	fs.Int("ticks", 1800, "ticks to run headless")
	fs.String("log-level", "info", "log level (debug, info, warn, error)")
	fs.Bool("watch", false, "hot-reload prefabs from disk")
	return fs
}

var flagKeys = map[string]string{
	"tps":       "sandbox.tps",
	"seed":      "sandbox.seed",
	"ticks":     "sandbox.ticks",
	"log-level": "log.level",
	"watch":     "prefabs.watch",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("sandbox.tps", 60)
	v.SetDefault("sandbox.seed", 1)
	v.SetDefault("sandbox.width", 1280)
	v.SetDefault("sandbox.height", 720)
	v.SetDefault("sandbox.ticks", 1800)
	v.SetDefault("world.width", 64)
	v.SetDefault("world.depth", 64)
	v.SetDefault("world.cell_size", 1.0)
	v.SetDefault("world.noise_frequency", 0.08)
	v.SetDefault("world.obstacle_threshold", 0.72)
	v.SetDefault("herd", []map[string]any{
		{"prefab": "horse", "count": 3},
		{"prefab": "tiger", "count": 1},
		{"prefab": "dog", "count": 2},
		{"prefab": "fox", "count": 1},
	})
	v.SetDefault("player.prefab", "player")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", true)
	v.SetDefault("prefabs.watch", false)
	v.SetDefault("prefabs.dir", "prefabs")
}

// Load builds the configuration. path may be empty; flags may be nil. When
// flags carries a --config value it takes the place of path.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("BEASTMIND")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		if f := flags.Lookup("config"); f != nil && f.Changed {
			path = f.Value.String()
		}
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("config: bind %s: %w", name, err)
				}
			}
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch {
	case c.Sandbox.TPS <= 0:
		return fmt.Errorf("%w: sandbox.tps must be positive", ErrInvalidConfig)
	case c.World.Width <= 0 || c.World.Depth <= 0:
		return fmt.Errorf("%w: world size must be positive", ErrInvalidConfig)
	case c.World.CellSize <= 0:
		return fmt.Errorf("%w: world.cell_size must be positive", ErrInvalidConfig)
	case c.Player.Prefab == "":
		return fmt.Errorf("%w: player.prefab is required", ErrInvalidConfig)
	}
	for i, h := range c.Herd {
		if h.Prefab == "" || h.Count < 0 {
			return fmt.Errorf("%w: herd[%d] needs a prefab and a non-negative count", ErrInvalidConfig, i)
		}
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: log.level: %v", ErrInvalidConfig, err)
	}
	return nil
}

// TickSeconds is the fixed step length.
func (c *Config) TickSeconds() float64 {
	return 1 / float64(c.Sandbox.TPS)
}

// Logger builds a zap logger at the configured level.
func (c *Config) Logger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("config: log level: %w", err)
	}
	zc := zap.NewProductionConfig()
	if c.Log.Development {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}
