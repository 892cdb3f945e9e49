package prefabs

import (
	"fmt"

	"github.com/milk9111/beastmind/anim"
	"github.com/milk9111/beastmind/creature"
	"github.com/milk9111/beastmind/player"
	"gopkg.in/yaml.v3"
)

// LoadSpec loads a YAML prefab into a fresh T.
func LoadSpec[T any](filename string) (T, error) {
	var spec T
	if err := decodeInto(filename, &spec); err != nil {
		var zero T
		return zero, err
	}
	return spec, nil
}

// decodeInto unmarshals over out, so fields missing from the file keep the
// values out already holds.
func decodeInto(filename string, out any) error {
	data, err := Load(filename)
	if err != nil {
		return fmt.Errorf("prefabs: load %s: %w", filename, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}
	return nil
}

// BodySpec sizes an agent's collision circle.
type BodySpec struct {
	Radius float64 `yaml:"radius"`
}

// CreaturePrefab is a creature type: its tunables, its animator and its
// body.
type CreaturePrefab struct {
	Creature  creature.Data `yaml:"creature"`
	Animation anim.Spec     `yaml:"animation"`
	Body      BodySpec      `yaml:"body"`
}

// LoadCreature loads a creature prefab. Tunables the file leaves out keep
// their defaults.
func LoadCreature(name string) (*CreaturePrefab, error) {
	p := &CreaturePrefab{
		Creature: creature.DefaultData(),
		Body:     BodySpec{Radius: 0.5},
	}
	if err := decodeInto(name, p); err != nil {
		return nil, err
	}
	if err := p.Creature.Validate(); err != nil {
		return nil, fmt.Errorf("prefabs: %s: %w", name, err)
	}
	if p.Body.Radius <= 0 {
		return nil, fmt.Errorf("prefabs: %s: body radius must be positive", name)
	}
	return p, nil
}

// PlayerPrefab is the player's tunables, animator and body.
type PlayerPrefab struct {
	Player    player.Stats `yaml:"player"`
	Animation anim.Spec    `yaml:"animation"`
	Body      BodySpec     `yaml:"body"`
}

// LoadPlayer loads a player prefab over the default stats.
func LoadPlayer(name string) (*PlayerPrefab, error) {
	p := &PlayerPrefab{
		Player: player.DefaultStats(),
		Body:   BodySpec{Radius: 0.4},
	}
	if err := decodeInto(name, p); err != nil {
		return nil, err
	}
	if err := p.Player.Validate(); err != nil {
		return nil, fmt.Errorf("prefabs: %s: %w", name, err)
	}
	if p.Body.Radius <= 0 {
		return nil, fmt.Errorf("prefabs: %s: body radius must be positive", name)
	}
	return p, nil
}
