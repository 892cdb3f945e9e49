package system

import (
	"path/filepath"
	"strings"

	"github.com/milk9111/beastmind/creature"
	"github.com/milk9111/beastmind/ecs"
	ecscomp "github.com/milk9111/beastmind/ecs/component"
	"github.com/milk9111/beastmind/player"
	"github.com/milk9111/beastmind/prefabs"
	"go.uber.org/zap"
)

// PrefabReloadSystem applies edited prefabs between ticks. Every creature
// built from an edited prefab gets the same new bundle; a script edit
// rebuilds the strategies of the creatures that run it.
type PrefabReloadSystem struct {
	changes <-chan prefabs.Change
	log     *zap.Logger
}

func NewPrefabReloadSystem(changes <-chan prefabs.Change, log *zap.Logger) *PrefabReloadSystem {
	if log == nil {
		log = zap.NewNop()
	}
	return &PrefabReloadSystem{changes: changes, log: log}
}

func (s *PrefabReloadSystem) Update(w *ecs.World) {
	if w == nil || s.changes == nil {
		return
	}
	for {
		select {
		case change, ok := <-s.changes:
			if !ok {
				s.changes = nil
				return
			}
			s.apply(w, change)
		default:
			return
		}
	}
}

func (s *PrefabReloadSystem) apply(w *ecs.World, change prefabs.Change) {
	switch change.Kind {
	case prefabs.ChangeSpec:
		s.reloadSpec(w, strings.TrimSuffix(change.Name, filepath.Ext(change.Name)))
	case prefabs.ChangeScript:
		s.reloadScript(w, change.Name)
	}
}

func (s *PrefabReloadSystem) reloadSpec(w *ecs.World, name string) {
	log := s.log.With(zap.String("prefab", name))

	var (
		shared *creature.Data
		failed bool
	)
	ecs.ForEach2(w, ecscomp.AgentComponent.Kind(), ecscomp.CreatureComponent.Kind(), func(e ecs.Entity, a *ecscomp.Agent, c *ecscomp.Creature) {
		if a.Prefab != name || failed {
			return
		}
		if shared == nil {
			spec, err := prefabs.LoadCreature(name)
			if err != nil {
				failed = true
				log.Warn("reload: creature prefab rejected", zap.Error(err))
				return
			}
			shared = &spec.Creature
		}
		if err := c.Brain.SetData(shared); err != nil {
			log.Warn("reload: creature data rejected", zap.Error(err))
			return
		}
		w.Events().Push(ecs.Event{Type: ecs.EventReloaded, Entity: e, Data: name})
	})

	var stats *player.Stats
	failed = false
	ecs.ForEach2(w, ecscomp.AgentComponent.Kind(), ecscomp.PlayerComponent.Kind(), func(e ecs.Entity, a *ecscomp.Agent, p *ecscomp.Player) {
		if a.Prefab != name || failed {
			return
		}
		if stats == nil {
			spec, err := prefabs.LoadPlayer(name)
			if err != nil {
				failed = true
				log.Warn("reload: player prefab rejected", zap.Error(err))
				return
			}
			stats = &spec.Player
		}
		if err := p.Brain.SetStats(stats); err != nil {
			log.Warn("reload: player stats rejected", zap.Error(err))
			return
		}
		w.Events().Push(ecs.Event{Type: ecs.EventReloaded, Entity: e, Data: name})
	})
}

func (s *PrefabReloadSystem) reloadScript(w *ecs.World, name string) {
	ecs.ForEach(w, ecscomp.CreatureComponent.Kind(), func(e ecs.Entity, c *ecscomp.Creature) {
		d := c.Brain.Data()
		if d.IdleStrategy != creature.IdleScripted || filepath.Base(d.IdleScript) != name {
			return
		}
		if err := c.Brain.SetData(d); err != nil {
			s.log.Warn("reload: idle script rejected", zap.String("script", name), zap.Error(err))
			return
		}
		w.Events().Push(ecs.Event{Type: ecs.EventReloaded, Entity: e, Data: name})
	})
}
