package entity

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/milk9111/beastmind/anim"
	"github.com/milk9111/beastmind/common"
	"github.com/milk9111/beastmind/creature"
	"github.com/milk9111/beastmind/ecs"
	"github.com/milk9111/beastmind/ecs/component"
	"github.com/milk9111/beastmind/fsm"
	"github.com/milk9111/beastmind/nav"
	"github.com/milk9111/beastmind/prefabs"
)

// NewCreature spawns the named creature prefab at pos, snapped onto the
// walkable grid.
func NewCreature(w *ecs.World, env Env, prefab string, pos common.Vec3) (ecs.Entity, error) {
	spec, err := prefabs.LoadCreature(prefab)
	if err != nil {
		return 0, fmt.Errorf("creature: load prefab: %w", err)
	}
	return NewCreatureFromPrefab(w, env, prefab, spec, pos)
}

// NewCreatureFromPrefab spawns an already loaded prefab.
func NewCreatureFromPrefab(w *ecs.World, env Env, prefab string, spec *prefabs.CreaturePrefab, pos common.Vec3) (ecs.Entity, error) {
	if snapped, ok := env.Grid.SamplePosition(pos, float64(env.Grid.Width())*env.Grid.CellSize()); ok {
		pos = snapped
	}

	animator, err := anim.New(spec.Animation)
	if err != nil {
		return 0, fmt.Errorf("creature: %s: build animator: %w", prefab, err)
	}

	agent := nav.NewAgent(env.Grid, pos)
	body := env.Space.AddAgentBody(pos, spec.Body.Radius)
	agent.AttachBody(body)

	id := uuid.New()
	entity := ecs.CreateEntity(w)

	var brain *creature.Creature
	// fail undoes a partly built spawn.
	fail := func(err error) (ecs.Entity, error) {
		if brain != nil {
			brain.Close()
		}
		env.Space.Remove(body)
		ecs.DestroyEntity(w, entity)
		return 0, err
	}

	data := spec.Creature
	brain, err = creature.New(creature.Config{
		ID:        id.String(),
		Data:      &data,
		Agent:     agent,
		Mesh:      env.Grid,
		Transform: agent,
		Clock:     env.Clock,
		Animator:  animator,
		Scripts:   prefabs.LoadScript,
		Rand:      env.Rand,
		Logger:    env.logger(),
		OnTransition: func(from, to fsm.Kind) {
			if brain == nil {
				return
			}
			w.Events().Push(ecs.Event{
				Type:   ecs.EventTransition,
				Entity: entity,
				Data: ecs.TransitionEvent{
					Machine: brain.Data().Name,
					From:    brain.KindName(from),
					To:      brain.KindName(to),
				},
			})
		},
	})
	if err != nil {
		return fail(fmt.Errorf("creature: %s: %w", prefab, err))
	}

	env.traceClips(animator, entity)

	if err := ecs.Add(w, entity, component.AgentComponent.Kind(), &component.Agent{ID: id, Prefab: prefab}); err != nil {
		return fail(fmt.Errorf("creature: add agent: %w", err))
	}
	if err := ecs.Add(w, entity, component.CreatureComponent.Kind(), &component.Creature{
		Brain:    brain,
		Nav:      agent,
		Body:     body,
		Animator: animator,
	}); err != nil {
		return fail(fmt.Errorf("creature: add creature: %w", err))
	}
	return entity, nil
}

// Despawn closes an entity's machine and frees its physics body.
func Despawn(w *ecs.World, env Env, e ecs.Entity) bool {
	if c, ok := ecs.Get(w, e, component.CreatureComponent.Kind()); ok {
		c.Brain.Close()
		env.Space.Remove(c.Body)
	}
	if p, ok := ecs.Get(w, e, component.PlayerComponent.Kind()); ok {
		p.Brain.Close()
		env.Space.RemoveCharacter(p.Character)
	}
	return ecs.DestroyEntity(w, e)
}
