package entity

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/milk9111/beastmind/anim"
	"github.com/milk9111/beastmind/common"
	"github.com/milk9111/beastmind/ecs"
	"github.com/milk9111/beastmind/ecs/component"
	"github.com/milk9111/beastmind/fsm"
	"github.com/milk9111/beastmind/player"
	"github.com/milk9111/beastmind/prefabs"
)

// NewPlayer spawns the player prefab at pos with an input component.
func NewPlayer(w *ecs.World, env Env, prefab string, pos common.Vec3) (ecs.Entity, error) {
	spec, err := prefabs.LoadPlayer(prefab)
	if err != nil {
		return 0, fmt.Errorf("player: load prefab: %w", err)
	}
	return NewPlayerFromPrefab(w, env, prefab, spec, pos)
}

// NewPlayerFromPrefab spawns an already loaded player prefab.
func NewPlayerFromPrefab(w *ecs.World, env Env, prefab string, spec *prefabs.PlayerPrefab, pos common.Vec3) (ecs.Entity, error) {
	animator, err := anim.New(spec.Animation)
	if err != nil {
		return 0, fmt.Errorf("player: %s: build animator: %w", prefab, err)
	}
	if snapped, ok := env.Grid.SamplePosition(pos, float64(env.Grid.Width())*env.Grid.CellSize()); ok {
		pos = snapped
	}
	character := env.Space.NewCharacter(pos, spec.Body.Radius)

	entity := ecs.CreateEntity(w)
	var brain *player.Player
	// fail undoes a partly built spawn.
	fail := func(err error) (ecs.Entity, error) {
		if brain != nil {
			brain.Close()
		}
		env.Space.RemoveCharacter(character)
		ecs.DestroyEntity(w, entity)
		return 0, err
	}

	stats := spec.Player
	brain, err = player.New(player.Config{
		Stats:      &stats,
		Controller: character,
		Transform:  character,
		Clock:      env.Clock,
		Animator:   animator,
		Logger:     env.logger(),
		OnTransition: func(from, to fsm.Kind) {
			if brain == nil {
				return
			}
			w.Events().Push(ecs.Event{
				Type:   ecs.EventTransition,
				Entity: entity,
				Data: ecs.TransitionEvent{
					Machine: brain.Stats().Name,
					From:    brain.KindName(from),
					To:      brain.KindName(to),
				},
			})
		},
	})
	if err != nil {
		return fail(fmt.Errorf("player: %s: %w", prefab, err))
	}

	env.traceClips(animator, entity)

	if err := ecs.Add(w, entity, component.AgentComponent.Kind(), &component.Agent{ID: uuid.New(), Prefab: prefab}); err != nil {
		return fail(fmt.Errorf("player: add agent: %w", err))
	}
	if err := ecs.Add(w, entity, component.PlayerComponent.Kind(), &component.Player{
		Brain:     brain,
		Character: character,
		Animator:  animator,
	}); err != nil {
		return fail(fmt.Errorf("player: add player: %w", err))
	}
	if err := ecs.Add(w, entity, component.InputComponent.Kind(), &component.Input{}); err != nil {
		return fail(fmt.Errorf("player: add input: %w", err))
	}
	return entity, nil
}
