// Package ecs is a small sparse-set entity component system. Components are
// stored by pointer, one set per component kind.
package ecs

import "github.com/milk9111/beastmind/ecs/component"

// World owns entities, their components and a per-tick event queue.
type World struct {
	gens  []generation
	alive []bool
	free  []entityID

	stores map[component.ComponentID]store
	events EventQueue
}

// NewWorld creates an empty world. Slot 0 is reserved so the zero Entity is
// never valid.
func NewWorld() *World {
	return &World{
		gens:   []generation{0},
		alive:  []bool{false},
		stores: make(map[component.ComponentID]store),
	}
}

// CreateEntity allocates an entity, reusing a freed slot when one exists.
func CreateEntity(w *World) Entity {
	var id entityID
	if n := len(w.free); n > 0 {
		id = w.free[n-1]
		w.free = w.free[:n-1]
	} else {
		id = entityID(len(w.gens))
		w.gens = append(w.gens, 0)
		w.alive = append(w.alive, false)
	}
	w.alive[id] = true
	return makeEntity(id, w.gens[id])
}

// DestroyEntity drops e and all of its components. It reports false for a
// dead or stale handle.
func DestroyEntity(w *World, e Entity) bool {
	if !IsAlive(w, e) {
		return false
	}
	id := e.id()
	for _, s := range w.stores {
		s.remove(id)
	}
	w.alive[id] = false
	w.gens[id]++
	w.free = append(w.free, id)
	return true
}

// IsAlive reports whether e refers to a live entity.
func IsAlive(w *World, e Entity) bool {
	if w == nil || !e.Valid() {
		return false
	}
	id := e.id()
	if int(id) >= len(w.gens) {
		return false
	}
	return w.alive[id] && w.gens[id] == e.generation()
}

// Entities lists the live entities in slot order.
func Entities(w *World) []Entity {
	if w == nil {
		return nil
	}
	out := make([]Entity, 0, len(w.gens))
	for id := 1; id < len(w.gens); id++ {
		if w.alive[id] {
			out = append(out, makeEntity(entityID(id), w.gens[id]))
		}
	}
	return out
}

// Events returns the world's event queue.
func (w *World) Events() *EventQueue {
	if w == nil {
		return nil
	}
	return &w.events
}

func (w *World) entityOf(id entityID) Entity {
	return makeEntity(id, w.gens[id])
}
