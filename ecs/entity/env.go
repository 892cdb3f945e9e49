// Package entity builds creature and player entities from prefabs.
package entity

import (
	"math/rand/v2"

	"github.com/milk9111/beastmind/anim"
	"github.com/milk9111/beastmind/component"
	"github.com/milk9111/beastmind/ecs"
	"github.com/milk9111/beastmind/nav"
	"github.com/milk9111/beastmind/physics"
	"go.uber.org/zap"
)

// Env is the shared simulation every spawned entity is wired into.
type Env struct {
	Grid  *nav.Grid
	Space *physics.Space
	Clock component.Clock
	Rand  *rand.Rand
	Log   *zap.Logger
}

func (e Env) logger() *zap.Logger {
	if e.Log == nil {
		return zap.NewNop()
	}
	return e.Log
}

// traceClips logs the clip switches of an entity's animator.
func (e Env) traceClips(a *anim.Animator, entity ecs.Entity) {
	log := e.logger()
	a.OnEvent(func(_ *anim.Animator, evt anim.Event) {
		if evt.Type != anim.EventClipChanged {
			return
		}
		log.Debug("anim: clip changed",
			zap.Stringer("entity", entity),
			zap.String("from", evt.Previous),
			zap.String("to", evt.Clip))
	})
}
