package system

import (
	"math"

	"github.com/milk9111/beastmind/common"
	"github.com/milk9111/beastmind/ecs"
	ecscomp "github.com/milk9111/beastmind/ecs/component"
	"go.uber.org/zap"
)

// InteractionSystem lets the player recruit a creature as a follower. The
// interact press toggles the nearest creature within its interaction
// radius; a follower left further behind than the player's leash factor
// times that radius loses its target.
type InteractionSystem struct {
	log *zap.Logger
}

func NewInteractionSystem(log *zap.Logger) *InteractionSystem {
	if log == nil {
		log = zap.NewNop()
	}
	return &InteractionSystem{log: log}
}

func (s *InteractionSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	pe, ok := ecs.First(w, ecscomp.PlayerComponent.Kind())
	if !ok {
		return
	}
	p, _ := ecs.Get(w, pe, ecscomp.PlayerComponent.Kind())
	in, _ := ecs.Get(w, pe, ecscomp.InputComponent.Kind())
	pos := p.Character.Position()
	leash := p.Brain.Stats().LeashFactor

	if in != nil && in.InteractPressed {
		if e, c, ok := nearestInReach(w, pos); ok {
			if c.Following {
				s.release(w, e, c, "dismissed")
			} else {
				c.Brain.OnTargetAcquired(p.Character)
				c.Following = true
				w.Events().Push(ecs.Event{Type: ecs.EventTargetAcquired, Entity: e})
				s.log.Debug("interaction: creature following", zap.String("creature", c.Brain.ID()))
			}
		}
	}

	ecs.ForEach(w, ecscomp.CreatureComponent.Kind(), func(e ecs.Entity, c *ecscomp.Creature) {
		if !c.Following {
			return
		}
		if flatDistance(pos, c.Nav.Position()) > leash*c.Brain.Data().InteractionRadius {
			s.release(w, e, c, "out of range")
		}
	})
}

func (s *InteractionSystem) release(w *ecs.World, e ecs.Entity, c *ecscomp.Creature, reason string) {
	c.Brain.OnTargetLost()
	c.Following = false
	w.Events().Push(ecs.Event{Type: ecs.EventTargetLost, Entity: e})
	s.log.Debug("interaction: creature released",
		zap.String("creature", c.Brain.ID()), zap.String("reason", reason))
}

func nearestInReach(w *ecs.World, pos common.Vec3) (ecs.Entity, *ecscomp.Creature, bool) {
	var (
		best     ecs.Entity
		bestComp *ecscomp.Creature
		bestDist = math.Inf(1)
	)
	ecs.ForEach(w, ecscomp.CreatureComponent.Kind(), func(e ecs.Entity, c *ecscomp.Creature) {
		d := flatDistance(pos, c.Nav.Position())
		if d <= c.Brain.Data().InteractionRadius && d < bestDist {
			best, bestComp, bestDist = e, c, d
		}
	})
	return best, bestComp, bestComp != nil
}

func flatDistance(a, b common.Vec3) float64 {
	return common.Distance(a.Flat(), b.Flat())
}
