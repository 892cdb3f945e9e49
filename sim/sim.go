// Package sim assembles a world: the navigation grid, the physics space,
// the herd and the player, and the systems that tick them.
package sim

import (
	"fmt"
	"math/rand/v2"

	"github.com/milk9111/beastmind/common"
	"github.com/milk9111/beastmind/component"
	"github.com/milk9111/beastmind/config"
	"github.com/milk9111/beastmind/creature"
	"github.com/milk9111/beastmind/ecs"
	ecscomp "github.com/milk9111/beastmind/ecs/component"
	"github.com/milk9111/beastmind/ecs/entity"
	"github.com/milk9111/beastmind/ecs/system"
	"github.com/milk9111/beastmind/nav"
	"github.com/milk9111/beastmind/physics"
	"github.com/milk9111/beastmind/prefabs"
	"go.uber.org/zap"
)

// Sim is one running sandbox world.
type Sim struct {
	cfg       *config.Config
	world     *ecs.World
	grid      *nav.Grid
	space     *physics.Space
	clock     *component.StepClock
	env       entity.Env
	scheduler *ecs.Scheduler
	player    ecs.Entity
	ticks     int
	log       *zap.Logger
}

// Options are the inputs a driver supplies besides the config.
type Options struct {
	Input system.InputReader
	// Changes feeds prefab hot-reloads; nil disables them.
	Changes <-chan prefabs.Change
	Logger  *zap.Logger
}

func New(cfg *config.Config, opts Options) (*Sim, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Input == nil {
		opts.Input = func() ecscomp.Input { return ecscomp.Input{} }
	}

	wc := cfg.World
	grid, err := nav.NewGrid(nav.GridConfig{
		Width:    wc.Width,
		Depth:    wc.Depth,
		CellSize: wc.CellSize,
		Origin: common.Vec3{
			X: -float64(wc.Width) * wc.CellSize / 2,
			Z: -float64(wc.Depth) * wc.CellSize / 2,
		},
		Seed:              int64(cfg.Sandbox.Seed),
		NoiseFrequency:    wc.NoiseFrequency,
		NoiseOctaves:      3,
		ObstacleThreshold: wc.ObstacleThreshold,
	})
	if err != nil {
		return nil, fmt.Errorf("sim: %w", err)
	}

	space := physics.NewSpace(log)
	shapes := space.AddObstacles(grid)

	s := &Sim{
		cfg:   cfg,
		world: ecs.NewWorld(),
		grid:  grid,
		space: space,
		clock: component.NewStepClock(),
		log:   log,
	}
	s.env = entity.Env{
		Grid:  grid,
		Space: space,
		Clock: s.clock,
		Rand:  rand.New(rand.NewPCG(cfg.Sandbox.Seed, cfg.Sandbox.Seed^0x9e3779b97f4a7c15)),
		Log:   log,
	}

	s.player, err = entity.NewPlayer(s.world, s.env, cfg.Player.Prefab, common.Vec3{})
	if err != nil {
		return nil, fmt.Errorf("sim: %w", err)
	}
	for _, herd := range cfg.Herd {
		for i := 0; i < herd.Count; i++ {
			if _, err := entity.NewCreature(s.world, s.env, herd.Prefab, s.randomPoint()); err != nil {
				return nil, fmt.Errorf("sim: %w", err)
			}
		}
	}

	s.scheduler = ecs.NewScheduler(
		system.NewClockSystem(s.clock, cfg.TickSeconds()),
		system.NewPrefabReloadSystem(opts.Changes, log),
		system.NewInputSystem(opts.Input),
		system.NewPlayerControllerSystem(s.clock),
		system.NewInteractionSystem(log),
		system.NewCreatureAISystem(s.clock),
		system.NewNavigationSystem(s.clock),
		system.NewPhysicsSystem(space, s.clock),
	)

	log.Info("sim: world ready",
		zap.Int("walkable", grid.WalkableCount()),
		zap.Int("walls", shapes),
		zap.Int("creatures", ecs.Count(s.world, ecscomp.CreatureComponent.Kind())))
	return s, nil
}

func (s *Sim) randomPoint() common.Vec3 {
	o := s.grid.Origin()
	return common.Vec3{
		X: o.X + s.env.Rand.Float64()*float64(s.grid.Width())*s.grid.CellSize(),
		Y: o.Y,
		Z: o.Z + s.env.Rand.Float64()*float64(s.grid.Depth())*s.grid.CellSize(),
	}
}

// Tick runs every system once and returns the events of that tick.
func (s *Sim) Tick() []ecs.Event {
	s.scheduler.Update(s.world)
	s.ticks++
	return s.world.Events().Events()
}

func (s *Sim) Ticks() int               { return s.ticks }
func (s *Sim) Now() float64             { return s.clock.Now() }
func (s *Sim) World() *ecs.World        { return s.world }
func (s *Sim) Grid() *nav.Grid          { return s.grid }
func (s *Sim) Space() *physics.Space    { return s.space }
func (s *Sim) PlayerEntity() ecs.Entity { return s.player }
func (s *Sim) Config() *config.Config   { return s.cfg }
func (s *Sim) Env() entity.Env          { return s.env }

// Player returns the player component.
func (s *Sim) Player() *ecscomp.Player {
	p, _ := ecs.Get(s.world, s.player, ecscomp.PlayerComponent.Kind())
	return p
}

// Creatures snapshots the debug view of every creature.
func (s *Sim) Creatures() []CreatureView {
	var out []CreatureView
	ecs.ForEach(s.world, ecscomp.CreatureComponent.Kind(), func(e ecs.Entity, c *ecscomp.Creature) {
		out = append(out, CreatureView{
			Entity:    e,
			Debug:     c.Brain.Debug(),
			Following: c.Following,
			Clip:      c.Animator.Current(),
			Path:      c.Nav.Path(),
		})
	})
	return out
}

// CreatureView is what an overlay or a log line shows of a creature.
type CreatureView struct {
	Entity    ecs.Entity
	Debug     creature.Debug
	Following bool
	Clip      string
	Path      []common.Vec3
}

// Close despawns every entity, closing their machines.
func (s *Sim) Close() {
	for _, e := range ecs.Entities(s.world) {
		entity.Despawn(s.world, s.env, e)
	}
}
