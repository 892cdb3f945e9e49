// Command simulate runs the sandbox world headless and logs every state
// transition, so tunables can be compared without opening a window.
package main

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/milk9111/beastmind/common"
	"github.com/milk9111/beastmind/config"
	"github.com/milk9111/beastmind/ecs"
	ecscomp "github.com/milk9111/beastmind/ecs/component"
	"github.com/milk9111/beastmind/prefabs"
	"github.com/milk9111/beastmind/sim"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if errors.Is(err, pflag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := config.Flags("simulate")
	autopilot := fs.Bool("autopilot", true, "walk the player in a loop, jumping and interacting")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load("", fs)
	if err != nil {
		return err
	}
	log, err := cfg.Logger()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()
	prefabs.Dir = cfg.Prefabs.Dir

	pilot := &autopilotInput{tick: cfg.TickSeconds()}
	opts := sim.Options{Logger: log}
	if *autopilot {
		opts.Input = pilot.read
	}
	s, err := sim.New(cfg, opts)
	if err != nil {
		return fmt.Errorf("simulate: build world: %w", err)
	}
	defer s.Close()

	counts := map[string]int{}
	for i := 0; i < cfg.Sandbox.Ticks; i++ {
		for _, evt := range s.Tick() {
			logEvent(log, s, evt, counts)
		}
	}

	for _, c := range s.Creatures() {
		log.Info("simulate: final",
			zap.String("creature", c.Debug.ID),
			zap.String("kind", c.Debug.Kind),
			zap.String("state", c.Debug.State),
			zap.String("clip", c.Clip),
			zap.Bool("following", c.Following))
	}
	log.Info("simulate: done",
		zap.Int("ticks", s.Ticks()),
		zap.Float64("seconds", s.Now()),
		zap.Any("transitions", counts))
	return nil
}

func logEvent(log *zap.Logger, s *sim.Sim, evt ecs.Event, counts map[string]int) {
	fields := []zap.Field{
		zap.Float64("t", s.Now()),
		zap.Stringer("entity", evt.Entity),
	}
	if a, ok := ecs.Get(s.World(), evt.Entity, ecscomp.AgentComponent.Kind()); ok {
		fields = append(fields, zap.String("agent", a.ID.String()), zap.String("prefab", a.Prefab))
	}
	switch data := evt.Data.(type) {
	case ecs.TransitionEvent:
		counts[data.Machine+":"+data.To]++
		fields = append(fields, zap.String("from", data.From), zap.String("to", data.To))
	case string:
		fields = append(fields, zap.String("detail", data))
	}
	log.Info("simulate: "+string(evt.Type), fields...)
}

// autopilotInput walks a slow circle, runs on alternate laps, jumps every
// few seconds and taps interact now and then.
type autopilotInput struct {
	tick float64
	t    float64
}

func (a *autopilotInput) read() ecscomp.Input {
	a.t += a.tick
	angle := a.t * 0.4
	lap := int(angle / (2 * math.Pi))
	return ecscomp.Input{
		Move:     common.Vec2{X: math.Cos(angle), Y: math.Sin(angle)},
		Run:      lap%2 == 1,
		Jump:     math.Mod(a.t, 4) < 0.2,
		Interact: math.Mod(a.t, 7) < 0.1,
	}
}
