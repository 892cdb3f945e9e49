package main

import (
	"fmt"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/beastmind/config"
	"github.com/milk9111/beastmind/ecs"
	"github.com/milk9111/beastmind/sim"
	"go.uber.org/zap"
	"golang.org/x/image/colornames"
)

// recentEvents is how many event lines the HUD keeps.
const recentEvents = 8

// Game drives one sim per frame and draws the debug view of it.
type Game struct {
	cfg  *config.Config
	opts sim.Options
	log  *zap.Logger

	sim    *sim.Sim
	frames int

	paused    bool
	stepOnce  bool
	showPaths bool
	pauseUI   *ebitenui.UI

	events []string
}

func NewGame(cfg *config.Config, opts sim.Options) (*Game, error) {
	s, err := sim.New(cfg, opts)
	if err != nil {
		return nil, err
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	g := &Game{
		cfg:       cfg,
		opts:      opts,
		log:       log,
		sim:       s,
		showPaths: true,
	}
	g.pauseUI = NewPauseUI(g)
	return g, nil
}

func (g *Game) Update() error {
	g.frames++

	if inpututil.IsKeyJustPressed(ebiten.KeyP) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		g.showPaths = !g.showPaths
	}

	if g.paused {
		g.pauseUI.Update()
		if g.stepOnce {
			g.stepOnce = false
			g.tick()
		}
		return nil
	}
	g.tick()
	return nil
}

func (g *Game) tick() {
	for _, evt := range g.sim.Tick() {
		g.record(evt)
	}
}

func (g *Game) record(evt ecs.Event) {
	line := fmt.Sprintf("%6.2f %s %s", g.sim.Now(), evt.Entity, evt.Type)
	switch data := evt.Data.(type) {
	case ecs.TransitionEvent:
		line = fmt.Sprintf("%6.2f %s %s %s->%s", g.sim.Now(), evt.Entity, data.Machine, data.From, data.To)
	case string:
		line += " " + data
	}
	g.log.Debug("sandbox: event", zap.String("line", line))
	g.events = append(g.events, line)
	if len(g.events) > recentEvents {
		g.events = g.events[len(g.events)-recentEvents:]
	}
}

// Reset rebuilds the world from the config, reloading every prefab.
func (g *Game) Reset() error {
	s, err := sim.New(g.cfg, g.opts)
	if err != nil {
		return err
	}
	g.sim.Close()
	g.sim = s
	g.events = nil
	g.log.Info("sandbox: world reset")
	return nil
}

func (g *Game) Close() { g.sim.Close() }

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colornames.Darkslategray)
	w, h := g.layoutSize()
	cam := newCamera(g.sim.Grid(), w, h)
	drawGrid(screen, cam, g.sim.Grid())
	for _, c := range g.sim.Creatures() {
		drawCreature(screen, cam, c, g.showPaths)
	}
	if p := g.sim.Player(); p != nil {
		drawPlayer(screen, cam, p)
	}
	drawHUD(screen, g)

	if g.paused {
		g.pauseUI.Draw(screen)
	}
}

func (g *Game) layoutSize() (float64, float64) {
	return float64(g.cfg.Sandbox.Width), float64(g.cfg.Sandbox.Height)
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return g.layoutSize()
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
