package main

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/beastmind/common"
	ecscomp "github.com/milk9111/beastmind/ecs/component"
	"github.com/milk9111/beastmind/nav"
	"github.com/milk9111/beastmind/sim"
	"golang.org/x/image/colornames"
)

// camera maps the XZ ground plane onto the screen with +Z pointing up.
type camera struct {
	scale  float64
	cx, cy float64
	center common.Vec3
}

func newCamera(g *nav.Grid, w, h float64) camera {
	worldW := float64(g.Width()) * g.CellSize()
	worldD := float64(g.Depth()) * g.CellSize()
	o := g.Origin()
	return camera{
		scale:  0.95 * math.Min(w/worldW, h/worldD),
		cx:     w / 2,
		cy:     h / 2,
		center: common.Vec3{X: o.X + worldW/2, Z: o.Z + worldD/2},
	}
}

func (c camera) toScreen(p common.Vec3) (float32, float32) {
	x := c.cx + (p.X-c.center.X)*c.scale
	y := c.cy - (p.Z-c.center.Z)*c.scale
	return float32(x), float32(y)
}

func (c camera) length(d float64) float32 { return float32(d * c.scale) }

var stateColors = map[string]color.Color{
	"idle":   colornames.Seagreen,
	"patrol": colornames.Goldenrod,
	"chase":  colornames.Tomato,
}

func drawGrid(screen *ebiten.Image, cam camera, g *nav.Grid) {
	cell := cam.length(g.CellSize())
	o := g.Origin()
	x0, y0 := cam.toScreen(common.Vec3{X: o.X, Z: o.Z + float64(g.Depth())*g.CellSize()})
	vector.StrokeRect(screen, x0, y0, float32(g.Width())*cell, float32(g.Depth())*cell, 1, colornames.Slategray, false)
	for z := 0; z < g.Depth(); z++ {
		for x := 0; x < g.Width(); x++ {
			if !g.Blocked(x, z) {
				continue
			}
			// toScreen flips Z, so the cell's far edge is its top.
			sx, sy := cam.toScreen(common.Vec3{X: o.X + float64(x)*g.CellSize(), Z: o.Z + float64(z+1)*g.CellSize()})
			vector.FillRect(screen, sx, sy, cell, cell, colornames.Dimgray, false)
		}
	}
}

func drawCreature(screen *ebiten.Image, cam camera, c sim.CreatureView, showPaths bool) {
	d := c.Debug
	px, py := cam.toScreen(d.Position)

	vector.StrokeCircle(screen, px, py, cam.length(d.PatrolRadius), 1, color.RGBA{255, 255, 255, 40}, true)

	if showPaths && len(c.Path) > 0 {
		fx, fy := px, py
		for _, w := range c.Path {
			wx, wy := cam.toScreen(w)
			vector.StrokeLine(screen, fx, fy, wx, wy, 1, colornames.Lightgrey, true)
			fx, fy = wx, wy
		}
		dx, dy := cam.toScreen(d.Destination)
		vector.StrokeRect(screen, dx-2, dy-2, 4, 4, 1, colornames.Lightgrey, false)
	}
	if d.Target != nil {
		tx, ty := cam.toScreen(*d.Target)
		vector.StrokeLine(screen, px, py, tx, ty, 1, colornames.Orange, true)
	}

	clr, ok := stateColors[d.State]
	if !ok {
		clr = colornames.Plum
	}
	radius := cam.length(0.5)
	vector.FillCircle(screen, px, py, radius, clr, true)
	if d.Busy {
		vector.StrokeCircle(screen, px, py, radius+2, 2, colornames.White, true)
	}
	if c.Following {
		vector.StrokeCircle(screen, px, py, radius+5, 1, colornames.Orange, true)
	}
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%s %s\n%s", d.Kind, d.State, c.Clip), int(px)+int(radius)+4, int(py)-8)
}

func drawPlayer(screen *ebiten.Image, cam camera, p *ecscomp.Player) {
	pos := p.Character.Position()
	px, py := cam.toScreen(pos)
	radius := cam.length(0.4)

	// Airborne players draw a shadow ring that widens with height.
	if h := p.Character.Height(); h > 0.01 {
		vector.StrokeCircle(screen, px, py, radius+cam.length(h*0.25), 1, colornames.Black, true)
	}
	vector.FillCircle(screen, px, py, radius, colornames.Crimson, true)

	yaw := p.Character.Yaw()
	hx, hy := cam.toScreen(pos.Add(common.Vec3{X: math.Sin(yaw), Z: math.Cos(yaw)}))
	vector.StrokeLine(screen, px, py, hx, hy, 2, colornames.White, true)
}

func drawHUD(screen *ebiten.Image, g *Game) {
	var b strings.Builder
	fmt.Fprintf(&b, "TPS: %.1f  FPS: %.1f  tick %d  t=%.2fs\n", ebiten.ActualTPS(), ebiten.ActualFPS(), g.sim.Ticks(), g.sim.Now())
	if p := g.sim.Player(); p != nil {
		fmt.Fprintf(&b, "player %s  speed %.1f  clip %s  contacts %d\n", p.Brain.StateName(), p.Brain.CurrentSpeed(), p.Animator.Current(), p.Character.Contacts())
	}
	fmt.Fprintf(&b, "WASD move  shift run  space jump  E interact  P pause  F1 paths\n")
	for _, line := range g.events {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	ebitenutil.DebugPrint(screen, b.String())
}
