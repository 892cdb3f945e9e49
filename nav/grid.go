// Package nav is a grid navmesh: a flat walkable surface on the XZ plane
// with noise-generated obstacles, A* paths between cells, and agents that
// steer along those paths.
package nav

import (
	"errors"
	"fmt"
	"math"

	"github.com/milk9111/beastmind/common"
	"github.com/milk9111/beastmind/component"
	opensimplex "github.com/ojrac/opensimplex-go"
)

var ErrInvalidGrid = errors.New("nav: invalid grid config")

// GridConfig describes a navigable area. Cells whose noise value exceeds
// ObstacleThreshold are blocked; a threshold of 1 or more leaves the whole
// grid walkable.
type GridConfig struct {
	Width    int
	Depth    int
	CellSize float64
	// Origin is the world position of the minimum corner. Its Y is the
	// height of the walkable surface.
	Origin common.Vec3

	Seed              int64
	NoiseFrequency    float64
	NoiseOctaves      int
	ObstacleThreshold float64
}

func DefaultGridConfig() GridConfig {
	return GridConfig{
		Width:             64,
		Depth:             64,
		CellSize:          1,
		Origin:            common.Vec3{X: -32, Z: -32},
		Seed:              1,
		NoiseFrequency:    0.08,
		NoiseOctaves:      3,
		ObstacleThreshold: 0.72,
	}
}

// Grid implements component.NavMesh.
type Grid struct {
	width, depth int
	cell         float64
	origin       common.Vec3
	blocked      []bool
}

var _ component.NavMesh = (*Grid)(nil)

func NewGrid(cfg GridConfig) (*Grid, error) {
	if cfg.Width <= 0 || cfg.Depth <= 0 {
		return nil, fmt.Errorf("%w: size %dx%d", ErrInvalidGrid, cfg.Width, cfg.Depth)
	}
	if cfg.CellSize <= 0 {
		return nil, fmt.Errorf("%w: cell size %v", ErrInvalidGrid, cfg.CellSize)
	}
	g := &Grid{
		width:   cfg.Width,
		depth:   cfg.Depth,
		cell:    cfg.CellSize,
		origin:  cfg.Origin,
		blocked: make([]bool, cfg.Width*cfg.Depth),
	}
	if cfg.ObstacleThreshold < 1 {
		octaves := max(cfg.NoiseOctaves, 1)
		noise := opensimplex.NewNormalized(cfg.Seed)
		for z := 0; z < g.depth; z++ {
			for x := 0; x < g.width; x++ {
				v := octaveNoise(noise, float64(x), float64(z), octaves, cfg.NoiseFrequency, 0.5)
				g.blocked[z*g.width+x] = v > cfg.ObstacleThreshold
			}
		}
	}
	return g, nil
}

// octaveNoise layers octaves of noise, each at double the frequency.
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0
	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}
	return total / maxVal
}

func (g *Grid) Width() int        { return g.width }
func (g *Grid) Depth() int        { return g.depth }
func (g *Grid) CellSize() float64 { return g.cell }
func (g *Grid) Origin() common.Vec3 {
	return g.origin
}

// CellOf returns the cell containing p. The coordinates may lie outside the
// grid; ok reports whether they do not.
func (g *Grid) CellOf(p common.Vec3) (x, z int, ok bool) {
	x = int(math.Floor((p.X - g.origin.X) / g.cell))
	z = int(math.Floor((p.Z - g.origin.Z) / g.cell))
	return x, z, g.inBounds(x, z)
}

// Center is the surface point in the middle of cell (x, z).
func (g *Grid) Center(x, z int) common.Vec3 {
	return common.Vec3{
		X: g.origin.X + (float64(x)+0.5)*g.cell,
		Y: g.origin.Y,
		Z: g.origin.Z + (float64(z)+0.5)*g.cell,
	}
}

func (g *Grid) inBounds(x, z int) bool {
	return x >= 0 && z >= 0 && x < g.width && z < g.depth
}

// Blocked reports whether (x, z) is an obstacle. Out-of-grid cells are
// blocked.
func (g *Grid) Blocked(x, z int) bool {
	if !g.inBounds(x, z) {
		return true
	}
	return g.blocked[z*g.width+x]
}

func (g *Grid) SetBlocked(x, z int, blocked bool) {
	if g.inBounds(x, z) {
		g.blocked[z*g.width+x] = blocked
	}
}

// Walkable reports whether p is over a walkable cell.
func (g *Grid) Walkable(p common.Vec3) bool {
	x, z, ok := g.CellOf(p)
	return ok && !g.Blocked(x, z)
}

// SamplePosition returns the closest surface point to p on a walkable cell,
// provided it lies within maxDistance.
func (g *Grid) SamplePosition(p common.Vec3, maxDistance float64) (common.Vec3, bool) {
	if maxDistance < 0 {
		return common.Vec3{}, false
	}
	cx, cz, _ := g.CellOf(p)
	reach := int(math.Ceil(maxDistance/g.cell)) + 1

	best := common.Vec3{}
	bestDist := math.Inf(1)
	for z := cz - reach; z <= cz+reach; z++ {
		for x := cx - reach; x <= cx+reach; x++ {
			if g.Blocked(x, z) {
				continue
			}
			q := g.closestInCell(x, z, p)
			if d := common.Distance(p, q); d < bestDist {
				best, bestDist = q, d
			}
		}
	}
	if bestDist > maxDistance {
		return common.Vec3{}, false
	}
	return best, true
}

func (g *Grid) closestInCell(x, z int, p common.Vec3) common.Vec3 {
	minX := g.origin.X + float64(x)*g.cell
	minZ := g.origin.Z + float64(z)*g.cell
	return common.Vec3{
		X: math.Min(math.Max(p.X, minX), minX+g.cell),
		Y: g.origin.Y,
		Z: math.Min(math.Max(p.Z, minZ), minZ+g.cell),
	}
}

// WalkableCount is the number of walkable cells.
func (g *Grid) WalkableCount() int {
	n := 0
	for _, b := range g.blocked {
		if !b {
			n++
		}
	}
	return n
}
