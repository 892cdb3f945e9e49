package nav

import (
	"container/heap"
	"math"

	"github.com/milk9111/beastmind/common"
)

// Cell is a grid coordinate.
type Cell struct {
	X, Z int
}

// maxSearchNodes bounds a single search.
const maxSearchNodes = 1 << 14

// FindPath returns waypoints from near `from` to `to`: the centers of the
// intermediate cells followed by `to` itself. It fails when either end is
// off the walkable surface or no route exists.
func (g *Grid) FindPath(from, to common.Vec3) ([]common.Vec3, bool) {
	sx, sz, ok := g.CellOf(from)
	if !ok || g.Blocked(sx, sz) {
		return nil, false
	}
	gx, gz, ok := g.CellOf(to)
	if !ok || g.Blocked(gx, gz) {
		return nil, false
	}
	cells := g.astar(Cell{sx, sz}, Cell{gx, gz})
	if cells == nil {
		return nil, false
	}
	goal := common.Vec3{X: to.X, Y: g.origin.Y, Z: to.Z}
	path := make([]common.Vec3, 0, len(cells))
	for _, c := range cells[1:] {
		path = append(path, g.Center(c.X, c.Z))
	}
	if len(path) > 0 {
		path[len(path)-1] = goal
	} else {
		path = append(path, goal)
	}
	return path, true
}

// astar runs an 8-way search. Diagonal steps may not cut a blocked corner.
func (g *Grid) astar(start, goal Cell) []Cell {
	n := g.width * g.depth
	startIdx := start.Z*g.width + start.X
	goalIdx := goal.Z*g.width + goal.X

	cameFrom := make([]int, n)
	for i := range cameFrom {
		cameFrom[i] = -1
	}
	gScore := make([]float64, n)
	for i := range gScore {
		gScore[i] = math.Inf(1)
	}
	closed := make([]bool, n)

	open := &openSet{}
	heap.Init(open)
	gScore[startIdx] = 0
	heap.Push(open, &openItem{cell: start, f: octile(start, goal)})

	processed := 0
	for open.Len() > 0 && processed < maxSearchNodes {
		cur := heap.Pop(open).(*openItem).cell
		curIdx := cur.Z*g.width + cur.X
		if closed[curIdx] {
			continue
		}
		closed[curIdx] = true
		processed++

		if curIdx == goalIdx {
			return reconstructPath(cameFrom, g.width, startIdx, goalIdx)
		}

		for _, d := range directions {
			nx, nz := cur.X+d.X, cur.Z+d.Z
			if g.Blocked(nx, nz) {
				continue
			}
			step := 1.0
			if d.X != 0 && d.Z != 0 {
				if g.Blocked(cur.X+d.X, cur.Z) || g.Blocked(cur.X, cur.Z+d.Z) {
					continue
				}
				step = math.Sqrt2
			}
			idx := nz*g.width + nx
			tentative := gScore[curIdx] + step
			if tentative < gScore[idx] {
				cameFrom[idx] = curIdx
				gScore[idx] = tentative
				next := Cell{nx, nz}
				heap.Push(open, &openItem{cell: next, f: tentative + octile(next, goal)})
			}
		}
	}
	return nil
}

var directions = []Cell{
	{1, 0}, {-1, 0}, {0, 1}, {0, -1},
	{1, 1}, {1, -1}, {-1, 1}, {-1, -1},
}

func reconstructPath(cameFrom []int, width, startIdx, goalIdx int) []Cell {
	if startIdx == goalIdx {
		return []Cell{{startIdx % width, startIdx / width}}
	}
	if cameFrom[goalIdx] == -1 {
		return nil
	}
	path := make([]Cell, 0, 32)
	for cur := goalIdx; cur != -1; cur = cameFrom[cur] {
		path = append(path, Cell{cur % width, cur / width})
		if cur == startIdx {
			break
		}
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

func octile(a, b Cell) float64 {
	dx := math.Abs(float64(a.X - b.X))
	dz := math.Abs(float64(a.Z - b.Z))
	return dx + dz + (math.Sqrt2-2)*math.Min(dx, dz)
}

type openItem struct {
	cell  Cell
	f     float64
	index int
}

type openSet []*openItem

func (o openSet) Len() int           { return len(o) }
func (o openSet) Less(i, j int) bool { return o[i].f < o[j].f }
func (o openSet) Swap(i, j int) {
	o[i], o[j] = o[j], o[i]
	o[i].index = i
	o[j].index = j
}
func (o *openSet) Push(x any) {
	item := x.(*openItem)
	item.index = len(*o)
	*o = append(*o, item)
}
func (o *openSet) Pop() any {
	old := *o
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*o = old[:n-1]
	return item
}
