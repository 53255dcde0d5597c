// Package spatial implements the uniform grid hash used to turn O(N^2)
// pair work into bounded cell-neighbourhood enumeration, grounded on the
// SpatialGrid type in 0x5844/physics-2d but addressed by particle index
// rather than by pointer, per the struct-of-arrays population layout.
package spatial

import "math"

// Cell identifies one bin of the uniform grid by its integer coordinates.
type Cell struct {
	X, Y int
}

// Grid buckets particle indices by the cell containing their centre. It is
// rebuilt from scratch once per tick (single-threaded) and is read-only
// for the remainder of the tick.
type Grid struct {
	side float64
	bins map[Cell][]int
}

// New creates a Grid with the given bin side length. side should equal the
// neighbour cutoff distance (spec default: 4 length units).
func New(side float64) *Grid {
	if side <= 0 {
		side = 1
	}
	return &Grid{side: side, bins: make(map[Cell][]int)}
}

func (g *Grid) cellOf(x, y float64) Cell {
	return Cell{X: int(math.Floor(x / g.side)), Y: int(math.Floor(y / g.side))}
}

// Rebuild clears and refills every bin from the given position slices.
// O(N). Must be called after any change to particle membership or
// position, before any query.
func (g *Grid) Rebuild(xs, ys []float64) {
	for k := range g.bins {
		delete(g.bins, k)
	}
	for i := range xs {
		c := g.cellOf(xs[i], ys[i])
		g.bins[c] = append(g.bins[c], i)
	}
}

// ForEachNeighborIndex visits every index sharing the 3x3 tile block
// around particle i's cell. Self-inclusion is possible; callers filter
// j == i.
func (g *Grid) ForEachNeighborIndex(xs, ys []float64, i int, action func(j int)) {
	c := g.cellOf(xs[i], ys[i])
	g.forEachInBlock(c.X-1, c.X+1, c.Y-1, c.Y+1, action)
}

// ForEachIndexNear visits every index in the tile block whose
// circumscribed disk intersects the disk of radius r centred at (x,y).
// The tile half-width is ceil(r/side).
func (g *Grid) ForEachIndexNear(x, y, r float64, action func(j int)) {
	half := int(math.Ceil(r / g.side))
	if half < 1 {
		half = 1
	}
	c := g.cellOf(x, y)
	g.forEachInBlock(c.X-half, c.X+half, c.Y-half, c.Y+half, action)
}

func (g *Grid) forEachInBlock(x0, x1, y0, y1 int, action func(j int)) {
	for cx := x0; cx <= x1; cx++ {
		for cy := y0; cy <= y1; cy++ {
			for _, j := range g.bins[Cell{X: cx, Y: cy}] {
				action(j)
			}
		}
	}
}
