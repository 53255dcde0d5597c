// Package nutrient implements the 2D scalar nutrient field of spec.md
// §4.6: explicit finite-difference diffusion with Monod-limited
// consumption proportional to local cell area, no-flux boundaries, and
// ping-pong buffering. The grid layout follows the row-major ByteGrid
// convention in mad-ca's internal/core/grid.go, generalized to float64
// concentrations and to a non-toroidal, no-flux domain.
package nutrient

// Field is a regular Gw x Gh grid with physical spacing (dx, dy) and
// origin (0,0).
type Field struct {
	Gw, Gh int
	Dx, Dy float64

	D  float64 // diffusion coefficient
	R  float64 // consumption rate
	C0 float64 // initial concentration

	curr, next, area []float64
}

// New allocates a field initialised to C0 everywhere.
func New(gw, gh int, dx, dy, d, r, c0 float64) *Field {
	if gw < 1 {
		gw = 1
	}
	if gh < 1 {
		gh = 1
	}
	f := &Field{
		Gw: gw, Gh: gh, Dx: dx, Dy: dy,
		D: d, R: r, C0: c0,
		curr: make([]float64, gw*gh),
		next: make([]float64, gw*gh),
		area: make([]float64, gw*gh),
	}
	for i := range f.curr {
		f.curr[i] = c0
	}
	return f
}

func (f *Field) index(i, j int) int { return j*f.Gw + i }

// ConcentrationAt returns C[i,j], or 0 if out of bounds.
func (f *Field) ConcentrationAt(i, j int) float64 {
	if i < 0 || i >= f.Gw || j < 0 || j >= f.Gh {
		return 0
	}
	return f.curr[f.index(i, j)]
}

// NearestNode maps a physical (x,y) to the nearest grid node.
func (f *Field) NearestNode(x, y float64) (i, j int) {
	i = int(roundHalfAwayFromZero(x / f.Dx))
	j = int(roundHalfAwayFromZero(y / f.Dy))
	return i, j
}

func roundHalfAwayFromZero(x float64) float64 {
	if x >= 0 {
		return float64(int(x + 0.5))
	}
	return float64(int(x - 0.5))
}

// InBounds reports whether grid coordinates (i,j) lie within the field.
func (f *Field) InBounds(i, j int) bool {
	return i >= 0 && i < f.Gw && j >= 0 && j < f.Gh
}

// MonodAt samples the Monod factor C/(1+C) at the nearest node to (x,y).
// A sample outside the grid returns 0, per spec.md §4.6's GridOutOfBounds
// policy.
func (f *Field) MonodAt(x, y float64) float64 {
	i, j := f.NearestNode(x, y)
	if !f.InBounds(i, j) {
		return 0
	}
	c := f.curr[f.index(i, j)]
	return c / (1 + c)
}

// ResetArea zeroes the auxiliary area-accumulation grid. Called
// single-threaded before area accumulation and the FD step each tick.
func (f *Field) ResetArea() {
	for i := range f.area {
		f.area[i] = 0
	}
}

// AccumulateArea adds areaContribution to the cell nearest (x,y). Skipped
// (GridOutOfBounds) when the point maps outside the grid.
func (f *Field) AccumulateArea(x, y, areaContribution float64) {
	i, j := f.NearestNode(x, y)
	if !f.InBounds(i, j) {
		return
	}
	f.area[f.index(i, j)] += areaContribution
}

// DiffuseRow advances one interior row (1 <= j <= Gh-2) of the FD update
// into the next buffer, writing C'[i,j] for 1 <= i <= Gw-2. Workers own
// disjoint rows, so this may be called concurrently across rows without
// locking.
func (f *Field) DiffuseRow(j int, dt float64) {
	if j < 1 || j > f.Gh-2 {
		return
	}
	dx2 := f.Dx * f.Dx
	dy2 := f.Dy * f.Dy
	for i := 1; i <= f.Gw-2; i++ {
		idx := f.index(i, j)
		c := f.curr[idx]
		lap := (f.curr[f.index(i+1, j)] - 2*c + f.curr[f.index(i-1, j)]) / dx2
		lap += (f.curr[f.index(i, j+1)] - 2*c + f.curr[f.index(i, j-1)]) / dy2

		consumption := f.R * f.area[idx] * c / (1 + c)
		cNext := c + dt*(f.D*lap-consumption)
		if cNext < 0 {
			cNext = 0
		}
		f.next[idx] = cNext
	}
}

// ApplyNoFluxBoundaries mirrors the first interior layer of the current
// buffer onto the boundary of the next buffer (Neumann condition), per
// spec.md §4.6 step 3: C'[i,0] = C[i,1], reading the pre-step field, not
// the freshly diffused one. Single-threaded; run after all interior rows
// have been diffused.
func (f *Field) ApplyNoFluxBoundaries() {
	for i := 0; i < f.Gw; i++ {
		f.next[f.index(i, 0)] = f.boundarySource(i, 0, i, 1)
		f.next[f.index(i, f.Gh-1)] = f.boundarySource(i, f.Gh-1, i, f.Gh-2)
	}
	for j := 0; j < f.Gh; j++ {
		f.next[f.index(0, j)] = f.boundarySource(0, j, 1, j)
		f.next[f.index(f.Gw-1, j)] = f.boundarySource(f.Gw-1, j, f.Gw-2, j)
	}
}

// boundarySource mirrors the interior neighbour's current (pre-step)
// value, falling back to the boundary cell's own current value for a
// single-row/column grid where no interior neighbour exists.
func (f *Field) boundarySource(bi, bj, ii, ij int) float64 {
	if !f.InBounds(ii, ij) || (ii == bi && ij == bj) {
		return f.curr[f.index(bi, bj)]
	}
	return f.curr[f.index(ii, ij)]
}

// Swap performs the ping-pong buffer swap, making the freshly computed
// next buffer the current one. Run single-threaded by the driver.
func (f *Field) Swap() {
	f.curr, f.next = f.next, f.curr
}

// TotalMass returns the sum of concentration over every cell, used by
// the driver's mean-concentration statistic.
func (f *Field) TotalMass() float64 {
	var sum float64
	for _, c := range f.curr {
		sum += c
	}
	return sum
}

// InteriorRows returns the indices of the interior rows eligible for
// DiffuseRow, for callers partitioning work across workers.
func (f *Field) InteriorRows() []int {
	rows := make([]int, 0, f.Gh-2)
	for j := 1; j <= f.Gh-2; j++ {
		rows = append(rows, j)
	}
	return rows
}
