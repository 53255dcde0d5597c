// Package population holds the particle data model (cells and EPS), the
// index-addressed store that feeds the spatial index, and the
// growth/division/secretion rules that mutate the colony each tick.
package population

import (
	"math"
	"sync/atomic"

	"github.com/0x5844/colonysim/internal/geom"
)

// Kind tags which variant a Particle is. Pair geometry and modulus
// selection dispatch on Kind in the contact and forces packages; other
// packages also read Kind where a cell and an EPS particle differ (area,
// effective length, growth, friction, CSV row).
type Kind uint8

const (
	KindCell Kind = iota
	KindEps
)

func (k Kind) String() string {
	if k == KindEps {
		return "eps"
	}
	return "cell"
}

// CellState is the division state machine of spec.md §4.5. Meaningless
// for an Eps particle.
type CellState uint8

const (
	StateGrowing CellState = iota
	StateDividing
)

// Particle is the tagged sum of Cell and Eps described in spec.md §3 and
// §9: one struct, a Kind tag, and the union of both variants' payload
// fields. Cell-only fields (Length, State) are zero and unused on an Eps
// particle; the Eps-only field (Radius) is zero and unused on a Cell.
type Particle struct {
	ID          int64
	Kind        Kind
	Position    geom.Vec2
	Orientation geom.Vec2
	Diameter    float64 // cell: body diameter. eps: unused, use Radius.
	Length      float64 // cell only.
	Radius      float64 // eps only.
	State       CellState
}

// EffectiveLength is the integrator's L: a cell's Length, or 2*Radius for
// an Eps particle (spec.md §4.4).
func (p *Particle) EffectiveLength() float64 {
	if p.Kind == KindEps {
		return 2 * p.Radius
	}
	return p.Length
}

// EpsDiameter reports 2*Radius, matching the CSV sink's "diameter" column
// for an eps row (spec.md §6.2).
func (p *Particle) EpsDiameter() float64 {
	return 2 * p.Radius
}

// Area returns the spherocylinder surface area for a cell, or pi*r^2 for
// an Eps particle (spec.md §3, §4.5).
func (p *Particle) Area() float64 {
	if p.Kind == KindEps {
		return math.Pi * p.Radius * p.Radius
	}
	return SpherocylinderArea(p.Diameter, p.Length)
}

// SpherocylinderArea computes pi*(d/2)^2 + 2*(d/2)*(l-d), per spec.md §3.
// The cylindrical term is clamped at zero so a cell at minimum length
// (length == diameter) never reports a negative body segment.
func SpherocylinderArea(diameter, length float64) float64 {
	r := diameter / 2
	body := length - diameter
	if body < 0 {
		body = 0
	}
	return math.Pi*r*r + 2*r*body
}

// AxisEndpoints returns the endpoints of the cylindrical body segment
// (excluding the hemispherical caps), per spec.md §4.2's spherocylinder
// axis segment convention. Meaningless for an Eps particle.
func (p *Particle) AxisEndpoints() (left, right geom.Vec2) {
	body := p.Length - p.Diameter
	if body < 0 {
		body = 0
	}
	half := p.Orientation.Scale(body / 2)
	return p.Position.Sub(half), p.Position.Add(half)
}

// CapCenters returns the two hemisphere cap centres, offset by
// +/-(length/2)*orientation from the cell centre.
func (p *Particle) CapCenters() (left, right geom.Vec2) {
	half := p.Orientation.Scale(p.Length / 2)
	return p.Position.Sub(half), p.Position.Add(half)
}

// Ids are drawn from two disjoint monotonic counters, protected by atomic
// increment, so cell and EPS ids never collide across a sustained run --
// the resolved form of spec.md §9's Open Question (no id+1000/id+2000
// offset scheme, which is not conflict-free for long runs).
var (
	nextCellID int64
	nextEpsID  int64 = 9999
)

// NextCellID atomically allocates the next cell id.
func NextCellID() int64 {
	return atomic.AddInt64(&nextCellID, 1)
}

// NextEpsID atomically allocates the next EPS id, starting at 10000 per
// spec.md §3's id-space convention.
func NextEpsID() int64 {
	return atomic.AddInt64(&nextEpsID, 1)
}

// ResetIDs reseeds both id counters so the next ids allocated are
// firstCell and firstEps. Used by tests so repeated simulation runs
// within one process start from a known id space.
func ResetIDs(firstCell, firstEps int64) {
	atomic.StoreInt64(&nextCellID, firstCell-1)
	atomic.StoreInt64(&nextEpsID, firstEps-1)
}
