package population

import (
	"math"

	"github.com/0x5844/colonysim/internal/geom"
	"github.com/0x5844/colonysim/internal/nutrient"
	"github.com/0x5844/colonysim/internal/rng"
	"github.com/0x5844/colonysim/internal/spatial"
)

// DynamicsParams bundles the growth/division/secretion tunables of
// spec.md §4.5 and §6.1.
type DynamicsParams struct {
	GrowthRate           float64 // phi
	DivisionLength       float64 // l_c
	EpsDiameter          float64 // d_eps
	CellDensityThreshold float64 // theta_c
	EpsDensityThreshold  float64 // theta_e
	SensingRadius        float64 // R_sense
	EpsProductionRate    float64 // k_eps
	DeltaTime            float64 // dt
}

// divisionAngleSpread is the +/-8 degrees daughter orientation jitter of
// spec.md §4.5, in radians.
const divisionAngleSpread = 8.0 * (math.Pi / 180.0)

// Grow applies the Monod-modulated linear growth rule to cell p in place.
// field is read-only; only p.Length and p.State are mutated, so
// concurrent Grow calls on distinct particles need no locking.
func Grow(p *Particle, field *nutrient.Field, params DynamicsParams) {
	if p.Kind != KindCell {
		return
	}
	m := field.MonodAt(p.Position.X, p.Position.Y)
	ai := p.Area()
	r := p.Diameter / 2
	aAvg := math.Pi*r*r + 1.5*r*params.DivisionLength
	if aAvg <= 0 {
		return
	}
	dl := params.GrowthRate * (ai / aAvg) * m * params.DeltaTime
	if dl > 0 {
		p.Length += dl
	}
	if p.Length >= params.DivisionLength {
		p.State = StateDividing
	}
}

// Divide splits a mother cell staged as StateDividing into two daughters
// appended via store.StageAdd, then stages the mother's removal. The
// mother's copy passed in (a value, not a pointer into Particles) is the
// pre-division snapshot; stream supplies the two independent orientation
// jitter draws.
func Divide(motherIdx int, mother Particle, store *Store, stream *rng.Stream) {
	half := mother.Length / 2
	offset := mother.Orientation.Scale(half / 2)

	angle1 := stream.Uniform(-divisionAngleSpread, divisionAngleSpread)
	angle2 := stream.Uniform(-divisionAngleSpread, divisionAngleSpread)

	d1 := Particle{
		ID:          NextCellID(),
		Kind:        KindCell,
		Position:    mother.Position.Add(offset),
		Orientation: mother.Orientation.Rotate(angle1),
		Diameter:    mother.Diameter,
		Length:      half,
		State:       StateGrowing,
	}
	d2 := Particle{
		ID:          NextCellID(),
		Kind:        KindCell,
		Position:    mother.Position.Sub(offset),
		Orientation: mother.Orientation.Rotate(angle2),
		Diameter:    mother.Diameter,
		Length:      half,
		State:       StateGrowing,
	}

	store.StageAdd(d1)
	store.StageAdd(d2)
	store.StageRemoval(motherIdx)
}

// LocalDensities returns (rho_c, rho_e): the summed cell area and summed
// EPS area of every particle whose centre lies within radius of centre,
// using grid to enumerate candidates (spec.md §4.5).
func LocalDensities(particles []Particle, grid *spatial.Grid, centre geom.Vec2, radius float64) (rhoC, rhoE float64) {
	r2 := radius * radius
	grid.ForEachIndexNear(centre.X, centre.Y, radius, func(j int) {
		p := &particles[j]
		if p.Position.DistanceSquared(centre) > r2 {
			return
		}
		if p.Kind == KindCell {
			rhoC += p.Area()
		} else {
			rhoE += p.Area()
		}
	})
	return rhoC, rhoE
}

// SecretionEligible reports whether a cell at the given local densities is
// eligible to secrete EPS (rho_c >= theta_c and rho_e < theta_e).
func SecretionEligible(rhoC, rhoE float64, params DynamicsParams) bool {
	return rhoC >= params.CellDensityThreshold && rhoE < params.EpsDensityThreshold
}

// TrySecrete runs the eligibility Bernoulli trial (success probability
// k_eps/10, preserving the source's literal, dt-untied form per spec.md
// §9's resolved Open Question) and, on success, stages a new EPS particle
// at a uniformly random angle offset d_eps from the cell centre.
func TrySecrete(cell *Particle, store *Store, params DynamicsParams, stream *rng.Stream) {
	if !stream.Bernoulli(params.EpsProductionRate / 10) {
		return
	}
	angle := stream.Uniform(0, 2*math.Pi)
	dir := geom.New(1, 0).Rotate(angle)
	pos := cell.Position.Add(dir.Scale(params.EpsDiameter))

	store.StageAdd(Particle{
		ID:          NextEpsID(),
		Kind:        KindEps,
		Position:    pos,
		Orientation: dir,
		Radius:      params.EpsDiameter / 2,
	})
}
