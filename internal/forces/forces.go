// Package forces computes the per-particle force and torque kernels of
// spec.md §4.3: repulsion (Hertzian soft contact), motility, random
// thermal noise, and repulsive torque. Each kernel is side-effect free
// and operates over a focal particle and its neighbourhood, mirroring the
// shape of 0x5844/physics-2d's ApplyForce/ApplyImpulse accumulation but
// without mutation -- callers sum the returned vectors into their own
// scratch arrays.
package forces

import (
	"math"

	"github.com/0x5844/colonysim/internal/contact"
	"github.com/0x5844/colonysim/internal/geom"
	"github.com/0x5844/colonysim/internal/population"
	"github.com/0x5844/colonysim/internal/rng"
)

// Moduli bundles the elastic moduli selected by pair type in the
// repulsion kernel (spec.md §4.3).
type Moduli struct {
	CellCell          float64 // E_cc
	EpsEps            float64 // E_ee
	EpsCell           float64 // E_ec
	Fallback          float64 // E_r
	ReferenceDiameter float64 // d0, the configured reference contact diameter
}

func (m Moduli) modulusFor(a, b *population.Particle) float64 {
	switch {
	case a.Kind == population.KindCell && b.Kind == population.KindCell:
		return m.CellCell
	case a.Kind == population.KindEps && b.Kind == population.KindEps:
		return m.EpsEps
	case a.Kind != b.Kind:
		return m.EpsCell
	default:
		return m.Fallback
	}
}

// Repulsion returns the Hertzian soft-contact force on particle a from
// neighbour b, and the overlap h (<=0 means no contact, force is zero).
// n_hat points from b's centre to a's centre.
func Repulsion(a, b *population.Particle, mod Moduli) (force geom.Vec2, overlap float64, normal, point geom.Vec2) {
	d := contact.MinDistance(a, b)
	h := mod.ReferenceDiameter - d
	if h <= 0 {
		return geom.Vec2{}, h, geom.Vec2{}, geom.Vec2{}
	}

	sep := a.Position.Distance(b.Position)
	var n geom.Vec2
	if sep <= contact.Epsilon {
		n = geom.New(1, 0)
	} else {
		n = a.Position.Sub(b.Position).Scale(1 / sep)
	}

	e := mod.modulusFor(a, b)
	mag := e * math.Sqrt(mod.ReferenceDiameter) * math.Pow(h, 1.5)
	force = n.Scale(mag)
	point = contact.ContactPoint(a, b)
	return force, h, n, point
}

// Motility returns the constant-magnitude self-propulsion force along a
// cell's current orientation. Zero for an Eps particle.
func Motility(p *population.Particle, mu float64) geom.Vec2 {
	if p.Kind != population.KindCell {
		return geom.Vec2{}
	}
	return p.Orientation.Scale(mu)
}

// Random draws an independent uniform thermal force, each component in
// [-0.001, 0.001], from the supplied thread-local stream.
func Random(stream *rng.Stream) geom.Vec2 {
	return geom.New(stream.Uniform(-0.001, 0.001), stream.Uniform(-0.001, 0.001))
}

// RepulsiveTorque returns the scalar torque (positive = counter-clockwise)
// that the repulsion force from neighbour b exerts on a about a's
// centre: tau = lever x F, lever = contactPoint - centre_a.
func RepulsiveTorque(centre geom.Vec2, contactPoint geom.Vec2, force geom.Vec2) float64 {
	lever := contactPoint.Sub(centre)
	return lever.Cross(force)
}
