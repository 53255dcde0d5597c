// Package contact computes per-pair minimum distance and contact points
// for {rod,rod}, {rod,sphere}, {sphere,sphere} particle pairs, dispatched
// by population.Kind.
package contact

import (
	"math"

	"github.com/0x5844/colonysim/internal/geom"
	"github.com/0x5844/colonysim/internal/population"
)

// Epsilon is the coincident-centre tolerance used throughout the package.
const Epsilon = 1e-9

// Contact is the ephemeral per-pair record of spec.md §3. It is
// constructed on the stack and never persisted.
type Contact struct {
	A, B    int
	Overlap float64 // h = d0 - minDistance; negative/zero means no contact
	Normal  geom.Vec2
	Point   geom.Vec2
}

// MinDistance returns the shortest surface-to-surface distance between a
// and b, clamped to >= 0.
func MinDistance(a, b *population.Particle) float64 {
	switch {
	case a.Kind == population.KindEps && b.Kind == population.KindEps:
		return sphereSphereDistance(a, b)
	case a.Kind == population.KindCell && b.Kind == population.KindCell:
		return rodRodDistance(a, b)
	case a.Kind == population.KindEps:
		return sphereRodDistance(a, b)
	default:
		return sphereRodDistance(b, a)
	}
}

// ContactPoint returns a representative point on the contact manifold
// between a and b.
func ContactPoint(a, b *population.Particle) geom.Vec2 {
	switch {
	case a.Kind == population.KindEps && b.Kind == population.KindEps:
		return sphereSpherePoint(a, b)
	case a.Kind == population.KindCell && b.Kind == population.KindCell:
		return rodRodPoint(a, b)
	case a.Kind == population.KindEps:
		return sphereRodPoint(a, b)
	default:
		return sphereRodPoint(b, a)
	}
}

// --- sphere/sphere ---

func sphereSphereDistance(a, b *population.Particle) float64 {
	d := a.Position.Distance(b.Position)
	return math.Max(0, d-(a.Radius+b.Radius))
}

func sphereSpherePoint(a, b *population.Particle) geom.Vec2 {
	d := a.Position.Distance(b.Position)
	if d <= Epsilon {
		return a.Position
	}
	n := a.Position.Sub(b.Position).Scale(1 / d)
	return a.Position.Sub(n.Scale(a.Radius))
}

// --- sphere/rod ---
// sphere is particle a (the KindEps one), rod is particle b (KindCell).

func sphereRodDistance(sphere, rod *population.Particle) float64 {
	left, right := rod.AxisEndpoints()
	q := geom.ClosestPointOnSegment(sphere.Position, left, right)
	capL, capR := rod.CapCenters()

	dAxis := sphere.Position.Distance(q)
	dCapL := sphere.Position.Distance(capL)
	dCapR := sphere.Position.Distance(capR)

	d := math.Min(dAxis, math.Min(dCapL, dCapR))
	return math.Max(0, d-rod.Diameter/2-sphere.Radius)
}

func sphereRodPoint(sphere, rod *population.Particle) geom.Vec2 {
	left, right := rod.AxisEndpoints()
	q := geom.ClosestPointOnSegment(sphere.Position, left, right)
	capL, capR := rod.CapCenters()

	best := q
	bestD := sphere.Position.Distance(q)
	if d := sphere.Position.Distance(capL); d < bestD {
		best, bestD = capL, d
	}
	if d := sphere.Position.Distance(capR); d < bestD {
		best, bestD = capR, d
	}

	toQ := sphere.Position.Sub(best)
	n := toQ.Normalize()
	if toQ.Norm() <= Epsilon {
		n = geom.New(1, 0)
	}
	return sphere.Position.Sub(n.Scale(sphere.Radius))
}

// --- rod/rod ---

func rodRodDistance(a, b *population.Particle) float64 {
	aLeft, aRight := a.AxisEndpoints()
	bLeft, bRight := b.AxisEndpoints()
	_, _, segDist := geom.SegmentSegmentClosest(aLeft, aRight, bLeft, bRight)

	aCapL, aCapR := a.CapCenters()
	bCapL, bCapR := b.CapCenters()

	candidates := []float64{segDist}
	// (ii) all four segment-to-cap-centre combinations
	candidates = append(candidates,
		distPointSegment(aCapL, bLeft, bRight),
		distPointSegment(aCapR, bLeft, bRight),
		distPointSegment(bCapL, aLeft, aRight),
		distPointSegment(bCapR, aLeft, aRight),
	)
	// (iii) all four cap-centre-to-cap-centre distances
	candidates = append(candidates,
		aCapL.Distance(bCapL),
		aCapL.Distance(bCapR),
		aCapR.Distance(bCapL),
		aCapR.Distance(bCapR),
	)

	minD := candidates[0]
	for _, c := range candidates[1:] {
		if c < minD {
			minD = c
		}
	}
	return math.Max(0, minD-(a.Diameter/2+b.Diameter/2))
}

func distPointSegment(p, a, b geom.Vec2) float64 {
	return p.Distance(geom.ClosestPointOnSegment(p, a, b))
}

// rodRodPoint uses the canonical segment-segment closest-point routine's
// midpoint, per spec.md §9's resolved Open Question. The source's
// simplified cap/endpoint pairing is not replicated.
func rodRodPoint(a, b *population.Particle) geom.Vec2 {
	aLeft, aRight := a.AxisEndpoints()
	bLeft, bRight := b.AxisEndpoints()
	c1, c2, _ := geom.SegmentSegmentClosest(aLeft, aRight, bLeft, bRight)
	return c1.Add(c2).Scale(0.5)
}
