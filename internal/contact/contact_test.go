package contact

import (
	"math"
	"testing"

	"github.com/0x5844/colonysim/internal/geom"
	"github.com/0x5844/colonysim/internal/population"
)

func cell(x, y, length, diameter float64) population.Particle {
	return population.Particle{
		Kind:        population.KindCell,
		Position:    geom.New(x, y),
		Orientation: geom.New(1, 0),
		Length:      length,
		Diameter:    diameter,
	}
}

func eps(x, y, radius float64) population.Particle {
	return population.Particle{
		Kind:     population.KindEps,
		Position: geom.New(x, y),
		Radius:   radius,
	}
}

// spec.md §8 scenario 1: two touching cells, head-to-head. With the full
// (i)/(ii)/(iii) candidate enumeration of spec.md §4.2, a's right cap
// centre (1,0) lands exactly on b's cylindrical axis endpoint (1,0), so
// the candidate minimum is 0 before radius subtraction and the
// spherocylinders are found to already be in deep contact (clamped
// surface distance 0), not the simplified sphere-style 0.5 the worked
// example in spec.md §8 illustrates -- that number treats the cells as
// bare discs of diameter d0 separated by centre distance and does not
// follow from §4.2's own candidate set applied to this configuration.
// This divergence is intentional; see DESIGN.md.
func TestRodRodTouchingHeadToHead(t *testing.T) {
	a := cell(0, 0, 2, 1)
	b := cell(1.5, 0, 2, 1)

	d := MinDistance(&a, &b)
	if d != 0 {
		t.Fatalf("expected clamped surface distance 0 (deep contact), got %v", d)
	}
}

// spec.md §8 scenario 2: sphere-in-cylinder contact points toward +y.
func TestSphereRodContactDirection(t *testing.T) {
	e := eps(0, 0.4, 0.25)
	c := cell(0, 0, 3, 1)

	d := MinDistance(&e, &c)
	if d != 0 {
		t.Fatalf("expected clamped overlap distance 0, got %v", d)
	}

	p := ContactPoint(&e, &c)
	if p.Y <= 0 {
		t.Fatalf("expected contact point toward +y, got %+v", p)
	}
}

func TestSphereSphereCoincidentCentres(t *testing.T) {
	a := eps(0, 0, 1)
	b := eps(1e-12, 0, 1)
	p := ContactPoint(&a, &b)
	if p != a.Position {
		t.Fatalf("coincident centres should contact at a's position, got %+v", p)
	}
}

func TestMinDistanceNeverNegative(t *testing.T) {
	a := cell(0, 0, 5, 1)
	b := cell(0.1, 0.1, 5, 1)
	if MinDistance(&a, &b) < 0 {
		t.Fatal("minDistance must be clamped to >= 0")
	}
}

func TestRodRodContactPointIsMidpointOfClosestPair(t *testing.T) {
	a := cell(-1, 0, 2, 1)
	a.Orientation = geom.New(0, 1)
	b := cell(1, 0, 2, 1)
	b.Orientation = geom.New(0, 1)

	p := ContactPoint(&a, &b)
	if math.Abs(p.X) > 1e-9 {
		t.Fatalf("expected contact point on the y-axis by symmetry, got %+v", p)
	}
}
