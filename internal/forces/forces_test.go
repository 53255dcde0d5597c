package forces

import (
	"math"
	"testing"

	"github.com/0x5844/colonysim/internal/geom"
	"github.com/0x5844/colonysim/internal/population"
	"github.com/0x5844/colonysim/internal/rng"
)

func sphere(x, y, r float64) population.Particle {
	return population.Particle{Kind: population.KindEps, Position: geom.New(x, y), Radius: r}
}

func defaultModuli() Moduli {
	return Moduli{CellCell: 400, EpsEps: 400, EpsCell: 400, Fallback: 400, ReferenceDiameter: 1}
}

func TestRepulsionZeroBeyondReferenceDiameter(t *testing.T) {
	a := sphere(0, 0, 0.5)
	b := sphere(2, 0, 0.5) // surface distance 1, >= d0=1
	f, h, _, _ := Repulsion(&a, &b, defaultModuli())
	if h > 0 {
		t.Fatalf("expected no overlap, got h=%v", h)
	}
	if f != (geom.Vec2{}) {
		t.Fatalf("expected zero force beyond reference diameter, got %+v", f)
	}
}

func TestRepulsionSymmetricMagnitude(t *testing.T) {
	a := sphere(0, 0, 0.6)
	b := sphere(0.8, 0, 0.6)
	mod := defaultModuli()

	fAB, _, _, _ := Repulsion(&a, &b, mod)
	fBA, _, _, _ := Repulsion(&b, &a, mod)

	if math.Abs(fAB.Norm()-fBA.Norm()) > 1e-9 {
		t.Fatalf("expected symmetric magnitudes, got %v vs %v", fAB.Norm(), fBA.Norm())
	}
	sum := fAB.Add(fBA)
	if sum.Norm() > 1e-9 {
		t.Fatalf("expected opposite directions (sum ~ 0), got %+v", sum)
	}
}

func TestRepulsionMagnitudeScalesAsHto1point5(t *testing.T) {
	mod := defaultModuli()
	mod.ReferenceDiameter = 2.0
	const r = 0.1 // small radii so the surface distance stays positive (unclamped)

	sample := func(sep float64) (force, h float64) {
		a := sphere(0, 0, r)
		b := sphere(sep, 0, r)
		f, overlap, _, _ := Repulsion(&a, &b, mod)
		return f.Norm(), overlap
	}

	f1, h1 := sample(0.5)
	f2, h2 := sample(1.0)
	if h1 <= 0 || h2 <= 0 {
		t.Fatalf("expected positive overlap for both samples, got h1=%v h2=%v", h1, h2)
	}

	slope := math.Log(f2/f1) / math.Log(h2/h1)
	if math.Abs(slope-1.5) > 1e-6 {
		t.Fatalf("expected h^1.5 scaling (slope 1.5), got slope %v", slope)
	}
}

func TestMotilityZeroForEps(t *testing.T) {
	e := sphere(0, 0, 1)
	f := Motility(&e, 300)
	if f != (geom.Vec2{}) {
		t.Fatalf("expected zero motility for EPS, got %+v", f)
	}
}

func TestMotilityAlongOrientation(t *testing.T) {
	c := population.Particle{Kind: population.KindCell, Orientation: geom.New(0, 1)}
	f := Motility(&c, 300)
	if math.Abs(f.X) > 1e-9 || math.Abs(f.Y-300) > 1e-9 {
		t.Fatalf("expected motility 300 along orientation (0,1), got %+v", f)
	}
}

func TestRandomBounded(t *testing.T) {
	stream := rng.New(1, 0, 0)
	for i := 0; i < 100; i++ {
		f := Random(stream)
		if f.X < -0.001 || f.X > 0.001 || f.Y < -0.001 || f.Y > 0.001 {
			t.Fatalf("random force out of bounds: %+v", f)
		}
	}
}
