package population

import (
	"math"
	"testing"
)

func TestSpherocylinderAreaClampsBodyAtMinimumLength(t *testing.T) {
	// length == diameter: no cylindrical body, area is just the two caps'
	// worth of disc (pi*r^2).
	a := SpherocylinderArea(1.0, 1.0)
	want := math.Pi * 0.5 * 0.5
	if math.Abs(a-want) > 1e-9 {
		t.Fatalf("expected %v, got %v", want, a)
	}
}

func TestEffectiveLengthEpsUsesDiameter(t *testing.T) {
	p := Particle{Kind: KindEps, Radius: 2}
	if got := p.EffectiveLength(); got != 4 {
		t.Fatalf("expected 2*radius=4, got %v", got)
	}
}

func TestEffectiveLengthCellUsesLength(t *testing.T) {
	p := Particle{Kind: KindCell, Length: 3}
	if got := p.EffectiveLength(); got != 3 {
		t.Fatalf("expected 3, got %v", got)
	}
}

func TestNextIDsAreMonotonicAndDisjoint(t *testing.T) {
	ResetIDs(1, 10000)
	c1 := NextCellID()
	c2 := NextCellID()
	e1 := NextEpsID()
	if c2 != c1+1 {
		t.Fatalf("expected monotonic cell ids, got %v then %v", c1, c2)
	}
	if e1 < 10000 {
		t.Fatalf("expected eps id space to start at 10000, got %v", e1)
	}
	if e1 == c1 || e1 == c2 {
		t.Fatalf("cell and eps id spaces must be disjoint, got cell=%v/%v eps=%v", c1, c2, e1)
	}
}
