package integrate

import (
	"math"
	"testing"

	"github.com/0x5844/colonysim/internal/geom"
)

// spec.md §8: with a single particle and constant force, position
// advances linearly with slope F/(eta*L).
func TestStepPositionAdvancesLinearly(t *testing.T) {
	eta, length := 2.0, 3.0
	force := geom.New(6, 0)
	v := LinearVelocity(force, eta, length)

	want := force.X / (eta * length)
	if math.Abs(v.X-want) > 1e-12 || v.Y != 0 {
		t.Fatalf("expected v=(%v,0), got %+v", want, v)
	}

	pos := geom.New(0, 0)
	orient := geom.New(1, 0)
	dt := 0.1
	for i := 0; i < 10; i++ {
		pos, orient = Step(pos, orient, v, 0, dt)
	}
	if math.Abs(pos.X-v.X*1.0) > 1e-9 || pos.Y != 0 {
		t.Fatalf("expected linear advance to (%v,0) after 10 steps, got %+v", v.X, pos)
	}
	if orient != geom.New(1, 0) {
		t.Fatalf("zero angular velocity should leave orientation unchanged, got %+v", orient)
	}
}

func TestLinearVelocityDegenerateInputsAreZero(t *testing.T) {
	if v := LinearVelocity(geom.New(1, 1), 0, 1); v != (geom.Vec2{}) {
		t.Fatalf("eta<=0 should give zero velocity, got %+v", v)
	}
	if v := LinearVelocity(geom.New(1, 1), 1, 0); v != (geom.Vec2{}) {
		t.Fatalf("length<=0 should give zero velocity, got %+v", v)
	}
}

func TestAngularVelocityClampsToOmegaMax(t *testing.T) {
	omega := AngularVelocity(1e9, 1, 1, MaxAngularVelocity)
	if omega != MaxAngularVelocity {
		t.Fatalf("expected clamp to %v, got %v", MaxAngularVelocity, omega)
	}
	omega = AngularVelocity(-1e9, 1, 1, MaxAngularVelocity)
	if omega != -MaxAngularVelocity {
		t.Fatalf("expected clamp to %v, got %v", -MaxAngularVelocity, omega)
	}
}

func TestAngularVelocityZeroOmegaMaxFallsBackToDefault(t *testing.T) {
	omega := AngularVelocity(1e9, 1, 1, 0)
	if omega != MaxAngularVelocity {
		t.Fatalf("expected fallback clamp %v, got %v", MaxAngularVelocity, omega)
	}
}

func TestStepRenormalizesOrientation(t *testing.T) {
	pos := geom.New(0, 0)
	orient := geom.New(1, 0)
	_, newOrient := Step(pos, orient, geom.Vec2{}, math.Pi/2, 1)
	if math.Abs(newOrient.Norm()-1) > 1e-9 {
		t.Fatalf("expected unit-norm orientation after rotation, got norm %v", newOrient.Norm())
	}
	if math.Abs(newOrient.X-0) > 1e-9 || math.Abs(newOrient.Y-1) > 1e-9 {
		t.Fatalf("expected orientation (0,1) after pi/2 rotation, got %+v", newOrient)
	}
}
