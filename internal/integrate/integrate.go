// Package integrate implements the overdamped linear/angular integrator
// of spec.md §4.4: velocities are linear in summed force/torque via a
// friction coefficient, there is no inertia, and rotation is applied by
// renormalising a rotated orientation vector -- the same
// position/angle-update shape as 0x5844/physics-2d's RigidBody.Integrate,
// stripped of inertia and gravity.
package integrate

import (
	"math"

	"github.com/0x5844/colonysim/internal/geom"
)

// MaxAngularVelocity is omega_max, the default clamp of spec.md §4.4.
const MaxAngularVelocity = 4 * math.Pi

// LinearVelocity returns v = F / (eta * L). Degenerate inputs (L <= 0 or
// eta <= 0) substitute the benign default v = 0, per spec.md §7's kernel
// error policy.
func LinearVelocity(force geom.Vec2, eta, length float64) geom.Vec2 {
	if length <= 0 || eta <= 0 {
		return geom.Vec2{}
	}
	return force.Scale(1 / (eta * length))
}

// AngularVelocity returns omega = 12*tau / (eta*L^3), clamped to
// [-omegaMax, +omegaMax]. Degenerate inputs substitute omega = 0.
func AngularVelocity(torque, eta, length, omegaMax float64) float64 {
	if length <= 0 || eta <= 0 {
		return 0
	}
	omega := 12 * torque / (eta * length * length * length)
	if omegaMax <= 0 {
		omegaMax = MaxAngularVelocity
	}
	if omega > omegaMax {
		return omegaMax
	}
	if omega < -omegaMax {
		return -omegaMax
	}
	return omega
}

// Step advances position and orientation by one timestep given linear
// and angular velocity. If the rotated orientation vector has zero norm
// (numerical degeneracy), orientation is left unchanged rather than
// signalling an error.
func Step(position, orientation geom.Vec2, v geom.Vec2, omega, dt float64) (newPosition, newOrientation geom.Vec2) {
	newPosition = position.Add(v.Scale(dt))

	rotated := orientation.Rotate(omega * dt)
	if rotated.Norm() == 0 {
		return newPosition, orientation
	}
	return newPosition, rotated.Normalize()
}
