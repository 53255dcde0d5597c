// Package geom provides the 2D vector and rotation primitives shared by
// every geometric kernel in the simulator.
package geom

import "math"

// Vec2 is a 2D vector or point. It is a value type: all operations return
// a new Vec2 rather than mutating the receiver.
type Vec2 struct {
	X, Y float64
}

// New builds a Vec2 from components.
func New(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{X: v.X - o.X, Y: v.Y - o.Y}
}

func (v Vec2) Scale(k float64) Vec2 {
	return Vec2{X: v.X * k, Y: v.Y * k}
}

func (v Vec2) Dot(o Vec2) float64 {
	return v.X*o.X + v.Y*o.Y
}

// Cross returns the scalar (z-component) of the 2D cross product.
func (v Vec2) Cross(o Vec2) float64 {
	return v.X*o.Y - v.Y*o.X
}

func (v Vec2) Norm() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

func (v Vec2) NormSquared() float64 {
	return v.X*v.X + v.Y*v.Y
}

func (v Vec2) Distance(o Vec2) float64 {
	return v.Sub(o).Norm()
}

func (v Vec2) DistanceSquared(o Vec2) float64 {
	return v.Sub(o).NormSquared()
}

// Normalize returns the unit vector along v, or the zero vector if v is
// itself the zero vector (degenerate case, handled locally per the
// kernel's "never signal, substitute a benign default" policy).
func (v Vec2) Normalize() Vec2 {
	n := v.Norm()
	if n == 0 {
		return Vec2{}
	}
	inv := 1.0 / n
	return Vec2{X: v.X * inv, Y: v.Y * inv}
}

// Rotate applies a standard 2x2 rotation matrix by angle theta (radians).
func (v Vec2) Rotate(theta float64) Vec2 {
	s, c := math.Sincos(theta)
	return Vec2{
		X: v.X*c - v.Y*s,
		Y: v.X*s + v.Y*c,
	}
}
