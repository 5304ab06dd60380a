// Package geom provides the small 2D vector toolkit used by the simulation.
package geom

import "math"

// Vec2 is an immutable 2D vector. Methods return new values.
type Vec2 struct {
	X, Y float64
}

// Polar is a vector expressed as magnitude and direction (radians).
type Polar struct {
	Magnitude float64
	Direction float64
}

// V is shorthand for Vec2{x, y}.
func V(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{X: v.X - o.X, Y: v.Y - o.Y}
}

// Scale returns v * s.
func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{X: v.X * s, Y: v.Y * s}
}

// Dot returns the dot product of v and o.
func (v Vec2) Dot(o Vec2) float64 {
	return v.X*o.X + v.Y*o.Y
}

// Len returns the Euclidean length of v.
func (v Vec2) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

// IsZero reports whether both components are zero.
func (v Vec2) IsZero() bool {
	return v.X == 0 && v.Y == 0
}

// WithLen returns v rescaled to length l, keeping its direction.
// A zero vector stays zero.
func (v Vec2) WithLen(l float64) Vec2 {
	n := v.Len()
	if n == 0 {
		return Vec2{}
	}
	return v.Scale(l / n)
}

// Polar converts v to polar form, measured from the origin.
func (v Vec2) Polar() Polar {
	return Polar{Magnitude: v.Len(), Direction: math.Atan2(v.Y, v.X)}
}

// Cartesian converts p back to a vector.
func (p Polar) Cartesian() Vec2 {
	return Vec2{
		X: math.Cos(p.Direction) * p.Magnitude,
		Y: math.Sin(p.Direction) * p.Magnitude,
	}
}

// Distance returns the distance between points a and b.
func Distance(a, b Vec2) float64 {
	return b.Sub(a).Len()
}

// Bearing returns the angle of the line from a to b, in radians.
func Bearing(a, b Vec2) float64 {
	return math.Atan2(b.Y-a.Y, b.X-a.X)
}

// PolarBetween returns the displacement from a to b in polar form.
func PolarBetween(a, b Vec2) Polar {
	return Polar{Magnitude: Distance(a, b), Direction: Bearing(a, b)}
}

// Lerp interpolates linearly from start toward end by amount.
// amount is not clamped.
func Lerp(start, end, amount float64) float64 {
	return (1-amount)*start + amount*end
}
