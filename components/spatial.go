package components

import "github.com/pthm-cable/critters/geom"

// Position represents an entity's centre in world units.
type Position struct {
	X, Y float64
}

// Vec returns the position as a vector.
func (p Position) Vec() geom.Vec2 {
	return geom.Vec2{X: p.X, Y: p.Y}
}

// Set overwrites the position from a vector.
func (p *Position) Set(v geom.Vec2) {
	p.X, p.Y = v.X, v.Y
}

// Velocity represents an entity's displacement per tick.
type Velocity struct {
	X, Y float64
}

// Vec returns the velocity as a vector.
func (v Velocity) Vec() geom.Vec2 {
	return geom.Vec2{X: v.X, Y: v.Y}
}

// Set overwrites the velocity from a vector.
func (v *Velocity) Set(o geom.Vec2) {
	v.X, v.Y = o.X, o.Y
}

// Stop zeroes the velocity.
func (v *Velocity) Stop() {
	v.X, v.Y = 0, 0
}
