package systems

import (
	"github.com/pthm-cable/critters/components"
	"github.com/pthm-cable/critters/geom"
)

// Bounds represents the board extent in world units.
type Bounds struct {
	Width, Height float64
}

// Wall identifies which board edge an entity touched.
type Wall uint8

const (
	WallNone Wall = iota
	WallTop
	WallRight
	WallBottom
	WallLeft
)

// Touching returns the first wall the body touches, checked top, right,
// bottom, left. A body exactly on the edge counts as touching.
func (b Bounds) Touching(pos geom.Vec2, size float64) Wall {
	r := size / 2
	switch {
	case pos.Y-r <= 0:
		return WallTop
	case pos.X+r >= b.Width:
		return WallRight
	case pos.Y+r >= b.Height:
		return WallBottom
	case pos.X-r <= 0:
		return WallLeft
	}
	return WallNone
}

// BounceWalls points the velocity component facing the first touched wall
// back into the board. Only one wall is corrected per call.
func BounceWalls(pos components.Position, vel *components.Velocity, size float64, b Bounds) Wall {
	w := b.Touching(pos.Vec(), size)
	switch w {
	case WallTop:
		vel.Y = abs(vel.Y)
	case WallRight:
		vel.X = -abs(vel.X)
	case WallBottom:
		vel.Y = -abs(vel.Y)
	case WallLeft:
		vel.X = abs(vel.X)
	}
	return w
}

// Integrate advances position by one tick of velocity.
func Integrate(pos *components.Position, vel components.Velocity) {
	pos.X += vel.X
	pos.Y += vel.Y
}

// SteerToward returns a velocity of magnitude speed pointing from pos to
// target. Zero displacement yields a zero velocity.
func SteerToward(pos, target geom.Vec2, speed float64) geom.Vec2 {
	p := geom.PolarBetween(pos, target)
	if p.Magnitude == 0 {
		return geom.Vec2{}
	}
	return geom.Polar{Magnitude: speed, Direction: p.Direction}.Cartesian()
}

// HasReachedTarget reports whether integrating vel once more would carry the
// body past target. Zero displacement counts as arrived.
func HasReachedTarget(pos, vel, target geom.Vec2) bool {
	rel := pos.Sub(target)
	if rel.IsZero() {
		return true
	}
	return vel.Dot(rel) >= 0
}

// Steer updates vel for the mind's current target and reports arrival.
// A fresh target sets the bearing; an unchanged target only rescales the
// existing velocity to speed. On arrival velocity is zeroed and the target
// cleared.
func Steer(mind *components.Mind, pos components.Position, vel *components.Velocity, speed float64, fresh bool) bool {
	if !mind.HasTarget {
		return false
	}

	p := pos.Vec()
	if fresh || vel.Vec().IsZero() {
		vel.Set(SteerToward(p, mind.Target, speed))
	} else {
		vel.Set(vel.Vec().WithLen(speed))
	}

	if HasReachedTarget(p, vel.Vec(), mind.Target) {
		vel.Stop()
		mind.ClearTarget()
		return true
	}
	return false
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
