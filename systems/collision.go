package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/critters/components"
	"github.com/pthm-cable/critters/geom"
)

// Neighbor is a read-only view of a nearby entity, gathered from the grid
// before any decision or collision test runs.
type Neighbor struct {
	E    ecs.Entity
	ID   uint32
	Kind components.Kind
	Pos  geom.Vec2
	Size float64

	// Eligible marks a creature that wants to reproduce and is not already
	// locked in a pairing.
	Eligible bool
}

// Overlaps reports whether two circles touch or overlap. Touching is inclusive.
func Overlaps(a geom.Vec2, sizeA float64, b geom.Vec2, sizeB float64) bool {
	return geom.Distance(a, b)-sizeA/2-sizeB/2 <= 0
}

// CheckCollisions appends the neighbors overlapping a body at pos to dst,
// preserving neighbor order.
func CheckCollisions(pos geom.Vec2, size float64, neighbors []Neighbor, dst []Neighbor) []Neighbor {
	for _, n := range neighbors {
		if Overlaps(pos, size, n.Pos, n.Size) {
			dst = append(dst, n)
		}
	}
	return dst
}

// Contacts holds the interactions actioned for one creature in one tick.
type Contacts struct {
	Fruit    Neighbor
	HasFruit bool
	Mate     Neighbor
	HasMate  bool
}

// ResolveContacts picks at most one fruit and at most one mate from the
// colliding neighbors; the first match of each wins. No mate is picked when
// mateID is zero or the creature is already reproducing.
func ResolveContacts(colliding []Neighbor, mateID uint32, reproducing bool) Contacts {
	var c Contacts
	for _, n := range colliding {
		switch n.Kind {
		case components.KindFruit:
			if !c.HasFruit {
				c.Fruit, c.HasFruit = n, true
			}
		case components.KindCreature:
			if !c.HasMate && !reproducing && mateID != 0 && n.ID == mateID && n.Eligible {
				c.Mate, c.HasMate = n, true
			}
		}
		if c.HasFruit && c.HasMate {
			break
		}
	}
	return c
}
