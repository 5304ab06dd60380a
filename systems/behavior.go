package systems

import (
	"math/rand"

	"github.com/pthm-cable/critters/components"
	"github.com/pthm-cable/critters/geom"
)

// Self describes the deciding creature.
type Self struct {
	ID        uint32
	Pos       geom.Vec2
	Cell      int
	Vision    float64
	WantsMate bool
	Mind      components.Mind
}

// Decision is the outcome of one behaviour evaluation.
type Decision struct {
	State     components.State
	Target    geom.Vec2
	HasTarget bool
	MateID    uint32
}

// CanSee reports whether a body of otherSize at other lies inside the
// vision radius. The whole body must be inside, not just its centre.
func CanSee(self geom.Vec2, vision float64, other geom.Vec2, otherSize float64) bool {
	return geom.Distance(self, other)+otherSize/2 <= vision
}

// Behavior evaluates the creature state machine.
type Behavior struct {
	MoveChance float64 // idle wander attempts per second
	TPS        float64
}

// Decide picks the next state in priority order: an eligible visible mate,
// then the closest visible fruit, then idle wandering. Creatures already
// reproducing keep their state. Ties go to the earlier neighbor.
func (b Behavior) Decide(self Self, neighbors []Neighbor, grid *SpatialGrid, rng *rand.Rand) Decision {
	if self.Mind.State == components.StateReproducing {
		return Decision{State: components.StateReproducing, MateID: self.Mind.MateID}
	}

	if self.WantsMate {
		if mate, ok := closest(self, neighbors, func(n Neighbor) bool {
			return n.Kind == components.KindCreature && n.Eligible && n.ID != self.ID
		}); ok {
			return Decision{State: components.StateSeekingMate, Target: mate.Pos, HasTarget: true, MateID: mate.ID}
		}
	}

	if fruit, ok := closest(self, neighbors, func(n Neighbor) bool {
		return n.Kind == components.KindFruit
	}); ok {
		return Decision{State: components.StateSeekingFood, Target: fruit.Pos, HasTarget: true}
	}

	// Keep walking toward an unfinished wander target.
	if self.Mind.State == components.StateIdle && self.Mind.HasTarget {
		return Decision{State: components.StateIdle, Target: self.Mind.Target, HasTarget: true}
	}

	d := Decision{State: components.StateIdle}
	if b.TPS > 0 && rng.Float64() < b.MoveChance/b.TPS {
		var buf [8]int
		cells := grid.SurroundingCells(self.Cell, buf[:0])
		if len(cells) > 0 {
			d.Target = grid.RandomPointInCell(rng, cells[rng.Intn(len(cells))])
			d.HasTarget = true
		}
	}
	return d
}

func closest(self Self, neighbors []Neighbor, match func(Neighbor) bool) (Neighbor, bool) {
	var (
		best     Neighbor
		bestDist float64
		found    bool
	)
	for _, n := range neighbors {
		if !match(n) || !CanSee(self.Pos, self.Vision, n.Pos, n.Size) {
			continue
		}
		d := geom.Distance(self.Pos, n.Pos)
		if !found || d < bestDist {
			best, bestDist, found = n, d, true
		}
	}
	return best, found
}
