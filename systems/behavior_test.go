package systems

import (
	"math/rand"
	"testing"

	"github.com/pthm-cable/critters/components"
	"github.com/pthm-cable/critters/geom"
)

func TestCanSeeWholeBody(t *testing.T) {
	self := geom.Vec2{}
	if !CanSee(self, 60, geom.Vec2{X: 55}, 10) {
		t.Error("body ending exactly at vision edge should be visible")
	}
	if CanSee(self, 60, geom.Vec2{X: 56}, 10) {
		t.Error("body poking past vision edge should not be visible")
	}
}

func TestDecidePriority(t *testing.T) {
	grid := NewSpatialGrid(10, 10, 60)
	rng := rand.New(rand.NewSource(3))
	b := Behavior{MoveChance: 0, TPS: 20}

	fruit := Neighbor{ID: 2, Kind: components.KindFruit, Pos: geom.Vec2{X: 110, Y: 100}, Size: 10}
	farFruit := Neighbor{ID: 3, Kind: components.KindFruit, Pos: geom.Vec2{X: 130, Y: 100}, Size: 10}
	mate := Neighbor{ID: 4, Kind: components.KindCreature, Pos: geom.Vec2{X: 90, Y: 100}, Size: 10, Eligible: true}
	busy := Neighbor{ID: 5, Kind: components.KindCreature, Pos: geom.Vec2{X: 95, Y: 100}, Size: 10}

	self := Self{ID: 1, Pos: geom.Vec2{X: 100, Y: 100}, Vision: 60}
	self.Cell = grid.CellIndexFor(self.Pos)

	tests := []struct {
		name      string
		wantsMate bool
		state     components.State
		neighbors []Neighbor
		want      components.State
		wantID    uint32
		wantPos   geom.Vec2
	}{
		{"mate beats fruit", true, components.StateIdle, []Neighbor{farFruit, fruit, mate}, components.StateSeekingMate, 4, mate.Pos},
		{"no urge ignores mate", false, components.StateIdle, []Neighbor{mate, farFruit, fruit}, components.StateSeekingFood, 0, fruit.Pos},
		{"ineligible mate falls back to fruit", true, components.StateIdle, []Neighbor{busy, fruit}, components.StateSeekingFood, 0, fruit.Pos},
		{"nothing visible idles", true, components.StateSeekingFood, nil, components.StateIdle, 0, geom.Vec2{}},
		{"reproducing is sticky", true, components.StateReproducing, []Neighbor{mate, fruit}, components.StateReproducing, 0, geom.Vec2{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := self
			s.WantsMate = tc.wantsMate
			s.Mind.State = tc.state
			d := b.Decide(s, tc.neighbors, grid, rng)
			if d.State != tc.want {
				t.Fatalf("state = %v, want %v", d.State, tc.want)
			}
			if d.MateID != tc.wantID {
				t.Errorf("mate = %d, want %d", d.MateID, tc.wantID)
			}
			if d.Target != tc.wantPos {
				t.Errorf("target = %v, want %v", d.Target, tc.wantPos)
			}
		})
	}
}

func TestDecideFruitTieGoesToFirst(t *testing.T) {
	grid := NewSpatialGrid(10, 10, 60)
	rng := rand.New(rand.NewSource(1))
	self := Self{ID: 1, Pos: geom.Vec2{X: 100, Y: 100}, Vision: 60}

	a := Neighbor{ID: 2, Kind: components.KindFruit, Pos: geom.Vec2{X: 120, Y: 100}, Size: 10}
	b := Neighbor{ID: 3, Kind: components.KindFruit, Pos: geom.Vec2{X: 80, Y: 100}, Size: 10}

	d := Behavior{TPS: 20}.Decide(self, []Neighbor{a, b}, grid, rng)
	if d.Target != a.Pos {
		t.Errorf("target = %v, want first fruit %v", d.Target, a.Pos)
	}
}

func TestDecideWanderTargetsSurroundingCell(t *testing.T) {
	grid := NewSpatialGrid(10, 10, 60)
	rng := rand.New(rand.NewSource(9))
	self := Self{ID: 1, Pos: geom.Vec2{X: 30, Y: 30}, Vision: 60}
	self.Cell = grid.CellIndexFor(self.Pos)

	// MoveChance equal to TPS always wanders.
	b := Behavior{MoveChance: 20, TPS: 20}
	allowed := map[int]bool{1: true, 10: true, 11: true}
	for i := 0; i < 50; i++ {
		d := b.Decide(self, nil, grid, rng)
		if !d.HasTarget {
			t.Fatal("expected a wander target")
		}
		if cell := grid.CellIndexFor(d.Target); !allowed[cell] {
			t.Fatalf("wander target in cell %d, want a neighbour of cell 0", cell)
		}
	}

	// An unfinished wander target is kept.
	self.Mind.SetTarget(geom.Vec2{X: 70, Y: 70})
	d := Behavior{TPS: 20}.Decide(self, nil, grid, rng)
	if !d.HasTarget || d.Target != self.Mind.Target {
		t.Errorf("wander target not kept: %+v", d)
	}
}
