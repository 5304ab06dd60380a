package systems

import (
	"math/rand"
	"slices"
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/critters/components"
	"github.com/pthm-cable/critters/geom"
)

func newTestEntities(t *testing.T, n int) []ecs.Entity {
	t.Helper()
	world := ecs.NewWorld()
	mapper := ecs.NewMap1[components.Position](world)
	out := make([]ecs.Entity, n)
	for i := range out {
		out[i] = mapper.NewEntity(&components.Position{})
	}
	return out
}

func TestCellIndexForClamps(t *testing.T) {
	g := NewSpatialGrid(10, 10, 60)

	tests := []struct {
		name string
		pos  geom.Vec2
		want int
	}{
		{"origin", geom.Vec2{X: 0, Y: 0}, 0},
		{"interior", geom.Vec2{X: 130, Y: 70}, 12},
		{"cell edge belongs to next cell", geom.Vec2{X: 60, Y: 0}, 1},
		{"negative x", geom.Vec2{X: -5, Y: 70}, 10},
		{"beyond right edge", geom.Vec2{X: 1000, Y: 70}, 19},
		{"beyond bottom right", geom.Vec2{X: 700, Y: 700}, 99},
		{"above top", geom.Vec2{X: 130, Y: -40}, 2},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := g.CellIndexFor(tc.pos); got != tc.want {
				t.Errorf("CellIndexFor(%v) = %d, want %d", tc.pos, got, tc.want)
			}
		})
	}
}

func TestNeighborCellsAtEdges(t *testing.T) {
	g := NewSpatialGrid(4, 3, 10)

	tests := []struct {
		name string
		cell int
		want []int
	}{
		{"top-left corner", 0, []int{0, 1, 4, 5}},
		{"right edge does not wrap", 7, []int{2, 3, 6, 7, 10, 11}},
		{"left edge does not wrap", 4, []int{0, 1, 4, 5, 8, 9}},
		{"interior", 5, []int{0, 1, 2, 4, 5, 6, 8, 9, 10}},
		{"bottom-right corner", 11, []int{6, 7, 10, 11}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := g.NeighborCells(tc.cell, nil)
			if !slices.Equal(got, tc.want) {
				t.Errorf("NeighborCells(%d) = %v, want %v", tc.cell, got, tc.want)
			}
		})
	}

	surrounding := g.SurroundingCells(5, nil)
	if slices.Contains(surrounding, 5) || len(surrounding) != 8 {
		t.Errorf("SurroundingCells(5) = %v, want 8 cells without the centre", surrounding)
	}
}

func TestInsertRemoveMovePreservesMembership(t *testing.T) {
	g := NewSpatialGrid(3, 3, 10)
	es := newTestEntities(t, 3)

	g.Insert(es[0], 4)
	g.Insert(es[1], 4)
	g.Insert(es[2], 4)
	if got := g.Cell(4); !slices.Equal(got, es) {
		t.Fatalf("cell 4 = %v, want insertion order %v", got, es)
	}

	g.Move(es[1], 0)
	if got := g.Cell(4); !slices.Equal(got, []ecs.Entity{es[0], es[2]}) {
		t.Errorf("after move, cell 4 = %v", got)
	}
	if cell, ok := g.CellOf(es[1]); !ok || cell != 0 {
		t.Errorf("CellOf moved entity = %d, %v", cell, ok)
	}

	// Re-inserting must not duplicate.
	g.Insert(es[1], 8)
	total := 0
	for c := 0; c < g.NumCells(); c++ {
		for _, e := range g.Cell(c) {
			if e == es[1] {
				total++
			}
		}
	}
	if total != 1 {
		t.Errorf("entity appears %d times, want 1", total)
	}

	if !g.Remove(es[0]) {
		t.Error("Remove returned false for a member")
	}
	if g.Remove(es[0]) {
		t.Error("second Remove returned true")
	}
	if g.Len() != 2 {
		t.Errorf("Len() = %d, want 2", g.Len())
	}
}

func TestNeighborsExcludesSelf(t *testing.T) {
	g := NewSpatialGrid(5, 5, 10)
	es := newTestEntities(t, 4)

	g.Insert(es[0], 12) // centre
	g.Insert(es[1], 6)  // diagonal neighbour
	g.Insert(es[2], 14) // two columns away
	g.Insert(es[3], 12)

	got := g.Neighbors(12, es[0], nil)
	want := []ecs.Entity{es[1], es[3]}
	if !slices.Equal(got, want) {
		t.Errorf("Neighbors = %v, want %v", got, want)
	}
}

func TestEntitiesSnapshotOrder(t *testing.T) {
	g := NewSpatialGrid(2, 2, 10)
	es := newTestEntities(t, 3)
	g.Insert(es[0], 3)
	g.Insert(es[1], 0)
	g.Insert(es[2], 3)

	snap := g.Entities(nil)
	want := []ecs.Entity{es[1], es[0], es[2]}
	if !slices.Equal(snap, want) {
		t.Fatalf("Entities = %v, want %v", snap, want)
	}

	g.Remove(es[1])
	if !slices.Equal(snap, want) {
		t.Error("snapshot changed after grid mutation")
	}
}

func TestRandomPointInCell(t *testing.T) {
	g := NewSpatialGrid(4, 4, 25)
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 200; i++ {
		cell := rng.Intn(g.NumCells())
		p := g.RandomPointInCell(rng, cell)
		if got := g.CellIndexFor(p); got != cell {
			t.Fatalf("point %v for cell %d maps to cell %d", p, cell, got)
		}
	}
}
