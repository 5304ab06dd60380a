package renderer

import (
	"math/rand"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/pthm-cable/critters/components"
	"github.com/pthm-cable/critters/config"
	"github.com/pthm-cable/critters/game"
	"github.com/pthm-cable/critters/geom"
)

func quietConfig() *config.Config {
	cfg := config.Default()
	cfg.Creature.Initial = 0
	cfg.Creature.SpawnRate = 0
	cfg.Creature.MoveChance = 0
	cfg.Fruit.Initial = 0
	cfg.Fruit.SpawnRate = 0
	cfg.Telemetry.HallOfFame = 0
	cfg.ComputeDerived()
	return cfg
}

func newSimTerminal(t *testing.T, w, h int) (*Terminal, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("screen init: %v", err)
	}
	t.Cleanup(screen.Fini)
	screen.SetSize(w, h)

	return NewTerminal(screen, NewStore(), 600, 600, 10, 10), screen
}

func TestTerminalCellMapping(t *testing.T) {
	// 100 columns leaves a 64x38 board interior
	term, _ := newSimTerminal(t, 100, 40)

	tests := []struct {
		name string
		pos  geom.Vec2
		x, y int
	}{
		{"origin", geom.Vec2{X: 0, Y: 0}, 1, 1},
		{"centre", geom.Vec2{X: 300, Y: 300}, 33, 20},
		{"far corner clamps", geom.Vec2{X: 600, Y: 600}, 64, 38},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := term.CellFor(tt.pos)
			if x != tt.x || y != tt.y {
				t.Errorf("CellFor(%v) = (%d, %d), want (%d, %d)", tt.pos, x, y, tt.x, tt.y)
			}
		})
	}
}

func TestTerminalWorldAtRoundtrip(t *testing.T) {
	term, _ := newSimTerminal(t, 100, 40)

	for _, cell := range [][2]int{{1, 1}, {20, 10}, {64, 38}} {
		p, ok := term.WorldAt(cell[0], cell[1])
		if !ok {
			t.Fatalf("WorldAt(%d, %d) reported off-board", cell[0], cell[1])
		}
		x, y := term.CellFor(p)
		if x != cell[0] || y != cell[1] {
			t.Errorf("roundtrip (%d, %d) -> %v -> (%d, %d)", cell[0], cell[1], p, x, y)
		}
	}

	if _, ok := term.WorldAt(0, 0); ok {
		t.Error("frame corner should be off-board")
	}
	if _, ok := term.WorldAt(90, 5); ok {
		t.Error("sidebar cell should be off-board")
	}
}

func TestTerminalDrawsEntities(t *testing.T) {
	term, screen := newSimTerminal(t, 100, 40)

	term.store.Update(game.EntitySnapshot{
		ID: 1, Kind: components.KindFruit, Pos: geom.Vec2{X: 0, Y: 0}, Color: game.FruitColor,
	})
	term.store.Update(game.EntitySnapshot{
		ID: 2, Kind: components.KindCreature, Pos: geom.Vec2{X: 300, Y: 300},
		Size: 12, Color: game.LifeColor(1), State: components.StateReproducing,
	})
	term.Draw(2, []string{"[Critters]", "tick 0"})

	if r, _, _, _ := screen.GetContent(1, 1); r != '*' {
		t.Errorf("expected fruit glyph at (1,1), got %q", r)
	}
	r, _, style, _ := screen.GetContent(33, 20)
	if r != '@' {
		t.Errorf("expected reproducing creature glyph at (33,20), got %q", r)
	}
	if _, _, attrs := style.Decompose(); attrs&tcell.AttrReverse == 0 {
		t.Error("focused creature should be drawn reversed")
	}

	left := 100 - SidebarWidth + 1
	if r, _, _, _ := screen.GetContent(left, 0); r != '[' {
		t.Errorf("expected sidebar text at column %d, got %q", left, r)
	}
}

func TestTUIFocusNextCycles(t *testing.T) {
	term, _ := newSimTerminal(t, 100, 40)
	g, err := game.New(quietConfig(), game.Options{Rand: rand.New(rand.NewSource(1)), RenderSink: term.store})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer g.Close()

	a, _ := g.SpawnCreature(game.SpawnRequest{})
	b, _ := g.SpawnCreature(game.SpawnRequest{})
	g.SpawnFruit()

	u := NewTUI(g, term, 0)
	want := []uint32{a, b, a}
	for i, id := range want {
		u.focusNext()
		if got, _ := g.Focused(); got != id {
			t.Errorf("step %d: focused %d, want %d", i, got, id)
		}
	}
}

func TestTUIKeys(t *testing.T) {
	term, _ := newSimTerminal(t, 100, 40)
	g, err := game.New(quietConfig(), game.Options{Rand: rand.New(rand.NewSource(1)), RenderSink: term.store})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer g.Close()
	u := NewTUI(g, term, 0)

	u.handleRune('c')
	u.handleRune('f')
	if g.NumCreatures() != 1 || g.NumFruits() != 1 {
		t.Errorf("expected 1 creature and 1 fruit, got %d and %d", g.NumCreatures(), g.NumFruits())
	}

	u.handleRune(' ')
	if !u.paused {
		t.Error("space should pause")
	}
	for i := 0; i < 20; i++ {
		u.handleRune('>')
	}
	if u.stepsPerUpdate != maxStepsPerFrame {
		t.Errorf("speed should clamp at %d, got %d", maxStepsPerFrame, u.stepsPerUpdate)
	}
	if u.handleRune('q') {
		t.Error("q should quit")
	}
}
