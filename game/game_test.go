package game

import (
	"errors"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/pthm-cable/critters/components"
	"github.com/pthm-cable/critters/config"
	"github.com/pthm-cable/critters/geom"
	"github.com/pthm-cable/critters/telemetry"
)

// quietConfig returns defaults with nothing spawning on its own.
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

func newTestGame(t *testing.T, cfg *config.Config, opts Options) *Game {
	t.Helper()
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(1))
	}
	g, err := New(cfg, opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { g.Close() })
	return g
}

// testGenes returns in-range genes for a small slow creature.
func testGenes() components.Genes {
	return components.Genes{Size: 10, Speed: 5, Vision: 60, ReproductiveRate: 2, Mutability: 0.05}
}

func spawnAt(t *testing.T, g *Game, genes components.Genes, x, y float64) uint32 {
	t.Helper()
	pos := geom.Vec2{X: x, Y: y}
	id, err := g.SpawnCreature(SpawnRequest{Genes: &genes, Pos: &pos})
	if err != nil {
		t.Fatalf("SpawnCreature: %v", err)
	}
	return id
}

func mustSnapshot(t *testing.T, g *Game, id uint32) CreatureSnapshot {
	t.Helper()
	s, err := g.CreatureSnapshot(id)
	if err != nil {
		t.Fatalf("CreatureSnapshot(%d): %v", id, err)
	}
	return s
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"zero width", func(c *config.Config) { c.Board.Width = 0 }},
		{"negative height", func(c *config.Config) { c.Board.Height = -3 }},
		{"inverted gene range", func(c *config.Config) { c.Genes.Speed = config.GeneRange{Min: 10, Max: 5} }},
		{"zero tick rate", func(c *config.Config) { c.Sim.TicksPerSecond = 0 }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(cfg)
			g, err := New(cfg, Options{Seed: 1})
			if !errors.Is(err, config.ErrInvalid) {
				t.Fatalf("New error = %v, want ErrInvalid", err)
			}
			if g != nil {
				t.Error("New returned a game for an invalid config")
			}
		})
	}
}

func TestGridMembershipInvariant(t *testing.T) {
	cfg := config.Default()
	cfg.Creature.Initial = 20
	cfg.Fruit.Initial = 30
	g := newTestGame(t, cfg, Options{})

	for i := 0; i < 400; i++ {
		g.Step()

		seen := make(map[uint32]bool)
		for _, e := range g.grid.Entities(nil) {
			if !g.world.Alive(e) {
				t.Fatalf("tick %d: dead entity left in grid", g.Tick())
			}
			id := g.identMap.Get(e).ID
			if seen[id] {
				t.Fatalf("tick %d: entity %d appears twice", g.Tick(), id)
			}
			seen[id] = true

			cell, ok := g.grid.CellOf(e)
			want := g.grid.CellIndexFor(g.posMap.Get(e).Vec())
			if !ok || cell != want {
				t.Fatalf("tick %d: entity %d in cell %d, position says %d", g.Tick(), id, cell, want)
			}
		}
		if len(seen) != g.NumCreatures()+g.NumFruits() {
			t.Fatalf("tick %d: grid holds %d entities, population is %d",
				g.Tick(), len(seen), g.NumCreatures()+g.NumFruits())
		}
	}
}

func TestCreatureAgesUntilLifespan(t *testing.T) {
	cfg := quietConfig()
	cfg.Creature.BaseLifespan = 0.5 // 10 ticks for min size, min speed, mid vision
	g := newTestGame(t, cfg, Options{})

	genes := testGenes()
	genes.Vision = cfg.Genes.Vision.Mid()
	id := spawnAt(t, g, genes, 200, 200)

	if got := mustSnapshot(t, g, id).Life.Lifespan; got != 10 {
		t.Fatalf("lifespan = %v, want 10", got)
	}

	for tick := 1; tick < 10; tick++ {
		g.Step()
		if age := mustSnapshot(t, g, id).Life.Age; age != tick {
			t.Fatalf("after %d ticks age = %d", tick, age)
		}
	}

	g.Step()
	if _, err := g.CreatureSnapshot(id); !errors.Is(err, ErrCreatureNotFound) {
		t.Fatalf("creature still present at its lifespan, err = %v", err)
	}
	if g.NumCreatures() != 0 || g.grid.Len() != 0 {
		t.Errorf("creatures = %d, grid = %d after death", g.NumCreatures(), g.grid.Len())
	}
}

func TestCreatureSeeksAndEatsFruit(t *testing.T) {
	cfg := quietConfig()
	g := newTestGame(t, cfg, Options{})

	centre := geom.Vec2{X: cfg.Derived.BoardW / 2, Y: cfg.Derived.BoardH / 2}
	g.SpawnFruitAt(centre)
	id := spawnAt(t, g, testGenes(), centre.X-50, centre.Y)

	prev := 50.0
	ate := false
	for tick := 1; tick <= 10; tick++ {
		g.Step()
		if g.NumFruits() == 0 {
			ate = true
			break
		}

		s := mustSnapshot(t, g, id)
		if s.State() != components.StateSeekingFood {
			t.Fatalf("tick %d: state = %v, want seeking_food", tick, s.State())
		}
		d := geom.Distance(s.Pos, centre)
		if d >= prev {
			t.Fatalf("tick %d: distance %v did not decrease from %v", tick, d, prev)
		}
		prev = d
	}

	if !ate {
		t.Fatal("fruit not eaten within 10 ticks")
	}
	if g.grid.Len() != 1 {
		t.Errorf("grid holds %d entities, want only the creature", g.grid.Len())
	}
	if age := mustSnapshot(t, g, id).Life.Age; age != 0 {
		t.Errorf("age after eating = %d, want 0 (feed clamps at zero)", age)
	}
}

// pairUp places two eager creatures on top of each other and steps once.
func pairUp(t *testing.T, g *Game) (uint32, uint32) {
	t.Helper()
	a := spawnAt(t, g, testGenes(), 200, 200)
	b := spawnAt(t, g, testGenes(), 205, 200)
	for _, id := range []uint32{a, b} {
		g.mindMap.Get(g.creatures[id]).Urge = g.cfg.Creature.MaxUrge
	}
	g.Step()
	return a, b
}

func TestMateLockWithinOneTick(t *testing.T) {
	g := newTestGame(t, quietConfig(), Options{})

	a := spawnAt(t, g, testGenes(), 200, 200)
	b := spawnAt(t, g, testGenes(), 205, 200)
	c := spawnAt(t, g, testGenes(), 210, 200)
	for _, id := range []uint32{a, b, c} {
		g.mindMap.Get(g.creatures[id]).Urge = g.cfg.Creature.MaxUrge
	}

	g.Step()

	sa, sb := mustSnapshot(t, g, a), mustSnapshot(t, g, b)
	if sa.State() != components.StateReproducing || sb.State() != components.StateReproducing {
		t.Fatalf("states = %v, %v, want both reproducing", sa.State(), sb.State())
	}
	if sa.Mind.MateID != b || sb.Mind.MateID != a {
		t.Errorf("mate ids = %d, %d, want %d, %d", sa.Mind.MateID, sb.Mind.MateID, b, a)
	}

	for i := 0; i < 10; i++ {
		g.Step()
	}
	if n := g.PendingPairings(); n != 1 {
		t.Errorf("pending pairings = %d, want 1", n)
	}
	sc := mustSnapshot(t, g, c)
	if sc.State() == components.StateReproducing || sc.Mind.MateID == a || sc.Mind.MateID == b {
		t.Errorf("third creature joined the pair: %+v", sc.Mind)
	}
}

func TestBirthAfterCooldownAndIncubation(t *testing.T) {
	g := newTestGame(t, quietConfig(), Options{})
	a, b := pairUp(t, g)

	d := g.cfg.Derived
	for g.Tick() < int64(d.CooldownTicks+1) {
		g.Step()
	}
	for _, id := range []uint32{a, b} {
		s := mustSnapshot(t, g, id)
		if s.State() == components.StateReproducing || s.Mind.MateID != 0 {
			t.Errorf("parent %d not released after cooldown: %+v", id, s.Mind)
		}
	}

	for g.Tick() < int64(d.CooldownTicks+d.IncubationTicks) {
		g.Step()
	}
	if n := g.NumCreatures(); n != 2 {
		t.Fatalf("creatures before incubation expiry = %d, want 2", n)
	}
	g.Step()
	if n := g.NumCreatures(); n != 3 {
		t.Fatalf("creatures after incubation = %d, want 3", n)
	}

	var child uint32
	for id := range g.creatures {
		if id != a && id != b {
			child = id
		}
	}
	if s := mustSnapshot(t, g, child); s.Generation != 1 {
		t.Errorf("child generation = %d, want 1", s.Generation)
	}
	if s := mustSnapshot(t, g, a); s.Children != 1 {
		t.Errorf("parent children = %d, want 1", s.Children)
	}
}

func TestParentDeathAbortsPairing(t *testing.T) {
	g := newTestGame(t, quietConfig(), Options{})
	a, b := pairUp(t, g)

	g.killCreature(g.creatures[b])
	g.Step()

	s := mustSnapshot(t, g, a)
	if s.State() == components.StateReproducing || s.Mind.MateID != 0 || s.Mind.Urge > 1 {
		t.Errorf("surviving partner not reset: %+v", s.Mind)
	}
	if n := g.PendingPairings(); n != 0 {
		t.Errorf("pending pairings = %d, want 0", n)
	}

	d := g.cfg.Derived
	g.Run(d.CooldownTicks + d.IncubationTicks + 5)
	if n := g.NumCreatures(); n != 1 {
		t.Errorf("creatures = %d, want 1 (no orphan birth)", n)
	}
}

func TestCloseDiscardsPendingBirths(t *testing.T) {
	g := newTestGame(t, quietConfig(), Options{})
	pairUp(t, g)

	if err := g.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	tick := g.Tick()
	d := g.cfg.Derived
	g.Run(d.CooldownTicks + d.IncubationTicks + 5)

	if g.Tick() != tick {
		t.Errorf("Step advanced a closed simulation to tick %d", g.Tick())
	}
	if n := g.NumCreatures(); n != 2 {
		t.Errorf("creatures = %d, want 2", n)
	}
	if _, err := g.SpawnCreature(SpawnRequest{}); !errors.Is(err, ErrClosed) {
		t.Errorf("SpawnCreature after Close err = %v, want ErrClosed", err)
	}
}

func TestSpawnCreatureValidation(t *testing.T) {
	g := newTestGame(t, quietConfig(), Options{})

	tests := []struct {
		name     string
		mutate   func(*components.Genes)
		wantGene string
	}{
		{"speed too high", func(gn *components.Genes) { gn.Speed = 50 }, "speed"},
		{"size too small", func(gn *components.Genes) { gn.Size = 1 }, "size"},
		{"mutability above one", func(gn *components.Genes) { gn.Mutability = 2 }, "mutability"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			genes := testGenes()
			tc.mutate(&genes)
			_, err := g.SpawnCreature(SpawnRequest{Genes: &genes})

			var rangeErr *GeneRangeError
			if !errors.As(err, &rangeErr) {
				t.Fatalf("err = %v, want GeneRangeError", err)
			}
			if rangeErr.Gene != tc.wantGene {
				t.Errorf("gene = %q, want %q", rangeErr.Gene, tc.wantGene)
			}
			if g.NumCreatures() != 0 {
				t.Error("rejected spawn created a creature")
			}
		})
	}

	off := geom.Vec2{X: -5, Y: 10}
	if _, err := g.SpawnCreature(SpawnRequest{Pos: &off}); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("off-board spawn err = %v, want ErrOutOfBounds", err)
	}

	id, err := g.SpawnCreature(SpawnRequest{})
	if err != nil {
		t.Fatalf("random spawn: %v", err)
	}
	if _, err := g.CreatureSnapshot(id); err != nil {
		t.Errorf("random spawn not inspectable: %v", err)
	}
}

func TestGeneSampleWithNoCreatures(t *testing.T) {
	g := newTestGame(t, quietConfig(), Options{})
	g.Step()

	s := g.SampleGenes()
	if s.Count != 0 {
		t.Errorf("count = %d, want 0", s.Count)
	}
	for i := components.Gene(0); i < components.NumGenes; i++ {
		if m := s.Mean(i); m != 0 {
			t.Errorf("%s mean = %v, want 0", i, m)
		}
	}
}

func TestScheduledGeneSampleFeedsCallback(t *testing.T) {
	var samples int
	g := newTestGame(t, quietConfig(), Options{
		SampleCallback: func(telemetry.GeneSample) { samples++ },
	})
	genes := testGenes()
	spawnAt(t, g, genes, 100, 100)

	g.Run(g.cfg.Derived.GeneSampleTicks + 1)
	if samples != 2 {
		t.Errorf("samples = %d, want 2", samples)
	}
	if got := g.LastGeneSample().Mean(components.GeneSpeed); got != genes.Speed {
		t.Errorf("speed mean = %v, want %v", got, genes.Speed)
	}
}

func TestPopulationAverage(t *testing.T) {
	g := newTestGame(t, quietConfig(), Options{})
	for i := 0; i < 3; i++ {
		spawnAt(t, g, testGenes(), 100+float64(i)*100, 300)
	}

	g.Run(g.cfg.Sim.TicksPerSecond)
	if avg := g.PopulationAverage(); avg != 3 {
		t.Errorf("average = %v, want 3", avg)
	}
	if h := g.PopulationHistory(); len(h) != 1 {
		t.Errorf("history = %v, want one sample", h)
	}
}

func TestFocusClearedOnDeath(t *testing.T) {
	cfg := quietConfig()
	cfg.Creature.BaseLifespan = 0.5
	g := newTestGame(t, cfg, Options{})
	id := spawnAt(t, g, testGenes(), 100, 100)

	if err := g.Focus(id); err != nil {
		t.Fatalf("Focus: %v", err)
	}
	if err := g.Focus(id + 100); !errors.Is(err, ErrCreatureNotFound) {
		t.Errorf("Focus(unknown) = %v", err)
	}
	if got, ok := g.Focused(); !ok || got != id {
		t.Fatalf("Focused() = %d, %v", got, ok)
	}

	g.Run(30)
	if _, ok := g.Focused(); ok {
		t.Error("focus survived the creature's death")
	}
}

func TestCreatureAt(t *testing.T) {
	g := newTestGame(t, quietConfig(), Options{})
	id := spawnAt(t, g, testGenes(), 300, 300)
	g.SpawnFruitAt(geom.Vec2{X: 100, Y: 100})

	if got, ok := g.CreatureAt(geom.Vec2{X: 303, Y: 298}); !ok || got != id {
		t.Errorf("CreatureAt(inside) = %d, %v", got, ok)
	}
	if _, ok := g.CreatureAt(geom.Vec2{X: 100, Y: 100}); ok {
		t.Error("CreatureAt matched a fruit")
	}
	if _, ok := g.CreatureAt(geom.Vec2{X: 330, Y: 300}); ok {
		t.Error("CreatureAt matched outside the body")
	}
}

type recordingSink struct {
	updates map[uint32]int
	removed []uint32
	last    map[uint32]EntitySnapshot
}

func newRecordingSink() *recordingSink {
	return &recordingSink{updates: make(map[uint32]int), last: make(map[uint32]EntitySnapshot)}
}

func (r *recordingSink) Update(s EntitySnapshot) {
	r.updates[s.ID]++
	r.last[s.ID] = s
}

func (r *recordingSink) Remove(id uint32) { r.removed = append(r.removed, id) }

func TestRenderSink(t *testing.T) {
	cfg := quietConfig()
	cfg.Fruit.Lifespan = 0.25 // 5 ticks
	cfg.ComputeDerived()
	sink := newRecordingSink()
	g := newTestGame(t, cfg, Options{RenderSink: sink})

	fruit := g.SpawnFruitAt(geom.Vec2{X: 500, Y: 500})
	creature := spawnAt(t, g, testGenes(), 100, 100)

	if sink.updates[fruit] != 1 || sink.updates[creature] != 1 {
		t.Fatalf("spawn updates = %v", sink.updates)
	}
	if s := sink.last[fruit]; s.Color != FruitColor || s.Kind != components.KindFruit {
		t.Errorf("fruit snapshot = %+v", s)
	}

	g.Run(5)
	if len(sink.removed) != 1 || sink.removed[0] != fruit {
		t.Errorf("removed = %v, want [%d]", sink.removed, fruit)
	}
	if sink.updates[creature] < 2 {
		t.Errorf("creature updates = %d, want one per changed tick", sink.updates[creature])
	}
	if s := sink.last[creature]; s.Color != LifeColor(s.LifeFraction) {
		t.Errorf("creature colour %v does not follow life %v", s.Color, s.LifeFraction)
	}

	snaps := g.Snapshots(nil)
	if len(snaps) != 1 || snaps[0].ID != creature {
		t.Errorf("Snapshots = %+v", snaps)
	}
}

func TestLifeColor(t *testing.T) {
	tests := []struct {
		fraction float64
		wantR    uint8
	}{
		{1, 255},
		{0.5, 127},
		{0, 0},
		{-1, 0},
		{2, 255},
	}
	for _, tc := range tests {
		if got := LifeColor(tc.fraction); got.R != tc.wantR || got.G != 0 || got.A != 255 {
			t.Errorf("LifeColor(%v) = %v", tc.fraction, got)
		}
	}
}

func TestOutputFiles(t *testing.T) {
	cfg := config.Default()
	cfg.Telemetry.StatsWindow = 1
	cfg.ComputeDerived()
	dir := t.TempDir()

	var windows int
	g := newTestGame(t, cfg, Options{
		OutputDir:     dir,
		StatsCallback: func(telemetry.WindowStats) { windows++ },
	})
	g.Run(cfg.Sim.TicksPerSecond * 3)
	if err := g.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if windows != 3 {
		t.Errorf("stats windows = %d, want 3", windows)
	}
	for _, name := range []string{"config.yaml", "telemetry.csv", "genes.csv", "perf.csv", "hall_of_fame.json"} {
		info, err := os.Stat(filepath.Join(dir, name))
		if err != nil {
			t.Errorf("%s: %v", name, err)
			continue
		}
		if info.Size() == 0 {
			t.Errorf("%s is empty", name)
		}
	}
}
