// Package game owns the simulation world: the ECS store, the spatial grid,
// the reproduction pipeline and the fixed-timestep scheduler that drives them.
package game

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/critters/components"
	"github.com/pthm-cable/critters/config"
	"github.com/pthm-cable/critters/systems"
	"github.com/pthm-cable/critters/telemetry"
)

var (
	// ErrCreatureNotFound is returned when an id does not name a live creature.
	ErrCreatureNotFound = errors.New("creature not found")
	// ErrClosed is returned by commands issued after Close.
	ErrClosed = errors.New("simulation closed")
	// ErrOutOfBounds is returned for explicit spawn positions off the board.
	ErrOutOfBounds = errors.New("position outside the board")
)

// GeneRangeError reports an explicit gene value outside its configured range.
type GeneRangeError struct {
	Gene     string
	Value    float64
	Min, Max float64
}

func (e *GeneRangeError) Error() string {
	return fmt.Sprintf("gene %s: %g outside [%g, %g]", e.Gene, e.Value, e.Min, e.Max)
}

// Options configures a Game beyond the simulation config.
type Options struct {
	Seed int64      // RNG seed (0 = time-based); ignored when Rand is set
	Rand *rand.Rand // explicit source, for tests

	RenderSink     RenderSink
	StatsCallback  func(telemetry.WindowStats)
	SampleCallback func(telemetry.GeneSample)

	OutputDir string // CSV logs and config snapshot (empty = off)
	LogStats  bool
}

// Game holds the complete simulation state.
type Game struct {
	cfg   *config.Config
	world *ecs.World
	rng   *rand.Rand

	// Creature archetype
	creatureMapper *ecs.Map7[
		components.Position,
		components.Velocity,
		components.Body,
		components.Life,
		components.Identity,
		components.Genes,
		components.Mind,
	]
	creatureFilter *ecs.Filter7[
		components.Position,
		components.Velocity,
		components.Body,
		components.Life,
		components.Identity,
		components.Genes,
		components.Mind,
	]

	// Fruit archetype
	fruitMapper *ecs.Map4[
		components.Position,
		components.Body,
		components.Life,
		components.Identity,
	]

	// Individual component mappers for lookups
	posMap   *ecs.Map1[components.Position]
	velMap   *ecs.Map1[components.Velocity]
	bodyMap  *ecs.Map1[components.Body]
	lifeMap  *ecs.Map1[components.Life]
	identMap *ecs.Map1[components.Identity]
	genesMap *ecs.Map1[components.Genes]
	mindMap  *ecs.Map1[components.Mind]

	// Live creatures by id. Cross-entity references resolve through here.
	creatures map[uint32]ecs.Entity

	grid     *systems.SpatialGrid
	bounds   systems.Bounds
	behavior systems.Behavior
	breeding *systems.BreedingSystem
	ranges   [components.NumGenes]config.GeneRange

	// Scratch buffers reused across ticks
	order      []ecs.Entity
	neighbors  []systems.Neighbor
	colliding  []systems.Neighbor
	geneValues [components.NumGenes][]float64

	// Render sink and the last snapshot pushed per id
	sink     RenderSink
	rendered map[uint32]EntitySnapshot

	// Telemetry
	collector        *telemetry.Collector
	perfCollector    *telemetry.PerfCollector
	lifetimeTracker  *telemetry.LifetimeTracker
	hallOfFame       *telemetry.HallOfFame
	bookmarkDetector *telemetry.BookmarkDetector
	outputManager    *telemetry.OutputManager
	popWindow        *telemetry.PopulationWindow
	lastSample       telemetry.GeneSample
	statsCallback    func(telemetry.WindowStats)
	sampleCallback   func(telemetry.GeneSample)
	logStats         bool

	// State
	tick      int64
	nextID    uint32
	numFruits int
	focused   uint32
	closed    bool
}

// New validates cfg and builds a simulation seeded with the initial population.
// No state is constructed when the configuration is invalid.
func New(cfg *config.Config, opts Options) (*Game, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: nil config", config.ErrInvalid)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.Clone()
	cfg.ComputeDerived()

	rng := opts.Rand
	if rng == nil {
		seed := opts.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		rng = rand.New(rand.NewSource(seed))
	}

	outputManager, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("creating output manager: %w", err)
	}
	if outputManager != nil {
		if err := outputManager.WriteConfig(cfg); err != nil {
			outputManager.Close()
			return nil, fmt.Errorf("writing config snapshot: %w", err)
		}
	}

	world := ecs.NewWorld()
	d := cfg.Derived

	g := &Game{
		cfg:   cfg,
		world: world,
		rng:   rng,
		creatureMapper: ecs.NewMap7[
			components.Position,
			components.Velocity,
			components.Body,
			components.Life,
			components.Identity,
			components.Genes,
			components.Mind,
		](world),
		creatureFilter: ecs.NewFilter7[
			components.Position,
			components.Velocity,
			components.Body,
			components.Life,
			components.Identity,
			components.Genes,
			components.Mind,
		](world),
		fruitMapper: ecs.NewMap4[
			components.Position,
			components.Body,
			components.Life,
			components.Identity,
		](world),
		posMap:   ecs.NewMap1[components.Position](world),
		velMap:   ecs.NewMap1[components.Velocity](world),
		bodyMap:  ecs.NewMap1[components.Body](world),
		lifeMap:  ecs.NewMap1[components.Life](world),
		identMap: ecs.NewMap1[components.Identity](world),
		genesMap: ecs.NewMap1[components.Genes](world),
		mindMap:  ecs.NewMap1[components.Mind](world),

		creatures: make(map[uint32]ecs.Entity),
		grid:      systems.NewSpatialGrid(cfg.Board.Width, cfg.Board.Height, cfg.Board.CellSize),
		bounds:    systems.Bounds{Width: d.BoardW, Height: d.BoardH},
		behavior:  systems.Behavior{MoveChance: cfg.Creature.MoveChance, TPS: d.TPS},
		breeding:  systems.NewBreedingSystem(d.CooldownTicks, d.IncubationTicks),
		ranges:    components.GeneRanges(cfg.Genes),

		sink:     opts.RenderSink,
		rendered: make(map[uint32]EntitySnapshot),

		collector:        telemetry.NewCollector(d.StatsWindowTicks, d.TPS),
		perfCollector:    telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
		lifetimeTracker:  telemetry.NewLifetimeTracker(),
		bookmarkDetector: telemetry.NewBookmarkDetector(10),
		outputManager:    outputManager,
		popWindow:        telemetry.NewPopulationWindow(cfg.Sim.PopulationWindow),
		statsCallback:    opts.StatsCallback,
		sampleCallback:   opts.SampleCallback,
		logStats:         opts.LogStats,

		nextID: 1,
	}
	if cfg.Telemetry.HallOfFame > 0 {
		g.hallOfFame = telemetry.NewHallOfFame(cfg.Telemetry.HallOfFame)
	}

	g.spawnInitialPopulation()

	slog.Info("simulation created",
		"board", fmt.Sprintf("%dx%d", cfg.Board.Width, cfg.Board.Height),
		"cell_size", cfg.Board.CellSize,
		"tps", cfg.Sim.TicksPerSecond,
		"creatures", len(g.creatures),
		"fruits", g.numFruits,
	)

	return g, nil
}

// Step runs a single tick of the simulation. It is a no-op after Close.
func (g *Game) Step() {
	if g.closed {
		return
	}
	g.perfCollector.StartTick()

	// 1. Gene statistics
	g.perfCollector.StartPhase(telemetry.PhaseGeneSample)
	if n := int64(g.cfg.Derived.GeneSampleTicks); n > 0 && g.tick%n == 0 {
		g.recordGeneSample()
	}

	// 2. Every live entity, in grid order
	g.perfCollector.StartPhase(telemetry.PhaseEntities)
	g.updateEntities()

	// 3. Reproduction pipeline
	g.perfCollector.StartPhase(telemetry.PhaseBreeding)
	g.breeding.Update(g.tick, pairEnv{g})

	// 4. Ambient spawning
	g.perfCollector.StartPhase(telemetry.PhaseSpawning)
	g.spawnAmbient()

	g.tick++

	// 5. Population window, once per simulated second
	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	if g.tick%int64(g.cfg.Sim.TicksPerSecond) == 0 {
		g.popWindow.Push(len(g.creatures))
	}
	g.flushTelemetry()

	g.perfCollector.EndTick()
}

// Run steps the simulation n times.
func (g *Game) Run(n int) {
	for i := 0; i < n && !g.closed; i++ {
		g.Step()
	}
}

// Close tears the simulation down. Pending reproductions are discarded
// without producing offspring; telemetry outputs are flushed and closed.
func (g *Game) Close() error {
	if g.closed {
		return nil
	}
	g.closed = true

	if n := g.breeding.Cancel(); n > 0 {
		slog.Info("discarded pending pairings", "count", n, "tick", g.tick)
	}

	// Survivors compete for the hall of fame as well.
	for id, e := range g.creatures {
		g.considerForHall(id, e)
	}

	var errs []error
	if g.outputManager != nil {
		if err := g.outputManager.WriteHallOfFame(g.hallOfFame); err != nil {
			errs = append(errs, err)
		}
		if err := g.outputManager.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	slog.Info("simulation closed", "tick", g.tick, "creatures", len(g.creatures), "fruits", g.numFruits)
	return errors.Join(errs...)
}

// Closed reports whether Close has been called.
func (g *Game) Closed() bool {
	return g.closed
}

// Tick returns the number of completed ticks.
func (g *Game) Tick() int64 {
	return g.tick
}

// SimTime returns the simulated time in seconds.
func (g *Game) SimTime() float64 {
	return float64(g.tick) / g.cfg.Derived.TPS
}

// Config returns the validated configuration the simulation runs with.
func (g *Game) Config() *config.Config {
	return g.cfg
}

// Bounds returns the board size in world units.
func (g *Game) Bounds() systems.Bounds {
	return g.bounds
}

// Grid exposes the spatial partition for read-only use by render adapters.
func (g *Game) Grid() *systems.SpatialGrid {
	return g.grid
}

// NumCreatures returns the live creature count.
func (g *Game) NumCreatures() int {
	return len(g.creatures)
}

// NumFruits returns the live fruit count.
func (g *Game) NumFruits() int {
	return g.numFruits
}

// PendingPairings returns the number of pairs in the reproduction pipeline.
func (g *Game) PendingPairings() int {
	return g.breeding.Len()
}

// PopulationAverage returns the rolling average of the creature count.
func (g *Game) PopulationAverage() float64 {
	return g.popWindow.Average()
}

// PopulationHistory returns the samples behind PopulationAverage, oldest first.
func (g *Game) PopulationHistory() []int {
	return g.popWindow.Values()
}

// LastGeneSample returns the most recent scheduled gene sample.
func (g *Game) LastGeneSample() telemetry.GeneSample {
	return g.lastSample
}

// PerfStats returns timing statistics over the perf window.
func (g *Game) PerfStats() telemetry.PerfStats {
	return g.perfCollector.Stats()
}

// RecordFrame feeds frame timing from a graphical front end.
func (g *Game) RecordFrame() {
	g.perfCollector.RecordFrame()
}

// HallOfFame returns the fittest creatures seen so far, or nil when disabled.
func (g *Game) HallOfFame() []telemetry.HallEntry {
	return g.hallOfFame.Entries()
}

// updateEntities ticks every live entity. The order is snapshotted from the
// grid first; entities removed earlier in the pass are skipped.
func (g *Game) updateEntities() {
	g.order = g.grid.Entities(g.order[:0])
	for _, e := range g.order {
		if !g.world.Alive(e) {
			continue
		}
		if g.identMap.Get(e).Kind == components.KindCreature {
			g.updateCreature(e)
		} else {
			g.updateFruit(e)
		}
	}
}

// pairEnv adapts the Game to the reproduction pipeline callbacks.
type pairEnv struct {
	g *Game
}

func (p pairEnv) Alive(id uint32) bool {
	_, ok := p.g.creatures[id]
	return ok
}

func (p pairEnv) Release(id uint32) {
	if e, ok := p.g.creatures[id]; ok {
		p.g.mindMap.Get(e).ResetCourtship()
		p.g.pushRender(e)
	}
}

func (p pairEnv) Birth(parent1, parent2 uint32) {
	p.g.birth(parent1, parent2)
}

func (p pairEnv) Aborted(pr systems.Pairing) {
	p.g.collector.RecordPairingAborted()
	slog.Debug("pairing aborted",
		"parent1", pr.Parent1,
		"parent2", pr.Parent2,
		"stage", pr.Stage.String(),
		"tick", p.g.tick,
	)
}
