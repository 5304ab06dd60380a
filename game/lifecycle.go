package game

import (
	"log/slog"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/critters/components"
	"github.com/pthm-cable/critters/geom"
	"github.com/pthm-cable/critters/systems"
	"github.com/pthm-cable/critters/telemetry"
)

// SpawnRequest describes a creature to spawn. Nil fields are drawn at random.
type SpawnRequest struct {
	Genes *components.Genes
	Pos   *geom.Vec2
}

// spawnInitialPopulation creates the starting entities.
func (g *Game) spawnInitialPopulation() {
	for i := 0; i < g.cfg.Fruit.Initial; i++ {
		g.SpawnFruit()
	}
	for i := 0; i < g.cfg.Creature.Initial; i++ {
		g.spawnRandomCreature()
	}
}

// spawnAmbient draws this tick's fruit and random creature arrivals.
func (g *Game) spawnAmbient() {
	d := g.cfg.Derived

	expected := g.cfg.Fruit.SpawnRate * float64(d.Cells) / d.TPS
	for n := systems.SpawnCount(g.rng, expected); n > 0; n-- {
		g.SpawnFruit()
	}

	if systems.Chance(g.rng, g.cfg.Creature.SpawnRate, d.TPS) {
		g.spawnRandomCreature()
	}
}

// SpawnCreature validates and spawns a creature. Explicit genes must lie in
// their configured ranges and are used verbatim; missing genes are drawn the
// way ambient spawns draw them. Nothing is created when validation fails.
func (g *Game) SpawnCreature(req SpawnRequest) (uint32, error) {
	if g.closed {
		return 0, ErrClosed
	}

	var genes components.Genes
	if req.Genes != nil {
		genes = *req.Genes
		for i := components.Gene(0); i < components.NumGenes; i++ {
			r := g.ranges[i]
			if v := genes.Get(i); !r.Contains(v) {
				return 0, &GeneRangeError{Gene: i.String(), Value: v, Min: r.Min, Max: r.Max}
			}
		}
	} else {
		genes = systems.RandomGenes(g.rng, g.cfg)
	}

	var pos geom.Vec2
	if req.Pos != nil {
		pos = *req.Pos
		if pos.X < 0 || pos.Y < 0 || pos.X > g.bounds.Width || pos.Y > g.bounds.Height {
			return 0, ErrOutOfBounds
		}
	} else {
		pos = systems.RandomPosition(g.rng, genes.Size, g.bounds)
	}

	id, _ := g.spawnCreature(genes, pos)
	g.lifetimeTracker.Register(id, g.tick)
	g.collector.RecordCreature(telemetry.OriginSpawn)
	return id, nil
}

func (g *Game) spawnRandomCreature() uint32 {
	genes := systems.RandomGenes(g.rng, g.cfg)
	pos := systems.RandomPosition(g.rng, genes.Size, g.bounds)

	id, _ := g.spawnCreature(genes, pos)
	g.lifetimeTracker.Register(id, g.tick)
	g.collector.RecordCreature(telemetry.OriginSpawn)
	return id
}

// spawnCreature creates the entity and places it in the grid before it can
// take part in any query.
func (g *Game) spawnCreature(genes components.Genes, at geom.Vec2) (uint32, ecs.Entity) {
	id := g.nextID
	g.nextID++

	pos := components.Position{X: at.X, Y: at.Y}
	vel := components.Velocity{}
	body := components.Body{Size: genes.Size}
	life := components.Life{Lifespan: systems.Lifespan(genes, g.cfg)}
	ident := components.Identity{ID: id, Kind: components.KindCreature, Name: randomName(g.rng)}
	mind := components.Mind{}

	e := g.creatureMapper.NewEntity(&pos, &vel, &body, &life, &ident, &genes, &mind)
	g.grid.Insert(e, g.grid.CellIndexFor(at))
	g.creatures[id] = e
	g.pushRender(e)

	return id, e
}

// SpawnFruit places a fruit at a random position on the board.
func (g *Game) SpawnFruit() uint32 {
	return g.SpawnFruitAt(systems.RandomPosition(g.rng, g.cfg.Fruit.Size, g.bounds))
}

// SpawnFruitAt places a fruit at p. Returns 0 after Close.
func (g *Game) SpawnFruitAt(p geom.Vec2) uint32 {
	if g.closed {
		return 0
	}
	id := g.nextID
	g.nextID++

	pos := components.Position{X: p.X, Y: p.Y}
	body := components.Body{Size: g.cfg.Fruit.Size}
	life := components.Life{Lifespan: float64(g.cfg.Derived.FruitLifespanTicks)}
	ident := components.Identity{ID: id, Kind: components.KindFruit}

	e := g.fruitMapper.NewEntity(&pos, &body, &life, &ident)
	g.grid.Insert(e, g.grid.CellIndexFor(p))
	g.numFruits++
	g.collector.RecordFruitSpawn()
	g.pushRender(e)

	return id
}

// birth creates the offspring of a completed pairing next to parent 1.
// The pipeline has already checked both parents are alive this tick.
func (g *Game) birth(parent1, parent2 uint32) {
	e1, ok1 := g.creatures[parent1]
	e2, ok2 := g.creatures[parent2]
	if !ok1 || !ok2 {
		return
	}

	genes := systems.Crossover(g.rng, *g.genesMap.Get(e1), *g.genesMap.Get(e2), g.ranges)
	at := systems.BirthPosition(g.rng, g.posMap.Get(e1).Vec(), g.cfg.Reproduction.BirthOffset, genes.Size, g.bounds)

	id, _ := g.spawnCreature(genes, at)
	g.lifetimeTracker.RegisterChild(id, g.tick, parent1, parent2)
	g.collector.RecordCreature(telemetry.OriginBirth)

	slog.Debug("birth",
		"id", id,
		"parent1", parent1,
		"parent2", parent2,
		"generation", g.lifetimeTracker.Get(id).Generation,
		"tick", g.tick,
	)
}

// killCreature removes a creature from the grid, the id index and the world
// in one step.
func (g *Game) killCreature(e ecs.Entity) {
	ident := g.identMap.Get(e)
	id := ident.ID

	g.considerForHall(id, e)
	g.lifetimeTracker.Remove(id)
	g.collector.RecordCreatureDeath()

	g.grid.Remove(e)
	delete(g.creatures, id)
	g.world.RemoveEntity(e)
	g.dropRender(id)

	if g.focused == id {
		g.focused = 0
	}
	if len(g.creatures) == 0 {
		slog.Info("creatures extinct", "tick", g.tick)
	}
}

// killFruit removes an eaten or expired fruit.
func (g *Game) killFruit(e ecs.Entity, cause telemetry.DeathCause) {
	id := g.identMap.Get(e).ID

	g.grid.Remove(e)
	g.world.RemoveEntity(e)
	g.numFruits--
	g.collector.RecordFruitGone(cause)
	g.dropRender(id)
}

// considerForHall scores a creature's lifetime for the hall of fame.
func (g *Game) considerForHall(id uint32, e ecs.Entity) {
	if g.hallOfFame == nil {
		return
	}
	stats := g.lifetimeTracker.Get(id)
	if stats == nil {
		return
	}
	g.lifetimeTracker.UpdateSurvivalTime(id, g.tick, g.cfg.Derived.TPS)
	g.hallOfFame.Consider(id, g.identMap.Get(e).Name, g.genesMap.Get(e).Map(), stats)
}
