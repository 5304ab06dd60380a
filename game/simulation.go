package game

import (
	"log/slog"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/critters/components"
	"github.com/pthm-cable/critters/systems"
	"github.com/pthm-cable/critters/telemetry"
)

// updateFruit ages a fruit and removes it at the end of its lifespan.
func (g *Game) updateFruit(e ecs.Entity) {
	life := g.lifeMap.Get(e)
	life.Age++
	if life.Expired() {
		g.killFruit(e, telemetry.DeathAge)
		return
	}
	g.pushRender(e)
}

// updateCreature runs one creature tick: aging, state machine, movement,
// wall handling, re-bucketing, then collisions.
func (g *Game) updateCreature(e ecs.Entity) {
	pos := g.posMap.Get(e)
	vel := g.velMap.Get(e)
	body := g.bodyMap.Get(e)
	life := g.lifeMap.Get(e)
	ident := g.identMap.Get(e)
	genes := g.genesMap.Get(e)
	mind := g.mindMap.Get(e)

	life.Age++
	if life.Expired() {
		g.killCreature(e)
		return
	}

	mind.AddUrge(genes.ReproductiveRate/g.cfg.Derived.TPS, g.cfg.Creature.MaxUrge)

	cell, _ := g.grid.CellOf(e)
	g.neighbors = g.collectNeighbors(e, cell, g.neighbors[:0])

	d := g.behavior.Decide(systems.Self{
		ID:        ident.ID,
		Pos:       pos.Vec(),
		Cell:      cell,
		Vision:    genes.Vision,
		WantsMate: mind.WantsToReproduce(*life),
		Mind:      *mind,
	}, g.neighbors, g.grid, g.rng)
	fresh := applyDecision(mind, vel, d)

	if mind.State == components.StateReproducing {
		vel.Stop()
	} else {
		systems.Steer(mind, *pos, vel, genes.Speed, fresh)
	}

	systems.BounceWalls(*pos, vel, body.Size, g.bounds)
	systems.Integrate(pos, *vel)
	cell = g.grid.CellIndexFor(pos.Vec())
	g.grid.Move(e, cell)

	g.resolveCollisions(e, cell)
	g.pushRender(e)
}

// applyDecision writes a behaviour decision into the mind. It reports
// whether the target is new, which makes steering recompute the bearing.
func applyDecision(mind *components.Mind, vel *components.Velocity, d systems.Decision) bool {
	fresh := d.HasTarget &&
		(!mind.HasTarget || mind.Target != d.Target || mind.State != d.State)

	mind.State = d.State
	mind.MateID = d.MateID
	if d.HasTarget {
		mind.SetTarget(d.Target)
	} else {
		mind.ClearTarget()
		vel.Stop()
	}
	return fresh
}

// collectNeighbors snapshots the entities in the 3x3 block around cell.
func (g *Game) collectNeighbors(self ecs.Entity, cell int, dst []systems.Neighbor) []systems.Neighbor {
	var buf [9]int
	for _, idx := range g.grid.NeighborCells(cell, buf[:0]) {
		for _, e := range g.grid.Cell(idx) {
			if e == self {
				continue
			}
			ident := g.identMap.Get(e)
			n := systems.Neighbor{
				E:    e,
				ID:   ident.ID,
				Kind: ident.Kind,
				Pos:  g.posMap.Get(e).Vec(),
				Size: g.bodyMap.Get(e).Size,
			}
			if ident.Kind == components.KindCreature {
				n.Eligible = g.eligibleMate(e, ident.ID)
			}
			dst = append(dst, n)
		}
	}
	return dst
}

// eligibleMate reports whether a creature would accept a mating trigger now.
func (g *Game) eligibleMate(e ecs.Entity, id uint32) bool {
	mind := g.mindMap.Get(e)
	if mind.State == components.StateReproducing || g.breeding.Locked(id) {
		return false
	}
	return mind.WantsToReproduce(*g.lifeMap.Get(e))
}

// resolveCollisions actions at most one fruit and one mating trigger,
// first match in neighbour order.
func (g *Game) resolveCollisions(e ecs.Entity, cell int) {
	pos := g.posMap.Get(e)
	body := g.bodyMap.Get(e)
	mind := g.mindMap.Get(e)

	g.neighbors = g.collectNeighbors(e, cell, g.neighbors[:0])
	g.colliding = systems.CheckCollisions(pos.Vec(), body.Size, g.neighbors, g.colliding[:0])
	if len(g.colliding) == 0 {
		return
	}

	c := systems.ResolveContacts(g.colliding, mind.MateID, mind.State == components.StateReproducing)
	if c.HasFruit {
		g.eat(e, c.Fruit.E)
	}
	if c.HasMate {
		g.startPairing(e, c.Mate.E)
	}
}

// eat consumes a fruit and rolls the creature's age back by the feed amount.
func (g *Game) eat(e, fruit ecs.Entity) {
	g.killFruit(fruit, telemetry.DeathEaten)

	g.lifeMap.Get(e).Feed(g.cfg.Derived.FeedTicks)
	g.lifetimeTracker.RecordFruit(g.identMap.Get(e).ID)

	if mind := g.mindMap.Get(e); mind.State == components.StateSeekingFood {
		mind.State = components.StateIdle
		mind.ClearTarget()
		g.velMap.Get(e).Stop()
	}
}

// startPairing enters both creatures into the reproduction pipeline. The
// mate references become symmetric here and stay so until release.
func (g *Game) startPairing(a, b ecs.Entity) {
	idA := g.identMap.Get(a).ID
	idB := g.identMap.Get(b).ID
	if !g.breeding.Propose(idA, idB, g.tick) {
		return
	}

	for _, pair := range [2][2]ecs.Entity{{a, b}, {b, a}} {
		mind := g.mindMap.Get(pair[0])
		mind.State = components.StateReproducing
		mind.MateID = g.identMap.Get(pair[1]).ID
		mind.ClearTarget()
		g.velMap.Get(pair[0]).Stop()
	}
	g.pushRender(b)
	g.collector.RecordPairing()

	slog.Debug("pairing", "parent1", idA, "parent2", idB, "tick", g.tick)
}
