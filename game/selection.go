package game

import (
	"github.com/pthm-cable/critters/components"
	"github.com/pthm-cable/critters/geom"
)

// CreatureSnapshot is the inspection view of one creature.
type CreatureSnapshot struct {
	Identity components.Identity
	Genes    components.Genes
	Body     components.Body
	Life     components.Life
	Mind     components.Mind
	Pos      geom.Vec2

	WantsToReproduce bool
	Generation       int
	Children         int
	FruitEaten       int
}

// Name returns the creature's generated name.
func (s CreatureSnapshot) Name() string { return s.Identity.Name }

// State returns the creature's behavioural state.
func (s CreatureSnapshot) State() components.State { return s.Mind.State }

// CreatureSnapshot returns the current state of a live creature, or
// ErrCreatureNotFound once it has died.
func (g *Game) CreatureSnapshot(id uint32) (CreatureSnapshot, error) {
	e, ok := g.creatures[id]
	if !ok {
		return CreatureSnapshot{}, ErrCreatureNotFound
	}

	s := CreatureSnapshot{
		Identity: *g.identMap.Get(e),
		Genes:    *g.genesMap.Get(e),
		Body:     *g.bodyMap.Get(e),
		Life:     *g.lifeMap.Get(e),
		Mind:     *g.mindMap.Get(e),
		Pos:      g.posMap.Get(e).Vec(),
	}
	s.WantsToReproduce = s.Mind.WantsToReproduce(s.Life)
	if stats := g.lifetimeTracker.Get(id); stats != nil {
		s.Generation = stats.Generation
		s.Children = stats.Children
		s.FruitEaten = stats.FruitEaten
	}
	return s, nil
}

// Focus marks a creature as the inspection target. Focus(0) clears it.
// Returns ErrCreatureNotFound for ids that do not name a live creature.
func (g *Game) Focus(id uint32) error {
	if id == 0 {
		g.focused = 0
		return nil
	}
	if _, ok := g.creatures[id]; !ok {
		return ErrCreatureNotFound
	}
	g.focused = id
	return nil
}

// Focused returns the inspected creature, cleared automatically when it dies.
func (g *Game) Focused() (uint32, bool) {
	return g.focused, g.focused != 0
}

// CreatureAt returns the creature whose body contains p, preferring the
// closest centre. Only the grid block around p is searched.
func (g *Game) CreatureAt(p geom.Vec2) (uint32, bool) {
	var (
		best     uint32
		bestDist float64
	)
	cell := g.grid.CellIndexFor(p)
	var buf [9]int
	for _, idx := range g.grid.NeighborCells(cell, buf[:0]) {
		for _, e := range g.grid.Cell(idx) {
			ident := g.identMap.Get(e)
			if ident.Kind != components.KindCreature {
				continue
			}
			d := geom.Distance(p, g.posMap.Get(e).Vec())
			if d > g.bodyMap.Get(e).Radius() {
				continue
			}
			if best == 0 || d < bestDist {
				best, bestDist = ident.ID, d
			}
		}
	}
	return best, best != 0
}
