package game

import (
	"image/color"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/critters/components"
	"github.com/pthm-cable/critters/geom"
)

// FruitColor is the render colour of every fruit.
var FruitColor = color.RGBA{R: 60, G: 190, B: 75, A: 255}

// EntitySnapshot is the read-only render state of one entity.
type EntitySnapshot struct {
	ID           uint32
	Kind         components.Kind
	Pos          geom.Vec2
	Size         float64
	Color        color.RGBA
	LifeFraction float64
	UrgeFraction float64 // 0 for fruit
	State        components.State
}

// RenderSink receives entity snapshots. Update is called whenever an
// entity's snapshot changes, Remove once when it leaves the board.
// Implementations must not call back into the Game.
type RenderSink interface {
	Update(s EntitySnapshot)
	Remove(id uint32)
}

// LifeColor fades a creature from red at full life toward black.
func LifeColor(fraction float64) color.RGBA {
	fraction = max(0, min(fraction, 1))
	return color.RGBA{R: uint8(fraction * 255), A: 255}
}

func (g *Game) snapshotOf(e ecs.Entity) EntitySnapshot {
	ident := g.identMap.Get(e)
	life := g.lifeMap.Get(e)

	s := EntitySnapshot{
		ID:           ident.ID,
		Kind:         ident.Kind,
		Pos:          g.posMap.Get(e).Vec(),
		Size:         g.bodyMap.Get(e).Size,
		LifeFraction: life.Fraction(),
	}
	if ident.Kind == components.KindFruit {
		s.Color = FruitColor
		return s
	}

	mind := g.mindMap.Get(e)
	s.Color = LifeColor(s.LifeFraction)
	s.UrgeFraction = mind.Urge / g.cfg.Creature.MaxUrge
	s.State = mind.State
	return s
}

// pushRender sends e's snapshot to the sink if it changed since the last push.
func (g *Game) pushRender(e ecs.Entity) {
	if g.sink == nil {
		return
	}
	s := g.snapshotOf(e)
	if prev, ok := g.rendered[s.ID]; ok && prev == s {
		return
	}
	g.rendered[s.ID] = s
	g.sink.Update(s)
}

func (g *Game) dropRender(id uint32) {
	if g.sink == nil {
		return
	}
	delete(g.rendered, id)
	g.sink.Remove(id)
}

// Snapshots appends the render state of every live entity to dst in grid
// order. It is the pull counterpart of RenderSink.
func (g *Game) Snapshots(dst []EntitySnapshot) []EntitySnapshot {
	g.order = g.grid.Entities(g.order[:0])
	for _, e := range g.order {
		dst = append(dst, g.snapshotOf(e))
	}
	return dst
}
