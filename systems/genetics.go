package systems

import (
	"math"
	"math/rand"

	"github.com/pthm-cable/critters/components"
	"github.com/pthm-cable/critters/config"
	"github.com/pthm-cable/critters/geom"
)

// Crossover produces child genes from two parents. Each gene comes from
// either parent with equal chance, then with probability equal to the
// parents' mean mutability it drifts toward a uniform draw from its range by
// that same factor. Results are not clamped to the range.
func Crossover(rng *rand.Rand, p1, p2 components.Genes, ranges [components.NumGenes]config.GeneRange) components.Genes {
	avgMut := (p1.Mutability + p2.Mutability) / 2

	var child components.Genes
	for i := components.Gene(0); i < components.NumGenes; i++ {
		v := p1.Get(i)
		if rng.Float64() < 0.5 {
			v = p2.Get(i)
		}
		if rng.Float64() < avgMut {
			r := ranges[i]
			target := r.Min + rng.Float64()*(r.Max-r.Min)
			v = geom.Lerp(v, target, avgMut)
		}
		child.Set(i, v)
	}
	return child
}

// Lifespan returns a creature's lifespan in ticks. Bigger bodies live
// longer; faster bodies and sharper vision live shorter. Non-positive speed
// or vision leave the corresponding factor at 1.
func Lifespan(g components.Genes, cfg *config.Config) float64 {
	genes := cfg.Genes
	life := cfg.Derived.BaseLifespanTicks

	if genes.Size.Min > 0 {
		life *= g.Size / genes.Size.Min
	}
	if g.Speed > 0 {
		life *= genes.Speed.Min / g.Speed
	}
	if g.Vision > 0 {
		life *= genes.Vision.Mid() / g.Vision
	}
	return life
}

// RandomGenes draws every gene uniformly from its range, then slows the
// creature down in proportion to its size.
func RandomGenes(rng *rand.Rand, cfg *config.Config) components.Genes {
	ranges := components.GeneRanges(cfg.Genes)

	var g components.Genes
	for i := components.Gene(0); i < components.NumGenes; i++ {
		r := ranges[i]
		g.Set(i, r.Min+rng.Float64()*(r.Max-r.Min))
	}

	if minSize := cfg.Genes.Size.Min; minSize > 0 {
		g.Speed /= math.Pow(g.Size/minSize, cfg.Creature.SpeedSizePenalty)
	}
	return g
}

// RandomPosition returns a point keeping a body of the given size fully on
// the board.
func RandomPosition(rng *rand.Rand, size float64, b Bounds) geom.Vec2 {
	r := size / 2
	return geom.Vec2{
		X: r + rng.Float64()*max(b.Width-size, 0),
		Y: r + rng.Float64()*max(b.Height-size, 0),
	}
}

// BirthPosition returns a point within offset of the parent, kept on the
// board.
func BirthPosition(rng *rand.Rand, parent geom.Vec2, offset, size float64, b Bounds) geom.Vec2 {
	p := parent.Add(geom.Polar{
		Magnitude: rng.Float64() * offset,
		Direction: rng.Float64() * 2 * math.Pi,
	}.Cartesian())

	r := size / 2
	p.X = max(r, min(p.X, b.Width-r))
	p.Y = max(r, min(p.Y, b.Height-r))
	return p
}
