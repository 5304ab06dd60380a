package systems

import (
	"math"
	"math/rand"
	"testing"

	"github.com/pthm-cable/critters/components"
	"github.com/pthm-cable/critters/config"
)

func TestCrossoverWithoutMutationCopiesParents(t *testing.T) {
	cfg := config.Default()
	ranges := components.GeneRanges(cfg.Genes)
	rng := rand.New(rand.NewSource(42))

	p1 := components.Genes{Size: 12, Speed: 6, Vision: 55, ReproductiveRate: 3, Mutability: 0}
	p2 := components.Genes{Size: 28, Speed: 9, Vision: 95, ReproductiveRate: 9, Mutability: 0}

	for n := 0; n < 10000; n++ {
		child := Crossover(rng, p1, p2, ranges)
		for i := components.Gene(0); i < components.NumGenes; i++ {
			v := child.Get(i)
			if v != p1.Get(i) && v != p2.Get(i) {
				t.Fatalf("sample %d: gene %v = %v, not from either parent", n, i, v)
			}
		}
	}
}

func TestCrossoverFullMutationConvergesToMidRange(t *testing.T) {
	cfg := config.Default()
	ranges := components.GeneRanges(cfg.Genes)
	rng := rand.New(rand.NewSource(7))

	// Both parents sit at the range minimum, far from the middle.
	var p1, p2 components.Genes
	for i := components.Gene(0); i < components.NumGenes; i++ {
		p1.Set(i, ranges[i].Min)
		p2.Set(i, ranges[i].Min)
	}
	p1.Mutability, p2.Mutability = 1, 1

	const samples = 20000
	var sums [components.NumGenes]float64
	for n := 0; n < samples; n++ {
		child := Crossover(rng, p1, p2, ranges)
		for i := components.Gene(0); i < components.NumGenes; i++ {
			sums[i] += child.Get(i)
		}
	}

	for i := components.Gene(0); i < components.NumGenes; i++ {
		mean := sums[i] / samples
		mid := ranges[i].Mid()
		tol := (ranges[i].Max - ranges[i].Min) * 0.02
		if math.Abs(mean-mid) > tol {
			t.Errorf("gene %v mean = %.4f, want %.4f +- %.4f", i, mean, mid, tol)
		}
	}
}

func TestCrossoverIsNotClamped(t *testing.T) {
	ranges := components.GeneRanges(config.Default().Genes)
	rng := rand.New(rand.NewSource(1))

	// Parents far outside the range with small mutability stay outside.
	p := components.Genes{Size: 1000, Speed: 1000, Vision: 1000, ReproductiveRate: 1000, Mutability: 0.1}
	out := 0
	for n := 0; n < 100; n++ {
		if Crossover(rng, p, p, ranges).Size > ranges[components.GeneSize].Max {
			out++
		}
	}
	if out != 100 {
		t.Errorf("%d/100 children above max size, want all", out)
	}
}

func TestLifespan(t *testing.T) {
	cfg := config.Default()
	base := cfg.Derived.BaseLifespanTicks
	g := cfg.Genes

	tests := []struct {
		name  string
		genes components.Genes
		want  float64
	}{
		{"reference creature", components.Genes{Size: g.Size.Min, Speed: g.Speed.Min, Vision: g.Vision.Mid()}, base},
		{"double size lives twice as long", components.Genes{Size: 2 * g.Size.Min, Speed: g.Speed.Min, Vision: g.Vision.Mid()}, 2 * base},
		{"double speed halves life", components.Genes{Size: g.Size.Min, Speed: 2 * g.Speed.Min, Vision: g.Vision.Mid()}, base / 2},
		{"double vision halves life", components.Genes{Size: g.Size.Min, Speed: g.Speed.Min, Vision: 2 * g.Vision.Mid()}, base / 2},
		{"zero speed ignored", components.Genes{Size: g.Size.Min, Speed: 0, Vision: g.Vision.Mid()}, base},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Lifespan(tc.genes, cfg); math.Abs(got-tc.want) > 1e-9 {
				t.Errorf("Lifespan = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestRandomGenesSpeedPenalty(t *testing.T) {
	cfg := config.Default()
	rng := rand.New(rand.NewSource(5))
	for n := 0; n < 500; n++ {
		g := RandomGenes(rng, cfg)
		if !cfg.Genes.Size.Contains(g.Size) || !cfg.Genes.Vision.Contains(g.Vision) {
			t.Fatalf("gene out of range: %+v", g)
		}
		limit := cfg.Genes.Speed.Max / math.Pow(g.Size/cfg.Genes.Size.Min, cfg.Creature.SpeedSizePenalty)
		if g.Speed > limit+1e-9 {
			t.Fatalf("speed %v exceeds size-penalised limit %v", g.Speed, limit)
		}
	}
}

func TestRandomAndBirthPositionsStayOnBoard(t *testing.T) {
	b := Bounds{Width: 600, Height: 600}
	rng := rand.New(rand.NewSource(11))
	for n := 0; n < 500; n++ {
		p := RandomPosition(rng, 20, b)
		if p.X < 10 || p.X > 590 || p.Y < 10 || p.Y > 590 {
			t.Fatalf("random position %v off board", p)
		}
		c := BirthPosition(rng, p, 40, 20, b)
		if c.X < 10 || c.X > 590 || c.Y < 10 || c.Y > 590 {
			t.Fatalf("birth position %v off board", c)
		}
	}
}
