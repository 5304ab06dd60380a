// Package components defines ECS components for the simulation.
package components

import "github.com/pthm-cable/critters/config"

// Gene indexes one heritable attribute.
type Gene int

const (
	GeneSize Gene = iota
	GeneSpeed
	GeneVision
	GeneReproductiveRate
	GeneMutability
	NumGenes
)

var geneNames = [NumGenes]string{"size", "speed", "vision", "reproductive_rate", "mutability"}

// String returns the gene's config/telemetry name.
func (g Gene) String() string {
	if g < 0 || g >= NumGenes {
		return "unknown"
	}
	return geneNames[g]
}

// GeneNames returns all gene names in index order.
func GeneNames() []string {
	return geneNames[:]
}

// Genes holds a creature's heritable attributes. Fixed for its lifetime.
type Genes struct {
	Size             float64 `inspect:"bar,max:30"`
	Speed            float64 `inspect:"bar,max:10"`
	Vision           float64 `inspect:"bar,max:100"`
	ReproductiveRate float64 `inspect:"bar,max:10"`
	Mutability       float64 `inspect:"bar,max:1"`
}

// Get returns the value of gene i.
func (g Genes) Get(i Gene) float64 {
	switch i {
	case GeneSize:
		return g.Size
	case GeneSpeed:
		return g.Speed
	case GeneVision:
		return g.Vision
	case GeneReproductiveRate:
		return g.ReproductiveRate
	case GeneMutability:
		return g.Mutability
	}
	return 0
}

// Set assigns the value of gene i.
func (g *Genes) Set(i Gene, v float64) {
	switch i {
	case GeneSize:
		g.Size = v
	case GeneSpeed:
		g.Speed = v
	case GeneVision:
		g.Vision = v
	case GeneReproductiveRate:
		g.ReproductiveRate = v
	case GeneMutability:
		g.Mutability = v
	}
}

// Map returns the genes keyed by name.
func (g Genes) Map() map[string]float64 {
	m := make(map[string]float64, NumGenes)
	for i := Gene(0); i < NumGenes; i++ {
		m[i.String()] = g.Get(i)
	}
	return m
}

// GeneRanges returns the configured ranges in gene index order.
func GeneRanges(c config.GenesConfig) [NumGenes]config.GeneRange {
	return [NumGenes]config.GeneRange{
		GeneSize:             c.Size,
		GeneSpeed:            c.Speed,
		GeneVision:           c.Vision,
		GeneReproductiveRate: c.ReproductiveRate,
		GeneMutability:       c.Mutability,
	}
}
