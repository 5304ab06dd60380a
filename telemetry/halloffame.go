package telemetry

import (
	"encoding/json"
	"sort"
)

// Fitness weights for hall of fame ranking.
const (
	ChildrenWeight = 10.0
	SurvivalWeight = 1.0
	FruitWeight    = 0.5
)

// HallEntry records a successful creature at the moment it died.
type HallEntry struct {
	ID         uint32             `json:"id"`
	Name       string             `json:"name"`
	Fitness    float64            `json:"fitness"`
	Generation int                `json:"generation"`
	Children   int                `json:"children"`
	FruitEaten int                `json:"fruit_eaten"`
	Survival   float64            `json:"survival_sec"`
	Genes      map[string]float64 `json:"genes"`
}

// HallOfFame keeps the fittest creatures seen so far, sorted by fitness.
type HallOfFame struct {
	hall    []HallEntry
	maxSize int
}

// NewHallOfFame creates a hall with the given capacity.
func NewHallOfFame(maxSize int) *HallOfFame {
	return &HallOfFame{
		hall:    make([]HallEntry, 0, maxSize),
		maxSize: maxSize,
	}
}

// Fitness scores a finished lifetime.
func Fitness(stats *LifetimeStats) float64 {
	return float64(stats.Children)*ChildrenWeight +
		stats.SurvivalTimeSec*SurvivalWeight +
		float64(stats.FruitEaten)*FruitWeight
}

// Consider evaluates a dead creature for entry.
// Returns true if the creature was added to the hall.
func (hof *HallOfFame) Consider(id uint32, name string, genes map[string]float64, stats *LifetimeStats) bool {
	if hof == nil || stats == nil || hof.maxSize <= 0 {
		return false
	}

	entry := HallEntry{
		ID:         id,
		Name:       name,
		Fitness:    Fitness(stats),
		Generation: stats.Generation,
		Children:   stats.Children,
		FruitEaten: stats.FruitEaten,
		Survival:   stats.SurvivalTimeSec,
		Genes:      genes,
	}

	// Find insertion point (sorted descending by fitness)
	idx := sort.Search(len(hof.hall), func(i int) bool {
		return hof.hall[i].Fitness < entry.Fitness
	})

	// If hall is full and entry would be last (lowest), skip it
	if idx >= hof.maxSize {
		return false
	}

	hof.hall = append(hof.hall, HallEntry{})
	copy(hof.hall[idx+1:], hof.hall[idx:])
	hof.hall[idx] = entry

	if len(hof.hall) > hof.maxSize {
		hof.hall = hof.hall[:hof.maxSize]
	}
	return true
}

// Entries returns the hall, fittest first.
func (hof *HallOfFame) Entries() []HallEntry {
	if hof == nil {
		return nil
	}
	return hof.hall
}

// Size returns the number of entries.
func (hof *HallOfFame) Size() int {
	if hof == nil {
		return 0
	}
	return len(hof.hall)
}

// TopFitness returns the highest fitness in the hall, or 0 if empty.
func (hof *HallOfFame) TopFitness() float64 {
	if hof == nil || len(hof.hall) == 0 {
		return 0
	}
	return hof.hall[0].Fitness
}

// MarshalJSON serializes the hall as a JSON array.
func (hof *HallOfFame) MarshalJSON() ([]byte, error) {
	return json.MarshalIndent(hof.Entries(), "", "  ")
}
