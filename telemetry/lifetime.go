package telemetry

// LifetimeStats tracks per-creature statistics over its lifetime.
type LifetimeStats struct {
	BirthTick       int64
	SurvivalTimeSec float64
	Origin          Origin

	// Lineage
	Generation       int
	Parent1, Parent2 uint32

	Children   int
	FruitEaten int
}

// LifetimeTracker manages per-creature lifetime statistics, keyed by
// creature ID.
type LifetimeTracker struct {
	stats map[uint32]*LifetimeStats
}

// NewLifetimeTracker creates a new lifetime tracker.
func NewLifetimeTracker() *LifetimeTracker {
	return &LifetimeTracker{
		stats: make(map[uint32]*LifetimeStats),
	}
}

// Register creates lifetime stats for a spawned creature.
func (lt *LifetimeTracker) Register(id uint32, birthTick int64) {
	lt.stats[id] = &LifetimeStats{BirthTick: birthTick, Origin: OriginSpawn}
}

// RegisterChild creates lifetime stats for a newborn. Its generation is one
// past the older lineage of its parents.
func (lt *LifetimeTracker) RegisterChild(id uint32, birthTick int64, parent1, parent2 uint32) {
	gen := 0
	for _, p := range [2]uint32{parent1, parent2} {
		if s := lt.stats[p]; s != nil {
			gen = max(gen, s.Generation)
		}
	}
	lt.stats[id] = &LifetimeStats{
		BirthTick:  birthTick,
		Origin:     OriginBirth,
		Generation: gen + 1,
		Parent1:    parent1,
		Parent2:    parent2,
	}
	lt.RecordChild(parent1)
	lt.RecordChild(parent2)
}

// Get returns the lifetime stats for a creature, or nil if not found.
func (lt *LifetimeTracker) Get(id uint32) *LifetimeStats {
	return lt.stats[id]
}

// Remove removes a creature's stats and returns them.
func (lt *LifetimeTracker) Remove(id uint32) *LifetimeStats {
	stats := lt.stats[id]
	delete(lt.stats, id)
	return stats
}

// RecordChild increments children count.
func (lt *LifetimeTracker) RecordChild(parentID uint32) {
	if s := lt.stats[parentID]; s != nil {
		s.Children++
	}
}

// RecordFruit increments the fruit count.
func (lt *LifetimeTracker) RecordFruit(id uint32) {
	if s := lt.stats[id]; s != nil {
		s.FruitEaten++
	}
}

// UpdateSurvivalTime updates the survival time based on current tick.
func (lt *LifetimeTracker) UpdateSurvivalTime(id uint32, currentTick int64, tps float64) {
	if s := lt.stats[id]; s != nil && tps > 0 {
		s.SurvivalTimeSec = float64(currentTick-s.BirthTick) / tps
	}
}

// Count returns the number of tracked creatures.
func (lt *LifetimeTracker) Count() int {
	return len(lt.stats)
}

// MaxGeneration returns the deepest generation among tracked creatures.
func (lt *LifetimeTracker) MaxGeneration() int {
	g := 0
	for _, s := range lt.stats {
		g = max(g, s.Generation)
	}
	return g
}
