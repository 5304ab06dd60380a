package telemetry

// Collector accumulates events within time windows and produces WindowStats.
type Collector struct {
	windowDurationTicks int64
	tps                 float64

	// Current window tracking
	windowStartTick int64

	// Event counters for current window
	births          int
	spawns          int
	deaths          int
	fruitSpawned    int
	fruitEaten      int
	fruitExpired    int
	pairings        int
	pairingsAborted int
}

// NewCollector creates a new stats collector.
// windowTicks: ticks per stats window; tps: ticks per simulated second.
func NewCollector(windowTicks int, tps float64) *Collector {
	return &Collector{
		windowDurationTicks: int64(max(windowTicks, 1)),
		tps:                 tps,
	}
}

// RecordCreature records a new creature.
func (c *Collector) RecordCreature(origin Origin) {
	if origin == OriginBirth {
		c.births++
	} else {
		c.spawns++
	}
}

// RecordCreatureDeath records a creature reaching its lifespan.
func (c *Collector) RecordCreatureDeath() {
	c.deaths++
}

// RecordFruitSpawn records a new fruit.
func (c *Collector) RecordFruitSpawn() {
	c.fruitSpawned++
}

// RecordFruitGone records a fruit leaving the board.
func (c *Collector) RecordFruitGone(cause DeathCause) {
	if cause == DeathEaten {
		c.fruitEaten++
	} else {
		c.fruitExpired++
	}
}

// RecordPairing records a pair entering the breeding pipeline.
func (c *Collector) RecordPairing() {
	c.pairings++
}

// RecordPairingAborted records a pair dropped because a parent died.
func (c *Collector) RecordPairingAborted() {
	c.pairingsAborted++
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int64) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Population is the live state sampled at window end.
type Population struct {
	Creatures     int
	Fruits        int
	Average       float64
	MaxGeneration int
	LifeFractions []float64
	Urges         []float64
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick int64, pop Population) WindowStats {
	lifeMean, lifeP10, lifeP50, lifeP90 := ComputeDistribution(pop.LifeFractions)
	urgeMean, urgeStd := MeanStd(pop.Urges)

	var simTime float64
	if c.tps > 0 {
		simTime = float64(currentTick) / c.tps
	}

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      simTime,

		Creatures:     pop.Creatures,
		Fruits:        pop.Fruits,
		PopulationAvg: pop.Average,
		MaxGeneration: pop.MaxGeneration,

		Births:          c.births,
		Spawns:          c.spawns,
		Deaths:          c.deaths,
		FruitSpawned:    c.fruitSpawned,
		FruitEaten:      c.fruitEaten,
		FruitExpired:    c.fruitExpired,
		Pairings:        c.pairings,
		PairingsAborted: c.pairingsAborted,

		LifeMean: lifeMean,
		LifeP10:  lifeP10,
		LifeP50:  lifeP50,
		LifeP90:  lifeP90,
		UrgeMean: urgeMean,
		UrgeStd:  urgeStd,
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.births = 0
	c.spawns = 0
	c.deaths = 0
	c.fruitSpawned = 0
	c.fruitEaten = 0
	c.fruitExpired = 0
	c.pairings = 0
	c.pairingsAborted = 0

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int64 {
	return c.windowDurationTicks
}
