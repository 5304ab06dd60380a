package systems

import (
	"math"
	"math/rand"
)

// SpawnCount draws how many items to spawn this tick for a given expected
// value: ceil(expected) Bernoulli trials, each succeeding with probability
// expected/trials. The mean is exactly expected.
func SpawnCount(rng *rand.Rand, expected float64) int {
	if expected <= 0 {
		return 0
	}
	trials := int(math.Ceil(expected))
	p := expected / float64(trials)

	n := 0
	for i := 0; i < trials; i++ {
		if rng.Float64() < p {
			n++
		}
	}
	return n
}

// Chance reports whether an event happening perSecond times a second fires
// on this tick.
func Chance(rng *rand.Rand, perSecond, tps float64) bool {
	if perSecond <= 0 || tps <= 0 {
		return false
	}
	return rng.Float64() < perSecond/tps
}
