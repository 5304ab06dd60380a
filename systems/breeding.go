package systems

import "slices"

// Stage is the step a mating pair is in.
type Stage uint8

const (
	// StageCooldown: both parents are locked in Reproducing.
	StageCooldown Stage = iota
	// StageIncubation: parents are free again; the child is gestating.
	StageIncubation
)

// String returns the stage name.
func (s Stage) String() string {
	switch s {
	case StageCooldown:
		return "cooldown"
	case StageIncubation:
		return "incubation"
	default:
		return "unknown"
	}
}

// Pairing is one mating transaction. Parents are referenced by creature ID
// and resolved through the world on every advance.
type Pairing struct {
	Parent1, Parent2 uint32
	Stage            Stage
	StageStartedAt   int64
}

// PairEnv is the world as seen by the breeding pipeline.
type PairEnv interface {
	// Alive reports whether the creature still exists.
	Alive(id uint32) bool
	// Release returns a parent to Idle with no urge and no mate.
	Release(id uint32)
	// Birth creates the offspring of two live parents.
	Birth(parent1, parent2 uint32)
	// Aborted is told about a pair dropped because a parent died.
	Aborted(p Pairing)
}

// BreedingSystem advances mating pairs through cooldown, incubation and
// birth, counting ticks rather than blocking.
type BreedingSystem struct {
	cooldown   int64
	incubation int64
	pairs      []Pairing
	closed     bool
}

// NewBreedingSystem creates a pipeline with the given stage lengths in ticks.
func NewBreedingSystem(cooldownTicks, incubationTicks int) *BreedingSystem {
	return &BreedingSystem{
		cooldown:   int64(cooldownTicks),
		incubation: int64(incubationTicks),
	}
}

// Propose starts a pairing at tick. It refuses when either parent is
// already locked in a cooldown, when the parents are the same creature, or
// after Cancel.
func (s *BreedingSystem) Propose(parent1, parent2 uint32, tick int64) bool {
	if s.closed || parent1 == parent2 || s.Locked(parent1) || s.Locked(parent2) {
		return false
	}
	s.pairs = append(s.pairs, Pairing{
		Parent1:        parent1,
		Parent2:        parent2,
		Stage:          StageCooldown,
		StageStartedAt: tick,
	})
	return true
}

// Locked reports whether id is a parent in a pair still cooling down.
func (s *BreedingSystem) Locked(id uint32) bool {
	for _, p := range s.pairs {
		if p.Stage == StageCooldown && (p.Parent1 == id || p.Parent2 == id) {
			return true
		}
	}
	return false
}

// Pending returns a copy of the pairs in flight.
func (s *BreedingSystem) Pending() []Pairing {
	return slices.Clone(s.pairs)
}

// Len returns the number of pairs in flight.
func (s *BreedingSystem) Len() int {
	return len(s.pairs)
}

// Update advances every pair to tick. A pair whose parent has died is
// dropped without a birth; during cooldown the surviving parent is released
// at once. Returns the number of births.
func (s *BreedingSystem) Update(tick int64, env PairEnv) int {
	if s.closed {
		return 0
	}

	births := 0
	kept := s.pairs[:0]
	for _, p := range s.pairs {
		alive1, alive2 := env.Alive(p.Parent1), env.Alive(p.Parent2)
		if !alive1 || !alive2 {
			if p.Stage == StageCooldown {
				if alive1 {
					env.Release(p.Parent1)
				}
				if alive2 {
					env.Release(p.Parent2)
				}
			}
			env.Aborted(p)
			continue
		}

		if p.Stage == StageCooldown && tick-p.StageStartedAt >= s.cooldown {
			env.Release(p.Parent1)
			env.Release(p.Parent2)
			p.Stage = StageIncubation
			p.StageStartedAt = tick
		}
		if p.Stage == StageIncubation && tick-p.StageStartedAt >= s.incubation {
			env.Birth(p.Parent1, p.Parent2)
			births++
			continue
		}
		kept = append(kept, p)
	}
	clear(s.pairs[len(kept):])
	s.pairs = kept
	return births
}

// Cancel discards every pending pair without running its effects and
// refuses further proposals. Returns the number discarded.
func (s *BreedingSystem) Cancel() int {
	n := len(s.pairs)
	s.pairs = nil
	s.closed = true
	return n
}
