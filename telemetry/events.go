// Package telemetry provides population statistics, gene sampling, CSV
// output and performance tracking.
package telemetry

// DeathCause says why an entity left the board.
type DeathCause uint8

const (
	DeathAge   DeathCause = iota // lifespan reached
	DeathEaten                   // fruit only
)

// String returns the cause name.
func (c DeathCause) String() string {
	switch c {
	case DeathAge:
		return "age"
	case DeathEaten:
		return "eaten"
	default:
		return "unknown"
	}
}

// Origin says how a creature came into being.
type Origin uint8

const (
	OriginSpawn Origin = iota // initial population, ambient or UI spawn
	OriginBirth               // reproduction pipeline
)

// String returns the origin name.
func (o Origin) String() string {
	if o == OriginBirth {
		return "birth"
	}
	return "spawn"
}
