package components

import "github.com/pthm-cable/critters/geom"

// Kind distinguishes the entity variants sharing the common components.
type Kind uint8

const (
	KindFruit Kind = iota
	KindCreature
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindFruit:
		return "fruit"
	case KindCreature:
		return "creature"
	default:
		return "unknown"
	}
}

// Identity carries the stable lookup key of an entity.
// ark recycles entity handles, so cross-entity references use ID instead.
type Identity struct {
	ID   uint32 `inspect:"label"`
	Kind Kind   `inspect:"skip"`
	Name string `inspect:"label"`
}

// State is a creature's behavioural state.
type State uint8

const (
	StateIdle State = iota
	StateSeekingFood
	StateSeekingMate
	StateReproducing
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSeekingFood:
		return "seeking_food"
	case StateSeekingMate:
		return "seeking_mate"
	case StateReproducing:
		return "reproducing"
	default:
		return "unknown"
	}
}

// Mind holds the mutable behavioural state of a creature.
type Mind struct {
	State     State     `inspect:"label"`
	Urge      float64   `inspect:"bar,max:100"`
	Target    geom.Vec2 `inspect:"skip"`
	HasTarget bool      `inspect:"bool"`
	MateID    uint32    `inspect:"label"` // 0 = none
}

// SetTarget records a new destination.
func (m *Mind) SetTarget(t geom.Vec2) {
	m.Target = t
	m.HasTarget = true
}

// ClearTarget forgets the current destination.
func (m *Mind) ClearTarget() {
	m.Target = geom.Vec2{}
	m.HasTarget = false
}

// WantsToReproduce reports whether the urge has caught up with the
// remaining share of life.
func (m *Mind) WantsToReproduce(life Life) bool {
	return m.Urge >= life.RemainingPercent()
}

// AddUrge accumulates urge, capped at maxUrge.
func (m *Mind) AddUrge(amount, maxUrge float64) {
	m.Urge = min(m.Urge+amount, maxUrge)
}

// ResetCourtship returns a creature to Idle with no urge and no mate.
func (m *Mind) ResetCourtship() {
	m.State = StateIdle
	m.Urge = 0
	m.MateID = 0
	m.ClearTarget()
}
