package components

// Body holds physical properties of an entity.
type Body struct {
	Size float64 `inspect:"label,fmt:%.1f"` // diameter
}

// Radius returns half the body size.
func (b Body) Radius() float64 {
	return b.Size / 2
}

// Life tracks aging. Age counts ticks; Lifespan is fixed at creation.
type Life struct {
	Age      int     `inspect:"label"`
	Lifespan float64 `inspect:"label,fmt:%.0f"`
}

// Expired reports whether the entity has reached its lifespan.
func (l Life) Expired() bool {
	return float64(l.Age) >= l.Lifespan
}

// Fraction returns the remaining share of life in [0, 1].
func (l Life) Fraction() float64 {
	if l.Lifespan <= 0 {
		return 0
	}
	f := 1 - float64(l.Age)/l.Lifespan
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

// RemainingPercent returns the remaining share of life as 0..100.
func (l Life) RemainingPercent() float64 {
	return l.Fraction() * 100
}

// Feed rolls age back by ticks, never below zero.
func (l *Life) Feed(ticks int) {
	l.Age -= min(ticks, l.Age)
}
