package main

import (
	"github.com/pthm-cable/critters/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value

	get func(*config.Config) float64
	set func(*config.Config, float64)
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of optimizable parameters.
// Gene ranges and board size stay fixed; only ecology rates are tuned.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			// Creatures
			{
				Name: "creature_spawn_rate", Path: "creature.spawn_rate", Min: 0, Max: 2, Default: 0.5,
				get: func(c *config.Config) float64 { return c.Creature.SpawnRate },
				set: func(c *config.Config, v float64) { c.Creature.SpawnRate = v },
			},
			{
				Name: "move_chance", Path: "creature.move_chance", Min: 0.1, Max: 2, Default: 0.5,
				get: func(c *config.Config) float64 { return c.Creature.MoveChance },
				set: func(c *config.Config, v float64) { c.Creature.MoveChance = v },
			},
			{
				Name: "base_lifespan", Path: "creature.base_lifespan", Min: 5, Max: 60, Default: 20,
				get: func(c *config.Config) float64 { return c.Creature.BaseLifespan },
				set: func(c *config.Config, v float64) { c.Creature.BaseLifespan = v },
			},
			{
				Name: "feed_amount", Path: "creature.feed_amount", Min: 2, Max: 30, Default: 10,
				get: func(c *config.Config) float64 { return c.Creature.FeedAmount },
				set: func(c *config.Config, v float64) { c.Creature.FeedAmount = v },
			},
			{
				Name: "speed_size_penalty", Path: "creature.speed_size_penalty", Min: 0.5, Max: 2, Default: 1.1,
				get: func(c *config.Config) float64 { return c.Creature.SpeedSizePenalty },
				set: func(c *config.Config, v float64) { c.Creature.SpeedSizePenalty = v },
			},
			{
				Name: "max_urge", Path: "creature.max_urge", Min: 20, Max: 300, Default: 100,
				get: func(c *config.Config) float64 { return c.Creature.MaxUrge },
				set: func(c *config.Config, v float64) { c.Creature.MaxUrge = v },
			},
			// Fruit
			{
				Name: "fruit_spawn_rate", Path: "fruit.spawn_rate", Min: 0.005, Max: 0.1, Default: 0.025,
				get: func(c *config.Config) float64 { return c.Fruit.SpawnRate },
				set: func(c *config.Config, v float64) { c.Fruit.SpawnRate = v },
			},
			{
				Name: "fruit_lifespan", Path: "fruit.lifespan", Min: 2, Max: 30, Default: 10,
				get: func(c *config.Config) float64 { return c.Fruit.Lifespan },
				set: func(c *config.Config, v float64) { c.Fruit.Lifespan = v },
			},
			// Reproduction
			{
				Name: "cooldown", Path: "reproduction.cooldown", Min: 0.5, Max: 10, Default: 2,
				get: func(c *config.Config) float64 { return c.Reproduction.Cooldown },
				set: func(c *config.Config, v float64) { c.Reproduction.Cooldown = v },
			},
			{
				Name: "incubation", Path: "reproduction.incubation", Min: 1, Max: 20, Default: 5,
				get: func(c *config.Config) float64 { return c.Reproduction.Incubation },
				set: func(c *config.Config, v float64) { c.Reproduction.Incubation = v },
			},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = max(spec.Min, min(v[i], spec.Max))
	}
	return clamped
}

// ApplyToConfig writes clamped parameter values into cfg and refreshes
// its derived values.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	for i, v := range pv.Clamp(values) {
		pv.Specs[i].set(cfg, v)
	}
	cfg.ComputeDerived()
}

// ExtractFromConfig extracts current parameter values from a Config struct.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.get(cfg)
	}
	return v
}
