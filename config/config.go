// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrInvalid is wrapped by every error returned from Validate.
var ErrInvalid = errors.New("invalid configuration")

// Config holds all simulation configuration parameters.
type Config struct {
	Screen       ScreenConfig       `yaml:"screen"`
	Board        BoardConfig        `yaml:"board"`
	Sim          SimConfig          `yaml:"sim"`
	Genes        GenesConfig        `yaml:"genes"`
	Creature     CreatureConfig     `yaml:"creature"`
	Fruit        FruitConfig        `yaml:"fruit"`
	Reproduction ReproductionConfig `yaml:"reproduction"`
	Telemetry    TelemetryConfig    `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings for the graphical mode.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// BoardConfig describes the cell grid the board is partitioned into.
type BoardConfig struct {
	Width    int     `yaml:"width"`     // cells per row
	Height   int     `yaml:"height"`    // rows
	CellSize float64 `yaml:"cell_size"` // world units per cell side
}

// SimConfig holds scheduler parameters.
type SimConfig struct {
	TicksPerSecond     int     `yaml:"ticks_per_second"`
	GeneSampleInterval float64 `yaml:"gene_sample_interval"` // seconds between gene samples (0 = off)
	PopulationWindow   int     `yaml:"population_window"`    // samples kept for the rolling average
}

// GeneRange is the nominal [Min, Max] range of one gene.
type GeneRange struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// Mid returns the centre of the range.
func (r GeneRange) Mid() float64 {
	return (r.Min + r.Max) / 2
}

// Contains reports whether v lies inside the range, bounds included.
func (r GeneRange) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// GenesConfig holds the nominal range of every heritable gene.
type GenesConfig struct {
	Size             GeneRange `yaml:"size"`
	Speed            GeneRange `yaml:"speed"`             // world units per tick
	Vision           GeneRange `yaml:"vision"`            // world units
	ReproductiveRate GeneRange `yaml:"reproductive_rate"` // urge points per second
	Mutability       GeneRange `yaml:"mutability"`        // probability and strength, 0..1
}

// CreatureConfig holds creature behaviour and lifecycle parameters.
type CreatureConfig struct {
	Initial          int     `yaml:"initial"`
	SpawnRate        float64 `yaml:"spawn_rate"`         // random creatures per second
	MoveChance       float64 `yaml:"move_chance"`        // idle wander attempts per second
	BaseLifespan     float64 `yaml:"base_lifespan"`      // seconds, before gene modifiers
	FeedAmount       float64 `yaml:"feed_amount"`        // seconds of age removed per fruit
	SpeedSizePenalty float64 `yaml:"speed_size_penalty"` // random spawns: speed /= (size/minSize)^this
	MaxUrge          float64 `yaml:"max_urge"`
}

// FruitConfig holds fruit parameters.
type FruitConfig struct {
	Initial   int     `yaml:"initial"`
	Size      float64 `yaml:"size"`
	Lifespan  float64 `yaml:"lifespan"`   // seconds
	SpawnRate float64 `yaml:"spawn_rate"` // fruit per cell per second
}

// ReproductionConfig holds mating pipeline parameters.
type ReproductionConfig struct {
	Cooldown    float64 `yaml:"cooldown"`     // seconds both parents stay locked
	Incubation  float64 `yaml:"incubation"`   // seconds from cooldown expiry to birth
	BirthOffset float64 `yaml:"birth_offset"` // max distance of the child from parent 1
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow float64 `yaml:"stats_window"` // seconds per CSV window
	PerfWindow  int     `yaml:"perf_window"`  // ticks averaged by the perf collector
	HallOfFame  int     `yaml:"hall_of_fame"` // longest-lived lineages kept (0 = off)
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	BoardW, BoardH     float64 // board size in world units
	Cells              int     // Board.Width * Board.Height
	TPS                float64 // TicksPerSecond as float64
	GeneSampleTicks    int     // 0 when sampling is off
	CooldownTicks      int
	IncubationTicks    int
	FruitLifespanTicks int
	FeedTicks          int
	BaseLifespanTicks  float64
	StatsWindowTicks   int
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Default returns the embedded defaults. It panics if they fail to parse,
// which only happens when defaults.yaml itself is broken.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used. The result is validated.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.ComputeDerived()

	return cfg, nil
}

// Clone returns a deep copy. Config holds no reference types, so a value copy suffices.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

// Validate reports every configuration problem at once.
// The returned error wraps ErrInvalid.
func (c *Config) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	if c.Board.Width <= 0 || c.Board.Height <= 0 {
		bad("board: dimensions must be positive, got %dx%d", c.Board.Width, c.Board.Height)
	}
	if c.Board.CellSize <= 0 {
		bad("board.cell_size: must be positive, got %g", c.Board.CellSize)
	}
	if c.Sim.TicksPerSecond <= 0 {
		bad("sim.ticks_per_second: must be positive, got %d", c.Sim.TicksPerSecond)
	}
	if c.Sim.GeneSampleInterval < 0 {
		bad("sim.gene_sample_interval: must not be negative, got %g", c.Sim.GeneSampleInterval)
	}
	if c.Sim.PopulationWindow < 1 {
		bad("sim.population_window: must be at least 1, got %d", c.Sim.PopulationWindow)
	}

	genes := []struct {
		key string
		r   GeneRange
	}{
		{"genes.size", c.Genes.Size},
		{"genes.speed", c.Genes.Speed},
		{"genes.vision", c.Genes.Vision},
		{"genes.reproductive_rate", c.Genes.ReproductiveRate},
		{"genes.mutability", c.Genes.Mutability},
	}
	for _, g := range genes {
		if g.r.Min > g.r.Max {
			bad("%s: inverted range, min %g > max %g", g.key, g.r.Min, g.r.Max)
		}
	}
	// Lifespan divides by these minima.
	if c.Genes.Size.Min <= 0 {
		bad("genes.size.min: must be positive, got %g", c.Genes.Size.Min)
	}
	if c.Genes.Speed.Min <= 0 {
		bad("genes.speed.min: must be positive, got %g", c.Genes.Speed.Min)
	}
	if c.Genes.Vision.Min <= 0 {
		bad("genes.vision.min: must be positive, got %g", c.Genes.Vision.Min)
	}

	if c.Creature.BaseLifespan <= 0 {
		bad("creature.base_lifespan: must be positive, got %g", c.Creature.BaseLifespan)
	}
	if c.Creature.FeedAmount < 0 {
		bad("creature.feed_amount: must not be negative, got %g", c.Creature.FeedAmount)
	}
	if c.Creature.MaxUrge <= 0 {
		bad("creature.max_urge: must be positive, got %g", c.Creature.MaxUrge)
	}
	if c.Creature.Initial < 0 || c.Fruit.Initial < 0 {
		bad("initial populations must not be negative")
	}
	if c.Creature.SpawnRate < 0 || c.Creature.MoveChance < 0 || c.Fruit.SpawnRate < 0 {
		bad("spawn and move rates must not be negative")
	}
	if c.Fruit.Size <= 0 {
		bad("fruit.size: must be positive, got %g", c.Fruit.Size)
	}
	if c.Fruit.Lifespan <= 0 {
		bad("fruit.lifespan: must be positive, got %g", c.Fruit.Lifespan)
	}
	if c.Reproduction.Cooldown < 0 || c.Reproduction.Incubation < 0 {
		bad("reproduction: durations must not be negative")
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
}

// ComputeDerived calculates values derived from loaded config.
// Call again after mutating a loaded Config.
func (c *Config) ComputeDerived() {
	d := &c.Derived
	tps := float64(c.Sim.TicksPerSecond)

	d.BoardW = float64(c.Board.Width) * c.Board.CellSize
	d.BoardH = float64(c.Board.Height) * c.Board.CellSize
	d.Cells = c.Board.Width * c.Board.Height
	d.TPS = tps

	d.GeneSampleTicks = secondsToTicks(c.Sim.GeneSampleInterval, tps)
	if c.Sim.GeneSampleInterval > 0 && d.GeneSampleTicks < 1 {
		d.GeneSampleTicks = 1
	}
	d.CooldownTicks = secondsToTicks(c.Reproduction.Cooldown, tps)
	d.IncubationTicks = secondsToTicks(c.Reproduction.Incubation, tps)
	d.FruitLifespanTicks = max(secondsToTicks(c.Fruit.Lifespan, tps), 1)
	d.FeedTicks = secondsToTicks(c.Creature.FeedAmount, tps)
	d.BaseLifespanTicks = c.Creature.BaseLifespan * tps
	d.StatsWindowTicks = max(secondsToTicks(c.Telemetry.StatsWindow, tps), 1)
}

func secondsToTicks(sec, tps float64) int {
	return int(math.Round(sec * tps))
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
