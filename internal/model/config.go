package model

// Config holds every tunable of the analysis. It is built once, from
// DefaultConfig overlaid with the config file and environment, and passed
// explicitly to each component.
type Config struct {
	Ephemeris   EphemerisConfig   `yaml:"ephemeris" mapstructure:"ephemeris"`
	Aspects     AspectConfig      `yaml:"aspects" mapstructure:"aspects"`
	Motion      MotionConfig      `yaml:"motion" mapstructure:"motion"`
	Stars       StarConfig        `yaml:"stars" mapstructure:"stars"`
	Relations   RelationConfig    `yaml:"relations" mapstructure:"relations"`
	Scoring     ScoringConfig     `yaml:"scoring" mapstructure:"scoring"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
	Events      EventsConfig      `yaml:"events" mapstructure:"events"`
}

// EphemerisConfig locates the tabulated ephemeris
type EphemerisConfig struct {
	Path         string `yaml:"path" mapstructure:"path"`                   // SQLite store (.db/.sqlite) or YAML table (.yaml/.yml)
	CacheMinutes int    `yaml:"cache_minutes" mapstructure:"cache_minutes"` // Lifetime of memoized lookups
}

// AspectConfig holds per-body orbs
type AspectConfig struct {
	Orbs map[string]float64 `yaml:"orbs" mapstructure:"orbs"` // Keyed by lower-case body name
}

// Orb returns the configured orb for b
func (c AspectConfig) Orb(b Body) float64 {
	return c.Orbs[b.ConfigKey()]
}

// MotionConfig holds speed and solar-distance thresholds
type MotionConfig struct {
	SlowRatio         float64 `yaml:"slow_ratio" mapstructure:"slow_ratio"`
	SwiftRatio        float64 `yaml:"swift_ratio" mapstructure:"swift_ratio"`
	StationSpeed      float64 `yaml:"station_speed" mapstructure:"station_speed"` // Degrees per day
	CazimiOrb         float64 `yaml:"cazimi_orb" mapstructure:"cazimi_orb"`
	CombustOrb        float64 `yaml:"combust_orb" mapstructure:"combust_orb"`
	UnderBeamsOrb     float64 `yaml:"under_beams_orb" mapstructure:"under_beams_orb"`
	MoonUnderBeamsOrb float64 `yaml:"moon_under_beams_orb" mapstructure:"moon_under_beams_orb"`
}

// StarConfig controls the fixed-star scan
type StarConfig struct {
	Orb          float64 `yaml:"orb" mapstructure:"orb"`
	MaxMagnitude float64 `yaml:"max_magnitude" mapstructure:"max_magnitude"`
	Catalog      string  `yaml:"catalog,omitempty" mapstructure:"catalog"` // Optional YAML catalog replacing the built-in one
}

// RelationConfig controls the relationship pass
type RelationConfig struct {
	CounterRayOrb float64 `yaml:"counter_ray_orb" mapstructure:"counter_ray_orb"`
}

// DignityWeights are the points per essential dignity tier
type DignityWeights struct {
	Domicile   int `yaml:"domicile" mapstructure:"domicile"`
	Exaltation int `yaml:"exaltation" mapstructure:"exaltation"`
	Triplicity int `yaml:"triplicity" mapstructure:"triplicity"`
	Term       int `yaml:"term" mapstructure:"term"`
	Face       int `yaml:"face" mapstructure:"face"`
}

// Weight returns the points for a tier
func (w DignityWeights) Weight(t DignityTier) int {
	switch t {
	case TierDomicile:
		return w.Domicile
	case TierExaltation:
		return w.Exaltation
	case TierTriplicity:
		return w.Triplicity
	case TierTerm:
		return w.Term
	case TierFace:
		return w.Face
	}
	return 0
}

// PhaseBand awards points to a direct superior planet by elongation.
// The first band containing the elongation wins; bounds are inclusive.
type PhaseBand struct {
	Min    float64 `yaml:"min" mapstructure:"min"`
	Max    float64 `yaml:"max" mapstructure:"max"`
	Points int     `yaml:"points" mapstructure:"points"`
}

// ScoringConfig centralizes every Almuten weight and bonus
type ScoringConfig struct {
	Weights        DignityWeights `yaml:"weights" mapstructure:"weights"`
	HouseStrength  []int          `yaml:"house_strength" mapstructure:"house_strength"` // Index 0 is the first house
	PhaseBands     []PhaseBand    `yaml:"phase_bands" mapstructure:"phase_bands"`
	DayRulerBonus  int            `yaml:"day_ruler_bonus" mapstructure:"day_ruler_bonus"`
	HourRulerBonus int            `yaml:"hour_ruler_bonus" mapstructure:"hour_ruler_bonus"`
}

// House returns the strength of house h (1..12), zero when out of range
func (c ScoringConfig) House(h int) int {
	if h < 1 || h > len(c.HouseStrength) {
		return 0
	}
	return c.HouseStrength[h-1]
}

// ConcurrencyConfig sizes the worker pool for batch work
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// OutputConfig selects report rendering
type OutputConfig struct {
	Format string `yaml:"format" mapstructure:"format"` // console, json or markdown
	Dir    string `yaml:"dir,omitempty" mapstructure:"dir"`
}

// EventsConfig tunes the ingress and exact-aspect scan
type EventsConfig struct {
	StepMinutes      float64 `yaml:"step_minutes" mapstructure:"step_minutes"`           // Coarse sampling step
	ToleranceMinutes float64 `yaml:"tolerance_minutes" mapstructure:"tolerance_minutes"` // Bisection stops below this
	ChunkDays        int     `yaml:"chunk_days" mapstructure:"chunk_days"`               // Range split per worker job
}

// DefaultConfig returns the standard traditional settings
func DefaultConfig() *Config {
	return &Config{
		Ephemeris: EphemerisConfig{
			CacheMinutes: 30,
		},
		Aspects: AspectConfig{
			Orbs: map[string]float64{
				"sun":     15,
				"moon":    12,
				"mercury": 7,
				"venus":   7.5,
				"mars":    7,
				"jupiter": 10,
				"saturn":  9,
			},
		},
		Motion: MotionConfig{
			SlowRatio:         0.9,
			SwiftRatio:        1.1,
			StationSpeed:      0.02,
			CazimiOrb:         0.3,
			CombustOrb:        8,
			UnderBeamsOrb:     15,
			MoonUnderBeamsOrb: 12,
		},
		Stars: StarConfig{
			Orb:          3,
			MaxMagnitude: 2.5,
		},
		Relations: RelationConfig{
			CounterRayOrb: 3,
		},
		Scoring: ScoringConfig{
			Weights: DignityWeights{
				Domicile:   5,
				Exaltation: 4,
				Triplicity: 3,
				Term:       2,
				Face:       1,
			},
			// Angular 1,10,7,4 > succedent 11,5,2,8 > cadent 9,3,12,6
			HouseStrength: []int{12, 6, 3, 9, 7, 1, 10, 5, 4, 11, 8, 2},
			PhaseBands: []PhaseBand{
				{Min: 15, Max: 60, Points: 3},
				{Min: 60, Max: 90, Points: 2},
				{Min: 90, Max: 180, Points: 1},
			},
			DayRulerBonus:  7,
			HourRulerBonus: 6,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		Output: OutputConfig{
			Format: "console",
		},
		Events: EventsConfig{
			StepMinutes:      60,
			ToleranceMinutes: 0.1,
			ChunkDays:        30,
		},
	}
}

// Validate checks the settings the pipeline depends on
func (c *Config) Validate() error {
	for _, b := range ChaldeanOrder {
		if c.Aspects.Orb(b) <= 0 {
			return ConfigErrorf("aspects.orbs."+b.ConfigKey(), nil, "orb must be positive")
		}
	}
	if len(c.Scoring.HouseStrength) != 12 {
		return ConfigErrorf("scoring.house_strength", nil, "need 12 entries, got %d", len(c.Scoring.HouseStrength))
	}
	if c.Motion.SlowRatio <= 0 || c.Motion.SwiftRatio < c.Motion.SlowRatio {
		return ConfigErrorf("motion", nil, "slow_ratio %.2f and swift_ratio %.2f are inconsistent", c.Motion.SlowRatio, c.Motion.SwiftRatio)
	}
	if c.Events.StepMinutes <= 0 || c.Events.ToleranceMinutes <= 0 || c.Events.ToleranceMinutes >= c.Events.StepMinutes {
		return ConfigErrorf("events", nil, "need 0 < tolerance_minutes < step_minutes, got %.3g and %.3g", c.Events.ToleranceMinutes, c.Events.StepMinutes)
	}
	if c.Stars.Orb < 0 {
		return ConfigErrorf("stars.orb", nil, "orb must not be negative")
	}
	return nil
}
