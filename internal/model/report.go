package model

import "time"

// Report is the complete analysis of one chart
type Report struct {
	RunID       string    `json:"run_id"`
	GeneratedAt time.Time `json:"generated_at"`

	Chart     ChartInput `json:"chart"`
	ChartSect ChartSect  `json:"chart_sect"`
	Houses    Houses     `json:"houses"`

	Bodies        []BodyReport       `json:"bodies"` // Chaldean order
	Aspects       []AspectFact       `json:"aspects"`
	Relationships ChartRelationships `json:"relationships"`

	Planetary PlanetaryTime `json:"planetary_time"`
	Syzygy    Syzygy        `json:"syzygy"`
	Score     ScoreTable    `json:"score"`
}

// BodyReport bundles one body's position with every fact derived for it
type BodyReport struct {
	Position      BodyPosition      `json:"position"`
	Dignity       DignityFacts      `json:"dignity"`
	Sect          SectFacts         `json:"sect"`
	Motion        MotionFacts       `json:"motion"`
	Stars         []StarHit         `json:"stars,omitempty"`
	Relationships RelationshipFacts `json:"relationships"`
}

// Body returns the report entry for b, if present
func (r *Report) Body(b Body) (BodyReport, bool) {
	for _, br := range r.Bodies {
		if br.Position.Body == b {
			return br, true
		}
	}
	return BodyReport{}, false
}

// PlanetaryTime is the planetary day and hour of the chart moment
type PlanetaryTime struct {
	DayRuler  Body     `json:"day_ruler"`
	HourRuler Body     `json:"hour_ruler"`
	Hour      int      `json:"hour"` // 1..24, day hours first
	Daytime   bool     `json:"daytime"`
	SolarDay  SolarDay `json:"solar_day"`
}

// SensitivePoint names a point scored for the Almuten
type SensitivePoint string

const (
	PointSun       SensitivePoint = "sun"
	PointMoon      SensitivePoint = "moon"
	PointAscendant SensitivePoint = "ascendant"
	PointFortune   SensitivePoint = "fortune"
	PointSyzygy    SensitivePoint = "syzygy"
)

// EssentialContribution is the dignity breakdown at one sensitive point
type EssentialContribution struct {
	Point     SensitivePoint          `json:"point"`
	Longitude float64                 `json:"longitude"`
	Weights   map[Body][]WeightedTier `json:"weights"`
	Totals    map[Body]int            `json:"totals"`
	Winners   []Body                  `json:"winners,omitempty"`
}

// WeightedTier is one dignity held at a point with its weight
type WeightedTier struct {
	Tier   DignityTier `json:"tier"`
	Weight int         `json:"weight"`
}

// ScoreRecord is one body's line in the Almuten ladder
type ScoreRecord struct {
	Body            Body `json:"body"`
	EssentialShares int  `json:"essential_shares"` // Number of dignities held across the points
	Essential       int  `json:"essential"`
	House           int  `json:"house"`
	Phase           int  `json:"phase"`
	DayRuler        int  `json:"day_ruler"`
	HourRuler       int  `json:"hour_ruler"`
	Accidental      int  `json:"accidental"`
	Total           int  `json:"total"`
}

// ScoreTable is the scoring aggregator's output
type ScoreTable struct {
	Points     []EssentialContribution `json:"points"`
	Records    []ScoreRecord           `json:"records"` // Chaldean order
	Almuten    Body                    `json:"almuten"`
	Contenders []Body                  `json:"contenders,omitempty"` // Every body sharing the top total
	Signals    []Signal                `json:"signals"`
}

// Record returns the ladder line for b
func (t ScoreTable) Record(b Body) (ScoreRecord, bool) {
	for _, r := range t.Records {
		if r.Body == b {
			return r, true
		}
	}
	return ScoreRecord{}, false
}

// Signal explains one scoring contribution with its inputs and formula
type Signal struct {
	Type        SignalType     `json:"type"`
	Body        Body           `json:"body"`
	Points      int            `json:"points"`
	Description string         `json:"description"`
	Data        map[string]any `json:"data,omitempty"`
}

// SignalType classifies a scoring signal
type SignalType string

const (
	SignalEssential SignalType = "essential"  // Dignities over the sensitive points
	SignalHouse     SignalType = "house"      // House placement strength
	SignalPhase     SignalType = "phase"      // Distance from the Sun for direct superiors
	SignalDayRuler  SignalType = "day_ruler"  // Lord of the planetary day
	SignalHourRuler SignalType = "hour_ruler" // Lord of the planetary hour
	SignalTiebreak  SignalType = "tiebreak"   // Almuten chosen among equal totals
)
