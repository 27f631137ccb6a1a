package model

// DignityTier names one of the five essential dignities
type DignityTier string

const (
	TierDomicile   DignityTier = "domicile"
	TierExaltation DignityTier = "exaltation"
	TierTriplicity DignityTier = "triplicity"
	TierTerm       DignityTier = "term"
	TierFace       DignityTier = "face"
)

// DignityTiers lists the tiers from strongest to weakest
var DignityTiers = [5]DignityTier{TierDomicile, TierExaltation, TierTriplicity, TierTerm, TierFace}

// DignityFacts describes the essential dignity of a degree and of the body placed there
type DignityFacts struct {
	Sign             Sign    `json:"sign"`
	Degree           float64 `json:"degree"` // Degree within the sign, [0, 30)
	Ruler            Body    `json:"ruler"`
	Exaltation       Body    `json:"exaltation,omitempty"`
	Triplicity       Body    `json:"triplicity"`        // Ruler for the chart's sect
	TriplicityRulers [3]Body `json:"triplicity_rulers"` // Day, night, participating
	Term             Body    `json:"term"`
	Face             Body    `json:"face"`

	// Flags for the body occupying the degree
	Domicile     bool `json:"domicile"`
	Exalted      bool `json:"exalted"`
	InTriplicity bool `json:"in_triplicity"`
	InTerm       bool `json:"in_term"`
	InFace       bool `json:"in_face"`
	Detriment    bool `json:"detriment"`
	Fall         bool `json:"fall"`
	Peregrine    bool `json:"peregrine"` // Holds none of the five dignities here
}

// Debilities lists "detriment" and/or "fall"; empty means none
func (d DignityFacts) Debilities() []string {
	var out []string
	if d.Detriment {
		out = append(out, "detriment")
	}
	if d.Fall {
		out = append(out, "fall")
	}
	return out
}

// Undignified reports a peregrine or debilitated body
func (d DignityFacts) Undignified() bool {
	return d.Peregrine || d.Detriment || d.Fall
}

// HeldBy lists the dignities planet b holds at this degree, strongest first.
// Any of the three triplicity lords counts as holding triplicity.
func (d DignityFacts) HeldBy(b Body) []DignityTier {
	var out []DignityTier
	if d.Ruler == b {
		out = append(out, TierDomicile)
	}
	if d.Exaltation == b && b != NoBody {
		out = append(out, TierExaltation)
	}
	for _, r := range d.TriplicityRulers {
		if r == b {
			out = append(out, TierTriplicity)
			break
		}
	}
	if d.Term == b {
		out = append(out, TierTerm)
	}
	if d.Face == b {
		out = append(out, TierFace)
	}
	return out
}

// Orientation places a body relative to the Sun
type Orientation string

const (
	Oriental        Orientation = "oriental"   // Rises before the Sun
	Occidental      Orientation = "occidental" // Sets after the Sun
	OrientationNone Orientation = "none"       // The Sun itself, or an exact conjunction
)

// SectFacts describes sect condition
type SectFacts struct {
	ChartSect    ChartSect   `json:"chart_sect"`
	PlanetSect   PlanetSect  `json:"planet_sect"`
	InSect       bool        `json:"in_sect"`
	AboveHorizon bool        `json:"above_horizon"`
	Halb         bool        `json:"halb"`
	Hayz         bool        `json:"hayz"`
	Orientation  Orientation `json:"orientation"`
}

// Direction is the sense of a body's motion in longitude
type Direction string

const (
	Direct     Direction = "direct"
	Retrograde Direction = "retrograde"
)

// SpeedClass compares daily motion to the body's mean motion
type SpeedClass string

const (
	Slow    SpeedClass = "slow"
	Average SpeedClass = "average"
	Swift   SpeedClass = "swift"
)

// PhaseGroup selects which synodic cycle applies to a body
type PhaseGroup string

const (
	PhaseSuperior PhaseGroup = "superior"
	PhaseInferior PhaseGroup = "inferior"
	PhaseLunar    PhaseGroup = "lunar"
	PhaseNone     PhaseGroup = "none"
)

// SynodicPhase is a body's place in its cycle with the Sun
type SynodicPhase struct {
	Group PhaseGroup `json:"group"`
	Code  string     `json:"code"`
	Index int        `json:"index"` // 1-based position in the group's cycle, 0 for none
	Label string     `json:"label"`
}

// MotionFacts describes speed, direction and solar phase
type MotionFacts struct {
	Direction   Direction    `json:"direction"`
	Speed       float64      `json:"speed"`
	SpeedRatio  float64      `json:"speed_ratio"`
	SpeedClass  SpeedClass   `json:"speed_class"`
	NearStation bool         `json:"near_station"`
	Elongation  float64      `json:"elongation"` // Shortest arc from the Sun, [0, 180]
	Phase       SynodicPhase `json:"phase"`
	Cazimi      bool         `json:"cazimi"`
	Combust     bool         `json:"combust"`
	UnderBeams  bool         `json:"under_beams"`
}

// AspectKind is one of the five Ptolemaic aspects
type AspectKind string

const (
	Conjunction AspectKind = "conjunction"
	Sextile     AspectKind = "sextile"
	Square      AspectKind = "square"
	Trine       AspectKind = "trine"
	Opposition  AspectKind = "opposition"
)

// AspectKinds lists the aspects by exact angle
var AspectKinds = [5]AspectKind{Conjunction, Sextile, Square, Trine, Opposition}

// Angle returns the exact angle of the aspect in degrees
func (k AspectKind) Angle() float64 {
	switch k {
	case Sextile:
		return 60
	case Square:
		return 90
	case Trine:
		return 120
	case Opposition:
		return 180
	default:
		return 0
	}
}

// Signs returns the whole-sign distance the aspect spans
func (k AspectKind) Signs() int {
	return int(k.Angle() / 30)
}

// Polarity is the side of a ray: sinister rays are cast forward in zodiacal
// order, dexter rays backward.
type Polarity string

const (
	PolarityNone Polarity = "none"
	Dexter       Polarity = "dexter"
	Sinister     Polarity = "sinister"
)

// Flip returns the polarity seen from the other body
func (p Polarity) Flip() Polarity {
	switch p {
	case Dexter:
		return Sinister
	case Sinister:
		return Dexter
	default:
		return p
	}
}

// AspectFact is an aspect between two bodies, oriented From -> To
type AspectFact struct {
	From              Body       `json:"from"`
	To                Body       `json:"to"`
	Kind              AspectKind `json:"kind"`
	Angle             float64    `json:"angle"`
	Separation        float64    `json:"separation"` // Shortest arc, [0, 180]
	Deviation         float64    `json:"deviation"`  // Separation minus exact angle
	Orb               float64    `json:"orb"`        // |Deviation|
	MaxOrb            float64    `json:"max_orb"`
	Forward           bool       `json:"forward"`  // To lies ahead of From in zodiacal order
	Applying          bool       `json:"applying"` // The gap to exactness is shrinking
	FromApplying      bool       `json:"from_applying"`
	ToApplying        bool       `json:"to_applying"`
	MutualApplication bool       `json:"mutual_application"`
	MutualSeparation  bool       `json:"mutual_separation"`
	Polarity          Polarity   `json:"polarity"` // Side of the ray From casts onto To
}

// Involves reports whether b is one end of the aspect
func (a AspectFact) Involves(b Body) bool { return a.From == b || a.To == b }

// Other returns the end of the aspect that is not b
func (a AspectFact) Other(b Body) Body {
	if a.From == b {
		return a.To
	}
	return a.From
}

// Reverse returns the same aspect oriented To -> From
func (a AspectFact) Reverse() AspectFact {
	r := a
	r.From, r.To = a.To, a.From
	r.FromApplying, r.ToApplying = a.ToApplying, a.FromApplying
	r.Polarity = a.Polarity.Flip()
	if a.Separation > 0 && a.Separation < 180 {
		r.Forward = !a.Forward
	}
	return r
}

// Oriented returns the aspect oriented so that b is the From end
func (a AspectFact) Oriented(b Body) AspectFact {
	if a.From == b {
		return a
	}
	return a.Reverse()
}

// StarHit is a fixed star conjunct a body
type StarHit struct {
	Star      string  `json:"star"`
	Longitude float64 `json:"longitude"`
	Magnitude float64 `json:"magnitude"`
	Orb       float64 `json:"orb"`
}
