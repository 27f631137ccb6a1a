package model

// Reception records a host holding dignity at a guest's place
type Reception struct {
	Guest      Body          `json:"guest"`
	Host       Body          `json:"host"`
	Tiers      []DignityTier `json:"tiers"`
	Aspect     AspectKind    `json:"aspect,omitempty"` // Empty when the two are unaspected
	Generosity bool          `json:"generosity"`       // Dignity without an aspect
}

// MutualReception pairs two bodies each dignified at the other's place
type MutualReception struct {
	A      Body          `json:"a"`
	B      Body          `json:"b"`
	ATiers []DignityTier `json:"a_tiers"` // Dignities A holds at B's place
	BTiers []DignityTier `json:"b_tiers"` // Dignities B holds at A's place
	Aspect AspectKind    `json:"aspect,omitempty"`
}

// Domination is one body overcoming another from the 9th, 10th or 11th sign
type Domination struct {
	Dominator  Body       `json:"dominator"`
	Dominated  Body       `json:"dominated"`
	Kind       AspectKind `json:"kind"`        // Whole-sign figure: trine, square or sextile
	Decimation bool       `json:"decimation"`  // Overcoming by square from the 10th sign
	CounterRay bool       `json:"counter_ray"` // The aspect is within the counter-ray orb
	Orb        float64    `json:"orb,omitempty"`
	Applying   bool       `json:"applying"`
}

// EnclosureMode tells sign-based from ray-based besiegement
type EnclosureMode string

const (
	EnclosureBySign EnclosureMode = "sign"
	EnclosureByRay  EnclosureMode = "ray"
)

// Nature is benefic or malefic
type Nature string

const (
	Benefic Nature = "benefic"
	Malefic Nature = "malefic"
)

// Enclosure records a body besieged between two bodies of the same nature
type Enclosure struct {
	Mode   EnclosureMode `json:"mode"`
	Nature Nature        `json:"nature"`
	Behind Body          `json:"behind"` // Earlier in zodiacal order
	Ahead  Body          `json:"ahead"`
}

// Influence is one reason a body is bonified or maltreated
type Influence struct {
	Source Body   `json:"source"`
	Reason string `json:"reason"`
}

// Translation of light: Translator separates from From and applies to To
type Translation struct {
	Translator       Body `json:"translator"`
	From             Body `json:"from"`
	To               Body `json:"to"`
	NaturallyFastest bool `json:"naturally_fastest"` // Translator's mean motion exceeds both ends
}

// Collection of light: both feeders apply to the slower Collector
type Collection struct {
	Collector                Body `json:"collector"`
	A                        Body `json:"a"`
	B                        Body `json:"b"`
	CollectorNaturallySlower bool `json:"collector_naturally_slower"` // Collector's mean motion is below both feeders
	NaturallyFastest         Body `json:"naturally_fastest"`          // The feeder with the greater mean motion
}

// AntisciaHit is another body on a body's antiscion or contra-antiscion
type AntisciaHit struct {
	Other  Body `json:"other"`
	Contra bool `json:"contra"`
}

// DomicileAversion describes whether a planet sees one of its own signs
type DomicileAversion struct {
	Sign      Sign   `json:"sign"`
	Averse    bool   `json:"averse"`
	AvoidedBy string `json:"avoided_by,omitempty"` // "translation:<body>", "antiscia" or "contra_antiscia"
}

// RelationshipFacts gathers everything the relationship pass says about one body
type RelationshipFacts struct {
	ReceivedBy        []Reception        `json:"received_by,omitempty"`
	Receives          []Reception        `json:"receives,omitempty"`
	Dominates         []Domination       `json:"dominates,omitempty"`
	DominatedBy       []Domination       `json:"dominated_by,omitempty"`
	Enclosures        []Enclosure        `json:"enclosures,omitempty"`
	Bonified          bool               `json:"bonified"`
	Bonifications     []Influence        `json:"bonifications,omitempty"`
	Maltreated        bool               `json:"maltreated"`
	Maltreatments     []Influence        `json:"maltreatments,omitempty"`
	Feral             bool               `json:"feral"`
	Antiscia          []AntisciaHit      `json:"antiscia,omitempty"`
	DomicileAversions []DomicileAversion `json:"domicile_aversions,omitempty"`
}

// ChartRelationships is the output of the relationship pass
type ChartRelationships struct {
	Bodies           map[Body]RelationshipFacts `json:"-"`
	MutualReceptions []MutualReception          `json:"mutual_receptions,omitempty"`
	Translations     []Translation              `json:"translations,omitempty"`
	Collections      []Collection               `json:"collections,omitempty"`
}
