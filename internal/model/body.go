package model

import "strings"

// Body identifies one of the seven traditional planets
type Body string

const (
	Sun     Body = "Sun"
	Moon    Body = "Moon"
	Mercury Body = "Mercury"
	Venus   Body = "Venus"
	Mars    Body = "Mars"
	Jupiter Body = "Jupiter"
	Saturn  Body = "Saturn"

	NoBody Body = "" // Used where a table has no ruler (e.g. signs without an exaltation)
)

// ChaldeanOrder lists the planets from slowest to fastest. It doubles as the
// planetary hierarchy for tiebreaks: earlier ranks higher.
var ChaldeanOrder = [7]Body{Saturn, Jupiter, Mars, Sun, Venus, Mercury, Moon}

// Bodies returns the traditional planets in Chaldean order
func Bodies() []Body {
	out := make([]Body, len(ChaldeanOrder))
	copy(out, ChaldeanOrder[:])
	return out
}

// Rank returns the body's position in the Chaldean hierarchy (0 = Saturn).
// Unknown bodies rank after all planets.
func (b Body) Rank() int {
	for i, c := range ChaldeanOrder {
		if c == b {
			return i
		}
	}
	return len(ChaldeanOrder)
}

// Valid reports whether b is one of the seven traditional planets
func (b Body) Valid() bool {
	return b.Rank() < len(ChaldeanOrder)
}

// IsBenefic reports whether b is Venus or Jupiter
func (b Body) IsBenefic() bool { return b == Venus || b == Jupiter }

// IsMalefic reports whether b is Mars or Saturn
func (b Body) IsMalefic() bool { return b == Mars || b == Saturn }

// IsSuperior reports whether b is Mars, Jupiter or Saturn
func (b Body) IsSuperior() bool { return b == Mars || b == Jupiter || b == Saturn }

// IsInferior reports whether b is Mercury or Venus
func (b Body) IsInferior() bool { return b == Mercury || b == Venus }

// ConfigKey is the lower-case key used for per-body settings.
// Viper lower-cases map keys, so config lookups go through this.
func (b Body) ConfigKey() string { return strings.ToLower(string(b)) }

// ParseBody resolves a planet name case-insensitively
func ParseBody(s string) (Body, bool) {
	for _, b := range ChaldeanOrder {
		if strings.EqualFold(string(b), strings.TrimSpace(s)) {
			return b, true
		}
	}
	return NoBody, false
}

// Sign is a zodiac sign index, Aries = 0 through Pisces = 11
type Sign int

const (
	Aries Sign = iota
	Taurus
	Gemini
	Cancer
	Leo
	Virgo
	Libra
	Scorpio
	Sagittarius
	Capricorn
	Aquarius
	Pisces
)

var signNames = [12]string{
	"Aries", "Taurus", "Gemini", "Cancer", "Leo", "Virgo",
	"Libra", "Scorpio", "Sagittarius", "Capricorn", "Aquarius", "Pisces",
}

func (s Sign) String() string {
	return signNames[((int(s)%12)+12)%12]
}

// MarshalText renders the sign by name in reports
func (s Sign) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses a sign name, ignoring case
func (s *Sign) UnmarshalText(text []byte) error {
	name := strings.TrimSpace(string(text))
	for i, n := range signNames {
		if strings.EqualFold(n, name) {
			*s = Sign(i)
			return nil
		}
	}
	return InputErrorf("sign", "unknown sign %q", name)
}

// Element is the triplicity a sign belongs to
type Element string

const (
	Fire  Element = "fire"
	Earth Element = "earth"
	Air   Element = "air"
	Water Element = "water"
)

// Element returns the sign's element (Aries fire, Taurus earth, ...)
func (s Sign) Element() Element {
	return [4]Element{Fire, Earth, Air, Water}[((int(s)%12)+12)%12%4]
}

// Masculine reports whether the sign is masculine (fire and air signs)
func (s Sign) Masculine() bool {
	return ((int(s)%12)+12)%12%2 == 0
}

// Opposite returns the sign six places away
func (s Sign) Opposite() Sign {
	return Sign((((int(s)+6)%12)+12)%12)
}

// ChartSect is the day/night division of a chart
type ChartSect string

const (
	DayChart   ChartSect = "day"
	NightChart ChartSect = "night"
)

// PlanetSect is a planet's own sect class
type PlanetSect string

const (
	Diurnal   PlanetSect = "diurnal"
	Nocturnal PlanetSect = "nocturnal"
)
