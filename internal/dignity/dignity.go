// Package dignity maps zodiacal longitudes to essential dignities.
package dignity

import (
	"github.com/ppiankov/almuten/internal/model"
	"github.com/ppiankov/almuten/internal/zodiac"
)

func index(s model.Sign) int {
	return ((int(s) % 12) + 12) % 12
}

// Ruler returns the domicile lord of a sign
func Ruler(s model.Sign) model.Body {
	return domicile[index(s)]
}

// Exaltation returns the planet exalted in a sign, or model.NoBody
func Exaltation(s model.Sign) model.Body {
	return exaltation[index(s)]
}

// TriplicityRulers returns the day, night and participating lords of the sign's element
func TriplicityRulers(s model.Sign) [3]model.Body {
	return triplicity[s.Element()]
}

// TriplicityRuler returns the lord of the sign's element for the chart's sect
func TriplicityRuler(s model.Sign, sect model.ChartSect) model.Body {
	r := TriplicityRulers(s)
	if sect == model.NightChart {
		return r[1]
	}
	return r[0]
}

// Term returns the Egyptian term lord at a longitude.
// A boundary degree belongs to the term that starts there.
func Term(lon float64) model.Body {
	s := zodiac.SignOf(lon)
	deg := zodiac.DegreeInSign(lon)
	for _, t := range terms[s] {
		if deg < t.end {
			return t.lord
		}
	}
	return terms[s][len(terms[s])-1].lord
}

// Face returns the decan lord at a longitude
func Face(lon float64) model.Body {
	s := int(zodiac.SignOf(lon))
	decan := int(zodiac.DegreeInSign(lon) / 10)
	if decan > 2 {
		decan = 2
	}
	return model.ChaldeanOrder[(faceOffset+s*3+decan)%7]
}

// Domiciles returns the signs a planet rules
func Domiciles(b model.Body) []model.Sign {
	var out []model.Sign
	for s, r := range domicile {
		if r == b {
			out = append(out, model.Sign(s))
		}
	}
	return out
}

// InDetriment reports whether b occupies the sign opposite one it rules
func InDetriment(b model.Body, s model.Sign) bool {
	return Ruler(s.Opposite()) == b
}

// InFall reports whether b occupies the sign opposite its exaltation
func InFall(b model.Body, s model.Sign) bool {
	return Exaltation(s.Opposite()) == b
}

// Holdings lists the dignities planet b holds at lon, strongest first.
// Any of the three triplicity lords counts as holding triplicity.
func Holdings(b model.Body, lon float64) []model.DignityTier {
	s := zodiac.SignOf(lon)
	var out []model.DignityTier
	if Ruler(s) == b {
		out = append(out, model.TierDomicile)
	}
	if Exaltation(s) == b {
		out = append(out, model.TierExaltation)
	}
	for _, r := range TriplicityRulers(s) {
		if r == b {
			out = append(out, model.TierTriplicity)
			break
		}
	}
	if Term(lon) == b {
		out = append(out, model.TierTerm)
	}
	if Face(lon) == b {
		out = append(out, model.TierFace)
	}
	return out
}

// Evaluate returns the dignity facts for body b placed at lon in a chart of the given sect
func Evaluate(b model.Body, lon float64, sect model.ChartSect) model.DignityFacts {
	s := zodiac.SignOf(lon)
	f := model.DignityFacts{
		Sign:             s,
		Degree:           zodiac.DegreeInSign(lon),
		Ruler:            Ruler(s),
		Exaltation:       Exaltation(s),
		Triplicity:       TriplicityRuler(s, sect),
		TriplicityRulers: TriplicityRulers(s),
		Term:             Term(lon),
		Face:             Face(lon),
		Detriment:        InDetriment(b, s),
		Fall:             InFall(b, s),
	}
	for _, tier := range Holdings(b, lon) {
		switch tier {
		case model.TierDomicile:
			f.Domicile = true
		case model.TierExaltation:
			f.Exalted = true
		case model.TierTriplicity:
			f.InTriplicity = true
		case model.TierTerm:
			f.InTerm = true
		case model.TierFace:
			f.InFace = true
		}
	}
	f.Peregrine = !(f.Domicile || f.Exalted || f.InTriplicity || f.InTerm || f.InFace)
	return f
}

// Holders maps every planet holding a dignity at lon to its tiers
func Holders(lon float64) map[model.Body][]model.DignityTier {
	out := make(map[model.Body][]model.DignityTier)
	for _, b := range model.Bodies() {
		if tiers := Holdings(b, lon); len(tiers) > 0 {
			out[b] = tiers
		}
	}
	return out
}
