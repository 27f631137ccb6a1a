package dignity

import "github.com/ppiankov/almuten/internal/model"

const (
	sun     = model.Sun
	moon    = model.Moon
	mercury = model.Mercury
	venus   = model.Venus
	mars    = model.Mars
	jupiter = model.Jupiter
	saturn  = model.Saturn
)

// domicile rulers, Aries..Pisces
var domicile = [12]model.Body{mars, venus, mercury, moon, sun, mercury, venus, mars, jupiter, saturn, saturn, jupiter}

var exaltation = [12]model.Body{
	model.Aries:     sun,
	model.Taurus:    moon,
	model.Cancer:    jupiter,
	model.Virgo:     mercury,
	model.Libra:     saturn,
	model.Capricorn: mars,
	model.Pisces:    venus,
}

// Dorothean triplicity rulers: day, night, participating
var triplicity = map[model.Element][3]model.Body{
	model.Fire:  {sun, jupiter, saturn},
	model.Earth: {venus, moon, mars},
	model.Air:   {saturn, mercury, jupiter},
	model.Water: {venus, mars, moon},
}

type term struct {
	end  float64 // Exclusive upper bound within the sign
	lord model.Body
}

// Egyptian terms
var terms = [12][5]term{
	{{6, jupiter}, {12, venus}, {20, mercury}, {25, mars}, {30, saturn}},  // Aries
	{{8, venus}, {14, mercury}, {22, jupiter}, {27, saturn}, {30, mars}},  // Taurus
	{{6, mercury}, {12, jupiter}, {17, venus}, {24, mars}, {30, saturn}},  // Gemini
	{{7, mars}, {13, venus}, {19, mercury}, {26, jupiter}, {30, saturn}},  // Cancer
	{{6, jupiter}, {11, venus}, {18, saturn}, {24, mercury}, {30, mars}},  // Leo
	{{7, mercury}, {17, venus}, {21, jupiter}, {28, mars}, {30, saturn}},  // Virgo
	{{6, saturn}, {14, mercury}, {21, jupiter}, {28, venus}, {30, mars}},  // Libra
	{{7, mars}, {11, venus}, {19, mercury}, {24, jupiter}, {30, saturn}},  // Scorpio
	{{12, jupiter}, {17, venus}, {21, mercury}, {26, saturn}, {30, mars}}, // Sagittarius
	{{7, mercury}, {14, jupiter}, {22, venus}, {26, saturn}, {30, mars}},  // Capricorn
	{{7, mercury}, {13, venus}, {20, jupiter}, {25, mars}, {30, saturn}},  // Aquarius
	{{12, venus}, {16, jupiter}, {19, mercury}, {28, mars}, {30, saturn}}, // Pisces
}

// Faces run through the Chaldean order starting with Mars at 0° Aries
const faceOffset = 2
