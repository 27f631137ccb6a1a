package relate

import (
	"github.com/ppiankov/almuten/internal/dignity"
	"github.com/ppiankov/almuten/internal/model"
	"github.com/ppiankov/almuten/internal/zodiac"
)

// Antiscion mirrors a longitude across the solstitial (Cancer/Capricorn) axis
func Antiscion(lon float64) float64 {
	return zodiac.Normalize(180 - lon)
}

// ContraAntiscion mirrors a longitude across the equinoctial (Aries/Libra) axis
func ContraAntiscion(lon float64) float64 {
	return zodiac.Normalize(360 - lon)
}

// antiscia links bodies in mirrored signs whose whole degrees sum to 29
func (c *chart) antiscia() {
	for _, b := range c.bodies {
		lon := c.pos[b].Longitude
		deg := int(zodiac.DegreeInSign(lon))
		anti, contra := mirroredSigns(c.sign(b))
		for _, o := range c.bodies {
			if o == b {
				continue
			}
			olon := c.pos[o].Longitude
			if deg+int(zodiac.DegreeInSign(olon)) != 29 {
				continue
			}
			switch zodiac.SignOf(olon) {
			case anti:
				c.facts[b].Antiscia = append(c.facts[b].Antiscia, model.AntisciaHit{Other: o})
			case contra:
				c.facts[b].Antiscia = append(c.facts[b].Antiscia, model.AntisciaHit{Other: o, Contra: true})
			}
		}
	}
}

// SeesSign reports a whole-sign aspect (or co-presence) between two signs
func SeesSign(a, b model.Sign) bool {
	switch zodiac.SignDistance(a, b) {
	case 0, 2, 3, 4, 6, 8, 9, 10:
		return true
	}
	return false
}

func mirroredSigns(s model.Sign) (anti, contra model.Sign) {
	mid := float64(s)*30 + 15
	return zodiac.SignOf(Antiscion(mid)), zodiac.SignOf(ContraAntiscion(mid))
}

// aversions reports for each domicile whether its lord sees it. Aversion is
// avoided by a translation linking the lord with a planet in that sign, or
// by the lord standing in the sign's antiscion or contra-antiscion.
func (c *chart) aversions(translations []model.Translation) {
	for _, b := range c.bodies {
		cur := c.sign(b)
		for _, dom := range dignity.Domiciles(b) {
			da := model.DomicileAversion{Sign: dom, Averse: !SeesSign(cur, dom)}
			if da.Averse {
				da.AvoidedBy = c.avoidance(b, cur, dom, translations)
			}
			c.facts[b].DomicileAversions = append(c.facts[b].DomicileAversions, da)
		}
	}
}

func (c *chart) avoidance(b model.Body, cur, dom model.Sign, translations []model.Translation) string {
	for _, t := range translations {
		var other model.Body
		switch b {
		case t.From:
			other = t.To
		case t.To:
			other = t.From
		default:
			continue
		}
		if c.sign(other) == dom {
			return "translation:" + string(t.Translator)
		}
	}
	anti, contra := mirroredSigns(dom)
	switch cur {
	case anti:
		return "antiscia"
	case contra:
		return "contra_antiscia"
	}
	return ""
}
