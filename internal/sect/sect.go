// Package sect classifies the day/night condition of a chart and its planets.
package sect

import (
	"github.com/ppiankov/almuten/internal/model"
	"github.com/ppiankov/almuten/internal/zodiac"
)

// AboveHorizon reports whether a house lies above the horizon (houses 7-12)
func AboveHorizon(house int) bool {
	return house >= 7 && house <= 12
}

// ChartSect returns day when the Sun occupies houses 7-12
func ChartSect(sunHouse int) model.ChartSect {
	if AboveHorizon(sunHouse) {
		return model.DayChart
	}
	return model.NightChart
}

// Orientation places a body relative to the Sun. A body behind the Sun in
// zodiacal order rises before it and is oriental.
func Orientation(b model.Body, lon, sunLon float64) model.Orientation {
	if b == model.Sun {
		return model.OrientationNone
	}
	d := zodiac.Forward(lon, sunLon)
	switch {
	case d > 0 && d < 180:
		return model.Oriental
	case d > 180:
		return model.Occidental
	default:
		return model.OrientationNone
	}
}

// PlanetSect returns the planet's own sect. Mercury is diurnal when
// oriental and nocturnal otherwise.
func PlanetSect(b model.Body, o model.Orientation) model.PlanetSect {
	switch b {
	case model.Sun, model.Jupiter, model.Saturn:
		return model.Diurnal
	case model.Mercury:
		if o == model.Oriental {
			return model.Diurnal
		}
		return model.Nocturnal
	default:
		return model.Nocturnal
	}
}

// Classify derives the sect facts of one body
func Classify(pos model.BodyPosition, sunLon float64, chart model.ChartSect) model.SectFacts {
	o := Orientation(pos.Body, pos.Longitude, sunLon)
	ps := PlanetSect(pos.Body, o)
	above := AboveHorizon(pos.House)

	f := model.SectFacts{
		ChartSect:    chart,
		PlanetSect:   ps,
		InSect:       (ps == model.Diurnal) == (chart == model.DayChart),
		AboveHorizon: above,
		Orientation:  o,
	}

	hemisphere := (ps == model.Diurnal && above) || (ps == model.Nocturnal && !above)
	f.Halb = f.InSect && hemisphere

	masculine := zodiac.SignOf(pos.Longitude).Masculine()
	gender := (ps == model.Diurnal) == masculine
	f.Hayz = f.Halb && gender
	return f
}
