package ephemeris

import (
	"math"
	"time"

	"github.com/ppiankov/almuten/internal/model"
	"github.com/ppiankov/almuten/internal/zodiac"
)

const (
	jdUnixEpoch = 2440587.5
	jdJ2000     = 2451545.0
	deg         = math.Pi / 180
)

// JulianDay converts an instant to a Julian day number (UT)
func JulianDay(t time.Time) float64 {
	return float64(t.UnixNano())/(86400*1e9) + jdUnixEpoch
}

func centuries(jd float64) float64 {
	return (jd - jdJ2000) / 36525
}

// Obliquity is the mean obliquity of the ecliptic in degrees
func Obliquity(jd float64) float64 {
	T := centuries(jd)
	return 23.4392911 - 0.0130041667*T - 1.6389e-7*T*T + 5.0361e-7*T*T*T
}

// SiderealTime is the local mean sidereal time in degrees for an east-positive longitude
func SiderealTime(jd, lon float64) float64 {
	T := centuries(jd)
	gmst := 280.46061837 + 360.98564736629*(jd-jdJ2000) + 0.000387933*T*T - T*T*T/38710000
	return zodiac.Normalize(gmst + lon)
}

// Angles returns the Ascendant and Midheaven longitudes
func Angles(jd, lat, lon float64) (asc, mc float64) {
	theta := SiderealTime(jd, lon) * deg
	eps := Obliquity(jd) * deg
	phi := lat * deg

	mc = math.Atan2(math.Sin(theta), math.Cos(theta)*math.Cos(eps)) / deg
	asc = math.Atan2(math.Cos(theta), -(math.Sin(theta)*math.Cos(eps) + math.Tan(phi)*math.Sin(eps))) / deg
	return zodiac.Normalize(asc), zodiac.Normalize(mc)
}

// ComputeHouses builds the angles and cusps for a house system tag
func ComputeHouses(t time.Time, lat, lon float64, system string) (model.Houses, error) {
	asc, mc := Angles(JulianDay(t), lat, lon)
	h := model.Houses{System: system, Ascendant: asc, MC: mc}

	var first float64
	switch system {
	case model.HouseSystemWholeSign:
		first = float64(zodiac.SignOf(asc)) * 30
	case model.HouseSystemEqual:
		first = asc
	default:
		return model.Houses{}, model.InputErrorf("house_system", "unsupported house system %q", system)
	}
	for i := range h.Cusps {
		h.Cusps[i] = zodiac.Normalize(first + float64(i)*30)
	}
	return h, nil
}

// HouseOf returns the house (1..12) containing a longitude
func HouseOf(lon float64, h model.Houses) int {
	if h.System == model.HouseSystemWholeSign {
		return zodiac.SignDistance(zodiac.SignOf(h.Ascendant), zodiac.SignOf(lon)) + 1
	}
	n := int(zodiac.Forward(h.Cusps[0], lon)/30) + 1
	if n > 12 {
		n = 12
	}
	return n
}

// Altitude is the geometric altitude in degrees of an ecliptic point
// (latitude zero) seen from the given place
func Altitude(jd, lat, lon, eclLon float64) float64 {
	eps := Obliquity(jd) * deg
	l := eclLon * deg
	ra := math.Atan2(math.Sin(l)*math.Cos(eps), math.Cos(l))
	dec := math.Asin(math.Sin(eps) * math.Sin(l))
	ha := SiderealTime(jd, lon)*deg - ra
	phi := lat * deg
	return math.Asin(math.Sin(phi)*math.Sin(dec)+math.Cos(phi)*math.Cos(dec)*math.Cos(ha)) / deg
}
