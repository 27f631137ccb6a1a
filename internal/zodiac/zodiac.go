// Package zodiac holds the circular arithmetic shared by every classifier.
package zodiac

import (
	"math"

	"github.com/ppiankov/almuten/internal/model"
)

// Normalize maps any angle into [0, 360)
func Normalize(deg float64) float64 {
	d := math.Mod(deg, 360)
	if d < 0 {
		d += 360
	}
	if d >= 360 {
		d = 0
	}
	return d
}

// SignOf returns the sign containing a longitude
func SignOf(lon float64) model.Sign {
	return model.Sign(int(Normalize(lon) / 30))
}

// DegreeInSign returns the position within the sign, [0, 30)
func DegreeInSign(lon float64) float64 {
	return math.Mod(Normalize(lon), 30)
}

// Separation is the shortest arc between two longitudes, [0, 180]
func Separation(a, b float64) float64 {
	d := math.Abs(Normalize(a) - Normalize(b))
	if d > 180 {
		d = 360 - d
	}
	return d
}

// Forward is the arc travelled from a to b in zodiacal order, [0, 360)
func Forward(a, b float64) float64 {
	return Normalize(b - a)
}

// Signed is the shortest signed arc from a to b, (-180, 180].
// Positive when b lies ahead of a.
func Signed(a, b float64) float64 {
	d := Forward(a, b)
	if d > 180 {
		d -= 360
	}
	return d
}

// SignDistance counts signs from a to b in zodiacal order, 0..11
func SignDistance(a, b model.Sign) int {
	return ((int(b)-int(a))%12 + 12) % 12
}

// Format renders a longitude as degrees and minutes within the sign, e.g. 18°09' Gemini
func Format(lon float64) (deg, min int, sign model.Sign) {
	sign = SignOf(lon)
	total := int(math.Round(DegreeInSign(lon) * 60))
	if total >= 30*60 {
		total = 30*60 - 1
	}
	return total / 60, total % 60, sign
}
