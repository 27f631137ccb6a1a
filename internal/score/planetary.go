package score

import (
	"time"

	"github.com/ppiankov/almuten/internal/model"
)

// weekdayRulers follows time.Weekday order, Sunday first
var weekdayRulers = [7]model.Body{
	model.Sun, model.Moon, model.Mars, model.Mercury, model.Jupiter, model.Venus, model.Saturn,
}

// PlanetaryTime finds the planetary day and hour of t. The day opens at
// day.Sunrise and its weekday is read from that sunrise in local mean time
// at the east-positive longitude lon. The twelve day hours divide sunrise to
// sunset and the twelve night hours divide sunset to the next sunrise.
func PlanetaryTime(t time.Time, lon float64, day model.SolarDay) model.PlanetaryTime {
	lmt := day.Sunrise.UTC().Add(time.Duration(lon / 15 * float64(time.Hour)))
	pt := model.PlanetaryTime{
		DayRuler: weekdayRulers[lmt.Weekday()],
		SolarDay: day,
	}

	if t.Before(day.Sunset) {
		pt.Daytime = true
		pt.Hour = 1 + hourIndex(t, day.Sunrise, day.Sunset)
	} else {
		pt.Hour = 13 + hourIndex(t, day.Sunset, day.NextSunrise)
	}
	pt.HourRuler = model.ChaldeanOrder[(pt.DayRuler.Rank()+pt.Hour-1)%len(model.ChaldeanOrder)]
	return pt
}

// hourIndex is the unequal hour (0..11) of t within [start, end)
func hourIndex(t, start, end time.Time) int {
	span := end.Sub(start)
	if span <= 0 {
		return 0
	}
	idx := int(12 * t.Sub(start).Seconds() / span.Seconds())
	return max(0, min(idx, 11))
}
