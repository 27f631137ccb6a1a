package ephemeris

import (
	"context"
	"time"

	"github.com/ppiankov/almuten/internal/model"
	"github.com/ppiankov/almuten/internal/zodiac"
)

// Locator is the single-body lookup the derived searches need
type Locator interface {
	Position(ctx context.Context, body model.Body, t time.Time) (model.Coordinates, error)
}

const (
	horizonStep   = 20 * time.Minute
	horizonReach  = 30 * time.Hour
	lunationStep  = 12 * time.Hour
	lunationReach = 35 * 24 * time.Hour
)

type crossing struct {
	at     time.Time
	rising bool
}

func sunAltitude(ctx context.Context, loc Locator, t time.Time, lat, lon float64) (float64, error) {
	c, err := loc.Position(ctx, model.Sun, t)
	if err != nil {
		return 0, err
	}
	return Altitude(JulianDay(t), lat, lon, c.Longitude), nil
}

// FindSolarDay locates the sunrise that opened the planetary day containing
// t, the following sunset and the next sunrise. Rise and set are taken at
// the geometric horizon for the Sun's center.
func FindSolarDay(ctx context.Context, loc Locator, t time.Time, lat, lon float64) (model.SolarDay, error) {
	t = t.UTC()
	start, end := t.Add(-horizonReach), t.Add(horizonReach)

	var crossings []crossing
	prev := start
	prevAlt, err := sunAltitude(ctx, loc, prev, lat, lon)
	if err != nil {
		return model.SolarDay{}, err
	}
	for cur := start.Add(horizonStep); !cur.After(end); cur = cur.Add(horizonStep) {
		if err := ctx.Err(); err != nil {
			return model.SolarDay{}, err
		}
		alt, err := sunAltitude(ctx, loc, cur, lat, lon)
		if err != nil {
			return model.SolarDay{}, err
		}
		if (prevAlt < 0) != (alt < 0) {
			at, err := refineHorizon(ctx, loc, prev, cur, prevAlt < 0, lat, lon)
			if err != nil {
				return model.SolarDay{}, err
			}
			crossings = append(crossings, crossing{at: at, rising: prevAlt < 0})
		}
		prev, prevAlt = cur, alt
	}

	var day model.SolarDay
	for _, c := range crossings {
		if c.rising && !c.at.After(t) {
			day.Sunrise = c.at
		}
	}
	for _, c := range crossings {
		if !day.Sunrise.IsZero() && !c.rising && c.at.After(day.Sunrise) && day.Sunset.IsZero() {
			day.Sunset = c.at
		}
	}
	for _, c := range crossings {
		if !day.Sunset.IsZero() && c.rising && c.at.After(day.Sunset) && day.NextSunrise.IsZero() {
			day.NextSunrise = c.at
		}
	}
	if day.Sunrise.IsZero() || day.Sunset.IsZero() || day.NextSunrise.IsZero() {
		return model.SolarDay{}, model.InputErrorf("latitude", "the Sun does not both rise and set around %s at latitude %.2f",
			t.Format(time.RFC3339), lat)
	}
	return day, nil
}

// refineHorizon bisects [lo, hi] to one second around the horizon crossing
func refineHorizon(ctx context.Context, loc Locator, lo, hi time.Time, loBelow bool, lat, lon float64) (time.Time, error) {
	for hi.Sub(lo) > time.Second {
		mid := lo.Add(hi.Sub(lo) / 2)
		alt, err := sunAltitude(ctx, loc, mid, lat, lon)
		if err != nil {
			return time.Time{}, err
		}
		if (alt < 0) == loBelow {
			lo = mid
		} else {
			hi = mid
		}
	}
	return hi.Truncate(time.Second), nil
}

func elongation(ctx context.Context, loc Locator, t time.Time) (sun, moon model.Coordinates, elong float64, err error) {
	if sun, err = loc.Position(ctx, model.Sun, t); err != nil {
		return
	}
	if moon, err = loc.Position(ctx, model.Moon, t); err != nil {
		return
	}
	return sun, moon, zodiac.Forward(sun.Longitude, moon.Longitude), nil
}

// FindSyzygy finds the last new or full Moon at or before t. A waxing Moon
// was last new, a waning Moon last full. For a full Moon the degree is
// taken from whichever luminary was above the horizon at the syzygy.
func FindSyzygy(ctx context.Context, loc Locator, t time.Time, lat, lon float64) (model.Syzygy, error) {
	t = t.UTC()
	_, _, e0, err := elongation(ctx, loc, t)
	if err != nil {
		return model.Syzygy{}, err
	}
	kind, target := model.NewMoon, 0.0
	if e0 >= 180 {
		kind, target = model.FullMoon, 180
	}

	offset := func(at time.Time) (float64, error) {
		_, _, e, err := elongation(ctx, loc, at)
		return zodiac.Signed(target, e), err
	}

	hi, lo := t, t
	if g0 := zodiac.Signed(target, e0); g0 > 0 {
		for {
			if err := ctx.Err(); err != nil {
				return model.Syzygy{}, err
			}
			lo = hi.Add(-lunationStep)
			if t.Sub(lo) > lunationReach {
				return model.Syzygy{}, model.ConfigErrorf("ephemeris", nil, "no lunation found within %s before %s",
					lunationReach, t.Format(time.RFC3339))
			}
			g, err := offset(lo)
			if err != nil {
				return model.Syzygy{}, err
			}
			if g < 0 {
				break
			}
			hi = lo
		}
		for hi.Sub(lo) > time.Minute {
			mid := lo.Add(hi.Sub(lo) / 2)
			g, err := offset(mid)
			if err != nil {
				return model.Syzygy{}, err
			}
			if g < 0 {
				lo = mid
			} else {
				hi = mid
			}
		}
	}

	at := hi.Truncate(time.Second)
	sun, moon, _, err := elongation(ctx, loc, at)
	if err != nil {
		return model.Syzygy{}, err
	}
	s := model.Syzygy{Kind: kind, Time: at, Longitude: moon.Longitude}
	if kind == model.FullMoon {
		s.Luminary = model.Moon
		if Altitude(JulianDay(at), lat, lon, sun.Longitude) > 0 {
			s.Luminary = model.Sun
			s.Longitude = sun.Longitude
		}
	}
	return s, nil
}
