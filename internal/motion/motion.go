// Package motion classifies speed, direction and synodic phase.
package motion

import (
	"math"

	"github.com/ppiankov/almuten/internal/model"
	"github.com/ppiankov/almuten/internal/sect"
	"github.com/ppiankov/almuten/internal/zodiac"
)

// meanSpeed is the mean daily motion in longitude of each planet
var meanSpeed = map[model.Body]float64{
	model.Sun:     0.9856,
	model.Moon:    13.1764,
	model.Mercury: 1.607,
	model.Venus:   1.174,
	model.Mars:    0.524,
	model.Jupiter: 0.0831,
	model.Saturn:  0.0335,
}

// MeanSpeed returns the mean daily motion of b in degrees, or 0 for an
// unknown body
func MeanSpeed(b model.Body) float64 {
	return meanSpeed[b]
}

// Classifier derives MotionFacts using the configured thresholds
type Classifier struct {
	cfg model.MotionConfig
}

// NewClassifier creates a motion classifier
func NewClassifier(cfg model.MotionConfig) *Classifier {
	return &Classifier{cfg: cfg}
}

// Classify returns the motion facts of pos relative to the Sun's longitude
func (c *Classifier) Classify(pos model.BodyPosition, sunLon float64) model.MotionFacts {
	f := model.MotionFacts{
		Direction:   model.Direct,
		Speed:       pos.Speed,
		NearStation: math.Abs(pos.Speed) < c.cfg.StationSpeed,
	}
	if pos.Speed < 0 {
		f.Direction = model.Retrograde
	}
	if mean := MeanSpeed(pos.Body); mean > 0 {
		f.SpeedRatio = math.Abs(pos.Speed) / mean
	}
	switch {
	case f.SpeedRatio < c.cfg.SlowRatio:
		f.SpeedClass = model.Slow
	case f.SpeedRatio > c.cfg.SwiftRatio:
		f.SpeedClass = model.Swift
	default:
		f.SpeedClass = model.Average
	}

	if pos.Body == model.Sun {
		f.Phase = model.SynodicPhase{Group: model.PhaseNone, Code: "none", Label: "Sun"}
		return f
	}

	f.Elongation = zodiac.Separation(pos.Longitude, sunLon)
	beams := c.cfg.UnderBeamsOrb
	if pos.Body == model.Moon {
		beams = c.cfg.MoonUnderBeamsOrb
	}
	f.Cazimi = f.Elongation <= c.cfg.CazimiOrb
	f.Combust = !f.Cazimi && f.Elongation <= c.cfg.CombustOrb
	f.UnderBeams = !f.Cazimi && !f.Combust && f.Elongation <= beams

	switch {
	case pos.Body == model.Moon:
		f.Phase = c.lunar(pos, sunLon, f.Elongation)
	case pos.Body.IsInferior():
		f.Phase = c.inferior(pos, sunLon, f.Elongation)
	default:
		f.Phase = c.superior(pos, sunLon, f.Elongation)
	}
	return f
}

func phase(g model.PhaseGroup, code string, index int, label string) model.SynodicPhase {
	return model.SynodicPhase{Group: g, Code: code, Index: index, Label: label}
}

// superior classifies Mars, Jupiter and Saturn. The cycle runs conjunction,
// oriental rising, first station, opposition, second station, occidental
// setting, and back to conjunction.
func (c *Classifier) superior(pos model.BodyPosition, sunLon, elong float64) model.SynodicPhase {
	const g = model.PhaseSuperior
	oriental := sect.Orientation(pos.Body, pos.Longitude, sunLon) == model.Oriental
	station := math.Abs(pos.Speed) < c.cfg.StationSpeed
	retro := pos.Speed < 0

	if elong <= c.cfg.CazimiOrb {
		return phase(g, "cazimi", 1, "Cazimi")
	}

	if oriental {
		switch {
		case elong <= c.cfg.CombustOrb:
			return phase(g, "combust_east", 2, "Combust (east)")
		case elong <= c.cfg.UnderBeamsOrb:
			return phase(g, "under_beams_east", 3, "Under beams (east)")
		case station:
			return phase(g, "first_station", 7, "First station (east)")
		case retro && elong >= 168:
			return phase(g, "around_opposition", 9, "Around opposition")
		case retro:
			return phase(g, "retrograde_approaching_opposition", 8, "Retrograde approaching opposition")
		case elong <= 30:
			return phase(g, "oriental_strong", 4, "Oriental strong")
		case elong <= 90:
			return phase(g, "oriental_weak", 5, "Oriental weak")
		default:
			return phase(g, "oriental_far_before_station", 6, "Oriental far before station")
		}
	}

	setting := 18.0
	if pos.Body == model.Saturn || pos.Body == model.Jupiter {
		setting = 22
	}
	switch {
	case elong <= c.cfg.CombustOrb:
		return phase(g, "combust_west", 17, "Combust (west)")
	case elong <= c.cfg.UnderBeamsOrb:
		return phase(g, "under_beams_west", 16, "Under beams (west)")
	case station:
		return phase(g, "second_station", 11, "Second station (west)")
	case retro && elong >= 168:
		return phase(g, "around_opposition", 9, "Around opposition")
	case retro:
		return phase(g, "retrograde_receding_or_pre_second_station", 10, "Retrograde receding / pre-second station")
	case elong < setting:
		return phase(g, "occidental_setting_degrees", 15, "Occidental setting degrees")
	case elong < 60:
		return phase(g, "occidental_visible_direct_early", 12, "Occidental visible (direct, early)")
	case elong < 90:
		return phase(g, "occidental_leaning", 13, "Occidental leaning")
	default:
		return phase(g, "occidental_strong", 14, "Occidental strong")
	}
}

// inferior classifies Mercury and Venus. Retrograde motion on the oriental
// side is the return leg after the inferior conjunction.
func (c *Classifier) inferior(pos model.BodyPosition, sunLon, elong float64) model.SynodicPhase {
	const g = model.PhaseInferior
	oriental := sect.Orientation(pos.Body, pos.Longitude, sunLon) == model.Oriental
	station := math.Abs(pos.Speed) < c.cfg.StationSpeed
	retro := pos.Speed < 0

	if elong <= c.cfg.CazimiOrb {
		return phase(g, "cazimi", 1, "Cazimi")
	}

	if oriental {
		if retro {
			switch {
			case elong <= c.cfg.CombustOrb:
				return phase(g, "combust_east_return", 8, "Combust (east, return)")
			case elong <= c.cfg.UnderBeamsOrb:
				return phase(g, "under_beams_east_return", 7, "Under beams (east, return)")
			case station:
				return phase(g, "second_station_east", 5, "Second station (east)")
			default:
				return phase(g, "direct_east_closing", 6, "Direct east closing")
			}
		}
		switch {
		case elong <= c.cfg.CombustOrb:
			return phase(g, "combust_east", 2, "Combust (east)")
		case elong <= c.cfg.UnderBeamsOrb:
			return phase(g, "under_beams_east", 3, "Under beams (east)")
		case station:
			return phase(g, "second_station_east", 5, "Second station (east)")
		default:
			return phase(g, "oriental_strong_before_second_station", 4, "Oriental strong (before station)")
		}
	}

	switch {
	case elong <= c.cfg.CombustOrb && !retro:
		return phase(g, "combust_west", 10, "Combust (west)")
	case elong <= c.cfg.CombustOrb:
		return phase(g, "combust_west_return", 16, "Combust (west, return)")
	case elong <= c.cfg.UnderBeamsOrb && !retro:
		return phase(g, "under_beams_west_7_15", 11, "Under beams (west 7-15)")
	case elong <= c.cfg.UnderBeamsOrb:
		return phase(g, "under_beams_west_15_7_return", 15, "Under beams (west 15-7 return)")
	case station:
		return phase(g, "first_station_west", 13, "First station (west)")
	case retro:
		return phase(g, "retrograde_west_towards_sun", 14, "Retrograde west towards Sun")
	default:
		return phase(g, "occidental_visible_direct", 12, "Occidental visible (direct)")
	}
}

// lunar classifies the Moon by waxing or waning distance from the Sun
func (c *Classifier) lunar(pos model.BodyPosition, sunLon, elong float64) model.SynodicPhase {
	const g = model.PhaseLunar
	if elong <= c.cfg.CazimiOrb {
		return phase(g, "cazimi", 1, "Cazimi")
	}
	beams := c.cfg.MoonUnderBeamsOrb

	if zodiac.Forward(sunLon, pos.Longitude) < 180 {
		switch {
		case elong <= c.cfg.CombustOrb:
			return phase(g, "combust", 2, "Combust")
		case elong <= beams:
			return phase(g, "under_beams", 3, "Under beams")
		case elong <= 45:
			return phase(g, "waxing_crescent", 4, "Waxing crescent")
		case elong <= 90:
			return phase(g, "waxing_quarter", 5, "Waxing quarter")
		case elong <= 135:
			return phase(g, "waxing_gibbous", 6, "Waxing gibbous")
		case elong <= 168:
			return phase(g, "waxing_near_full", 7, "Waxing near full")
		default:
			return phase(g, "full", 8, "Full")
		}
	}
	switch {
	case elong <= c.cfg.CombustOrb:
		return phase(g, "combust_west", 14, "Combust (west)")
	case elong <= beams:
		return phase(g, "under_beams_west", 13, "Under beams (west)")
	case elong <= 45:
		return phase(g, "waning_crescent", 12, "Waning crescent")
	case elong <= 90:
		return phase(g, "waning_quarter", 11, "Waning quarter")
	case elong <= 135:
		return phase(g, "waning_gibbous", 10, "Waning gibbous")
	default:
		return phase(g, "waning_near_full", 9, "Waning near full")
	}
}
