package model

import (
	"math"
	"strings"
	"time"
)

// House system tags accepted in ChartInput
const (
	HouseSystemWholeSign = "W" // Whole sign houses from the rising sign
	HouseSystemEqual     = "E" // Equal 30° houses from the Ascendant degree
)

// ZodiacTropical is the only zodiac tag the engine evaluates
const ZodiacTropical = "T"

// ChartInput is the normalized chart description fed to the pipeline
type ChartInput struct {
	Name        string    `json:"name" yaml:"name"`
	Time        time.Time `json:"time" yaml:"time"`                                         // Birth instant (stored in UTC)
	TZOffset    float64   `json:"tz_offset_hours,omitempty" yaml:"tz_offset_hours,omitempty"` // Civil offset, informational only
	Latitude    float64   `json:"latitude" yaml:"latitude"`                                 // Decimal degrees, north positive
	Longitude   float64   `json:"longitude" yaml:"longitude"`                               // Decimal degrees, east positive
	HouseSystem string    `json:"house_system" yaml:"house_system"`
	Zodiac      string    `json:"zodiac" yaml:"zodiac"`
}

// Normalized returns a copy with UTC time and default tags filled in
func (c ChartInput) Normalized() ChartInput {
	c.Time = c.Time.UTC()
	c.HouseSystem = strings.ToUpper(strings.TrimSpace(c.HouseSystem))
	if c.HouseSystem == "" {
		c.HouseSystem = HouseSystemWholeSign
	}
	c.Zodiac = strings.ToUpper(strings.TrimSpace(c.Zodiac))
	if c.Zodiac == "" {
		c.Zodiac = ZodiacTropical
	}
	return c
}

// Validate rejects charts the pipeline cannot evaluate
func (c ChartInput) Validate() error {
	if c.Time.IsZero() {
		return InputErrorf("time", "birth time is required")
	}
	if math.IsNaN(c.Latitude) || c.Latitude < -90 || c.Latitude > 90 {
		return InputErrorf("latitude", "%v is outside [-90, 90]", c.Latitude)
	}
	if math.IsNaN(c.Longitude) || c.Longitude < -180 || c.Longitude > 180 {
		return InputErrorf("longitude", "%v is outside [-180, 180]", c.Longitude)
	}
	switch c.HouseSystem {
	case HouseSystemWholeSign, HouseSystemEqual:
	default:
		return InputErrorf("house_system", "unsupported house system %q (want W or E)", c.HouseSystem)
	}
	if c.Zodiac != ZodiacTropical {
		return InputErrorf("zodiac", "unsupported zodiac %q (only tropical T is evaluated)", c.Zodiac)
	}
	return nil
}

// Coordinates is what the ephemeris oracle returns for one body
type Coordinates struct {
	Longitude float64 `json:"longitude"` // Ecliptic longitude in [0, 360)
	Latitude  float64 `json:"latitude"`
	Speed     float64 `json:"speed"` // Degrees of longitude per day, negative when retrograde
}

// Houses holds the chart angles and the twelve cusps
type Houses struct {
	System    string      `json:"system"`
	Ascendant float64     `json:"ascendant"`
	MC        float64     `json:"mc"`
	Cusps     [12]float64 `json:"cusps"` // Cusps[0] is the first house
}

// BodyPosition is a body's placement in a specific chart
type BodyPosition struct {
	Body       Body    `json:"body"`
	Longitude  float64 `json:"longitude"`
	Latitude   float64 `json:"latitude"`
	Speed      float64 `json:"speed"`
	House      int     `json:"house"` // 1..12
	Retrograde bool    `json:"retrograde"`
}

// StarPosition is a catalog star at a given epoch
type StarPosition struct {
	Name      string  `json:"name" yaml:"name"`
	Longitude float64 `json:"longitude" yaml:"longitude"`
	Magnitude float64 `json:"magnitude" yaml:"magnitude"`
}

// SolarDay brackets an instant by the sunrise that opened its planetary day
type SolarDay struct {
	Sunrise     time.Time `json:"sunrise"`
	Sunset      time.Time `json:"sunset"`
	NextSunrise time.Time `json:"next_sunrise"`
}

// SyzygyKind tells new moon from full moon
type SyzygyKind string

const (
	NewMoon  SyzygyKind = "new"
	FullMoon SyzygyKind = "full"
)

// Syzygy is the last lunation before the chart moment
type Syzygy struct {
	Kind      SyzygyKind `json:"kind"`
	Time      time.Time  `json:"time"`
	Longitude float64    `json:"longitude"` // Conjunction degree, or the longitude of the luminary above the horizon at a full moon
	Luminary  Body       `json:"luminary,omitempty"`
}
