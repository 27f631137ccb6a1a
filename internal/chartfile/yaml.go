package chartfile

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ppiankov/almuten/internal/model"
	"gopkg.in/yaml.v3"
)

// chartYAML is the on-disk YAML chart. Time is either RFC 3339 with an
// offset, or a local civil time read with TZOffset.
type chartYAML struct {
	Name        string  `yaml:"name"`
	Time        string  `yaml:"time"`
	TZOffset    float64 `yaml:"tz_offset_hours"`
	Latitude    float64 `yaml:"latitude"`
	Longitude   float64 `yaml:"longitude"`
	HouseSystem string  `yaml:"house_system"`
	Zodiac      string  `yaml:"zodiac"`
}

var localLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04",
}

// ParseYAML decodes a YAML chart
func ParseYAML(data []byte) (model.ChartInput, error) {
	var c chartYAML
	if err := yaml.Unmarshal(data, &c); err != nil {
		return model.ChartInput{}, model.InputErrorf("chart", "cannot parse YAML chart: %v", err)
	}
	t, err := parseTime(strings.TrimSpace(c.Time), c.TZOffset)
	if err != nil {
		return model.ChartInput{}, err
	}
	return model.ChartInput{
		Name:        c.Name,
		Time:        t,
		TZOffset:    c.TZOffset,
		Latitude:    c.Latitude,
		Longitude:   c.Longitude,
		HouseSystem: c.HouseSystem,
		Zodiac:      c.Zodiac,
	}, nil
}

func parseTime(s string, offset float64) (time.Time, error) {
	if s == "" {
		return time.Time{}, model.InputErrorf("time", "birth time is required")
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	for _, layout := range localLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Add(-time.Duration(math.Round(offset * float64(time.Hour)))), nil
		}
	}
	return time.Time{}, model.InputErrorf("time", "unrecognized time %q", s)
}

// Load reads a chart file by extension (.hor, .yaml, .yml), then
// normalizes and validates it
func Load(path string) (model.ChartInput, error) {
	var (
		c   model.ChartInput
		err error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".hor":
		c, err = LoadHor(path)
	case ".yaml", ".yml":
		var data []byte
		data, err = os.ReadFile(path)
		if err != nil {
			return model.ChartInput{}, model.InputErrorf("chart", "cannot read %s: %v", path, err)
		}
		c, err = ParseYAML(data)
	default:
		return model.ChartInput{}, model.InputErrorf("chart", "unsupported chart file %s (want .hor, .yaml or .yml)", path)
	}
	if err != nil {
		return model.ChartInput{}, err
	}
	if c.Name == "" {
		c.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	c = c.Normalized()
	if err := c.Validate(); err != nil {
		return model.ChartInput{}, err
	}
	return c, nil
}
