package ephemeris

import (
	_ "embed"
	"os"
	"time"

	"github.com/ppiankov/almuten/internal/model"
	"github.com/ppiankov/almuten/internal/zodiac"
	"gopkg.in/yaml.v3"
)

// Precession in longitude, degrees per Julian year (50.29")
const precessionPerYear = 50.29 / 3600

//go:embed stars.yaml
var builtinCatalog []byte

type catalogFile struct {
	Stars []model.StarPosition `yaml:"stars"`
}

// DefaultCatalog returns the built-in bright-star catalog (J2000)
func DefaultCatalog() []model.StarPosition {
	stars, err := parseCatalog(builtinCatalog)
	if err != nil {
		panic("ephemeris: built-in star catalog: " + err.Error())
	}
	return stars
}

// LoadCatalog reads a YAML star catalog with J2000 longitudes
func LoadCatalog(path string) ([]model.StarPosition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, model.ConfigErrorf("stars.catalog", err, "cannot read star catalog %s", path)
	}
	stars, err := parseCatalog(data)
	if err != nil {
		return nil, model.ConfigErrorf("stars.catalog", err, "cannot parse star catalog %s", path)
	}
	return stars, nil
}

func parseCatalog(data []byte) ([]model.StarPosition, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	return f.Stars, nil
}

// Precess advances J2000 catalog longitudes to the epoch of t
func Precess(catalog []model.StarPosition, t time.Time) []model.StarPosition {
	years := (JulianDay(t) - jdJ2000) / 365.25
	shift := years * precessionPerYear
	out := make([]model.StarPosition, len(catalog))
	for i, s := range catalog {
		s.Longitude = zodiac.Normalize(s.Longitude + shift)
		out[i] = s
	}
	return out
}
