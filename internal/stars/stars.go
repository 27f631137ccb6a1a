// Package stars finds bright fixed stars conjunct the planets.
package stars

import (
	"sort"

	"github.com/ppiankov/almuten/internal/model"
	"github.com/ppiankov/almuten/internal/zodiac"
)

// Locator matches planets against a star list already precessed to the chart epoch
type Locator struct {
	cfg   model.StarConfig
	stars []model.StarPosition
}

// NewLocator keeps the stars bright enough to count
func NewLocator(cfg model.StarConfig, catalog []model.StarPosition) *Locator {
	l := &Locator{cfg: cfg}
	for _, s := range catalog {
		if s.Magnitude <= cfg.MaxMagnitude {
			l.stars = append(l.stars, s)
		}
	}
	return l
}

// Len returns how many stars passed the magnitude cut
func (l *Locator) Len() int { return len(l.stars) }

// Conjunctions lists the stars within orb of lon, tightest first.
// The window is symmetric around the star.
func (l *Locator) Conjunctions(lon float64) []model.StarHit {
	var hits []model.StarHit
	for _, s := range l.stars {
		orb := zodiac.Separation(lon, s.Longitude)
		if orb <= l.cfg.Orb {
			hits = append(hits, model.StarHit{
				Star:      s.Name,
				Longitude: s.Longitude,
				Magnitude: s.Magnitude,
				Orb:       orb,
			})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Orb != hits[j].Orb {
			return hits[i].Orb < hits[j].Orb
		}
		return hits[i].Magnitude < hits[j].Magnitude
	})
	return hits
}
