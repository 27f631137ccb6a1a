// Package relate derives cross-body relationships once every single-body
// fact is known: receptions, dominations, enclosures, bonification and
// maltreatment, translation and collection of light, feral status,
// antiscia and domicile aversion.
package relate

import (
	"sort"

	"github.com/ppiankov/almuten/internal/aspect"
	"github.com/ppiankov/almuten/internal/model"
	"github.com/ppiankov/almuten/internal/zodiac"
)

// Input is the joined output of the single-body passes
type Input struct {
	Positions []model.BodyPosition
	Dignity   map[model.Body]model.DignityFacts
	Sect      map[model.Body]model.SectFacts
	Aspects   []model.AspectFact
}

// Analyzer runs the relationship pass
type Analyzer struct {
	cfg model.RelationConfig
}

// NewAnalyzer creates a relationship analyzer
func NewAnalyzer(cfg model.RelationConfig) *Analyzer {
	return &Analyzer{cfg: cfg}
}

// chart is the working view of one Input
type chart struct {
	bodies  []model.Body // Chaldean order
	pos     map[model.Body]model.BodyPosition
	dignity map[model.Body]model.DignityFacts
	sect    map[model.Body]model.SectFacts
	aspects aspect.Index
	facts   map[model.Body]*model.RelationshipFacts
}

func newChart(in Input) *chart {
	c := &chart{
		pos:     make(map[model.Body]model.BodyPosition, len(in.Positions)),
		dignity: in.Dignity,
		sect:    in.Sect,
		aspects: aspect.NewIndex(in.Aspects),
		facts:   make(map[model.Body]*model.RelationshipFacts, len(in.Positions)),
	}
	for _, p := range in.Positions {
		c.pos[p.Body] = p
		c.bodies = append(c.bodies, p.Body)
		c.facts[p.Body] = &model.RelationshipFacts{}
	}
	sort.Slice(c.bodies, func(i, j int) bool { return c.bodies[i].Rank() < c.bodies[j].Rank() })
	return c
}

func (c *chart) has(b model.Body) bool {
	_, ok := c.pos[b]
	return ok
}

func (c *chart) sign(b model.Body) model.Sign {
	return zodiac.SignOf(c.pos[b].Longitude)
}

// Analyze derives every relationship. The result depends only on the input
// and not on the order of positions or aspects.
func (a *Analyzer) Analyze(in Input) model.ChartRelationships {
	c := newChart(in)
	out := model.ChartRelationships{Bodies: make(map[model.Body]model.RelationshipFacts, len(c.bodies))}

	out.MutualReceptions = c.receptions()
	c.dominations(a.cfg.CounterRayOrb)
	c.enclosures()
	c.conditions()
	out.Translations = c.translations()
	out.Collections = c.collections()
	c.feral()
	c.antiscia()
	c.aversions(out.Translations)

	for _, b := range c.bodies {
		out.Bodies[b] = *c.facts[b]
	}
	return out
}

// receptions records every host dignified at a guest's place and returns
// the mutual pairs
func (c *chart) receptions() []model.MutualReception {
	for _, guest := range c.bodies {
		for _, host := range c.bodies {
			if host == guest {
				continue
			}
			tiers := c.dignity[guest].HeldBy(host)
			if len(tiers) == 0 {
				continue
			}
			r := model.Reception{Guest: guest, Host: host, Tiers: tiers}
			if f, ok := c.aspects.Get(guest, host); ok {
				r.Aspect = f.Kind
			} else {
				r.Generosity = true
			}
			c.facts[guest].ReceivedBy = append(c.facts[guest].ReceivedBy, r)
			c.facts[host].Receives = append(c.facts[host].Receives, r)
		}
	}

	var mutual []model.MutualReception
	for i, a := range c.bodies {
		for _, b := range c.bodies[i+1:] {
			aTiers := c.dignity[b].HeldBy(a)
			bTiers := c.dignity[a].HeldBy(b)
			if len(aTiers) == 0 || len(bTiers) == 0 {
				continue
			}
			m := model.MutualReception{A: a, B: b, ATiers: aTiers, BTiers: bTiers}
			if f, ok := c.aspects.Get(a, b); ok {
				m.Aspect = f.Kind
			}
			mutual = append(mutual, m)
		}
	}
	return mutual
}

// overcoming maps the sign count from the dominated to the dominator onto the figure
var overcoming = map[int]model.AspectKind{
	8:  model.Trine,   // 9th sign
	9:  model.Square,  // 10th sign
	10: model.Sextile, // 11th sign
}

// dominations finds bodies in the 9th, 10th or 11th sign from another.
// The dominated body answers with a counter-ray when the matching aspect
// is within counterRayOrb.
func (c *chart) dominations(counterRayOrb float64) {
	for _, dominated := range c.bodies {
		for _, dominator := range c.bodies {
			if dominator == dominated {
				continue
			}
			kind, ok := overcoming[zodiac.SignDistance(c.sign(dominated), c.sign(dominator))]
			if !ok {
				continue
			}
			d := model.Domination{
				Dominator:  dominator,
				Dominated:  dominated,
				Kind:       kind,
				Decimation: kind == model.Square,
			}
			if f, ok := c.aspects.Get(dominator, dominated); ok && f.Kind == kind {
				d.Orb = f.Orb
				d.Applying = f.Applying
				d.CounterRay = f.Orb <= counterRayOrb
			}
			c.facts[dominator].Dominates = append(c.facts[dominator].Dominates, d)
			c.facts[dominated].DominatedBy = append(c.facts[dominated].DominatedBy, d)
		}
	}
}

func natureOf(b model.Body) (model.Nature, bool) {
	switch {
	case b.IsBenefic():
		return model.Benefic, true
	case b.IsMalefic():
		return model.Malefic, true
	}
	return "", false
}

func hasNature(b model.Body, n model.Nature) bool {
	got, ok := natureOf(b)
	return ok && got == n
}

// enclosures finds besiegement by sign (both adjacent signs occupied by the
// same nature) and by ray (the nearest rays on either side share a nature)
func (c *chart) enclosures() {
	for _, b := range c.bodies {
		lon := c.pos[b].Longitude
		s := c.sign(b)
		for _, n := range []model.Nature{model.Benefic, model.Malefic} {
			var behind, ahead model.Body
			bestBehind, bestAhead := 360.0, 360.0
			for _, o := range c.bodies {
				if o == b || !hasNature(o, n) {
					continue
				}
				olon := c.pos[o].Longitude
				switch zodiac.SignDistance(s, c.sign(o)) {
				case 11:
					if d := zodiac.Forward(olon, lon); d < bestBehind {
						behind, bestBehind = o, d
					}
				case 1:
					if d := zodiac.Forward(lon, olon); d < bestAhead {
						ahead, bestAhead = o, d
					}
				}
			}
			if behind != model.NoBody && ahead != model.NoBody {
				c.facts[b].Enclosures = append(c.facts[b].Enclosures, model.Enclosure{
					Mode: model.EnclosureBySign, Nature: n, Behind: behind, Ahead: ahead,
				})
			}
		}

		if e, ok := c.rayEnclosure(b); ok {
			c.facts[b].Enclosures = append(c.facts[b].Enclosures, e)
		}
	}
}

// rayOffset is where the ray cast by f.To lands relative to f.From;
// positive is ahead in zodiacal order
func rayOffset(f model.AspectFact) float64 {
	if f.Forward {
		return f.Separation - f.Angle
	}
	return f.Angle - f.Separation
}

func (c *chart) rayEnclosure(b model.Body) (model.Enclosure, bool) {
	var behind, ahead model.Body
	nearBehind, nearAhead := -360.0, 360.0
	for _, f := range c.aspects.Of(b) {
		off := rayOffset(f)
		switch {
		case off > 0 && off < nearAhead:
			ahead, nearAhead = f.To, off
		case off < 0 && off > nearBehind:
			behind, nearBehind = f.To, off
		}
	}
	if behind == model.NoBody || ahead == model.NoBody {
		return model.Enclosure{}, false
	}
	nb, okB := natureOf(behind)
	na, okA := natureOf(ahead)
	if !okB || !okA || nb != na {
		return model.Enclosure{}, false
	}
	return model.Enclosure{Mode: model.EnclosureByRay, Nature: nb, Behind: behind, Ahead: ahead}, true
}
