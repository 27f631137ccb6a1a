package relate

import (
	"github.com/ppiankov/almuten/internal/dignity"
	"github.com/ppiankov/almuten/internal/model"
	"github.com/ppiankov/almuten/internal/zodiac"
)

// conjunctionOrb is the co-presence distance within one sign that counts as
// a bodily conjunction
const conjunctionOrb = 3.0

// favorable reports a benefic able to help: not in detriment or fall
func (c *chart) favorable(b model.Body) bool {
	d := c.dignity[b]
	return b.IsBenefic() && !d.Detriment && !d.Fall
}

// harmful reports a malefic able to hurt: out of sect or undignified
func (c *chart) harmful(b model.Body) bool {
	return b.IsMalefic() && (!c.sect[b].InSect || c.dignity[b].Undignified())
}

type influences []model.Influence

func (in *influences) add(source model.Body, reason string) {
	for _, i := range *in {
		if i.Source == source && i.Reason == reason {
			return
		}
	}
	*in = append(*in, model.Influence{Source: source, Reason: reason})
}

// conditions collects bonification and maltreatment from rays, bodily
// conjunctions, dominations, the dispositor and enclosures. Must run after
// dominations and enclosures.
func (c *chart) conditions() {
	for _, b := range c.bodies {
		var bon, mal influences
		rf := c.facts[b]

		for _, f := range c.aspects.Of(b) {
			other := f.To
			ray := "ray_" + string(f.Kind)
			if c.favorable(other) {
				bon.add(other, ray)
				if f.Applying {
					bon.add(other, "applying")
				}
				if f.Kind == model.Trine {
					bon.add(other, "trine")
				}
			}
			if c.harmful(other) {
				mal.add(other, ray)
				if f.Applying {
					mal.add(other, "applying")
				}
				if f.Kind == model.Opposition {
					mal.add(other, "opposition")
				}
			}
		}

		for _, o := range c.bodies {
			if o == b || c.sign(o) != c.sign(b) {
				continue
			}
			if zodiac.Separation(c.pos[b].Longitude, c.pos[o].Longitude) > conjunctionOrb {
				continue
			}
			if c.favorable(o) {
				bon.add(o, "conjunction")
			}
			if c.harmful(o) {
				mal.add(o, "conjunction")
			}
		}

		for _, d := range rf.DominatedBy {
			reason := "domination_" + string(d.Kind)
			if c.favorable(d.Dominator) {
				bon.add(d.Dominator, reason)
			}
			if c.harmful(d.Dominator) {
				mal.add(d.Dominator, reason)
			}
		}
		for _, d := range rf.Dominates {
			if !d.CounterRay {
				continue
			}
			reason := "counter_ray_" + string(d.Kind)
			if c.favorable(d.Dominated) {
				bon.add(d.Dominated, reason)
			}
			if c.harmful(d.Dominated) {
				mal.add(d.Dominated, reason)
			}
		}

		if ruler := dignity.Ruler(c.sign(b)); ruler != b && c.has(ruler) {
			if c.favorable(ruler) {
				bon.add(ruler, "dispositor")
			}
			if c.harmful(ruler) {
				mal.add(ruler, "dispositor")
			}
		}

		for _, e := range rf.Enclosures {
			reason := "enclosure_by_" + string(e.Mode)
			switch e.Nature {
			case model.Benefic:
				bon.add(e.Behind, reason)
				bon.add(e.Ahead, reason)
			case model.Malefic:
				mal.add(e.Behind, reason)
				mal.add(e.Ahead, reason)
			}
		}

		rf.Bonifications, rf.Bonified = bon, len(bon) > 0
		rf.Maltreatments, rf.Maltreated = mal, len(mal) > 0
	}
}
