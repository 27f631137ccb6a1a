package relate

import (
	"math"

	"github.com/ppiankov/almuten/internal/model"
	"github.com/ppiankov/almuten/internal/motion"
)

func (c *chart) speed(b model.Body) float64 {
	return math.Abs(c.pos[b].Speed)
}

// naturallyFaster compares mean daily motion rather than the chart's speeds
func naturallyFaster(a, b model.Body) bool {
	return motion.MeanSpeed(a) > motion.MeanSpeed(b)
}

func (c *chart) aspected(a, b model.Body) bool {
	_, ok := c.aspects.Get(a, b)
	return ok
}

// perfecting reports an aspect from b that is closing and that b's own
// motion helps to close
func (c *chart) perfecting(b, other model.Body) bool {
	f, ok := c.aspects.Get(b, other)
	return ok && f.Applying && f.FromApplying
}

// translations finds a direct body, faster than both ends, separating from
// one and applying to another while the two ends do not aspect each other
func (c *chart) translations() []model.Translation {
	var out []model.Translation
	for _, t := range c.bodies {
		if c.pos[t].Speed <= 0 {
			continue
		}
		for _, from := range c.bodies {
			if from == t {
				continue
			}
			f, ok := c.aspects.Get(t, from)
			if !ok || f.Applying {
				continue
			}
			for _, to := range c.bodies {
				if to == t || to == from {
					continue
				}
				if !c.perfecting(t, to) || c.aspected(from, to) {
					continue
				}
				if c.speed(t) <= c.speed(from) || c.speed(t) <= c.speed(to) {
					continue
				}
				out = append(out, model.Translation{
					Translator:       t,
					From:             from,
					To:               to,
					NaturallyFastest: naturallyFaster(t, from) && naturallyFaster(t, to),
				})
			}
		}
	}
	return out
}

// collections finds a body slower than two others that both apply to it
// while not aspecting each other
func (c *chart) collections() []model.Collection {
	var out []model.Collection
	for _, k := range c.bodies {
		for i, a := range c.bodies {
			if a == k {
				continue
			}
			for _, b := range c.bodies[i+1:] {
				if b == k {
					continue
				}
				if c.speed(k) >= c.speed(a) || c.speed(k) >= c.speed(b) {
					continue
				}
				if !c.perfecting(a, k) || !c.perfecting(b, k) || c.aspected(a, b) {
					continue
				}
				col := model.Collection{
					Collector:                k,
					A:                        a,
					B:                        b,
					CollectorNaturallySlower: naturallyFaster(a, k) && naturallyFaster(b, k),
					NaturallyFastest:         b,
				}
				if naturallyFaster(a, b) {
					col.NaturallyFastest = a
				}
				out = append(out, col)
			}
		}
	}
	return out
}

// feral marks bodies with no applying aspect to any other body
func (c *chart) feral() {
	for _, b := range c.bodies {
		feral := true
		for _, f := range c.aspects.Of(b) {
			if f.Applying {
				feral = false
				break
			}
		}
		c.facts[b].Feral = feral
	}
}
