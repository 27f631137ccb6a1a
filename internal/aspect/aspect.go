// Package aspect finds Ptolemaic aspects between planets.
package aspect

import (
	"math"
	"sort"

	"github.com/ppiankov/almuten/internal/model"
	"github.com/ppiankov/almuten/internal/zodiac"
)

// Engine evaluates aspects using per-body orbs
type Engine struct {
	orbs model.AspectConfig
}

// NewEngine creates an aspect engine
func NewEngine(cfg model.AspectConfig) *Engine {
	return &Engine{orbs: cfg}
}

// MaxOrb returns the orb window for a pair: the larger of the two body orbs
func (e *Engine) MaxOrb(a, b model.Body) float64 {
	return math.Max(e.orbs.Orb(a), e.orbs.Orb(b))
}

// Between returns the aspect a casts to b, if any.
//
// Applying compares the separation's rate of change with its deviation from
// exactness, so a retrograde body can apply while moving "backwards".
// Polarity follows zodiacal order: a ray cast onto a body ahead (within 180°)
// is sinister, onto a body behind is dexter.
func (e *Engine) Between(a, b model.BodyPosition) (model.AspectFact, bool) {
	sep := zodiac.Separation(a.Longitude, b.Longitude)
	maxOrb := e.MaxOrb(a.Body, b.Body)

	var kind model.AspectKind
	best := math.Inf(1)
	for _, k := range model.AspectKinds {
		dev := math.Abs(sep - k.Angle())
		if dev <= maxOrb && dev < best {
			kind, best = k, dev
		}
	}
	if kind == "" {
		return model.AspectFact{}, false
	}

	fwd := zodiac.Forward(a.Longitude, b.Longitude)
	forward := fwd > 0 && fwd < 180

	// d(separation)/dt split into each body's share
	rateA, rateB := -a.Speed, b.Speed
	if fwd >= 180 {
		rateA, rateB = a.Speed, -b.Speed
	}
	dev := sep - kind.Angle()

	f := model.AspectFact{
		From:         a.Body,
		To:           b.Body,
		Kind:         kind,
		Angle:        kind.Angle(),
		Separation:   sep,
		Deviation:    dev,
		Orb:          math.Abs(dev),
		MaxOrb:       maxOrb,
		Forward:      forward,
		Applying:     dev*(rateA+rateB) < 0,
		FromApplying: dev*rateA < 0,
		ToApplying:   dev*rateB < 0,
		Polarity:     model.PolarityNone,
	}
	f.MutualApplication = f.FromApplying && f.ToApplying
	f.MutualSeparation = dev*rateA > 0 && dev*rateB > 0

	if kind != model.Conjunction && kind != model.Opposition {
		if forward {
			f.Polarity = model.Sinister
		} else {
			f.Polarity = model.Dexter
		}
	}
	return f, true
}

// All returns one aspect per aspected pair, oriented from the higher-ranking
// body in the Chaldean order, sorted tightest first. The result does not
// depend on the order of positions.
func (e *Engine) All(positions []model.BodyPosition) []model.AspectFact {
	ordered := make([]model.BodyPosition, len(positions))
	copy(ordered, positions)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Body.Rank() < ordered[j].Body.Rank()
	})

	var out []model.AspectFact
	for i := 0; i < len(ordered); i++ {
		for j := i + 1; j < len(ordered); j++ {
			if f, ok := e.Between(ordered[i], ordered[j]); ok {
				out = append(out, f)
			}
		}
	}
	Sort(out)
	return out
}

// Sort orders aspects by orb, then by the Chaldean rank of their ends
func Sort(facts []model.AspectFact) {
	sort.SliceStable(facts, func(i, j int) bool {
		if facts[i].Orb != facts[j].Orb {
			return facts[i].Orb < facts[j].Orb
		}
		if facts[i].From.Rank() != facts[j].From.Rank() {
			return facts[i].From.Rank() < facts[j].From.Rank()
		}
		return facts[i].To.Rank() < facts[j].To.Rank()
	})
}

// Index gives constant-time lookup of the aspect between two bodies
type Index map[[2]model.Body]model.AspectFact

// NewIndex builds an Index from a fact list
func NewIndex(facts []model.AspectFact) Index {
	idx := make(Index, len(facts)*2)
	for _, f := range facts {
		idx[[2]model.Body{f.From, f.To}] = f
		idx[[2]model.Body{f.To, f.From}] = f.Reverse()
	}
	return idx
}

// Get returns the aspect oriented from a to b
func (idx Index) Get(a, b model.Body) (model.AspectFact, bool) {
	f, ok := idx[[2]model.Body{a, b}]
	return f, ok
}

// Of returns every aspect involving b, oriented from b
func (idx Index) Of(b model.Body) []model.AspectFact {
	var out []model.AspectFact
	for key, f := range idx {
		if key[0] == b {
			out = append(out, f)
		}
	}
	Sort(out)
	return out
}
