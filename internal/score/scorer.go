// Package score aggregates essential and accidental points into the
// Almuten Figuris ladder.
package score

import (
	"fmt"
	"sort"

	"github.com/ppiankov/almuten/internal/dignity"
	"github.com/ppiankov/almuten/internal/model"
	"github.com/ppiankov/almuten/internal/zodiac"
)

// Input is everything the scorer reads from an analysed chart
type Input struct {
	Positions []model.BodyPosition // House must be set
	Houses    model.Houses
	ChartSect model.ChartSect
	Syzygy    model.Syzygy
	Planetary model.PlanetaryTime
}

// Scorer calculates the Almuten ladder
type Scorer struct {
	cfg model.ScoringConfig
}

// NewScorer creates a new scorer
func NewScorer(cfg model.ScoringConfig) *Scorer {
	return &Scorer{cfg: cfg}
}

// Fortune returns the Lot of Fortune: Asc + Moon - Sun by day, Asc + Sun - Moon by night
func Fortune(asc, sun, moon float64, sect model.ChartSect) float64 {
	if sect == model.DayChart {
		return zodiac.Normalize(asc + moon - sun)
	}
	return zodiac.Normalize(asc + sun - moon)
}

// Calculate builds the full score table. The result does not depend on the
// order of positions.
func (s *Scorer) Calculate(in Input) model.ScoreTable {
	pos := make(map[model.Body]model.BodyPosition, len(in.Positions))
	for _, p := range in.Positions {
		pos[p.Body] = p
	}
	sun, moon := pos[model.Sun].Longitude, pos[model.Moon].Longitude

	points := []struct {
		name model.SensitivePoint
		lon  float64
	}{
		{model.PointSun, sun},
		{model.PointMoon, moon},
		{model.PointAscendant, in.Houses.Ascendant},
		{model.PointFortune, Fortune(in.Houses.Ascendant, sun, moon, in.ChartSect)},
		{model.PointSyzygy, in.Syzygy.Longitude},
	}

	table := model.ScoreTable{}
	records := make(map[model.Body]*model.ScoreRecord, len(model.ChaldeanOrder))
	for _, b := range model.ChaldeanOrder {
		records[b] = &model.ScoreRecord{Body: b}
	}

	for _, pt := range points {
		c := s.contribution(pt.name, pt.lon)
		for b, tiers := range c.Weights {
			records[b].EssentialShares += len(tiers)
			records[b].Essential += c.Totals[b]
		}
		table.Points = append(table.Points, c)
	}

	for _, b := range model.ChaldeanOrder {
		r := records[b]
		if r.Essential > 0 {
			table.Signals = append(table.Signals, s.essentialSignal(b, r, table.Points))
		}

		p, ok := pos[b]
		if ok {
			var sig model.Signal
			r.House, sig = s.calculateHouse(p)
			if r.House > 0 {
				table.Signals = append(table.Signals, sig)
			}
			r.Phase, sig = s.calculatePhase(p, sun)
			if r.Phase > 0 {
				table.Signals = append(table.Signals, sig)
			}
		}
		if b == in.Planetary.DayRuler {
			r.DayRuler = s.cfg.DayRulerBonus
			table.Signals = append(table.Signals, model.Signal{
				Type:        model.SignalDayRuler,
				Body:        b,
				Points:      r.DayRuler,
				Description: fmt.Sprintf("%s rules the planetary day", b),
				Data: map[string]any{
					"score":   r.DayRuler,
					"formula": "day_ruler_bonus when the body rules the weekday opened by sunrise",
				},
			})
		}
		if b == in.Planetary.HourRuler {
			r.HourRuler = s.cfg.HourRulerBonus
			table.Signals = append(table.Signals, model.Signal{
				Type:        model.SignalHourRuler,
				Body:        b,
				Points:      r.HourRuler,
				Description: fmt.Sprintf("%s rules planetary hour %d", b, in.Planetary.Hour),
				Data: map[string]any{
					"hour":    in.Planetary.Hour,
					"daytime": in.Planetary.Daytime,
					"score":   r.HourRuler,
					"formula": "hour_ruler_bonus when the body rules the planetary hour",
				},
			})
		}

		r.Accidental = r.House + r.Phase + r.DayRuler + r.HourRuler
		r.Total = r.Essential + r.Accidental
		table.Records = append(table.Records, *r)
	}

	table.Almuten, table.Contenders = SelectAlmuten(table.Records)
	if len(table.Contenders) > 1 {
		table.Signals = append(table.Signals, tiebreakSignal(table.Almuten, table.Contenders, table.Records))
	}
	return table
}

// contribution weighs every dignity held at one sensitive point
func (s *Scorer) contribution(name model.SensitivePoint, lon float64) model.EssentialContribution {
	c := model.EssentialContribution{
		Point:     name,
		Longitude: lon,
		Weights:   make(map[model.Body][]model.WeightedTier),
		Totals:    make(map[model.Body]int, len(model.ChaldeanOrder)),
	}
	holders := dignity.Holders(lon)
	best := 0
	for _, b := range model.ChaldeanOrder {
		total := 0
		for _, t := range holders[b] {
			w := s.cfg.Weights.Weight(t)
			c.Weights[b] = append(c.Weights[b], model.WeightedTier{Tier: t, Weight: w})
			total += w
		}
		c.Totals[b] = total
		if total > best {
			best = total
		}
	}
	if best > 0 {
		for _, b := range model.ChaldeanOrder {
			if c.Totals[b] == best {
				c.Winners = append(c.Winners, b)
			}
		}
	}
	return c
}

func (s *Scorer) essentialSignal(b model.Body, r *model.ScoreRecord, points []model.EssentialContribution) model.Signal {
	perPoint := make(map[string]int, len(points))
	for _, c := range points {
		if c.Totals[b] > 0 {
			perPoint[string(c.Point)] = c.Totals[b]
		}
	}
	return model.Signal{
		Type:        model.SignalEssential,
		Body:        b,
		Points:      r.Essential,
		Description: fmt.Sprintf("%s holds %d dignities over the sensitive points", b, r.EssentialShares),
		Data: map[string]any{
			"shares":  r.EssentialShares,
			"points":  perPoint,
			"score":   r.Essential,
			"formula": "sum of tier weights (domicile, exaltation, triplicity, term, face) at sun, moon, ascendant, fortune and syzygy",
		},
	}
}

// calculateHouse scores house placement: angular > succedent > cadent
func (s *Scorer) calculateHouse(p model.BodyPosition) (int, model.Signal) {
	score := s.cfg.House(p.House)
	return score, model.Signal{
		Type:        model.SignalHouse,
		Body:        p.Body,
		Points:      score,
		Description: fmt.Sprintf("%s in house %d", p.Body, p.House),
		Data: map[string]any{
			"house":   p.House,
			"score":   score,
			"formula": "house_strength[house-1]",
		},
	}
}

// calculatePhase scores a direct superior planet by its elongation from the Sun
func (s *Scorer) calculatePhase(p model.BodyPosition, sunLon float64) (int, model.Signal) {
	elong := zodiac.Separation(p.Longitude, sunLon)
	score := 0
	if p.Body.IsSuperior() && p.Speed > 0 {
		score = s.phaseBand(elong)
	}
	return score, model.Signal{
		Type:        model.SignalPhase,
		Body:        p.Body,
		Points:      score,
		Description: fmt.Sprintf("%s direct, %.1f° from the Sun", p.Body, elong),
		Data: map[string]any{
			"elongation": elong,
			"speed":      p.Speed,
			"score":      score,
			"formula":    "first phase band containing the elongation, superior planets in direct motion only",
		},
	}
}

func (s *Scorer) phaseBand(elong float64) int {
	for _, band := range s.cfg.PhaseBands {
		if elong >= band.Min && elong <= band.Max {
			return band.Points
		}
	}
	return 0
}

// SelectAlmuten picks the highest grand total. Equal totals are broken by
// essential score, then accidental score, then Chaldean rank. Contenders
// lists every body sharing the top total, in Chaldean order.
func SelectAlmuten(records []model.ScoreRecord) (model.Body, []model.Body) {
	if len(records) == 0 {
		return model.NoBody, nil
	}
	sorted := make([]model.ScoreRecord, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Body.Rank() < sorted[j].Body.Rank() })

	top := sorted[0].Total
	for _, r := range sorted[1:] {
		if r.Total > top {
			top = r.Total
		}
	}

	var contenders []model.ScoreRecord
	for _, r := range sorted {
		if r.Total == top {
			contenders = append(contenders, r)
		}
	}
	// Stable keeps Chaldean rank as the last key
	sort.SliceStable(contenders, func(i, j int) bool {
		a, b := contenders[i], contenders[j]
		if a.Essential != b.Essential {
			return a.Essential > b.Essential
		}
		return a.Accidental > b.Accidental
	})

	bodies := make([]model.Body, 0, len(contenders))
	for _, r := range sorted {
		if r.Total == top {
			bodies = append(bodies, r.Body)
		}
	}
	return contenders[0].Body, bodies
}

func tiebreakSignal(winner model.Body, contenders []model.Body, records []model.ScoreRecord) model.Signal {
	var total int
	for _, r := range records {
		if r.Body == winner {
			total = r.Total
		}
	}
	return model.Signal{
		Type:        model.SignalTiebreak,
		Body:        winner,
		Description: fmt.Sprintf("%d bodies share the top total of %d", len(contenders), total),
		Data: map[string]any{
			"contenders": contenders,
			"total":      total,
			"formula":    "highest essential, then highest accidental, then Chaldean order",
		},
	}
}
